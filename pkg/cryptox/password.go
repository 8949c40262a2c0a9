package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrPasswordMismatch is returned by VerifyPassword when the hash does
	// not match the supplied password.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrInvalidHash reports a stored hash that is not a PHC argon2id string.
	ErrInvalidHash = errors.New("invalid hash format")
)

// HashPassword returns a PHC-format Argon2id hash including salt and parameters.
func HashPassword(password string) (string, error) {
	p, err := currentPepper()
	if err != nil {
		return "", err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(password+p), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

type phcParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
func parsePHC(encoded string) (*phcParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("%w: not argon2id", ErrInvalidHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return nil, fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var out phcParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &out.memory, &out.iterations, &out.parallelism); err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}

	var err error
	if out.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	if out.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: hash: %v", ErrInvalidHash, err)
	}
	if len(out.hash) == 0 {
		return nil, fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}
	return &out, nil
}

// VerifyPassword compares a plaintext password against a PHC-style Argon2id
// hash. It returns ErrPasswordMismatch on a wrong password and an
// ErrInvalidHash-wrapped error when the stored hash cannot be parsed.
func VerifyPassword(password, encodedHash string) error {
	params, err := parsePHC(encodedHash)
	if err != nil {
		return err
	}
	p, err := currentPepper()
	if err != nil {
		return err
	}

	computed := argon2.IDKey(
		[]byte(password+p),
		params.salt,
		params.iterations,
		params.memory,
		params.parallelism,
		uint32(len(params.hash)), // #nosec G115 - bounded by the decoded hash
	)
	if subtle.ConstantTimeCompare(computed, params.hash) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// NeedsRehash reports whether encodedHash was produced with parameters other
// than the current ones.
func NeedsRehash(encodedHash string) bool {
	params, err := parsePHC(encodedHash)
	if err != nil {
		return true
	}
	return params.memory != memory ||
		params.iterations != iterations ||
		params.parallelism != parallelism ||
		len(params.hash) != keyLength
}
