package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aussiebroadwan/timeclock/pkg/cryptox"
)

// KeyManager owns the signing keys of one service instance.
//
// Keys are ephemeral: they are generated at startup and never persisted, so
// access tokens become invalid on restart. Clients recover through the
// refresh-token grant, whose tokens live in the database.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []*Signer
}

type KeyManagerOptions struct {
	Issuer   string
	Audience []string

	// NumKeys defaults to 3 and is capped at 10. Signing picks one at random.
	NumKeys int
}

func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	n := opts.NumKeys
	if n <= 0 {
		n = 3
	}
	n = min(n, 10)

	km := &KeyManager{KeySet: NewKeySet()}
	for i := range n {
		signer, err := generateSigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	km.Verifier = NewVerifier(km.KeySet, opts.Issuer, opts.Audience)
	return km, nil
}

func generateSigner() (*Signer, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key ID: %w", err)
	}
	pemBytes, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	return NewSigner("timeclock-"+token, pemBytes)
}

func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a random active signer, or nil when none exist.
func (km *KeyManager) GetSigner() *Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// Sign mints a token with a random active signer.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	s := km.GetSigner()
	if s == nil {
		return "", fmt.Errorf("jwtx: no active signing key")
	}
	return s.Sign(claims)
}

func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner makes signer available for both signing and verification.
func (km *KeyManager) AddSigner(signer *Signer) error {
	if signer == nil {
		return fmt.Errorf("signer cannot be nil")
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("failed to add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)
	return nil
}

// RetireSignerByKid stops signing with kid. The public key stays in the
// KeySet so tokens it already issued keep verifying until they expire.
func (km *KeyManager) RetireSignerByKid(kid string) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if len(km.signers) <= 1 {
		return fmt.Errorf("cannot retire the last signing key")
	}

	kept := make([]*Signer, 0, len(km.signers)-1)
	for _, s := range km.signers {
		if s.KID() != kid {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(km.signers) {
		return fmt.Errorf("signer with kid %q not found", kid)
	}
	km.signers = kept
	return nil
}
