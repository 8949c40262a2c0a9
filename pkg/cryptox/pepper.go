package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Argon2id parameters.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu   sync.RWMutex
	pepper     string
	pepperFile = "data/pepper"
)

// SetPepperPath configures where the pepper is loaded from (or created at)
// on first use.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// SetPepper installs an explicit pepper, bypassing the file. Tests use this.
func SetPepper(p string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = p
}

// LoadPepper reads the pepper file, creating it with fresh random bytes when
// missing. Call it during startup so a bad path fails fast.
func LoadPepper() error {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	p, err := loadOrGeneratePepper(pepperFile)
	if err != nil {
		return err
	}
	pepper = p
	return nil
}

func currentPepper() (string, error) {
	pepperMu.RLock()
	p := pepper
	pepperMu.RUnlock()
	if p != "" {
		return p, nil
	}
	if err := LoadPepper(); err != nil {
		return "", err
	}
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	return pepper, nil
}

func loadOrGeneratePepper(file string) (string, error) {
	if strings.TrimSpace(file) == "" {
		return "", errors.New("cryptox: pepper path not configured")
	}
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return "", fmt.Errorf("cryptox: create pepper dir: %w", err)
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if p := strings.TrimSpace(string(data)); p != "" {
			return p, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("cryptox: read pepper: %w", err)
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.WriteFile(file, []byte(p), 0o600); err != nil {
		return "", fmt.Errorf("cryptox: write pepper: %w", err)
	}
	return p, nil
}
