package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/timeclock/pkg/clocksdk"
	"gopkg.in/yaml.v3"
)

// savedSession is the on-disk session file.
type savedSession struct {
	Server string               `yaml:"server"`
	Email  string               `yaml:"email,omitempty"`
	Tokens clocksdk.SavedTokens `yaml:"tokens"`
}

// loadSession returns nil without error when no session is saved.
func (c *cli) loadSession() (*savedSession, error) {
	path, err := c.sessionFile()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s savedSession
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	if s.Tokens.RefreshToken == "" && s.Tokens.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (c *cli) saveSession(s *savedSession) error {
	path, err := c.sessionFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *cli) clearSession() error {
	path, err := c.sessionFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
