// Package session is the authentication gate collaborator: it owns
// the persisted token and answers the single question the rest of the
// client asks — is there a session right now?
//
// Session acquisition and renewal belong to the hosted service; this
// package only stores what `tend login` was handed.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAuthenticated is returned when an authenticated surface is
// used without a stored session.
var ErrNotAuthenticated = errors.New("not signed in (run `tend login <token>`)")

// Gate guards the authenticated surfaces of the client.
type Gate struct {
	path string
}

// NewGate manages the token at path. An empty path uses the
// conventional location next to the config file.
func NewGate(path string) *Gate {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		path = filepath.Join(base, "tend", "session")
	}
	return &Gate{path: path}
}

// Login stores the token.
func (g *Gate) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o700); err != nil {
		return fmt.Errorf("failed to prepare session dir: %w", err)
	}
	if err := os.WriteFile(g.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Logout removes the stored token. Logging out twice is fine.
func (g *Gate) Logout() error {
	err := os.Remove(g.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Session returns the stored token, or ErrNotAuthenticated.
func (g *Gate) Session() (string, error) {
	data, err := os.ReadFile(g.path)
	if os.IsNotExist(err) {
		return "", ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Authenticated reports whether a session is present.
func (g *Gate) Authenticated() bool {
	_, err := g.Session()
	return err == nil
}
