package session_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/tendhq/tend/pkg/session"
)

func TestGate_Lifecycle(t *testing.T) {
	gate := session.NewGate(filepath.Join(t.TempDir(), "session"))

	if gate.Authenticated() {
		t.Error("fresh gate should not be authenticated")
	}
	if _, err := gate.Session(); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}

	if err := gate.Login("  tok-123  "); err != nil {
		t.Fatal(err)
	}
	tok, err := gate.Session()
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok-123" {
		t.Errorf("token not trimmed: %q", tok)
	}
	if !gate.Authenticated() {
		t.Error("gate should be authenticated after login")
	}

	if err := gate.Logout(); err != nil {
		t.Fatal(err)
	}
	if gate.Authenticated() {
		t.Error("gate still authenticated after logout")
	}
	if err := gate.Logout(); err != nil {
		t.Errorf("double logout should be fine: %v", err)
	}
}

func TestGate_EmptyToken(t *testing.T) {
	gate := session.NewGate(filepath.Join(t.TempDir(), "session"))
	if err := gate.Login("   "); err == nil {
		t.Error("blank token must be rejected")
	}
}
