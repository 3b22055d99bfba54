package auth_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/example/sentinel/internal/auth"
	"github.com/example/sentinel/internal/core/access"
)

func TestLoadOrCreateSecret_Persists(t *testing.T) {
	dir := t.TempDir()

	first, err := auth.LoadOrCreateSecret(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateSecret failed: %v", err)
	}
	if len(first) != 32 {
		t.Fatalf("expected a 32-byte secret, got %d", len(first))
	}

	second, err := auth.LoadOrCreateSecret(dir)
	if err != nil {
		t.Fatalf("second LoadOrCreateSecret failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected the same secret on subsequent loads")
	}
}

func TestSigner_RoundTrip(t *testing.T) {
	signer := auth.NewSigner([]byte("test-secret"))

	tok, err := signer.Sign("usr_1", access.RoleAdmin, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	sub, err := signer.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if sub != "usr_1" {
		t.Errorf("expected subject usr_1, got %q", sub)
	}
}

func TestSigner_Expired(t *testing.T) {
	signer := auth.NewSigner([]byte("test-secret"))

	tok, err := signer.Sign("usr_1", access.RoleAdmin, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := signer.Parse(tok); err == nil {
		t.Error("expected an expired token to be rejected")
	}
}

func TestSigner_WrongSecret(t *testing.T) {
	signer := auth.NewSigner([]byte("test-secret"))
	other := auth.NewSigner([]byte("other-secret"))

	tok, err := signer.Sign("usr_1", access.RoleAdmin, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := other.Parse(tok); err == nil {
		t.Error("expected a token signed with another secret to be rejected")
	}
}
