package auth

import (
	"errors"
	"testing"
)

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken(SessionTokenLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRandomToken(SessionTokenLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if len(a) != 43 {
		t.Fatalf("expected 43 base64 characters for 32 bytes, got %d", len(a))
	}
}

func TestHashToken(t *testing.T) {
	h1, err := HashToken("token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, _ := HashToken("token")
	if h1 != h2 {
		t.Fatal("expected deterministic digest")
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(h1))
	}
	if !CompareTokenHash("token", h1) {
		t.Fatal("expected token to match its digest")
	}
	if CompareTokenHash("other", h1) {
		t.Fatal("expected other token not to match")
	}
	if _, err := HashToken(""); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}
