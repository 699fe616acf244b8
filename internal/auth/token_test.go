package auth

import (
	"errors"
	"testing"
)

func TestTokens(t *testing.T) {
	tokens := NewTokens("test-secret")

	t.Run("issue and verify roundtrip", func(t *testing.T) {
		raw, err := tokens.Issue("cust-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		customerID, err := tokens.Verify(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customerID != "cust-1" {
			t.Errorf("expected cust-1, got %s", customerID)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := tokens.Issue("cust-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		other := NewTokens("different-secret")
		if _, err := other.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := tokens.Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
