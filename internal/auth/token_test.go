package auth

import (
	"errors"
	"testing"
	"time"

	"quizhost-service/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.Issue(domain.Identity{Email: "admin@example.com", Role: "Admin"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	identity, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.Email != "admin@example.com" || identity.Role != "Admin" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(domain.Identity{Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)

	token, err := m.Issue(domain.Identity{Email: "admin@example.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Move the verifier's clock past the expiry.
	m.clock = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := m.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
