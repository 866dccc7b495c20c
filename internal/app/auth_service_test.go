package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizhost-service/internal/app"
	"quizhost-service/internal/auth"
	"quizhost-service/internal/domain"
	"quizhost-service/internal/infra/memory"
)

func newAuthService() *app.AuthService {
	return app.NewAuthService(memory.NewStore(), auth.NewManager("test-secret", time.Hour))
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	service := newAuthService()

	if err := service.RegisterAdmin(ctx, "admin@example.com", "s3cret", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := service.Login(ctx, "admin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	identity, err := service.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if identity.Email != "admin@example.com" || identity.Role != "Admin" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	service := newAuthService()

	if err := service.RegisterAdmin(ctx, "admin@example.com", "s3cret", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, errWrongPassword := service.Login(ctx, "admin@example.com", "nope")
	_, errUnknownEmail := service.Login(ctx, "ghost@example.com", "s3cret")
	if !errors.Is(errWrongPassword, domain.ErrInvalidCredentials) || !errors.Is(errUnknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("expected identical credential failures, got %v and %v", errWrongPassword, errUnknownEmail)
	}
}

func TestRegisterAdminDuplicate(t *testing.T) {
	ctx := context.Background()
	service := newAuthService()

	if err := service.RegisterAdmin(ctx, "admin@example.com", "s3cret", "Owner"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := service.RegisterAdmin(ctx, "admin@example.com", "other", ""); !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	service := newAuthService()

	if _, err := service.Verify("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
