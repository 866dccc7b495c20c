package app

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"quizhost-service/internal/domain"
)

// TokenIssuer is the credential collaborator: it mints and verifies opaque
// bearer tokens carrying an admin identity.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
	Verify(token string) (domain.Identity, error)
}

// AuthService implements admin login and token verification.
type AuthService struct {
	admins AdminStore
	tokens TokenIssuer
}

func NewAuthService(admins AdminStore, tokens TokenIssuer) *AuthService {
	return &AuthService{admins: admins, tokens: tokens}
}

// Login checks the password against the stored bcrypt hash and issues a token.
// Unknown emails and wrong passwords are reported identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.Validationf("email and password are required")
	}
	admin, err := s.admins.GetAdmin(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(domain.Identity{Email: admin.Email, Role: admin.Role})
}

// Verify resolves a bearer token to the admin identity it carries.
func (s *AuthService) Verify(token string) (domain.Identity, error) {
	return s.tokens.Verify(token)
}

// RegisterAdmin creates an admin account with a freshly hashed password.
// Registering an email that already exists fails with a conflict.
func (s *AuthService) RegisterAdmin(ctx context.Context, email, password, role string) error {
	if email == "" || password == "" {
		return domain.Validationf("email and password are required")
	}
	if role == "" {
		role = "Admin"
	}
	if _, err := s.admins.GetAdmin(ctx, email); err == nil {
		return domain.ErrAdminExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.admins.CreateAdmin(ctx, domain.Admin{Email: email, PasswordHash: string(hash), Role: role})
}
