// Package services – AuthService
//
// This file implements the session issuer: it verifies a submitted
// username/password pair against the admin credential store and mints a
// signed, self-contained session token on success. The service owns no
// persistent state; it reads admin records and issues transient tokens.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/careline/clinic-backend/internal/auth"
	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/repo"
)

// AdminRepo defines the repository contract required by AuthService.
type AdminRepo interface {
	// FindAdminByUsername fetches an admin by exact username.
	FindAdminByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Admin, error)

	// CreateAdmin inserts an admin with an already hashed password.
	CreateAdmin(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.Admin, error)
}

// AuthService verifies admin credentials and issues session tokens.
type AuthService struct {
	DB   *gorm.DB
	Repo AdminRepo

	// Secret signs session tokens; TokenTTL bounds their validity.
	Secret   []byte
	TokenTTL time.Duration

	// BcryptCost is the work factor applied when creating admins.
	BcryptCost int
}

// NewAuthService constructs an AuthService with the given signing settings.
func NewAuthService(db *gorm.DB, r AdminRepo, secret []byte, ttl time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		DB:         db,
		Repo:       r,
		Secret:     secret,
		TokenTTL:   ttl,
		BcryptCost: bcryptCost,
	}
}

// Login verifies the credential pair and returns a signed token plus the
// redacted admin view. Unknown usernames and wrong passwords both yield
// ErrInvalidCredentials; a bcrypt comparison runs in either case so the two
// paths cost the same. Store failures map to ErrStoreUnavailable, never to
// invalid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.AdminView, error) {
	tr := otel.Tracer("services/AuthService")
	ctx, span := tr.Start(ctx, "Login",
		trace.WithAttributes(attribute.String("admin.username", username)),
	)
	defer span.End()

	admin, err := s.Repo.FindAdminByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Burn a hash comparison so missing users are not faster.
			_ = auth.VerifyDummy(password)
			return "", domain.AdminView{}, ErrInvalidCredentials
		}
		return "", domain.AdminView{}, errors.Join(ErrStoreUnavailable, err)
	}

	if err := auth.VerifyPassword(admin.Password, password); err != nil {
		return "", domain.AdminView{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.Secret, admin.Username, s.TokenTTL)
	if err != nil {
		return "", domain.AdminView{}, err
	}
	return token, admin.View(), nil
}

// Bootstrap creates an admin account, hashing the raw password. It is
// idempotent on duplicate usernames: the second call reports
// repo.ErrDuplicateUsername and leaves the existing record untouched.
// The raw password is never persisted or logged.
func (s *AuthService) Bootstrap(ctx context.Context, username, password string) (*domain.Admin, error) {
	hash, err := auth.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	a, err := s.Repo.CreateAdmin(ctx, s.DB, username, hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return a, nil
}
