package services

import (
	"context"
	"time"

	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/dto"
)

// UserSvcFacade defines user registration, lookup and credential checks.
type UserSvcFacade interface {
	// Register creates a user and their primary account.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// GetUserByID retrieves a non-deleted user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// Authenticate verifies email/password credentials.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)

	// FindOrCreateFromGoogle resolves a user from a verified Google profile,
	// registering them (with a primary account) on first sign-in.
	FindOrCreateFromGoogle(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error)

	// StoreRefreshToken persists the hash and expiry of a freshly issued
	// refresh token.
	StoreRefreshToken(ctx context.Context, userID string, rawToken string, expiryTime time.Time) error
}
