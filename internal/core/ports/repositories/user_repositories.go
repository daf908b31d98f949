package repositories

import (
	"context"
	"time"

	"github.com/plarivier/corebank/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a non-deleted user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a non-deleted user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A duplicate email among non-deleted users
	// fails with apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
	// Empty hash and nil expiry clear it.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiryTime *time.Time, now time.Time) error

	// SoftDeleteUser marks a user as deleted.
	SoftDeleteUser(ctx context.Context, userID string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
