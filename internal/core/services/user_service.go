package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/dto"
	"github.com/plarivier/corebank/internal/middleware"
	"github.com/plarivier/corebank/internal/utils"
)

// userService provides user registration, lookup and credential checks.
type userService struct {
	userRepo   portsrepo.UserRepositoryFacade
	accountSvc portssvc.AccountWriterSvc
}

// NewUserService creates a new user service. The account service is needed to
// open the primary account that every user owns from registration onward.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountSvc portssvc.AccountWriterSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo:   userRepo,
		accountSvc: accountSvc,
	}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) createUser(ctx context.Context, name string, email string, passwordHash string) (*domain.User, error) {
	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "registration",
			LastUpdatedAt: now,
			LastUpdatedBy: "registration",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	// Every user holds exactly one primary account from registration.
	if _, err := s.accountSvc.CreatePrimaryAccount(ctx, user.UserID); err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.ErrorContext(ctx, "failed to create primary account for new user",
			"user_id", user.UserID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to create primary account: %w", err)
	}

	return &user, nil
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.createUser(ctx, req.Name, req.Email, passwordHash)
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) Authenticate(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) FindOrCreateFromGoogle(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	if info == nil || info.Email == "" {
		return nil, fmt.Errorf("google profile has no email: %w", apperrors.ErrValidation)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("google email is not verified: %w", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by google email: %w", err)
	}

	// First sign-in: register with an unguessable password so the account can
	// only be accessed via Google until a password reset.
	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	passwordHash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	return s.createUser(ctx, name, info.Email, passwordHash)
}

func (s *userService) StoreRefreshToken(ctx context.Context, userID string, rawToken string, expiryTime time.Time) error {
	tokenHash := utils.HashRefreshToken(rawToken)
	return s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, &expiryTime, time.Now())
}
