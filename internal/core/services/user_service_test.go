package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/core/services"
	"github.com/plarivier/corebank/internal/dto"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiryTime *time.Time, now time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiryTime, now)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDeleteUser(ctx context.Context, userID string, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	accountStore *fakeAccountStore
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.accountStore = newFakeAccountStore()
	accountSvc := services.NewAccountService(suite.accountStore)
	suite.service = services.NewUserService(suite.mockUserRepo, accountSvc)
}

func (suite *UserServiceTestSuite) TestRegister_CreatesUserAndPrimaryAccount() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email && user.PasswordHash != req.Password
	})).Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))

	primary, err := suite.accountStore.FindPrimaryAccountByUserID(ctx, user.UserID)
	suite.Require().NoError(err)
	suite.True(primary.IsPrimary)
	suite.True(primary.Balance.IsZero())

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "Sup3rSecret"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
	// No account may be opened for a failed registration.
	accounts, _ := suite.accountStore.ListAccountsByUserID(ctx, "")
	suite.Empty(accounts)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.DefaultCost)
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "u1", Email: "alice@example.com", PasswordHash: string(hash)}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(stored, nil).Once()

	user, err := suite.service.Authenticate(ctx, "alice@example.com", "Sup3rSecret")
	suite.Require().NoError(err)
	suite.Equal("u1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.DefaultCost)
	stored := &domain.User{UserID: "u1", Email: "alice@example.com", PasswordHash: string(hash)}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(stored, nil).Once()

	_, err := suite.service.Authenticate(ctx, "alice@example.com", "wrong")
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Authenticate(ctx, "ghost@example.com", "whatever")
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrCreateFromGoogle_ExistingUser() {
	ctx := context.Background()
	stored := &domain.User{UserID: "u1", Email: "alice@example.com"}
	suite.mockUserRepo.On("FindUserByEmail", ctx, "alice@example.com").Return(stored, nil).Once()

	user, err := suite.service.FindOrCreateFromGoogle(ctx, &domain.GoogleUserInfo{
		Sub:           "google-sub",
		Email:         "alice@example.com",
		EmailVerified: true,
		Name:          "Alice",
	})
	suite.Require().NoError(err)
	suite.Equal("u1", user.UserID)
}

func (suite *UserServiceTestSuite) TestFindOrCreateFromGoogle_FirstSignIn() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "new@example.com" && user.PasswordHash != ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateFromGoogle(ctx, &domain.GoogleUserInfo{
		Sub:           "google-sub",
		Email:         "new@example.com",
		EmailVerified: true,
		Name:          "Newcomer",
	})
	suite.Require().NoError(err)
	suite.Equal("Newcomer", user.Name)

	// Google sign-ups also get their primary account.
	_, err = suite.accountStore.FindPrimaryAccountByUserID(ctx, user.UserID)
	suite.Require().NoError(err)
}

func (suite *UserServiceTestSuite) TestFindOrCreateFromGoogle_UnverifiedEmail() {
	_, err := suite.service.FindOrCreateFromGoogle(context.Background(), &domain.GoogleUserInfo{
		Email:         "shady@example.com",
		EmailVerified: false,
	})
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
