package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAuthServiceForTest() (*AuthService, *mockAuthRepo) {
	repo := new(mockAuthRepo)
	return NewAuthService(repo, NewTokenManager("test-secret", time.Hour)), repo
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("GetByUsername", ctx, "ivan").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "  Ivan@Example.com ",
		Password: "Password1",
		Username: "ivan",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ivan@example.com", result.User.Email)
	assert.Equal(t, models.RoleClient, result.User.Role)
	assert.True(t, result.User.IsActive)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("Password1")))
}

func TestAuthService_Register_DerivesUsername(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "anna.petrova@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("GetByUsername", ctx, "anna_petrova").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "anna.petrova@example.com",
		Password: "Password1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "anna_petrova", result.User.Username)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ivan@example.com",
		Password: "password",
		Username: "ivan",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_AdminRoleRejected(t *testing.T) {
	svc, _ := newAuthServiceForTest()

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ivan@example.com",
		Password: "Password1",
		Username: "ivan",
		Role:     models.RoleAdmin,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ivan@example.com",
		Password: "Password1",
		Username: "ivan",
	})
	assert.True(t, apperror.IsAlreadyExists(err))
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("GetByUsername", ctx, "ivan").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, RegisterInput{
		Email:    "ivan@example.com",
		Password: "Password1",
		Username: "ivan",
	})
	assert.True(t, apperror.IsAlreadyExists(err))
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	assert.NoError(t, err)

	userID := uuid.New()
	repo.On("GetByEmail", ctx, "ivan@example.com").Return(&models.User{
		ID:           userID,
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleClient,
		IsActive:     true,
	}, nil)
	repo.On("UpdateLastLoginAt", ctx, userID).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "Ivan@Example.com", Password: "Password1"})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	repo.On("GetByEmail", ctx, "ivan@example.com").Return(&models.User{
		ID:           uuid.New(),
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "Password2"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Password1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_BlockedAccount(t *testing.T) {
	svc, repo := newAuthServiceForTest()
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ivan@example.com").Return(&models.User{
		ID:       uuid.New(),
		IsActive: false,
	}, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ivan@example.com", Password: "Password1"})
	assert.True(t, apperror.IsForbidden(err))
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleProvider}

	token, exp, err := manager.Issue(user)
	assert.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	id, role, err := manager.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleProvider, role)
}

func TestTokenManager_Parse_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.Issue(&models.User{ID: uuid.New(), Role: models.RoleClient})
	assert.NoError(t, err)

	_, _, err = verifier.Parse(token)
	assert.Error(t, err)
}
