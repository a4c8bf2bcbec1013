package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockUserStore) GetStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	users := new(mockUserStore)
	svc := NewUserService(users)
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := svc.GetProfile(ctx, userID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUserService_GetProfile_StoreFailure(t *testing.T) {
	users := new(mockUserStore)
	svc := NewUserService(users)
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(nil, errors.New("connection refused"))

	_, err := svc.GetProfile(ctx, userID)
	assert.True(t, apperror.IsInternal(err))
	assert.False(t, apperror.IsNotFound(err))
}

func TestUserService_BecomeProvider(t *testing.T) {
	users := new(mockUserStore)
	svc := NewUserService(users)
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleClient}, nil)
	users.On("SetRole", ctx, userID, models.RoleProvider).Return(nil)

	user, err := svc.BecomeProvider(ctx, Actor{ID: userID, Role: models.RoleClient})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleProvider, user.Role)
}

func TestUserService_BecomeProvider_AlreadyProvider(t *testing.T) {
	users := new(mockUserStore)
	svc := NewUserService(users)
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleProvider}, nil)

	_, err := svc.BecomeProvider(ctx, Actor{ID: userID, Role: models.RoleProvider})
	assert.True(t, apperror.IsAlreadyExists(err))
	users.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateProfile_TrimsFullName(t *testing.T) {
	users := new(mockUserStore)
	svc := NewUserService(users)
	ctx := context.Background()

	userID := uuid.New()
	users.On("GetByID", ctx, userID).Return(&models.User{ID: userID, Role: models.RoleClient}, nil)
	users.On("UpdateProfile", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	fullName := "  Анна Петрова  "
	user, err := svc.UpdateProfile(ctx, Actor{ID: userID, Role: models.RoleClient}, ProfileInput{FullName: &fullName})
	assert.NoError(t, err)
	assert.Equal(t, "Анна Петрова", *user.FullName)
}
