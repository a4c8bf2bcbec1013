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

type mockFavoriteStore struct {
	mock.Mock
}

func (m *mockFavoriteStore) Add(ctx context.Context, userID, serviceID uuid.UUID) (*models.Favorite, error) {
	args := m.Called(ctx, userID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *mockFavoriteStore) Remove(ctx context.Context, userID, serviceID uuid.UUID) error {
	args := m.Called(ctx, userID, serviceID)
	return args.Error(0)
}

func (m *mockFavoriteStore) Exists(ctx context.Context, userID, serviceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, serviceID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func newFavoriteServiceForTest() (*FavoriteService, *mockFavoriteStore, *mockServiceReader) {
	favorites := new(mockFavoriteStore)
	services := new(mockServiceReader)
	return NewFavoriteService(favorites, services), favorites, services
}

func TestFavoriteService_Toggle_Adds(t *testing.T) {
	svc, favorites, services := newFavoriteServiceForTest()
	ctx := context.Background()

	userID := uuid.New()
	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID}, nil)
	favorites.On("Exists", ctx, userID, serviceID).Return(false, nil)
	favorites.On("Add", ctx, userID, serviceID).Return(&models.Favorite{UserID: userID, ServiceID: serviceID}, nil)

	added, err := svc.Toggle(ctx, Actor{ID: userID, Role: models.RoleClient}, serviceID)
	assert.NoError(t, err)
	assert.True(t, added)
}

func TestFavoriteService_Toggle_Removes(t *testing.T) {
	svc, favorites, services := newFavoriteServiceForTest()
	ctx := context.Background()

	userID := uuid.New()
	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID}, nil)
	favorites.On("Exists", ctx, userID, serviceID).Return(true, nil)
	favorites.On("Remove", ctx, userID, serviceID).Return(nil)

	added, err := svc.Toggle(ctx, Actor{ID: userID, Role: models.RoleClient}, serviceID)
	assert.NoError(t, err)
	assert.False(t, added)
	favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteService_Toggle_ServiceNotFound(t *testing.T) {
	svc, _, services := newFavoriteServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(nil, repository.ErrServiceNotFound)

	_, err := svc.Toggle(ctx, Actor{ID: uuid.New(), Role: models.RoleClient}, serviceID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFavoriteService_Toggle_StoreFailure(t *testing.T) {
	svc, _, services := newFavoriteServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(nil, errors.New("connection refused"))

	_, err := svc.Toggle(ctx, Actor{ID: uuid.New(), Role: models.RoleClient}, serviceID)
	assert.True(t, apperror.IsInternal(err))
	assert.False(t, apperror.IsNotFound(err))
}

func TestFavoriteService_List_ClampsLimit(t *testing.T) {
	svc, favorites, _ := newFavoriteServiceForTest()
	ctx := context.Background()

	userID := uuid.New()
	favorites.On("ListByUser", ctx, userID, 50, 0).Return([]models.Favorite{}, nil)

	_, err := svc.List(ctx, Actor{ID: userID, Role: models.RoleClient}, 0, -5)
	assert.NoError(t, err)
	favorites.AssertExpectations(t)
}
