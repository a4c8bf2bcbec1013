package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

type mockServiceStore struct {
	mock.Mock
}

func (m *mockServiceStore) Create(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	if args.Error(0) == nil {
		service.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockServiceStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *mockServiceStore) Update(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *mockServiceStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockServiceStore) Purge(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockServiceStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockServiceStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Service, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Service), args.Error(1)
}

type mockCategoryReader struct {
	mock.Mock
}

func (m *mockCategoryReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func newCatalogServiceForTest() (*CatalogService, *mockServiceStore, *mockReviewStore, *mockCategoryReader) {
	services := new(mockServiceStore)
	reviews := new(mockReviewStore)
	categories := new(mockCategoryReader)
	return NewCatalogService(services, reviews, categories), services, reviews, categories
}

func validServiceInput(categoryID uuid.UUID) ServiceInput {
	return ServiceInput{
		CategoryID:  categoryID,
		Title:       "Дизайн логотипа",
		Description: "Векторный логотип в трёх вариантах",
		Price:       decimal.NewFromInt(5000),
		Tags:        []string{"дизайн", "логотип"},
	}
}

func TestCatalogService_CreateService_Success(t *testing.T) {
	svc, services, _, categories := newCatalogServiceForTest()
	ctx := context.Background()

	ownerID := uuid.New()
	categoryID := uuid.New()
	categories.On("GetByID", ctx, categoryID).Return(&models.Category{ID: categoryID}, nil)
	services.On("Create", ctx, mock.AnythingOfType("*models.Service")).Return(nil)

	created, err := svc.CreateService(ctx, Actor{ID: ownerID, Role: models.RoleProvider}, validServiceInput(categoryID))
	assert.NoError(t, err)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.True(t, created.IsActive)
}

func TestCatalogService_CreateService_ClientForbidden(t *testing.T) {
	svc, _, _, _ := newCatalogServiceForTest()

	_, err := svc.CreateService(context.Background(), Actor{ID: uuid.New(), Role: models.RoleClient}, validServiceInput(uuid.New()))
	assert.True(t, apperror.IsForbidden(err))
}

func TestCatalogService_CreateService_UnknownCategory(t *testing.T) {
	svc, _, _, categories := newCatalogServiceForTest()
	ctx := context.Background()

	categoryID := uuid.New()
	categories.On("GetByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	_, err := svc.CreateService(ctx, Actor{ID: uuid.New(), Role: models.RoleProvider}, validServiceInput(categoryID))
	assert.True(t, apperror.IsNotFound(err))
}

func TestCatalogService_CreateService_InvalidTitle(t *testing.T) {
	svc, _, _, _ := newCatalogServiceForTest()

	in := validServiceInput(uuid.New())
	in.Title = "ab"
	_, err := svc.CreateService(context.Background(), Actor{ID: uuid.New(), Role: models.RoleProvider}, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestCatalogService_UpdateService_NotOwner(t *testing.T) {
	svc, services, _, _ := newCatalogServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID:      serviceID,
		OwnerID: uuid.New(),
	}, nil)

	_, err := svc.UpdateService(ctx, Actor{ID: uuid.New(), Role: models.RoleProvider}, serviceID, validServiceInput(uuid.New()))
	assert.True(t, apperror.IsForbidden(err))
}

func TestCatalogService_DeactivateService_AdminAllowed(t *testing.T) {
	svc, services, _, _ := newCatalogServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID:      serviceID,
		OwnerID: uuid.New(),
	}, nil)
	services.On("SetActive", ctx, serviceID, false).Return(nil)

	err := svc.DeactivateService(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, serviceID)
	assert.NoError(t, err)
}

func TestCatalogService_ActivateService_OnlyOwner(t *testing.T) {
	svc, services, _, _ := newCatalogServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(&models.Service{
		ID:      serviceID,
		OwnerID: uuid.New(),
	}, nil)

	err := svc.ActivateService(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, serviceID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestCatalogService_PurgeService_AdminOnly(t *testing.T) {
	svc, services, _, _ := newCatalogServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()

	err := svc.PurgeService(ctx, Actor{ID: uuid.New(), Role: models.RoleProvider}, serviceID)
	assert.True(t, apperror.IsForbidden(err))
	services.AssertNotCalled(t, "Purge", mock.Anything, mock.Anything)

	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID}, nil)
	services.On("Purge", ctx, serviceID).Return(nil)

	err = svc.PurgeService(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, serviceID)
	assert.NoError(t, err)
}

func TestCatalogService_GetService_WithRating(t *testing.T) {
	svc, services, reviews, _ := newCatalogServiceForTest()
	ctx := context.Background()

	serviceID := uuid.New()
	services.On("GetByID", ctx, serviceID).Return(&models.Service{ID: serviceID}, nil)
	reviews.On("GetAverageRating", ctx, serviceID).Return(4.8, 25, nil)
	services.On("IncrementViews", mock.Anything, serviceID).Return(nil).Maybe()

	got, err := svc.GetService(ctx, serviceID)
	assert.NoError(t, err)
	assert.Equal(t, 4.8, got.AvgRating)
	assert.Equal(t, 25, got.ReviewCount)
}
