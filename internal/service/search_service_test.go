package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

type mockSearchIndex struct {
	mock.Mock
}

func (m *mockSearchIndex) Search(ctx context.Context, params repository.SearchParams) ([]models.ServiceWithRating, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.ServiceWithRating), args.Error(1)
}

func (m *mockSearchIndex) ListFeatured(ctx context.Context, limit int) ([]models.ServiceWithRating, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.ServiceWithRating), args.Error(1)
}

func (m *mockSearchIndex) ListTitles(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]string), args.Error(1)
}

type mockCategoryFinder struct {
	mock.Mock
}

func (m *mockCategoryFinder) FindByNameSubstring(ctx context.Context, query string) (*models.Category, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryFinder) ListNames(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]string), args.Error(1)
}

func ratedService(price int64, rating float64, createdAt time.Time) models.ServiceWithRating {
	return models.ServiceWithRating{
		Service: models.Service{
			ID:        uuid.New(),
			Price:     decimal.NewFromInt(price),
			CreatedAt: createdAt,
		},
		AvgRating: rating,
	}
}

func TestSearchService_Search_PriceRangeInvalid(t *testing.T) {
	svc := NewSearchService(new(mockSearchIndex), new(mockCategoryFinder))

	minPrice := decimal.NewFromInt(1000)
	maxPrice := decimal.NewFromInt(100)
	_, err := svc.Search(context.Background(), SearchInput{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assert.True(t, apperror.IsValidation(err))
}

func TestSearchService_Search_CategoryRedirect(t *testing.T) {
	index := new(mockSearchIndex)
	finder := new(mockCategoryFinder)
	svc := NewSearchService(index, finder)
	ctx := context.Background()

	category := &models.Category{ID: uuid.New(), Name: "Дизайн"}
	finder.On("FindByNameSubstring", ctx, "дизайн").Return(category, nil)
	index.On("Search", ctx, repository.SearchParams{CategoryID: &category.ID}).
		Return([]models.ServiceWithRating{ratedService(100, 0, time.Now())}, nil)

	result, err := svc.Search(ctx, SearchInput{Query: "дизайн"})
	assert.NoError(t, err)
	assert.NotNil(t, result.RedirectedTo)
	assert.Equal(t, category.ID, result.RedirectedTo.ID)
	assert.Len(t, result.Services, 1)
}

func TestSearchService_Search_ExplicitCategorySkipsRedirect(t *testing.T) {
	index := new(mockSearchIndex)
	finder := new(mockCategoryFinder)
	svc := NewSearchService(index, finder)
	ctx := context.Background()

	categoryID := uuid.New()
	index.On("Search", ctx, repository.SearchParams{Query: "дизайн", CategoryID: &categoryID}).
		Return([]models.ServiceWithRating{}, nil)

	result, err := svc.Search(ctx, SearchInput{Query: "дизайн", CategoryID: &categoryID})
	assert.NoError(t, err)
	assert.Nil(t, result.RedirectedTo)
	finder.AssertNotCalled(t, "FindByNameSubstring", mock.Anything, mock.Anything)
}

func TestSearchService_Search_NoCategoryMatch(t *testing.T) {
	index := new(mockSearchIndex)
	finder := new(mockCategoryFinder)
	svc := NewSearchService(index, finder)
	ctx := context.Background()

	finder.On("FindByNameSubstring", ctx, "логотип").Return(nil, repository.ErrCategoryNotFound)
	index.On("Search", ctx, repository.SearchParams{Query: "логотип"}).
		Return([]models.ServiceWithRating{}, nil)

	result, err := svc.Search(ctx, SearchInput{Query: "логотип"})
	assert.NoError(t, err)
	assert.Nil(t, result.RedirectedTo)
}

func TestSortServices_PriceAsc(t *testing.T) {
	now := time.Now()
	services := []models.ServiceWithRating{
		ratedService(300, 0, now),
		ratedService(100, 0, now),
		ratedService(200, 0, now),
	}

	SortServices(services, models.SortByPriceAsc)

	assert.True(t, services[0].Price.LessThan(services[1].Price))
	assert.True(t, services[1].Price.LessThan(services[2].Price))
}

func TestSortServices_PriceDesc(t *testing.T) {
	now := time.Now()
	services := []models.ServiceWithRating{
		ratedService(100, 0, now),
		ratedService(300, 0, now),
		ratedService(200, 0, now),
	}

	SortServices(services, models.SortByPriceDesc)

	assert.True(t, services[0].Price.GreaterThan(services[1].Price))
	assert.True(t, services[1].Price.GreaterThan(services[2].Price))
}

func TestSortServices_RatingWithTiebreak(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	services := []models.ServiceWithRating{
		ratedService(100, 4.0, older),
		ratedService(100, 5.0, older),
		ratedService(100, 5.0, newer),
	}

	SortServices(services, models.SortByRating)

	assert.Equal(t, 5.0, services[0].AvgRating)
	assert.Equal(t, 5.0, services[1].AvgRating)
	assert.Equal(t, 4.0, services[2].AvgRating)
	assert.True(t, services[0].CreatedAt.After(services[1].CreatedAt))
}

func TestSortServices_Newest(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	services := []models.ServiceWithRating{
		ratedService(100, 5, older),
		ratedService(100, 3, newer),
	}

	SortServices(services, models.SortByNewest)

	assert.True(t, services[0].CreatedAt.After(services[1].CreatedAt))
}

func TestSortServices_DefaultIsRating(t *testing.T) {
	now := time.Now()
	services := []models.ServiceWithRating{
		ratedService(100, 3.5, now),
		ratedService(100, 4.9, now),
	}

	SortServices(services, "")

	assert.Equal(t, 4.9, services[0].AvgRating)
}

func TestSearchService_Autocomplete_EmptyQuery(t *testing.T) {
	svc := NewSearchService(new(mockSearchIndex), new(mockCategoryFinder))

	suggestions, err := svc.Autocomplete(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSearchService_Autocomplete_MergesAndDedupes(t *testing.T) {
	index := new(mockSearchIndex)
	finder := new(mockCategoryFinder)
	svc := NewSearchService(index, finder)
	ctx := context.Background()

	index.On("ListTitles", ctx, "диз", 10).Return([]string{"Дизайн логотипа", "Дизайн сайта"}, nil)
	finder.On("ListNames", ctx, "диз", 10).Return([]string{"дизайн логотипа", "Дизайн"}, nil)

	suggestions, err := svc.Autocomplete(ctx, "диз")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Дизайн логотипа", "Дизайн сайта", "Дизайн"}, suggestions)
}

func TestSearchService_Featured(t *testing.T) {
	index := new(mockSearchIndex)
	svc := NewSearchService(index, new(mockCategoryFinder))
	ctx := context.Background()

	index.On("ListFeatured", ctx, 8).Return([]models.ServiceWithRating{ratedService(100, 5, time.Now())}, nil)

	services, err := svc.Featured(ctx)
	assert.NoError(t, err)
	assert.Len(t, services, 1)
}
