package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// SearchIndex описывает операции каталога, нужные поиску.
type SearchIndex interface {
	Search(ctx context.Context, params repository.SearchParams) ([]models.ServiceWithRating, error)
	ListFeatured(ctx context.Context, limit int) ([]models.ServiceWithRating, error)
	ListTitles(ctx context.Context, query string, limit int) ([]string, error)
}

// CategoryFinder разрешает текстовый запрос в категорию.
type CategoryFinder interface {
	FindByNameSubstring(ctx context.Context, query string) (*models.Category, error)
	ListNames(ctx context.Context, query string, limit int) ([]string, error)
}

// SearchService отвечает за поиск услуг, подборки и автодополнение.
type SearchService struct {
	services   SearchIndex
	categories CategoryFinder
}

// NewSearchService создаёт новый сервис поиска.
func NewSearchService(services SearchIndex, categories CategoryFinder) *SearchService {
	return &SearchService{services: services, categories: categories}
}

// SearchInput — параметры поискового запроса.
type SearchInput struct {
	Query      string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
}

// SearchResult — результат поиска. Если текстовый запрос совпал с названием
// категории и категория не была выбрана явно, поле RedirectedTo указывает
// на неё, а запрос выполняется по категории вместо текста.
type SearchResult struct {
	Services     []models.ServiceWithRating `json:"services"`
	RedirectedTo *models.Category           `json:"redirected_to,omitempty"`
}

const (
	autocompleteLimit = 10
	featuredLimit     = 8
)

// Search выполняет поиск по каталогу. Фильтры объединяются по И, неактивные
// услуги никогда не попадают в выдачу. Сортировка применяется к результату
// после выборки.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return nil, apperror.New(apperror.ErrCodeValidation, "минимальная цена не может превышать максимальную")
	}

	params := repository.SearchParams{
		Query:      strings.TrimSpace(in.Query),
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
	}

	result := &SearchResult{}

	// Запрос, совпавший с категорией, перенаправляется на неё. Явно
	// выбранная категория имеет приоритет над перенаправлением.
	if params.Query != "" && params.CategoryID == nil {
		category, err := s.categories.FindByNameSubstring(ctx, params.Query)
		switch {
		case err == nil:
			result.RedirectedTo = category
			params.Query = ""
			params.CategoryID = &category.ID
		case errors.Is(err, repository.ErrCategoryNotFound):
		default:
			return nil, err
		}
	}

	services, err := s.services.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	SortServices(services, in.SortBy)
	result.Services = services
	return result, nil
}

// Featured возвращает подборку лучших услуг по среднему рейтингу.
func (s *SearchService) Featured(ctx context.Context) ([]models.ServiceWithRating, error) {
	return s.services.ListFeatured(ctx, featuredLimit)
}

// Autocomplete возвращает подсказки: названия услуг и категорий,
// содержащие запрос. Пустой запрос даёт пустой список.
func (s *SearchService) Autocomplete(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}, nil
	}

	titles, err := s.services.ListTitles(ctx, query, autocompleteLimit)
	if err != nil {
		return nil, err
	}
	names, err := s.categories.ListNames(ctx, query, autocompleteLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(titles)+len(names))
	suggestions := make([]string, 0, autocompleteLimit)
	for _, item := range append(titles, names...) {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, item)
		if len(suggestions) == autocompleteLimit {
			break
		}
	}
	return suggestions, nil
}

// SortServices упорядочивает услуги согласно ключу сортировки. Сортировка
// устойчива; неизвестный или пустой ключ трактуется как rating.
func SortServices(services []models.ServiceWithRating, sortBy string) {
	switch sortBy {
	case models.SortByPriceAsc:
		sort.SliceStable(services, func(i, j int) bool {
			return services[i].Price.LessThan(services[j].Price)
		})
	case models.SortByPriceDesc:
		sort.SliceStable(services, func(i, j int) bool {
			return services[i].Price.GreaterThan(services[j].Price)
		})
	case models.SortByNewest:
		sort.SliceStable(services, func(i, j int) bool {
			return services[i].CreatedAt.After(services[j].CreatedAt)
		})
	default:
		sort.SliceStable(services, func(i, j int) bool {
			if services[i].AvgRating != services[j].AvgRating {
				return services[i].AvgRating > services[j].AvgRating
			}
			if !services[i].CreatedAt.Equal(services[j].CreatedAt) {
				return services[i].CreatedAt.After(services[j].CreatedAt)
			}
			return services[i].ID.String() < services[j].ID.String()
		})
	}
}
