package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/backend/internal/goroutine"
	"github.com/skillbridge/backend/internal/logger"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// ServiceStore описывает операции хранилища услуг.
type ServiceStore interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Purge(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Service, error)
}

// CategoryReader проверяет существование категории.
type CategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// RatingReader отдаёт агрегат отзывов по услуге.
type RatingReader interface {
	GetAverageRating(ctx context.Context, serviceID uuid.UUID) (float64, int, error)
}

// CatalogService управляет жизненным циклом услуг: размещение,
// редактирование, снятие с публикации и полное удаление.
type CatalogService struct {
	services ServiceStore
	reviews  RatingReader
	catsRepo CategoryReader
}

// NewCatalogService создаёт новый сервис каталога.
func NewCatalogService(services ServiceStore, reviews RatingReader, categories CategoryReader) *CatalogService {
	return &CatalogService{services: services, reviews: reviews, catsRepo: categories}
}

// ServiceInput — данные услуги при создании или редактировании.
type ServiceInput struct {
	CategoryID  uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	Tags        []string
	ImagePath   *string
}

func (in *ServiceInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.ValidateLength("название", in.Title, validation.MinServiceTitleLength, validation.MaxServiceTitleLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinServiceDescriptionLength, validation.MaxServiceDescriptionLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateTags(in.Tags); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// CreateService размещает новую услугу. Размещать услуги могут только
// исполнители; услуга создаётся активной.
func (s *CatalogService) CreateService(ctx context.Context, actor Actor, in ServiceInput) (*models.Service, error) {
	if !actor.IsProvider() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "размещать услуги могут только исполнители")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.catsRepo.GetByID(ctx, in.CategoryID); err != nil {
		return nil, mapStoreError(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}

	service := &models.Service{
		OwnerID:     actor.ID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Tags:        in.Tags,
		ImagePath:   in.ImagePath,
		IsActive:    true,
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// UpdateService редактирует услугу. Доступно только владельцу.
func (s *CatalogService) UpdateService(ctx context.Context, actor Actor, serviceID uuid.UUID, in ServiceInput) (*models.Service, error) {
	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	if service.OwnerID != actor.ID {
		return nil, apperror.ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategoryID != service.CategoryID {
		if _, err := s.catsRepo.GetByID(ctx, in.CategoryID); err != nil {
			return nil, mapStoreError(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
		}
	}

	service.CategoryID = in.CategoryID
	service.Title = in.Title
	service.Description = in.Description
	service.Price = in.Price
	service.Tags = in.Tags
	if in.ImagePath != nil {
		service.ImagePath = in.ImagePath
	}
	if err := s.services.Update(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// DeactivateService снимает услугу с публикации, сохраняя историю заказов.
// Владелец снимает свою услугу, администратор — любую.
func (s *CatalogService) DeactivateService(ctx context.Context, actor Actor, serviceID uuid.UUID) error {
	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	if service.OwnerID != actor.ID && !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	return s.services.SetActive(ctx, serviceID, false)
}

// ActivateService возвращает услугу в каталог. Доступно владельцу.
func (s *CatalogService) ActivateService(ctx context.Context, actor Actor, serviceID uuid.UUID) error {
	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	if service.OwnerID != actor.ID {
		return apperror.ErrForbidden
	}
	return s.services.SetActive(ctx, serviceID, true)
}

// PurgeService полностью удаляет услугу вместе со связанными данными.
// Только для администратора; обычное удаление — DeactivateService.
func (s *CatalogService) PurgeService(ctx context.Context, actor Actor, serviceID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	return s.services.Purge(ctx, serviceID)
}

// GetService возвращает услугу с агрегатом отзывов и увеличивает счётчик
// просмотров. Счётчик обновляется в фоне и не влияет на ответ.
func (s *CatalogService) GetService(ctx context.Context, serviceID uuid.UUID) (*models.ServiceWithRating, error) {
	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}

	avg, count, err := s.reviews.GetAverageRating(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.services.IncrementViews(ctx, serviceID); err != nil {
			logger.Log.Warnf("catalog service: не удалось обновить счётчик просмотров: %v", err)
		}
	})

	return &models.ServiceWithRating{Service: *service, AvgRating: avg, ReviewCount: count}, nil
}

// ListOwnServices возвращает услуги исполнителя, включая неактивные.
func (s *CatalogService) ListOwnServices(ctx context.Context, actor Actor) ([]models.Service, error) {
	return s.services.ListByOwner(ctx, actor.ID)
}
