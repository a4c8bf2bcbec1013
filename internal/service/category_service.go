package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// CategoryStore описывает операции хранилища категорий.
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	ListWithStats(ctx context.Context) ([]models.CategoryStats, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService ведёт справочник категорий. Изменения доступны только
// администратору, чтение — всем.
type CategoryService struct {
	categories CategoryStore
}

// NewCategoryService создаёт новый сервис категорий.
func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput — данные категории при создании или редактировании.
type CategoryInput struct {
	Name        string
	Description *string
	Icon        *string
	Color       *string
}

func (in *CategoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.ValidateLength("название категории", in.Name, 1, validation.MaxCategoryNameLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// CreateCategory добавляет категорию в справочник.
func (s *CategoryService) CreateCategory(ctx context.Context, actor Actor, in CategoryInput) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// UpdateCategory редактирует категорию.
func (s *CategoryService) UpdateCategory(ctx context.Context, actor Actor, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}
	category.Name = in.Name
	category.Description = in.Description
	category.Icon = in.Icon
	category.Color = in.Color

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory удаляет категорию из справочника.
func (s *CategoryService) DeleteCategory(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return mapStoreError(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}
	return nil
}

// GetCategory возвращает категорию по идентификатору.
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}
	return category, nil
}

// ListCategories возвращает весь справочник.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// ListCategoriesWithStats возвращает категории с числом активных услуг.
func (s *CategoryService) ListCategoriesWithStats(ctx context.Context) ([]models.CategoryStats, error) {
	return s.categories.ListWithStats(ctx)
}
