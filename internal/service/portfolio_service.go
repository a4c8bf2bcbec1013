package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// PortfolioStore описывает операции хранилища портфолио.
type PortfolioStore interface {
	Create(ctx context.Context, project *models.PortfolioProject) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioProject, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PortfolioProject, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PortfolioService ведёт портфолио пользователей. Портфолио публично,
// работами управляет только владелец.
type PortfolioService struct {
	projects PortfolioStore
}

// NewPortfolioService создаёт новый сервис портфолио.
func NewPortfolioService(projects PortfolioStore) *PortfolioService {
	return &PortfolioService{projects: projects}
}

// ProjectInput — данные работы при добавлении в портфолио.
type ProjectInput struct {
	Title       string
	Description *string
	Link        *string
	ImagePath   *string
}

// AddProject добавляет работу в портфолио пользователя.
func (s *PortfolioService) AddProject(ctx context.Context, actor Actor, in ProjectInput) (*models.PortfolioProject, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
	}
	if err := validation.ValidateLength("название проекта", in.Title, 1, 200); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Description != nil {
		if err := validation.ValidateLength("описание проекта", *in.Description, 0, 2000); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}
	if in.Link != nil {
		if err := validation.ValidateLength("ссылка", *in.Link, 0, 500); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	project := &models.PortfolioProject{
		UserID:      actor.ID,
		Title:       in.Title,
		Description: in.Description,
		ImagePath:   in.ImagePath,
		Link:        in.Link,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects возвращает портфолио пользователя.
func (s *PortfolioService) ListProjects(ctx context.Context, userID uuid.UUID) ([]models.PortfolioProject, error) {
	return s.projects.ListByUser(ctx, userID)
}

// DeleteProject удаляет работу из портфолио. Владелец удаляет свою работу,
// администратор — любую.
func (s *PortfolioService) DeleteProject(ctx context.Context, actor Actor, projectID uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return mapStoreError(err, repository.ErrProjectNotFound, apperror.ErrProjectNotFound)
	}
	if project.UserID != actor.ID && !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	return s.projects.Delete(ctx, projectID)
}
