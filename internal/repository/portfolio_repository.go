package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbridge/backend/internal/models"
)

// PortfolioRepository отвечает за работы в портфолио пользователей.
type PortfolioRepository struct {
	db *sqlx.DB
}

// NewPortfolioRepository создаёт новый экземпляр.
func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

const portfolioColumns = `id, user_id, title, description, image_path, link, created_at`

// Create сохраняет новую работу в портфолио.
func (r *PortfolioRepository) Create(ctx context.Context, project *models.PortfolioProject) error {
	query := `
		INSERT INTO portfolio_projects (user_id, title, description, image_path, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		project.UserID, project.Title, project.Description, project.ImagePath, project.Link,
	).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("portfolio repository: create %w", err)
	}
	return nil
}

// GetByID возвращает работу по идентификатору.
func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioProject, error) {
	var project models.PortfolioProject
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_projects WHERE id = $1`
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("portfolio repository: get by id %w", err)
	}
	return &project, nil
}

// ListByUser возвращает работы пользователя, свежие первыми.
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PortfolioProject, error) {
	var projects []models.PortfolioProject
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_projects WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &projects, query, userID); err != nil {
		return nil, fmt.Errorf("portfolio repository: list by user %w", err)
	}
	return projects, nil
}

// Delete удаляет работу из портфолио.
func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM portfolio_projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("portfolio repository: delete %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
