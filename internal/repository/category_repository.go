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

// CategoryRepository отвечает за справочник категорий.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository создаёт новый экземпляр.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, description, icon, color, created_at`

// Create сохраняет новую категорию. Название уникально.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description, icon, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		category.Name, category.Description, category.Icon, category.Color,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return fmt.Errorf("category repository: %w", ErrDuplicate)
		}
		return fmt.Errorf("category repository: create %w", err)
	}
	return nil
}

// GetByID возвращает категорию по идентификатору.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("category repository: get by id %w", err)
	}
	return &category, nil
}

// FindByNameSubstring возвращает первую категорию, название которой содержит
// подстроку запроса (без учёта регистра). Используется поиском для
// переключения текстового запроса на фильтр по категории.
func (r *CategoryRepository) FindByNameSubstring(ctx context.Context, query string) (*models.Category, error) {
	var category models.Category
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT 1`
	if err := r.db.GetContext(ctx, &category, q, escapeLike(query)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("category repository: find by name %w", err)
	}
	return &category, nil
}

// List возвращает все категории по алфавиту.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("category repository: list %w", err)
	}
	return categories, nil
}

// ListWithStats возвращает категории с количеством активных услуг.
func (r *CategoryRepository) ListWithStats(ctx context.Context) ([]models.CategoryStats, error) {
	var stats []models.CategoryStats
	query := `
		SELECT c.id, c.name, c.description, c.icon, c.color, c.created_at,
		       COUNT(s.id) FILTER (WHERE s.is_active) AS services_count
		FROM categories c
		LEFT JOIN services s ON s.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("category repository: list with stats %w", err)
	}
	return stats, nil
}

// Update обновляет категорию.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $2, description = $3, icon = $4, color = $5 WHERE id = $1
	`, category.ID, category.Name, category.Description, category.Icon, category.Color)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return fmt.Errorf("category repository: %w", ErrDuplicate)
		}
		return fmt.Errorf("category repository: update %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete удаляет категорию.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("category repository: delete %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ListNames возвращает названия категорий, содержащие подстроку запроса.
// Используется автодополнением.
func (r *CategoryRepository) ListNames(ctx context.Context, query string, limit int) ([]string, error) {
	var names []string
	q := `SELECT name FROM categories WHERE name ILIKE '%' || $1 || '%' ORDER BY name LIMIT $2`
	if err := r.db.SelectContext(ctx, &names, q, escapeLike(query), limit); err != nil {
		return nil, fmt.Errorf("category repository: list names %w", err)
	}
	return names, nil
}
