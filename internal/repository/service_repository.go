package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/backend/internal/models"
)

// ServiceRepository отвечает за работу с услугами.
type ServiceRepository struct {
	db *sqlx.DB
}

// NewServiceRepository создаёт новый экземпляр.
func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

const serviceColumns = `id, owner_id, category_id, title, description, price, tags, image_path, is_active, views, created_at, updated_at`

// SearchParams описывает фильтры поиска услуг. Все фильтры объединяются по AND.
type SearchParams struct {
	Query      string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// Create сохраняет новую услугу.
func (r *ServiceRepository) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (owner_id, category_id, title, description, price, tags, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, views, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		service.OwnerID, service.CategoryID, service.Title, service.Description,
		service.Price, service.Tags, service.ImagePath,
	).Scan(&service.ID, &service.IsActive, &service.Views, &service.CreatedAt, &service.UpdatedAt)
	if err != nil {
		return fmt.Errorf("service repository: create %w", err)
	}
	return nil
}

// GetByID возвращает услугу по идентификатору.
func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("service repository: get by id %w", err)
	}
	return &service, nil
}

// Update обновляет поля услуги.
func (r *ServiceRepository) Update(ctx context.Context, service *models.Service) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET category_id = $2, title = $3, description = $4, price = $5, tags = $6, image_path = $7, updated_at = NOW()
		WHERE id = $1
	`, service.ID, service.CategoryID, service.Title, service.Description, service.Price, service.Tags, service.ImagePath)
	if err != nil {
		return fmt.Errorf("service repository: update %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// SetActive переключает видимость услуги (мягкое удаление и обратно).
func (r *ServiceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE services SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("service repository: set active %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// Purge безвозвратно удаляет услугу вместе с заказами, отзывами и избранным.
// Каскад обеспечен внешними ключами со стратегией ON DELETE CASCADE.
func (r *ServiceRepository) Purge(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("service repository: purge %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// IncrementViews увеличивает счётчик просмотров.
func (r *ServiceRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE services SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("service repository: increment views %w", err)
	}
	return nil
}

// ListByOwner возвращает услуги исполнителя.
func (r *ServiceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Service, error) {
	var services []models.Service
	query := `SELECT ` + serviceColumns + ` FROM services WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &services, query, ownerID); err != nil {
		return nil, fmt.Errorf("service repository: list by owner %w", err)
	}
	return services, nil
}

// Search возвращает активные услуги, удовлетворяющие всем фильтрам,
// вместе с агрегатом отзывов. Порядок выдачи не определён: сортировку
// применяет вызывающая сторона.
func (r *ServiceRepository) Search(ctx context.Context, params SearchParams) ([]models.ServiceWithRating, error) {
	query := `
		SELECT s.id, s.owner_id, s.category_id, s.title, s.description, s.price, s.tags,
		       s.image_path, s.is_active, s.views, s.created_at, s.updated_at,
		       COALESCE(AVG(r.rating), 0) AS avg_rating,
		       COUNT(r.id)                AS review_count
		FROM services s
		LEFT JOIN reviews r ON r.service_id = s.id
		WHERE s.is_active = TRUE
	`
	args := []interface{}{}
	n := 0

	next := func() string {
		n++
		return fmt.Sprintf("$%d", n)
	}

	if params.Query != "" {
		p := next()
		query += fmt.Sprintf(`
		  AND (s.title ILIKE '%%' || %[1]s || '%%'
		       OR s.description ILIKE '%%' || %[1]s || '%%'
		       OR EXISTS (SELECT 1 FROM unnest(s.tags) AS t WHERE t ILIKE '%%' || %[1]s || '%%'))`, p)
		args = append(args, escapeLike(params.Query))
	}
	if params.CategoryID != nil {
		query += ` AND s.category_id = ` + next()
		args = append(args, *params.CategoryID)
	}
	if params.MinPrice != nil {
		query += ` AND s.price >= ` + next()
		args = append(args, *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query += ` AND s.price <= ` + next()
		args = append(args, *params.MaxPrice)
	}

	query += ` GROUP BY s.id`

	var services []models.ServiceWithRating
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, fmt.Errorf("service repository: search %w", err)
	}
	return services, nil
}

// ListFeatured возвращает top-N активных услуг: по среднему рейтингу,
// при равенстве — по дате создания (новее выше), затем по id для
// детерминированной выдачи.
func (r *ServiceRepository) ListFeatured(ctx context.Context, limit int) ([]models.ServiceWithRating, error) {
	query := `
		SELECT s.id, s.owner_id, s.category_id, s.title, s.description, s.price, s.tags,
		       s.image_path, s.is_active, s.views, s.created_at, s.updated_at,
		       COALESCE(AVG(r.rating), 0) AS avg_rating,
		       COUNT(r.id)                AS review_count
		FROM services s
		LEFT JOIN reviews r ON r.service_id = s.id
		WHERE s.is_active = TRUE
		GROUP BY s.id
		ORDER BY avg_rating DESC, s.created_at DESC, s.id
		LIMIT $1
	`
	var services []models.ServiceWithRating
	if err := r.db.SelectContext(ctx, &services, query, limit); err != nil {
		return nil, fmt.Errorf("service repository: list featured %w", err)
	}
	return services, nil
}

// ListTitles возвращает заголовки активных услуг, содержащие подстроку
// запроса. Используется автодополнением.
func (r *ServiceRepository) ListTitles(ctx context.Context, query string, limit int) ([]string, error) {
	var titles []string
	q := `
		SELECT title FROM services
		WHERE is_active = TRUE AND title ILIKE '%' || $1 || '%'
		ORDER BY title LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &titles, q, escapeLike(query), limit); err != nil {
		return nil, fmt.Errorf("service repository: list titles %w", err)
	}
	return titles, nil
}
