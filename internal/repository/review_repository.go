package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbridge/backend/internal/models"
)

// ReviewRepository отвечает за отзывы об услугах.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт новый экземпляр.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв. Пара (service_id, reviewer_id) уникальна.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (service_id, reviewer_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		review.ServiceID, review.ReviewerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return fmt.Errorf("review repository: %w", ErrDuplicate)
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// ListByService возвращает отзывы об услуге, свежие первыми.
func (r *ReviewRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	query := `
		SELECT id, service_id, reviewer_id, rating, comment, created_at
		FROM reviews WHERE service_id = $1 ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &reviews, query, serviceID); err != nil {
		return nil, fmt.Errorf("review repository: list by service %w", err)
	}
	return reviews, nil
}

// GetAverageRating возвращает средний рейтинг и количество отзывов услуги.
func (r *ReviewRepository) GetAverageRating(ctx context.Context, serviceID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   float64 `db:"avg"`
		Count int     `db:"count"`
	}
	query := `SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count FROM reviews WHERE service_id = $1`
	if err := r.db.GetContext(ctx, &result, query, serviceID); err != nil {
		return 0, 0, fmt.Errorf("review repository: average rating %w", err)
	}
	return result.Avg, result.Count, nil
}
