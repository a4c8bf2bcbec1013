package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StatsRepository отдаёт агрегаты для административной сводки.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository создаёт новый экземпляр.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountActiveServices возвращает число активных услуг.
func (r *StatsRepository) CountActiveServices(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM services WHERE is_active = TRUE`); err != nil {
		return 0, fmt.Errorf("stats repository: count services %w", err)
	}
	return count, nil
}

// CountOrders возвращает общее число заказов.
func (r *StatsRepository) CountOrders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, fmt.Errorf("stats repository: count orders %w", err)
	}
	return count, nil
}

// CountReviews возвращает общее число отзывов.
func (r *StatsRepository) CountReviews(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reviews`); err != nil {
		return 0, fmt.Errorf("stats repository: count reviews %w", err)
	}
	return count, nil
}
