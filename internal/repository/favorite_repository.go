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

// FavoriteRepository отвечает за избранные услуги пользователей.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository создаёт новый экземпляр.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add добавляет услугу в избранное. Повторное добавление идемпотентно.
func (r *FavoriteRepository) Add(ctx context.Context, userID, serviceID uuid.UUID) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.GetContext(ctx, &f, `
		INSERT INTO favorites (user_id, service_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, service_id) DO UPDATE SET created_at = favorites.created_at
		RETURNING id, user_id, service_id, created_at
	`, userID, serviceID)
	if err != nil {
		return nil, fmt.Errorf("favorite repository: add %w", err)
	}
	return &f, nil
}

// Remove удаляет услугу из избранного.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, serviceID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND service_id = $2
	`, userID, serviceID)
	if err != nil {
		return fmt.Errorf("favorite repository: remove %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// Exists сообщает, находится ли услуга в избранном пользователя.
func (r *FavoriteRepository) Exists(ctx context.Context, userID, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND service_id = $2)
	`, userID, serviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("favorite repository: exists %w", err)
	}
	return exists, nil
}

// ListByUser возвращает избранное пользователя, свежее первым.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error) {
	var favorites []models.Favorite
	query := `
		SELECT id, user_id, service_id, created_at
		FROM favorites WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &favorites, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("favorite repository: list by user %w", err)
	}
	return favorites, nil
}
