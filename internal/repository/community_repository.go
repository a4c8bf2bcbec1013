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

// CommunityRepository отвечает за сообщества и членство в них.
type CommunityRepository struct {
	db *sqlx.DB
}

// NewCommunityRepository создаёт новый экземпляр.
func NewCommunityRepository(db *sqlx.DB) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// GetByID возвращает сообщество по идентификатору.
func (r *CommunityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	var community models.Community
	query := `SELECT id, name, description, image_path, is_active, created_at FROM communities WHERE id = $1`
	if err := r.db.GetContext(ctx, &community, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("community repository: get by id %w", err)
	}
	return &community, nil
}

// GetWithMembers возвращает сообщество вместе с количеством участников.
func (r *CommunityRepository) GetWithMembers(ctx context.Context, id uuid.UUID) (*models.CommunityWithMembers, error) {
	var community models.CommunityWithMembers
	query := `
		SELECT c.id, c.name, c.description, c.image_path, c.is_active, c.created_at,
		       COUNT(m.id) AS members_count
		FROM communities c
		LEFT JOIN community_members m ON m.community_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`
	if err := r.db.GetContext(ctx, &community, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("community repository: get with members %w", err)
	}
	return &community, nil
}

// List возвращает активные сообщества с количеством участников.
func (r *CommunityRepository) List(ctx context.Context, limit int) ([]models.CommunityWithMembers, error) {
	var communities []models.CommunityWithMembers
	query := `
		SELECT c.id, c.name, c.description, c.image_path, c.is_active, c.created_at,
		       COUNT(m.id) AS members_count
		FROM communities c
		LEFT JOIN community_members m ON m.community_id = c.id
		WHERE c.is_active = TRUE
		GROUP BY c.id
		ORDER BY members_count DESC, c.name
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &communities, query, limit); err != nil {
		return nil, fmt.Errorf("community repository: list %w", err)
	}
	return communities, nil
}

// Join добавляет пользователя в сообщество. Возвращает false, если
// пользователь уже состоит в нём.
func (r *CommunityRepository) Join(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (community_id, user_id) DO NOTHING
	`, communityID, userID)
	if err != nil {
		return false, fmt.Errorf("community repository: join %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Leave выводит пользователя из сообщества.
func (r *CommunityRepository) Leave(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM community_members WHERE community_id = $1 AND user_id = $2
	`, communityID, userID)
	if err != nil {
		return false, fmt.Errorf("community repository: leave %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// IsMember сообщает, состоит ли пользователь в сообществе.
func (r *CommunityRepository) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)
	`, communityID, userID)
	if err != nil {
		return false, fmt.Errorf("community repository: is member %w", err)
	}
	return exists, nil
}
