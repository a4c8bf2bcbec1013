package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbridge/backend/internal/models"
)

// MessageRepository отвечает за сообщения чатов заказов.
// Сообщения append-only: создание и чтение, без обновления и удаления.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт новый экземпляр.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет новое сообщение.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (order_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		message.OrderID, message.SenderID, message.Content,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("message repository: create %w", err)
	}
	return nil
}

// ListByOrder возвращает сообщения заказа в порядке создания.
// Вторичный ключ id делает порядок устойчивым при равных created_at.
func (r *MessageRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT id, order_id, sender_id, content, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at, id
	`
	if err := r.db.SelectContext(ctx, &messages, query, orderID); err != nil {
		return nil, fmt.Errorf("message repository: list by order %w", err)
	}
	return messages, nil
}

// ListOrderIDsWithMessages возвращает идентификаторы заказов пользователя,
// в которых есть переписка, по убыванию времени последнего сообщения.
func (r *MessageRepository) ListOrderIDsWithMessages(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT m.order_id
		FROM messages m
		JOIN orders o ON o.id = m.order_id
		WHERE o.buyer_id = $1 OR o.seller_id = $1
		GROUP BY m.order_id
		ORDER BY MAX(m.created_at) DESC
	`
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("message repository: list order ids %w", err)
	}
	return ids, nil
}
