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

// OrderRepository отвечает за работу с заказами.
// Все переходы статуса выражены условными UPDATE: при конкурентных вызовах
// ровно один из них видит исходное состояние и побеждает.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт новый экземпляр.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, service_id, buyer_id, seller_id, requirements, scope, budget_tier, deadline_at, status, is_accepted, created_at, updated_at`

// Create сохраняет новый заказ в статусе pending.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (service_id, buyer_id, seller_id, requirements, scope, budget_tier, deadline_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_accepted, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		order.ServiceID, order.BuyerID, order.SellerID, order.Requirements,
		order.Scope, order.BudgetTier, order.DeadlineAt, order.Status,
	).Scan(&order.ID, &order.IsAccepted, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	return &order, nil
}

// ListByBuyer возвращает заказы пользователя как покупателя.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, buyerID); err != nil {
		return nil, fmt.Errorf("order repository: list by buyer %w", err)
	}
	return orders, nil
}

// ListBySeller возвращает заказы пользователя как исполнителя.
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, sellerID); err != nil {
		return nil, fmt.Errorf("order repository: list by seller %w", err)
	}
	return orders, nil
}

// List возвращает заказы платформы постранично, свежие первыми.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &orders, query, limit, offset); err != nil {
		return nil, fmt.Errorf("order repository: list %w", err)
	}
	return orders, nil
}

// Accept отмечает заказ принятым. Возвращает false, если заказ уже принят
// или находится в конечном статусе — из двух конкурентных вызовов
// побеждает ровно один.
func (r *OrderRepository) Accept(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_accepted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_accepted = FALSE AND status NOT IN ('completed', 'cancelled')
	`, id)
	if err != nil {
		return false, fmt.Errorf("order repository: accept %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Complete переводит заказ in_progress -> completed.
// Возвращает false, если заказ не был в in_progress.
func (r *OrderRepository) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`, id)
	if err != nil {
		return false, fmt.Errorf("order repository: complete %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Cancel переводит заказ из неконечного статуса в cancelled.
func (r *OrderRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'in_progress')
	`, id)
	if err != nil {
		return false, fmt.Errorf("order repository: cancel %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
