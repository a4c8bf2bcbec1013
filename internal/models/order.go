package models

import (
	"time"

	"github.com/google/uuid"
)

// Order описывает заказ клиента на услугу.
// SellerID фиксируется в момент создания и не меняется при смене владельца услуги.
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ServiceID    uuid.UUID  `db:"service_id" json:"service_id"`
	BuyerID      uuid.UUID  `db:"buyer_id" json:"buyer_id"`
	SellerID     uuid.UUID  `db:"seller_id" json:"seller_id"`
	Requirements string     `db:"requirements" json:"requirements"`
	Scope        string     `db:"scope" json:"scope"`
	BudgetTier   string     `db:"budget_tier" json:"budget_tier"`
	DeadlineAt   *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	Status       string     `db:"status" json:"status"`
	IsAccepted   bool       `db:"is_accepted" json:"is_accepted"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsParticipant сообщает, является ли пользователь стороной заказа.
func (o *Order) IsParticipant(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}

// IsTerminal сообщает, находится ли заказ в конечном статусе.
func (o *Order) IsTerminal() bool {
	return IsTerminalOrderStatus(o.Status)
}

// Message описывает сообщение в чате заказа. Неизменяемо после создания.
type Message struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	SenderID  uuid.UUID `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
