package service

import (
	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
)

// Actor описывает действующего пользователя операции. Роль и идентификатор
// передаются явно в каждую операцию: никакого неявного "текущего пользователя".
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin сообщает, действует ли администратор.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsProvider сообщает, может ли актор размещать услуги.
func (a Actor) IsProvider() bool {
	return a.Role == models.RoleProvider || a.Role == models.RoleAdmin
}

// requireAdmin разрешает операцию только администратору.
func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return apperror.ErrForbidden
	}
	return nil
}

// requireSeller разрешает операцию только исполнителю заказа.
func requireSeller(order *models.Order, actor Actor) error {
	if order.SellerID != actor.ID {
		return apperror.ErrForbidden
	}
	return nil
}

// requireParticipant разрешает операцию только сторонам заказа.
func requireParticipant(order *models.Order, actor Actor) error {
	if !order.IsParticipant(actor.ID) {
		return apperror.ErrForbidden
	}
	return nil
}

// requireParticipantOrAdmin дополнительно пропускает администратора
// (доступ на чтение по политике модерации).
func requireParticipantOrAdmin(order *models.Order, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return requireParticipant(order, actor)
}
