package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// NotificationStore описывает операции хранилища уведомлений.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationService управляет уведомлениями пользователя и служит
// приёмником уведомлений для остальных сервисов.
type NotificationService struct {
	notifications NotificationStore
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Notify создаёт уведомление пользователю. Реализует NotificationSink.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message string, link *string) error {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
	return s.notifications.Create(ctx, notification)
}

// List возвращает уведомления пользователя, самые новые первыми.
func (s *NotificationService) List(ctx context.Context, actor Actor, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.notifications.List(ctx, actor.ID, limit, offset, unreadOnly)
}

// MarkAsRead помечает уведомление прочитанным. Чужое уведомление недоступно.
func (s *NotificationService) MarkAsRead(ctx context.Context, actor Actor, id uuid.UUID) error {
	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return mapStoreError(err, repository.ErrNotificationNotFound, apperror.ErrNotificationNotFound)
	}
	if notification.UserID != actor.ID {
		return apperror.ErrForbidden
	}
	return s.notifications.MarkAsRead(ctx, id)
}

// MarkAllAsRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor Actor) error {
	return s.notifications.MarkAllAsRead(ctx, actor.ID)
}

// Delete удаляет уведомление. Чужое уведомление недоступно.
func (s *NotificationService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return mapStoreError(err, repository.ErrNotificationNotFound, apperror.ErrNotificationNotFound)
	}
	if notification.UserID != actor.ID {
		return apperror.ErrForbidden
	}
	return s.notifications.Delete(ctx, id)
}

// DeleteAll удаляет все уведомления пользователя.
func (s *NotificationService) DeleteAll(ctx context.Context, actor Actor) error {
	return s.notifications.DeleteAll(ctx, actor.ID)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, actor Actor) (int, error) {
	return s.notifications.CountUnread(ctx, actor.ID)
}
