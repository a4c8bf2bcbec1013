package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/goroutine"
	"github.com/skillbridge/backend/internal/logger"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// MessageStore описывает взаимодействие сервиса с хранилищем сообщений.
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Message, error)
	ListOrderIDsWithMessages(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// OrderReader описывает минимальный контракт чтения заказов.
type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// ChatService ведёт переписку по заказу. Писать могут только стороны
// заказа, читать — стороны и администратор (политика модерации).
type ChatService struct {
	messages      MessageStore
	orders        OrderReader
	notifications NotificationSink
}

// NewChatService создаёт новый сервис чатов.
func NewChatService(messages MessageStore, orders OrderReader, notifications NotificationSink) *ChatService {
	return &ChatService{
		messages:      messages,
		orders:        orders,
		notifications: notifications,
	}
}

// SendMessage добавляет сообщение в чат заказа. Сообщения неизменяемы,
// заказ при этом не мутирует.
func (s *ChatService) SendMessage(ctx context.Context, actor Actor, orderID uuid.UUID, content string) (*models.Message, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}
	if err := requireParticipant(order, actor); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "сообщение не может быть пустым")
	}
	if err := validation.ValidateLength("сообщение", content, validation.MinMessageLength, validation.MaxMessageLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	message := &models.Message{
		OrderID:  orderID,
		SenderID: actor.ID,
		Content:  content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	receiverID := order.SellerID
	if actor.ID == order.SellerID {
		receiverID = order.BuyerID
	}
	s.notifyReceiver(receiverID, orderID)

	return message, nil
}

// GetMessages возвращает сообщения заказа в порядке создания.
func (s *ChatService) GetMessages(ctx context.Context, actor Actor, orderID uuid.UUID) ([]models.Message, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}
	if err := requireParticipantOrAdmin(order, actor); err != nil {
		return nil, err
	}
	return s.messages.ListByOrder(ctx, orderID)
}

// ListActiveChats возвращает идентификаторы заказов пользователя,
// в которых есть переписка.
func (s *ChatService) ListActiveChats(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.messages.ListOrderIDsWithMessages(ctx, userID)
}

func (s *ChatService) notifyReceiver(receiverID, orderID uuid.UUID) {
	if s.notifications == nil {
		return
	}
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifications.Notify(ctx, receiverID, "Новое сообщение", "У вас новое сообщение в чате заказа.", orderLink(orderID)); err != nil {
			logger.Log.Warnf("chat service: не удалось отправить уведомление: %v", err)
		}
	})
}
