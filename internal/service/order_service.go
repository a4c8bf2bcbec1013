package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/goroutine"
	"github.com/skillbridge/backend/internal/logger"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
	"github.com/skillbridge/backend/internal/validation"
)

// OrderStore описывает взаимодействие сервиса с хранилищем заказов.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error)
	Accept(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

// ServiceReader описывает минимальный контракт чтения услуг.
type ServiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// UserReader описывает минимальный контракт чтения пользователей.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// OrderService владеет машиной состояний заказа:
// pending -> in_progress -> completed, из неконечных статусов -> cancelled.
// Переход pending -> in_progress выполняет ContractService при полном
// подписании контракта.
type OrderService struct {
	orders        OrderStore
	services      ServiceReader
	users         UserReader
	notifications NotificationSink
	mailer        EmailSender
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(orders OrderStore, services ServiceReader, users UserReader, notifications NotificationSink, mailer EmailSender) *OrderService {
	return &OrderService{
		orders:        orders,
		services:      services,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
	}
}

// CreateOrderInput описывает входные данные размещения заказа.
type CreateOrderInput struct {
	ServiceID    uuid.UUID
	Requirements string
	Scope        string
	BudgetTier   string
	DeadlineAt   *time.Time
}

// CreateOrder размещает заказ на услугу. Исполнитель копируется из текущего
// владельца услуги и далее не меняется. Администраторы не оформляют заказы.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	if actor.IsAdmin() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "администраторы не могут оформлять заказы")
	}

	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	if !svc.IsActive {
		return nil, apperror.ErrServiceNotFound
	}
	if svc.OwnerID == actor.ID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя заказать собственную услугу")
	}

	if err := validation.ValidateLength("требования", in.Requirements, 0, validation.MaxRequirementsLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("объём работ", in.Scope, 0, validation.MaxScopeLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	budgetTier := in.BudgetTier
	if budgetTier == "" {
		budgetTier = models.BudgetTierStandard
	}
	if _, ok := models.ValidBudgetTiers[budgetTier]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный бюджетный уровень")
	}
	if in.DeadlineAt != nil && in.DeadlineAt.Before(time.Now()) {
		return nil, apperror.New(apperror.ErrCodeValidation, "дедлайн не может быть в прошлом")
	}

	order := &models.Order{
		ServiceID:    svc.ID,
		BuyerID:      actor.ID,
		SellerID:     svc.OwnerID,
		Requirements: in.Requirements,
		Scope:        in.Scope,
		BudgetTier:   budgetTier,
		DeadlineAt:   in.DeadlineAt,
		Status:       models.OrderStatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.dispatchOrderEvent(order, svc.Title, order.SellerID,
		"Новый заказ",
		fmt.Sprintf("Получен новый заказ на услугу «%s».", svc.Title),
		"Ваш заказ размещён",
		fmt.Sprintf("Заказ на услугу «%s» размещён. Исполнитель свяжется с вами.", svc.Title),
	)

	return order, nil
}

// AcceptOrder отмечает заказ принятым исполнителем и открывает чат.
// Статус заказа при этом не меняется. Повторное принятие и принятие
// заказа в конечном статусе — ошибка InvalidTransition.
func (s *OrderService) AcceptOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireSeller(order, actor); err != nil {
		return nil, err
	}

	ok, err := s.orders.Accept(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidTransition
	}
	order.IsAccepted = true

	s.notifyAsync(order.BuyerID,
		"Заказ принят",
		"Исполнитель принял ваш заказ. Теперь вам доступен чат.",
		orderLink(order.ID))

	return order, nil
}

// CompleteOrder переводит заказ in_progress -> completed. Доступно только
// исполнителю; из любого другого статуса — InvalidTransition.
func (s *OrderService) CompleteOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireSeller(order, actor); err != nil {
		return nil, err
	}

	ok, err := s.orders.Complete(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidTransition
	}
	order.Status = models.OrderStatusCompleted

	s.notifyAsync(order.BuyerID,
		"Заказ выполнен",
		"Исполнитель отметил ваш заказ выполненным.",
		orderLink(order.ID))

	return order, nil
}

// CancelOrder переводит заказ из неконечного статуса в cancelled.
// Доступно обеим сторонам заказа.
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(order, actor); err != nil {
		return nil, err
	}

	ok, err := s.orders.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrInvalidTransition
	}
	order.Status = models.OrderStatusCancelled

	counterpart := order.SellerID
	if actor.ID == order.SellerID {
		counterpart = order.BuyerID
	}
	s.notifyAsync(counterpart, "Заказ отменён", "Вторая сторона отменила заказ.", orderLink(order.ID))

	return order, nil
}

// GetOrder возвращает заказ. Доступ имеют стороны заказа и администратор.
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipantOrAdmin(order, actor); err != nil {
		return nil, err
	}
	return order, nil
}

// GetUserOrders возвращает заказы пользователя как покупателя или исполнителя.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, asBuyer bool) ([]models.Order, error) {
	if asBuyer {
		return s.orders.ListByBuyer(ctx, userID)
	}
	return s.orders.ListBySeller(ctx, userID)
}

func (s *OrderService) getOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}
	return order, nil
}

// notifyAsync отправляет уведомление вне основной транзакции.
// Ошибка деградирует до предупреждения в логе.
func (s *OrderService) notifyAsync(userID uuid.UUID, title, message string, link *string) {
	if s.notifications == nil {
		return
	}
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifications.Notify(ctx, userID, title, message, link); err != nil {
			logger.Log.Warnf("order service: не удалось отправить уведомление: %v", err)
		}
	})
}

// dispatchOrderEvent рассылает уведомление исполнителю и письма обеим сторонам.
func (s *OrderService) dispatchOrderEvent(order *models.Order, serviceTitle string, notifyUserID uuid.UUID, notifTitle, notifMessage, buyerSubject, buyerBody string) {
	s.notifyAsync(notifyUserID, notifTitle, notifMessage, orderLink(order.ID))

	if s.mailer == nil || s.users == nil {
		return
	}
	buyerID, sellerID := order.BuyerID, order.SellerID
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		buyer, err := s.users.GetByID(ctx, buyerID)
		if err != nil {
			logger.Log.Warnf("order service: не удалось загрузить покупателя для письма: %v", err)
			return
		}
		seller, err := s.users.GetByID(ctx, sellerID)
		if err != nil {
			logger.Log.Warnf("order service: не удалось загрузить исполнителя для письма: %v", err)
			return
		}

		if err := s.mailer.Send(ctx, []string{buyer.Email}, buyerSubject, buyerBody); err != nil {
			logger.Log.Warnf("order service: не удалось отправить письмо покупателю: %v", err)
		}
		sellerBody := fmt.Sprintf("Получен новый заказ на услугу «%s» от %s.", serviceTitle, buyer.DisplayName())
		if err := s.mailer.Send(ctx, []string{seller.Email}, notifTitle, sellerBody); err != nil {
			logger.Log.Warnf("order service: не удалось отправить письмо исполнителю: %v", err)
		}
	})
}

// orderLink формирует ссылку на страницу заказа для уведомлений.
func orderLink(orderID uuid.UUID) *string {
	link := "/orders/" + orderID.String()
	return &link
}
