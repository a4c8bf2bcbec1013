package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/goroutine"
	"github.com/skillbridge/backend/internal/logger"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

// ContractStore описывает взаимодействие сервиса с хранилищем контрактов.
type ContractStore interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Contract, error)
	SignAsParty(ctx context.Context, id uuid.UUID, asProvider bool, signedAt time.Time, ip string) (*repository.SignResult, error)
}

// ContractService генерирует контракты по заказам и ведёт их подписание.
// На заказ существует не более одного контракта, подписи монотонны.
type ContractService struct {
	contracts     ContractStore
	orders        OrderReader
	services      ServiceReader
	users         UserReader
	notifications NotificationSink
	mailer        EmailSender
}

// NewContractService создаёт новый сервис контрактов.
func NewContractService(contracts ContractStore, orders OrderReader, services ServiceReader, users UserReader, notifications NotificationSink, mailer EmailSender) *ContractService {
	return &ContractService{
		contracts:     contracts,
		orders:        orders,
		services:      services,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
	}
}

// maxNumberAttempts ограничивает повторы генерации номера при коллизии.
const maxNumberAttempts = 5

// GetOrGenerate возвращает контракт заказа, при отсутствии — создаёт его.
// Доступ имеют стороны заказа и администратор.
func (s *ContractService) GetOrGenerate(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Contract, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}
	if err := requireParticipantOrAdmin(order, actor); err != nil {
		return nil, err
	}

	contract, err := s.contracts.GetByOrderID(ctx, orderID)
	if err == nil {
		return contract, nil
	}
	if !errors.Is(err, repository.ErrContractNotFound) {
		return nil, err
	}

	return s.generate(ctx, order)
}

// Generate создаёт контракт по заказу. Если контракт уже существует,
// возвращает AlreadyExists. Доступно только сторонам заказа.
func (s *ContractService) Generate(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Contract, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}
	if err := requireParticipant(order, actor); err != nil {
		return nil, err
	}

	if _, err := s.contracts.GetByOrderID(ctx, orderID); err == nil {
		return nil, apperror.ErrContractExists
	} else if !errors.Is(err, repository.ErrContractNotFound) {
		return nil, err
	}

	contract, err := s.generate(ctx, order)
	if err != nil {
		return nil, err
	}

	counterpart := order.BuyerID
	if actor.ID == order.BuyerID {
		counterpart = order.SellerID
	}
	s.notifyAsync(counterpart,
		"Контракт готов к подписанию",
		"Контракт по вашему заказу сформирован и ожидает подписи.",
		orderLink(order.ID))

	return contract, nil
}

// generate формирует текст контракта детерминированно из заказа, услуги
// и сторон, затем сохраняет его. Коллизия номера приводит к повторной
// генерации номера; дубликат по заказу — к AlreadyExists.
func (s *ContractService) generate(ctx context.Context, order *models.Order) (*models.Contract, error) {
	svc, err := s.services.GetByID(ctx, order.ServiceID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrServiceNotFound, apperror.ErrServiceNotFound)
	}
	provider, err := s.users.GetByID(ctx, order.SellerID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	client, err := s.users.GetByID(ctx, order.BuyerID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}

	contract := buildContract(order, svc, provider, client)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		contract.ContractNumber = contractNumber(order.ID)
		err = s.contracts.Create(ctx, contract)
		if err == nil {
			return contract, nil
		}
		if errors.Is(err, repository.ErrContractNumberTaken) {
			continue
		}
		if errors.Is(err, repository.ErrDuplicate) {
			// Конкурентная генерация: контракт уже создан, возвращаем его.
			return s.contracts.GetByOrderID(ctx, order.ID)
		}
		return nil, err
	}
	return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать уникальный номер контракта")
}

// Sign ставит подпись стороны заказа на контракте. Повторная подпись той же
// стороной — ошибка AlreadyExists, исходные отметка времени и IP
// сохраняются; проигравший конкурентную подпись получает Conflict.
// Полное подписание переводит заказ pending -> in_progress.
func (s *ContractService) Sign(ctx context.Context, actor Actor, contractID uuid.UUID, ip string) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrContractNotFound, apperror.ErrContractNotFound)
	}
	order, err := s.orders.GetByID(ctx, contract.OrderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}

	var asProvider bool
	switch actor.ID {
	case order.SellerID:
		asProvider = true
	case order.BuyerID:
		asProvider = false
	default:
		return nil, apperror.ErrForbidden
	}

	signedBefore := contract.ProviderSigned
	if !asProvider {
		signedBefore = contract.ClientSigned
	}
	if signedBefore {
		return nil, apperror.ErrAlreadySigned
	}

	result, err := s.contracts.SignAsParty(ctx, contractID, asProvider, time.Now(), ip)
	if err != nil {
		return nil, err
	}
	if !result.Signed {
		// Подпись уже стояла на момент UPDATE, хотя при чтении её не было:
		// параллельный вызов успел раньше.
		return nil, apperror.ErrSignatureRaceLost
	}

	counterpart := order.BuyerID
	title := "Исполнитель подписал контракт"
	if !asProvider {
		counterpart = order.SellerID
		title = "Клиент подписал контракт"
	}
	message := "Проверьте контракт и поставьте свою подпись."
	if result.FullySigned {
		message = "Контракт подписан обеими сторонами. Работа может начинаться."
	}
	s.notifyAsync(counterpart, title, message, orderLink(order.ID))
	s.mailSigned(order, result.FullySigned)

	return s.contracts.GetByID(ctx, contractID)
}

// Get возвращает контракт по идентификатору. Доступ имеют стороны
// заказа и администратор.
func (s *ContractService) Get(ctx context.Context, actor Actor, contractID uuid.UUID) (*models.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrContractNotFound, apperror.ErrContractNotFound)
	}
	order, err := s.orders.GetByID(ctx, contract.OrderID)
	if err != nil {
		return nil, mapStoreError(err, repository.ErrOrderNotFound, apperror.ErrOrderNotFound)
	}
	if err := requireParticipantOrAdmin(order, actor); err != nil {
		return nil, err
	}
	return contract, nil
}

// IsFullySigned сообщает, подписан ли контракт обеими сторонами.
func (s *ContractService) IsFullySigned(contract *models.Contract) bool {
	return contract.IsFullySigned()
}

func (s *ContractService) notifyAsync(userID uuid.UUID, title, message string, link *string) {
	if s.notifications == nil {
		return
	}
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifications.Notify(ctx, userID, title, message, link); err != nil {
			logger.Log.Warnf("contract service: не удалось отправить уведомление: %v", err)
		}
	})
}

func (s *ContractService) mailSigned(order *models.Order, fullySigned bool) {
	if s.mailer == nil || !fullySigned {
		return
	}
	buyerID, sellerID := order.BuyerID, order.SellerID
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		for _, id := range []uuid.UUID{buyerID, sellerID} {
			user, err := s.users.GetByID(ctx, id)
			if err != nil {
				logger.Log.Warnf("contract service: не удалось загрузить пользователя для письма: %v", err)
				continue
			}
			body := "Контракт по вашему заказу подписан обеими сторонами. Работа может начинаться."
			if err := s.mailer.Send(ctx, []string{user.Email}, "Контракт полностью подписан", body); err != nil {
				logger.Log.Warnf("contract service: не удалось отправить письмо: %v", err)
			}
		}
	})
}

// contractNumber формирует номер контракта из префикса заказа и случайного
// суффикса. Уникальность гарантирует ограничение БД, коллизия ведёт к
// повторной генерации.
func contractNumber(orderID uuid.UUID) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)
	compact := strings.ReplaceAll(orderID.String(), "-", "")
	return fmt.Sprintf("SB-%s-%s", strings.ToUpper(compact[:8]), strings.ToUpper(hex.EncodeToString(suffix)))
}

// buildContract собирает тексты разделов контракта. Функция чистая:
// одинаковые входные данные всегда дают одинаковые тексты.
func buildContract(order *models.Order, svc *models.Service, provider, client *models.User) *models.Contract {
	deliverables := order.Scope
	if strings.TrimSpace(deliverables) == "" {
		deliverables = fmt.Sprintf("Результаты работ по услуге «%s» в соответствии с её описанием.", svc.Title)
	}

	timeline := "Срок согласуется сторонами в чате заказа."
	if order.DeadlineAt != nil {
		timeline = fmt.Sprintf("Работы должны быть завершены до %s.", order.DeadlineAt.Format("02.01.2006"))
	}

	serviceDescription := fmt.Sprintf(
		"Исполнитель %s обязуется оказать клиенту %s услугу «%s».\n\nОписание услуги:\n%s",
		provider.DisplayName(), client.DisplayName(), svc.Title, svc.Description,
	)
	if strings.TrimSpace(order.Requirements) != "" {
		serviceDescription += "\n\nТребования клиента:\n" + order.Requirements
	}

	paymentTerms := fmt.Sprintf(
		"Стоимость услуги: %s. Бюджетный уровень: %s. Оплата производится по договорённости сторон после подписания контракта.",
		svc.Price.StringFixed(2), order.BudgetTier,
	)

	return &models.Contract{
		OrderID:            order.ID,
		ServiceDescription: serviceDescription,
		Deliverables:       deliverables,
		Timeline:           timeline,
		PaymentAmount:      svc.Price,
		PaymentTerms:       paymentTerms,
		RevisionPolicy:     "Исполнитель предоставляет до двух раундов правок в рамках согласованного объёма работ.",
		IPOwnership:        "Исключительные права на результаты работ переходят клиенту после полной оплаты.",
		CancellationPolicy: "Любая сторона может отменить заказ до начала работ. После начала работ условия отмены согласуются сторонами.",
		Status:             models.ContractStatusDraft,
	}
}
