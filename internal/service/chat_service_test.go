package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/validation"
)

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	if args.Error(0) == nil {
		message.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMessageStore) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageStore) ListOrderIDsWithMessages(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func newChatServiceForTest() (*ChatService, *mockMessageStore, *mockOrderStore) {
	messages := new(mockMessageStore)
	orders := new(mockOrderStore)
	return NewChatService(messages, orders, nil), messages, orders
}

func TestChatService_SendMessage_Success(t *testing.T) {
	svc, messages, orders := newChatServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	orderID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
	}, nil)
	messages.On("Create", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	message, err := svc.SendMessage(ctx, Actor{ID: buyerID, Role: models.RoleClient}, orderID, "  Добрый день!  ")
	assert.NoError(t, err)
	assert.Equal(t, "Добрый день!", message.Content)
	assert.Equal(t, buyerID, message.SenderID)
}

func TestChatService_SendMessage_Empty(t *testing.T) {
	svc, _, orders := newChatServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
	}, nil)

	_, err := svc.SendMessage(ctx, Actor{ID: buyerID, Role: models.RoleClient}, orderID, "   ")
	assert.True(t, apperror.IsValidation(err))
}

func TestChatService_SendMessage_TooLong(t *testing.T) {
	svc, _, orders := newChatServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
	}, nil)

	content := strings.Repeat("ж", validation.MaxMessageLength+1)
	_, err := svc.SendMessage(ctx, Actor{ID: buyerID, Role: models.RoleClient}, orderID, content)
	assert.True(t, apperror.IsValidation(err))
}

func TestChatService_SendMessage_AdminForbidden(t *testing.T) {
	svc, messages, orders := newChatServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}, nil)

	_, err := svc.SendMessage(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, orderID, "привет")
	assert.True(t, apperror.IsForbidden(err))
	messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChatService_GetMessages_AdminAllowed(t *testing.T) {
	svc, messages, orders := newChatServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}, nil)
	messages.On("ListByOrder", ctx, orderID).Return([]models.Message{{ID: uuid.New()}}, nil)

	got, err := svc.GetMessages(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, orderID)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestChatService_GetMessages_StrangerForbidden(t *testing.T) {
	svc, _, orders := newChatServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
	}, nil)

	_, err := svc.GetMessages(ctx, Actor{ID: uuid.New(), Role: models.RoleClient}, orderID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestChatService_ListActiveChats(t *testing.T) {
	svc, messages, _ := newChatServiceForTest()
	ctx := context.Background()

	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	messages.On("ListOrderIDsWithMessages", ctx, userID).Return(ids, nil)

	got, err := svc.ListActiveChats(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, ids, got)
}

func TestChatService_SendMessage_StoreFailure(t *testing.T) {
	svc, _, orders := newChatServiceForTest()
	ctx := context.Background()

	orderID := uuid.New()
	orders.On("GetByID", ctx, orderID).Return(nil, errors.New("connection refused"))

	_, err := svc.SendMessage(ctx, Actor{ID: uuid.New(), Role: models.RoleClient}, orderID, "привет")
	assert.True(t, apperror.IsInternal(err))
	assert.False(t, apperror.IsNotFound(err))
}
