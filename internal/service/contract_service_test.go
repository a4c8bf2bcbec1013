package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/pkg/apperror"
	"github.com/skillbridge/backend/internal/repository"
)

type mockContractStore struct {
	mock.Mock
}

func (m *mockContractStore) Create(ctx context.Context, contract *models.Contract) error {
	args := m.Called(ctx, contract)
	if args.Error(0) == nil {
		contract.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockContractStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *mockContractStore) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Contract, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *mockContractStore) SignAsParty(ctx context.Context, id uuid.UUID, asProvider bool, signedAt time.Time, ip string) (*repository.SignResult, error) {
	args := m.Called(ctx, id, asProvider, signedAt, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SignResult), args.Error(1)
}

type contractServiceDeps struct {
	contracts *mockContractStore
	orders    *mockOrderStore
	services  *mockServiceReader
	users     *mockUserReader
}

func newContractServiceForTest() (*ContractService, *contractServiceDeps) {
	deps := &contractServiceDeps{
		contracts: new(mockContractStore),
		orders:    new(mockOrderStore),
		services:  new(mockServiceReader),
		users:     new(mockUserReader),
	}
	svc := NewContractService(deps.contracts, deps.orders, deps.services, deps.users, nil, nil)
	return svc, deps
}

func contractTestOrder(buyerID, sellerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:         uuid.New(),
		ServiceID:  uuid.New(),
		BuyerID:    buyerID,
		SellerID:   sellerID,
		Status:     models.OrderStatusPending,
		BudgetTier: models.BudgetTierStandard,
	}
}

func TestContractService_GetOrGenerate_Existing(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	order := contractTestOrder(buyerID, uuid.New())
	existing := &models.Contract{ID: uuid.New(), OrderID: order.ID}

	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("GetByOrderID", ctx, order.ID).Return(existing, nil)

	contract, err := svc.GetOrGenerate(ctx, Actor{ID: buyerID, Role: models.RoleClient}, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, existing.ID, contract.ID)
	deps.contracts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContractService_GetOrGenerate_CreatesDraft(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	order := contractTestOrder(buyerID, sellerID)

	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("GetByOrderID", ctx, order.ID).Return(nil, repository.ErrContractNotFound)
	deps.services.On("GetByID", ctx, order.ServiceID).Return(&models.Service{
		ID:      order.ServiceID,
		OwnerID: sellerID,
		Title:   "Вёрстка лендинга",
		Price:   decimal.NewFromInt(15000),
	}, nil)
	deps.users.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID, Username: "master"}, nil)
	deps.users.On("GetByID", ctx, buyerID).Return(&models.User{ID: buyerID, Username: "client"}, nil)
	deps.contracts.On("Create", ctx, mock.AnythingOfType("*models.Contract")).Return(nil)

	contract, err := svc.GetOrGenerate(ctx, Actor{ID: buyerID, Role: models.RoleClient}, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusDraft, contract.Status)
	assert.True(t, contract.PaymentAmount.Equal(decimal.NewFromInt(15000)))
	assert.True(t, strings.HasPrefix(contract.ContractNumber, "SB-"))
	assert.False(t, contract.ProviderSigned)
	assert.False(t, contract.ClientSigned)
}

func TestContractService_GetOrGenerate_StrangerForbidden(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	order := contractTestOrder(uuid.New(), uuid.New())
	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.GetOrGenerate(ctx, Actor{ID: uuid.New(), Role: models.RoleClient}, order.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestContractService_Generate_AlreadyExists(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	order := contractTestOrder(buyerID, uuid.New())

	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("GetByOrderID", ctx, order.ID).Return(&models.Contract{ID: uuid.New()}, nil)

	_, err := svc.Generate(ctx, Actor{ID: buyerID, Role: models.RoleClient}, order.ID)
	assert.True(t, apperror.IsAlreadyExists(err))
}

func TestContractService_Generate_RetriesNumberCollision(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	order := contractTestOrder(buyerID, sellerID)

	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("GetByOrderID", ctx, order.ID).Return(nil, repository.ErrContractNotFound)
	deps.services.On("GetByID", ctx, order.ServiceID).Return(&models.Service{
		ID:      order.ServiceID,
		OwnerID: sellerID,
		Price:   decimal.NewFromInt(1000),
	}, nil)
	deps.users.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID, Username: "master"}, nil)
	deps.users.On("GetByID", ctx, buyerID).Return(&models.User{ID: buyerID, Username: "client"}, nil)
	deps.contracts.On("Create", ctx, mock.AnythingOfType("*models.Contract")).Return(repository.ErrContractNumberTaken).Once()
	deps.contracts.On("Create", ctx, mock.AnythingOfType("*models.Contract")).Return(nil).Once()

	contract, err := svc.Generate(ctx, Actor{ID: buyerID, Role: models.RoleClient}, order.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, contract.ContractNumber)
	deps.contracts.AssertNumberOfCalls(t, "Create", 2)
}

func TestContractService_Generate_ConcurrentDuplicate(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	order := contractTestOrder(buyerID, sellerID)
	winner := &models.Contract{ID: uuid.New(), OrderID: order.ID}

	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("GetByOrderID", ctx, order.ID).Return(nil, repository.ErrContractNotFound).Once()
	deps.services.On("GetByID", ctx, order.ServiceID).Return(&models.Service{
		ID:      order.ServiceID,
		OwnerID: sellerID,
		Price:   decimal.NewFromInt(1000),
	}, nil)
	deps.users.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID, Username: "master"}, nil)
	deps.users.On("GetByID", ctx, buyerID).Return(&models.User{ID: buyerID, Username: "client"}, nil)
	deps.contracts.On("Create", ctx, mock.AnythingOfType("*models.Contract")).Return(repository.ErrDuplicate)
	deps.contracts.On("GetByOrderID", ctx, order.ID).Return(winner, nil).Once()

	contract, err := svc.Generate(ctx, Actor{ID: buyerID, Role: models.RoleClient}, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, winner.ID, contract.ID)
}

func TestContractService_Sign_Provider(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	order := contractTestOrder(buyerID, sellerID)
	contractID := uuid.New()
	contract := &models.Contract{ID: contractID, OrderID: order.ID}

	deps.contracts.On("GetByID", ctx, contractID).Return(contract, nil)
	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("SignAsParty", ctx, contractID, true, mock.AnythingOfType("time.Time"), "10.0.0.1").
		Return(&repository.SignResult{Signed: true, Status: models.ContractStatusPartiallySigned}, nil)

	_, err := svc.Sign(ctx, Actor{ID: sellerID, Role: models.RoleProvider}, contractID, "10.0.0.1")
	assert.NoError(t, err)
}

func TestContractService_Sign_AlreadySigned(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	order := contractTestOrder(buyerID, uuid.New())
	contractID := uuid.New()

	deps.contracts.On("GetByID", ctx, contractID).Return(&models.Contract{ID: contractID, OrderID: order.ID, ClientSigned: true}, nil)
	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.Sign(ctx, Actor{ID: buyerID, Role: models.RoleClient}, contractID, "10.0.0.1")
	assert.True(t, apperror.IsAlreadyExists(err))
	deps.contracts.AssertNotCalled(t, "SignAsParty", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContractService_Sign_ConcurrentLoser(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	order := contractTestOrder(buyerID, uuid.New())
	contractID := uuid.New()

	// При чтении подписи ещё нет, но UPDATE не находит неподписанной
	// строки: параллельный вызов успел раньше.
	deps.contracts.On("GetByID", ctx, contractID).Return(&models.Contract{ID: contractID, OrderID: order.ID}, nil)
	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)
	deps.contracts.On("SignAsParty", ctx, contractID, false, mock.AnythingOfType("time.Time"), "10.0.0.1").
		Return(&repository.SignResult{Signed: false}, nil)

	_, err := svc.Sign(ctx, Actor{ID: buyerID, Role: models.RoleClient}, contractID, "10.0.0.1")
	assert.ErrorIs(t, err, apperror.ErrSignatureRaceLost)
	assert.True(t, apperror.IsConflict(err))
}

func TestContractService_Sign_StrangerForbidden(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	order := contractTestOrder(uuid.New(), uuid.New())
	contractID := uuid.New()

	deps.contracts.On("GetByID", ctx, contractID).Return(&models.Contract{ID: contractID, OrderID: order.ID}, nil)
	deps.orders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := svc.Sign(ctx, Actor{ID: uuid.New(), Role: models.RoleClient}, contractID, "10.0.0.1")
	assert.True(t, apperror.IsForbidden(err))
	deps.contracts.AssertNotCalled(t, "SignAsParty", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestContractNumber_Format(t *testing.T) {
	orderID := uuid.New()
	number := contractNumber(orderID)

	assert.True(t, strings.HasPrefix(number, "SB-"))
	assert.Equal(t, strings.ToUpper(number), number)

	parts := strings.Split(number, "-")
	assert.Len(t, parts, 3)
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 6)
}

func TestContractNumber_SuffixVaries(t *testing.T) {
	orderID := uuid.New()
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		seen[contractNumber(orderID)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestBuildContract_Deterministic(t *testing.T) {
	deadline := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:           uuid.New(),
		Requirements: "Нужен адаптивный макет",
		Scope:        "Главная страница и две внутренние",
		BudgetTier:   models.BudgetTierPremium,
		DeadlineAt:   &deadline,
	}
	svc := &models.Service{Title: "Вёрстка", Description: "HTML/CSS", Price: decimal.NewFromInt(20000)}
	provider := &models.User{Username: "master"}
	client := &models.User{Username: "client"}

	first := buildContract(order, svc, provider, client)
	second := buildContract(order, svc, provider, client)

	assert.Equal(t, first.ServiceDescription, second.ServiceDescription)
	assert.Equal(t, first.PaymentTerms, second.PaymentTerms)
	assert.Equal(t, "Главная страница и две внутренние", first.Deliverables)
	assert.Contains(t, first.Timeline, "15.03.2026")
	assert.Contains(t, first.PaymentTerms, "20000.00")
	assert.Equal(t, models.ContractStatusDraft, first.Status)
}

func TestBuildContract_Defaults(t *testing.T) {
	order := &models.Order{ID: uuid.New(), BudgetTier: models.BudgetTierStandard}
	svc := &models.Service{Title: "Логотип", Description: "Векторный логотип", Price: decimal.NewFromInt(5000)}

	contract := buildContract(order, svc, &models.User{Username: "a"}, &models.User{Username: "b"})

	assert.Contains(t, contract.Deliverables, "Логотип")
	assert.Contains(t, contract.Timeline, "чате заказа")
}

func TestContractService_Get_StoreFailure(t *testing.T) {
	svc, deps := newContractServiceForTest()
	ctx := context.Background()

	contractID := uuid.New()
	deps.contracts.On("GetByID", ctx, contractID).Return(nil, errors.New("connection refused"))

	_, err := svc.Get(ctx, Actor{ID: uuid.New(), Role: models.RoleAdmin}, contractID)
	assert.True(t, apperror.IsInternal(err))
	assert.False(t, apperror.IsNotFound(err))
}
