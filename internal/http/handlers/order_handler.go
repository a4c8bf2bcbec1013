package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillbridge/backend/internal/http/handlers/common"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/service"
)

// OrderHandler предоставляет HTTP слой для заказов.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder обрабатывает POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		ServiceID    uuid.UUID  `json:"service_id" binding:"required"`
		Requirements string     `json:"requirements"`
		Scope        string     `json:"scope"`
		BudgetTier   string     `json:"budget_tier"`
		DeadlineAt   *time.Time `json:"deadline_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), actor, service.CreateOrderInput{
		ServiceID:    req.ServiceID,
		Requirements: req.Requirements,
		Scope:        req.Scope,
		BudgetTier:   req.BudgetTier,
		DeadlineAt:   req.DeadlineAt,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder обрабатывает GET /orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), actor, orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListMyOrders обрабатывает GET /orders/my.
// Параметр role=buyer|seller выбирает сторону, по умолчанию buyer.
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	asBuyer := c.DefaultQuery("role", "buyer") != "seller"
	orders, err := h.orders.GetUserOrders(c.Request.Context(), actor.ID, asBuyer)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// AcceptOrder обрабатывает POST /orders/:id/accept.
func (h *OrderHandler) AcceptOrder(c *gin.Context) {
	h.transition(c, h.orders.AcceptOrder)
}

// CompleteOrder обрабатывает POST /orders/:id/complete.
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	h.transition(c, h.orders.CompleteOrder)
}

// CancelOrder обрабатывает POST /orders/:id/cancel.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	h.transition(c, h.orders.CancelOrder)
}

// transition выполняет общий сценарий смены статуса заказа.
func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, actor service.Actor, orderID uuid.UUID) (*models.Order, error)) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := op(c.Request.Context(), actor, orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
