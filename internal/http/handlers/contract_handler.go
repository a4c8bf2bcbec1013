package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillbridge/backend/internal/http/handlers/common"
	"github.com/skillbridge/backend/internal/pdf"
	"github.com/skillbridge/backend/internal/service"
)

// ContractHandler предоставляет HTTP слой для контрактов.
type ContractHandler struct {
	contracts *service.ContractService
	orders    service.OrderReader
	users     service.UserReader
	exporter  *pdf.ContractExporter
}

// NewContractHandler создаёт хэндлер.
func NewContractHandler(contracts *service.ContractService, orders service.OrderReader, users service.UserReader, exporter *pdf.ContractExporter) *ContractHandler {
	return &ContractHandler{contracts: contracts, orders: orders, users: users, exporter: exporter}
}

// GetContract обрабатывает GET /orders/:id/contract.
// Контракт создаётся при первом обращении.
func (h *ContractHandler) GetContract(c *gin.Context) {
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

	contract, err := h.contracts.GetOrGenerate(c.Request.Context(), actor, orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// GenerateContract обрабатывает POST /orders/:id/contract.
func (h *ContractHandler) GenerateContract(c *gin.Context) {
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

	contract, err := h.contracts.Generate(c.Request.Context(), actor, orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// SignContract обрабатывает POST /contracts/:id/sign.
func (h *ContractHandler) SignContract(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.Sign(c.Request.Context(), actor, contractID, c.ClientIP())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// DownloadContractPDF обрабатывает GET /contracts/:id/pdf.
func (h *ContractHandler) DownloadContractPDF(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contract, err := h.contracts.Get(c.Request.Context(), actor, contractID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), contract.OrderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	providerName, clientName := "Исполнитель", "Клиент"
	if provider, err := h.users.GetByID(c.Request.Context(), order.SellerID); err == nil {
		providerName = provider.DisplayName()
	}
	if client, err := h.users.GetByID(c.Request.Context(), order.BuyerID); err == nil {
		clientName = client.DisplayName()
	}

	document, err := h.exporter.Render(contract, providerName, clientName)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=contract_%s.pdf", contract.ContractNumber))
	c.Data(http.StatusOK, "application/pdf", document)
}
