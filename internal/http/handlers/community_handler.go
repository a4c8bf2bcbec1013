package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillbridge/backend/internal/http/handlers/common"
	"github.com/skillbridge/backend/internal/service"
)

// CommunityHandler предоставляет HTTP слой для сообществ.
type CommunityHandler struct {
	communities *service.CommunityService
}

// NewCommunityHandler создаёт хэндлер.
func NewCommunityHandler(communities *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communities: communities}
}

// List обрабатывает GET /communities.
func (h *CommunityHandler) List(c *gin.Context) {
	communities, err := h.communities.List(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// Detail обрабатывает GET /communities/:id. Маршрут публичный: для
// авторизованного зрителя в ответ добавляется признак членства.
func (h *CommunityHandler) Detail(c *gin.Context) {
	communityID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var viewer *service.Actor
	if actor, err := common.CurrentActor(c); err == nil {
		viewer = &actor
	}

	detail, err := h.communities.Get(c.Request.Context(), viewer, communityID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Join обрабатывает POST /communities/:id/join.
func (h *CommunityHandler) Join(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	communityID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.communities.Join(c.Request.Context(), actor, communityID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave обрабатывает POST /communities/:id/leave.
func (h *CommunityHandler) Leave(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	communityID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.communities.Leave(c.Request.Context(), actor, communityID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
