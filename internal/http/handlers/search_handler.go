package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/backend/internal/http/handlers/common"
	"github.com/skillbridge/backend/internal/service"
)

// SearchHandler предоставляет HTTP слой для поиска по каталогу.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler создаёт хэндлер.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search обрабатывает GET /search.
// Параметры: q, category_id, min_price, max_price, sort.
func (h *SearchHandler) Search(c *gin.Context) {
	in := service.SearchInput{
		Query:  c.Query("q"),
		SortBy: c.Query("sort"),
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "category_id должен быть валидным UUID")
			return
		}
		in.CategoryID = &categoryID
	}
	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := decimal.NewFromString(raw)
		if err != nil {
			common.RespondBadRequest(c, "min_price должен быть числом")
			return
		}
		in.MinPrice = &minPrice
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			common.RespondBadRequest(c, "max_price должен быть числом")
			return
		}
		in.MaxPrice = &maxPrice
	}

	result, err := h.search.Search(c.Request.Context(), in)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Featured обрабатывает GET /services/featured.
func (h *SearchHandler) Featured(c *gin.Context) {
	services, err := h.search.Featured(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// Autocomplete обрабатывает GET /search/autocomplete.
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	suggestions, err := h.search.Autocomplete(c.Request.Context(), c.Query("q"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
