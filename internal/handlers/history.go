// internal/handlers/history.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/grocery-browser/internal/services"
	"github.com/javajoker/grocery-browser/internal/utils"
)

type HistoryHandler struct {
	historyService *services.HistoryService
	pagination     utils.PaginationDefaults
}

// NewHistoryHandler accepts a nil service when no database is configured.
func NewHistoryHandler(historyService *services.HistoryService, pagination utils.PaginationDefaults) *HistoryHandler {
	pagination.Sort = "scraped_at"
	return &HistoryHandler{
		historyService: historyService,
		pagination:     pagination,
	}
}

// GET /products/:id/prices
func (h *HistoryHandler) GetProductPrices(c *gin.Context) {
	if h.historyService == nil {
		utils.NotFoundResponse(c, "Price history")
		return
	}

	id := c.Param("id")
	if !utils.IsValidProductID(id) {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	params := utils.GetPaginationParams(c, h.pagination)
	result, err := h.historyService.ItemHistory(c.Request.Context(), id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}
