// internal/handlers/catalog.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/grocery-browser/internal/models"
	"github.com/javajoker/grocery-browser/internal/services"
	"github.com/javajoker/grocery-browser/internal/utils"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	pagination     utils.PaginationDefaults
}

func NewCatalogHandler(catalogService *services.CatalogService, pagination utils.PaginationDefaults) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		pagination:     pagination,
	}
}

type SearchItem struct {
	models.Product
	Score float64 `json:"score"`
}

// GET /catalog/status
func (h *CatalogHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, h.catalogService.Status())
}

// POST /catalog/reload
func (h *CatalogHandler) Reload(c *gin.Context) {
	h.catalogService.LoadAsync(context.Background())
	utils.AcceptedResponse(c, h.catalogService.Status())
}

// GET /products/search
func (h *CatalogHandler) Search(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pagination)
	outcome := h.catalogService.Search(c.Query("q"))

	start, end := utils.PageBounds(len(outcome.Results), params)
	items := make([]SearchItem, 0, end-start)
	for _, r := range outcome.Results[start:end] {
		items = append(items, SearchItem{Product: r.Product, Score: r.Score})
	}

	result := utils.CreatePaginationResult(items, int64(len(outcome.Results)), params)
	extra := gin.H{
		"state": outcome.State,
		"query": outcome.Query,
	}
	if outcome.Message != "" {
		extra["message"] = outcome.Message
	}
	utils.PaginatedResponseWithMeta(c, result, extra)
}

// GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidProductID(id) {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.catalogService.Product(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogNotReady):
		utils.ServiceUnavailableResponse(c, "Catalog is not loaded")
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, "Product")
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
