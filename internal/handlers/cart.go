// internal/handlers/cart.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/grocery-browser/internal/cart"
	"github.com/javajoker/grocery-browser/internal/middleware"
	"github.com/javajoker/grocery-browser/internal/services"
	"github.com/javajoker/grocery-browser/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,product_id"`
}

type SelectOfferRequest struct {
	OfferIndex *int `json:"offer_index" validate:"required,min=0"`
}

// POST /cart
func (h *CartHandler) CreateCart(c *gin.Context) {
	view := h.cartService.Create()
	c.Header(middleware.SessionHeader, view.SessionID)
	utils.CreatedResponse(c, view)
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)
	h.respond(c, func() (services.CartView, error) {
		return h.cartService.Get(sessionID)
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)
	h.respond(c, func() (services.CartView, error) {
		return h.cartService.Clear(sessionID)
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	h.respond(c, func() (services.CartView, error) {
		return h.cartService.Add(sessionID, req.ProductID)
	})
}

// POST /cart/items/:id/increment
func (h *CartHandler) IncrementItem(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)
	h.respond(c, func() (services.CartView, error) {
		return h.cartService.Increment(sessionID, c.Param("id"))
	})
}

// POST /cart/items/:id/decrement
func (h *CartHandler) DecrementItem(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)
	h.respond(c, func() (services.CartView, error) {
		return h.cartService.Decrement(sessionID, c.Param("id"))
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)
	h.respond(c, func() (services.CartView, error) {
		return h.cartService.Remove(sessionID, c.Param("id"))
	})
}

// PUT /cart/items/:id/offer
func (h *CartHandler) SelectOffer(c *gin.Context) {
	sessionID, _ := utils.GetCartSessionFromContext(c)

	var req SelectOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	h.respond(c, func() (services.CartView, error) {
		return h.cartService.SelectOffer(sessionID, c.Param("id"), *req.OfferIndex)
	})
}

func (h *CartHandler) respond(c *gin.Context, fn func() (services.CartView, error)) {
	view, err := fn()
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			utils.NotFoundResponse(c, "Cart session")
		case errors.Is(err, cart.ErrOfferOutOfRange):
			utils.BadRequestResponse(c, "Offer index out of range", nil)
		default:
			respondCatalogError(c, err)
		}
		return
	}
	utils.SuccessResponse(c, view)
}
