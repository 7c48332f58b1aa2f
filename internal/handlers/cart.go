// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopworks/storefront/internal/services"
	"github.com/shopworks/storefront/internal/utils"
)

// CartHandler serves anonymous carts. Knowing a cart's id is the only
// credential needed, so no route here requires authentication.
type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.cartService.CreateCart()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"cart": cart,
	})
}

// GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart": cart,
	})
}

// DELETE /carts/:id
func (h *CartHandler) DeleteCart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.cartService.DeleteCart(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// GET /carts/:id/items
func (h *CartHandler) GetItems(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.cartService.ListItems(cartID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items": items,
	})
}

// POST /carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	item, err := h.cartService.AddItem(cartID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"item": item,
	})
}

// PATCH /carts/:id/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid input", err.Error())
		return
	}

	item, err := h.cartService.UpdateItemQuantity(cartID, itemID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"item": item,
	})
}

// DELETE /carts/:id/items/:itemId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(cartID, itemID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
