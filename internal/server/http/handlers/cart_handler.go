package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/server/http/dto"
)

// CartHandler manages the user's cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/v1/user/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.facade.Cart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Put handles POST and PUT /api/v1/user/cart/items. The same endpoint adds a
// new item and replaces an existing one, keyed by the item id.
func (h *CartHandler) Put(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item payload"})
		return
	}

	cart, err := h.facade.CartPut(c.Request.Context(), CurrentUserID(c), model.CartItem{
		ID:          req.ID,
		FileKey:     req.FileKey,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		PageCount:   req.PageCount,
		CopiesCount: req.CopiesCount,
		PaperSize:   req.PaperSize,
		PrintType:   req.PrintType,
		PrintSides:  req.PrintSides,
		ColorPages:  req.ColorPages,
		StoreNote:   req.StoreNote,
		Price:       req.Price,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Remove handles DELETE /api/v1/user/cart/items/:itemId.
func (h *CartHandler) Remove(c *gin.Context) {
	if err := h.facade.CartRemove(c.Request.Context(), CurrentUserID(c), c.Param("itemId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /api/v1/user/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.CartClear(c.Request.Context(), CurrentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
