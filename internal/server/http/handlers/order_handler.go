package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/printmart/printmart/internal/server/http/dto"
)

// OrderHandler exposes the user's order views.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Active handles GET /api/v1/user/orders/active.
func (h *OrderHandler) Active(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.ActiveOrders(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// History handles GET /api/v1/user/orders/history.
func (h *OrderHandler) History(c *gin.Context) {
	userID := CurrentUserID(c)

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	orders, total, err := h.facade.OrderHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, dto.OrderHistoryResponse{
		Orders: toOrderResponses(orders),
		Total:  total,
		Page:   page,
		Count:  len(orders),
	})
}
