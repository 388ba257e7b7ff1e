package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/server/http/dto"
	"github.com/printmart/printmart/internal/usecase"
)

// MerchantHandler manages store-side order endpoints. The merchant token's
// subject is the store id; every route's :storeId must match it.
type MerchantHandler struct {
	facade MerchantFacade
}

// NewMerchantHandler constructs MerchantHandler.
func NewMerchantHandler(facade MerchantFacade) *MerchantHandler {
	return &MerchantHandler{facade: facade}
}

// Orders handles GET /api/v1/merchant/orders/:storeId.
func (h *MerchantHandler) Orders(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = &parsed
	}

	orders, err := h.facade.StoreOrders(c.Request.Context(), storeID, day)
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

// MarkViewed handles PUT /api/v1/merchant/orders/is-viewed/:storeId/:orderId.
func (h *MerchantHandler) MarkViewed(c *gin.Context) {
	storeID, orderID, ok := h.storeAndOrderID(c)
	if !ok {
		return
	}
	order, err := h.facade.MarkOrderViewed(c.Request.Context(), storeID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// ChangeStatus handles PUT /api/v1/merchant/orders/change-status/:storeId/:orderId/:status.
func (h *MerchantHandler) ChangeStatus(c *gin.Context) {
	storeID, orderID, ok := h.storeAndOrderID(c)
	if !ok {
		return
	}
	status, err := usecase.ParseSettableStatus(c.Param("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	order, err := h.facade.ChangeOrderStatus(c.Request.Context(), storeID, orderID, status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// ToggleStatus handles PUT /api/v1/merchant/orders/toggle-status/:storeId/:orderId.
func (h *MerchantHandler) ToggleStatus(c *gin.Context) {
	storeID, orderID, ok := h.storeAndOrderID(c)
	if !ok {
		return
	}
	order, err := h.facade.ToggleOrderStatus(c.Request.Context(), storeID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles PUT /api/v1/merchant/orders/cancel/:storeId/:orderId.
func (h *MerchantHandler) Cancel(c *gin.Context) {
	storeID, orderID, ok := h.storeAndOrderID(c)
	if !ok {
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), storeID, orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Dashboard handles GET /api/v1/merchant/orders/dashboard/:storeId.
func (h *MerchantHandler) Dashboard(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}
	summary, err := h.facade.StoreDashboard(c.Request.Context(), storeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StoreDashboardResponse{
		Orders:        summary.Orders,
		FilesReceived: summary.FilesReceived,
		Revenue:       summary.Revenue,
	})
}

func (h *MerchantHandler) storeID(c *gin.Context) (int64, bool) {
	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil || storeID <= 0 {
		abortWithError(c, domainErrors.ErrInvalidID)
		return 0, false
	}
	if storeID != CurrentStoreID(c) {
		c.AbortWithStatus(http.StatusForbidden)
		return 0, false
	}
	return storeID, true
}

func (h *MerchantHandler) storeAndOrderID(c *gin.Context) (int64, int64, bool) {
	storeID, ok := h.storeID(c)
	if !ok {
		return 0, 0, false
	}
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		abortWithError(c, domainErrors.ErrInvalidID)
		return 0, 0, false
	}
	return storeID, orderID, true
}
