package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/printmart/printmart/internal/adapter/gateway"
	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/server/http/dto"
)

// PaymentHandler manages checkout and settlement endpoints.
type PaymentHandler struct {
	facade     PaymentFacade
	successURL string
	failureURL string
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, successURL, failureURL string) *PaymentHandler {
	return &PaymentHandler{facade: facade, successURL: successURL, failureURL: failureURL}
}

// Checkout handles POST /api/v1/user/payment/checkout.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	userID := CurrentUserID(c)
	if !matchesCaller(c, userID) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	storeID, err := strconv.ParseInt(c.Query("storeId"), 10, 64)
	if err != nil {
		abortWithError(c, domainErrors.ErrInvalidID)
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout payload"})
		return
	}

	result, err := h.facade.Checkout(c.Request.Context(), userID, storeID, req.Amount, req.TxnID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		OrderID:     result.Order.ID,
		OrderNumber: result.Order.Number,
		TxnID:       result.Order.GatewayTxnID,
		RedirectURL: result.RedirectURL,
	})
}

// Status handles GET|POST /api/v1/payment/status. The gateway sends the payer
// back here after the payment page; the order is reconciled and the browser is
// forwarded to the storefront's success or failure page.
func (h *PaymentHandler) Status(c *gin.Context) {
	txnID := c.Query("id")
	if txnID == "" {
		c.Redirect(http.StatusFound, h.failureURL)
		return
	}

	result, err := h.facade.Reconcile(c.Request.Context(), txnID)
	if err != nil || result.Order.PaymentStatus != model.PaymentStatusSuccess {
		c.Redirect(http.StatusFound, appendTxnID(h.failureURL, txnID))
		return
	}
	c.Redirect(http.StatusFound, appendTxnID(h.successURL, txnID))
}

// Callback handles POST /api/v1/payment/callback, the gateway's
// server-to-server notification.
func (h *PaymentHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	verdict, err := h.facade.VerifyCallback(c.GetHeader("X-VERIFY"), body)
	if err != nil {
		if errors.Is(err, gateway.ErrChecksumMismatch) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.ReconcileVerdict(c.Request.Context(), verdict)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"txnId":         result.Order.GatewayTxnID,
		"paymentStatus": string(result.Order.PaymentStatus),
	})
}

// Verify handles GET /api/v1/user/payment/verify. It reports settlement state
// for the caller's own order without touching the gateway.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID := CurrentUserID(c)
	if !matchesCaller(c, userID) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	order, err := h.facade.VerifyPayment(c.Request.Context(), userID, c.Query("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentVerifyResponse{
		TxnID:         order.GatewayTxnID,
		PaymentStatus: string(order.PaymentStatus),
		OrderStatus:   string(order.OrderStatus),
		OrderNumber:   order.Number,
	})
}

// matchesCaller rejects requests whose userId query parameter names someone
// other than the token subject.
func matchesCaller(c *gin.Context, userID int64) bool {
	raw := c.Query("userId")
	if raw == "" {
		return true
	}
	claimed, err := strconv.ParseInt(raw, 10, 64)
	return err == nil && claimed == userID
}

func appendTxnID(base, txnID string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return base
	}
	query := parsed.Query()
	query.Set("id", txnID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
