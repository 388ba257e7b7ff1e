package dto

// CheckoutRequest opens a payment session for the caller's cart.
type CheckoutRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=1"`
	TxnID  string  `json:"txnId"`
}

// CheckoutResponse points the client at the gateway's payment page.
type CheckoutResponse struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	TxnID       string `json:"txnId"`
	RedirectURL string `json:"redirectUrl"`
}

// PaymentVerifyResponse reports settlement state without side effects.
type PaymentVerifyResponse struct {
	TxnID         string `json:"txnId"`
	PaymentStatus string `json:"paymentStatus"`
	OrderStatus   string `json:"orderStatus"`
	OrderNumber   string `json:"orderNumber"`
}
