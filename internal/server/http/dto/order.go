package dto

import "time"

// OrderResponse is the public shape of one order.
type OrderResponse struct {
	ID                 int64              `json:"id"`
	Number             string             `json:"number"`
	StoreID            int64              `json:"storeId"`
	Items              []CartItemResponse `json:"items"`
	TotalPrice         float64            `json:"totalPrice"`
	PlatformFee        float64            `json:"platformFee"`
	PaymentStatus      string             `json:"paymentStatus"`
	OrderStatus        string             `json:"orderStatus"`
	IsActive           bool               `json:"isOrderActive"`
	IsViewedByMerchant bool               `json:"isOrderViewedByMerchant"`
	CreatedAt          time.Time          `json:"createdAt"`
	RejectedAt         *time.Time         `json:"rejectedAt,omitempty"`
	DeliveredAt        *time.Time         `json:"deliveredAt,omitempty"`
}

// OrderHistoryResponse is one page of a user's orders.
type OrderHistoryResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Count  int             `json:"count"`
}
