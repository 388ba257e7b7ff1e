package model

import (
	"fmt"
	"time"
)

// PaymentStatus describes settlement state owned by the reconciliation flow.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Terminal reports whether the payment outcome can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// OrderStatus describes fulfillment lifecycle owned by the merchant.
type OrderStatus string

const (
	OrderStatusIncomplete OrderStatus = "incomplete"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPrinted    OrderStatus = "printed"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusCompleted  OrderStatus = "completed"
)

// Terminal reports whether no further fulfillment transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusRejected || s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order is the authoritative record for one checkout. Payment state is
// mutated only by reconciliation, fulfillment state only by the merchant
// controller gated on settled payment.
type Order struct {
	ID                 int64
	Number             string
	UserID             int64
	StoreID            int64
	Items              []CartItem
	TotalPrice         float64
	PlatformFee        float64
	PaymentStatus      PaymentStatus
	OrderStatus        OrderStatus
	IsActive           bool
	IsViewedByMerchant bool
	GatewayTxnID       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	RejectedAt         *time.Time
	DeliveredAt        *time.Time
}

// FormatOrderNumber renders an allocator-issued sequence value as the
// human-readable order number.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("#Order_%06d", seq)
}

// StoreOrderSummary aggregates settled orders of one store for the merchant
// dashboard.
type StoreOrderSummary struct {
	Orders        int64
	FilesReceived int64
	Revenue       float64
}
