package errors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidID         = errors.New("invalid identifier")
	ErrUnknownTxn        = errors.New("unknown gateway transaction")
	ErrPaymentNotSettled = errors.New("payment not settled")
	ErrStatusConflict    = errors.New("order status conflict")
	ErrInvalidStatus     = errors.New("invalid order status")
)
