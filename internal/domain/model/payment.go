package model

// GatewayState is the payment state reported by the external gateway.
type GatewayState string

const (
	GatewayStateCompleted GatewayState = "COMPLETED"
	GatewayStatePending   GatewayState = "PENDING"
	GatewayStateFailed    GatewayState = "FAILED"
)

// PaymentResult is the verified verdict obtained from the gateway for one
// transaction.
type PaymentResult struct {
	TxnID string
	State GatewayState
	Raw   []byte
}

// Outcome maps the gateway state onto the order's payment status. A pending
// gateway state maps to pending and must not be applied as terminal.
func (r PaymentResult) Outcome() PaymentStatus {
	switch r.State {
	case GatewayStateCompleted:
		return PaymentStatusSuccess
	case GatewayStatePending:
		return PaymentStatusPending
	default:
		return PaymentStatusFailed
	}
}
