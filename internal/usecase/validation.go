package usecase

import (
	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
)

// ValidID reports whether an entity identifier is well formed.
func ValidID(id int64) bool {
	return id > 0
}

// merchant-settable targets; pending/incomplete/completed are never set
// directly through the change-status endpoint.
var settableStatuses = map[string]model.OrderStatus{
	"processing": model.OrderStatusProcessing,
	"printed":    model.OrderStatusPrinted,
	"rejected":   model.OrderStatusRejected,
	"delivered":  model.OrderStatusDelivered,
}

// ParseSettableStatus maps a request parameter onto a status a merchant may
// set directly.
func ParseSettableStatus(raw string) (model.OrderStatus, error) {
	status, ok := settableStatuses[raw]
	if !ok {
		return "", domainErrors.ErrInvalidStatus
	}
	return status, nil
}
