package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
)

func TestValidID(t *testing.T) {
	cases := []struct {
		id   int64
		want bool
	}{
		{1, true},
		{42, true},
		{0, false},
		{-1, false},
	}
	for _, tc := range cases {
		if got := ValidID(tc.id); got != tc.want {
			t.Errorf("ValidID(%d) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestParseSettableStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want model.OrderStatus
	}{
		{"processing", model.OrderStatusProcessing},
		{"printed", model.OrderStatusPrinted},
		{"rejected", model.OrderStatusRejected},
		{"delivered", model.OrderStatusDelivered},
	}
	for _, tc := range cases {
		got, err := ParseSettableStatus(tc.raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Errorf("ParseSettableStatus(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"pending", "incomplete", "cancelled", "completed", "bogus", ""} {
		if _, err := ParseSettableStatus(raw); !errors.Is(err, domainErrors.ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus for %q, got %v", raw, err)
		}
	}
}
