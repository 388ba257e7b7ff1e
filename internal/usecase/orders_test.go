package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/test"
)

func seedUserOrders(repo *test.OrderRepositoryStub, count int) {
	orders := make([]model.Order, 0, count)
	for i := 1; i <= count; i++ {
		orders = append(orders, model.Order{
			ID:            int64(i),
			Number:        model.FormatOrderNumber(int64(i)),
			UserID:        1,
			StoreID:       2,
			GatewayTxnID:  "TXN-" + model.FormatOrderNumber(int64(i)),
			PaymentStatus: model.PaymentStatusSuccess,
			OrderStatus:   model.OrderStatusPending,
			IsActive:      i%2 == 0,
		})
	}
	repo.Seed(orders...)
}

func TestActive(t *testing.T) {
	repo := &test.OrderRepositoryStub{}
	seedUserOrders(repo, 4)
	uc := NewOrdersUseCase(repo)

	orders, err := uc.Active(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 active orders, got %d", len(orders))
	}

	if _, err := uc.Active(context.Background(), 0); !errors.Is(err, domainErrors.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestHistoryPagination(t *testing.T) {
	repo := &test.OrderRepositoryStub{}
	seedUserOrders(repo, 5)
	uc := NewOrdersUseCase(repo)

	page, total, err := uc.History(context.Background(), 1, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("expected total 5 page 2, got total %d page %d", total, len(page))
	}

	last, total, err := uc.History(context.Background(), 1, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(last) != 1 {
		t.Fatalf("expected last page of 1, got %d", len(last))
	}

	beyond, _, err := uc.History(context.Background(), 1, 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("expected empty page, got %d", len(beyond))
	}
}

func TestHistoryDefaults(t *testing.T) {
	repo := &test.OrderRepositoryStub{}
	seedUserOrders(repo, 3)
	uc := NewOrdersUseCase(repo)

	page, total, err := uc.History(context.Background(), 1, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(page) != 3 {
		t.Fatalf("expected all 3 orders, got %d of %d", len(page), total)
	}
}

func TestVerifyPayment(t *testing.T) {
	repo := &test.OrderRepositoryStub{}
	repo.Seed(model.Order{ID: 10, UserID: 1, GatewayTxnID: "TXN-1", PaymentStatus: model.PaymentStatusSuccess})
	uc := NewOrdersUseCase(repo)

	order, err := uc.VerifyPayment(context.Background(), 1, "TXN-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 10 {
		t.Fatalf("unexpected order %+v", order)
	}

	if _, err := uc.VerifyPayment(context.Background(), 2, "TXN-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := uc.VerifyPayment(context.Background(), 1, ""); !errors.Is(err, domainErrors.ErrUnknownTxn) {
		t.Fatalf("expected ErrUnknownTxn for empty txn, got %v", err)
	}
}
