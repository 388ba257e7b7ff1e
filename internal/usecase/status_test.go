package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/test"
)

func settledOrder(id int64, status model.OrderStatus) model.Order {
	return model.Order{
		ID:            id,
		Number:        model.FormatOrderNumber(id),
		UserID:        1,
		StoreID:       2,
		Items:         []model.CartItem{{ID: "item-1"}},
		TotalPrice:    250,
		PaymentStatus: model.PaymentStatusSuccess,
		OrderStatus:   status,
		IsActive:      !status.Terminal(),
		CreatedAt:     time.Now(),
	}
}

func newStatusFixture(orders ...model.Order) (*StatusUseCase, *test.OrderRepositoryStub) {
	repo := &test.OrderRepositoryStub{}
	repo.Seed(orders...)
	stores := &test.StoreRepositoryStub{Stores: map[int64]*model.Store{
		2: {ID: 2, Name: "Quick Print", OwnerUserID: 5},
	}}
	return NewStatusUseCase(repo, stores), repo
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from model.OrderStatus
		to   model.OrderStatus
		want bool
	}{
		{model.OrderStatusPending, model.OrderStatusProcessing, true},
		{model.OrderStatusPending, model.OrderStatusRejected, true},
		{model.OrderStatusPending, model.OrderStatusDelivered, false},
		{model.OrderStatusProcessing, model.OrderStatusPrinted, true},
		{model.OrderStatusProcessing, model.OrderStatusDelivered, true},
		{model.OrderStatusPrinted, model.OrderStatusProcessing, true},
		{model.OrderStatusPrinted, model.OrderStatusDelivered, true},
		{model.OrderStatusRejected, model.OrderStatusProcessing, false},
		{model.OrderStatusDelivered, model.OrderStatusRejected, false},
		{model.OrderStatusCancelled, model.OrderStatusProcessing, false},
		{model.OrderStatusIncomplete, model.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		if got := TransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Errorf("TransitionAllowed(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestAdvance(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusPending))

	order, err := uc.Advance(context.Background(), 2, 10, model.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderStatus != model.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.OrderStatus)
	}
	if !order.IsViewedByMerchant {
		t.Fatal("expected order marked viewed on first acknowledgement")
	}
}

func TestAdvanceRejectDeactivatesAndStamps(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusProcessing))

	order, err := uc.Advance(context.Background(), 2, 10, model.OrderStatusRejected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.IsActive {
		t.Fatal("rejected order must be inactive")
	}
	if order.RejectedAt == nil {
		t.Fatal("expected rejection timestamp")
	}
}

func TestAdvanceDeliveredStamps(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusPrinted))

	order, err := uc.Advance(context.Background(), 2, 10, model.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.DeliveredAt == nil || order.IsActive {
		t.Fatalf("expected stamped inactive order, got %+v", order)
	}
}

func TestAdvanceGuards(t *testing.T) {
	unsettled := settledOrder(11, model.OrderStatusIncomplete)
	unsettled.PaymentStatus = model.PaymentStatusPending
	unsettled.GatewayTxnID = "TXN-11"

	terminal := settledOrder(12, model.OrderStatusDelivered)
	terminal.GatewayTxnID = "TXN-12"
	terminal.Number = model.FormatOrderNumber(12)

	base := settledOrder(10, model.OrderStatusPending)
	base.GatewayTxnID = "TXN-10"

	uc, _ := newStatusFixture(base, unsettled, terminal)

	cases := []struct {
		name    string
		storeID int64
		orderID int64
		to      model.OrderStatus
		wantErr error
	}{
		{name: "foreign store", storeID: 3, orderID: 10, to: model.OrderStatusProcessing, wantErr: domainErrors.ErrNotFound},
		{name: "missing order", storeID: 2, orderID: 99, to: model.OrderStatusProcessing, wantErr: domainErrors.ErrNotFound},
		{name: "payment not settled", storeID: 2, orderID: 11, to: model.OrderStatusProcessing, wantErr: domainErrors.ErrPaymentNotSettled},
		{name: "terminal is absorbing", storeID: 2, orderID: 12, to: model.OrderStatusRejected, wantErr: domainErrors.ErrStatusConflict},
		{name: "skipping ahead", storeID: 2, orderID: 10, to: model.OrderStatusDelivered, wantErr: domainErrors.ErrStatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Advance(context.Background(), tc.storeID, tc.orderID, tc.to); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRejectKeepsDeliveryTimestamp(t *testing.T) {
	delivered := settledOrder(10, model.OrderStatusDelivered)
	stamp := time.Now().Add(-time.Hour)
	delivered.DeliveredAt = &stamp
	delivered.IsActive = false

	uc, repo := newStatusFixture(delivered)

	if _, err := uc.Advance(context.Background(), 2, 10, model.OrderStatusRejected); !errors.Is(err, domainErrors.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), 10)
	if stored.DeliveredAt == nil || !stored.DeliveredAt.Equal(stamp) {
		t.Fatalf("delivery timestamp must be intact, got %v", stored.DeliveredAt)
	}
}

func TestMarkViewed(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusPending))

	order, err := uc.MarkViewed(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !order.IsViewedByMerchant || order.OrderStatus != model.OrderStatusProcessing {
		t.Fatalf("expected viewed processing order, got %+v", order)
	}

	again, err := uc.MarkViewed(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if again.OrderStatus != model.OrderStatusProcessing {
		t.Fatalf("repeat acknowledgement must not move status, got %s", again.OrderStatus)
	}
}

func TestToggle(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusProcessing))

	order, err := uc.Toggle(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderStatus != model.OrderStatusPrinted {
		t.Fatalf("expected printed, got %s", order.OrderStatus)
	}

	order, err = uc.Toggle(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderStatus != model.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", order.OrderStatus)
	}
}

func TestToggleOutsideToggleStates(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusPending))

	if _, err := uc.Toggle(context.Background(), 2, 10); !errors.Is(err, domainErrors.ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	uc, _ := newStatusFixture(settledOrder(10, model.OrderStatusPending))

	order, err := uc.Cancel(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderStatus != model.OrderStatusCancelled || order.IsActive {
		t.Fatalf("expected inactive cancelled order, got %+v", order)
	}
}

func TestListForStore(t *testing.T) {
	today := settledOrder(10, model.OrderStatusPending)
	old := settledOrder(11, model.OrderStatusPending)
	old.GatewayTxnID = "TXN-11"
	old.Number = model.FormatOrderNumber(11)
	old.CreatedAt = time.Now().Add(-72 * time.Hour)

	uc, _ := newStatusFixture(today, old)

	all, err := uc.ListForStore(context.Background(), 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}

	day := time.Now()
	windowed, err := uc.ListForStore(context.Background(), 2, &day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(windowed) != 1 || windowed[0].ID != 10 {
		t.Fatalf("expected only today's order, got %+v", windowed)
	}

	if _, err := uc.ListForStore(context.Background(), 9, nil); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown store, got %v", err)
	}
}

func TestDashboard(t *testing.T) {
	first := settledOrder(10, model.OrderStatusPending)
	second := settledOrder(11, model.OrderStatusDelivered)
	second.GatewayTxnID = "TXN-11"
	second.Number = model.FormatOrderNumber(11)
	second.Items = []model.CartItem{{ID: "a"}, {ID: "b"}}

	uc, _ := newStatusFixture(first, second)

	summary, err := uc.Dashboard(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Orders != 2 || summary.FilesReceived != 3 || summary.Revenue != 500 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if _, err := uc.Dashboard(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown store, got %v", err)
	}
}
