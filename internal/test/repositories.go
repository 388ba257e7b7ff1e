package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
)

// TransitionCall records one TransitionStatus invocation.
type TransitionCall struct {
	OrderID int64
	From    model.OrderStatus
	To      model.OrderStatus
}

// SettleCall records one SettlePayment invocation.
type SettleCall struct {
	TxnID   string
	Outcome model.PaymentStatus
}

// OrderRepositoryStub keeps orders in memory and mirrors the conditional
// update semantics of the real repository. Any Fn field overrides the default
// behaviour.
type OrderRepositoryStub struct {
	CreateFn             func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn            func(context.Context, int64) (*model.Order, error)
	GetByTxnIDFn         func(context.Context, string) (*model.Order, error)
	SettlePaymentFn      func(context.Context, string, model.PaymentStatus) (*model.Order, bool, error)
	TransitionStatusFn   func(context.Context, int64, model.OrderStatus, model.OrderStatus) (*model.Order, error)
	SelectStalePendingFn func(context.Context, time.Time, int) ([]model.Order, error)

	mu          sync.Mutex
	Orders      []model.Order
	Transitions []TransitionCall
	Settles     []SettleCall
}

// Seed replaces stored orders.
func (s *OrderRepositoryStub) Seed(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders = append([]model.Order(nil), orders...)
}

func (s *OrderRepositoryStub) find(match func(model.Order) bool) *model.Order {
	for i := range s.Orders {
		if match(s.Orders[i]) {
			return &s.Orders[i]
		}
	}
	return nil
}

// Create stores the order with a generated id.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.Orders {
		if existing.GatewayTxnID == order.GatewayTxnID || existing.Number == order.Number {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	created := *order
	created.ID = int64(len(s.Orders) + 1)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.Orders = append(s.Orders, created)
	result := created
	return &result, nil
}

// GetByID fetches order by identifier or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(func(o model.Order) bool { return o.ID == id }); o != nil {
		copied := *o
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByTxnID fetches order by gateway transaction id.
func (s *OrderRepositoryStub) GetByTxnID(ctx context.Context, txnID string) (*model.Order, error) {
	if s.GetByTxnIDFn != nil {
		return s.GetByTxnIDFn(ctx, txnID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(func(o model.Order) bool { return o.GatewayTxnID == txnID }); o != nil {
		copied := *o
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByUserAndTxnID fetches the user's order by transaction id.
func (s *OrderRepositoryStub) GetByUserAndTxnID(ctx context.Context, userID int64, txnID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.find(func(o model.Order) bool { return o.UserID == userID && o.GatewayTxnID == txnID }); o != nil {
		copied := *o
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListActiveByUser returns active orders of the user.
func (s *OrderRepositoryStub) ListActiveByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID && o.IsActive {
			result = append(result, o)
		}
	}
	return result, nil
}

// ListByUser returns one page of the user's orders plus the total count.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			all = append(all, o)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ListSettledByStore returns settled orders of the store in the window.
func (s *OrderRepositoryStub) ListSettledByStore(ctx context.Context, storeID int64, from, to time.Time) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.StoreID == storeID && o.PaymentStatus == model.PaymentStatusSuccess &&
			!o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			result = append(result, o)
		}
	}
	return result, nil
}

// SettlePayment mirrors the conditional update: only a pending order is
// moved, everyone else observes the stored row.
func (s *OrderRepositoryStub) SettlePayment(ctx context.Context, txnID string, outcome model.PaymentStatus) (*model.Order, bool, error) {
	if s.SettlePaymentFn != nil {
		return s.SettlePaymentFn(ctx, txnID, outcome)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Settles = append(s.Settles, SettleCall{TxnID: txnID, Outcome: outcome})
	o := s.find(func(o model.Order) bool { return o.GatewayTxnID == txnID })
	if o == nil {
		return nil, false, domainErrors.ErrNotFound
	}
	if o.PaymentStatus != model.PaymentStatusPending {
		copied := *o
		return &copied, false, nil
	}
	o.PaymentStatus = outcome
	if outcome == model.PaymentStatusSuccess {
		o.OrderStatus = model.OrderStatusPending
		o.IsActive = true
	}
	o.UpdatedAt = time.Now()
	copied := *o
	return &copied, true, nil
}

// TransitionStatus mirrors the conditional fulfillment update.
func (s *OrderRepositoryStub) TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) (*model.Order, error) {
	if s.TransitionStatusFn != nil {
		return s.TransitionStatusFn(ctx, orderID, from, to)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Transitions = append(s.Transitions, TransitionCall{OrderID: orderID, From: from, To: to})
	o := s.find(func(o model.Order) bool { return o.ID == orderID })
	if o == nil {
		return nil, domainErrors.ErrNotFound
	}
	if o.PaymentStatus != model.PaymentStatusSuccess {
		return nil, domainErrors.ErrPaymentNotSettled
	}
	if o.OrderStatus != from {
		return nil, domainErrors.ErrStatusConflict
	}

	now := time.Now()
	o.OrderStatus = to
	o.UpdatedAt = now
	switch to {
	case model.OrderStatusProcessing:
		if from == model.OrderStatusPending {
			o.IsViewedByMerchant = true
		}
	case model.OrderStatusRejected, model.OrderStatusCancelled:
		o.IsActive = false
		o.RejectedAt = &now
	case model.OrderStatusDelivered:
		o.IsActive = false
		o.DeliveredAt = &now
	}
	copied := *o
	return &copied, nil
}

// SelectStalePending returns pending orders created before the cutoff.
func (s *OrderRepositoryStub) SelectStalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	if s.SelectStalePendingFn != nil {
		return s.SelectStalePendingFn(ctx, olderThan, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.PaymentStatus == model.PaymentStatusPending && o.CreatedAt.Before(olderThan) {
			result = append(result, o)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

// StoreSummary aggregates settled orders of the store.
func (s *OrderRepositoryStub) StoreSummary(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &model.StoreOrderSummary{}
	for _, o := range s.Orders {
		if o.StoreID == storeID && o.PaymentStatus == model.PaymentStatusSuccess {
			summary.Orders++
			summary.FilesReceived += int64(len(o.Items))
			summary.Revenue += o.TotalPrice
		}
	}
	return summary, nil
}

// CartRepositoryStub keeps carts in memory.
type CartRepositoryStub struct {
	GetFn   func(context.Context, int64, time.Time) (*model.Cart, error)
	ClearFn func(context.Context, int64) error

	mu      sync.Mutex
	Items   map[int64][]model.CartItem
	Cleared []int64
}

func (s *CartRepositoryStub) items(userID int64) []model.CartItem {
	if s.Items == nil {
		s.Items = make(map[int64][]model.CartItem)
	}
	return s.Items[userID]
}

// Get returns the cart with stale items pruned.
func (s *CartRepositoryStub) Get(ctx context.Context, userID int64, pruneBefore time.Time) (*model.Cart, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID, pruneBefore)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []model.CartItem
	for _, item := range s.items(userID) {
		if !item.AddedAt.Before(pruneBefore) {
			kept = append(kept, item)
		}
	}
	s.Items[userID] = kept
	return &model.Cart{UserID: userID, Items: kept}, nil
}

// UpsertItem adds or replaces one item.
func (s *CartRepositoryStub) UpsertItem(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items(userID)
	replaced := false
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	s.Items[userID] = items
	return &model.Cart{UserID: userID, Items: items}, nil
}

// RemoveItem deletes one item or reports not found.
func (s *CartRepositoryStub) RemoveItem(ctx context.Context, userID int64, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items(userID)
	for i := range items {
		if items[i].ID == itemID {
			s.Items[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// Clear drops the user's cart and records the call.
func (s *CartRepositoryStub) Clear(ctx context.Context, userID int64) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Items != nil {
		delete(s.Items, userID)
	}
	s.Cleared = append(s.Cleared, userID)
	return nil
}

// SequenceRepositoryStub issues increasing values.
type SequenceRepositoryStub struct {
	NextFn func(context.Context, string) (int64, error)

	mu      sync.Mutex
	Current int64
	Err     error
}

// Next returns the next sequence value.
func (s *SequenceRepositoryStub) Next(ctx context.Context, name string) (int64, error) {
	if s.NextFn != nil {
		return s.NextFn(ctx, name)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Current++
	return s.Current, nil
}

// StoreRepositoryStub keeps stores in memory.
type StoreRepositoryStub struct {
	Stores map[int64]*model.Store
	Err    error
}

// GetByID fetches store by identifier or returns not found.
func (s *StoreRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if store, ok := s.Stores[id]; ok {
		return store, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UserRepositoryStub keeps users in memory.
type UserRepositoryStub struct {
	Users map[int64]*model.User
	Err   error
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}
