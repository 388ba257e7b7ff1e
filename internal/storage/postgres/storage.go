package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/printmart/printmart/internal/domain/errors"
	"github.com/printmart/printmart/internal/domain/model"
	"github.com/printmart/printmart/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on; tests swap in
// a mock implementation.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type sequenceRepository struct {
	storage *Storage
}

type storeRepository struct {
	storage *Storage
}

type userRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Sequences() repository.SequenceRepository {
	return &sequenceRepository{storage: s}
}

func (s *Storage) Stores() repository.StoreRepository {
	return &storeRepository{storage: s}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS stores (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            owner_user_id BIGINT NOT NULL REFERENCES users(id),
            phone TEXT NOT NULL DEFAULT '',
            api_key_hash TEXT NOT NULL DEFAULT '',
            opened_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            store_id BIGINT NOT NULL REFERENCES stores(id),
            items JSONB NOT NULL,
            total_price DOUBLE PRECISION NOT NULL,
            platform_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
            payment_status TEXT NOT NULL,
            order_status TEXT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT FALSE,
            is_viewed_by_merchant BOOLEAN NOT NULL DEFAULT FALSE,
            gateway_txn_id TEXT UNIQUE NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            rejected_at TIMESTAMPTZ,
            delivered_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS carts (
            user_id BIGINT PRIMARY KEY REFERENCES users(id),
            items JSONB NOT NULL DEFAULT '[]',
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS sequences (
            name TEXT PRIMARY KEY,
            seq BIGINT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_store ON orders(store_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending ON orders(payment_status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, number, user_id, store_id, items, total_price, platform_fee,
       payment_status, order_status, is_active, is_viewed_by_merchant, gateway_txn_id,
       created_at, updated_at, rejected_at, delivered_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o        model.Order
		rawItems []byte
	)
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.StoreID, &rawItems, &o.TotalPrice, &o.PlatformFee,
		&o.PaymentStatus, &o.OrderStatus, &o.IsActive, &o.IsViewedByMerchant, &o.GatewayTxnID,
		&o.CreatedAt, &o.UpdatedAt, &o.RejectedAt, &o.DeliveredAt)
	if err != nil {
		return nil, err
	}
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (number, user_id, store_id, items, total_price, platform_fee,
                       payment_status, order_status, is_active, is_viewed_by_merchant, gateway_txn_id)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   RETURNING id, created_at, updated_at`

	rawItems, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}

	created := *order
	err = r.storage.pool.QueryRow(ctx, query,
		order.Number, order.UserID, order.StoreID, rawItems, order.TotalPrice, order.PlatformFee,
		order.PaymentStatus, order.OrderStatus, order.IsActive, order.IsViewedByMerchant, order.GatewayTxnID,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByTxnID(ctx context.Context, txnID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_txn_id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByUserAndTxnID(ctx context.Context, userID int64, txnID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 AND gateway_txn_id=$2`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, userID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListActiveByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE user_id=$1 AND is_active=TRUE ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Order, int64, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	const countQuery = `SELECT COUNT(*) FROM orders WHERE user_id=$1`
	if err := r.storage.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListSettledByStore(ctx context.Context, storeID int64, from, to time.Time) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE store_id=$1 AND payment_status='success' AND created_at >= $2 AND created_at < $3
              ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, storeID, from, to)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) SettlePayment(ctx context.Context, txnID string, outcome model.PaymentStatus) (*model.Order, bool, error) {
	// Single conditional update: only one caller can move the row out of
	// pending, everyone else observes the already-applied outcome.
	query := `UPDATE orders
              SET payment_status = $2,
                  order_status = CASE WHEN $2::text = 'success' THEN 'pending' ELSE order_status END,
                  is_active = CASE WHEN $2::text = 'success' THEN TRUE ELSE is_active END,
                  updated_at = NOW()
              WHERE gateway_txn_id = $1 AND payment_status = 'pending'
              RETURNING ` + orderColumns

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, txnID, outcome))
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	existing, err := r.GetByTxnID(ctx, txnID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) (*model.Order, error) {
	query := `UPDATE orders
              SET order_status = $3,
                  is_viewed_by_merchant = CASE WHEN $3::text = 'processing' AND $2::text = 'pending'
                      THEN TRUE ELSE is_viewed_by_merchant END,
                  is_active = CASE WHEN $3::text IN ('rejected', 'cancelled', 'delivered')
                      THEN FALSE ELSE is_active END,
                  rejected_at = CASE WHEN $3::text IN ('rejected', 'cancelled') THEN NOW() ELSE rejected_at END,
                  delivered_at = CASE WHEN $3::text = 'delivered' THEN NOW() ELSE delivered_at END,
                  updated_at = NOW()
              WHERE id = $1 AND order_status = $2 AND payment_status = 'success'
              RETURNING ` + orderColumns

	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID, from, to))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Classify the refusal for the caller.
	existing, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing.PaymentStatus != model.PaymentStatusSuccess {
		return nil, domainErrors.ErrPaymentNotSettled
	}
	return nil, domainErrors.ErrStatusConflict
}

func (r *orderRepository) SelectStalePending(ctx context.Context, olderThan time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE payment_status='pending' AND created_at < $1
              ORDER BY created_at
              LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) StoreSummary(ctx context.Context, storeID int64) (*model.StoreOrderSummary, error) {
	const query = `SELECT COUNT(*),
                          COALESCE(SUM(jsonb_array_length(items)), 0),
                          COALESCE(SUM(total_price), 0)
                   FROM orders WHERE store_id=$1 AND payment_status='success'`
	var summary model.StoreOrderSummary
	if err := r.storage.pool.QueryRow(ctx, query, storeID).Scan(&summary.Orders, &summary.FilesReceived, &summary.Revenue); err != nil {
		return nil, err
	}
	return &summary, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Get(ctx context.Context, userID int64, pruneBefore time.Time) (*model.Cart, error) {
	const query = `SELECT items, updated_at FROM carts WHERE user_id=$1`

	var (
		rawItems []byte
		cart     = model.Cart{UserID: userID}
	)
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&rawItems, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &cart, nil
		}
		return nil, err
	}
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &cart.Items); err != nil {
			return nil, fmt.Errorf("decode cart items: %w", err)
		}
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if !item.AddedAt.Before(pruneBefore) {
			kept = append(kept, item)
		}
	}
	if len(kept) != len(cart.Items) {
		cart.Items = kept
		if err := r.writeItems(ctx, userID, cart.Items); err != nil {
			return nil, err
		}
	}
	cart.Items = kept
	return &cart, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, userID int64, item model.CartItem) (*model.Cart, error) {
	var cart *model.Cart
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT items FROM carts WHERE user_id=$1 FOR UPDATE`

		var (
			rawItems []byte
			items    []model.CartItem
		)
		err := tx.QueryRow(ctx, selectQuery, userID).Scan(&rawItems)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if len(rawItems) > 0 {
			if err := json.Unmarshal(rawItems, &items); err != nil {
				return fmt.Errorf("decode cart items: %w", err)
			}
		}

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

		encoded, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode cart items: %w", err)
		}

		const upsertQuery = `INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, NOW())
                             ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()`
		if _, err := tx.Exec(ctx, upsertQuery, userID, encoded); err != nil {
			return err
		}

		cart = &model.Cart{UserID: userID, Items: items, UpdatedAt: time.Now()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID int64, itemID string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const selectQuery = `SELECT items FROM carts WHERE user_id=$1 FOR UPDATE`

		var rawItems []byte
		err := tx.QueryRow(ctx, selectQuery, userID).Scan(&rawItems)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		var items []model.CartItem
		if len(rawItems) > 0 {
			if err := json.Unmarshal(rawItems, &items); err != nil {
				return fmt.Errorf("decode cart items: %w", err)
			}
		}

		kept := items[:0]
		for _, item := range items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(items) {
			return domainErrors.ErrNotFound
		}

		encoded, err := json.Marshal(kept)
		if err != nil {
			return fmt.Errorf("encode cart items: %w", err)
		}

		const updateQuery = `UPDATE carts SET items=$2, updated_at=NOW() WHERE user_id=$1`
		_, err = tx.Exec(ctx, updateQuery, userID, encoded)
		return err
	})
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	const query = `DELETE FROM carts WHERE user_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, userID)
	return err
}

func (r *cartRepository) writeItems(ctx context.Context, userID int64, items []model.CartItem) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}
	const query = `UPDATE carts SET items=$2, updated_at=NOW() WHERE user_id=$1`
	_, err = r.storage.pool.Exec(ctx, query, userID, encoded)
	return err
}

// --- SequenceRepository implementation ---

func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	// Upsert-increment in one statement: the row is the lock, so concurrent
	// callers serialize on it and never observe the same value.
	const query = `INSERT INTO sequences (name, seq) VALUES ($1, 1)
                   ON CONFLICT (name) DO UPDATE SET seq = sequences.seq + 1
                   RETURNING seq`
	var seq int64
	if err := r.storage.pool.QueryRow(ctx, query, name).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// --- StoreRepository implementation ---

func (r *storeRepository) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	const query = `SELECT id, name, owner_user_id, phone, api_key_hash, opened_at, created_at
                   FROM stores WHERE id=$1`
	var s model.Store
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.OwnerUserID, &s.Phone, &s.APIKeyHash, &s.OpenedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// --- UserRepository implementation ---

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, name, phone, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
