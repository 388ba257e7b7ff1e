package model

import "time"

// Store is a print shop registered on the marketplace. Only the fields the
// order workflow needs are modelled here; catalogue data lives elsewhere.
type Store struct {
	ID          int64
	Name        string
	OwnerUserID int64
	Phone       string
	APIKeyHash  string
	OpenedAt    time.Time
	CreatedAt   time.Time
}

// User is a marketplace account referenced by orders and carts.
type User struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt time.Time
}
