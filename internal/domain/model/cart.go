package model

import "time"

// CartItem is one print job line: the file to print plus its print
// configuration and the price computed for it at upload time.
type CartItem struct {
	ID          string    `json:"id"`
	FileKey     string    `json:"fileKey"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	PageCount   int       `json:"pageCount"`
	CopiesCount int       `json:"copiesCount"`
	PaperSize   string    `json:"paperSize"`
	PrintType   string    `json:"printType"`
	PrintSides  string    `json:"printSides"`
	ColorPages  []int     `json:"colorPages,omitempty"`
	StoreNote   string    `json:"storeNote,omitempty"`
	Price       float64   `json:"price"`
	AddedAt     time.Time `json:"addedAt"`
}

// Cart is the per-user mutable working set. It is ephemeral: stale items are
// pruned on read and the whole cart is deleted once payment succeeds, since
// the order keeps its own immutable snapshot of the items.
type Cart struct {
	UserID    int64
	Items     []CartItem
	UpdatedAt time.Time
}
