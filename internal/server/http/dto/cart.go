package dto

import "time"

// CartItemRequest adds or replaces one print job in the cart.
type CartItemRequest struct {
	ID          string  `json:"id"`
	FileKey     string  `json:"fileKey"`
	FileName    string  `json:"fileName" binding:"required"`
	FileSize    int64   `json:"fileSize"`
	PageCount   int     `json:"pageCount"`
	CopiesCount int     `json:"copiesCount"`
	PaperSize   string  `json:"paperSize"`
	PrintType   string  `json:"printType"`
	PrintSides  string  `json:"printSides"`
	ColorPages  []int   `json:"colorPages"`
	StoreNote   string  `json:"storeNote"`
	Price       float64 `json:"price" binding:"gte=0"`
}

// CartItemResponse is the public shape of one cart item.
type CartItemResponse struct {
	ID          string    `json:"id"`
	FileKey     string    `json:"fileKey,omitempty"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize,omitempty"`
	PageCount   int       `json:"pageCount,omitempty"`
	CopiesCount int       `json:"copiesCount"`
	PaperSize   string    `json:"paperSize,omitempty"`
	PrintType   string    `json:"printType,omitempty"`
	PrintSides  string    `json:"printSides,omitempty"`
	ColorPages  []int     `json:"colorPages,omitempty"`
	StoreNote   string    `json:"storeNote,omitempty"`
	Price       float64   `json:"price"`
	AddedAt     time.Time `json:"addedAt"`
}

// CartResponse is the caller's current cart.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}
