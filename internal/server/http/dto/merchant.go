package dto

// StoreDashboardResponse aggregates a store's settled orders.
type StoreDashboardResponse struct {
	Orders        int64   `json:"orders"`
	FilesReceived int64   `json:"filesReceived"`
	Revenue       float64 `json:"revenue"`
}
