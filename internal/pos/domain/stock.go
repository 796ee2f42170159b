package domain

import "context"

// StockRecord represents one product's on-hand quantity at one branch.
// It is read-only from the POS side; the retail backend owns the numbers
// and the only way a record changes locally is a fresh fetch.
type StockRecord struct {
	InventoryID uint    `json:"inventory_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// InStock reports whether at least one unit can be added to a cart.
func (r StockRecord) InStock() bool {
	return r.Quantity > 0
}

// InventoryGateway defines the contract for fetching branch stock from
// the retail backend. Implementations must treat an empty list as a valid
// "no stock" result, not an error.
type InventoryGateway interface {
	FetchBranchStock(ctx context.Context, branchID uint) ([]StockRecord, error)
}
