package models

// InventoryItem is the stock record of a product. At most one exists per
// product; a missing record means a quantity of zero.
type InventoryItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// StockLevel joins a product with its inventory record.
type StockLevel struct {
	ProductID    int64  `json:"productId"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Supplier     string `json:"supplier"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
}

// LowStock reports whether the quantity is at or below the reorder level.
func (s StockLevel) LowStock() bool {
	return s.Quantity <= s.ReorderLevel
}
