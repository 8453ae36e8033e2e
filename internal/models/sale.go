package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a completed checkout. Line items are embedded in the record.
type Sale struct {
	ID          int64           `json:"id,omitempty"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []SaleLine      `json:"items,omitempty"`
}

type SaleLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Subtotal is the line's unit price times its quantity.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Equal compares two sales, treating amounts and dates by value.
func (s Sale) Equal(o Sale) bool {
	if s.ID != o.ID || !s.Date.Equal(o.Date) || !s.TotalAmount.Equal(o.TotalAmount) {
		return false
	}
	if len(s.Items) != len(o.Items) {
		return false
	}
	for i := range s.Items {
		a, b := s.Items[i], o.Items[i]
		if a.ProductID != b.ProductID || a.Name != b.Name || a.Quantity != b.Quantity || !a.UnitPrice.Equal(b.UnitPrice) {
			return false
		}
	}
	return true
}
