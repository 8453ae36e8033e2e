package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Category and Supplier are free-text labels,
// not references to the categories and suppliers collections.
type Product struct {
	ID           int64           `json:"id,omitempty"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Supplier     string          `json:"supplier"`
	ReorderLevel int             `json:"reorderLevel"`
}

// Equal compares two products, treating prices by value.
func (p Product) Equal(o Product) bool {
	return p.ID == o.ID &&
		p.Name == o.Name &&
		p.Category == o.Category &&
		p.Price.Equal(o.Price) &&
		p.Supplier == o.Supplier &&
		p.ReorderLevel == o.ReorderLevel
}

type Supplier struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}
