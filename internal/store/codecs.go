package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/packagingcountry/stockroom/internal/models"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// codec maps a record type onto its table. columns lists the non-key
// columns in the order produced by values and consumed by scan.
type codec[T any] struct {
	collection models.Collection
	keyColumn  string
	columns    []string
	key        func(T) int64
	values     func(T) ([]any, error)
	scan       func(rowScanner) (T, error)
}

func (c codec[T]) table() string {
	return c.collection.String()
}

func (c codec[T]) allColumns() []string {
	return append([]string{c.keyColumn}, c.columns...)
}

var productCodec = codec[models.Product]{
	collection: models.CollectionProducts,
	keyColumn:  "id",
	columns:    []string{"name", "category", "price", "supplier", "reorder_level"},
	key:        func(p models.Product) int64 { return p.ID },
	values: func(p models.Product) ([]any, error) {
		return []any{p.Name, p.Category, p.Price.String(), p.Supplier, p.ReorderLevel}, nil
	},
	scan: func(r rowScanner) (models.Product, error) {
		var (
			p     models.Product
			price string
		)
		if err := r.Scan(&p.ID, &p.Name, &p.Category, &price, &p.Supplier, &p.ReorderLevel); err != nil {
			return p, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return p, err
		}
		p.Price = d
		return p, nil
	},
}

var inventoryCodec = codec[models.InventoryItem]{
	collection: models.CollectionInventory,
	keyColumn:  "product_id",
	columns:    []string{"quantity"},
	key:        func(i models.InventoryItem) int64 { return i.ProductID },
	values: func(i models.InventoryItem) ([]any, error) {
		return []any{i.Quantity}, nil
	},
	scan: func(r rowScanner) (models.InventoryItem, error) {
		var i models.InventoryItem
		err := r.Scan(&i.ProductID, &i.Quantity)
		return i, err
	},
}

var saleCodec = codec[models.Sale]{
	collection: models.CollectionSales,
	keyColumn:  "id",
	columns:    []string{"sold_at", "total_amount", "items"},
	key:        func(s models.Sale) int64 { return s.ID },
	values: func(s models.Sale) ([]any, error) {
		items := s.Items
		if items == nil {
			items = []models.SaleLine{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		return []any{normalizeTime(s.Date), s.TotalAmount.String(), string(raw)}, nil
	},
	scan: func(r rowScanner) (models.Sale, error) {
		var (
			s     models.Sale
			total string
			items string
		)
		if err := r.Scan(&s.ID, &s.Date, &total, &items); err != nil {
			return s, err
		}
		d, err := decimal.NewFromString(total)
		if err != nil {
			return s, err
		}
		s.TotalAmount = d
		s.Date = s.Date.UTC()
		if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
			return s, err
		}
		if len(s.Items) == 0 {
			s.Items = nil
		}
		return s, nil
	},
}

var supplierCodec = codec[models.Supplier]{
	collection: models.CollectionSuppliers,
	keyColumn:  "id",
	columns:    []string{"name"},
	key:        func(s models.Supplier) int64 { return s.ID },
	values: func(s models.Supplier) ([]any, error) {
		return []any{s.Name}, nil
	},
	scan: func(r rowScanner) (models.Supplier, error) {
		var s models.Supplier
		err := r.Scan(&s.ID, &s.Name)
		return s, err
	},
}

var categoryCodec = codec[models.Category]{
	collection: models.CollectionCategories,
	keyColumn:  "id",
	columns:    []string{"name"},
	key:        func(c models.Category) int64 { return c.ID },
	values: func(c models.Category) ([]any, error) {
		return []any{c.Name}, nil
	},
	scan: func(r rowScanner) (models.Category, error) {
		var c models.Category
		err := r.Scan(&c.ID, &c.Name)
		return c, err
	},
}

var userCodec = codec[models.User]{
	collection: models.CollectionUsers,
	keyColumn:  "id",
	columns:    []string{"username", "credentials"},
	key:        func(u models.User) int64 { return u.ID },
	values: func(u models.User) ([]any, error) {
		var credentials sql.NullString
		if len(u.Credentials) > 0 {
			credentials = sql.NullString{String: string(u.Credentials), Valid: true}
		}
		return []any{u.Username, credentials}, nil
	},
	scan: func(r rowScanner) (models.User, error) {
		var (
			u           models.User
			credentials sql.NullString
		)
		if err := r.Scan(&u.ID, &u.Username, &credentials); err != nil {
			return u, err
		}
		if credentials.Valid && credentials.String != "" {
			u.Credentials = json.RawMessage(credentials.String)
		}
		return u, nil
	},
}

// normalizeTime stores timestamps in UTC at the microsecond precision both
// engines keep.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
