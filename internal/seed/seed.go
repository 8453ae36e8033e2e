// Package seed imports a YAML catalog of suppliers, categories and products
// into the store. Records whose unique name already exists are skipped, so
// a catalog can be applied any number of times.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

type Catalog struct {
	Suppliers  []string  `yaml:"suppliers"`
	Categories []string  `yaml:"categories"`
	Products   []Product `yaml:"products"`
}

type Product struct {
	Name         string `yaml:"name"`
	Category     string `yaml:"category"`
	Price        string `yaml:"price"`
	Supplier     string `yaml:"supplier"`
	ReorderLevel int    `yaml:"reorderLevel"`
	// Quantity is the initial stock of a newly created product.
	Quantity int `yaml:"quantity"`
}

// Result counts the records created and skipped by Apply.
type Result struct {
	Suppliers  int
	Categories int
	Products   int
	Skipped    int
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a catalog. Unknown keys are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, srvErrors.NewInvalidArgumentError("invalid catalog: %v", err)
	}

	for i, p := range c.Products {
		if p.Name == "" {
			return nil, srvErrors.NewInvalidArgumentError("product #%d has no name", i+1)
		}
		if _, err := decimal.NewFromString(p.Price); err != nil {
			return nil, srvErrors.NewInvalidArgumentError("product %q has an invalid price %q", p.Name, p.Price)
		}
		if p.Quantity < 0 {
			return nil, srvErrors.NewInvalidArgumentError("product %q has a negative quantity", p.Name)
		}
	}

	return &c, nil
}

// Apply writes the catalog to the store.
func Apply(ctx context.Context, st *store.Store, c *Catalog) (Result, error) {
	log := zap.S().Named("seed")
	var res Result

	suppliers, err := st.Suppliers().GetAll(ctx)
	if err != nil {
		return res, err
	}
	existing := names(suppliers, func(s models.Supplier) string { return s.Name })
	for _, name := range c.Suppliers {
		if existing[name] {
			res.Skipped++
			continue
		}
		if _, err := st.Suppliers().Add(ctx, models.Supplier{Name: name}); err != nil {
			return res, fmt.Errorf("failed to add supplier %q: %w", name, err)
		}
		existing[name] = true
		res.Suppliers++
	}

	categories, err := st.Categories().GetAll(ctx)
	if err != nil {
		return res, err
	}
	existing = names(categories, func(c models.Category) string { return c.Name })
	for _, name := range c.Categories {
		if existing[name] {
			res.Skipped++
			continue
		}
		if _, err := st.Categories().Add(ctx, models.Category{Name: name}); err != nil {
			return res, fmt.Errorf("failed to add category %q: %w", name, err)
		}
		existing[name] = true
		res.Categories++
	}

	products, err := st.Products().GetAll(ctx)
	if err != nil {
		return res, err
	}
	existing = names(products, func(p models.Product) string { return p.Name })
	for _, p := range c.Products {
		if existing[p.Name] {
			res.Skipped++
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return res, srvErrors.NewInvalidArgumentError("product %q has an invalid price %q", p.Name, p.Price)
		}

		id, err := st.Products().Add(ctx, models.Product{
			Name:         p.Name,
			Category:     p.Category,
			Price:        price,
			Supplier:     p.Supplier,
			ReorderLevel: p.ReorderLevel,
		})
		if err != nil {
			return res, fmt.Errorf("failed to add product %q: %w", p.Name, err)
		}
		if p.Quantity > 0 {
			if err := st.Inventory().Update(ctx, models.InventoryItem{ProductID: id, Quantity: p.Quantity}); err != nil {
				return res, fmt.Errorf("failed to stock product %q: %w", p.Name, err)
			}
		}
		existing[p.Name] = true
		res.Products++
	}

	log.Infow("catalog applied", "suppliers", res.Suppliers, "categories", res.Categories, "products", res.Products, "skipped", res.Skipped)
	return res, nil
}

func names[T any](records []T, name func(T) string) map[string]bool {
	m := make(map[string]bool, len(records))
	for _, r := range records {
		m[name(r)] = true
	}
	return m
}
