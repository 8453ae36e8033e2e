package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

// InventoryService manages stock levels. Quantity changes are serialized so
// a read-modify-write on an inventory record never interleaves with another.
type InventoryService struct {
	store *store.Store
	mu    sync.Mutex
}

func NewInventoryService(st *store.Store) *InventoryService {
	return &InventoryService{store: st}
}

// List returns the stock level of every product. Products without an
// inventory record have a quantity of zero.
func (s *InventoryService) List(ctx context.Context, opts ...store.ListOption[models.Product]) ([]models.StockLevel, error) {
	products, err := s.store.Products().GetAll(ctx, opts...)
	if err != nil {
		return nil, err
	}

	items, err := s.store.Inventory().GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return joinStock(products, items), nil
}

// LowStock returns the products whose quantity is at or below their
// reorder level.
func (s *InventoryService) LowStock(ctx context.Context) ([]models.StockLevel, error) {
	levels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	low := []models.StockLevel{}
	for _, l := range levels {
		if l.LowStock() {
			low = append(low, l)
		}
	}
	return low, nil
}

// StockIn adds quantity units to a product's stock.
func (s *InventoryService) StockIn(ctx context.Context, productID int64, quantity int) (models.InventoryItem, error) {
	if quantity <= 0 {
		return models.InventoryItem{}, srvErrors.NewInvalidArgumentError("quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.quantity(ctx, productID)
	if err != nil {
		return models.InventoryItem{}, err
	}

	return s.setQuantity(ctx, productID, current+quantity)
}

// StockOut removes quantity units from a product's stock. The stock never
// goes below zero.
func (s *InventoryService) StockOut(ctx context.Context, productID int64, quantity int) (models.InventoryItem, error) {
	if quantity <= 0 {
		return models.InventoryItem{}, srvErrors.NewInvalidArgumentError("quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.quantity(ctx, productID)
	if err != nil {
		return models.InventoryItem{}, err
	}

	return s.setQuantity(ctx, productID, max(0, current-quantity))
}

// quantity returns the stock of an existing product. Callers hold mu.
func (s *InventoryService) quantity(ctx context.Context, productID int64) (int, error) {
	product, err := s.store.Products().GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, srvErrors.NewProductNotFoundError(productID)
	}

	item, err := s.store.Inventory().GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, nil
	}
	return item.Quantity, nil
}

func (s *InventoryService) setQuantity(ctx context.Context, productID int64, quantity int) (models.InventoryItem, error) {
	item := models.InventoryItem{ProductID: productID, Quantity: quantity}
	if err := s.store.Inventory().Update(ctx, item); err != nil {
		return models.InventoryItem{}, err
	}

	zap.S().Named("inventory_service").Debugw("stock updated", "product_id", productID, "quantity", quantity)
	return item, nil
}

func joinStock(products []models.Product, items []models.InventoryItem) []models.StockLevel {
	quantities := make(map[int64]int, len(items))
	for _, item := range items {
		quantities[item.ProductID] = item.Quantity
	}

	levels := make([]models.StockLevel, 0, len(products))
	for _, p := range products {
		levels = append(levels, models.StockLevel{
			ProductID:    p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Supplier:     p.Supplier,
			Quantity:     quantities[p.ID],
			ReorderLevel: p.ReorderLevel,
		})
	}
	return levels
}
