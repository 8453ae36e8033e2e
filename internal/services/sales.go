package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

// SalesService records sales. Checkout spans the inventory and sales
// collections, which the store cannot update in one transaction, so it runs
// as a saga: every applied inventory change is undone when a later step
// fails.
type SalesService struct {
	store     *store.Store
	inventory *InventoryService
	recorder  saleRecorder
	now       func() time.Time
}

type saleRecorder interface {
	Add(ctx context.Context, sale models.Sale) (int64, error)
}

func NewSalesService(st *store.Store, inventory *InventoryService) *SalesService {
	return &SalesService{store: st, inventory: inventory, recorder: st.Sales(), now: time.Now}
}

// WithClock replaces the clock used to date sales.
func (s *SalesService) WithClock(now func() time.Time) *SalesService {
	s.now = now
	return s
}

// stockChange is an applied inventory change and what to restore it to.
type stockChange struct {
	productID int64
	previous  int
}

// Checkout sells the content of the cart. Stock is checked for every line
// before anything is written. Line names and prices are taken from the
// stored products.
func (s *SalesService) Checkout(ctx context.Context, cart models.Cart) (*models.Sale, error) {
	if cart.Empty() {
		return nil, srvErrors.NewInvalidArgumentError("cart is empty")
	}

	s.inventory.mu.Lock()
	defer s.inventory.mu.Unlock()

	sagaID := uuid.NewString()
	log := zap.S().Named("sales_service").With("saga_id", sagaID)

	lines, stock, err := s.prepare(ctx, cart)
	if err != nil {
		return nil, err
	}

	var applied []stockChange
	for _, line := range lines {
		current := stock[line.ProductID]
		item := models.InventoryItem{ProductID: line.ProductID, Quantity: current.previous - line.Quantity}
		if err := s.store.Inventory().Update(ctx, item); err != nil {
			log.Errorw("failed to decrement stock", "product_id", line.ProductID, "error", err)
			s.compensate(ctx, log, applied)
			return nil, err
		}
		applied = append(applied, current)
	}

	sale := models.Sale{
		Date:        s.now(),
		TotalAmount: decimal.Zero,
		Items:       lines,
	}
	for _, line := range lines {
		sale.TotalAmount = sale.TotalAmount.Add(line.Subtotal())
	}

	id, err := s.recorder.Add(ctx, sale)
	if err != nil {
		log.Errorw("failed to record sale", "error", err)
		s.compensate(ctx, log, applied)
		return nil, err
	}
	sale.ID = id

	log.Infow("checkout completed", "sale_id", id, "lines", len(lines), "total", sale.TotalAmount.String())
	return &sale, nil
}

// prepare validates the cart against the store and returns the sale lines
// and the stock of each product. Callers hold the inventory lock.
func (s *SalesService) prepare(ctx context.Context, cart models.Cart) ([]models.SaleLine, map[int64]stockChange, error) {
	lines := make([]models.SaleLine, 0, len(cart.Items))
	stock := make(map[int64]stockChange, len(cart.Items))

	for _, ci := range cart.Items {
		if ci.Quantity <= 0 {
			return nil, nil, srvErrors.NewInvalidArgumentError("quantity for product %d must be positive, got %d", ci.Product.ID, ci.Quantity)
		}
		if _, dup := stock[ci.Product.ID]; dup {
			return nil, nil, srvErrors.NewInvalidArgumentError("product %d appears twice in the cart", ci.Product.ID)
		}

		product, err := s.store.Products().GetByID(ctx, ci.Product.ID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, srvErrors.NewProductNotFoundError(ci.Product.ID)
		}

		item, err := s.store.Inventory().GetByID(ctx, product.ID)
		if err != nil {
			return nil, nil, err
		}
		change := stockChange{productID: product.ID}
		if item != nil {
			change.previous = item.Quantity
		}
		if change.previous < ci.Quantity {
			return nil, nil, srvErrors.NewInsufficientStockError(product.ID, ci.Quantity, change.previous)
		}

		stock[product.ID] = change
		lines = append(lines, models.SaleLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  ci.Quantity,
			UnitPrice: product.Price,
		})
	}

	return lines, stock, nil
}

// compensate restores applied stock changes, newest first. It runs on a
// context detached from the caller's cancellation.
func (s *SalesService) compensate(ctx context.Context, log *zap.SugaredLogger, applied []stockChange) {
	ctx = context.WithoutCancel(ctx)
	for i := len(applied) - 1; i >= 0; i-- {
		change := applied[i]

		err := s.store.Inventory().Update(ctx, models.InventoryItem{ProductID: change.productID, Quantity: change.previous})
		if err != nil {
			log.Errorw("failed to restore stock", "product_id", change.productID, "quantity", change.previous, "error", err)
			continue
		}
		log.Infow("stock restored", "product_id", change.productID, "quantity", change.previous)
	}
}

// List returns the sales made in [from, to). Zero bounds are open.
func (s *SalesService) List(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	return s.store.Sales().GetAll(ctx, store.ByDateRange(from, to))
}
