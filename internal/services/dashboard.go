package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store"
	"github.com/packagingcountry/stockroom/pkg/scheduler"
)

// salesHistoryMonths is the number of months, current one included, in the
// dashboard's sales chart.
const salesHistoryMonths = 6

const monthLayout = "2006-01"

type DashboardService struct {
	store     *store.Store
	scheduler *scheduler.Scheduler
	now       func() time.Time
}

func NewDashboardService(st *store.Store, s *scheduler.Scheduler) *DashboardService {
	return &DashboardService{store: st, scheduler: s, now: time.Now}
}

// WithClock replaces the clock deciding the current month.
func (d *DashboardService) WithClock(now func() time.Time) *DashboardService {
	d.now = now
	return d
}

// Summary computes the dashboard figures. The three collections are read
// concurrently on the scheduler.
func (d *DashboardService) Summary(ctx context.Context) (models.DashboardSummary, error) {
	productsF := scheduler.Submit(ctx, d.scheduler, func(ctx context.Context) ([]models.Product, error) {
		return d.store.Products().GetAll(ctx)
	})
	inventoryF := scheduler.Submit(ctx, d.scheduler, func(ctx context.Context) ([]models.InventoryItem, error) {
		return d.store.Inventory().GetAll(ctx)
	})
	salesF := scheduler.Submit(ctx, d.scheduler, func(ctx context.Context) ([]models.Sale, error) {
		return d.store.Sales().GetAll(ctx)
	})
	defer productsF.Stop()
	defer inventoryF.Stop()
	defer salesF.Stop()

	products, err := productsF.Await(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	inventory, err := inventoryF.Await(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	sales, err := salesF.Await(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}

	summary := models.DashboardSummary{
		TotalProducts: len(products),
		TotalSales:    decimal.Zero,
		TotalOrders:   len(sales),
		SalesByMonth:  monthlySales(sales, d.now(), salesHistoryMonths),
	}
	for _, s := range sales {
		summary.TotalSales = summary.TotalSales.Add(s.TotalAmount)
	}
	for _, level := range joinStock(products, inventory) {
		if level.LowStock() {
			summary.LowStockItems++
		}
	}

	return summary, nil
}

// monthlySales totals sales per UTC calendar month for the n months ending
// with now's month, oldest first. Months without sales are present with a
// zero amount.
func monthlySales(sales []models.Sale, now time.Time, n int) []models.MonthlySales {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	result := make([]models.MonthlySales, n)
	index := make(map[string]int, n)
	for i := range n {
		month := current.AddDate(0, i-n+1, 0).Format(monthLayout)
		result[i] = models.MonthlySales{Month: month, Amount: decimal.Zero}
		index[month] = i
	}

	for _, s := range sales {
		if i, ok := index[s.Date.UTC().Format(monthLayout)]; ok {
			result[i].Amount = result[i].Amount.Add(s.TotalAmount)
		}
	}
	return result
}
