// Package services implements the inventory and sales logic on top of the
// structured store.
//
//	Handlers / CLI
//	    │
//	    ▼
//	Services
//	    ├── InventoryService ─► Store (products, inventory)
//	    ├── SalesService ─────► Store (products, inventory, sales), InventoryService
//	    ├── DashboardService ─► Store, Scheduler
//	    └── ReportService ────► InventoryService, SalesService
//
// # Stock
//
// A product without an inventory record has a quantity of zero. A product
// is low on stock when its quantity is at or below its reorder level.
// StockOut never takes a quantity below zero.
//
// # Checkout
//
// The store has no transactions spanning collections. Checkout validates
// every cart line first, then decrements each inventory record and finally
// records the sale. If a step fails the decrements already applied are
// restored, newest first, and the step's error is returned. Each checkout
// carries a saga id in its log lines.
//
// # Dashboard
//
// Summary reads products, inventory and sales concurrently on the
// scheduler and reports sales totals for the last six calendar months
// (UTC), current month included.
package services
