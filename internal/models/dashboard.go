package models

import "github.com/shopspring/decimal"

type DashboardSummary struct {
	TotalProducts int             `json:"totalProducts"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalOrders   int             `json:"totalOrders"`
	LowStockItems int             `json:"lowStockItems"`
	SalesByMonth  []MonthlySales  `json:"salesByMonth"`
}

type MonthlySales struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}
