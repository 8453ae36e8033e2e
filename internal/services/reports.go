package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	sheetInventory = "Inventory"
	sheetSales     = "Sales"
)

var (
	inventoryHeader = []any{"Product ID", "Name", "Category", "Supplier", "Quantity", "Reorder Level", "Low Stock"}
	salesHeader     = []any{"Sale ID", "Date", "Items", "Total Amount"}
)

// ReportService renders the stock and sales history as an XLSX workbook.
type ReportService struct {
	inventory *InventoryService
	sales     *SalesService
}

func NewReportService(inventory *InventoryService, sales *SalesService) *ReportService {
	return &ReportService{inventory: inventory, sales: sales}
}

// Export writes a workbook with an Inventory and a Sales sheet to w.
func (r *ReportService) Export(ctx context.Context, w io.Writer) error {
	levels, err := r.inventory.List(ctx)
	if err != nil {
		return err
	}
	sales, err := r.sales.List(ctx, time.Time{}, time.Time{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Named("report_service").Warnw("failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetInventory); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetSales); err != nil {
		return err
	}

	if err := setRow(f, sheetInventory, 1, inventoryHeader); err != nil {
		return err
	}
	for i, l := range levels {
		low := "no"
		if l.LowStock() {
			low = "yes"
		}
		row := []any{l.ProductID, l.Name, l.Category, l.Supplier, l.Quantity, l.ReorderLevel, low}
		if err := setRow(f, sheetInventory, i+2, row); err != nil {
			return err
		}
	}

	if err := setRow(f, sheetSales, 1, salesHeader); err != nil {
		return err
	}
	for i, s := range sales {
		items := make([]string, 0, len(s.Items))
		for _, line := range s.Items {
			items = append(items, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
		}
		total, _ := s.TotalAmount.Float64()
		row := []any{s.ID, s.Date.UTC().Format("2006-01-02 15:04:05"), strings.Join(items, ", "), total}
		if err := setRow(f, sheetSales, i+2, row); err != nil {
			return err
		}
	}

	zap.S().Named("report_service").Infow("report generated", "products", len(levels), "sales", len(sales))
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
