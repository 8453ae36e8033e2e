package services_test

import (
	"bytes"
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/services"
	"github.com/packagingcountry/stockroom/internal/store"
)

var _ = Describe("ReportService", func() {
	var (
		ctx context.Context
		st  *store.Store
		srv *services.ReportService
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = newReadyStore(ctx)
		inventory := services.NewInventoryService(st)
		srv = services.NewReportService(inventory, services.NewSalesService(st, inventory))
	})

	// Given a product and one sale of it
	// When the report is exported
	// Then the workbook should list the stock and the sale
	It("should export inventory and sales sheets", func() {
		boxA := addProduct(ctx, st, "Box A", "2.50", 20, 15)
		cart := models.Cart{}
		cart.Add(boxA, 3)
		inventory := services.NewInventoryService(st)
		_, err := services.NewSalesService(st, inventory).Checkout(ctx, cart)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(srv.Export(ctx, &buf)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Inventory", "Sales"}))

		rows, err := f.GetRows("Inventory")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0][1]).To(Equal("Name"))
		Expect(rows[1]).To(Equal([]string{"1", "Box A", "Boxes", "Acme", "12", "20", "yes"}))

		rows, err = f.GetRows("Sales")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[1][2]).To(Equal("Box A x3"))
		Expect(rows[1][3]).To(Equal("7.5"))
	})

	It("should export headers only for an empty store", func() {
		var buf bytes.Buffer
		Expect(srv.Export(ctx, &buf)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Sales")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
