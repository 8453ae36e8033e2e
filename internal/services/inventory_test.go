package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/services"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

var _ = Describe("InventoryService", func() {
	var (
		ctx context.Context
		st  *store.Store
		srv *services.InventoryService
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = newReadyStore(ctx)
		srv = services.NewInventoryService(st)
	})

	Context("List", func() {
		// Given one product with stock and one without an inventory record
		// When stock levels are listed
		// Then the product without record should have quantity 0
		It("should join products with their inventory", func() {
			boxA := addProduct(ctx, st, "Box A", "2.50", 20, 15)
			tape := addProduct(ctx, st, "Tape", "1.00", 5, 0)

			levels, err := srv.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels).To(Equal([]models.StockLevel{
				{ProductID: boxA.ID, Name: "Box A", Category: "Boxes", Supplier: "Acme", Quantity: 15, ReorderLevel: 20},
				{ProductID: tape.ID, Name: "Tape", Category: "Boxes", Supplier: "Acme", Quantity: 0, ReorderLevel: 5},
			}))
		})

		It("should return an empty list without products", func() {
			levels, err := srv.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels).To(BeEmpty())
		})
	})

	Context("LowStock", func() {
		It("should return products at or below their reorder level", func() {
			addProduct(ctx, st, "Box A", "2.50", 20, 15)
			addProduct(ctx, st, "Box B", "2.50", 10, 10)
			addProduct(ctx, st, "Box C", "2.50", 10, 50)

			low, err := srv.LowStock(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(low).To(HaveLen(2))
			Expect(low[0].Name).To(Equal("Box A"))
			Expect(low[1].Name).To(Equal("Box B"))
		})
	})

	Context("StockIn", func() {
		It("should create the inventory record when absent", func() {
			p := addProduct(ctx, st, "Box A", "2.50", 20, 0)

			item, err := srv.StockIn(ctx, p.ID, 12)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(12))
			Expect(quantityOf(ctx, st, p.ID)).To(Equal(12))
		})

		It("should add to the existing quantity", func() {
			p := addProduct(ctx, st, "Box A", "2.50", 20, 15)

			item, err := srv.StockIn(ctx, p.ID, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(20))
		})

		It("should reject non-positive quantities", func() {
			p := addProduct(ctx, st, "Box A", "2.50", 20, 15)

			_, err := srv.StockIn(ctx, p.ID, 0)
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
			Expect(quantityOf(ctx, st, p.ID)).To(Equal(15))
		})

		It("should reject unknown products", func() {
			_, err := srv.StockIn(ctx, 404, 1)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Context("StockOut", func() {
		It("should remove from the existing quantity", func() {
			p := addProduct(ctx, st, "Box A", "2.50", 20, 15)

			item, err := srv.StockOut(ctx, p.ID, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(10))
		})

		// Given 3 units in stock
		// When 10 units are taken out
		// Then the quantity should stop at 0
		It("should not go below zero", func() {
			p := addProduct(ctx, st, "Box A", "2.50", 20, 3)

			item, err := srv.StockOut(ctx, p.ID, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Quantity).To(Equal(0))
			Expect(quantityOf(ctx, st, p.ID)).To(Equal(0))
		})

		It("should reject negative quantities", func() {
			p := addProduct(ctx, st, "Box A", "2.50", 20, 3)

			_, err := srv.StockOut(ctx, p.ID, -1)
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})
	})
})
