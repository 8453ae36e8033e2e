package services_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/services"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

var _ = Describe("SalesService", func() {
	var (
		ctx  context.Context
		st   *store.Store
		srv  *services.SalesService
		now  time.Time
		boxA models.Product
		boxB models.Product
		cart models.Cart
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = newReadyStore(ctx)
		now = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
		srv = services.NewSalesService(st, services.NewInventoryService(st)).
			WithClock(func() time.Time { return now })

		boxA = addProduct(ctx, st, "Box A", "2.50", 20, 15)
		boxB = addProduct(ctx, st, "Box B", "4.00", 5, 3)
		cart = models.Cart{}
	})

	Context("Checkout", func() {
		// Given a cart with 4 Box A and 2 Box B
		// When it is checked out
		// Then stock should drop and a sale with both lines should be recorded
		It("should record the sale and decrement stock", func() {
			cart.Add(boxA, 4)
			cart.Add(boxB, 2)

			sale, err := srv.Checkout(ctx, cart)
			Expect(err).NotTo(HaveOccurred())
			Expect(sale.ID).To(BeNumerically(">", 0))
			Expect(sale.TotalAmount.String()).To(Equal("18"))
			Expect(sale.Date).To(Equal(now))
			Expect(sale.Items).To(HaveLen(2))

			Expect(quantityOf(ctx, st, boxA.ID)).To(Equal(11))
			Expect(quantityOf(ctx, st, boxB.ID)).To(Equal(1))

			stored, err := st.Sales().GetByID(ctx, sale.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Equal(*sale)).To(BeTrue())
		})

		It("should use the stored price", func() {
			stale := boxA
			stale.Price = stale.Price.Add(stale.Price)
			cart.Add(stale, 2)

			sale, err := srv.Checkout(ctx, cart)
			Expect(err).NotTo(HaveOccurred())
			Expect(sale.TotalAmount.String()).To(Equal("5"))
		})

		It("should reject an empty cart", func() {
			_, err := srv.Checkout(ctx, cart)
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})

		// Given 3 units of Box B in stock
		// When a cart asks for 2 Box A and 5 Box B
		// Then checkout should fail before touching any stock
		It("should reject insufficient stock without writing", func() {
			cart.Add(boxA, 2)
			cart.Add(boxB, 5)

			_, err := srv.Checkout(ctx, cart)
			Expect(err).To(HaveOccurred())

			var stockErr *srvErrors.InsufficientStockError
			Expect(errors.As(err, &stockErr)).To(BeTrue())
			Expect(stockErr.ProductID).To(Equal(boxB.ID))
			Expect(stockErr.Requested).To(Equal(5))
			Expect(stockErr.Available).To(Equal(3))

			Expect(quantityOf(ctx, st, boxA.ID)).To(Equal(15))
			Expect(quantityOf(ctx, st, boxB.ID)).To(Equal(3))

			count, err := st.Sales().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should reject products that are not in the store", func() {
			cart.Add(models.Product{ID: 404, Name: "Ghost"}, 1)

			_, err := srv.Checkout(ctx, cart)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		// Given the sale cannot be recorded
		// When a cart is checked out
		// Then the stock decrements should be rolled back and the error returned
		It("should restore stock when the sale cannot be recorded", func() {
			boom := errors.New("disk full")
			srv.SetSaleRecorder(func(ctx context.Context, sale models.Sale) (int64, error) {
				return 0, boom
			})
			cart.Add(boxA, 4)
			cart.Add(boxB, 2)

			_, err := srv.Checkout(ctx, cart)
			Expect(err).To(MatchError(boom))

			Expect(quantityOf(ctx, st, boxA.ID)).To(Equal(15))
			Expect(quantityOf(ctx, st, boxB.ID)).To(Equal(3))
		})
	})

	Context("List", func() {
		It("should filter sales by date", func() {
			cart.Add(boxA, 1)
			_, err := srv.Checkout(ctx, cart)
			Expect(err).NotTo(HaveOccurred())

			sales, err := srv.List(ctx, now.Add(-time.Hour), now.Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(sales).To(HaveLen(1))

			sales, err = srv.List(ctx, now.Add(time.Hour), time.Time{})
			Expect(err).NotTo(HaveOccurred())
			Expect(sales).To(BeEmpty())
		})
	})
})
