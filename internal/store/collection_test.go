package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

var _ = Describe("Collection", func() {
	var ctx context.Context

	for _, backend := range []store.Backend{store.BackendSQLite, store.BackendDuckDB} {
		Context("with the "+string(backend)+" backend", func() {
			var s *store.Store

			BeforeEach(func() {
				ctx = context.Background()
				s = store.NewStore(backend, ":memory:")
				Expect(s.Initialize(ctx)).To(Succeed())
			})

			AfterEach(func() {
				Expect(s.Close()).To(Succeed())
			})

			Context("Add and GetByID", func() {
				// Given an empty products collection
				// When a product without key is added
				// Then it should get key 1 and read back with identical fields
				It("should round-trip a product", func() {
					// Arrange
					product := models.Product{
						Name:         "Box A",
						Category:     "Boxes",
						Price:        decimal.RequireFromString("2.50"),
						Supplier:     "Acme",
						ReorderLevel: 20,
					}

					// Act
					key, err := s.Products().Add(ctx, product)

					// Assert
					Expect(err).NotTo(HaveOccurred())
					Expect(key).To(Equal(int64(1)))

					got, err := s.Products().GetByID(ctx, key)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).NotTo(BeNil())

					product.ID = key
					Expect(got.Equal(product)).To(BeTrue(), "got %+v", *got)
				})

				It("should assign increasing keys", func() {
					first, err := s.Categories().Add(ctx, models.Category{Name: "Boxes"})
					Expect(err).NotTo(HaveOccurred())
					second, err := s.Categories().Add(ctx, models.Category{Name: "Tape"})
					Expect(err).NotTo(HaveOccurred())

					Expect(second).To(BeNumerically(">", first))
				})

				// Given a product added with an explicit key
				// When another product is added without key
				// Then the generated key should be past the explicit one
				It("should honour explicit keys", func() {
					key, err := s.Products().Add(ctx, models.Product{ID: 10, Name: "Box B", Price: decimal.NewFromInt(1)})
					Expect(err).NotTo(HaveOccurred())
					Expect(key).To(Equal(int64(10)))

					next, err := s.Products().Add(ctx, models.Product{Name: "Box C", Price: decimal.NewFromInt(1)})
					Expect(err).NotTo(HaveOccurred())
					Expect(next).To(Equal(int64(11)))
				})

				It("should reject a duplicate key", func() {
					_, err := s.Suppliers().Add(ctx, models.Supplier{ID: 3, Name: "Acme"})
					Expect(err).NotTo(HaveOccurred())

					_, err = s.Suppliers().Add(ctx, models.Supplier{ID: 3, Name: "Globex"})
					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsConstraintViolationError(err)).To(BeTrue())
				})

				It("should return nil for an absent key", func() {
					got, err := s.Products().GetByID(ctx, 42)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).To(BeNil())
				})
			})

			Context("unique indexes", func() {
				// Given a product named "Box A"
				// When a second product named "Box A" is added
				// Then the add should fail with a constraint violation and the first stays intact
				It("should enforce unique product names", func() {
					first := models.Product{Name: "Box A", Category: "Boxes", Price: decimal.NewFromInt(2), Supplier: "Acme", ReorderLevel: 20}
					key, err := s.Products().Add(ctx, first)
					Expect(err).NotTo(HaveOccurred())

					_, err = s.Products().Add(ctx, models.Product{Name: "Box A", Price: decimal.NewFromInt(9)})
					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsConstraintViolationError(err)).To(BeTrue())

					all, err := s.Products().GetAll(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(all).To(HaveLen(1))
					first.ID = key
					Expect(all[0].Equal(first)).To(BeTrue())
				})

				It("should enforce unique supplier, category and user names", func() {
					_, err := s.Suppliers().Add(ctx, models.Supplier{Name: "Acme"})
					Expect(err).NotTo(HaveOccurred())
					_, err = s.Suppliers().Add(ctx, models.Supplier{Name: "Acme"})
					Expect(srvErrors.IsConstraintViolationError(err)).To(BeTrue())

					_, err = s.Categories().Add(ctx, models.Category{Name: "Boxes"})
					Expect(err).NotTo(HaveOccurred())
					_, err = s.Categories().Add(ctx, models.Category{Name: "Boxes"})
					Expect(srvErrors.IsConstraintViolationError(err)).To(BeTrue())

					_, err = s.Users().Add(ctx, models.User{Username: "admin"})
					Expect(err).NotTo(HaveOccurred())
					_, err = s.Users().Add(ctx, models.User{Username: "admin"})
					Expect(srvErrors.IsConstraintViolationError(err)).To(BeTrue())
				})

				// Given two products
				// When one is updated to the other's name
				// Then the update should fail and both records stay unchanged
				It("should reject an update colliding with another record", func() {
					boxA, err := s.Products().Add(ctx, models.Product{Name: "Box A", Price: decimal.NewFromInt(1)})
					Expect(err).NotTo(HaveOccurred())
					_, err = s.Products().Add(ctx, models.Product{Name: "Box B", Price: decimal.NewFromInt(1)})
					Expect(err).NotTo(HaveOccurred())

					err = s.Products().Update(ctx, models.Product{ID: boxA, Name: "Box B", Price: decimal.NewFromInt(1)})
					Expect(err).To(HaveOccurred())
					Expect(srvErrors.IsConstraintViolationError(err)).To(BeTrue())

					got, err := s.Products().GetByID(ctx, boxA)
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Name).To(Equal("Box A"))
				})
			})

			Context("Update", func() {
				// Given inventory {productId 1, quantity 10}
				// When it is updated to quantity 7
				// Then reading it back should return 7 and there is still one row
				It("should replace an existing record", func() {
					_, err := s.Inventory().Add(ctx, models.InventoryItem{ProductID: 1, Quantity: 10})
					Expect(err).NotTo(HaveOccurred())

					err = s.Inventory().Update(ctx, models.InventoryItem{ProductID: 1, Quantity: 7})
					Expect(err).NotTo(HaveOccurred())

					got, err := s.Inventory().GetByID(ctx, 1)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).To(Equal(&models.InventoryItem{ProductID: 1, Quantity: 7}))

					count, err := s.Inventory().Count(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(count).To(Equal(1))
				})

				It("should insert a record at an absent key", func() {
					err := s.Inventory().Update(ctx, models.InventoryItem{ProductID: 5, Quantity: 3})
					Expect(err).NotTo(HaveOccurred())

					got, err := s.Inventory().GetByID(ctx, 5)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).To(Equal(&models.InventoryItem{ProductID: 5, Quantity: 3}))
				})

				It("should allow updating a record without changing its unique value", func() {
					key, err := s.Products().Add(ctx, models.Product{Name: "Box A", Price: decimal.NewFromInt(1), ReorderLevel: 5})
					Expect(err).NotTo(HaveOccurred())

					err = s.Products().Update(ctx, models.Product{ID: key, Name: "Box A", Price: decimal.RequireFromString("1.75"), ReorderLevel: 8})
					Expect(err).NotTo(HaveOccurred())

					got, err := s.Products().GetByID(ctx, key)
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Price.String()).To(Equal("1.75"))
					Expect(got.ReorderLevel).To(Equal(8))
				})

				It("should add a record without key on auto-keyed collections", func() {
					err := s.Suppliers().Update(ctx, models.Supplier{Name: "Acme"})
					Expect(err).NotTo(HaveOccurred())

					all, err := s.Suppliers().GetAll(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(all).To(Equal([]models.Supplier{{ID: 1, Name: "Acme"}}))
				})

				It("should advance the key generator past an upserted key", func() {
					err := s.Suppliers().Update(ctx, models.Supplier{ID: 7, Name: "Acme"})
					Expect(err).NotTo(HaveOccurred())

					key, err := s.Suppliers().Add(ctx, models.Supplier{Name: "Globex"})
					Expect(err).NotTo(HaveOccurred())
					Expect(key).To(Equal(int64(8)))
				})
			})

			Context("Delete", func() {
				It("should remove a record", func() {
					key, err := s.Categories().Add(ctx, models.Category{Name: "Boxes"})
					Expect(err).NotTo(HaveOccurred())

					Expect(s.Categories().Delete(ctx, key)).To(Succeed())

					got, err := s.Categories().GetByID(ctx, key)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).To(BeNil())
				})

				// Given a key that was never stored
				// When it is deleted twice
				// Then both deletes should succeed
				It("should be idempotent", func() {
					Expect(s.Categories().Delete(ctx, 99)).To(Succeed())
					Expect(s.Categories().Delete(ctx, 99)).To(Succeed())
				})
			})

			Context("GetAll", func() {
				It("should return an empty slice for an empty collection", func() {
					all, err := s.Sales().GetAll(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(all).NotTo(BeNil())
					Expect(all).To(BeEmpty())
				})

				// Given records in suppliers and categories
				// When each collection is listed
				// Then each should only contain its own records
				It("should keep collections isolated", func() {
					_, err := s.Suppliers().Add(ctx, models.Supplier{Name: "Acme"})
					Expect(err).NotTo(HaveOccurred())
					_, err = s.Categories().Add(ctx, models.Category{Name: "Boxes"})
					Expect(err).NotTo(HaveOccurred())

					suppliers, err := s.Suppliers().GetAll(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(suppliers).To(Equal([]models.Supplier{{ID: 1, Name: "Acme"}}))

					categories, err := s.Categories().GetAll(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(categories).To(Equal([]models.Category{{ID: 1, Name: "Boxes"}}))

					products, err := s.Products().GetAll(ctx)
					Expect(err).NotTo(HaveOccurred())
					Expect(products).To(BeEmpty())
				})

				It("should filter products by category and supplier", func() {
					for _, p := range []models.Product{
						{Name: "Box A", Category: "Boxes", Supplier: "Acme", Price: decimal.NewFromInt(1)},
						{Name: "Box B", Category: "Boxes", Supplier: "Globex", Price: decimal.NewFromInt(1)},
						{Name: "Tape", Category: "Tape", Supplier: "Acme", Price: decimal.NewFromInt(1)},
					} {
						_, err := s.Products().Add(ctx, p)
						Expect(err).NotTo(HaveOccurred())
					}

					boxes, err := s.Products().GetAll(ctx, store.ByCategory("Boxes"))
					Expect(err).NotTo(HaveOccurred())
					Expect(boxes).To(HaveLen(2))

					acmeBoxes, err := s.Products().GetAll(ctx, store.ByCategory("Boxes"), store.BySupplier("Acme"))
					Expect(err).NotTo(HaveOccurred())
					Expect(acmeBoxes).To(HaveLen(1))
					Expect(acmeBoxes[0].Name).To(Equal("Box A"))

					count, err := s.Products().Count(ctx, store.BySupplier("Acme"))
					Expect(err).NotTo(HaveOccurred())
					Expect(count).To(Equal(2))
				})

				It("should page results", func() {
					for i := range 5 {
						_, err := s.Categories().Add(ctx, models.Category{Name: fmt.Sprintf("cat-%d", i)})
						Expect(err).NotTo(HaveOccurred())
					}

					page, err := s.Categories().GetAll(ctx,
						store.WithLimit[models.Category](2),
						store.WithOffset[models.Category](2),
					)
					Expect(err).NotTo(HaveOccurred())
					Expect(page).To(Equal([]models.Category{{ID: 3, Name: "cat-2"}, {ID: 4, Name: "cat-3"}}))
				})
			})

			Context("sales", func() {
				It("should round-trip a sale with its line items", func() {
					sale := models.Sale{
						Date:        time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
						TotalAmount: decimal.RequireFromString("12.50"),
						Items: []models.SaleLine{
							{ProductID: 1, Name: "Box A", Quantity: 5, UnitPrice: decimal.RequireFromString("2.50")},
						},
					}

					key, err := s.Sales().Add(ctx, sale)
					Expect(err).NotTo(HaveOccurred())

					got, err := s.Sales().GetByID(ctx, key)
					Expect(err).NotTo(HaveOccurred())
					Expect(got).NotTo(BeNil())

					sale.ID = key
					Expect(got.Equal(sale)).To(BeTrue(), "got %+v", *got)
				})

				It("should filter sales by date range", func() {
					for _, day := range []int{1, 15, 28} {
						_, err := s.Sales().Add(ctx, models.Sale{
							Date:        time.Date(2026, 2, day, 12, 0, 0, 0, time.UTC),
							TotalAmount: decimal.NewFromInt(int64(day)),
						})
						Expect(err).NotTo(HaveOccurred())
					}

					sales, err := s.Sales().GetAll(ctx, store.ByDateRange(
						time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
						time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
					))
					Expect(err).NotTo(HaveOccurred())
					Expect(sales).To(HaveLen(1))
					Expect(sales[0].TotalAmount.IntPart()).To(Equal(int64(15)))
				})
			})

			Context("users", func() {
				It("should keep credentials opaque", func() {
					creds := json.RawMessage(`{"hash":"x","salt":"y"}`)
					key, err := s.Users().Add(ctx, models.User{Username: "admin", Credentials: creds})
					Expect(err).NotTo(HaveOccurred())

					got, err := s.Users().GetByID(ctx, key)
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Username).To(Equal("admin"))
					Expect(got.Credentials).To(MatchJSON(creds))
				})

				It("should store users without credentials", func() {
					key, err := s.Users().Add(ctx, models.User{Username: "clerk"})
					Expect(err).NotTo(HaveOccurred())

					got, err := s.Users().GetByID(ctx, key)
					Expect(err).NotTo(HaveOccurred())
					Expect(got.Credentials).To(BeNil())
				})
			})

			Context("concurrent writers", func() {
				It("should assign distinct keys", func() {
					var wg sync.WaitGroup
					keys := make(chan int64, 20)
					for i := range 20 {
						wg.Add(1)
						go func() {
							defer GinkgoRecover()
							defer wg.Done()
							key, err := s.Categories().Add(ctx, models.Category{Name: fmt.Sprintf("cat-%d", i)})
							Expect(err).NotTo(HaveOccurred())
							keys <- key
						}()
					}
					wg.Wait()
					close(keys)

					seen := map[int64]bool{}
					for k := range keys {
						Expect(seen).NotTo(HaveKey(k))
						seen[k] = true
					}
					Expect(seen).To(HaveLen(20))
				})
			})

			// Given an empty store
			// When supplier Acme, product Box A and 15 units of inventory are stored
			// Then Box A should have key 1 and be low on stock against its reorder level of 20
			It("should track a product from supplier to low stock", func() {
				_, err := s.Suppliers().Add(ctx, models.Supplier{Name: "Acme"})
				Expect(err).NotTo(HaveOccurred())

				key, err := s.Products().Add(ctx, models.Product{
					Name:         "Box A",
					Category:     "Boxes",
					Price:        decimal.RequireFromString("2.50"),
					Supplier:     "Acme",
					ReorderLevel: 20,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(key).To(Equal(int64(1)))

				_, err = s.Inventory().Add(ctx, models.InventoryItem{ProductID: key, Quantity: 15})
				Expect(err).NotTo(HaveOccurred())

				products, err := s.Products().GetAll(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(products).To(HaveLen(1))
				Expect(products[0].Name).To(Equal("Box A"))

				item, err := s.Inventory().GetByID(ctx, key)
				Expect(err).NotTo(HaveOccurred())
				Expect(item.Quantity).To(Equal(15))

				level := models.StockLevel{ProductID: key, Quantity: item.Quantity, ReorderLevel: products[0].ReorderLevel}
				Expect(level.LowStock()).To(BeTrue())
			})
		})
	}
})
