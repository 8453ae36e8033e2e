package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/packagingcountry/stockroom/api/v1"
	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// collectionEndpoint serves the record operations of one collection.
type collectionEndpoint interface {
	list(c *gin.Context)
	get(c *gin.Context, key int64)
	create(c *gin.Context)
	put(c *gin.Context, key int64)
	remove(c *gin.Context, key int64)
}

type recordEndpoint[T any] struct {
	name    string
	coll    *store.Collection[T]
	setKey  func(*T, int64)
	filters func(c *gin.Context) ([]store.ListOption[T], error)
}

func newCollectionEndpoints(st *store.Store) map[models.Collection]collectionEndpoint {
	return map[models.Collection]collectionEndpoint{
		models.CollectionProducts: &recordEndpoint[models.Product]{
			name:    models.CollectionProducts.String(),
			coll:    st.Products(),
			setKey:  func(p *models.Product, k int64) { p.ID = k },
			filters: productFilters,
		},
		models.CollectionInventory: &recordEndpoint[models.InventoryItem]{
			name:   models.CollectionInventory.String(),
			coll:   st.Inventory(),
			setKey: func(i *models.InventoryItem, k int64) { i.ProductID = k },
		},
		models.CollectionSales: &recordEndpoint[models.Sale]{
			name:    models.CollectionSales.String(),
			coll:    st.Sales(),
			setKey:  func(s *models.Sale, k int64) { s.ID = k },
			filters: saleFilters,
		},
		models.CollectionSuppliers: &recordEndpoint[models.Supplier]{
			name:   models.CollectionSuppliers.String(),
			coll:   st.Suppliers(),
			setKey: func(s *models.Supplier, k int64) { s.ID = k },
		},
		models.CollectionCategories: &recordEndpoint[models.Category]{
			name:   models.CollectionCategories.String(),
			coll:   st.Categories(),
			setKey: func(cat *models.Category, k int64) { cat.ID = k },
		},
		models.CollectionUsers: &recordEndpoint[models.User]{
			name:   models.CollectionUsers.String(),
			coll:   st.Users(),
			setKey: func(u *models.User, k int64) { u.ID = k },
		},
	}
}

// ListCollections returns the collection names
// (GET /collections)
func (h *Handler) ListCollections(c *gin.Context) {
	names := make([]string, 0, len(models.Collections()))
	for _, col := range models.Collections() {
		names = append(names, col.String())
	}
	c.JSON(http.StatusOK, v1.CollectionsResponse{Collections: names})
}

// GetRecords lists a collection with pagination
// (GET /collections/:collection)
func (h *Handler) GetRecords(c *gin.Context) {
	endpoint, ok := h.endpoint(c)
	if !ok {
		return
	}
	endpoint.list(c)
}

// CreateRecord adds a record
// (POST /collections/:collection)
func (h *Handler) CreateRecord(c *gin.Context) {
	endpoint, ok := h.endpoint(c)
	if !ok {
		return
	}
	endpoint.create(c)
}

// GetRecord returns one record
// (GET /collections/:collection/:key)
func (h *Handler) GetRecord(c *gin.Context) {
	endpoint, key, ok := h.endpointAndKey(c)
	if !ok {
		return
	}
	endpoint.get(c, key)
}

// PutRecord upserts a record at key
// (PUT /collections/:collection/:key)
func (h *Handler) PutRecord(c *gin.Context) {
	endpoint, key, ok := h.endpointAndKey(c)
	if !ok {
		return
	}
	endpoint.put(c, key)
}

// DeleteRecord removes a record
// (DELETE /collections/:collection/:key)
func (h *Handler) DeleteRecord(c *gin.Context) {
	endpoint, key, ok := h.endpointAndKey(c)
	if !ok {
		return
	}
	endpoint.remove(c, key)
}

func (h *Handler) endpoint(c *gin.Context) (collectionEndpoint, bool) {
	col, err := models.ParseCollection(c.Param("collection"))
	if err != nil {
		c.JSON(http.StatusNotFound, v1.NewErrorResponse(err))
		return nil, false
	}
	return h.collections[col], true
}

func (h *Handler) endpointAndKey(c *gin.Context) (collectionEndpoint, int64, bool) {
	endpoint, ok := h.endpoint(c)
	if !ok {
		return nil, 0, false
	}
	key, err := parseKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
		return nil, 0, false
	}
	return endpoint, key, true
}

func (e *recordEndpoint[T]) list(c *gin.Context) {
	limit, offset, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
		return
	}

	var opts []store.ListOption[T]
	if e.filters != nil {
		opts, err = e.filters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, v1.NewErrorResponse(err))
			return
		}
	}

	total, err := e.coll.Count(c.Request.Context(), opts...)
	if err != nil {
		writeError(c, "collection_handler", "failed to count "+e.name, err)
		return
	}

	page := append(opts, store.WithLimit[T](limit), store.WithOffset[T](offset))
	items, err := e.coll.GetAll(c.Request.Context(), page...)
	if err != nil {
		writeError(c, "collection_handler", "failed to list "+e.name, err)
		return
	}

	c.JSON(http.StatusOK, v1.Page[T]{Items: items, Total: total})
}

func (e *recordEndpoint[T]) get(c *gin.Context, key int64) {
	rec, err := e.coll.GetByID(c.Request.Context(), key)
	if err != nil {
		writeError(c, "collection_handler", "failed to get record from "+e.name, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, v1.NewErrorResponse(srvErrors.NewResourceNotFoundError(e.name, strconv.FormatInt(key, 10))))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (e *recordEndpoint[T]) create(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	key, err := e.coll.Add(c.Request.Context(), rec)
	if err != nil {
		writeError(c, "collection_handler", "failed to add record to "+e.name, err)
		return
	}
	c.JSON(http.StatusCreated, v1.KeyResponse{Key: key})
}

func (e *recordEndpoint[T]) put(c *gin.Context, key int64) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	e.setKey(&rec, key)

	if err := e.coll.Update(c.Request.Context(), rec); err != nil {
		writeError(c, "collection_handler", "failed to update record in "+e.name, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (e *recordEndpoint[T]) remove(c *gin.Context, key int64) {
	if err := e.coll.Delete(c.Request.Context(), key); err != nil {
		writeError(c, "collection_handler", "failed to delete record from "+e.name, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productFilters(c *gin.Context) ([]store.ListOption[models.Product], error) {
	var opts []store.ListOption[models.Product]
	if categories := c.QueryArray("category"); len(categories) > 0 {
		opts = append(opts, store.ByCategory(categories...))
	}
	if suppliers := c.QueryArray("supplier"); len(suppliers) > 0 {
		opts = append(opts, store.BySupplier(suppliers...))
	}
	return opts, nil
}

func saleFilters(c *gin.Context) ([]store.ListOption[models.Sale], error) {
	from, to, err := parseDateRange(c)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return nil, nil
	}
	return []store.ListOption[models.Sale]{store.ByDateRange(from, to)}, nil
}

func parseKey(s string) (int64, error) {
	key, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, srvErrors.NewInvalidArgumentError("invalid key %q", s)
	}
	return key, nil
}

func parsePage(c *gin.Context) (uint64, uint64, error) {
	limit := uint64(defaultPageSize)
	if s := c.Query("limit"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil || v == 0 {
			return 0, 0, srvErrors.NewInvalidArgumentError("invalid limit %q", s)
		}
		limit = min(v, maxPageSize)
	}

	var offset uint64
	if s := c.Query("offset"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, 0, srvErrors.NewInvalidArgumentError("invalid offset %q", s)
		}
		offset = v
	}
	return limit, offset, nil
}

// parseDateRange reads the optional RFC 3339 "from" and "to" query values.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return from, to, srvErrors.NewInvalidArgumentError("invalid from date %q", s)
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return from, to, srvErrors.NewInvalidArgumentError("invalid to date %q", s)
		}
		to = t
	}
	return from, to, nil
}
