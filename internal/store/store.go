package store

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/packagingcountry/stockroom/internal/models"
	"github.com/packagingcountry/stockroom/internal/store/migrations"
	srvErrors "github.com/packagingcountry/stockroom/pkg/errors"
)

// Store owns the database handle and provides access to all collections.
// One Store is created per process by the composition root and shared by
// reference.
type Store struct {
	backend     Backend
	path        string
	openTimeout time.Duration

	initMu sync.Mutex
	mu     sync.RWMutex
	status models.StoreStatus
	db     *sql.DB

	products   *Collection[models.Product]
	inventory  *Collection[models.InventoryItem]
	sales      *Collection[models.Sale]
	suppliers  *Collection[models.Supplier]
	categories *Collection[models.Category]
	users      *Collection[models.User]
}

type Option func(*Store)

// WithOpenTimeout lets Initialize retry with exponential backoff for up to d
// while the database cannot be opened, e.g. because another process holds
// its lock. The default is a single attempt.
func WithOpenTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.openTimeout = d
	}
}

// NewStore returns an uninitialized store. Initialize must succeed before
// any collection operation is issued.
func NewStore(backend Backend, path string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		path:    path,
		status:  models.StoreStatus{State: models.StoreStateUninitialized},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.products = newCollection(s, productCodec)
	s.inventory = newCollection(s, inventoryCodec)
	s.sales = newCollection(s, saleCodec)
	s.suppliers = newCollection(s, supplierCodec)
	s.categories = newCollection(s, categoryCodec)
	s.users = newCollection(s, userCodec)

	return s
}

func (s *Store) Products() *Collection[models.Product] {
	return s.products
}

func (s *Store) Inventory() *Collection[models.InventoryItem] {
	return s.inventory
}

func (s *Store) Sales() *Collection[models.Sale] {
	return s.sales
}

func (s *Store) Suppliers() *Collection[models.Supplier] {
	return s.suppliers
}

func (s *Store) Categories() *Collection[models.Category] {
	return s.categories
}

func (s *Store) Users() *Collection[models.User] {
	return s.users
}

// Initialize opens the database, creating it when absent, and brings its
// schema to migrations.SchemaVersion. It is a no-op on a Ready store.
func (s *Store) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.Lock()
	switch s.status.State {
	case models.StoreStateReady:
		s.mu.Unlock()
		return nil
	case models.StoreStateClosed:
		s.mu.Unlock()
		return srvErrors.NewOpenFailedError(errors.New("store is closed"))
	}
	s.status = models.StoreStatus{State: models.StoreStateOpening}
	s.mu.Unlock()

	log := zap.S().Named("store")
	log.Infow("opening store", "backend", s.backend, "path", s.path)

	db, err := s.open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		openErr := srvErrors.NewOpenFailedError(err)
		s.status = models.StoreStatus{State: models.StoreStateFailed, Error: openErr}
		log.Errorw("failed to open store", "error", err)
		return openErr
	}

	s.db = db
	s.status = models.StoreStatus{State: models.StoreStateReady}
	log.Infow("store ready", "schema_version", migrations.SchemaVersion)

	return nil
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	operation := func() (*sql.DB, error) {
		db, err := NewDB(s.backend, s.path)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, err
		}

		if err := migrations.Run(ctx, db); err != nil {
			db.Close()
			if errors.Is(err, migrations.ErrNewerSchema) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		return db, nil
	}

	opts := []backoff.RetryOption{backoff.WithBackOff(backoff.NewExponentialBackOff())}
	if s.openTimeout > 0 {
		opts = append(opts,
			backoff.WithMaxElapsedTime(s.openTimeout),
			backoff.WithNotify(func(err error, next time.Duration) {
				zap.S().Named("store").Warnw("store open attempt failed, retrying", "error", err, "next_attempt", next)
			}),
		)
	} else {
		opts = append(opts, backoff.WithMaxTries(1))
	}

	return backoff.Retry(ctx, operation, opts...)
}

// Close releases the database handle. Collection operations fail afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = models.StoreStatus{State: models.StoreStateClosed}
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Status() models.StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) State() models.StoreState {
	return s.Status().State
}

// Err returns the error that moved the store to Failed, if any.
func (s *Store) Err() error {
	return s.Status().Error
}

// Schema reports the schema version, the collections and the secondary
// indexes present in the opened database.
func (s *Store) Schema(ctx context.Context) (models.SchemaInfo, error) {
	db, err := s.handle()
	if err != nil {
		return models.SchemaInfo{}, err
	}

	version, err := migrations.Version(ctx, db)
	if err != nil {
		return models.SchemaInfo{}, err
	}

	d := dialectFor(s.backend)
	tables, err := queryNames(ctx, db, d.tablesQuery)
	if err != nil {
		return models.SchemaInfo{}, err
	}
	indexes, err := queryNames(ctx, db, d.indexesQuery)
	if err != nil {
		return models.SchemaInfo{}, err
	}

	info := models.SchemaInfo{Version: version, Indexes: indexes}
	for _, c := range models.Collections() {
		if slices.Contains(tables, c.String()) {
			info.Collections = append(info.Collections, c.String())
		}
	}
	slices.Sort(info.Collections)

	return info, nil
}

// handle returns the query interceptor for the open database, or
// StoreNotReadyError when the store is not Ready.
func (s *Store) handle() (QueryInterceptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.status.State != models.StoreStateReady {
		return QueryInterceptor{}, srvErrors.NewStoreNotReadyError(string(s.status.State))
	}
	return NewQueryInterceptor(s.db), nil
}

func queryNames(ctx context.Context, db QueryInterceptor, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
