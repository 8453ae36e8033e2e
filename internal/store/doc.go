// Package store implements the local persistence layer of stockroom.
//
// A single Store owns the handle to an embedded database (SQLite by default,
// DuckDB optionally) holding six independent collections. Consumers get
// typed collections from the Store and never see SQL.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                          Store (facade)                         │
//	│      lifecycle: Uninitialized → Opening → Ready | Failed        │
//	├─────────────────────────────────────────────────────────────────┤
//	│  Collection[Product]   Collection[InventoryItem]  Collection[Sale]
//	│  Collection[Supplier]  Collection[Category]       Collection[User]
//	│             ▼ codec (columns, encode, scan) per record type     │
//	├─────────────────────────────────────────────────────────────────┤
//	│                 QueryInterceptor (debug logging)                │
//	│                   ▼ database/sql (sqlite3 | duckdb)             │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Collections
//
//	┌──────────────┬────────────┬────────────────┬──────────────────────────────┐
//	│  Collection  │  Key       │  Key source    │  Secondary indexes           │
//	├──────────────┼────────────┼────────────────┼──────────────────────────────┤
//	│  products    │  id        │  generator     │  name (unique), category,    │
//	│              │            │                │  supplier                    │
//	│  inventory   │  product_id│  caller        │  -                           │
//	│  sales       │  id        │  generator     │  sold_at                     │
//	│  suppliers   │  id        │  generator     │  name (unique)               │
//	│  categories  │  id        │  generator     │  name (unique)               │
//	│  users       │  id        │  generator     │  username (unique)           │
//	└──────────────┴────────────┴────────────────┴──────────────────────────────┘
//
// The store does not enforce references between collections: an inventory
// row may point at a deleted product. Keeping collections consistent with
// each other is the caller's job (see services.SalesService.Checkout).
//
// # Key Generation
//
// Auto-keyed collections draw keys from the key_generators table, one row
// per collection holding the last key handed out. A record added with a zero
// key gets last+1; a record added with an explicit key keeps it and moves the
// generator past it. Keys are never reused after a delete.
//
// # Initialization Flow
//
//	NewStore(backend, path)
//	    └── builds the six collections, state Uninitialized
//
//	Store.Initialize(ctx)
//	    ├── NewDB()             → sql.Open, single connection for SQLite
//	    ├── PingContext()
//	    └── migrations.Run()    → schema_migrations bookkeeping, v1 schema
//
// Initialize retries with exponential backoff when WithOpenTimeout is set,
// which covers a database locked by another process. Any failure leaves the
// store Failed with an OpenFailedError.
//
// # Operations
//
//   - Add(ctx, rec) → key. Fails with ConstraintViolationError on a duplicate
//     key or unique value.
//   - GetAll(ctx, opts...) → all records, empty slice when none.
//   - GetByID(ctx, key) → record or nil.
//   - Update(ctx, rec) → upsert at rec's key. A unique value colliding with
//     another record fails with ConstraintViolationError.
//   - Delete(ctx, key) → absent keys are not an error.
//   - Count(ctx, opts...) → number of records.
//
// Every write runs in its own transaction and writes to one collection are
// serialized. There are no transactions spanning collections. Operations
// issued before the store is Ready fail with StoreNotReadyError.
//
// # List Options
//
// GetAll and Count take typed ListOption values that modify the squirrel
// select builder:
//
//	products, err := s.Products().GetAll(ctx,
//	    store.ByCategory("Boxes"),
//	    store.BySupplier("Acme"),
//	    store.WithLimit[models.Product](50),
//	)
//
//	sales, err := s.Sales().GetAll(ctx, store.ByDateRange(from, to))
//
// Options are typed by record so ByCategory cannot be applied to sales.
package store
