// Package handlers implements the /api/v1 HTTP API.
//
// Handlers parse and validate requests, call the store or the services and
// map errors to status codes:
//
//	┌──────────────────────────────────────┬────────┐
//	│ Error                                │ Status │
//	├──────────────────────────────────────┼────────┤
//	│ InvalidArgument, malformed body/key  │ 400    │
//	│ UnknownCollection, ResourceNotFound  │ 404    │
//	│ ConstraintViolation                  │ 409    │
//	│ InsufficientStock                    │ 409    │
//	│ StoreNotReady, OpenFailed            │ 503    │
//	│ anything else                        │ 500    │
//	└──────────────────────────────────────┴────────┘
//
// # Endpoints
//
//	┌────────┬────────────────────────────────────┬─────────────────────────────────────┐
//	│ Method │ Endpoint                           │ Description                         │
//	├────────┼────────────────────────────────────┼─────────────────────────────────────┤
//	│ GET    │ /health                            │ Store state and schema version      │
//	│ GET    │ /collections                       │ Collection names                    │
//	│ GET    │ /collections/{collection}          │ Page of records (limit, offset)     │
//	│ POST   │ /collections/{collection}          │ Add a record, returns its key       │
//	│ GET    │ /collections/{collection}/{key}    │ One record                          │
//	│ PUT    │ /collections/{collection}/{key}    │ Upsert a record                     │
//	│ DELETE │ /collections/{collection}/{key}    │ Delete a record                     │
//	│ GET    │ /inventory/levels                  │ Products with their quantities      │
//	│ GET    │ /inventory/low-stock               │ Products at or below reorder level  │
//	│ POST   │ /inventory/{productId}/stock-in    │ Add units                           │
//	│ POST   │ /inventory/{productId}/stock-out   │ Remove units, floored at zero       │
//	│ GET    │ /sales                             │ Sales in [from, to)                 │
//	│ POST   │ /sales/checkout                    │ Sell a cart                         │
//	│ GET    │ /dashboard                         │ Dashboard summary                   │
//	│ GET    │ /reports/inventory.xlsx            │ XLSX workbook                       │
//	└────────┴────────────────────────────────────┴─────────────────────────────────────┘
//
// Products accept "category" and "supplier" filters, sales accept RFC 3339
// "from" and "to" filters.
//
// # Readiness
//
// Every route except /health is wrapped by RequireReady: while the store
// is opening, or after it failed to open, requests get a 503 carrying the
// store state and the open error.
package handlers
