package models

// StoreState is the lifecycle state of the structured store.
type StoreState string

const (
	StoreStateUninitialized StoreState = "uninitialized"
	StoreStateOpening       StoreState = "opening"
	StoreStateReady         StoreState = "ready"
	StoreStateFailed        StoreState = "failed"
	StoreStateClosed        StoreState = "closed"
)

// StoreStatus holds the current store state and the open failure, if any.
type StoreStatus struct {
	State StoreState
	Error error
}

// SchemaInfo describes the schema visible in an opened database.
type SchemaInfo struct {
	Version     int
	Collections []string
	Indexes     []string
}
