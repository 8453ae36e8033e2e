package v1

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error string `json:"error"`
	// State is set when the store is not ready.
	State string `json:"state,omitempty"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	State         string `json:"state"`
	Error         string `json:"error,omitempty"`
	SchemaVersion int    `json:"schemaVersion,omitempty"`
}

// KeyResponse answers a record creation with the key it was stored at.
type KeyResponse struct {
	Key int64 `json:"key"`
}

// Page is a slice of a collection with the size of the whole filtered
// collection.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

type StockAdjustRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
}

type CollectionsResponse struct {
	Collections []string `json:"collections"`
}
