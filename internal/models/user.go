package models

import "encoding/json"

// User is an account record. Credentials are kept as an opaque document;
// nothing in the program interprets them.
type User struct {
	ID          int64           `json:"id,omitempty"`
	Username    string          `json:"username"`
	Credentials json.RawMessage `json:"credentials,omitempty"`
}
