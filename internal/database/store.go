package database

import (
	"context"
	"encoding/json"
)

// Records maps storage keys to the raw JSON documents stored under them.
// The store does not interpret documents; callers validate their shape on read.
type Records map[string]json.RawMessage

// KVStore is the persistent key-value contract rules are kept in.
// Each method is atomic with respect to a single call only.
type KVStore interface {
	// GetAll returns every stored record; an empty map when the store is empty.
	GetAll(ctx context.Context) (Records, error)
	// Get returns a map holding the record under key, or an empty map when absent.
	Get(ctx context.Context, key string) (Records, error)
	// Set writes every record in the map, replacing existing values.
	Set(ctx context.Context, records Records) error
	// Remove deletes the record under key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close(ctx context.Context) error
}
