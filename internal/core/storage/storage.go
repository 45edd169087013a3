// Package storage defines the durable key-value storage shared by the client-side stores.
//
// Each store owns a disjoint set of keys. Values are opaque strings; encoding and
// validation of what goes into them belongs to the owning store.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Keys written by the session and cart stores.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// Entry represents a stored value with metadata.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines persistence operations for durable client state.
type Store interface {
	// Get returns an entry by key. Returns ErrKeyNotFound if not found.
	Get(ctx context.Context, key string) (Entry, error)
	// Set creates or updates an entry.
	Set(ctx context.Context, key, value string) error
	// Delete removes an entry by key. Returns ErrKeyNotFound if not found.
	Delete(ctx context.Context, key string) error
	// List returns all entries whose key has the given prefix.
	List(ctx context.Context, prefix string) ([]Entry, error)
}

// Remove deletes key and treats a missing key as success.
func Remove(ctx context.Context, s Store, key string) error {
	err := s.Delete(ctx, key)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}
	return nil
}
