// Package store persists application documents as JSON under stable keys.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Well-known document keys.
const (
	KeyStocks        = "stocks"
	KeyPortfolio     = "portfolio"
	KeyNews          = "news"
	KeyAlerts        = "alerts"
	KeySubscribers   = "subscribers"
	KeyNotifications = "notifications"
)

// Store reads and writes whole JSON documents. Writes replace the
// document atomically; concurrent writers to the same key serialize.
type Store interface {
	// Get unmarshals the document at key into v. Returns ErrNotFound
	// when the key has never been written.
	Get(ctx context.Context, key string, v interface{}) error

	// Put marshals v and replaces the document at key.
	Put(ctx context.Context, key string, v interface{}) error

	// Delete removes the document at key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key with a stored document, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases the backing resources.
	Close() error
}
