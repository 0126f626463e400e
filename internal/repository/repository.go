// Package repository defines the durable key-value storage behind the
// cart and wishlist stores.
package repository

import "context"

// RecordRepository stores opaque JSON records under string keys.
type RecordRepository interface {
	// Get returns the record under key, or an error wrapping
	// apperrors.ErrNotFound when there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Save creates or replaces the record under key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the record under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key prefixes, one per store kind.
const (
	CartPrefix     = "cart:"
	WishlistPrefix = "wishlist:"
)

// CartKey returns the record key of a session's cart.
func CartKey(sessionID string) string {
	return CartPrefix + sessionID
}

// WishlistKey returns the record key of a session's wishlist.
func WishlistKey(sessionID string) string {
	return WishlistPrefix + sessionID
}
