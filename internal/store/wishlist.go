package store

import (
	"context"
	"log/slog"
	"slices"

	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/repository"
)

// Wishlist is one session's set of saved products, keyed by product ID.
type Wishlist struct {
	base[domain.Product]
}

// NewWishlist creates an empty wishlist for sessionID. Call Load before use.
func NewWishlist(repo repository.RecordRepository, sessionID string, logger *slog.Logger) *Wishlist {
	w := &Wishlist{}
	w.init(repo, repository.WishlistKey(sessionID), sessionID, event.TopicWishlist, logger, domain.NormalizeWishlist)
	return w
}

func (w *Wishlist) index(id int) int {
	return slices.IndexFunc(w.items, func(p domain.Product) bool { return p.ID == id })
}

// Add saves p unless a product with the same ID is already present. It
// reports whether p was added; a duplicate neither persists nor notifies.
func (w *Wishlist) Add(ctx context.Context, p domain.Product) bool {
	w.mu.Lock()
	if w.index(p.ID) >= 0 {
		w.mu.Unlock()
		return false
	}
	w.items = append(w.items, p)
	w.commit(ctx, "add")
	w.mu.Unlock()

	w.notify()
	return true
}

// Remove deletes the product with id and reports whether it was present.
func (w *Wishlist) Remove(ctx context.Context, id int) bool {
	w.mu.Lock()
	i := w.index(id)
	if i < 0 {
		w.mu.Unlock()
		return false
	}
	w.items = slices.Delete(w.items, i, i+1)
	w.commit(ctx, "remove")
	w.mu.Unlock()

	w.notify()
	return true
}

// Clear empties the wishlist and persists the empty record.
func (w *Wishlist) Clear(ctx context.Context) {
	w.mu.Lock()
	w.items = []domain.Product{}
	w.commit(ctx, "clear")
	w.mu.Unlock()

	w.notify()
}

// Contains reports whether a product with id is saved.
func (w *Wishlist) Contains(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index(id) >= 0
}

// Products returns a copy of the saved products in insertion order.
func (w *Wishlist) Products() []domain.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.items)
}

// Count returns the number of saved products.
func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
