package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/repository"
)

// ErrQuantityLimit is returned by Add when the merged line would exceed
// domain.MaxLineQuantity.
var ErrQuantityLimit = errors.New("line quantity limit exceeded")

// Cart is one session's cart. Lines keep insertion order and no two lines
// share a LineKey.
type Cart struct {
	base[domain.CartLine]
}

// NewCart creates an empty cart for sessionID. Call Load before use.
func NewCart(repo repository.RecordRepository, sessionID string, logger *slog.Logger) *Cart {
	c := &Cart{}
	c.init(repo, repository.CartKey(sessionID), sessionID, event.TopicCart, logger, domain.NormalizeLines)
	return c
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Add merges line into the cart. line.Quantity is the amount to add;
// values below 1 add one. The snapshot fields of an existing line are
// kept. It returns the resulting line, or ErrQuantityLimit without any
// change when the line would exceed domain.MaxLineQuantity.
func (c *Cart) Add(ctx context.Context, line domain.CartLine) (domain.CartLine, error) {
	delta := max(line.Quantity, 1)

	c.mu.Lock()
	i := domain.FindLine(c.items, line.Key())
	current := 0
	if i >= 0 {
		current = c.items[i].Quantity
	}
	if current+delta > domain.MaxLineQuantity {
		c.mu.Unlock()
		return domain.CartLine{}, ErrQuantityLimit
	}

	if i >= 0 {
		c.items[i].Quantity += delta
	} else {
		line.Quantity = delta
		c.items = append(c.items, line)
		i = len(c.items) - 1
	}
	result := c.items[i]
	c.commit(ctx, "add")
	c.mu.Unlock()

	c.notify()
	return result, nil
}

// UpdateQuantity sets the quantity of the line with key k. A quantity of
// zero or less removes the line. It reports whether a line was found.
func (c *Cart) UpdateQuantity(ctx context.Context, k domain.LineKey, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(ctx, k)
	}

	c.mu.Lock()
	i := domain.FindLine(c.items, k)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.items[i].Quantity = quantity
	c.commit(ctx, "update_quantity")
	c.mu.Unlock()

	c.notify()
	return true
}

// Remove deletes the line with key k and reports whether it existed.
func (c *Cart) Remove(ctx context.Context, k domain.LineKey) bool {
	c.mu.Lock()
	i := domain.FindLine(c.items, k)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.commit(ctx, "remove")
	c.mu.Unlock()

	c.notify()
	return true
}

// Clear empties the cart and persists the empty record.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = []domain.CartLine{}
	c.commit(ctx, "clear")
	c.mu.Unlock()

	c.notify()
}

// Checkout passes a copy of the current lines to place and clears the cart
// if place returns nil, all within one critical section: a line added
// concurrently is either in the lines given to place or left in the cart.
// place must not call back into the cart.
func (c *Cart) Checkout(ctx context.Context, place func(lines []domain.CartLine) error) error {
	c.mu.Lock()
	if err := place(slices.Clone(c.items)); err != nil {
		c.mu.Unlock()
		return err
	}
	c.items = []domain.CartLine{}
	c.commit(ctx, "checkout")
	c.mu.Unlock()

	c.notify()
	return nil
}

// ItemCount sums the quantities of all lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ItemCount(c.items)
}

// TotalPrice sums price times quantity over all lines.
func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.TotalPrice(c.items)
}

// Snapshot returns the lines and their aggregates read under one lock.
func (c *Cart) Snapshot() (lines []domain.CartLine, itemCount int, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items), domain.ItemCount(c.items), domain.TotalPrice(c.items)
}
