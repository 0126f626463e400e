package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/fashly/pkg/errors"
)

func TestWishlistAddItem_Success(t *testing.T) {
	f := newFixture(t)

	view, added, err := f.wishlist.AddItem(context.Background(), "s1", 2)
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Oxford Shirt", view.Products[0].Name)
	assert.Equal(t, 1, view.Count)
}

func TestWishlistAddItem_DuplicateIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.wishlist.AddItem(ctx, "s1", 2)
	require.NoError(t, err)
	view, added, err := f.wishlist.AddItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, view.Count)
}

func TestWishlistAddItem_OutOfStockAllowed(t *testing.T) {
	f := newFixture(t)

	_, added, err := f.wishlist.AddItem(context.Background(), "s1", 3)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestWishlistAddItem_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	view, added, err := f.wishlist.AddItem(context.Background(), "s1", 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, view)
	assert.False(t, added)
}

func TestWishlistRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.wishlist.AddItem(ctx, "s1", 1)
	require.NoError(t, err)
	_, _, err = f.wishlist.AddItem(ctx, "s1", 4)
	require.NoError(t, err)

	view, err := f.wishlist.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, 4, view.Products[0].ID)

	view, err = f.wishlist.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
}

func TestWishlistContains(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.wishlist.AddItem(ctx, "s1", 4)
	require.NoError(t, err)

	ok, err := f.wishlist.Contains(ctx, "s1", 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.wishlist.Contains(ctx, "s1", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearWishlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.wishlist.AddItem(ctx, "s1", 1)
	require.NoError(t, err)

	view, err := f.wishlist.ClearWishlist(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Products)
	assert.Equal(t, 0, view.Count)

	got, err := f.wishlist.GetWishlist(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
}
