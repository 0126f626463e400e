package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/fashly/internal/service"
)

func TestWishlist_AddContainsRemove(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/items", "s1", AddWishlistItemRequest{ProductID: 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decode[service.WishlistView](t, rec).Data.Count)

	rec = env.do(t, http.MethodPost, "/api/v1/wishlist/items", "s1", AddWishlistItemRequest{ProductID: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[service.WishlistView](t, rec).Data.Count)

	rec = env.do(t, http.MethodGet, "/api/v1/wishlist/items/2", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, containsResponse{ProductID: 2, InWishlist: true}, decode[containsResponse](t, rec).Data)

	rec = env.do(t, http.MethodDelete, "/api/v1/wishlist/items/2", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[service.WishlistView](t, rec).Data.Count)

	rec = env.do(t, http.MethodGet, "/api/v1/wishlist/items/2", "s1", nil)
	assert.False(t, decode[containsResponse](t, rec).Data.InWishlist)
}

func TestWishlist_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/items", "s1", AddWishlistItemRequest{ProductID: 55})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlist_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/items", "s1", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[any](t, rec).Error.Code)
}

func TestWishlist_PersistsAndClears(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wishlist/items", "s1", AddWishlistItemRequest{ProductID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.redis.Exists("wishlist:s1"))

	rec = env.do(t, http.MethodGet, "/api/v1/wishlist", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[service.WishlistView](t, rec).Data
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Wrap Dress", view.Products[0].Name)

	rec = env.do(t, http.MethodDelete, "/api/v1/wishlist", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[service.WishlistView](t, rec).Data.Count)

	stored, err := env.redis.Get("wishlist:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, stored)
}
