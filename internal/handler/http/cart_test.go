package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/service"
	"github.com/utafrali/fashly/pkg/middleware"
)

func TestGetCart_IssuesSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	issued := rec.Header().Get(middleware.SessionHeader)
	_, err := uuid.Parse(issued)
	require.NoError(t, err)

	cart := decode[service.CartView](t, rec).Data
	assert.Equal(t, issued, cart.SessionID)
	assert.Empty(t, cart.Lines)
}

func TestGetCart_InvalidSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", "not a session!", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SESSION", decode[any](t, rec).Error.Code)
}

func TestCart_AddUpdateRemoveFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", service.AddItemInput{ProductID: 1, Color: "red", Size: "M", Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", rec.Header().Get(middleware.SessionHeader))

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", service.AddItemInput{ProductID: 4, Color: "light blue", Size: "32", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[service.CartView](t, rec).Data
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, int64(450000+2*300000), cart.TotalPrice)

	rec = env.do(t, http.MethodPut, "/api/v1/cart/items/4/light%20blue/32", "s1", UpdateQuantityRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decode[service.CartView](t, rec).Data.ItemCount)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart/items/1/red/M", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[service.CartView](t, rec).Data
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "light blue", cart.Lines[0].Color)

	stored, err := env.redis.Get("cart:s1")
	require.NoError(t, err)
	var lines []domain.CartLine
	require.NoError(t, json.Unmarshal([]byte(stored), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestUpdateItemQuantity_ZeroRemoves(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", service.AddItemInput{ProductID: 2, Color: "white", Size: "L", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/cart/items/2/white/L", "s1", UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[service.CartView](t, rec).Data.Lines)
}

func TestUpdateItemQuantity_InvalidProductID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/v1/cart/items/abc/white/L", "s1", UpdateQuantityRequest{Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_MissingVariant(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", service.AddItemInput{ProductID: 1, Color: "red"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, service.ErrSelectVariant, resp.Error.Message)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", service.AddItemInput{ProductID: 77, Color: "red", Size: "M"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", `{"product_id":0,"color":"red","size":"M"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[any](t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "product_id")
}

func TestAddItem_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", `{"product_id":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode[any](t, rec).Error.Code)
}

func TestAddItem_RejectsNonJSONContentType(t *testing.T) {
	env := newTestEnv(t)

	req := newRequest(t, http.MethodPost, "/api/v1/cart/items", "product_id=1")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(env, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "s1", service.AddItemInput{ProductID: 2, Color: "white", Size: "M"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart", "s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[service.CartView](t, rec).Data.ItemCount)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", "s1", nil)
	assert.Empty(t, decode[service.CartView](t, rec).Data.Lines)
}
