package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/fashly/internal/domain"
)

func productIDs(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestListProducts_FilterSortAndMeta(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products?category=men&sort=price-low", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	resp := decode[[]domain.Product](t, rec)
	assert.Equal(t, []int{4, 2}, productIDs(resp.Data))

	var meta listMeta
	require.NoError(t, json.Unmarshal(resp.Meta, &meta))
	assert.Equal(t, 2, meta.TotalCount)
	assert.Equal(t, 1, meta.TotalPages)
	assert.Equal(t, []string{"white", "light blue", "khaki"}, meta.Facets.Colors)
	assert.Equal(t, domain.SortPriceLow, meta.Criteria.Sort)
}

func TestListProducts_DefaultsToNameOrder(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{4, 2, 1}, productIDs(decode[[]domain.Product](t, rec).Data))
}

func TestListProducts_QueryFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"price range", "?min_price=320000&max_price=400000", []int{2}},
		{"colors list", "?colors=navy,%20khaki", []int{4, 1}},
		{"sizes", "?sizes=L", []int{2}},
		{"search", "?search=DRESS", []int{1}},
		{"new flag", "?filter=new&sort=rating", []int{1, 4}},
		{"bestseller flag", "?filter=bestseller", []int{1}},
		{"pagination", "?per_page=2&page=2", []int{1}},
	}

	env := newTestEnv(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/products"+tc.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, productIDs(decode[[]domain.Product](t, rec).Data))
		})
	}
}

func TestListProducts_BadQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"?sort=random", "?filter=sale", "?min_price=abc", "?max_price=-1"} {
		rec := env.do(t, http.MethodGet, "/api/v1/products"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		resp := decode[any](t, rec)
		require.NotNil(t, resp.Error, q)
		assert.Equal(t, "INVALID_INPUT", resp.Error.Code, q)
	}
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Oxford Shirt", decode[domain.Product](t, rec).Data.Name)

	rec = env.do(t, http.MethodGet, "/api/v1/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelatedAndFeatured(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/products/2/related", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{4}, productIDs(decode[[]domain.Product](t, rec).Data))

	rec = env.do(t, http.MethodGet, "/api/v1/products/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1}, productIDs(decode[[]domain.Product](t, rec).Data))
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Category](t, rec).Data, 2)

	rec = env.do(t, http.MethodGet, "/api/v1/categories/men", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Men", decode[domain.Category](t, rec).Data.Name)

	rec = env.do(t, http.MethodGet, "/api/v1/categories/kids", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
