package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/domain"
	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/repository/redis"
	"github.com/utafrali/fashly/internal/service"
	"github.com/utafrali/fashly/pkg/database"
	"github.com/utafrali/fashly/pkg/health"
	"github.com/utafrali/fashly/pkg/httputil"
	"github.com/utafrali/fashly/pkg/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]domain.Product{
		{ID: 1, Name: "Wrap Dress", Price: 450000, Images: []string{"/img/1.jpg"}, Category: "women", Subcategory: "dresses",
			Colors: []string{"red", "navy"}, Sizes: []string{"S", "M"}, Stock: 10, Rating: 4.7, IsNew: true, IsBestSeller: true},
		{ID: 2, Name: "Oxford Shirt", Price: 350000, Images: []string{"/img/2.jpg"}, Category: "men", Subcategory: "shirts",
			Colors: []string{"white"}, Sizes: []string{"M", "L"}, Stock: 5, Rating: 4.6},
		{ID: 4, Name: "Chinos", Price: 300000, Images: []string{"/img/4.jpg"}, Category: "men", Subcategory: "pants",
			Colors: []string{"light blue", "khaki"}, Sizes: []string{"32", "34"}, Stock: 3, Rating: 4.2, IsNew: true},
	}, []domain.Category{
		{ID: "women", Name: "Women", Subcategories: []string{"dresses"}},
		{ID: "men", Name: "Men", Subcategories: []string{"shirts", "pants"}},
	})
	require.NoError(t, err)
	return c
}

type testEnv struct {
	router http.Handler
	redis  *miniredis.Miniredis
	hub    *event.Hub
}

// newTestEnv wires the router to real stores persisted in an in-process
// Redis.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, client, err := database.NewMiniRedis()
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	logger := testLogger()
	hub := event.NewHub()
	sessions := service.NewSessionManager(redis.NewRecordRepository(client, time.Hour), 0, logger, hub.Publish)
	c := testCatalog(t)

	router := NewRouter(Services{
		Catalog:  service.NewCatalogService(c),
		Cart:     service.NewCartService(sessions, c, logger),
		Wishlist: service.NewWishlistService(sessions, c, logger),
		Checkout: service.NewCheckoutService(sessions, service.DefaultCheckoutConfig(), logger),
		Hub:      hub,
	}, health.NewHandler(), logger, Options{CORS: middleware.DefaultCORSConfig()})

	return &testEnv{router: router, redis: mr, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func newRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, bytes.NewBufferString(body))
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope is httputil.Response with a typed payload.
type envelope[T any] struct {
	Data  T                       `json:"data"`
	Meta  json.RawMessage         `json:"meta"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var resp envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
