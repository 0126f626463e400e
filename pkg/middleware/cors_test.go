package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/cart", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	CORS(cfg)(okHandler).ServeHTTP(rr, req)
	return rr
}

func TestCORS_Origins(t *testing.T) {
	tests := []struct {
		name     string
		cfg      CORSConfig
		origin   string
		want     string
		wantVary bool
	}{
		{"development allows any", CORSConfig{Environment: "development"}, "https://anything.test", "*", false},
		{"wildcard in list", CORSConfig{AllowedOrigins: []string{"https://shop.fashly.id", "*"}, Environment: "production"}, "https://other.test", "*", false},
		{"listed origin echoed", CORSConfig{AllowedOrigins: []string{"https://shop.fashly.id", "https://m.fashly.id"}, Environment: "production"}, "https://m.fashly.id", "https://m.fashly.id", true},
		{"unlisted origin rejected", CORSConfig{AllowedOrigins: []string{"https://shop.fashly.id"}, Environment: "production"}, "https://evil.test", "", false},
		{"no origin header", CORSConfig{AllowedOrigins: []string{"https://shop.fashly.id"}, Environment: "production"}, "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serveCORS(tc.cfg, http.MethodGet, tc.origin)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, rr.Header().Get("Access-Control-Allow-Origin"))
			if tc.wantVary {
				assert.Equal(t, "Origin", rr.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	reached := false
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/api/v1/cart/items", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, reached)
	assert.Empty(t, rr.Body.String())
}

func TestCORS_DefaultsExposeSessionHeader(t *testing.T) {
	rr := serveCORS(CORSConfig{Environment: "development"}, http.MethodGet, "")

	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), SessionHeader)
	assert.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), SessionHeader)
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_CustomSettings(t *testing.T) {
	rr := serveCORS(CORSConfig{
		AllowedOrigins:   []string{"https://shop.fashly.id"},
		AllowedHeaders:   []string{"Accept", "X-Custom"},
		MaxAge:           7200,
		AllowCredentials: true,
		Environment:      "production",
	}, http.MethodGet, "https://shop.fashly.id")

	assert.Equal(t, "Accept, X-Custom", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "7200", rr.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
