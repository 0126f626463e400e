package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSession(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	h := Session()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestSession_UsesHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, "tab_42-abc")

	rec, seen := captureSession(t, req)
	assert.Equal(t, "tab_42-abc", seen)
	assert.Equal(t, "tab_42-abc", rec.Header().Get(SessionHeader))
}

func TestSession_QueryFallback(t *testing.T) {
	// EventSource cannot set headers, so the stream passes the id as a query parameter.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?session_id=from-query", nil)

	_, seen := captureSession(t, req)
	assert.Equal(t, "from-query", seen)
}

func TestSession_IssuesNewID(t *testing.T) {
	rec, seen := captureSession(t, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(SessionHeader))
}

func TestSession_RejectsMalformed(t *testing.T) {
	for _, id := range []string{"has space", "semi;colon", strings.Repeat("a", maxSessionIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(SessionHeader, id)

		rec, seen := captureSession(t, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Empty(t, seen)
		assert.Contains(t, rec.Body.String(), "INVALID_SESSION")
	}
}

func TestSessionIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, SessionIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
