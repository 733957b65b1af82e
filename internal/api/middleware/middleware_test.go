package middleware_test

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/adapters/cache"
	"github.com/zatekoja/hospitalops/internal/api/middleware"
	"github.com/zatekoja/hospitalops/internal/domain/providers"
)

func countingHandler(calls *int32, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestCacheMiddleware_HitAfterMiss(t *testing.T) {
	lru, err := cache.NewLRUAdapter(16)
	require.NoError(t, err)
	var calls int32
	handler := middleware.NewCacheMiddleware(lru, 30, nil).Middleware(countingHandler(&calls, http.StatusOK, `{"ok":true}`))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, `{"ok":true}`, second.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCacheMiddleware_KeysAreGroupedForInvalidation(t *testing.T) {
	lru, err := cache.NewLRUAdapter(16)
	require.NoError(t, err)
	var calls int32
	handler := middleware.NewCacheMiddleware(lru, 30, nil).Middleware(countingHandler(&calls, http.StatusOK, `{}`))
	ctx := context.Background()

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/capacity?hospitalId=HSP-001", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/capacity/citywide", nil))

	require.NoError(t, lru.DeletePattern(ctx, providers.CacheGroupPattern(providers.CacheGroupCapacity)))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/capacity/citywide", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCacheMiddleware_SkipsUncachedRoutesAndErrors(t *testing.T) {
	lru, err := cache.NewLRUAdapter(16)
	require.NoError(t, err)
	var calls int32
	m := middleware.NewCacheMiddleware(lru, 30, nil)

	queue := m.Middleware(countingHandler(&calls, http.StatusOK, `[]`))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		queue.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/queue", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}

	failing := m.Middleware(countingHandler(&calls, http.StatusBadGateway, `{"error":"x"}`))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		failing.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/capacity?hospitalId=HSP-009", nil))
		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestCORSMiddleware(t *testing.T) {
	var calls int32
	handler := middleware.CORSMiddleware([]string{"https://ops.example.org", " "})(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/queue", nil)
	req.Header.Set("Origin", "https://ops.example.org")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "https://ops.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	req = httptest.NewRequest(http.MethodGet, "/api/queue", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "disallowed origins still reach the handler")

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/queue", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "preflight is answered by the middleware")

	wildcard := middleware.CORSMiddleware(nil)(countingHandler(&calls, http.StatusOK, `{}`))
	req = httptest.NewRequest(http.MethodGet, "/api/queue", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w = httptest.NewRecorder()
	wildcard.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestResponseOptimization(t *testing.T) {
	var calls int32
	handler := middleware.ResponseOptimization(countingHandler(&calls, http.StatusOK, strings.Repeat(`{"beds":[]}`, 20)))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(`{"beds":[]}`, 20), string(body))

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
}

func TestResponseOptimization_StreamsBypass(t *testing.T) {
	var calls int32
	handler := middleware.ResponseOptimization(countingHandler(&calls, http.StatusOK, "event: connected\n\n"))

	req := httptest.NewRequest(http.MethodGet, "/api/stream/events", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Empty(t, w.Header().Get("ETag"))
	assert.Equal(t, "event: connected\n\n", w.Body.String())
}

func TestLoggingAndObservabilityPreserveFlusher(t *testing.T) {
	var flushed bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		f.Flush()
		flushed = true
	})
	handler := middleware.ObservabilityMiddleware(nil)(middleware.LoggingMiddleware(inner))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/stream/events", nil))
	assert.True(t, flushed)
}
