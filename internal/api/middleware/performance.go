package middleware

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
)

const (
	streamPathPrefix = "/api/stream/"
	gzipMinBytes     = 128
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, 5)
		return gz
	},
}

// cacheControlFor picks the Cache-Control policy for a route family
func cacheControlFor(path string) string {
	switch {
	case path == "/api/inventory/export":
		return "no-store"
	case strings.HasPrefix(path, "/api/capacity"), path == "/api/dashboard":
		// server side copies are dropped on every hospital event
		return "public, max-age=10, must-revalidate"
	default:
		return "private, no-cache, must-revalidate"
	}
}

// ResponseOptimization sets Cache-Control and, for GET and HEAD, buffers the
// response so it can carry a content ETag, answer If-None-Match with 304 and
// be gzipped for clients that accept it. Event streams pass straight through.
func ResponseOptimization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, streamPathPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Cache-Control", cacheControlFor(r.URL.Path))
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		buffered := &bufferedResponse{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(buffered, r)
		body := buffered.body.Bytes()

		if buffered.status == http.StatusOK {
			etag := contentETag(body)
			w.Header().Set("ETag", etag)
			if r.Header.Get("If-None-Match") == etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}

		writeOptimized(w, r, buffered.status, body)
	})
}

func contentETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func writeOptimized(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	header := w.Header()
	if len(body) < gzipMinBytes ||
		!strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
		header.Get("Content-Encoding") != "" {
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	header.Set("Content-Encoding", "gzip")
	header.Add("Vary", "Accept-Encoding")
	header.Del("Content-Length")
	w.WriteHeader(status)

	gz := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(gz)
	gz.Reset(w)
	_, _ = gz.Write(body)
	_ = gz.Close()
}

// bufferedResponse holds the body and status until the handler returns
type bufferedResponse struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (b *bufferedResponse) WriteHeader(status int) {
	b.status = status
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}
