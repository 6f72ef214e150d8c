package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/courtside/fastbreak/pkg/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request counts and latency per endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)

		next(rw, r)

		metrics.RecordHTTPRequest(endpoint, strconv.Itoa(rw.statusCode))
		metrics.ObserveHTTPRequestDuration(endpoint, time.Since(start))
	}
}
