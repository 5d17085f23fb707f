package httpapi

import (
	"net/http"
	"time"

	"github.com/ford-at-home/storygen-sub000/internal/observability"
)

// loggingMiddleware logs one line per request with method, path, status,
// and latency, grounded on the teacher's internal/auth.Middleware
// func(http.Handler) http.Handler shape, generalized from auth attachment
// to request logging.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		observability.LoggerWithTrace(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
