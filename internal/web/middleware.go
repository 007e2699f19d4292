package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Joseda-hg/devtasks/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// logRequests tags every response with a request id and logs it once the
// inner handlers have run. The request is passed down unchanged so the mux
// can record the matched pattern on it.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := metrics.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", r.Pattern,
			"status", rec.Status(),
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}
