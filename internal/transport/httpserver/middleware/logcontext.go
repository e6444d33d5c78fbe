package middleware

import (
	"net/http"

	"family-dues-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// LogContext puts the chi request id into the request context so handler
// logs can be matched with the access log line.
func LogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logger.ContextWith(r.Context(), "request_id", id))
		}
		next.ServeHTTP(w, r)
	})
}
