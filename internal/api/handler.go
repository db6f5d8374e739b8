package api

import (
	"log"
	"net/http"

	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
)

// Handler is an http.Handler that reports failures as error returns; the
// adapter renders them through the shared error body.
type Handler func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP implements http.Handler.
func (handler Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := handler(w, r); err != nil {
		WriteError(w, r, err)
	}
}

// RecovererMiddleware converts panics into 500 responses, keeping the
// request ID in the log line so the failing call can be traced.
func RecovererMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf("panic recovered [%s] %s %s: %v", GetRequestID(r), r.Method, r.URL.Path, recovered)
				WriteError(w, r, apperrors.NewInternalError("Internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
