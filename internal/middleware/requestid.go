package middleware

import (
	"net/http"

	"github.com/benvon/todo-assistant/internal/request"
	"github.com/google/uuid"
)

// maxRequestIDLength bounds caller-supplied request IDs
const maxRequestIDLength = 128

// RequestID attaches a request ID to the context and echoes it in the response.
// A well-formed incoming X-Request-ID is reused, otherwise a UUID is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(request.RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		w.Header().Set(request.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(request.WithRequestID(r.Context(), id)))
	})
}

// validRequestID accepts 1..maxRequestIDLength bytes of printable, non-space ASCII.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
