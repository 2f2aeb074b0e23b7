package middleware

import (
	"mime"
	"net/http"

	"github.com/benvon/todo-assistant/internal/models"
	"go.uber.org/zap"
)

// ContentType requires application/json on requests that carry a body
func ContentType(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mediaType != "application/json" {
					respondErrorJSON(w, r, http.StatusUnsupportedMediaType, models.MsgUnsupportedMediaType, logger)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
