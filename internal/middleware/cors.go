package middleware

import (
	"net/http"

	"github.com/benvon/todo-assistant/internal/request"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// DefaultCORSMaxAge caches preflight results for 24 hours
const DefaultCORSMaxAge = 86400

// CORS wraps rs/cors. An origin of "*" allows every origin; credentials are
// never allowed because the service has no notion of a user.
func CORS(allowedOrigins []string, logger *zap.Logger) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	logger.Info("cors_configured", zap.Strings("allowed_origins", allowedOrigins))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", request.RequestIDHeader},
		ExposedHeaders: []string{request.RequestIDHeader},
		MaxAge:         DefaultCORSMaxAge,
	})
	return c.Handler
}
