package middleware

import (
	"net/http"

	logpkg "github.com/benvon/todo-assistant/internal/logger"
	"github.com/benvon/todo-assistant/internal/request"
	"go.uber.org/zap"
)

// Audit logs responses that signal a credential or quota problem upstream.
// The service has no callers to authenticate, so a 401 or 429 here always
// means the OpenAI key was rejected or throttled.
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			var event string
			switch wrapped.statusCode {
			case http.StatusUnauthorized:
				event = "upstream_credential_rejected"
			case http.StatusTooManyRequests:
				event = "upstream_rate_limited"
			default:
				return
			}

			logger.Warn(event,
				zap.Int("status_code", wrapped.statusCode),
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("ip", logpkg.SanitizeString(request.ClientIP(r), logpkg.MaxGeneralStringLength)),
				zap.String("request_id", request.RequestIDFromContext(r.Context())),
			)
		})
	}
}
