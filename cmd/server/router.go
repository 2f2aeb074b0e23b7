package main

import (
	"encoding/json"
	"net/http"

	"github.com/benvon/todo-assistant/internal/handlers"
	"github.com/benvon/todo-assistant/internal/middleware"
	"github.com/benvon/todo-assistant/internal/models"
	"github.com/benvon/todo-assistant/internal/services/ai"
	"github.com/benvon/todo-assistant/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

type routerConfig struct {
	allowedOrigins []string
	enableHSTS     bool
	tracing        bool
	logger         *zap.Logger
	metrics        *telemetry.Metrics
	assistant      *ai.Assistant
}

// newRouter wires the middleware chain and the /api routes. gorilla/mux runs
// middleware in registration order, first registered outermost, and only for
// matched routes.
func newRouter(rc routerConfig) *mux.Router {
	log := rc.logger
	if log == nil {
		log = zap.NewNop()
	}

	r := mux.NewRouter()

	if rc.tracing {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(rc.enableHSTS))
	r.Use(middleware.CORS(rc.allowedOrigins, log))
	r.Use(middleware.Metrics(rc.metrics))
	r.Use(middleware.Logging(log))
	r.Use(middleware.Audit(log))
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize, log))
	r.Use(middleware.ContentType(log))

	// Catch-all OPTIONS so preflight requests match a route and pass through CORS.
	// Registered ahead of /api, whose method-mismatch handler would otherwise
	// answer preflights for its own paths with a 405.
	r.MatcherFunc(isOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	notFound := jsonError(http.StatusNotFound, models.MsgNotFound)
	methodNotAllowed := jsonError(http.StatusMethodNotAllowed, models.MsgMethodNotAllowed)

	// A subrouter resolves its own misses; without these a method mismatch on
	// /api/chat falls out of it as a plain not-found.
	api := r.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = methodNotAllowed
	handlers.NewChatHandler(rc.assistant, log).RegisterRoutes(api)
	handlers.NewTaskHandler(rc.assistant, log).RegisterRoutes(api)
	handlers.NewHealthHandler(telemetry.ServiceName, telemetry.ServiceVersion).RegisterRoutes(api)
	handlers.NewOpenAPIHandler().RegisterRoutes(api)

	if rc.metrics != nil {
		r.Handle("/metrics", rc.metrics.Handler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed

	return r
}

func isOptions(r *http.Request, _ *mux.RouteMatch) bool {
	return r.Method == http.MethodOptions
}

// jsonError keeps unmatched requests in the {"error": ...} shape; mux skips
// the middleware chain for them.
func jsonError(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
	})
}
