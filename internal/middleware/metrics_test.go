package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benvon/todo-assistant/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteTemplate(t *testing.T) {
	t.Parallel()

	m := telemetry.NewMetrics()
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}).Methods(http.MethodPost)

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	}

	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 1 {
		t.Errorf("Expected one label set, got %d", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `http_request_duration_seconds_count{method="POST",route="/api/chat",status="429"} 2`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("Expected exposition to contain %q", want)
	}
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	Metrics(nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("Expected the next handler to run when metrics are disabled")
	}
}

func TestRouteTemplate_Unmatched(t *testing.T) {
	t.Parallel()

	if got := routeTemplate(httptest.NewRequest(http.MethodGet, "/", nil)); got != unmatchedRoute {
		t.Errorf("routeTemplate() = %q, want %q", got, unmatchedRoute)
	}
}
