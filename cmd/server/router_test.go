package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/benvon/todo-assistant/internal/request"
	"github.com/benvon/todo-assistant/internal/services/ai"
	"github.com/benvon/todo-assistant/internal/telemetry"
)

// newUpstream fakes the chat completions endpoint with a fixed status and reply content.
func newUpstream(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = io.WriteString(w, `{"error":{"message":"upstream said no","type":"error"}}`)
			return
		}
		reply, _ := json.Marshal(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1704067200,
			"model":   "gpt-test",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8},
		})
		_, _ = w.Write(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, upstream *httptest.Server, metrics *telemetry.Metrics) http.Handler {
	t.Helper()
	provider, err := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:     "sk-test",
		BaseURL:    upstream.URL + "/v1/",
		HTTPClient: upstream.Client(),
		Metrics:    metrics,
	})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	assistant := ai.NewAssistant(provider, ai.WithClock(func() time.Time {
		return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	}))
	return newRouter(routerConfig{
		allowedOrigins: []string{"*"},
		metrics:        metrics,
		assistant:      assistant,
	})
}

func serve(h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func TestRouter_Chat(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newUpstream(t, http.StatusOK, "Do the report first."), nil)
	w := serve(router, http.MethodPost, "/api/chat", `{"message":"What first?"}`, jsonHeaders)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Response != "Do the report first." || resp.Model != "gpt-test" || resp.Usage.TotalTokens != 8 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if w.Header().Get(request.RequestIDHeader) == "" {
		t.Error("Expected a request ID header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Expected security headers")
	}
}

func TestRouter_AITasks(t *testing.T) {
	t.Parallel()

	reply := "```json\n[{\"Task\":\"call mom\",\"Date\":\"2024-01-03\",\"Time\":\"17:00\"}]\n```"
	router := newTestRouter(t, newUpstream(t, http.StatusOK, reply), nil)
	w := serve(router, http.MethodPost, "/api/ai-tasks", `{"message":"call mom on wednesday at 5pm"}`, jsonHeaders)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	want := `{"tasks":[{"Task":"call mom","Date":"2024-01-03","Time":"17:00"}]}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestRouter_UpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		status     int
		wantStatus int
		wantError  string
	}{
		{name: "chat unauthorized", path: "/api/chat", status: http.StatusUnauthorized, wantStatus: http.StatusUnauthorized, wantError: ai.MsgInvalidAPIKey},
		{name: "chat rate limited", path: "/api/chat", status: http.StatusTooManyRequests, wantStatus: http.StatusTooManyRequests, wantError: ai.MsgRateLimited},
		{name: "chat server error", path: "/api/chat", status: http.StatusBadGateway, wantStatus: http.StatusInternalServerError, wantError: ai.MsgServiceFailure},
		{name: "tasks unauthorized", path: "/api/ai-tasks", status: http.StatusUnauthorized, wantStatus: http.StatusUnauthorized, wantError: ai.MsgInvalidAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t, newUpstream(t, tt.status, ""), nil)
			w := serve(router, http.MethodPost, tt.path, `{"message":"hi"}`, jsonHeaders)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, body.Error)
			}
		})
	}
}

func TestRouter_RequestGuards(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newUpstream(t, http.StatusOK, "unused"), nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		headers    map[string]string
		wantStatus int
		wantError  string
	}{
		{name: "missing content type", method: http.MethodPost, path: "/api/chat", body: `{"message":"hi"}`, wantStatus: http.StatusUnsupportedMediaType, wantError: models.MsgUnsupportedMediaType},
		{name: "oversized body", method: http.MethodPost, path: "/api/chat", body: `{"message":"` + strings.Repeat("a", 1<<20) + `"}`, headers: jsonHeaders, wantStatus: http.StatusRequestEntityTooLarge, wantError: models.MsgBodyTooLarge},
		{name: "trailing content", method: http.MethodPost, path: "/api/chat", body: `{"message":"hi"} junk`, headers: jsonHeaders, wantStatus: http.StatusBadRequest, wantError: ai.MsgInvalidBody},
		{name: "unknown api route", method: http.MethodGet, path: "/api/nope", wantStatus: http.StatusNotFound, wantError: models.MsgNotFound},
		{name: "unknown route", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound, wantError: models.MsgNotFound},
		{name: "GET on chat", method: http.MethodGet, path: "/api/chat", wantStatus: http.StatusMethodNotAllowed, wantError: models.MsgMethodNotAllowed},
		{name: "GET on ai-tasks", method: http.MethodGet, path: "/api/ai-tasks", wantStatus: http.StatusMethodNotAllowed, wantError: models.MsgMethodNotAllowed},
		{name: "DELETE on health", method: http.MethodDelete, path: "/api/health", wantStatus: http.StatusMethodNotAllowed, wantError: models.MsgMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(router, tt.method, tt.path, tt.body, tt.headers)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON error body, got Content-Type %q", ct)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode error body %q: %v", w.Body.String(), err)
			}
			if body.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, body.Error)
			}
		})
	}
}

func TestRouter_Preflight(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newUpstream(t, http.StatusOK, "unused"), nil)

	tests := []struct {
		name           string
		path           string
		requestHeaders string
		wantAllowed    string
	}{
		{name: "ai-tasks", path: "/api/ai-tasks", requestHeaders: "content-type", wantAllowed: "*"},
		{name: "chat", path: "/api/chat", requestHeaders: "content-type,x-request-id", wantAllowed: "*"},
		{name: "unknown path", path: "/api/nope", requestHeaders: "content-type", wantAllowed: "*"},
		// rs/cors only accepts the lowercase header list browsers send
		{name: "capitalised request headers", path: "/api/chat", requestHeaders: "Content-Type", wantAllowed: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(router, http.MethodOptions, tt.path, "", map[string]string{
				"Origin":                         "http://todo.example",
				"Access-Control-Request-Method":  http.MethodPost,
				"Access-Control-Request-Headers": tt.requestHeaders,
			})

			if w.Code != http.StatusNoContent {
				t.Errorf("Expected status 204, got %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowed {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllowed)
			}
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()

	metrics := telemetry.NewMetrics()
	router := newTestRouter(t, newUpstream(t, http.StatusOK, "[]"), metrics)

	w := serve(router, http.MethodGet, "/api/health", "", nil)
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"healthy","service":"todo-ai-assistant","version":"1.0.0"}` {
		t.Errorf("unexpected health body: %s", got)
	}

	serve(router, http.MethodPost, "/api/ai-tasks", `{"message":""}`, jsonHeaders)

	w = serve(router, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /metrics, got %d", w.Code)
	}
	for _, want := range []string{
		`http_request_duration_seconds_count{method="GET",route="/api/health",status="200"} 1`,
		`http_request_duration_seconds_count{method="POST",route="/api/ai-tasks",status="200"} 1`,
		`llm_request_duration_seconds_count{model="gpt-4-turbo",operation="extract_tasks",outcome="success"} 1`,
	} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("Expected exposition to contain %q", want)
		}
	}
}

func TestRouter_MetricsDisabled(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, newUpstream(t, http.StatusOK, "unused"), nil)
	if w := serve(router, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when metrics are disabled, got %d", w.Code)
	}
}
