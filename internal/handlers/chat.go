package handlers

import (
	"context"
	"net/http"

	"github.com/benvon/todo-assistant/internal/logger"
	"github.com/benvon/todo-assistant/internal/models"
	"github.com/benvon/todo-assistant/internal/request"
	"github.com/benvon/todo-assistant/internal/services/ai"
	"github.com/benvon/todo-assistant/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ChatService answers conversational messages
type ChatService interface {
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

// ChatHandler handles AI chat requests
type ChatHandler struct {
	chat   ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatService, log *zap.Logger) *ChatHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{chat: chat, logger: log}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/chat", h.Chat).Methods(http.MethodPost)
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := validation.ValidateChatRequest(&req); err != nil {
		respondAIError(w, ai.NewValidationError(err.Error(), err))
		return
	}

	resp, err := h.chat.Chat(r.Context(), &req)
	if err != nil {
		logFailure(h.logger, r, "chat_failed", err)
		respondAIError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// logFailure logs a failed assistant call. Service failures are errors, the
// rest are caller or quota problems and only warrant a warning.
func logFailure(log *zap.Logger, r *http.Request, event string, err error) {
	kind := ai.KindOf(err)
	fields := []zap.Field{
		zap.String("error_kind", kind.String()),
		zap.String("error", logger.SanitizeError(err)),
		zap.String("request_id", request.RequestIDFromContext(r.Context())),
	}
	if kind == ai.KindService {
		log.Error(event, fields...)
		return
	}
	log.Warn(event, fields...)
}
