package handlers

import (
	"context"
	"net/http"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TaskExtractor turns free text into task occurrences
type TaskExtractor interface {
	ExtractTasks(ctx context.Context, req *models.TaskExtractionRequest) (*models.TaskExtractionResponse, error)
}

// TaskHandler handles AI task extraction requests
type TaskHandler struct {
	extractor TaskExtractor
	logger    *zap.Logger
}

// NewTaskHandler creates a new task extraction handler
func NewTaskHandler(extractor TaskExtractor, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{extractor: extractor, logger: log}
}

// RegisterRoutes registers task extraction routes
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ai-tasks", h.ExtractTasks).Methods(http.MethodPost)
}

// ExtractTasks handles POST /ai-tasks. An empty message is forwarded as-is.
func (h *TaskHandler) ExtractTasks(w http.ResponseWriter, r *http.Request) {
	var req models.TaskExtractionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	resp, err := h.extractor.ExtractTasks(r.Context(), &req)
	if err != nil {
		logFailure(h.logger, r, "task_extraction_failed", err)
		respondAIError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
