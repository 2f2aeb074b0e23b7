package ai

import (
	"context"

	"github.com/benvon/todo-assistant/internal/models"
)

// Message roles understood by the remote model
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Operation names used for logging, tracing and metrics
const (
	OperationChat         = "chat"
	OperationExtractTasks = "extract_tasks"
)

// ChatMessage represents a message in a chat conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateParams are the sampling parameters for one completion.
// Nil penalties are left to the model default.
type GenerateParams struct {
	Operation        string
	Model            string
	Temperature      float64
	MaxTokens        int64
	PresencePenalty  *float64
	FrequencyPenalty *float64
}

// Completion is the remote model's reply
type Completion struct {
	Text  string
	Model string
	Usage models.Usage
}

// Generator is the remote model collaborator. Implementations perform exactly one
// upstream call per invocation and never retry.
type Generator interface {
	Generate(ctx context.Context, messages []ChatMessage, params GenerateParams) (*Completion, error)
}

// Float returns a pointer to v, for optional GenerateParams fields.
func Float(v float64) *float64 {
	return &v
}
