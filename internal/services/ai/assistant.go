package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/todo-assistant/internal/logger"
	"github.com/benvon/todo-assistant/internal/models"
	"github.com/benvon/todo-assistant/internal/request"
	"github.com/benvon/todo-assistant/internal/telemetry"
	"github.com/benvon/todo-assistant/internal/validation"
	"go.uber.org/zap"
)

// Default model names
const (
	DefaultChatModel = "gpt-3.5-turbo"
	DefaultTaskModel = "gpt-4-turbo"
)

// Assistant turns chat and task-extraction requests into remote model calls.
// It holds no per-request state and is safe for concurrent use.
type Assistant struct {
	generator   Generator
	chatModel   string
	taskModel   string
	repairJSON  bool
	strictTasks bool
	now         func() time.Time
	logger      *zap.Logger
	metrics     *telemetry.Metrics
}

// AssistantOption configures an Assistant
type AssistantOption func(*Assistant)

// WithChatModel overrides the chat model
func WithChatModel(model string) AssistantOption {
	return func(a *Assistant) {
		if model != "" {
			a.chatModel = model
		}
	}
}

// WithTaskModel overrides the task extraction model
func WithTaskModel(model string) AssistantOption {
	return func(a *Assistant) {
		if model != "" {
			a.taskModel = model
		}
	}
}

// WithJSONRepair enables a jsonrepair pass when the extracted array does not decode.
func WithJSONRepair(enabled bool) AssistantOption {
	return func(a *Assistant) { a.repairJSON = enabled }
}

// WithStrictTaskValidation validates every extracted task and enforces the
// unique-task cap locally instead of trusting the model.
func WithStrictTaskValidation(enabled bool) AssistantOption {
	return func(a *Assistant) { a.strictTasks = enabled }
}

// WithClock sets the source of "today" for task extraction.
func WithClock(now func() time.Time) AssistantOption {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) AssistantOption {
	return func(a *Assistant) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *telemetry.Metrics) AssistantOption {
	return func(a *Assistant) { a.metrics = m }
}

// NewAssistant creates an Assistant backed by generator
func NewAssistant(generator Generator, opts ...AssistantOption) *Assistant {
	a := &Assistant{
		generator: generator,
		chatModel: DefaultChatModel,
		taskModel: DefaultTaskModel,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Chat forwards a conversational message, with optional caller context, to the model.
func (a *Assistant) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req == nil || req.Message == "" {
		return nil, NewValidationError(MsgMessageRequired, nil)
	}

	messages, err := BuildChatMessages(req.Message, req.Context)
	if err != nil {
		return nil, NewValidationError(MsgInvalidBody, err)
	}

	completion, err := a.generator.Generate(ctx, messages, GenerateParams{
		Operation:        OperationChat,
		Model:            a.chatModel,
		Temperature:      ChatTemperature,
		MaxTokens:        ChatMaxTokens,
		PresencePenalty:  Float(ChatPresencePenalty),
		FrequencyPenalty: Float(ChatFrequencyPenalty),
	})
	if err != nil {
		return nil, Classify(err)
	}

	return &models.ChatResponse{
		Response: completion.Text,
		Model:    completion.Model,
		Usage:    completion.Usage,
	}, nil
}

// ExtractTasks asks the model for a JSON array of task occurrences and pulls it
// out of the reply. A reply that cannot be decoded yields a KindParse error
// carrying the trimmed model text.
func (a *Assistant) ExtractTasks(ctx context.Context, req *models.TaskExtractionRequest) (*models.TaskExtractionResponse, error) {
	var message string
	if req != nil {
		message = req.Message
	}

	completion, err := a.generator.Generate(ctx, BuildTaskExtractionMessages(message, a.now()), GenerateParams{
		Operation:   OperationExtractTasks,
		Model:       a.taskModel,
		Temperature: TaskTemperature,
		MaxTokens:   TaskMaxTokens,
	})
	if err != nil {
		return nil, Classify(err)
	}

	text := strings.TrimSpace(completion.Text)
	a.logger.Debug("task_extraction_raw_response",
		zap.String("response_preview", logger.Preview(text, true)),
		zap.String("request_id", request.RequestIDFromContext(ctx)),
	)

	extract := ExtractJSONArray
	if a.repairJSON {
		extract = ExtractJSONArrayWithRepair
	}
	items, err := extract(text)
	if err != nil {
		return nil, a.parseFailure(ctx, text, err)
	}

	if a.strictTasks {
		items, err = enforceTaskSchema(items)
		if err != nil {
			return nil, a.parseFailure(ctx, text, err)
		}
	}

	a.metrics.RecordExtraction(len(items))
	return &models.TaskExtractionResponse{Tasks: items}, nil
}

func (a *Assistant) parseFailure(ctx context.Context, raw string, cause error) error {
	a.metrics.RecordParseFailure()
	a.logger.Warn("task_parse_failed",
		zap.String("error", logger.SanitizeError(cause)),
		zap.Int("response_length", len(raw)),
		zap.String("request_id", request.RequestIDFromContext(ctx)),
	)
	return NewParseError(raw, cause)
}

// enforceTaskSchema validates each element as an ExtractedTask and drops
// occurrences of any description beyond the first MaxUniqueTasks distinct ones.
// Retained elements keep their original encoding.
func enforceTaskSchema(items []json.RawMessage) ([]json.RawMessage, error) {
	tasks := make([]models.ExtractedTask, len(items))
	for i, raw := range items {
		if err := json.Unmarshal(raw, &tasks[i]); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
	}
	if err := validation.ValidateTasks(tasks); err != nil {
		return nil, err
	}

	allowed := make(map[string]bool)
	for _, name := range models.UniqueTaskNames(tasks) {
		if len(allowed) == models.MaxUniqueTasks {
			break
		}
		allowed[name] = true
	}

	kept := make([]json.RawMessage, 0, len(items))
	for i, task := range tasks {
		if allowed[task.Task] {
			kept = append(kept, items[i])
		}
	}
	return kept, nil
}
