package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/todo-assistant/internal/logger"
	"github.com/benvon/todo-assistant/internal/models"
	"github.com/benvon/todo-assistant/internal/request"
	"github.com/benvon/todo-assistant/internal/telemetry"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout bounds a single upstream call; it is the only timeout applied
	DefaultTimeout = 60 * time.Second

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

// ErrMissingAPIKey is returned by NewOpenAIProvider when no credential is supplied.
var ErrMissingAPIKey = errors.New("openai api key is required")

// OpenAIConfig configures an OpenAIProvider
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
	DebugMode  bool
	Metrics    *telemetry.Metrics
}

// OpenAIProvider implements Generator using OpenAI's chat completions API
type OpenAIProvider struct {
	client    openai.Client
	logger    *zap.Logger
	debugMode bool
	metrics   *telemetry.Metrics
}

// NewOpenAIProvider creates a provider bound to cfg.APIKey. SDK retries are
// disabled so every Generate call is exactly one upstream request.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:    client,
		logger:    log,
		debugMode: cfg.DebugMode,
		metrics:   cfg.Metrics,
	}, nil
}

// Generate sends messages to the chat completions endpoint and returns the first choice.
func (p *OpenAIProvider) Generate(ctx context.Context, messages []ChatMessage, params GenerateParams) (*Completion, error) {
	requestID := request.RequestIDFromContext(ctx)

	ctx, span := telemetry.Tracer().Start(ctx, "ai.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("ai.operation", params.Operation),
			attribute.String("ai.model", params.Model),
			attribute.Int("ai.message_count", len(messages)),
		),
	)
	defer span.End()

	req := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(params.Model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(params.Temperature),
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(params.MaxTokens)
	}
	if params.PresencePenalty != nil {
		req.PresencePenalty = openai.Float(*params.PresencePenalty)
	}
	if params.FrequencyPenalty != nil {
		req.FrequencyPenalty = openai.Float(*params.FrequencyPenalty)
	}

	if p.debugMode {
		previews := make([]string, 0, len(messages))
		for _, msg := range messages {
			previews = append(previews, logger.Preview(msg.Content, false))
		}
		p.logger.Debug("llm_api_request",
			zap.String("operation", params.Operation),
			zap.String("model", params.Model),
			zap.Int("message_count", len(messages)),
			zap.Strings("message_previews", previews),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)

	if err != nil {
		kind := Classify(err).Kind
		p.metrics.ObserveLLM(params.Operation, params.Model, kind.String(), latency)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		p.logger.Warn("llm_api_error",
			zap.String("operation", params.Operation),
			zap.String("model", params.Model),
			zap.String("error_kind", kind.String()),
			zap.String("error", logger.SanitizeError(err)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
		return nil, fmt.Errorf("failed to generate %s completion: %w", params.Operation, err)
	}

	if len(resp.Choices) == 0 {
		p.metrics.ObserveLLM(params.Operation, params.Model, KindService.String(), latency)
		span.SetStatus(codes.Error, ErrNoChoicesInResponse)
		return nil, errors.New(ErrNoChoicesInResponse)
	}

	completion := &Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: usageFromResponse(resp.Usage),
	}

	p.metrics.ObserveLLM(params.Operation, params.Model, "success", latency)
	p.metrics.AddUsage(params.Operation, completion.Usage)
	span.SetAttributes(
		attribute.String("ai.response_model", completion.Model),
		attribute.Int64("ai.usage.prompt_tokens", completion.Usage.PromptTokens),
		attribute.Int64("ai.usage.completion_tokens", completion.Usage.CompletionTokens),
	)

	if p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", params.Operation),
			zap.String("model", completion.Model),
			zap.Int("response_length", len(completion.Text)),
			zap.String("response_preview", logger.Preview(completion.Text, true)),
			zap.Int64("total_tokens", completion.Usage.TotalTokens),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return completion, nil
}

func toOpenAIMessages(messages []ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func usageFromResponse(u openai.CompletionUsage) models.Usage {
	return models.Usage{
		PromptTokens:     nonNegative(u.PromptTokens),
		CompletionTokens: nonNegative(u.CompletionTokens),
		TotalTokens:      nonNegative(u.TotalTokens),
	}
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
