package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/openai/openai-go/v3"
)

// Kind classifies failures into the service's error taxonomy
type Kind int

const (
	// KindService is the catch-all for remote or internal failures
	KindService Kind = iota
	// KindValidation means the caller's input is missing or malformed
	KindValidation
	// KindAuth means the remote credential was rejected
	KindAuth
	// KindRateLimit means the remote quota or rate limit was exceeded
	KindRateLimit
	// KindParse means the model reply could not be extracted as a JSON array
	KindParse
)

// Caller-facing messages
const (
	MsgMessageRequired = "Message is required"
	MsgInvalidBody     = "Invalid request body"
	MsgInvalidAPIKey   = "Invalid API key configuration"
	MsgRateLimited     = "Rate limit exceeded. Please try again later."
	MsgServiceFailure  = models.MsgInternalError
	MsgParseFailure    = "Failed to parse tasks"
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindAuth:
		return "auth_error"
	case KindRateLimit:
		return "rate_limit_error"
	case KindParse:
		return "parse_error"
	default:
		return "service_error"
	}
}

// HTTPStatus maps a Kind to the response status code
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindParse:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to return to callers; Raw holds
// the unparsed model text for parse failures.
type Error struct {
	Kind    Kind
	Message string
	Raw     string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports bad caller input
func NewValidationError(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Message: message, Err: cause}
}

// NewParseError reports a model reply that could not be turned into tasks
func NewParseError(raw string, cause error) *Error {
	return &Error{Kind: KindParse, Message: MsgParseFailure, Raw: raw, Err: cause}
}

// KindOf returns the Kind of err, or KindService when err is not classified.
func KindOf(err error) Kind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindService
}

// Classify maps a remote-model failure onto the taxonomy. Typed SDK errors are
// matched by status code first; anything else falls back to matching the error
// text ("API key" case-sensitive, "rate limit" case-insensitive), which can
// misclassify unrelated errors that happen to mention either phrase.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Message: MsgInvalidAPIKey, Err: err}
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimit, Message: MsgRateLimited, Err: err}
		}
	}

	text := err.Error()
	switch {
	case strings.Contains(text, "API key"):
		return &Error{Kind: KindAuth, Message: MsgInvalidAPIKey, Err: err}
	case strings.Contains(strings.ToLower(text), "rate limit"):
		return &Error{Kind: KindRateLimit, Message: MsgRateLimited, Err: err}
	default:
		return &Error{Kind: KindService, Message: MsgServiceFailure, Err: err}
	}
}
