package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()
}

// ValidateChatRequest checks a decoded chat request and returns a caller-facing error.
func ValidateChatRequest(req *models.ChatRequest) error {
	if err := Validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Field() == "Message" {
					return errors.New("Message is required")
				}
			}
		}
		return fmt.Errorf("invalid chat request: %w", err)
	}
	return nil
}

// ValidateTasks checks every extracted task against the ExtractedTask schema.
// The returned error names the first offending element.
func ValidateTasks(tasks []models.ExtractedTask) error {
	for i := range tasks {
		if err := Validate.Struct(&tasks[i]); err != nil {
			return fmt.Errorf("task %d: %s", i, describe(err))
		}
	}
	return nil
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
