package validation

import (
	"strings"
	"testing"

	"github.com/benvon/todo-assistant/internal/models"
)

func TestValidateChatRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     models.ChatRequest
		wantErr string
	}{
		{
			name: "valid message",
			req:  models.ChatRequest{Message: "plan my week"},
		},
		{
			name:    "empty message",
			req:     models.ChatRequest{Message: ""},
			wantErr: "Message is required",
		},
		{
			name:    "empty message with context",
			req:     models.ChatRequest{Context: map[string]any{"todos": []any{"a"}}},
			wantErr: "Message is required",
		},
		{
			name: "whitespace message is accepted",
			req:  models.ChatRequest{Message: "  "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateChatRequest(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tasks   []models.ExtractedTask
		wantErr string
	}{
		{
			name: "valid tasks",
			tasks: []models.ExtractedTask{
				{Task: "take out the trash", Date: "2024-01-01", Time: "19:30"},
				{Task: "gym", Date: "2024-01-05", Time: "06:00", Duration: "1 hour"},
			},
		},
		{
			name:    "missing task",
			tasks:   []models.ExtractedTask{{Date: "2024-01-01", Time: "19:30"}},
			wantErr: "task 0: Task failed required",
		},
		{
			name: "relative date",
			tasks: []models.ExtractedTask{
				{Task: "a", Date: "2024-01-01", Time: "10:00"},
				{Task: "b", Date: "next Monday", Time: "10:00"},
			},
			wantErr: "task 1: Date failed datetime=2006-01-02",
		},
		{
			name:    "twelve hour time",
			tasks:   []models.ExtractedTask{{Task: "a", Date: "2024-01-01", Time: "7:30pm"}},
			wantErr: "Time failed datetime=15:04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTasks(tt.tasks)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
