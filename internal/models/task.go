package models

import "encoding/json"

// MaxUniqueTasks is the number of distinct task descriptions an extraction may return.
const MaxUniqueTasks = 5

// TaskExtractionRequest is the body of POST /api/ai-tasks. Message may be empty.
type TaskExtractionRequest struct {
	Message string `json:"message"`
}

// ExtractedTask is one concrete occurrence of a task. Field names are capitalised on the wire.
type ExtractedTask struct {
	Task     string `json:"Task" validate:"required"`
	Date     string `json:"Date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"Time" validate:"required,datetime=15:04"`
	Duration string `json:"Duration,omitempty"`
}

// TaskExtractionResponse is the success body of POST /api/ai-tasks.
// Tasks holds the decoded array elements exactly as the model produced them.
type TaskExtractionResponse struct {
	Tasks []json.RawMessage `json:"tasks"`
}

// DecodeTasks decodes the raw elements into ExtractedTask values.
func (r *TaskExtractionResponse) DecodeTasks() ([]ExtractedTask, error) {
	tasks := make([]ExtractedTask, 0, len(r.Tasks))
	for _, raw := range r.Tasks {
		var task ExtractedTask
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// UniqueTaskNames returns the distinct Task descriptions in order of first appearance.
func UniqueTaskNames(tasks []ExtractedTask) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range tasks {
		if seen[t.Task] {
			continue
		}
		seen[t.Task] = true
		names = append(names, t.Task)
	}
	return names
}
