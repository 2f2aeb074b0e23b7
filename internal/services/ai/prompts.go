package ai

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChatSystemMessage defines the assistant's role for conversational requests.
const ChatSystemMessage = `You are an AI assistant for a todo application. Your role is to help users manage their tasks and schedule effectively. You can:
1. Help create and organize todos
2. Provide scheduling suggestions
3. Help prioritize tasks
4. Give productivity tips
5. Help break down complex tasks
6. Suggest task categories and tags

Always be concise, practical, and focused on helping users manage their tasks better.`

// TaskExtractionSystemMessage frames the task extraction conversation.
const TaskExtractionSystemMessage = "You are a helpful assistant that extracts tasks from user messages and returns them as a JSON array."

// Chat sampling parameters
const (
	ChatTemperature      = 0.7
	ChatMaxTokens        = 250
	ChatPresencePenalty  = 0.6
	ChatFrequencyPenalty = 0.3
)

// Task extraction sampling parameters
const (
	TaskTemperature = 0.2
	TaskMaxTokens   = 2048
)

// DateLayout is the calendar date format used in prompts and extracted tasks.
const DateLayout = "2006-01-02"

// BuildChatMessages assembles the system instruction, the optional caller
// context (serialised as JSON) and the user's message, in that order.
func BuildChatMessages(message string, userContext map[string]any) ([]ChatMessage, error) {
	messages := []ChatMessage{{Role: RoleSystem, Content: ChatSystemMessage}}

	if len(userContext) > 0 {
		encoded, err := json.Marshal(userContext)
		if err != nil {
			return nil, fmt.Errorf("failed to encode chat context: %w", err)
		}
		messages = append(messages, ChatMessage{
			Role:    RoleSystem,
			Content: "Current context: " + string(encoded),
		})
	}

	messages = append(messages, ChatMessage{Role: RoleUser, Content: message})
	return messages, nil
}

// BuildTaskExtractionMessages returns the two-message conversation for task extraction.
func BuildTaskExtractionMessages(message string, today time.Time) []ChatMessage {
	return []ChatMessage{
		{Role: RoleSystem, Content: TaskExtractionSystemMessage},
		{Role: RoleUser, Content: BuildTaskExtractionPrompt(message, today)},
	}
}

// BuildTaskExtractionPrompt renders the extraction instructions around message,
// anchoring relative dates to today.
func BuildTaskExtractionPrompt(message string, today time.Time) string {
	return fmt.Sprintf(taskExtractionTemplate, today.Format(DateLayout), message)
}

const taskExtractionTemplate = `
You are a task extraction assistant.
Given a message, extract ALL individual task instances as a JSON array.
If the message describes a recurring task (e.g., "every Monday and Wednesday at 7:30pm for a week"),
expand it into a separate object for each occurrence, with the correct date and time for each.
If multiple days are specified (e.g., every Monday and Wednesday), expand into a separate object for each occurrence on each day.
If the message contains multiple different tasks, extract and expand each one as described above.
Each object should have: Task (the task description), Date (YYYY-MM-DD), Time (HH:MM), and Duration (if present).
For each task, extract the actual values from the message. Do not use null, empty, or placeholder values.

Always use the next upcoming dates based on today's date (%[1]s).
If the month or year is not specified, use the current month and year.
If the message contains more than 5 unique tasks, only return the first 5 unique tasks (by task description), but include all their recurrences.

Good Example input: "Remind me to take out the trash every Monday at 7:30pm for a month, call mom every Wednesday at 5pm for a month, study math every Tuesday at 4pm for a month, go to the gym every Friday at 6am for a month, walk the dog every Saturday at 8am for a month, and read a book every Sunday at 9pm for a month"
Good Example output: [
  {"Task": "take out the trash", ...},
  {"Task": "call mom", ...},
  {"Task": "study math", ...},
  {"Task": "go to the gym", ...},
  {"Task": "walk the dog", ...}
  // No "read a book" tasks included, since that's the 6th unique task
]

Bad Example output: [
  {"Task": null, "Date": null, "Time": null, "Duration": null}
]

Message: "%[2]s"

ONLY return the JSON array. Do not use null, empty, or placeholder values.
`
