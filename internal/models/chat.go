package models

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string         `json:"message" validate:"required"`
	Context map[string]any `json:"context,omitempty"`
}

// Usage carries upstream token accounting
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// ChatResponse is the success body of POST /api/chat
type ChatResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
}
