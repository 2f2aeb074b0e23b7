package models

// Messages for failures raised by the HTTP layer before a request reaches a handler
const (
	MsgInternalError        = "An error occurred while processing your request"
	MsgBodyTooLarge         = "Request body too large"
	MsgUnsupportedMediaType = "Content-Type must be application/json"
	MsgNotFound             = "Not found"
	MsgMethodNotAllowed     = "Method not allowed"
)

// ErrorResponse is the body of every failed request. Raw carries the unparsed
// model reply when task extraction cannot be decoded.
type ErrorResponse struct {
	Error string  `json:"error"`
	Raw   *string `json:"raw,omitempty"`
}
