package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/benvon/todo-assistant/internal/models"
	"github.com/benvon/todo-assistant/internal/services/ai"
)

// errTrailingContent rejects bodies with anything after the first JSON value
var errTrailingContent = errors.New("unexpected content after JSON body")

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSONError sends an {"error": message} response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

// respondAIError maps a classified failure onto its status code. Parse failures
// also echo the raw model text.
func respondAIError(w http.ResponseWriter, err error) {
	aiErr := ai.Classify(err)
	body := models.ErrorResponse{Error: aiErr.Message}
	if aiErr.Kind == ai.KindParse {
		raw := aiErr.Raw
		body.Raw = &raw
	}
	respondJSON(w, aiErr.Kind.HTTPStatus(), body)
}

// decodeJSONBody decodes the request body into dst and writes the error
// response itself when it cannot. It reports whether the handler may continue.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		var extra json.RawMessage
		if trailing := dec.Decode(&extra); !errors.Is(trailing, io.EOF) {
			err = errTrailingContent
			if trailing != nil {
				err = fmt.Errorf("%w: %w", errTrailingContent, trailing)
			}
		}
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, models.MsgBodyTooLarge)
			return false
		}
		respondAIError(w, ai.NewValidationError(ai.MsgInvalidBody, err))
		return false
	}
	return true
}
