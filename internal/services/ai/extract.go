package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoJSONArray is returned when the text has no '[' ... ']' span to decode.
var ErrNoJSONArray = errors.New("no JSON array found in model reply")

// ExtractJSONArray pulls a JSON array out of surrounding prose by slicing from the
// first '[' to the last ']' and decoding that span. It is not a bracket-matching
// scan: an earlier '[' in the prose or a later ']' after the array widens the
// slice and usually makes it fail to decode. Elements are returned undecoded.
func ExtractJSONArray(text string) ([]json.RawMessage, error) {
	span, err := bracketSpan(text)
	if err != nil {
		return nil, err
	}
	return decodeArray(span)
}

// ExtractJSONArrayWithRepair behaves like ExtractJSONArray but, when the bracket
// span does not decode, runs it through jsonrepair and tries once more.
func ExtractJSONArrayWithRepair(text string) ([]json.RawMessage, error) {
	span, err := bracketSpan(text)
	if err != nil {
		return nil, err
	}
	items, decodeErr := decodeArray(span)
	if decodeErr == nil {
		return items, nil
	}
	repaired, err := jsonrepair.JSONRepair(span)
	if err != nil {
		return nil, fmt.Errorf("%w (repair failed: %v)", decodeErr, err)
	}
	items, err = decodeArray(repaired)
	if err != nil {
		return nil, fmt.Errorf("%w (after repair: %v)", decodeErr, err)
	}
	return items, nil
}

func bracketSpan(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 {
		return "", ErrNoJSONArray
	}
	if end < start {
		return "", fmt.Errorf("%w: last ']' precedes first '['", ErrNoJSONArray)
	}
	return text[start : end+1], nil
}

func decodeArray(span string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return nil, fmt.Errorf("failed to decode task array: %w", err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}
