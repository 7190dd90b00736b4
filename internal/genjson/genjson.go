// Package genjson decodes JSON payloads returned by generative model
// endpoints. Model output is frequently wrapped in a markdown code fence or
// surrounded by prose; every call site goes through the same strip + extract
// + unmarshal sequence instead of doing its own string surgery.
package genjson

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmptyPayload = errors.New("genjson: empty payload")

// Decode extracts the JSON fragment from raw model output and unmarshals it
// into T. Fence stripping is idempotent: already-clean JSON passes through
// unchanged.
func Decode[T any](raw string) (T, error) {
	var zero T
	cleaned := ExtractFragment(raw)
	if cleaned == "" {
		return zero, ErrEmptyPayload
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

// ExtractFragment trims a markdown code fence and returns the outermost JSON
// object or array found in the text.
func ExtractFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
