package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChatMessage is one turn of provider-neutral chat history. Role is "user"
// or "model"; each client maps it to its own wire roles.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// cleanJSON strips markdown code fences the model sometimes wraps around
// JSON output and validates the remainder.
func cleanJSON(raw string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("parse llm json failed: not valid JSON")
	}
	return json.RawMessage(cleaned), nil
}
