package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractAction pulls the first complete top-level JSON object out of model
// text. Models frequently wrap the action in prose or a code fence, so the
// scan starts at each '{' until one decodes cleanly.
func ExtractAction(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &EmptyResponseError{ModelError: ModelError{Message: "model produced no content"}}
	}

	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != '{' {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(trimmed[i:])))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		return raw, nil
	}

	return nil, &MalformedResponseError{ModelError: ModelError{
		Message: "no JSON action object found in model response",
	}}
}
