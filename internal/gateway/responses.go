package gateway

import (
	"bytes"
	"encoding/json"
)

// every gateway endpoint answers with the same envelope
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// some categories return a bare array in data, others wrap it in an object
// keyed by the category (or "devices"/"items"). normalizeList resolves either
// shape to the array, falling back to an empty list on anything unexpected,
// so gateway quirks never propagate past this package.
func normalizeList(data json.RawMessage, wrapperKeys ...string) json.RawMessage {
	empty := json.RawMessage("[]")

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return empty
	}

	if trimmed[0] == '[' {
		return trimmed
	}

	if trimmed[0] == '{' {
		wrapped := map[string]json.RawMessage{}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return empty
		}
		for _, key := range wrapperKeys {
			inner := bytes.TrimSpace(wrapped[key])
			if len(inner) > 0 && inner[0] == '[' {
				return inner
			}
		}
	}

	return empty
}
