package response

import (
	"encoding/json"
	"strings"
)

// Envelope represents the enveloped error contract some backends return.
type Envelope struct {
	Error *envelopeError `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// failure covers the plain {"message": ...} shape, where message may be a
// string or a list of validation messages.
type failure struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// ErrorMessage extracts the backend supplied message from an error body.
// It returns an empty string when the body carries none.
func ErrorMessage(body []byte) string {
	body = trim(body)
	if len(body) == 0 {
		return ""
	}

	var f failure
	if err := json.Unmarshal(body, &f); err != nil {
		return ""
	}
	if msg := decodeMessage(f.Message); msg != "" {
		return msg
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return strings.TrimSpace(env.Error.Message)
	}
	return ""
}

func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		parts := make([]string, 0, len(many))
		for _, m := range many {
			if m = strings.TrimSpace(m); m != "" {
				parts = append(parts, m)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// Decode unmarshals a success body into out. Empty bodies are accepted.
func Decode(body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	body = trim(body)
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func trim(body []byte) []byte {
	return []byte(strings.TrimSpace(string(body)))
}
