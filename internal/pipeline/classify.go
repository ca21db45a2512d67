package pipeline

import (
	"encoding/json"
	"sort"
)

const msgUnexpectedError = "An unexpected error occurred."

// errorBody holds every field shape the backend is known to put in an error
// response. Classification consults them in a fixed priority order; the
// order is part of the contract and must not be reordered.
type errorBody struct {
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Title   string              `json:"title"`
}

// extractMessages flattens an error body into user-visible messages.
// Priority: validation-errors map, then message, detail, title, and finally
// a generic fallback. Lower-priority fields are never consulted once one
// matches. validation reports whether the errors map was the source.
func extractMessages(body []byte) (messages []string, validation bool) {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return []string{msgUnexpectedError}, false
	}

	if len(parsed.Errors) > 0 {
		// Map iteration order is randomized in Go; sort the field names so
		// users see the same message order on every failure.
		fields := make([]string, 0, len(parsed.Errors))
		for field := range parsed.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			messages = append(messages, parsed.Errors[field]...)
		}
		if len(messages) > 0 {
			return messages, true
		}
	}

	switch {
	case parsed.Message != "":
		return []string{parsed.Message}, false
	case parsed.Detail != "":
		return []string{parsed.Detail}, false
	case parsed.Title != "":
		return []string{parsed.Title}, false
	}

	return []string{msgUnexpectedError}, false
}

// successMessage returns the message field of a 2xx body, if present.
func successMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}

	return parsed.Message
}
