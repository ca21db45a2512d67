package apierror

import (
	"fmt"
	"strings"
)

type APIError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Details    string   `json:"details,omitempty"`
	Messages   []string `json:"messages,omitempty"`
	HTTPStatus int      `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if len(e.Messages) > 0 {
		return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Messages, "; "))
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Validation builds an error carrying the flattened field messages extracted
// from an upstream validation-errors body.
func Validation(messages []string, status int) *APIError {
	message := "Validation failed"
	if len(messages) > 0 {
		message = messages[0]
	}

	return &APIError{
		Code:       "VALIDATION_FAILED",
		Message:    message,
		Messages:   messages,
		HTTPStatus: status,
	}
}
