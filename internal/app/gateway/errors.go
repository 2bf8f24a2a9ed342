package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

// Error is a non-2xx backend response or a transport failure (Status 0).
type Error struct {
	Status  int
	Message string
	Body    []byte
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend request failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// classify maps a status code onto the shared error kinds.
func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return models.ErrUnauthenticated
	case status == http.StatusForbidden:
		return models.ErrForbidden
	case status == http.StatusNotFound:
		return models.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return models.ErrValidation
	case status >= 500:
		return models.ErrServer
	default:
		return models.ErrUnexpectedStatus
	}
}

// extractMessage pulls a human message out of an error body: a JSON
// "message", "title" (problem details) or "error" field, a bare JSON
// string, or the body text itself.
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"message", "Message", "title", "error"} {
			if s, ok := fields[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}

	if strings.HasPrefix(text, "<") || strings.HasPrefix(text, "[") {
		return ""
	}
	const maxLen = 200
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}

// StatusOf returns the HTTP status of a gateway failure, or 0.
func StatusOf(err error) int {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Status
	}
	return 0
}

// MessageOf returns the backend's message for err, or fallback.
func MessageOf(err error, fallback string) string {
	var gerr *Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	return fallback
}
