package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrNoRefreshToken     = errors.New("no refresh token")
)

// APIError is the typed form of a non-2xx backend response, produced once at
// the decode boundary so callers never parse transport shapes themselves.
// Field-level validation messages pass through unmodified for display.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports whether err carries a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// decodeAPIError builds an APIError from a backend error body. The backend
// answers either {"message": ...} / {"detail": ...} or a map of field names
// to validation messages.
func decodeAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Message = string(body)
		return apiErr
	}

	for key, value := range raw {
		switch key {
		case "message", "detail", "error":
			var msg string
			if err := json.Unmarshal(value, &msg); err == nil && apiErr.Message == "" {
				apiErr.Message = msg
			}
		default:
			var msgs []string
			if err := json.Unmarshal(value, &msgs); err == nil {
				if apiErr.Fields == nil {
					apiErr.Fields = map[string][]string{}
				}
				apiErr.Fields[key] = msgs
			}
		}
	}
	return apiErr
}
