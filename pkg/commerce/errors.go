package commerce

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is every failure the client returns. StatusCode is 0 for
// transport failures.
type APIError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("commerce: %s", e.Message)
	}
	return fmt.Sprintf("commerce: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func notFound(what string) *APIError {
	return &APIError{Message: what + " not found", StatusCode: http.StatusNotFound}
}

// IsNotFound reports a 404 from the platform.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsStaleCart reports a line-item failure caused by a cart that can no longer
// be modified (completed or in payment). The platform answers 400/422 for it.
func IsStaleCart(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	if strings.Contains(msg, "completed") || strings.Contains(msg, "payment") {
		return true
	}
	return apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnprocessableEntity
}
