package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("authsdk: invalid credentials")

	// ErrNoSession is returned when no live session exists for a token.
	ErrNoSession = errors.New("authsdk: no session")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("authsdk: service unavailable")
)

// APIError is a structured error response from the backend auth service.
// Its message is for server-side logs only and must never be echoed to
// clients.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Message    string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps credential-shaped failures onto the package sentinels so
// callers can branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return ErrInvalidCredentials
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		return nil
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
