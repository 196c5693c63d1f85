package tier

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidQuantity indicates a reservation for fewer than one unit
	ErrInvalidQuantity = errors.New("reservation quantity must be at least 1")
	// ErrMissingToken indicates the client was configured without an API token
	ErrMissingToken = errors.New("must provide an API token via config or the TIER_API_TOKEN environment variable")
)

// OverageCode is the stable code carried by an OverageError
const OverageCode = "overage"

// ConfigError reports a client configuration that cannot be used.
// No request is ever sent by a client that failed construction.
type ConfigError struct {
	Field string
	Err   error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("tier config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the service replies with a body that is not JSON.
// It is returned for every status code, including 2xx.
type ParseError struct {
	StatusCode int
	Body       string
	Reason     string
	Err        error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("tier: invalid JSON response (status %d): %s: %s", e.StatusCode, e.Reason, e.Body)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// APIError represents an error envelope returned by the Tier API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Header     map[string]string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tier API error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// OverageError is returned by Reserve when overage is disallowed and the
// whole request landed beyond the plan limit. The reservation itself has
// already been recorded by the service.
type OverageError struct {
	Code    string
	Overage int
}

// Error implements the error interface
func (e *OverageError) Error() string {
	return fmt.Sprintf("plan limit reached: overage %d", e.Overage)
}

// IsOverage reports whether err is, or wraps, an OverageError
func IsOverage(err error) bool {
	var oe *OverageError
	return errors.As(err, &oe)
}
