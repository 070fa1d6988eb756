package payment

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned for a charge request no provider would accept.
var ErrInvalidRequest = errors.New("invalid payment request")

// ConfigurationError means no usable gateway configuration is loaded.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "gateway not configured: " + e.Reason
}

// AuthError means the OAuth2 token exchange failed.
type AuthError struct {
	Provider   Provider
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s authentication failed with status %d", e.Provider, e.StatusCode)
}

func (e *AuthError) Unwrap() error { return e.Err }

// GatewayError is a non-2xx answer to charge creation. Message is the
// gateway's own message when it sent one.
type GatewayError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("%s create charge failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s create charge failed (%d): %s", e.Provider, e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// StatusCheckError is a failed status lookup.
type StatusCheckError struct {
	Provider      Provider
	TransactionID string
	StatusCode    int
	Err           error
}

func (e *StatusCheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s status check for %s failed: %v", e.Provider, e.TransactionID, e.Err)
	}
	return fmt.Sprintf("%s status check for %s failed with status %d", e.Provider, e.TransactionID, e.StatusCode)
}

func (e *StatusCheckError) Unwrap() error { return e.Err }

// NormalizationError records a payload that could not be mapped. It is
// logged, never returned to callers.
type NormalizationError struct {
	Provider Provider
	Cause    interface{}
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s normalization failed: %v", e.Provider, e.Cause)
}
