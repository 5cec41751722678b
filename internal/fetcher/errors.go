package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeValidation indicates the response was received but could not be decoded
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeCanceled indicates the caller abandoned the request
	ErrorTypeCanceled ErrorType = "canceled"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// ProviderError is the structured failure of a call to an upstream market
// data provider.
type ProviderError struct {
	Provider   string
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Provider, e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s error: %s: %v", e.Provider, e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(provider string, cause error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Type:      ErrorTypeNetwork,
		Retryable: true,
		Message:   "network request failed",
		Cause:     cause,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(provider string, statusCode int) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Type:       ErrorTypeRateLimit,
		Retryable:  true,
		StatusCode: statusCode,
		Message:    "rate limit exceeded",
	}
}

// NewServerError creates a server error
func NewServerError(provider string, statusCode int) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Type:       ErrorTypeServer,
		Retryable:  true,
		StatusCode: statusCode,
		Message:    "server returned an error",
	}
}

// NewClientError creates a client error
func NewClientError(provider string, statusCode int, message string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Type:       ErrorTypeClient,
		Retryable:  false,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a validation error for a payload that could not be decoded
func NewValidationError(provider, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Type:      ErrorTypeValidation,
		Retryable: false,
		Message:   message,
		Cause:     cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(provider string, cause error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Type:      ErrorTypeTimeout,
		Retryable: true,
		Message:   "request timed out",
		Cause:     cause,
	}
}

// NewCanceledError creates an error for a request the caller abandoned
func NewCanceledError(provider string, cause error) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Type:      ErrorTypeCanceled,
		Retryable: false,
		Message:   "request canceled",
		Cause:     cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate ProviderError
func ClassifyHTTPError(provider string, statusCode int) *ProviderError {
	switch {
	case statusCode == 429:
		return NewRateLimitError(provider, statusCode)
	case statusCode >= 500:
		return NewServerError(provider, statusCode)
	case statusCode >= 400:
		return NewClientError(provider, statusCode, fmt.Sprintf("client error: HTTP %d", statusCode))
	default:
		return &ProviderError{
			Provider:   provider,
			Type:       ErrorTypeUnknown,
			Retryable:  false,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		}
	}
}

// ClassifyTransportError classifies an error returned before any HTTP status
// was received.
func ClassifyTransportError(provider string, err error) *ProviderError {
	if errors.Is(err, context.Canceled) {
		return NewCanceledError(provider, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(provider, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(provider, err)
	}
	return NewNetworkError(provider, err)
}
