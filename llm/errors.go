package llm

import (
	"fmt"
	"strings"
)

// ModelError is the base error type for all model-capability errors.
type ModelError struct {
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// ProviderError represents an error returned by an LLM provider.
type ProviderError struct {
	ModelError
	Provider   string
	StatusCode int
	Retryable  bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("[%s] %s (status=%d, retryable=%v)", e.Provider, e.Message, e.StatusCode, e.Retryable)
}

// Concrete provider error types.

type AuthenticationError struct{ ProviderError }
type AccessDeniedError struct{ ProviderError }
type RateLimitError struct{ ProviderError }
type ServerError struct{ ProviderError }
type ContextLengthError struct{ ProviderError }

// Non-provider errors.

type RequestTimeoutError struct{ ModelError }
type AbortError struct{ ModelError }

// EmptyResponseError indicates the model produced no content.
type EmptyResponseError struct{ ModelError }

// MalformedResponseError indicates the model's text contained no parseable
// action object.
type MalformedResponseError struct{ ModelError }

// IsRetryable reports whether the error is safe to retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch e := err.(type) {
	case *AuthenticationError, *AccessDeniedError, *ContextLengthError:
		return false
	case *EmptyResponseError, *MalformedResponseError, *AbortError:
		return false
	case *RateLimitError, *ServerError, *RequestTimeoutError:
		return true
	case *ProviderError:
		return e.Retryable
	default:
		// Unknown errors default to retryable.
		return true
	}
}

// translateError classifies a raw provider error by message content. The
// gollm layer does not expose structured status codes, so classification is
// best effort.
func translateError(provider string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)

	base := ProviderError{
		ModelError: ModelError{Message: msg, Cause: err},
		Provider:   provider,
	}

	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "invalid api key"):
		base.StatusCode = 401
		return &AuthenticationError{ProviderError: base}
	case strings.Contains(lower, "403") || strings.Contains(lower, "forbidden"):
		base.StatusCode = 403
		return &AccessDeniedError{ProviderError: base}
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		base.StatusCode = 429
		base.Retryable = true
		return &RateLimitError{ProviderError: base}
	case strings.Contains(lower, "context length") || strings.Contains(lower, "too many tokens"):
		base.StatusCode = 413
		return &ContextLengthError{ProviderError: base}
	case strings.Contains(lower, "500") || strings.Contains(lower, "internal server"):
		base.StatusCode = 500
		base.Retryable = true
		return &ServerError{ProviderError: base}
	case strings.Contains(lower, "timeout"):
		return &RequestTimeoutError{ModelError: ModelError{Message: msg, Cause: err}}
	default:
		base.Retryable = true
		return &base
	}
}
