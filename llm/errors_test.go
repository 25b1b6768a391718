package llm

import (
	"errors"
	"testing"
)

func TestTranslateErrorClassification(t *testing.T) {
	cases := []struct {
		message   string
		retryable bool
		check     func(error) bool
	}{
		{"401 unauthorized", false, func(e error) bool { var t *AuthenticationError; return errors.As(e, &t) }},
		{"invalid api key provided", false, func(e error) bool { var t *AuthenticationError; return errors.As(e, &t) }},
		{"403 forbidden", false, func(e error) bool { var t *AccessDeniedError; return errors.As(e, &t) }},
		{"429 rate limit exceeded", true, func(e error) bool { var t *RateLimitError; return errors.As(e, &t) }},
		{"context length exceeded", false, func(e error) bool { var t *ContextLengthError; return errors.As(e, &t) }},
		{"500 internal server error", true, func(e error) bool { var t *ServerError; return errors.As(e, &t) }},
		{"request timeout", true, func(e error) bool { var t *RequestTimeoutError; return errors.As(e, &t) }},
		{"something odd happened", true, func(e error) bool { var t *ProviderError; return errors.As(e, &t) }},
	}

	for _, tc := range cases {
		got := translateError("anthropic", errors.New(tc.message))
		if !tc.check(got) {
			t.Errorf("%q: wrong error type: %T", tc.message, got)
		}
		if IsRetryable(got) != tc.retryable {
			t.Errorf("%q: retryable = %v, want %v", tc.message, IsRetryable(got), tc.retryable)
		}
	}
}

func TestTranslateErrorNil(t *testing.T) {
	if translateError("openai", nil) != nil {
		t.Error("nil error must stay nil")
	}
}

func TestIsRetryableResponseErrors(t *testing.T) {
	empty := &EmptyResponseError{ModelError: ModelError{Message: "no content"}}
	if IsRetryable(empty) {
		t.Error("empty response is not retryable")
	}
	malformed := &MalformedResponseError{ModelError: ModelError{Message: "no action"}}
	if IsRetryable(malformed) {
		t.Error("malformed response is not retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}

func TestModelErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &ModelError{Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap must expose the cause")
	}
}
