// Package apierrors provides shared error types for the Textbelt client.
package apierrors

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrQuotaExceeded is returned when the API key has no quota left.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrInvalidRequest is returned for malformed input or API-reported request errors.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrWebhookVerification is returned when a webhook signature or timestamp is rejected.
	ErrWebhookVerification = errors.New("webhook verification failed")

	// ErrAPI is returned for HTTP-level failures and unexpected response shapes.
	ErrAPI = errors.New("API error")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrBulkSend is returned when every message of a bulk send failed.
	ErrBulkSend = errors.New("bulk send failed")
)

// maxSnippet bounds the response body kept on an APIError.
const maxSnippet = 256

// QuotaExceededError reports that the API refused a send because the key is out of quota.
type QuotaExceededError struct {
	Message        string
	QuotaRemaining int
}

func (e *QuotaExceededError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("quota exceeded: %s", e.Message)
	}
	return "quota exceeded"
}

// Is implements errors.Is for sentinel error matching.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// TextbeltError implements the TextbeltError interface.
func (e *QuotaExceededError) TextbeltError() {}

// InvalidRequestError reports malformed input, either caught locally
// (Field is set) or reported by the API.
type InvalidRequestError struct {
	Field   string
	Message string
}

func (e *InvalidRequestError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// TextbeltError implements the TextbeltError interface.
func (e *InvalidRequestError) TextbeltError() {}

// WebhookVerificationError indicates a webhook that must not be trusted.
type WebhookVerificationError struct {
	Reason string
}

func (e *WebhookVerificationError) Error() string {
	return fmt.Sprintf("webhook verification failed: %s", e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *WebhookVerificationError) Is(target error) bool {
	return target == ErrWebhookVerification
}

// TextbeltError implements the TextbeltError interface.
func (e *WebhookVerificationError) TextbeltError() {}

// APIError represents an HTTP-level failure or a response the client could not interpret.
type APIError struct {
	StatusCode int
	Message    string
	Body       string // truncated response body
}

// NewAPIError builds an APIError keeping at most maxSnippet bytes of body.
func NewAPIError(statusCode int, message string, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Body:       Snippet(body),
	}
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API error %d", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, " (body: %q)", e.Body)
	}
	return b.String()
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// TextbeltError implements the TextbeltError interface.
func (e *APIError) TextbeltError() {}

// RateLimitError is returned for HTTP 429 responses.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration // zero when the server did not say
}

func (e *RateLimitError) Error() string {
	msg := "rate limit exceeded"
	if e.Message != "" {
		msg = fmt.Sprintf("rate limit exceeded: %s", e.Message)
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %v)", msg, e.RetryAfter)
	}
	return msg
}

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// TextbeltError implements the TextbeltError interface.
func (e *RateLimitError) TextbeltError() {}

// NetworkError represents a network-level failure, including context cancellation.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TextbeltError implements the TextbeltError interface.
func (e *NetworkError) TextbeltError() {}

// Snippet truncates body to a loggable prefix of at most maxSnippet bytes,
// cut on a rune boundary.
func Snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= maxSnippet {
		return s
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
