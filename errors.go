package textbelt

import (
	"fmt"

	"github.com/textbelt-utils/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = apierrors.ErrMissingAPIKey

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = apierrors.ErrClientClosed

	// ErrQuotaExceeded is matched by *QuotaExceededError.
	ErrQuotaExceeded = apierrors.ErrQuotaExceeded

	// ErrInvalidRequest is matched by *InvalidRequestError.
	ErrInvalidRequest = apierrors.ErrInvalidRequest

	// ErrWebhookVerification is matched by *WebhookVerificationError.
	ErrWebhookVerification = apierrors.ErrWebhookVerification

	// ErrAPI is matched by *APIError.
	ErrAPI = apierrors.ErrAPI

	// ErrRateLimited is matched by *RateLimitError.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrBulkSend is matched by *BulkSendError.
	ErrBulkSend = apierrors.ErrBulkSend
)

// TextbeltError is implemented by all SDK errors.
type TextbeltError interface {
	error
	TextbeltError() // marker method
}

// QuotaExceededError is returned when the API reports the key is out of quota.
type QuotaExceededError = apierrors.QuotaExceededError

// InvalidRequestError is returned for malformed input or an API-reported request error.
// Field names the offending input when the request failed local validation.
type InvalidRequestError = apierrors.InvalidRequestError

// WebhookVerificationError is returned when a webhook's signature or timestamp is rejected.
type WebhookVerificationError = apierrors.WebhookVerificationError

// APIError represents a non-2xx response or a body the client could not interpret.
type APIError = apierrors.APIError

// RateLimitError is returned for HTTP 429 responses.
type RateLimitError = apierrors.RateLimitError

// NetworkError represents a request that never produced a response,
// including one abandoned through its context.
type NetworkError = apierrors.NetworkError

// BulkSendError is returned by SendBulkSMS when no message was sent.
// Result still carries the per-phone errors.
type BulkSendError struct {
	Result *BulkSMSResult
}

func (e *BulkSendError) Error() string {
	if e.Result == nil {
		return "bulk send failed"
	}
	return fmt.Sprintf("bulk send failed: all %d messages failed", e.Result.Total)
}

// Is implements errors.Is for sentinel error matching.
func (e *BulkSendError) Is(target error) bool {
	return target == ErrBulkSend
}

// TextbeltError implements the TextbeltError interface.
func (e *BulkSendError) TextbeltError() {}

func invalidField(field, format string, args ...interface{}) error {
	return &InvalidRequestError{Field: field, Message: fmt.Sprintf(format, args...)}
}
