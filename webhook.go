package textbelt

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Headers Textbelt sets on reply webhooks.
const (
	HeaderTimestamp = "X-textbelt-timestamp"
	HeaderSignature = "X-textbelt-signature"
)

// maxWebhookBody bounds the webhook body ParseWebhook will read.
const maxWebhookBody = 1 << 20

// WebhookPayload is the JSON body of a reply webhook.
type WebhookPayload struct {
	// TextID is the ID of the message being replied to.
	TextID string `json:"textId"`
	// FromNumber is the phone number that sent the reply.
	FromNumber string `json:"fromNumber"`
	// Text is the reply's content.
	Text string `json:"text"`
	// Data is the WebhookData given when the original message was sent.
	Data string `json:"data,omitempty"`
}

// SignWebhook returns the lower-case hex HMAC-SHA256 of timestamp+payload keyed by apiKey.
func SignWebhook(apiKey, timestamp, payload string) string {
	mac := hmac.New(sha256.New, []byte(apiKey))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhook reports whether signature is the valid signature of
// timestamp and payload under apiKey. The comparison runs in constant time.
// It does not check the timestamp's age; use ValidateWebhook for that.
func VerifyWebhook(apiKey, timestamp, signature, payload string) bool {
	expected := SignWebhook(apiKey, timestamp, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ValidateWebhook checks that timestamp is a unix time within the configured
// tolerance and that signature matches. Failures are *WebhookVerificationError.
func ValidateWebhook(apiKey, timestamp, signature string, payload []byte, opts ...WebhookOption) error {
	return newWebhookConfig(opts).validate(apiKey, timestamp, signature, payload)
}

func (c *webhookConfig) validate(apiKey, timestamp, signature string, payload []byte) error {
	if timestamp == "" {
		return &WebhookVerificationError{Reason: "missing timestamp"}
	}
	if signature == "" {
		return &WebhookVerificationError{Reason: "missing signature"}
	}
	secs, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return &WebhookVerificationError{Reason: fmt.Sprintf("invalid timestamp %q", timestamp)}
	}
	if c.tolerance > 0 {
		drift := c.now().Sub(time.Unix(secs, 0))
		if drift < 0 {
			drift = -drift
		}
		if drift > c.tolerance {
			return &WebhookVerificationError{Reason: "timestamp outside tolerance"}
		}
	}
	if !VerifyWebhook(apiKey, timestamp, signature, string(payload)) {
		return &WebhookVerificationError{Reason: "signature mismatch"}
	}
	return nil
}

// ParseWebhook reads, validates and decodes a reply webhook request.
func ParseWebhook(r *http.Request, apiKey string, opts ...WebhookOption) (*WebhookPayload, error) {
	return newWebhookConfig(opts).parse(r, apiKey)
}

func (c *webhookConfig) parse(r *http.Request, apiKey string) (*WebhookPayload, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		return nil, fmt.Errorf("read webhook body: %w", err)
	}
	if len(body) > maxWebhookBody {
		return nil, invalidField("body", "exceeds %d bytes", maxWebhookBody)
	}

	if err := c.validate(apiKey, r.Header.Get(HeaderTimestamp), r.Header.Get(HeaderSignature), body); err != nil {
		return nil, err
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, invalidField("body", "malformed JSON: %v", err)
	}
	return &payload, nil
}

// WebhookFunc handles a verified reply webhook.
type WebhookFunc func(ctx context.Context, payload *WebhookPayload) error

// NewWebhookHandler returns an http.Handler that verifies reply webhooks
// signed with apiKey and passes each payload to fn.
//
// It responds 405 to anything but POST, 401 when verification fails,
// 400 for a malformed body, 500 when fn fails and 200 otherwise.
func NewWebhookHandler(apiKey string, fn WebhookFunc, opts ...WebhookOption) http.Handler {
	cfg := newWebhookConfig(opts)
	logger := cfg.logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	logger = logger.WithField("component", "textbelt-webhook")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		payload, err := cfg.parse(r, apiKey)
		if err != nil {
			switch {
			case errors.Is(err, ErrWebhookVerification):
				logger.WithError(err).Warn("rejected webhook")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			default:
				logger.WithError(err).Warn("malformed webhook")
				http.Error(w, "bad request", http.StatusBadRequest)
			}
			return
		}

		log := logger.WithFields(logrus.Fields{
			"text_id": payload.TextID,
			"from":    payload.FromNumber,
		})
		if err := fn(r.Context(), payload); err != nil {
			log.WithError(err).Error("webhook handler failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		log.Debug("webhook handled")
		w.WriteHeader(http.StatusOK)
	})
}
