package textbelt

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWebhookTolerance is how far a webhook timestamp may drift from the
// local clock before ValidateWebhook rejects it.
const DefaultWebhookTolerance = 15 * time.Minute

// webhookConfig holds configuration for webhook validation and handling.
type webhookConfig struct {
	tolerance time.Duration
	now       func() time.Time
	logger    logrus.FieldLogger
}

// WebhookOption configures ValidateWebhook, ParseWebhook and NewWebhookHandler.
type WebhookOption func(*webhookConfig)

func newWebhookConfig(opts []WebhookOption) *webhookConfig {
	cfg := &webhookConfig{
		tolerance: DefaultWebhookTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithTolerance sets the allowed timestamp drift. Zero disables the check.
func WithTolerance(d time.Duration) WebhookOption {
	return func(c *webhookConfig) {
		c.tolerance = d
	}
}

// WithClock sets the clock timestamps are compared against.
func WithClock(now func() time.Time) WebhookOption {
	return func(c *webhookConfig) {
		c.now = now
	}
}

// WithWebhookLogger sets the logger used by NewWebhookHandler.
func WithWebhookLogger(logger logrus.FieldLogger) WebhookOption {
	return func(c *webhookConfig) {
		c.logger = logger
	}
}
