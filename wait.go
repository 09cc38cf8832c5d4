package textbelt

import (
	"context"
	"time"

	"github.com/textbelt-utils/client-go/internal/delivery"
)

// waitConfig holds configuration for WaitForStatus.
type waitConfig struct {
	interval    time.Duration
	maxInterval time.Duration
	targets     []Status
}

// WaitOption configures WaitForStatus.
type WaitOption func(*waitConfig)

// WithPollInterval sets the first interval between status checks.
// Later intervals grow up to the maximum.
func WithPollInterval(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.interval = d
	}
}

// WithMaxPollInterval caps the interval between status checks.
func WithMaxPollInterval(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.maxInterval = d
	}
}

// WithTargetStatus sets the statuses that end the wait.
// The default is StatusDelivered and StatusFailed. Carriers that never
// confirm delivery stop at StatusSent; include it for those.
func WithTargetStatus(statuses ...Status) WaitOption {
	return func(c *waitConfig) {
		c.targets = statuses
	}
}

func (c *core) waitForStatus(ctx context.Context, textID string, opts []WaitOption) (*StatusResult, error) {
	cfg := &waitConfig{
		targets: []Status{StatusDelivered, StatusFailed},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	log := c.logger.WithField("text_id", textID)
	settled := func(r *StatusResult) bool {
		for _, s := range cfg.targets {
			if r.Status == s {
				return true
			}
		}
		log.WithField("status", r.Status).Debug("waiting for status")
		return false
	}

	poller := delivery.Poller{Interval: cfg.interval, MaxInterval: cfg.maxInterval}
	return delivery.Poll(ctx, poller, func(ctx context.Context) (*StatusResult, error) {
		return c.checkStatus(ctx, textID)
	}, settled)
}

// WaitForStatus polls CheckStatus with backoff until the message reaches
// one of the target statuses or ctx is done. A failed status check ends
// the wait with its error.
func (c *Client) WaitForStatus(ctx context.Context, textID string, opts ...WaitOption) (*StatusResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.waitForStatus(ctx, textID, opts)
}

// WaitForStatus polls CheckStatus with backoff until the message reaches
// one of the target statuses or ctx is done.
func (a *AsyncClient) WaitForStatus(ctx context.Context, textID string, opts ...WaitOption) *Call[*StatusResult] {
	return start(a, ctx, func(ctx context.Context) (*StatusResult, error) {
		return a.core.waitForStatus(ctx, textID, opts)
	})
}
