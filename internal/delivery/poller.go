package delivery

import (
	"context"
	"math/rand"
	"time"
)

const (
	PollingInitialInterval   = 2 * time.Second
	PollingMaxBackoff        = 30 * time.Second
	PollingBackoffMultiplier = 1.5
	PollingJitterFactor      = 0.3
)

// Poller configures Poll. Zero fields select the package defaults.
type Poller struct {
	Interval    time.Duration
	MaxInterval time.Duration

	// random returns a value in [0, 1); tests replace it.
	random func() float64
}

func (p Poller) withDefaults() Poller {
	if p.Interval <= 0 {
		p.Interval = PollingInitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = PollingMaxBackoff
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = p.Interval
	}
	if p.random == nil {
		p.random = rand.Float64
	}
	return p
}

// next returns the interval that follows cur.
func (p Poller) next(cur time.Duration) time.Duration {
	n := time.Duration(float64(cur) * PollingBackoffMultiplier)
	if n > p.MaxInterval {
		n = p.MaxInterval
	}
	return n
}

// wait returns interval plus jitter.
func (p Poller) wait(interval time.Duration) time.Duration {
	jitter := time.Duration(p.random() * PollingJitterFactor * float64(interval))
	return interval + jitter
}

// Poll calls fetch immediately and then with backoff until settled reports
// true for its result, fetch fails or ctx is done.
func Poll[T any](ctx context.Context, p Poller, fetch func(context.Context) (T, error), settled func(T) bool) (T, error) {
	p = p.withDefaults()
	interval := p.Interval

	for {
		v, err := fetch(ctx)
		if err != nil || settled(v) {
			return v, err
		}

		timer := time.NewTimer(p.wait(interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
		interval = p.next(interval)
	}
}
