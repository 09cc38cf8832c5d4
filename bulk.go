package textbelt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Bulk send limits. Zero values in a BulkSMSRequest select the defaults.
const (
	DefaultBatchSize = 10
	MaxBatchSize     = 100

	DefaultBatchDelay = 100 * time.Millisecond
	MinBatchDelay     = 100 * time.Millisecond
)

// BulkSMSRequest sends one message to each phone.
//
// Phones are sent in batches of BatchSize concurrent requests with
// DelayBetweenBatches between batches. A phone present in IndividualMessages
// gets that text; every other phone gets Message.
type BulkSMSRequest struct {
	Phones             []string
	Message            string
	IndividualMessages map[string]string
	Key                string
	Sender             string

	BatchSize           int
	DelayBetweenBatches time.Duration
}

// Validate reports the first problem with r as an *InvalidRequestError.
func (r BulkSMSRequest) Validate() error {
	if len(r.Phones) == 0 {
		return invalidField("phones", "cannot be empty")
	}
	seen := make(map[string]struct{}, len(r.Phones))
	for _, phone := range r.Phones {
		if !IsValidE164(phone) {
			return invalidField("phones", "%q must be in E.164 format (e.g., +1234567890)", phone)
		}
		if _, dup := seen[phone]; dup {
			return invalidField("phones", "%q is listed more than once", phone)
		}
		seen[phone] = struct{}{}

		msg := r.messageFor(phone)
		if msg == "" {
			return invalidField("message", "no message for %s", phone)
		}
		if err := checkMessage("message", msg); err != nil {
			return err
		}
	}
	if r.BatchSize < 0 || r.BatchSize > MaxBatchSize {
		return invalidField("batch_size", "must be between 1 and %d", MaxBatchSize)
	}
	if r.DelayBetweenBatches < 0 || (r.DelayBetweenBatches > 0 && r.DelayBetweenBatches < MinBatchDelay) {
		return invalidField("delay_between_batches", "must be at least %v", MinBatchDelay)
	}
	return nil
}

func (r BulkSMSRequest) messageFor(phone string) string {
	if msg, ok := r.IndividualMessages[phone]; ok {
		return msg
	}
	return r.Message
}

// BulkSMSResult records the outcome of every phone in a bulk send.
type BulkSMSResult struct {
	Total      int
	Successful int
	Failed     int
	// Results holds the send result of each phone that succeeded.
	Results map[string]*SendResult
	// Errors holds the error text of each phone that failed.
	Errors map[string]string
}

// Success reports whether every message was sent.
func (r *BulkSMSResult) Success() bool {
	return r.Total > 0 && r.Failed == 0
}

// PartialSuccess reports whether some, but not all, messages were sent.
func (r *BulkSMSResult) PartialSuccess() bool {
	return r.Successful > 0 && r.Failed > 0
}

// fatalBulkError reports errors that stop a bulk send: every further
// message would fail the same way.
func fatalBulkError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrRateLimited)
}

// sendBulk sends req in batches. A quota or rate-limit error aborts the
// whole send and is returned; other per-phone failures are recorded in the
// result. If no message was sent a *BulkSendError is returned with the result.
func (c *core) sendBulk(ctx context.Context, req BulkSMSRequest) (*BulkSMSResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	batchSize := req.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	delay := req.DelayBetweenBatches
	if delay == 0 {
		delay = DefaultBatchDelay
	}

	result := &BulkSMSResult{
		Total:   len(req.Phones),
		Results: make(map[string]*SendResult),
		Errors:  make(map[string]string),
	}
	var mu sync.Mutex

	log := c.logger.WithFields(logrus.Fields{
		"total":      result.Total,
		"batch_size": batchSize,
	})

	for offset := 0; offset < len(req.Phones); offset += batchSize {
		if offset > 0 {
			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}
		}
		end := min(offset+batchSize, len(req.Phones))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchSize)
		for _, phone := range req.Phones[offset:end] {
			g.Go(func() error {
				res, err := c.sendSMS(gctx, SMSRequest{
					Phone:   phone,
					Message: req.messageFor(phone),
					Key:     req.Key,
					Sender:  req.Sender,
				}, false)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if fatalBulkError(err) {
						return err
					}
					result.Failed++
					result.Errors[phone] = err.Error()
					return nil
				}
				result.Successful++
				result.Results[phone] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.WithError(err).Warn("bulk send aborted")
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.WithField("sent", end).Debug("bulk batch complete")
	}

	if result.Successful == 0 {
		return result, &BulkSendError{Result: result}
	}
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
