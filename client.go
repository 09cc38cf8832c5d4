package textbelt

import (
	"context"
	"sync"
)

// Client is the blocking Textbelt client. Each method performs one HTTP call
// and returns once the response has been mapped.
//
// A Client is safe for concurrent use.
type Client struct {
	core   *core
	mu     sync.RWMutex
	closed bool
}

// New creates a new Textbelt client with the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	c, err := newCore(apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &Client{core: c}, nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// SendSMS sends a message.
func (c *Client) SendSMS(ctx context.Context, req SMSRequest) (*SendResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.sendSMS(ctx, req, false)
}

// SendTest sends req through the test endpoint, which does not consume quota.
func (c *Client) SendTest(ctx context.Context, req SMSRequest) (*SendResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.sendSMS(ctx, req, true)
}

// CheckStatus returns the delivery status of a sent message.
func (c *Client) CheckStatus(ctx context.Context, textID string) (*StatusResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.checkStatus(ctx, textID)
}

// CheckQuota returns the remaining quota of the client's API key.
func (c *Client) CheckQuota(ctx context.Context) (*QuotaResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.checkQuota(ctx)
}

// GenerateOTP generates a one-time password and texts it to req.Phone.
func (c *Client) GenerateOTP(ctx context.Context, req OTPGenerateRequest) (*OTPGenerateResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.generateOTP(ctx, req)
}

// VerifyOTP checks a one-time password issued by GenerateOTP.
func (c *Client) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*OTPVerifyResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.verifyOTP(ctx, req)
}

// SendBulkSMS sends one message per phone in batches.
// See BulkSMSRequest for batching and the error contract.
func (c *Client) SendBulkSMS(ctx context.Context, req BulkSMSRequest) (*BulkSMSResult, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	return c.core.sendBulk(ctx, req)
}

// Close closes the client and releases idle connections.
// Calls made after Close return ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.core.release()
	return nil
}
