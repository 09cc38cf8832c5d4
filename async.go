package textbelt

import (
	"context"
	"sync"
)

// Call is a pending AsyncClient operation.
type Call[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Done is closed once the call has completed.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes and returns its result.
func (c *Call[T]) Wait() (T, error) {
	<-c.done
	return c.value, c.err
}

func failedCall[T any](err error) *Call[T] {
	c := &Call[T]{done: make(chan struct{}), err: err}
	close(c.done)
	return c
}

// AsyncClient issues each operation on its own goroutine and returns a *Call
// immediately. Independent calls complete independently and in no particular order.
//
// An AsyncClient is a scoped resource: create it with NewAsync and defer Close,
// or use WithAsyncClient. Cancelling the context passed to an operation aborts
// its HTTP call and releases the connection; the call then fails with a
// *NetworkError wrapping the context error.
type AsyncClient struct {
	core     *core
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewAsync creates a new asynchronous Textbelt client.
func NewAsync(apiKey string, opts ...Option) (*AsyncClient, error) {
	c, err := newCore(apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{core: c}, nil
}

// WithAsyncClient creates an AsyncClient, passes it to fn and closes it when
// fn returns, including when fn fails or panics.
func WithAsyncClient(ctx context.Context, apiKey string, fn func(context.Context, *AsyncClient) error, opts ...Option) error {
	client, err := NewAsync(apiKey, opts...)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

// start runs fn on a new goroutine tracked by the client.
func start[T any](a *AsyncClient, ctx context.Context, fn func(context.Context) (T, error)) *Call[T] {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return failedCall[T](ErrClientClosed)
	}
	a.inflight.Add(1)
	a.mu.Unlock()

	call := &Call[T]{done: make(chan struct{})}
	go func() {
		defer a.inflight.Done()
		defer close(call.done)
		call.value, call.err = fn(ctx)
	}()
	return call
}

// SendSMS sends a message.
func (a *AsyncClient) SendSMS(ctx context.Context, req SMSRequest) *Call[*SendResult] {
	return start(a, ctx, func(ctx context.Context) (*SendResult, error) {
		return a.core.sendSMS(ctx, req, false)
	})
}

// SendTest sends req through the test endpoint, which does not consume quota.
func (a *AsyncClient) SendTest(ctx context.Context, req SMSRequest) *Call[*SendResult] {
	return start(a, ctx, func(ctx context.Context) (*SendResult, error) {
		return a.core.sendSMS(ctx, req, true)
	})
}

// CheckStatus returns the delivery status of a sent message.
func (a *AsyncClient) CheckStatus(ctx context.Context, textID string) *Call[*StatusResult] {
	return start(a, ctx, func(ctx context.Context) (*StatusResult, error) {
		return a.core.checkStatus(ctx, textID)
	})
}

// CheckQuota returns the remaining quota of the client's API key.
func (a *AsyncClient) CheckQuota(ctx context.Context) *Call[*QuotaResult] {
	return start(a, ctx, a.core.checkQuota)
}

// GenerateOTP generates a one-time password and texts it to req.Phone.
func (a *AsyncClient) GenerateOTP(ctx context.Context, req OTPGenerateRequest) *Call[*OTPGenerateResult] {
	return start(a, ctx, func(ctx context.Context) (*OTPGenerateResult, error) {
		return a.core.generateOTP(ctx, req)
	})
}

// VerifyOTP checks a one-time password issued by GenerateOTP.
func (a *AsyncClient) VerifyOTP(ctx context.Context, req OTPVerifyRequest) *Call[*OTPVerifyResult] {
	return start(a, ctx, func(ctx context.Context) (*OTPVerifyResult, error) {
		return a.core.verifyOTP(ctx, req)
	})
}

// SendBulkSMS sends one message per phone in batches.
func (a *AsyncClient) SendBulkSMS(ctx context.Context, req BulkSMSRequest) *Call[*BulkSMSResult] {
	return start(a, ctx, func(ctx context.Context) (*BulkSMSResult, error) {
		return a.core.sendBulk(ctx, req)
	})
}

// Close stops accepting calls, waits for in-flight calls to finish and
// releases idle connections. It is safe to call more than once.
func (a *AsyncClient) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.inflight.Wait()
	a.core.release()
	return nil
}
