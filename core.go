package textbelt

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/textbelt-utils/client-go/internal/api"
)

// core holds the request/response logic shared by Client and AsyncClient.
// It has no per-call mutable state.
type core struct {
	apiClient *api.Client
	apiKey    string
	sender    string
	logger    logrus.FieldLogger
}

func newCore(apiKey string, opts []Option) (*core, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	logger = logger.WithField("component", "textbelt")

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    cfg.baseURL,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &core{
		apiClient: apiClient,
		apiKey:    apiKey,
		sender:    cfg.sender,
		logger:    logger,
	}, nil
}

// withDefaults fills the client key and sender into a copy of req.
func (c *core) withDefaults(req SMSRequest) SMSRequest {
	if req.Key == "" {
		req.Key = c.apiKey
	}
	if req.Sender == "" {
		req.Sender = c.sender
	}
	return req
}

func (c *core) sendSMS(ctx context.Context, req SMSRequest, test bool) (*SendResult, error) {
	req = c.withDefaults(req)
	if err := checkMessage("message", req.Message); err != nil {
		return nil, err
	}

	send := c.apiClient.SendText
	if test {
		send = c.apiClient.SendTestText
	}
	dto, err := send(ctx, req.form())
	if err != nil {
		return nil, err
	}

	result := sendResultFromDTO(dto)
	c.logger.WithFields(logrus.Fields{
		"text_id":         result.TextID,
		"quota_remaining": result.QuotaRemaining,
		"test":            test,
	}).Debug("message accepted")
	return result, nil
}

func (c *core) checkStatus(ctx context.Context, textID string) (*StatusResult, error) {
	dto, err := c.apiClient.GetStatus(ctx, textID)
	if err != nil {
		return nil, err
	}
	return &StatusResult{Status: ParseStatus(dto.Status)}, nil
}

func (c *core) checkQuota(ctx context.Context) (*QuotaResult, error) {
	dto, err := c.apiClient.GetQuota(ctx, c.apiKey)
	if err != nil {
		return nil, err
	}
	return &QuotaResult{
		Success:        dto.Success,
		QuotaRemaining: dto.QuotaRemaining,
	}, nil
}

func (c *core) release() {
	c.apiClient.CloseIdleConnections()
}
