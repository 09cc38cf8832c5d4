package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/textbelt-utils/client-go/internal/apierrors"
)

const (
	// DefaultBaseURL is the public Textbelt endpoint.
	DefaultBaseURL = "https://textbelt.com"
	// DefaultTimeout bounds a single HTTP call when no client is supplied.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 1 << 20
)

// Config holds the settings for NewClient.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     logrus.FieldLogger
}

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	ownsHTTP   bool
	logger     logrus.FieldLogger
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
		c.ownsHTTP = true
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostForm sends a form-encoded POST to path.
// op names the operation in logs; paths can carry the API key.
func (c *Client) PostForm(ctx context.Context, op, path string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, op, req)
}

// Get sends a GET to path with the optional query.
func (c *Client) Get(ctx context.Context, op, path string, query url.Values) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(ctx, op, req)
}

func (c *Client) do(ctx context.Context, op string, req *http.Request) (*Response, error) {
	req.Header.Set("Accept", "application/json")

	log := c.logger.WithFields(logrus.Fields{
		"op":     op,
		"method": req.Method,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Prefer the context error so callers can errors.Is(err, context.Canceled).
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		log.WithError(err).Debug("textbelt request failed")
		return nil, &apierrors.NetworkError{Err: err, URL: redactURL(req.URL)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			err = ctxErr
		}
		return nil, &apierrors.NetworkError{Err: fmt.Errorf("read response: %w", err), URL: redactURL(req.URL)}
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("textbelt request completed")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// CloseIdleConnections releases pooled connections of a client created by NewClient.
// A caller-supplied *http.Client is left untouched.
func (c *Client) CloseIdleConnections() {
	if c.ownsHTTP {
		c.httpClient.CloseIdleConnections()
	}
}

// redactURL strips the query and the key from quota paths.
func redactURL(u *url.URL) string {
	r := *u
	r.RawQuery = ""
	if i := strings.Index(r.Path, "/quota/"); i >= 0 {
		r.Path = r.Path[:i] + "/quota/REDACTED"
		r.RawPath = ""
	}
	return r.String()
}
