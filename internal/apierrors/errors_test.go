package apierrors

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{
		ErrMissingAPIKey,
		ErrClientClosed,
		ErrQuotaExceeded,
		ErrInvalidRequest,
		ErrWebhookVerification,
		ErrAPI,
		ErrRateLimited,
		ErrBulkSend,
	}
	seen := make(map[string]bool)
	for _, s := range sentinels {
		if s.Error() == "" {
			t.Error("sentinel error has empty message")
		}
		if seen[s.Error()] {
			t.Errorf("duplicate sentinel message %q", s.Error())
		}
		seen[s.Error()] = true
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"quota with message", &QuotaExceededError{Message: "Out of quota"}, "quota exceeded: Out of quota"},
		{"quota bare", &QuotaExceededError{}, "quota exceeded"},
		{"invalid with field", &InvalidRequestError{Field: "phone", Message: "is required"}, "invalid request: phone: is required"},
		{"invalid from API", &InvalidRequestError{Message: "Invalid phone number"}, "invalid request: Invalid phone number"},
		{"webhook", &WebhookVerificationError{Reason: "signature mismatch"}, "webhook verification failed: signature mismatch"},
		{"api bare", &APIError{StatusCode: 502}, "API error 502"},
		{"api with body", &APIError{StatusCode: 500, Body: "oops"}, `API error 500 (body: "oops")`},
		{"api with message", &APIError{StatusCode: 200, Message: "malformed JSON"}, "API error 200: malformed JSON"},
		{"rate limit", &RateLimitError{Message: "slow down", RetryAfter: time.Minute}, "rate limit exceeded: slow down (retry after 1m0s)"},
		{"rate limit bare", &RateLimitError{}, "rate limit exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"quota matches ErrQuotaExceeded", &QuotaExceededError{}, ErrQuotaExceeded, true},
		{"quota does not match ErrInvalidRequest", &QuotaExceededError{}, ErrInvalidRequest, false},
		{"invalid matches ErrInvalidRequest", &InvalidRequestError{}, ErrInvalidRequest, true},
		{"webhook matches ErrWebhookVerification", &WebhookVerificationError{}, ErrWebhookVerification, true},
		{"api matches ErrAPI", &APIError{StatusCode: 500}, ErrAPI, true},
		{"api does not match ErrRateLimited", &APIError{StatusCode: 500}, ErrRateLimited, false},
		{"rate limit matches ErrRateLimited", &RateLimitError{}, ErrRateLimited, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	err := &NetworkError{Err: context.Canceled, URL: "https://textbelt.com/text"}
	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is should see through NetworkError")
	}
	if err.Error() != "network error: context canceled" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestNewAPIError_TruncatesBody(t *testing.T) {
	body := []byte(strings.Repeat("x", 1000))
	err := NewAPIError(500, "", body)
	if len(err.Body) != maxSnippet+len("...") {
		t.Errorf("Body length = %d, want %d", len(err.Body), maxSnippet+3)
	}
	if !strings.HasSuffix(err.Body, "...") {
		t.Error("truncated body should end with ...")
	}
}

func TestSnippet_RuneBoundary(t *testing.T) {
	// Two ASCII bytes put the cut inside a three-byte rune.
	body := []byte("xx" + strings.Repeat("€", maxSnippet))
	got := Snippet(body)
	if !utf8.ValidString(got) {
		t.Fatalf("Snippet() = %q, not valid UTF-8", got)
	}
	if len(got) > maxSnippet+len("...") {
		t.Errorf("Snippet() length = %d, want at most %d", len(got), maxSnippet+3)
	}
	if !strings.HasSuffix(got, "€...") {
		t.Errorf("Snippet() = %q, want it to end on a whole rune", got)
	}
}

func TestSnippet_Short(t *testing.T) {
	if got := Snippet([]byte("  <html>bad gateway</html>\n")); got != "<html>bad gateway</html>" {
		t.Errorf("Snippet() = %q", got)
	}
}
