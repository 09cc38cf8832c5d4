package api

import (
	"encoding/json"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/textbelt-utils/client-go/internal/apierrors"
)

// quotaPattern recognises the API's out-of-quota messages
// ("Out of quota", "quota exceeded", ...).
// maxRetryAfterSeconds is the largest retry hint a time.Duration can hold.
const maxRetryAfterSeconds = float64(math.MaxInt64 / int64(time.Second))

var quotaPattern = regexp.MustCompile(`(?i)\bquota\b`)

// IsQuotaMessage reports whether an API error text means the key is out of quota.
func IsQuotaMessage(msg string) bool {
	return quotaPattern.MatchString(msg)
}

// Decode maps resp onto out, or onto exactly one typed error.
// A 2xx body without a success field is an *APIError.
// out may be nil when only the success check matters.
func Decode(resp *Response, out interface{}) error {
	return decode(resp, out, true)
}

// DecodeBody is Decode for endpoints whose bodies carry no success field.
func DecodeBody(resp *Response, out interface{}) error {
	return decode(resp, out, false)
}

func decode(resp *Response, out interface{}, requireSuccess bool) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return rateLimitError(resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierrors.NewAPIError(resp.StatusCode, "", resp.Body)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return apierrors.NewAPIError(resp.StatusCode, "malformed JSON response", resp.Body)
	}

	if env.Success == nil {
		if requireSuccess {
			return apierrors.NewAPIError(resp.StatusCode, "response has no success field", resp.Body)
		}
	} else if !*env.Success {
		return rejection(env)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return apierrors.NewAPIError(resp.StatusCode, "unexpected response shape: "+err.Error(), resp.Body)
		}
	}
	return nil
}

// rejection classifies a success=false body.
func rejection(env envelope) error {
	if IsQuotaMessage(env.Error) {
		e := &apierrors.QuotaExceededError{Message: env.Error}
		if env.QuotaRemaining != nil {
			e.QuotaRemaining = *env.QuotaRemaining
		}
		return e
	}
	msg := env.Error
	if msg == "" {
		msg = "request rejected by API"
	}
	return &apierrors.InvalidRequestError{Message: msg}
}

func rateLimitError(resp *Response) error {
	e := &apierrors.RateLimitError{}

	var env envelope
	if json.Unmarshal(resp.Body, &env) == nil {
		e.Message = env.Error
		if env.RetryAfter != nil && *env.RetryAfter > 0 {
			secs := math.Min(*env.RetryAfter, maxRetryAfterSeconds)
			e.RetryAfter = time.Duration(secs * float64(time.Second))
		}
	}

	if e.RetryAfter == 0 && resp.Header != nil {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}
