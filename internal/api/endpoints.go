package api

import (
	"context"
	"net/url"

	"github.com/textbelt-utils/client-go/internal/apierrors"
)

// SendText sends a message through POST /text.
// An accepted message without a textId is an *APIError.
func (c *Client) SendText(ctx context.Context, f SendForm) (*SendResponse, error) {
	return c.send(ctx, "send_sms", "/text", f, true)
}

// SendTestText sends through POST /text/test, which does not consume quota.
func (c *Client) SendTestText(ctx context.Context, f SendForm) (*SendResponse, error) {
	return c.send(ctx, "send_test", "/text/test", f, false)
}

func (c *Client) send(ctx context.Context, op, path string, f SendForm, needID bool) (*SendResponse, error) {
	form, err := BuildSendForm(f)
	if err != nil {
		return nil, err
	}
	resp, err := c.PostForm(ctx, op, path, form)
	if err != nil {
		return nil, err
	}
	var result SendResponse
	if err := Decode(resp, &result); err != nil {
		return nil, err
	}
	if needID && result.TextID == "" {
		return nil, apierrors.NewAPIError(resp.StatusCode, "response has no textId", resp.Body)
	}
	return &result, nil
}

// GetStatus retrieves the delivery status of a sent message.
func (c *Client) GetStatus(ctx context.Context, textID string) (*StatusResponse, error) {
	if err := requireFields("textId", textID); err != nil {
		return nil, err
	}
	resp, err := c.Get(ctx, "check_status", "/status/"+url.PathEscape(textID), nil)
	if err != nil {
		return nil, err
	}
	var result StatusResponse
	if err := DecodeBody(resp, &result); err != nil {
		return nil, err
	}
	if result.Status == "" {
		return nil, apierrors.NewAPIError(resp.StatusCode, "response has no status", resp.Body)
	}
	return &result, nil
}

// GetQuota retrieves the remaining quota for key.
func (c *Client) GetQuota(ctx context.Context, key string) (*QuotaResponse, error) {
	if err := requireFields("key", key); err != nil {
		return nil, err
	}
	resp, err := c.Get(ctx, "check_quota", "/quota/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	var result QuotaResponse
	if err := Decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateOTP asks Textbelt to generate and text a one-time password.
func (c *Client) GenerateOTP(ctx context.Context, f OTPGenerateForm) (*OTPGenerateResponse, error) {
	form, err := BuildOTPGenerateForm(f)
	if err != nil {
		return nil, err
	}
	resp, err := c.PostForm(ctx, "generate_otp", "/otp/generate", form)
	if err != nil {
		return nil, err
	}
	var result OTPGenerateResponse
	if err := Decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyOTP checks a one-time password previously issued for a user ID.
func (c *Client) VerifyOTP(ctx context.Context, q OTPVerifyQuery) (*OTPVerifyResponse, error) {
	query, err := BuildOTPVerifyQuery(q)
	if err != nil {
		return nil, err
	}
	resp, err := c.Get(ctx, "verify_otp", "/otp/verify", query)
	if err != nil {
		return nil, err
	}
	var result OTPVerifyResponse
	if err := Decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
