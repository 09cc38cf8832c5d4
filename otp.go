package textbelt

import (
	"context"
	"strings"
	"time"

	"github.com/textbelt-utils/client-go/internal/api"
)

// OTP limits. A zero Lifetime or Length in a request selects the default.
const (
	DefaultOTPLifetime = 180 * time.Second
	MinOTPLifetime     = 30 * time.Second
	MaxOTPLifetime     = time.Hour

	DefaultOTPLength = 6
	MinOTPLength     = 4
	MaxOTPLength     = 10
)

// OTPGenerateRequest asks Textbelt to create and text a one-time password.
type OTPGenerateRequest struct {
	Phone string
	// UserID identifies the user the code is bound to; VerifyOTP must use the same value.
	UserID string
	Key    string
	// Message is the text sent; $OTP marks where the code goes.
	Message  string
	Lifetime time.Duration
	Length   int
}

// Validate reports the first problem with r as an *InvalidRequestError.
func (r OTPGenerateRequest) Validate() error {
	if !IsValidE164(r.Phone) {
		return invalidField("phone", "must be in E.164 format (e.g., +1234567890)")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return invalidField("userid", "cannot be empty")
	}
	if r.Lifetime != 0 && (r.Lifetime < MinOTPLifetime || r.Lifetime > MaxOTPLifetime) {
		return invalidField("lifetime", "must be between %v and %v", MinOTPLifetime, MaxOTPLifetime)
	}
	if r.Length != 0 && (r.Length < MinOTPLength || r.Length > MaxOTPLength) {
		return invalidField("length", "must be between %d and %d", MinOTPLength, MaxOTPLength)
	}
	return checkMessage("message", r.Message)
}

// OTPGenerateResult is returned by GenerateOTP.
// OTP is only populated when a test key is used.
type OTPGenerateResult struct {
	Success        bool
	QuotaRemaining int
	TextID         string
	OTP            string
}

// OTPVerifyRequest checks a code previously issued for UserID.
type OTPVerifyRequest struct {
	OTP    string
	UserID string
	Key    string
}

// Validate reports the first problem with r as an *InvalidRequestError.
func (r OTPVerifyRequest) Validate() error {
	if r.OTP == "" {
		return invalidField("otp", "cannot be empty")
	}
	for _, ch := range r.OTP {
		if ch < '0' || ch > '9' {
			return invalidField("otp", "must contain only digits")
		}
	}
	if strings.TrimSpace(r.UserID) == "" {
		return invalidField("userid", "cannot be empty")
	}
	return nil
}

// OTPVerifyResult is returned by VerifyOTP.
type OTPVerifyResult struct {
	Success    bool
	IsValidOTP bool
}

func (c *core) generateOTP(ctx context.Context, req OTPGenerateRequest) (*OTPGenerateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Key == "" {
		req.Key = c.apiKey
	}
	lifetime := req.Lifetime
	if lifetime == 0 {
		lifetime = DefaultOTPLifetime
	}
	length := req.Length
	if length == 0 {
		length = DefaultOTPLength
	}

	dto, err := c.apiClient.GenerateOTP(ctx, api.OTPGenerateForm{
		Phone:    req.Phone,
		UserID:   req.UserID,
		Key:      req.Key,
		Message:  req.Message,
		Lifetime: int(lifetime / time.Second),
		Length:   length,
	})
	if err != nil {
		return nil, err
	}
	return &OTPGenerateResult{
		Success:        dto.Success,
		QuotaRemaining: dto.QuotaRemaining,
		TextID:         string(dto.TextID),
		OTP:            dto.OTP,
	}, nil
}

func (c *core) verifyOTP(ctx context.Context, req OTPVerifyRequest) (*OTPVerifyResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Key == "" {
		req.Key = c.apiKey
	}

	dto, err := c.apiClient.VerifyOTP(ctx, api.OTPVerifyQuery{
		OTP:    req.OTP,
		UserID: req.UserID,
		Key:    req.Key,
	})
	if err != nil {
		return nil, err
	}
	return &OTPVerifyResult{
		Success:    dto.Success,
		IsValidOTP: dto.IsValidOTP,
	}, nil
}
