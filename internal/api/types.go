package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SendForm is the form body of POST /text and POST /text/test.
type SendForm struct {
	Phone           string `url:"phone"`
	Message         string `url:"message"`
	Key             string `url:"key"`
	Sender          string `url:"sender,omitempty"`
	ReplyWebhookURL string `url:"replyWebhookUrl,omitempty"`
	WebhookData     string `url:"webhookData,omitempty"`
}

// OTPGenerateForm is the form body of POST /otp/generate.
type OTPGenerateForm struct {
	Phone    string `url:"phone"`
	UserID   string `url:"userid"`
	Key      string `url:"key"`
	Message  string `url:"message,omitempty"`
	Lifetime int    `url:"lifetime,omitempty"`
	Length   int    `url:"length,omitempty"`
}

// OTPVerifyQuery is the query string of GET /otp/verify.
type OTPVerifyQuery struct {
	OTP    string `url:"otp"`
	UserID string `url:"userid"`
	Key    string `url:"key"`
}

// envelope holds the fields shared by every Textbelt response.
type envelope struct {
	Success        *bool    `json:"success"`
	Error          string   `json:"error"`
	QuotaRemaining *int     `json:"quotaRemaining"`
	RetryAfter     *float64 `json:"retryAfter"`
}

// SendResponse is the body returned by the send endpoints.
type SendResponse struct {
	Success        bool       `json:"success"`
	QuotaRemaining int        `json:"quotaRemaining"`
	TextID         FlexString `json:"textId"`
	Error          string     `json:"error"`
}

// StatusResponse is the body of GET /status/{textId}.
type StatusResponse struct {
	Status string `json:"status"`
}

// QuotaResponse is the body of GET /quota/{key}.
type QuotaResponse struct {
	Success        bool `json:"success"`
	QuotaRemaining int  `json:"quotaRemaining"`
}

// OTPGenerateResponse is the body of POST /otp/generate.
// OTP is only populated for test keys.
type OTPGenerateResponse struct {
	Success        bool       `json:"success"`
	QuotaRemaining int        `json:"quotaRemaining"`
	TextID         FlexString `json:"textId"`
	OTP            string     `json:"otp"`
}

// OTPVerifyResponse is the body of GET /otp/verify.
type OTPVerifyResponse struct {
	Success    bool `json:"success"`
	IsValidOTP bool `json:"isValidOtp"`
}

// FlexString decodes a JSON string or number into a string.
// Textbelt has returned textId in both forms.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}
