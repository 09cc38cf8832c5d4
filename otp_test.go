package textbelt

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestOTPGenerateRequest_Validate(t *testing.T) {
	valid := OTPGenerateRequest{Phone: "+15555550100", UserID: "user@example.com"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(*OTPGenerateRequest)
		field  string
	}{
		{"bad phone", func(r *OTPGenerateRequest) { r.Phone = "5555550100" }, "phone"},
		{"empty userid", func(r *OTPGenerateRequest) { r.UserID = " " }, "userid"},
		{"lifetime too short", func(r *OTPGenerateRequest) { r.Lifetime = 10 * time.Second }, "lifetime"},
		{"lifetime too long", func(r *OTPGenerateRequest) { r.Lifetime = 2 * time.Hour }, "lifetime"},
		{"length too short", func(r *OTPGenerateRequest) { r.Length = 3 }, "length"},
		{"length too long", func(r *OTPGenerateRequest) { r.Length = 11 }, "length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			var ire *InvalidRequestError
			if err := req.Validate(); !errors.As(err, &ire) || ire.Field != tt.field {
				t.Errorf("Validate() error = %v, want invalid %s", err, tt.field)
			}
		})
	}
}

func TestOTPVerifyRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     OTPVerifyRequest
		wantErr bool
	}{
		{"valid", OTPVerifyRequest{OTP: "123456", UserID: "u"}, false},
		{"empty otp", OTPVerifyRequest{UserID: "u"}, true},
		{"non-digit otp", OTPVerifyRequest{OTP: "12a456", UserID: "u"}, true},
		{"empty userid", OTPVerifyRequest{OTP: "123456"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_GenerateOTP(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/otp/generate" {
			t.Errorf("request = %s %s, want POST /otp/generate", r.Method, r.URL.Path)
		}
		r.ParseForm()
		want := map[string]string{
			"phone":    "+15555550100",
			"userid":   "user@example.com",
			"key":      testKey,
			"lifetime": "180",
			"length":   "6",
		}
		for k, v := range want {
			if got := r.PostForm.Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":        true,
			"quotaRemaining": 9,
			"textId":         12345,
			"otp":            "672383",
		})
	})

	result, err := client.GenerateOTP(context.Background(), OTPGenerateRequest{
		Phone:  "+15555550100",
		UserID: "user@example.com",
	})
	if err != nil {
		t.Fatalf("GenerateOTP() error = %v", err)
	}
	if result.TextID != "12345" {
		t.Errorf("TextID = %q, want 12345", result.TextID)
	}
	if result.OTP != "672383" {
		t.Errorf("OTP = %q, want 672383", result.OTP)
	}
	if result.QuotaRemaining != 9 {
		t.Errorf("QuotaRemaining = %d, want 9", result.QuotaRemaining)
	}
}

func TestClient_GenerateOTP_CustomLifetime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.PostForm.Get("lifetime"); got != "60" {
			t.Errorf("lifetime = %q, want 60", got)
		}
		if got := r.PostForm.Get("length"); got != "8" {
			t.Errorf("length = %q, want 8", got)
		}
		if got := r.PostForm.Get("message"); got != "Your code is $OTP" {
			t.Errorf("message = %q, want template", got)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "textId": "1"})
	})

	_, err := client.GenerateOTP(context.Background(), OTPGenerateRequest{
		Phone:    "+15555550100",
		UserID:   "u",
		Message:  "Your code is $OTP",
		Lifetime: time.Minute,
		Length:   8,
	})
	if err != nil {
		t.Fatalf("GenerateOTP() error = %v", err)
	}
}

func TestClient_VerifyOTP(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"valid", true},
		{"invalid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/otp/verify" {
					t.Errorf("request = %s %s, want GET /otp/verify", r.Method, r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("otp") != "123456" || q.Get("userid") != "u" || q.Get("key") != testKey {
					t.Errorf("query = %v", q)
				}
				writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "isValidOtp": tt.valid})
			})

			result, err := client.VerifyOTP(context.Background(), OTPVerifyRequest{OTP: "123456", UserID: "u"})
			if err != nil {
				t.Fatalf("VerifyOTP() error = %v", err)
			}
			if result.IsValidOTP != tt.valid {
				t.Errorf("IsValidOTP = %v, want %v", result.IsValidOTP, tt.valid)
			}
		})
	}
}

func TestClient_VerifyOTP_RejectsBeforeRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid request should not reach the server")
	})

	_, err := client.VerifyOTP(context.Background(), OTPVerifyRequest{OTP: "abc", UserID: "u"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("VerifyOTP() error = %v, want ErrInvalidRequest", err)
	}
}
