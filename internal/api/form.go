package api

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/textbelt-utils/client-go/internal/apierrors"
)

// BuildSendForm validates f and encodes it as form values.
// Optional fields left empty are omitted from the output.
func BuildSendForm(f SendForm) (url.Values, error) {
	if err := requireFields(
		"phone", f.Phone,
		"message", f.Message,
		"key", f.Key,
	); err != nil {
		return nil, err
	}
	return encode(f)
}

// BuildOTPGenerateForm validates f and encodes it as form values.
func BuildOTPGenerateForm(f OTPGenerateForm) (url.Values, error) {
	if err := requireFields(
		"phone", f.Phone,
		"userid", f.UserID,
		"key", f.Key,
	); err != nil {
		return nil, err
	}
	return encode(f)
}

// BuildOTPVerifyQuery validates q and encodes it as query values.
func BuildOTPVerifyQuery(q OTPVerifyQuery) (url.Values, error) {
	if err := requireFields(
		"otp", q.OTP,
		"userid", q.UserID,
		"key", q.Key,
	); err != nil {
		return nil, err
	}
	return encode(q)
}

func encode(v interface{}) (url.Values, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err) //coverage:ignore
	}
	return values, nil
}

// requireFields takes name/value pairs and reports the first blank value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return &apierrors.InvalidRequestError{Field: pairs[i], Message: "is required"}
		}
	}
	return nil
}
