package textbelt

import (
	"regexp"
	"unicode/utf8"

	"github.com/textbelt-utils/client-go/internal/api"
)

// MaxMessageLength is the longest message body Textbelt accepts, in characters.
const MaxMessageLength = 2000

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// IsValidE164 reports whether phone is an E.164 number such as +15555550100.
func IsValidE164(phone string) bool {
	return e164Pattern.MatchString(phone)
}

// SMSRequest describes one outbound message.
// When Key is empty the client's API key is used.
type SMSRequest struct {
	Phone   string
	Message string
	Key     string

	// Sender is an optional sender name for compliance purposes.
	Sender string
	// ReplyWebhookURL receives replies to this message.
	ReplyWebhookURL string
	// WebhookData is echoed back in reply webhooks.
	WebhookData string
}

func (r SMSRequest) form() api.SendForm {
	return api.SendForm{
		Phone:           r.Phone,
		Message:         r.Message,
		Key:             r.Key,
		Sender:          r.Sender,
		ReplyWebhookURL: r.ReplyWebhookURL,
		WebhookData:     r.WebhookData,
	}
}

// SendResult is the outcome of a successful send.
type SendResult struct {
	Success        bool
	TextID         string
	QuotaRemaining int
	Error          string
}

func sendResultFromDTO(dto *api.SendResponse) *SendResult {
	return &SendResult{
		Success:        dto.Success,
		TextID:         string(dto.TextID),
		QuotaRemaining: dto.QuotaRemaining,
		Error:          dto.Error,
	}
}

// Status is the delivery state of a sent message.
//
// Carriers do not report delivery uniformly: some mark a message DELIVERED
// when transmission is attempted, and some can only ever report SENT.
type Status string

const (
	// StatusDelivered means the carrier confirmed delivery.
	StatusDelivered Status = "DELIVERED"
	// StatusSent means the message reached the carrier without a receipt.
	StatusSent Status = "SENT"
	// StatusSending means the message is queued or dispatched to the carrier.
	StatusSending Status = "SENDING"
	// StatusFailed means the message was not received.
	StatusFailed Status = "FAILED"
	// StatusUnknown means the status could not be determined.
	StatusUnknown Status = "UNKNOWN"
)

// ParseStatus maps an API status string onto a Status.
// Unrecognised values become StatusUnknown.
func ParseStatus(s string) Status {
	switch st := Status(s); st {
	case StatusDelivered, StatusSent, StatusSending, StatusFailed, StatusUnknown:
		return st
	default:
		return StatusUnknown
	}
}

// StatusResult is returned by CheckStatus.
type StatusResult struct {
	Status Status
}

// QuotaResult is returned by CheckQuota.
type QuotaResult struct {
	Success        bool
	QuotaRemaining int
}

func checkMessage(field, message string) error {
	if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		return invalidField(field, "length %d exceeds maximum of %d characters", n, MaxMessageLength)
	}
	return nil
}
