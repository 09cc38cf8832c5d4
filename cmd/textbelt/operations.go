package main

import (
	"context"

	textbelt "github.com/textbelt-utils/client-go"
)

// operations is the client surface the subcommands use.
// *textbelt.Client implements it directly.
type operations interface {
	SendSMS(ctx context.Context, req textbelt.SMSRequest) (*textbelt.SendResult, error)
	SendTest(ctx context.Context, req textbelt.SMSRequest) (*textbelt.SendResult, error)
	CheckStatus(ctx context.Context, textID string) (*textbelt.StatusResult, error)
	WaitForStatus(ctx context.Context, textID string, opts ...textbelt.WaitOption) (*textbelt.StatusResult, error)
	CheckQuota(ctx context.Context) (*textbelt.QuotaResult, error)
	GenerateOTP(ctx context.Context, req textbelt.OTPGenerateRequest) (*textbelt.OTPGenerateResult, error)
	VerifyOTP(ctx context.Context, req textbelt.OTPVerifyRequest) (*textbelt.OTPVerifyResult, error)
	SendBulkSMS(ctx context.Context, req textbelt.BulkSMSRequest) (*textbelt.BulkSMSResult, error)
}

// asyncOperations waits on each AsyncClient call.
type asyncOperations struct {
	c *textbelt.AsyncClient
}

func (o asyncOperations) SendSMS(ctx context.Context, req textbelt.SMSRequest) (*textbelt.SendResult, error) {
	return o.c.SendSMS(ctx, req).Wait()
}

func (o asyncOperations) SendTest(ctx context.Context, req textbelt.SMSRequest) (*textbelt.SendResult, error) {
	return o.c.SendTest(ctx, req).Wait()
}

func (o asyncOperations) CheckStatus(ctx context.Context, textID string) (*textbelt.StatusResult, error) {
	return o.c.CheckStatus(ctx, textID).Wait()
}

func (o asyncOperations) WaitForStatus(ctx context.Context, textID string, opts ...textbelt.WaitOption) (*textbelt.StatusResult, error) {
	return o.c.WaitForStatus(ctx, textID, opts...).Wait()
}

func (o asyncOperations) CheckQuota(ctx context.Context) (*textbelt.QuotaResult, error) {
	return o.c.CheckQuota(ctx).Wait()
}

func (o asyncOperations) GenerateOTP(ctx context.Context, req textbelt.OTPGenerateRequest) (*textbelt.OTPGenerateResult, error) {
	return o.c.GenerateOTP(ctx, req).Wait()
}

func (o asyncOperations) VerifyOTP(ctx context.Context, req textbelt.OTPVerifyRequest) (*textbelt.OTPVerifyResult, error) {
	return o.c.VerifyOTP(ctx, req).Wait()
}

func (o asyncOperations) SendBulkSMS(ctx context.Context, req textbelt.BulkSMSRequest) (*textbelt.BulkSMSResult, error) {
	return o.c.SendBulkSMS(ctx, req).Wait()
}
