package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	textbelt "github.com/textbelt-utils/client-go"
)

const defaultTestMessage = "Test message from the textbelt CLI"

func (a *app) sendCmd() *cobra.Command {
	var req textbelt.SMSRequest

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a text message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				result, err := ops.SendSMS(ctx, req)
				if err != nil {
					return err
				}
				a.log.WithField("text_id", result.TextID).Info("message sent")
				return a.print(result)
			})
		},
	}
	registerMessageFlags(cmd, &req, "")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("message")
	return cmd
}

func (a *app) testCmd() *cobra.Command {
	var req textbelt.SMSRequest

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send through the test endpoint without using quota",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Phone == "" {
				req.Phone = a.cfg.TestPhone
			}
			if req.Phone == "" {
				return errors.New("no phone: pass --phone or set TEXTBELT_TEST_PHONE")
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				result, err := ops.SendTest(ctx, req)
				if err != nil {
					return err
				}
				return a.print(result)
			})
		},
	}
	registerMessageFlags(cmd, &req, defaultTestMessage)
	return cmd
}

func registerMessageFlags(cmd *cobra.Command, req *textbelt.SMSRequest, message string) {
	flags := cmd.Flags()
	flags.StringVar(&req.Phone, "phone", "", "recipient phone number in E.164 format")
	flags.StringVar(&req.Message, "message", message, "message text")
	flags.StringVar(&req.Sender, "from", "", "sender name for this message")
	flags.StringVar(&req.ReplyWebhookURL, "reply-webhook-url", "", "URL that receives replies")
	flags.StringVar(&req.WebhookData, "webhook-data", "", "data echoed back in reply webhooks")
}

func (a *app) statusCmd() *cobra.Command {
	var (
		wait        bool
		interval    time.Duration
		maxInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status <text-id>",
		Short: "Show the delivery status of a sent message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				var (
					result *textbelt.StatusResult
					err    error
				)
				if wait {
					a.log.WithField("text_id", args[0]).Info("waiting for delivery")
					result, err = ops.WaitForStatus(ctx, args[0],
						textbelt.WithPollInterval(interval),
						textbelt.WithMaxPollInterval(maxInterval))
				} else {
					result, err = ops.CheckStatus(ctx, args[0])
				}
				if err != nil {
					return err
				}
				return a.print(result)
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&wait, "wait", false, "poll until the message is delivered or failed")
	flags.DurationVar(&interval, "interval", 0, "first interval between polls (default 2s)")
	flags.DurationVar(&maxInterval, "max-interval", 0, "longest interval between polls (default 30s)")
	return cmd
}

func (a *app) quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the remaining quota of the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				result, err := ops.CheckQuota(ctx)
				if err != nil {
					return err
				}
				return a.print(result)
			})
		},
	}
}
