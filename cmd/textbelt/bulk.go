package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	textbelt "github.com/textbelt-utils/client-go"
)

func (a *app) bulkCmd() *cobra.Command {
	var (
		req  textbelt.BulkSMSRequest
		file string
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Send a message to many phones in batches",
		Long: `Send a message to many phones in batches.

Phones come from --phone and from --file. Each line of the file holds a
phone number, optionally followed by a comma and a message for that phone.
Blank lines and lines starting with # are skipped. Use --file - for stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				if err := a.readRecipients(file, &req); err != nil {
					return err
				}
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				result, err := ops.SendBulkSMS(ctx, req)
				var bulkErr *textbelt.BulkSendError
				if errors.As(err, &bulkErr) {
					return errors.Join(err, a.print(result))
				}
				if err != nil {
					return err
				}
				a.log.WithFields(logrus.Fields{
					"successful": result.Successful,
					"failed":     result.Failed,
				}).Info("bulk send complete")
				return a.print(result)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&req.Phones, "phone", nil, "recipient phone number, repeatable")
	flags.StringVar(&file, "file", "", "file of recipients, one per line")
	flags.StringVar(&req.Message, "message", "", "message sent to phones without their own")
	flags.StringVar(&req.Sender, "from", "", "sender name")
	flags.IntVar(&req.BatchSize, "batch-size", textbelt.DefaultBatchSize, "concurrent requests per batch")
	flags.DurationVar(&req.DelayBetweenBatches, "delay", textbelt.DefaultBatchDelay, "pause between batches")
	return cmd
}

func (a *app) readRecipients(path string, req *textbelt.BulkSMSRequest) error {
	var r io.Reader = a.streams.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open recipients: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parseRecipients(r, req)
}

// parseRecipients appends the phones listed in r to req.
func parseRecipients(r io.Reader, req *textbelt.BulkSMSRequest) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		phone, msg, hasMsg := strings.Cut(text, ",")
		phone = strings.TrimSpace(phone)
		if phone == "" {
			return fmt.Errorf("recipients line %d: missing phone", line)
		}
		req.Phones = append(req.Phones, phone)
		if hasMsg {
			if req.IndividualMessages == nil {
				req.IndividualMessages = make(map[string]string)
			}
			req.IndividualMessages[phone] = strings.TrimSpace(msg)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read recipients: %w", err)
	}
	return nil
}
