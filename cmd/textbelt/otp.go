package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	textbelt "github.com/textbelt-utils/client-go"
)

func (a *app) otpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Generate and verify one-time passwords",
	}
	cmd.AddCommand(a.otpGenerateCmd(), a.otpVerifyCmd())
	return cmd
}

func (a *app) otpGenerateCmd() *cobra.Command {
	var req textbelt.OTPGenerateRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Text a one-time password to a phone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				result, err := ops.GenerateOTP(ctx, req)
				if err != nil {
					return err
				}
				a.log.WithField("text_id", result.TextID).Info("one-time password sent")
				return a.print(result)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.Phone, "phone", "", "recipient phone number in E.164 format")
	flags.StringVar(&req.UserID, "userid", "", "user the code is issued for")
	flags.StringVar(&req.Message, "message", "", "message text, $OTP marks the code")
	flags.DurationVar(&req.Lifetime, "lifetime", textbelt.DefaultOTPLifetime, "how long the code stays valid")
	flags.IntVar(&req.Length, "length", textbelt.DefaultOTPLength, "number of digits")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("userid")
	return cmd
}

// errInvalidOTP makes `otp verify` exit non-zero for a wrong code.
var errInvalidOTP = errors.New("one-time password is not valid")

func (a *app) otpVerifyCmd() *cobra.Command {
	var req textbelt.OTPVerifyRequest

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a one-time password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, ops operations) error {
				result, err := ops.VerifyOTP(ctx, req)
				if err != nil {
					return err
				}
				if err := a.print(result); err != nil {
					return err
				}
				if !result.IsValidOTP {
					return errInvalidOTP
				}
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.OTP, "otp", "", "code entered by the user")
	flags.StringVar(&req.UserID, "userid", "", "user the code was issued for")
	cmd.MarkFlagRequired("otp")
	cmd.MarkFlagRequired("userid")
	return cmd
}
