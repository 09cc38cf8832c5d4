package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	textbelt "github.com/textbelt-utils/client-go"
	"github.com/textbelt-utils/client-go/internal/config"
)

func (a *app) webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Verify or receive reply webhooks",
	}
	cmd.AddCommand(a.webhookVerifyCmd(), a.webhookServeCmd())
	return cmd
}

func (a *app) webhookVerifyCmd() *cobra.Command {
	var timestamp, signature, payloadFile string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the signature of a reply webhook",
		Long: `Check the signature of a reply webhook.

The payload is read from --payload-file, or from stdin when it is "-".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.readPayload(payloadFile)
			if err != nil {
				return err
			}
			err = textbelt.ValidateWebhook(a.cfg.APIKey, timestamp, signature, payload,
				textbelt.WithTolerance(a.cfg.WebhookTolerance))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.streams.Stdout, "signature valid")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&timestamp, "timestamp", "", "value of the "+textbelt.HeaderTimestamp+" header")
	flags.StringVar(&signature, "signature", "", "value of the "+textbelt.HeaderSignature+" header")
	flags.StringVar(&payloadFile, "payload-file", "-", "file holding the raw request body")
	cmd.MarkFlagRequired("timestamp")
	cmd.MarkFlagRequired("signature")
	return cmd
}

func (a *app) readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.streams.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

func (a *app) webhookServeCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP server that logs verified replies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serveWebhooks(cmd.Context(), a.cfg.WebhookAddr, path)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	mustBind(a.v, config.KeyWebhookAddr, flags, "addr")
	flags.StringVar(&path, "path", "/webhook", "path that receives webhooks")
	flags.Duration("tolerance", textbelt.DefaultWebhookTolerance, "allowed timestamp drift, 0 disables the check")
	mustBind(a.v, config.KeyWebhookTolerance, flags, "tolerance")
	return cmd
}

// newWebhookRouter routes POST path to the verifying handler and GET /healthz to a liveness probe.
func newWebhookRouter(apiKey, path string, tolerance time.Duration, log logrus.FieldLogger, fn textbelt.WebhookFunc) *mux.Router {
	r := mux.NewRouter()
	r.Handle(path, textbelt.NewWebhookHandler(apiKey, fn,
		textbelt.WithTolerance(tolerance),
		textbelt.WithWebhookLogger(log),
	))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	}).Methods(http.MethodGet)
	return r
}

func (a *app) serveWebhooks(ctx context.Context, addr, path string) error {
	log := a.log.WithField("addr", addr)
	router := newWebhookRouter(a.cfg.APIKey, path, a.cfg.WebhookTolerance, a.log,
		func(ctx context.Context, p *textbelt.WebhookPayload) error {
			a.log.WithFields(logrus.Fields{
				"text_id": p.TextID,
				"from":    p.FromNumber,
				"data":    p.Data,
			}).Info(p.Text)
			return nil
		})

	accessLog := a.log.Writer()
	defer accessLog.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.RecoveryHandler()(handlers.LoggingHandler(accessLog, router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("path", path).Info("listening for webhooks")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info("webhook server stopped")
		return nil
	}
}
