// Package textbelt provides a Go client for the Textbelt SMS API.
//
// The package sends messages, checks delivery status and remaining quota,
// generates and verifies one-time passwords, sends messages in bulk, and
// verifies the signed webhooks Textbelt posts when a recipient replies.
//
// Basic usage:
//
//	client, err := textbelt.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.SendSMS(ctx, textbelt.SMSRequest{
//	    Phone:   "+15555550100",
//	    Message: "Hello from Go",
//	})
//	if errors.Is(err, textbelt.ErrQuotaExceeded) {
//	    log.Fatal("out of quota")
//	}
//
//	status, err := client.CheckStatus(ctx, result.TextID)
//
// WaitForStatus polls until the message is delivered or failed:
//
//	status, err := client.WaitForStatus(ctx, result.TextID, textbelt.WithMaxPollInterval(10*time.Second))
//
// AsyncClient exposes the same operations but returns a *Call for each:
//
//	err := textbelt.WithAsyncClient(ctx, key, func(ctx context.Context, c *textbelt.AsyncClient) error {
//	    status := c.CheckStatus(ctx, id)
//	    quota := c.CheckQuota(ctx)
//	    if _, err := status.Wait(); err != nil {
//	        return err
//	    }
//	    _, err := quota.Wait()
//	    return err
//	})
//
// Reply webhooks can be served with NewWebhookHandler:
//
//	http.Handle("/textbelt", textbelt.NewWebhookHandler(key, func(ctx context.Context, p *textbelt.WebhookPayload) error {
//	    log.Printf("%s replied: %s", p.FromNumber, p.Text)
//	    return nil
//	}))
//
// No operation retries on failure. WaitForStatus ends when a status check fails.
package textbelt
