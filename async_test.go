package textbelt

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func newTestAsyncClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *AsyncClient {
	t.Helper()
	srv := newTestServer(t, handler)
	client, err := NewAsync(testKey, append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("NewAsync() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func sendHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/text", "/text/test":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":        true,
			"quotaRemaining": 50,
			"textId":         "123",
		})
	case "/status/123":
		writeJSON(w, http.StatusOK, map[string]string{"status": "DELIVERED"})
	case "/quota/" + testKey:
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "quotaRemaining": 50})
	default:
		http.NotFound(w, r)
	}
}

func TestAsyncClient_MatchesSyncClient(t *testing.T) {
	ctx := context.Background()
	req := SMSRequest{Phone: "+15555550100", Message: "Test"}

	syncClient := newTestClient(t, sendHandler)
	async := newTestAsyncClient(t, sendHandler)

	want, err := syncClient.SendSMS(ctx, req)
	if err != nil {
		t.Fatalf("SendSMS() error = %v", err)
	}
	got, err := async.SendSMS(ctx, req).Wait()
	if err != nil {
		t.Fatalf("async SendSMS() error = %v", err)
	}
	if *got != *want {
		t.Errorf("async SendSMS() = %+v, want %+v", got, want)
	}

	wantStatus, _ := syncClient.CheckStatus(ctx, "123")
	gotStatus, err := async.CheckStatus(ctx, "123").Wait()
	if err != nil {
		t.Fatalf("async CheckStatus() error = %v", err)
	}
	if gotStatus.Status != wantStatus.Status {
		t.Errorf("async Status = %s, want %s", gotStatus.Status, wantStatus.Status)
	}

	wantQuota, _ := syncClient.CheckQuota(ctx)
	gotQuota, err := async.CheckQuota(ctx).Wait()
	if err != nil {
		t.Fatalf("async CheckQuota() error = %v", err)
	}
	if *gotQuota != *wantQuota {
		t.Errorf("async CheckQuota() = %+v, want %+v", gotQuota, wantQuota)
	}
}

func TestAsyncClient_ErrorsMatchSyncClient(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "error": "Out of quota"})
	}
	async := newTestAsyncClient(t, handler)

	_, err := async.SendSMS(context.Background(), SMSRequest{Phone: "+15555550100", Message: "Test"}).Wait()
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("async SendSMS() error = %v, want ErrQuotaExceeded", err)
	}
}

func TestAsyncClient_IndependentCalls(t *testing.T) {
	release := make(chan struct{})
	async := newTestAsyncClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status/slow" {
			<-release
			writeJSON(w, http.StatusOK, map[string]string{"status": "SENT"})
			return
		}
		sendHandler(w, r)
	})

	ctx := context.Background()
	slow := async.CheckStatus(ctx, "slow")
	quota := async.CheckQuota(ctx)

	if _, err := quota.Wait(); err != nil {
		t.Fatalf("CheckQuota() error = %v", err)
	}
	select {
	case <-slow.Done():
		t.Error("slow call completed before it was released")
	default:
	}

	close(release)
	if result, err := slow.Wait(); err != nil || result.Status != StatusSent {
		t.Errorf("CheckStatus() = %+v, %v, want SENT", result, err)
	}
}

func TestAsyncClient_CloseWaitsForInflight(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	async := newTestAsyncClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "quotaRemaining": 1})
	})

	call := async.CheckQuota(context.Background())
	<-started

	if err := async.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !finished.Load() {
		t.Error("Close() returned before the in-flight call finished")
	}
	if _, err := call.Wait(); err != nil {
		t.Errorf("in-flight call error = %v, want nil", err)
	}
}

func TestAsyncClient_ClosedClient(t *testing.T) {
	async := newTestAsyncClient(t, sendHandler)
	async.Close()

	_, err := async.CheckQuota(context.Background()).Wait()
	if !errors.Is(err, ErrClientClosed) {
		t.Errorf("CheckQuota() after Close error = %v, want ErrClientClosed", err)
	}
	if err := async.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestAsyncClient_Cancel(t *testing.T) {
	unblock := make(chan struct{})
	defer close(unblock)
	async := newTestAsyncClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-unblock:
		case <-r.Context().Done():
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	call := async.CheckStatus(ctx, "abc")
	cancel()

	_, err := call.Wait()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CheckStatus() error = %v, want context.Canceled", err)
	}
}

func TestWithAsyncClient(t *testing.T) {
	srv := newTestServer(t, sendHandler)

	var captured *AsyncClient
	err := WithAsyncClient(context.Background(), testKey, func(ctx context.Context, c *AsyncClient) error {
		captured = c
		_, err := c.CheckQuota(ctx).Wait()
		return err
	}, WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("WithAsyncClient() error = %v", err)
	}

	if _, err := captured.CheckQuota(context.Background()).Wait(); !errors.Is(err, ErrClientClosed) {
		t.Errorf("client used after scope error = %v, want ErrClientClosed", err)
	}
}

func TestWithAsyncClient_ClosesOnError(t *testing.T) {
	srv := newTestServer(t, sendHandler)
	boom := errors.New("boom")

	var captured *AsyncClient
	err := WithAsyncClient(context.Background(), testKey, func(ctx context.Context, c *AsyncClient) error {
		captured = c
		return boom
	}, WithBaseURL(srv.URL))
	if !errors.Is(err, boom) {
		t.Fatalf("WithAsyncClient() error = %v, want boom", err)
	}
	if _, err := captured.CheckQuota(context.Background()).Wait(); !errors.Is(err, ErrClientClosed) {
		t.Errorf("client used after scope error = %v, want ErrClientClosed", err)
	}
}

func TestWithAsyncClient_MissingKey(t *testing.T) {
	called := false
	err := WithAsyncClient(context.Background(), "", func(context.Context, *AsyncClient) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("WithAsyncClient() error = %v, want ErrMissingAPIKey", err)
	}
	if called {
		t.Error("fn should not run without a client")
	}
}
