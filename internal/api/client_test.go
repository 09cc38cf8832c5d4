package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/textbelt-utils/client-go/internal/apierrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: ""})
	if err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://example.com/"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.httpClient == nil {
		t.Fatal("httpClient is nil")
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if !client.ownsHTTP {
		t.Error("client should own the http.Client it created")
	}
	if client.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL() = %s, want trailing slash trimmed", client.BaseURL())
	}
	if client.logger == nil {
		t.Error("logger is nil")
	}
}

func TestNewClient_CustomValues(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}

	client, err := NewClient(Config{
		BaseURL:    "https://custom.example.com",
		HTTPClient: custom,
		Timeout:    5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.httpClient != custom {
		t.Error("httpClient not set correctly")
	}
	if client.ownsHTTP {
		t.Error("client must not own a caller-supplied http.Client")
	}
	// Timeout only applies to the owned client.
	if custom.Timeout != 60*time.Second {
		t.Errorf("custom timeout modified to %v", custom.Timeout)
	}
}

func TestPostForm_SendsFormBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %s", ct)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %s, want application/json", r.Header.Get("Accept"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if r.PostForm.Get("phone") != "+15555550100" {
			t.Errorf("phone = %s", r.PostForm.Get("phone"))
		}
		w.Write([]byte(`{"success":true}`))
	})

	resp, err := client.PostForm(context.Background(), "test", "/text", url.Values{"phone": {"+15555550100"}})
	if err != nil {
		t.Fatalf("PostForm() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"success":true}` {
		t.Errorf("Body = %s", resp.Body)
	}
}

func TestGet_EncodesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Query().Get("otp") != "123456" {
			t.Errorf("otp query = %s", r.URL.Query().Get("otp"))
		}
		w.Write([]byte(`{}`))
	})

	if _, err := client.Get(context.Background(), "test", "/otp/verify", url.Values{"otp": {"123456"}}); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, _ := NewClient(Config{BaseURL: baseURL})
	_, err := client.Get(context.Background(), "test", "/quota/secret-key", nil)

	var netErr *apierrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.URL != baseURL+"/quota/REDACTED" {
		t.Errorf("URL = %s, want key redacted", netErr.URL)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := client.Get(ctx, "test", "/status/1", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	var netErr *apierrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("error = %T, want *NetworkError", err)
	}
}

func TestCloseIdleConnections_OwnedOnly(t *testing.T) {
	owned, _ := NewClient(Config{BaseURL: "https://example.com"})
	owned.CloseIdleConnections()

	custom, _ := NewClient(Config{BaseURL: "https://example.com", HTTPClient: &http.Client{}})
	custom.CloseIdleConnections()
}

func TestRedactURL(t *testing.T) {
	u, _ := url.Parse("https://textbelt.com/otp/verify?otp=1&key=secret")
	if got := redactURL(u); got != "https://textbelt.com/otp/verify" {
		t.Errorf("redactURL() = %s", got)
	}
	u, _ = url.Parse("https://textbelt.com/quota/secret")
	if got := redactURL(u); got != "https://textbelt.com/quota/REDACTED" {
		t.Errorf("redactURL() = %s", got)
	}
}
