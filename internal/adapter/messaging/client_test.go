package messaging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPSenderValidatesURL(t *testing.T) {
	if _, err := NewHTTPSender("://bad-url", "", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPSender("/relative", "", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestSend(t *testing.T) {
	var got sendRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewHTTPSender(srv.URL, "token-1", testLogger())
	if err != nil {
		t.Fatalf("failed to create sender: %v", err)
	}

	err = sender.Send(context.Background(), Message{
		Phone:    "9990001111",
		Template: "store-owner-new-order",
		Params:   []string{"#Order_000010"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.To != "9990001111" || got.Template != "store-owner-new-order" {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Params) != 1 || got.Params[0] != "#Order_000010" {
		t.Fatalf("unexpected params %v", got.Params)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("unexpected authorization %q", gotAuth)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	sender, err := NewHTTPSender("https://messaging.example.com", "", testLogger())
	if err != nil {
		t.Fatalf("failed to create sender: %v", err)
	}
	if err := sender.Send(context.Background(), Message{Template: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad template", http.StatusBadRequest)
	}))
	defer srv.Close()

	sender, err := NewHTTPSender(srv.URL, "", testLogger())
	if err != nil {
		t.Fatalf("failed to create sender: %v", err)
	}
	if err := sender.Send(context.Background(), Message{Phone: "9990001111", Template: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNoopSender(t *testing.T) {
	if err := (NoopSender{}).Send(context.Background(), Message{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
