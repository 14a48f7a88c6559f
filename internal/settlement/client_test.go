package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHTTPClientLoad(t *testing.T) {
	var captured struct {
		method string
		path   string
		auth   string
		body   map[string]any
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"approved","reference":"ref-1"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret-token")
	payload, err := client.Load(context.Background(), LoadRequest{
		FromAccountID: "bank1",
		WalletID:      "w1",
		Amount:        decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if captured.method != http.MethodPost || captured.path != "/external-load" {
		t.Fatalf("unexpected request %s %s", captured.method, captured.path)
	}
	if captured.auth != "Bearer secret-token" {
		t.Fatalf("unexpected auth header %q", captured.auth)
	}
	if captured.body["fromAccountId"] != "bank1" || captured.body["walletId"] != "w1" {
		t.Fatalf("unexpected body %v", captured.body)
	}
	if captured.body["externalServiceName"] != "Bank" || captured.body["externalServiceType"] != "BANK" {
		t.Fatalf("service fields not set: %v", captured.body)
	}

	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded["status"] != "approved" {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestHTTPClientLoadNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"downstream unavailable"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "")
	_, err := client.Load(context.Background(), LoadRequest{FromAccountID: "bank1", WalletID: "w1", Amount: decimal.NewFromInt(5)})
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}

	var settlementErr *Error
	if !errors.As(err, &settlementErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if settlementErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", settlementErr.StatusCode)
	}
	if !strings.Contains(settlementErr.Detail, "downstream unavailable") {
		t.Fatalf("expected upstream detail, got %q", settlementErr.Detail)
	}
}

func TestHTTPClientLoadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // force a connection failure

	client := NewHTTPClient(srv.URL, "")
	_, err := client.Load(context.Background(), LoadRequest{FromAccountID: "bank1", WalletID: "w1", Amount: decimal.NewFromInt(5)})

	var settlementErr *Error
	if !errors.As(err, &settlementErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if settlementErr.StatusCode != 0 {
		t.Fatalf("transport errors carry no status, got %d", settlementErr.StatusCode)
	}
}
