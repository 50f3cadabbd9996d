package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(server *httptest.Server) *Client {
	return New(Options{BaseURL: server.URL + "/api/", HTTPClient: server.Client()})
}

func TestFetchConfigTreatsMissingFieldsAsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"gemini_api_key":"AIzaSy-test","openai_api_key":null}`))
	}))
	defer server.Close()

	cfg, err := newTestClient(server).FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("fetch config failed: %v", err)
	}
	if cfg.GeminiAPIKey != "AIzaSy-test" {
		t.Fatalf("unexpected gemini key: %q", cfg.GeminiAPIKey)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Fatalf("expected empty openai key, got %q", cfg.OpenAIAPIKey)
	}
}

func TestSaveConfigSendsBothKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/config" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["gemini_api_key"] != "g" || payload["openai_api_key"] != "" {
			t.Fatalf("unexpected payload: %#v", payload)
		}
		if _, ok := payload["openai_api_key"]; !ok {
			t.Fatal("openai_api_key must always be sent")
		}
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	if err := newTestClient(server).SaveConfig(context.Background(), Config{GeminiAPIKey: "g"}); err != nil {
		t.Fatalf("save config failed: %v", err)
	}
}

func TestSaveConfigNon2xxIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Failed to save configuration."}`))
	}))
	defer server.Close()

	err := newTestClient(server).SaveConfig(context.Background(), Config{})
	var svc *ServiceError
	if !errors.As(err, &svc) {
		t.Fatalf("expected ServiceError, got %T (%v)", err, err)
	}
	if svc.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", svc.StatusCode)
	}
	if svc.Detail != "Failed to save configuration." {
		t.Fatalf("unexpected detail: %q", svc.Detail)
	}
}

func TestSummarizeReturnsSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/summarize" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var payload SummarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.URL != "https://youtu.be/abc" || payload.Provider != ProviderGemini || payload.PromptSupplement != "" {
			t.Fatalf("unexpected payload: %#v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":"# Title\n..."}`))
	}))
	defer server.Close()

	summary, err := newTestClient(server).Summarize(context.Background(), SummarizeRequest{
		URL:      "https://youtu.be/abc",
		Provider: ProviderGemini,
	})
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary != "# Title\n..." {
		t.Fatalf("unexpected summary: %q", summary)
	}
}

func TestSummarizeSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"quota exceeded"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Summarize(context.Background(), SummarizeRequest{URL: "x", Provider: ProviderOpenAI})
	detail, ok := ServiceDetail(err)
	if !ok || detail != "quota exceeded" {
		t.Fatalf("expected quota detail, got %q (%v)", detail, err)
	}
	if err.Error() != "quota exceeded" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestSummarizeValidationDetailList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","url"],"msg":"field required","type":"value_error.missing"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Summarize(context.Background(), SummarizeRequest{URL: "x", Provider: ProviderGemini})
	if detail, ok := ServiceDetail(err); !ok || detail != "field required" {
		t.Fatalf("expected first validation msg, got %q (%v)", detail, err)
	}
}

func TestSummarizeWithoutDetailFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Summarize(context.Background(), SummarizeRequest{URL: "x", Provider: ProviderGemini})
	if _, ok := ServiceDetail(err); ok {
		t.Fatal("html body should not produce a detail")
	}
	if err == nil || err.Error() != "request failed with status code 502" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSummarizeMissingSummaryField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Summarize(context.Background(), SummarizeRequest{URL: "x", Provider: ProviderGemini})
	if !errors.Is(err, ErrEmptySummary) {
		t.Fatalf("expected ErrEmptySummary, got %v", err)
	}
}

func TestTransportErrorOnUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(Options{BaseURL: url})
	_, err := client.FetchConfig(context.Background())
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %T (%v)", err, err)
	}
	if transport.Op != "fetch config" {
		t.Fatalf("unexpected op: %s", transport.Op)
	}
}

func TestTransportErrorReportsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestClient(server).Summarize(ctx, SummarizeRequest{URL: "x", Provider: ProviderGemini})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}
