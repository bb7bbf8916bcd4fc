package wisdom

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timeflow/internal/domain"
)

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "Flow around the obstacle."}},
				},
			}},
		})
	}))
	defer srv.Close()

	client, err := NewGemini(GeminiOptions{APIKey: "gk", BaseURL: srv.URL, Model: "gemini-1.5-flash"})
	if err != nil {
		t.Fatalf("NewGemini error: %v", err)
	}
	text, err := client.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if text != "Flow around the obstacle." {
		t.Fatalf("Generate = %q", text)
	}
	if !strings.HasSuffix(gotPath, "/models/gemini-1.5-flash:generateContent") {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "gk" {
		t.Fatalf("x-goog-api-key = %q", gotKey)
	}
}

func TestGeminiGenerateNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewGemini(GeminiOptions{APIKey: "gk", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini error: %v", err)
	}
	if _, err := client.Generate(context.Background(), sampleRequest()); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("Generate error = %v, want ErrProviderFailure", err)
	}
}

func TestGeminiGenerateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client, err := NewGemini(GeminiOptions{APIKey: "gk", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGemini error: %v", err)
	}
	if _, err := client.Generate(context.Background(), sampleRequest()); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("Generate error = %v, want ErrProviderFailure", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	gen, err := New(Config{Provider: "anthropic", AnthropicAPIKey: "k"})
	if err != nil {
		t.Fatalf("New(anthropic) error: %v", err)
	}
	if gen.Name() != anthropicProviderName {
		t.Fatalf("Name() = %q", gen.Name())
	}
	gen, err = New(Config{Provider: "gemini", GeminiAPIKey: "gk"})
	if err != nil {
		t.Fatalf("New(gemini) error: %v", err)
	}
	if gen.Name() != geminiProviderName {
		t.Fatalf("Name() = %q", gen.Name())
	}
	if _, err := New(Config{Provider: "oracle"}); err == nil {
		t.Fatalf("New(oracle) should fail")
	}
}
