package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roomcraft/roomcraft/internal/providers"
)

func TestGenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req["system"] != "persona" {
			t.Errorf("Expected system prompt, got %v", req["system"])
		}
		if req["format"] != "json" {
			t.Errorf("Expected json format, got %v", req["format"])
		}
		if req["stream"] != false {
			t.Errorf("Expected stream=false, got %v", req["stream"])
		}
		_, _ = w.Write([]byte(`{"response":"hello"}`))
	}))
	defer server.Close()

	t.Setenv("OLLAMA_URL", server.URL)

	text, err := New().GenerateText(context.Background(), providers.Config{
		Model:  "mistral",
		System: "persona",
		Prompt: "prompt",
		JSON:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("Expected hello, got %q", text)
	}
}

func TestGenerateTextNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	t.Setenv("OLLAMA_URL", server.URL)

	if _, err := New().GenerateText(context.Background(), providers.Config{Prompt: "x"}); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
