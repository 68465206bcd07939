package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestShopifySourceSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2025-07/graphql.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body.Variables["query"] != `velvet "sofa"` {
			t.Errorf("Expected prompt passed as variable, got %v", body.Variables["query"])
		}
		if body.Variables["first"] != float64(15) {
			t.Errorf("Expected first=15, got %v", body.Variables["first"])
		}

		_, _ = w.Write([]byte(`{"data":{"products":{"edges":[
			{"node":{"id":"gid://shopify/Product/7198596628549","title":"Avery Sofa","description":"Velvet","productType":"Sofas",
			 "images":{"edges":[{"node":{"url":"https://cdn.example/sofa.jpg"}}]},
			 "variants":{"edges":[{"node":{"price":{"amount":"499.00","currencyCode":"CAD"}}}]}}},
			{"node":{"id":"gid://shopify/Product/2","title":"Plain","description":"","productType":"",
			 "images":{"edges":[]},"variants":{"edges":[]}}}
		]}}}`))
	}))
	defer server.Close()

	source := NewShopifySource("furniturebarn", "", time.Second)
	source.BaseURL = server.URL

	got, err := source.Search(context.Background(), `velvet "sofa"`, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(got))
	}

	sofa := got[0]
	if sofa.ID != "7198596628549" {
		t.Errorf("Expected normalized ID, got %s", sofa.ID)
	}
	if sofa.ImageURL != "https://cdn.example/sofa.jpg" || sofa.Price != "499.00" || sofa.CurrencyCode != "CAD" {
		t.Errorf("unexpected item: %+v", sofa)
	}
	if sofa.Source != "furniturebarn" || sofa.Category != "Sofas" {
		t.Errorf("unexpected source/category: %+v", sofa)
	}
	if got[1].ImageURL != "" || got[1].Price != "" {
		t.Errorf("Expected empty image and price, got %+v", got[1])
	}
}

func TestShopifySourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non-200", status: http.StatusServiceUnavailable, body: "down"},
		{name: "graphql errors", status: http.StatusOK, body: `{"errors":[{"message":"throttled"}]}`},
		{name: "missing products", status: http.StatusOK, body: `{"data":{}}`},
		{name: "malformed", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			source := NewShopifySource("shop", "", time.Second)
			source.BaseURL = server.URL
			if _, err := source.Search(context.Background(), "lamp", 5); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
