package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainai "github.com/felixgeelhaar/aiscan/internal/domain/ai"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/ai"
)

func TestAzureOpenAIProvider_Complete(t *testing.T) {
	var gotPath, gotKey, gotAPIVersion string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		gotAPIVersion = r.URL.Query().Get("api-version")
		json.NewDecoder(r.Body).Decode(&gotBody)                          //nolint:errcheck // test capture
		json.NewEncoder(w).Encode(chatAnswer(`{"has_ai": "YES"}`, 20, 8)) //nolint:errcheck // test answer
	}))
	defer server.Close()

	provider := ai.NewAzureOpenAIProvider(server.URL+"/", "azure-key", "gpt-4o-scan")

	resp, err := provider.Complete(context.Background(), domainai.CompletionRequest{
		Prompt: "assess this",
		System: "you are an analyst",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if gotPath != "/openai/deployments/gpt-4o-scan/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "azure-key" {
		t.Errorf("api-key = %q", gotKey)
	}
	if gotAPIVersion == "" {
		t.Error("api-version query parameter missing")
	}
	// The deployment selects the model on the Azure side.
	if _, ok := gotBody["model"]; ok {
		t.Errorf("request body carries a model field: %v", gotBody["model"])
	}
	if resp.Model != "gpt-4o-scan" {
		t.Errorf("model = %q", resp.Model)
	}
	if resp.Usage.InputTokens != 20 || resp.Usage.OutputTokens != 8 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestAzureOpenAIProvider_IncompleteConfig(t *testing.T) {
	provider := ai.NewAzureOpenAIProvider("https://tenant.openai.azure.com", "", "gpt-4o-scan")

	if _, err := provider.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error without API key")
	}
}
