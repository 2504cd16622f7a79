package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainai "github.com/felixgeelhaar/aiscan/internal/domain/ai"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/ai"
)

func chatAnswer(content string, promptTokens, completionTokens int) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"role": "assistant", "content": content}},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
		},
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)                   //nolint:errcheck // test capture
		json.NewEncoder(w).Encode(chatAnswer("HAS_AI: NO", 12, 4)) //nolint:errcheck // test answer
	}))
	defer server.Close()

	provider := ai.NewOpenAIProvider("gpt-4o-mini", "sk-test")
	provider.BaseURL = server.URL

	resp, err := provider.Complete(context.Background(), domainai.CompletionRequest{
		Prompt:    "assess this",
		System:    "you are an analyst",
		MaxTokens: 300,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if resp.Text != "HAS_AI: NO" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 4 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestOpenAIProvider_StatusErrors(t *testing.T) {
	tests := []struct {
		status        int
		wantTransient bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusTooManyRequests, true},
		{http.StatusRequestTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		provider := ai.NewOpenAIProvider("", "sk-test")
		provider.BaseURL = server.URL

		_, err := provider.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"})
		server.Close()

		var statusErr *ai.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: err = %v, want StatusError", tt.status, err)
		}
		if statusErr.Transient() != tt.wantTransient {
			t.Errorf("status %d: Transient() = %v, want %v", tt.status, statusErr.Transient(), tt.wantTransient)
		}
		if domainai.IsTransient(err) != tt.wantTransient {
			t.Errorf("status %d: IsTransient = %v, want %v", tt.status, domainai.IsTransient(err), tt.wantTransient)
		}
	}
}

func TestOpenAIProvider_MissingKey(t *testing.T) {
	provider := &ai.OpenAIProvider{Model: "gpt-4o"}

	if _, err := provider.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}}) //nolint:errcheck // test answer
	}))
	defer server.Close()

	provider := ai.NewOpenAIProvider("", "sk-test")
	provider.BaseURL = server.URL

	if _, err := provider.Complete(context.Background(), domainai.CompletionRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
