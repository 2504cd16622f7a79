package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/aiscan/internal/domain/ai"
)

const defaultAzureAPIVersion = "2024-02-15-preview"

// AzureOpenAIProvider is the managed-cloud scheme: a tenant-specific endpoint,
// an API key, and a model deployment name.
type AzureOpenAIProvider struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

func NewAzureOpenAIProvider(endpoint, apiKey, deployment string) *AzureOpenAIProvider {
	return &AzureOpenAIProvider{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     apiKey,
		Deployment: deployment,
		APIVersion: defaultAzureAPIVersion,
	}
}

func (p *AzureOpenAIProvider) ID() string {
	return "azure:" + p.Deployment
}

func (p *AzureOpenAIProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if p.Endpoint == "" || p.APIKey == "" || p.Deployment == "" {
		return nil, fmt.Errorf("Azure OpenAI requires endpoint, API key and deployment (set AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, AZURE_OPENAI_DEPLOYMENT)")
	}

	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	// The deployment selects the model on the Azure side; the request body
	// carries no model field.
	body, err := json.Marshal(chatRequest{
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	apiVersion := p.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAzureAPIVersion
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(p.Endpoint, "/"), p.Deployment, apiVersion)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", p.APIKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read body

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: "Azure OpenAI", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, err
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("Azure OpenAI API returned no choices")
	}

	return &ai.CompletionResponse{
		Text:  chatResp.Choices[0].Message.Content,
		Model: p.Deployment,
		Usage: ai.TokenUsage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
		},
	}, nil
}
