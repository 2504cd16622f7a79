package ai

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/felixgeelhaar/aiscan/internal/domain/ai"
)

// MockProvider is a deterministic offline stub: the same prompt always yields
// the same answer, which makes reruns byte-identical. Useful for dry runs and
// pipeline tests without credentials.
type MockProvider struct {
	Model string
}

func (m *MockProvider) ID() string {
	model := m.Model
	if model == "" {
		model = "mock-model"
	}
	return "mock:" + model
}

func (m *MockProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	h := fnv.New32a()
	h.Write([]byte(req.Prompt))

	var hasAI, confidence string
	switch h.Sum32() % 3 {
	case 0:
		hasAI, confidence = "YES", "MEDIUM"
	case 1:
		hasAI, confidence = "NO", "HIGH"
	default:
		hasAI, confidence = "UNKNOWN", "LOW"
	}

	text := fmt.Sprintf(`{"has_ai": %q, "confidence": %q, "reason": "Deterministic mock assessment; no external service was consulted."}`,
		hasAI, confidence)

	return &ai.CompletionResponse{
		Text:  text,
		Model: "mock-model",
		Usage: ai.TokenUsage{InputTokens: len(req.Prompt) / 4, OutputTokens: len(text) / 4},
	}, nil
}
