package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/aiscan/internal/domain/ai"
	"github.com/felixgeelhaar/aiscan/internal/domain/classify"
	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
)

// Row-level error markers recorded in raw_error. These degrade a single row;
// they never abort the run.
const (
	RawErrMissingFields     = "missing identifying fields"
	RawErrSpreadsheetMarker = "input contains spreadsheet error marker"
	RawErrMalformedResponse = "malformed classifier response"
)

// responseSchema validates the shape of the classifier's JSON answer before
// it is accepted. Field values are normalized afterwards, so the schema only
// pins types and presence.
var responseSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["has_ai", "confidence", "reason"],
	"properties": {
		"has_ai":     {"type": "string"},
		"confidence": {"type": "string"},
		"reason":     {"type": "string"}
	}
}`)

// classifierResponse is the JSON answer requested from the reasoning service.
type classifierResponse struct {
	HasAI      string `json:"has_ai"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

// ClassifierService asks the reasoning service whether one software record
// embeds AI features. Unusable records are short-circuited locally and never
// reach the provider. Transport failures surface as errors so the caller can
// retry; every content-level failure degrades to a raw_error result instead.
type ClassifierService struct {
	provider ai.Provider
}

func NewClassifierService(provider ai.Provider) *ClassifierService {
	return &ClassifierService{provider: provider}
}

// ProviderID identifies the backing provider for summaries and audit events.
func (s *ClassifierService) ProviderID() string {
	return s.provider.ID()
}

// Classify assesses one record. The returned error is non-nil only for
// provider/transport failures; short circuits and malformed answers come
// back as degraded results with RawError set.
func (s *ClassifierService) Classify(ctx context.Context, rec inventory.SoftwareRecord) (classify.Result, ai.TokenUsage, error) {
	if !rec.Identifiable() {
		return classify.ErrorResult(RawErrMissingFields), ai.TokenUsage{}, nil
	}
	if rec.HasErrorMarker() {
		return classify.ErrorResult(RawErrSpreadsheetMarker), ai.TokenUsage{}, nil
	}

	resp, err := s.provider.Complete(ctx, ai.CompletionRequest{
		Prompt:    buildPrompt(rec),
		System:    systemPrompt,
		MaxTokens: 300,
	})
	if err != nil {
		return classify.Result{}, ai.TokenUsage{}, fmt.Errorf("classifier request: %w", err)
	}

	result, ok := parseResponse(resp.Text)
	if !ok {
		return classify.ErrorResult(RawErrMalformedResponse), resp.Usage, nil
	}

	return result, resp.Usage, nil
}

const systemPrompt = "You are a software analyst checking if applications contain AI/ML features. " +
	"You respond ONLY with a JSON object."

func buildPrompt(rec inventory.SoftwareRecord) string {
	var b strings.Builder

	b.WriteString("For the following software, determine if it contains any embedded AI, machine learning,\n")
	b.WriteString("or features that might send data to AI cloud services.\n\nSOFTWARE:\n")
	b.WriteString(strings.TrimSpace(rec.Vendor + " " + rec.Product))
	if rec.Description != "" {
		b.WriteString("\nDescription: ")
		b.WriteString(rec.Description)
	}

	b.WriteString(`

Consider things like:
- Voice transcription or speech-to-text
- AI-powered assistants or chatbots (e.g., Copilot, Assistant features)
- Machine learning models for predictions/recommendations
- AI image/document processing or OCR with AI
- Natural language processing features
- Cloud-based AI APIs the software might use
- Smart/intelligent automation features
- Computer vision or image recognition

Respond with a single JSON object in this exact format:
{"has_ai": "YES or NO or UNKNOWN", "confidence": "HIGH, MEDIUM, or LOW", "reason": "One sentence explaining your assessment"}

Be conservative - if there's a reasonable chance it has AI features, say YES.
If you don't recognize the software, say UNKNOWN.`)

	return b.String()
}

// parseResponse extracts the structured answer. It accepts the requested
// JSON object (validated against responseSchema) and falls back to the
// legacy HAS_AI/CONFIDENCE/REASON line protocol some models produce anyway.
func parseResponse(text string) (classify.Result, bool) {
	clean := stripCodeFence(text)

	if res, err := gojsonschema.Validate(responseSchema, gojsonschema.NewStringLoader(clean)); err == nil && res.Valid() {
		var parsed classifierResponse
		if err := json.Unmarshal([]byte(clean), &parsed); err == nil {
			return classify.Result{
				HasAI:      classify.ParseHasAI(parsed.HasAI),
				Confidence: classify.ParseConfidence(parsed.Confidence),
				Reason:     strings.TrimSpace(parsed.Reason),
			}, true
		}
	}

	return parseLineProtocol(clean)
}

// parseLineProtocol handles the three-line answer format. A response missing
// the HAS_AI line carries no usable assessment and is rejected.
func parseLineProtocol(text string) (classify.Result, bool) {
	var result classify.Result
	found := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "HAS_AI:"):
			result.HasAI = classify.ParseHasAI(line[len("HAS_AI:"):])
			found = true
		case strings.HasPrefix(upper, "CONFIDENCE:"):
			result.Confidence = classify.ParseConfidence(line[len("CONFIDENCE:"):])
		case strings.HasPrefix(upper, "REASON:"):
			result.Reason = strings.TrimSpace(line[len("REASON:"):])
		}
	}

	if !found {
		return classify.Result{}, false
	}

	if result.Confidence == "" {
		result.Confidence = classify.ConfidenceLow
	}

	return result, true
}

func stripCodeFence(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
