package policy_test

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/aiscan/internal/domain/classify"
	"github.com/felixgeelhaar/aiscan/internal/domain/policy"
)

func TestDeriveNeedsReview(t *testing.T) {
	tests := []struct {
		name string
		res  classify.Result
		want bool
	}{
		{"error always flags", classify.Result{HasAI: classify.HasAINo, Confidence: classify.ConfidenceHigh, RawError: "boom"}, true},
		{"low confidence flags", classify.Result{HasAI: classify.HasAINo, Confidence: classify.ConfidenceLow}, true},
		{"low confidence no cannot slip past", classify.Result{HasAI: classify.HasAINo, Confidence: classify.ConfidenceLow, Reason: "probably fine"}, true},
		{"unknown flags", classify.Result{HasAI: classify.HasAIUnknown, Confidence: classify.ConfidenceHigh}, true},
		{"confident yes flags", classify.Result{HasAI: classify.HasAIYes, Confidence: classify.ConfidenceHigh}, true},
		{"medium yes flags", classify.Result{HasAI: classify.HasAIYes, Confidence: classify.ConfidenceMedium}, true},
		{"confident no passes", classify.Result{HasAI: classify.HasAINo, Confidence: classify.ConfidenceHigh}, false},
		{"medium no passes", classify.Result{HasAI: classify.HasAINo, Confidence: classify.ConfidenceMedium}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.DeriveNeedsReview(tt.res); got != tt.want {
				t.Errorf("DeriveNeedsReview(%+v) = %v, want %v", tt.res, got, tt.want)
			}
		})
	}
}

func TestNormalizeReason(t *testing.T) {
	t.Run("short reason passes through", func(t *testing.T) {
		got, truncated := policy.NormalizeReason("uses an embedded transcription model", 256)
		if truncated {
			t.Error("expected no truncation")
		}
		if got != "uses an embedded transcription model" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("exact limit is not truncated", func(t *testing.T) {
		reason := strings.Repeat("a", 256)
		got, truncated := policy.NormalizeReason(reason, 256)
		if truncated || got != reason {
			t.Errorf("got truncated=%v len=%d", truncated, len(got))
		}
	})

	t.Run("truncates at whitespace boundary", func(t *testing.T) {
		reason := strings.Repeat("word ", 100)
		got, truncated := policy.NormalizeReason(reason, 32)
		if !truncated {
			t.Fatal("expected truncation")
		}
		if len([]rune(got)) > 32 {
			t.Errorf("result too long: %d runes", len([]rune(got)))
		}
		if strings.HasSuffix(got, " ") {
			t.Errorf("trailing whitespace left behind: %q", got)
		}
		if !strings.HasSuffix(got, "word") {
			t.Errorf("cut mid-word: %q", got)
		}
	})

	t.Run("hard cut when no whitespace in window", func(t *testing.T) {
		reason := strings.Repeat("x", 400)
		got, truncated := policy.NormalizeReason(reason, 100)
		if !truncated {
			t.Fatal("expected truncation")
		}
		if len([]rune(got)) != 100 {
			t.Errorf("expected hard cut at 100 runes, got %d", len([]rune(got)))
		}
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		reason := strings.Repeat("ü", 300)
		got, truncated := policy.NormalizeReason(reason, 100)
		if !truncated {
			t.Fatal("expected truncation")
		}
		if n := len([]rune(got)); n != 100 {
			t.Errorf("expected 100 runes, got %d", n)
		}
	})

	t.Run("zero max falls back to default", func(t *testing.T) {
		reason := strings.Repeat("a", policy.DefaultReasonMax+10)
		got, truncated := policy.NormalizeReason(reason, 0)
		if !truncated {
			t.Fatal("expected truncation at default max")
		}
		if len([]rune(got)) > policy.DefaultReasonMax {
			t.Errorf("result exceeds default max: %d", len([]rune(got)))
		}
	})
}

func TestReview(t *testing.T) {
	res := classify.Result{
		HasAI:      classify.HasAINo,
		Confidence: classify.ConfidenceHigh,
		Reason:     strings.Repeat("safe product with no learning features ", 20),
	}

	reviewed, needsReview, truncated := policy.Review(res, 64)
	if needsReview {
		t.Error("confident NO should not need review")
	}
	if !truncated {
		t.Error("expected the long reason to be truncated")
	}
	if len([]rune(reviewed.Reason)) > 64 {
		t.Errorf("reason not capped: %d runes", len([]rune(reviewed.Reason)))
	}
}
