// Package policy derives the needs_review flag and normalizes classifier
// output. The rules here are deliberately decoupled from the raw has_ai
// answer: low confidence and errored rows are always flagged, so a
// low-confidence NO can never slip past review unseen.
package policy

import (
	"strings"
	"unicode"

	"github.com/felixgeelhaar/aiscan/internal/domain/classify"
)

// DefaultReasonMax is the default cap on reason text length, in runes.
const DefaultReasonMax = 256

// DeriveNeedsReview computes the review flag from a classification result.
// Pure function; rules apply in priority order:
//
//  1. an error was recorded → review
//  2. confidence is LOW → review
//  3. the answer is UNKNOWN → review
//  4. otherwise review iff the answer is YES
func DeriveNeedsReview(res classify.Result) bool {
	if res.RawError != "" {
		return true
	}
	if res.Confidence == classify.ConfidenceLow {
		return true
	}
	if res.HasAI == classify.HasAIUnknown {
		return true
	}
	return res.HasAI == classify.HasAIYes
}

// NormalizeReason trims reason to at most max runes, preferring a whitespace
// boundary in the tail of the window over a hard cut. It reports whether
// truncation occurred.
func NormalizeReason(reason string, max int) (string, bool) {
	if max <= 0 {
		max = DefaultReasonMax
	}
	reason = strings.TrimSpace(reason)

	runes := []rune(reason)
	if len(runes) <= max {
		return reason, false
	}

	window := runes[:max]
	cut := max
	for i := max - 1; i >= max/2; i-- {
		if unicode.IsSpace(window[i]) {
			cut = i
			break
		}
	}

	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace), true
}

// Review applies normalization and flag derivation in one step, producing the
// final reviewed record for a classified row.
func Review(res classify.Result, reasonMax int) (classify.Result, bool, bool) {
	normalized, truncated := NormalizeReason(res.Reason, reasonMax)
	res.Reason = normalized
	return res, DeriveNeedsReview(res), truncated
}
