// Package classify defines the classification outcome types produced for each
// software record: the tri-state AI assessment, the ordered confidence scale,
// and the reviewed record written to the results table.
package classify

import (
	"strings"

	"github.com/felixgeelhaar/aiscan/internal/domain/inventory"
)

// HasAI is the tri-state answer to "does this product embed AI features?".
type HasAI string

const (
	HasAIYes     HasAI = "YES"
	HasAINo      HasAI = "NO"
	HasAIUnknown HasAI = "UNKNOWN"
)

// ParseHasAI normalizes a free-text assessment into the closed tri-state.
// "YES" wins over "NO" when both appear, matching the conservative bias of
// the classification prompt. Anything unrecognizable is UNKNOWN.
func ParseHasAI(s string) HasAI {
	upper := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.Contains(upper, "YES"):
		return HasAIYes
	case strings.Contains(upper, "NO"):
		return HasAINo
	default:
		return HasAIUnknown
	}
}

// Confidence is the ordered certainty scale: LOW < MEDIUM < HIGH.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ParseConfidence normalizes a free-text confidence into the closed scale.
// Unrecognizable values degrade to LOW, which guarantees review.
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToUpper(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Rank returns the ordinal position of the confidence level (LOW=0, HIGH=2).
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Result is the classifier's answer for one record. RawError is populated
// when the external call failed, the response was malformed, or the record
// was short-circuited before reaching the service; it is never fatal to the
// run.
type Result struct {
	HasAI      HasAI
	Confidence Confidence
	Reason     string
	RawError   string
}

// ErrorResult builds the degraded result used for every row-level failure:
// UNKNOWN at LOW confidence with the failure recorded in RawError.
func ErrorResult(rawError string) Result {
	return Result{
		HasAI:      HasAIUnknown,
		Confidence: ConfidenceLow,
		RawError:   rawError,
	}
}

// ReviewedRecord is a software record enriched with its classification and
// the policy-derived review flag. NeedsReview is computed by the review
// policy, never copied from HasAI. Truncated records that the reason text was
// cut to the configured maximum.
type ReviewedRecord struct {
	Record      inventory.SoftwareRecord
	Result      Result
	NeedsReview bool
	Truncated   bool
}
