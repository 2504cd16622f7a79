package ai

import (
	"context"
	"errors"
	"net"
)

// TransientError is implemented by provider errors that know whether a later
// attempt could succeed.
type TransientError interface {
	Transient() bool
}

// IsTransient reports whether a provider error should be retried. Errors
// that self-classify are asked; timeouts and transport-level failures are
// transient by default.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te TransientError
	if errors.As(err, &te) {
		return te.Transient()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Remaining failures are transport-level (connection refused, DNS,
	// closed body) and may clear on a later attempt.
	return true
}
