package outreach

import (
	"errors"
	"strings"
)

// Sentinel errors for the outreach service layer.
var (
	// ErrNotFound means a referenced target, contact, or draft is absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means a state machine precondition was violated.
	// It indicates a caller bug and is never retried.
	ErrInvalidTransition = errors.New("invalid draft state transition")

	// ErrRateLimited means the daily send limit is consumed. The draft is
	// untouched; the request may be retried after the UTC day rolls over.
	ErrRateLimited = errors.New("daily send limit reached")

	// ErrNoRecipient means an email-channel draft has no contact email and
	// no target general email. The draft stays approved.
	ErrNoRecipient = errors.New("no recipient email available")
)

// ComplianceError is returned when a send attempt fails compliance
// re-validation. The draft has already transitioned to failed; the warnings
// carry the triggering reasons.
type ComplianceError struct {
	Warnings []string
}

func (e *ComplianceError) Error() string {
	return "compliance violation: " + strings.Join(e.Warnings, "; ")
}
