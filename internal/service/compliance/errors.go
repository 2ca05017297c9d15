package compliance

import "errors"

// Sentinel errors for the compliance service layer.
var (
	ErrNotFound = errors.New("do-not-contact entry not found")
)
