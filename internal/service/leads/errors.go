package leads

import "errors"

var (
	// ErrNotFound indicates the requested suggestion or target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyResolved indicates the suggestion has left the new state and
	// cannot be reviewed again.
	ErrAlreadyResolved = errors.New("suggestion already resolved")

	// ErrReasonRequired indicates a rejection was submitted without a reason.
	ErrReasonRequired = errors.New("rejection reason required")
)
