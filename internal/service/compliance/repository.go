package compliance

import (
	"context"

	"github.com/ignite/outreach-crm/internal/domain"
)

// Repository defines the data access contract for the global
// do-not-contact list.
type Repository interface {
	// IsBlocked reports whether the value is on the global list.
	// Matching is a case-sensitive exact match on the stored value.
	IsBlocked(ctx context.Context, value string) (bool, error)

	// Add puts a value on the list. If it already exists, the existing
	// entry is preserved (idempotent).
	Add(ctx context.Context, e *domain.DncEntry) error

	// Remove deletes an entry. Returns ErrNotFound if it doesn't exist.
	Remove(ctx context.Context, value string) error

	// List returns all entries, newest first.
	List(ctx context.Context) ([]domain.DncEntry, error)
}
