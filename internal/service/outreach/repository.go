package outreach

import (
	"context"
	"time"

	"github.com/ignite/outreach-crm/internal/domain"
)

// Repository defines the data access contract for the draft lifecycle.
// Implementations must provide read-your-writes within one call.
type Repository interface {
	// GetTarget returns a target by id, or ErrNotFound.
	GetTarget(ctx context.Context, id string) (*domain.Target, error)

	// GetContact returns a contact by id, or ErrNotFound.
	GetContact(ctx context.Context, id string) (*domain.Contact, error)

	// InsertDraft persists a newly composed draft.
	InsertDraft(ctx context.Context, d *domain.OutreachDraft) error

	// GetDraft returns a draft by id, or ErrNotFound.
	GetDraft(ctx context.Context, id string) (*domain.OutreachDraft, error)

	// UpdateDraft persists approval/queue state changes.
	UpdateDraft(ctx context.Context, d *domain.OutreachDraft) error

	// ListDrafts returns drafts, optionally filtered by status (empty
	// status means all), newest first.
	ListDrafts(ctx context.Context, status domain.DraftStatus) ([]domain.OutreachDraft, error)

	// CountQueuedDrafts returns how many drafts currently sit in the
	// queued state, for the creation-time capacity warning.
	CountQueuedDrafts(ctx context.Context) (int, error)

	// FinalizeSend commits the outcome of one send attempt atomically:
	// the draft update, the appended event, and (when markContacted is
	// set) the target's new→contacted advance all land together or not
	// at all.
	FinalizeSend(ctx context.Context, draft *domain.OutreachDraft, event *domain.OutreachEvent, markContacted bool) error

	// ListEvents returns the outreach events for a target, newest first.
	ListEvents(ctx context.Context, targetID string) ([]domain.OutreachEvent, error)

	// UpdateEventOutcome records a later response on an event. Only the
	// outcome and responded-at fields are mutable.
	UpdateEventOutcome(ctx context.Context, eventID string, outcome domain.Outcome, respondedAt *time.Time) error
}
