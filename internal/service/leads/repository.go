package leads

import (
	"context"

	"github.com/ignite/outreach-crm/internal/domain"
)

// Repository is the persistence surface the scoring engine needs. A method
// returning a missing row wraps ErrNotFound.
type Repository interface {
	// ListTargets returns every target.
	ListTargets(ctx context.Context) ([]domain.Target, error)
	// GetTarget returns one target by id.
	GetTarget(ctx context.Context, id string) (*domain.Target, error)
	// UpdateTargetStatus advances a target's pipeline status.
	UpdateTargetStatus(ctx context.Context, id string, status domain.TargetStatus) error
	// ListContacts returns a target's contacts.
	ListContacts(ctx context.Context, targetID string) ([]domain.Contact, error)
	// InsertContact persists a new contact.
	InsertContact(ctx context.Context, c *domain.Contact) error

	// SuggestedTargetIDs returns the set of target ids that already have a
	// suggestion, in any status.
	SuggestedTargetIDs(ctx context.Context) (map[string]bool, error)
	// InsertSuggestion persists a new suggestion.
	InsertSuggestion(ctx context.Context, s *domain.LeadSuggestion) error
	// GetSuggestion returns one suggestion by id.
	GetSuggestion(ctx context.Context, id string) (*domain.LeadSuggestion, error)
	// UpdateSuggestion persists review-state changes.
	UpdateSuggestion(ctx context.Context, s *domain.LeadSuggestion) error
	// ListSuggestions returns suggestions, optionally filtered by status
	// (empty means all), ordered by score descending.
	ListSuggestions(ctx context.Context, status domain.SuggestionStatus) ([]domain.LeadSuggestion, error)
}
