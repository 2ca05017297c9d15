package compliance

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignite/outreach-crm/internal/domain"
)

// Service implements compliance business logic. It is safe for concurrent
// use. All methods are read-only against the blocklist.
type Service struct {
	repo Repository
}

// NewService creates a compliance service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Check evaluates a target, an optional contact, and the candidate
// recipient identifiers against the do-not-contact rules. Every rule is
// evaluated (warnings accumulate rather than short-circuit) and the
// returned order is stable: target flag, contact flag, then blocklist hits
// in recipient order. An empty result means the pair is compliant.
func (s *Service) Check(ctx context.Context, target domain.Target, contact *domain.Contact, recipients []string) ([]string, error) {
	var warnings []string

	if target.DoNotContact {
		warnings = append(warnings, fmt.Sprintf("target %q is flagged do-not-contact", target.Name))
	}
	if contact != nil && contact.DoNotContact {
		warnings = append(warnings, fmt.Sprintf("contact %q is flagged do-not-contact", contact.FullName))
	}

	for _, rcpt := range recipients {
		if rcpt == "" {
			continue
		}
		blocked, err := s.repo.IsBlocked(ctx, rcpt)
		if err != nil {
			return nil, fmt.Errorf("blocklist lookup for %q: %w", rcpt, err)
		}
		if blocked {
			warnings = append(warnings, fmt.Sprintf("recipient %q is on the do-not-contact list", rcpt))
		}
	}

	return warnings, nil
}

// Block adds a value to the global do-not-contact list. Idempotent.
func (s *Service) Block(ctx context.Context, value, reason string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("value is required")
	}
	return s.repo.Add(ctx, &domain.DncEntry{Value: value, Reason: reason})
}

// Unblock removes a value from the list. Returns ErrNotFound if absent.
func (s *Service) Unblock(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("value is required")
	}
	return s.repo.Remove(ctx, value)
}

// List returns the full do-not-contact list.
func (s *Service) List(ctx context.Context) ([]domain.DncEntry, error) {
	return s.repo.List(ctx)
}
