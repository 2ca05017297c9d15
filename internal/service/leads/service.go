package leads

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// Service runs scoring over the stored targets and manages the suggestion
// review flow.
type Service struct {
	repo     Repository
	keywords []string

	now func() time.Time
}

// NewService creates a scoring engine with the configured keyword list.
func NewService(repo Repository, keywords []string) *Service {
	return &Service{repo: repo, keywords: keywords, now: time.Now}
}

// Generate scores every target that has no suggestion yet and is not flagged
// do-not-contact, persisting one suggestion per qualifying target. Each
// suggestion carries a point-in-time snapshot; later edits to the live target
// never change it. Returns the new suggestions ordered by score descending.
func (s *Service) Generate(ctx context.Context) ([]domain.LeadSuggestion, error) {
	suggested, err := s.repo.SuggestedTargetIDs(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := s.repo.ListTargets(ctx)
	if err != nil {
		return nil, err
	}

	var created []domain.LeadSuggestion
	for _, target := range targets {
		if target.DoNotContact || suggested[target.ID] {
			continue
		}
		contacts, err := s.repo.ListContacts(ctx, target.ID)
		if err != nil {
			return nil, err
		}

		score, breakdown, tags := Score(target, contacts, s.keywords)
		suggestion := domain.LeadSuggestion{
			ID:        uuid.New().String(),
			TargetID:  target.ID,
			Snapshot:  snapshot(target, contacts),
			Score:     score,
			Breakdown: breakdown,
			Tags:      tags,
			Status:    domain.SuggestionNew,
			CreatedAt: s.now().UTC(),
		}
		if err := s.repo.InsertSuggestion(ctx, &suggestion); err != nil {
			return nil, err
		}
		created = append(created, suggestion)
	}

	sort.Slice(created, func(i, j int) bool { return created[i].Score > created[j].Score })
	logger.Info("lead suggestions generated", "count", len(created))
	return created, nil
}

func snapshot(target domain.Target, contacts []domain.Contact) domain.LeadSnapshot {
	snap := domain.LeadSnapshot{
		TargetName:   target.Name,
		TargetType:   target.Type,
		Sector:       target.Sector,
		Province:     target.Province,
		GeneralEmail: target.GeneralEmail,
		Notes:        target.Notes,
	}
	for _, c := range contacts {
		snap.Contacts = append(snap.Contacts, domain.ContactSnapshot{
			FullName: c.FullName,
			Role:     c.Role,
			Email:    c.Email,
			Phone:    c.Phone,
		})
	}
	return snap
}

// List returns suggestions, optionally filtered by status.
func (s *Service) List(ctx context.Context, status domain.SuggestionStatus) ([]domain.LeadSuggestion, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown suggestion status %q", status)
	}
	return s.repo.ListSuggestions(ctx, status)
}

// Get returns one suggestion.
func (s *Service) Get(ctx context.Context, id string) (*domain.LeadSuggestion, error) {
	return s.repo.GetSuggestion(ctx, id)
}

// Accept marks a suggestion accepted, advances the target from new to
// contacted, and merges the snapshotted contacts into the target's real
// contacts. The merge matches by email first, then by full name, and never
// duplicates: accepting the same suggestion twice is a no-op beyond the first
// run. Rejected suggestions cannot be accepted.
func (s *Service) Accept(ctx context.Context, id string) (*domain.LeadSuggestion, error) {
	suggestion, err := s.repo.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion.Status == domain.SuggestionRejected {
		return nil, fmt.Errorf("accept rejected suggestion: %w", ErrAlreadyResolved)
	}

	target, err := s.repo.GetTarget(ctx, suggestion.TargetID)
	if err != nil {
		return nil, err
	}
	if target.Status == domain.TargetNew {
		if err := s.repo.UpdateTargetStatus(ctx, target.ID, domain.TargetContacted); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.ListContacts(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]bool, len(existing))
	byName := make(map[string]bool, len(existing))
	for _, c := range existing {
		if c.Email != "" {
			byEmail[strings.ToLower(c.Email)] = true
		}
		byName[strings.ToLower(strings.TrimSpace(c.FullName))] = true
	}

	merged := 0
	for _, snap := range suggestion.Snapshot.Contacts {
		email := strings.ToLower(snap.Email)
		name := strings.ToLower(strings.TrimSpace(snap.FullName))
		if (email != "" && byEmail[email]) || byName[name] {
			continue
		}
		confidence := domain.ConfidenceLow
		if snap.Email != "" {
			confidence = domain.ConfidenceMedium
		}
		contact := domain.Contact{
			ID:         uuid.New().String(),
			TargetID:   target.ID,
			FullName:   snap.FullName,
			Role:       snap.Role,
			Email:      snap.Email,
			Phone:      snap.Phone,
			Confidence: confidence,
		}
		if err := s.repo.InsertContact(ctx, &contact); err != nil {
			return nil, err
		}
		if email != "" {
			byEmail[email] = true
		}
		byName[name] = true
		merged++
	}

	now := s.now().UTC()
	suggestion.Status = domain.SuggestionAccepted
	suggestion.UpdatedAt = &now
	if err := s.repo.UpdateSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	logger.Info("lead suggestion accepted",
		"suggestion_id", suggestion.ID,
		"target_id", target.ID,
		"contacts_merged", merged)
	return suggestion, nil
}

// Reject marks a suggestion rejected with the given reason. The reason is
// mandatory; rejection has no other side effects.
func (s *Service) Reject(ctx context.Context, id, reason string) (*domain.LeadSuggestion, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	suggestion, err := s.repo.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion.Status != domain.SuggestionNew {
		return nil, fmt.Errorf("reject %s suggestion: %w", suggestion.Status, ErrAlreadyResolved)
	}

	now := s.now().UTC()
	suggestion.Status = domain.SuggestionRejected
	suggestion.Reason = reason
	suggestion.UpdatedAt = &now
	if err := s.repo.UpdateSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	logger.Info("lead suggestion rejected", "suggestion_id", suggestion.ID, "reason", reason)
	return suggestion, nil
}
