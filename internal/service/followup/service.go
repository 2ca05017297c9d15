// Package followup manages re-touch reminders: one row per target with a due
// date, surfaced in a due list computed on demand. There are no timers or
// background jobs.
package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// ErrNotFound indicates the requested follow-up does not exist.
var ErrNotFound = errors.New("not found")

// Repository is the persistence surface for follow-ups.
type Repository interface {
	InsertFollowUp(ctx context.Context, f *domain.FollowUp) error
	GetFollowUp(ctx context.Context, id string) (*domain.FollowUp, error)
	UpdateFollowUp(ctx context.Context, f *domain.FollowUp) error
	// ListDue returns open follow-ups with a due date on or before the given
	// day, ordered by due date ascending.
	ListDue(ctx context.Context, day time.Time) ([]domain.FollowUp, error)
	ListByTarget(ctx context.Context, targetID string) ([]domain.FollowUp, error)
}

// Service creates and resolves follow-up reminders.
type Service struct {
	repo Repository
	// afterSend is the default interval between a sent message and its
	// suggested re-touch.
	afterSend time.Duration

	now func() time.Time
}

// NewService creates a follow-up service. followUpDays is the configured
// interval used by SuggestAfterSend.
func NewService(repo Repository, followUpDays int) *Service {
	if followUpDays <= 0 {
		followUpDays = 7
	}
	return &Service{
		repo:      repo,
		afterSend: time.Duration(followUpDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// Create registers a reminder for a target on the given due date.
func (s *Service) Create(ctx context.Context, targetID string, dueDate time.Time, reason string) (*domain.FollowUp, error) {
	if targetID == "" {
		return nil, fmt.Errorf("target id required")
	}
	f := &domain.FollowUp{
		ID:       uuid.New().String(),
		TargetID: targetID,
		DueDate:  dueDate.UTC().Truncate(24 * time.Hour),
		Reason:   strings.TrimSpace(reason),
	}
	if err := s.repo.InsertFollowUp(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// SuggestAfterSend registers the standard post-send reminder, due the
// configured number of days after the send date.
func (s *Service) SuggestAfterSend(ctx context.Context, targetID string, sentAt time.Time) (*domain.FollowUp, error) {
	f, err := s.Create(ctx, targetID, sentAt.Add(s.afterSend), "follow up on outreach")
	if err != nil {
		return nil, err
	}
	logger.Info("follow-up suggested", "target_id", targetID, "due", f.DueDate.Format("2006-01-02"))
	return f, nil
}

// Due returns open follow-ups due today or earlier.
func (s *Service) Due(ctx context.Context) ([]domain.FollowUp, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	return s.repo.ListDue(ctx, today)
}

// ListByTarget returns all follow-ups for one target.
func (s *Service) ListByTarget(ctx context.Context, targetID string) ([]domain.FollowUp, error) {
	return s.repo.ListByTarget(ctx, targetID)
}

// MarkDone resolves a follow-up.
func (s *Service) MarkDone(ctx context.Context, id string) (*domain.FollowUp, error) {
	f, err := s.repo.GetFollowUp(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Done {
		return f, nil
	}
	f.Done = true
	if err := s.repo.UpdateFollowUp(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
