package outreach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/dispatch"
	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/message"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// ComplianceChecker evaluates a pair against the do-not-contact rules.
// Satisfied by *compliance.Service.
type ComplianceChecker interface {
	Check(ctx context.Context, target domain.Target, contact *domain.Contact, recipients []string) ([]string, error)
}

// SendLimiter gates sends against the daily cap. Satisfied by
// *ratelimit.Limiter.
type SendLimiter interface {
	Reserve(ctx context.Context) (bool, error)
	Remaining(ctx context.Context) (int, error)
	Limit() int
}

// Service is the draft lifecycle manager.
type Service struct {
	repo      Repository
	checker   ComplianceChecker
	limiter   SendLimiter
	templates message.Collection

	dispatchers map[domain.Channel]dispatch.Dispatcher
	preview     dispatch.Dispatcher
	previewMode bool

	now func() time.Time
}

// Options configures a lifecycle manager.
type Options struct {
	Repo        Repository
	Checker     ComplianceChecker
	Limiter     SendLimiter
	Templates   message.Collection
	Dispatchers map[domain.Channel]dispatch.Dispatcher
	PreviewMode bool
}

// NewService creates a draft lifecycle manager.
func NewService(opts Options) *Service {
	return &Service{
		repo:        opts.Repo,
		checker:     opts.Checker,
		limiter:     opts.Limiter,
		templates:   opts.Templates,
		dispatchers: opts.Dispatchers,
		preview:     dispatch.NewPreviewDispatcher(),
		previewMode: opts.PreviewMode,
		now:         time.Now,
	}
}

// CreateDraftInput carries everything needed to compose a draft.
type CreateDraftInput struct {
	TargetID     string            `json:"target_id"`
	ContactID    string            `json:"contact_id,omitempty"`
	TemplateName string            `json:"template_name"`
	Channel      domain.Channel    `json:"channel"`
	Subject      string            `json:"subject,omitempty"` // edited override
	Body         string            `json:"body,omitempty"`    // edited override
	Fields       map[string]string `json:"fields,omitempty"`  // extra template context
}

// CreateDraft composes a new draft in the initial state. Compliance,
// missing-field, and capacity warnings are attached but never block
// creation. Returns message.ErrTemplateNotFound when the template is
// unknown.
func (s *Service) CreateDraft(ctx context.Context, in CreateDraftInput) (*domain.OutreachDraft, error) {
	if !in.Channel.Valid() {
		return nil, fmt.Errorf("unknown channel %q", in.Channel)
	}

	target, err := s.repo.GetTarget(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	var contact *domain.Contact
	if in.ContactID != "" {
		contact, err = s.repo.GetContact(ctx, in.ContactID)
		if err != nil {
			return nil, err
		}
		if contact.TargetID != target.ID {
			return nil, fmt.Errorf("contact %s: %w", in.ContactID, ErrNotFound)
		}
	}

	raw, err := s.templates.Lookup(ctx, in.TemplateName)
	if err != nil {
		return nil, err
	}

	rendered := message.Render(raw, s.templateContext(target, contact, in.Fields))

	finalSubject := strings.TrimSpace(in.Subject)
	if finalSubject == "" {
		finalSubject = rendered.Subject
	}
	finalBody := in.Body
	if strings.TrimSpace(finalBody) == "" {
		finalBody = rendered.Body
	}
	if strings.TrimSpace(finalBody) == "" {
		return nil, fmt.Errorf("template %q rendered an empty body", in.TemplateName)
	}

	warnings, err := s.checker.Check(ctx, *target, contact, candidateRecipients(target, contact))
	if err != nil {
		return nil, err
	}
	for _, f := range rendered.MissingFields {
		warnings = append(warnings, fmt.Sprintf("no value for template field {%s}", f))
	}
	warnings = append(warnings, s.capacityWarning(ctx)...)

	now := s.now().UTC()
	draft := &domain.OutreachDraft{
		ID:              uuid.New().String(),
		TargetID:        target.ID,
		TemplateName:    in.TemplateName,
		Channel:         in.Channel,
		RenderedSubject: rendered.Subject,
		RenderedBody:    rendered.Body,
		EditedSubject:   in.Subject,
		EditedBody:      in.Body,
		FinalSubject:    finalSubject,
		FinalBody:       finalBody,
		Status:          domain.DraftComposed,
		Warnings:        warnings,
		CreatedAt:       now,
	}
	if contact != nil {
		draft.ContactID = contact.ID
	}

	if err := s.repo.InsertDraft(ctx, draft); err != nil {
		return nil, err
	}
	logger.Info("draft created",
		"draft_id", draft.ID,
		"target_id", draft.TargetID,
		"template", draft.TemplateName,
		"warnings", len(warnings))
	return draft, nil
}

// capacityWarning produces the soft creation-time note when today's sends
// plus queued drafts already fill the daily cap. Failures here are logged
// and swallowed: creation must not depend on the counter being reachable.
func (s *Service) capacityWarning(ctx context.Context) []string {
	remaining, err := s.limiter.Remaining(ctx)
	if err != nil {
		logger.Warn("capacity check skipped", "error", err.Error())
		return nil
	}
	queued, err := s.repo.CountQueuedDrafts(ctx)
	if err != nil {
		logger.Warn("queued count skipped", "error", err.Error())
		queued = 0
	}
	if remaining <= queued {
		return []string{fmt.Sprintf("daily send limit (%d) reached", s.limiter.Limit())}
	}
	return nil
}

func (s *Service) templateContext(target *domain.Target, contact *domain.Contact, extra map[string]string) map[string]string {
	fields := map[string]string{
		"target_name":     target.Name,
		"target_sector":   target.Sector,
		"target_province": target.Province,
		"target_website":  target.Website,
	}
	if contact != nil {
		fields["contact_name"] = contact.FullName
		fields["contact_role"] = contact.Role
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}

// candidateRecipients resolves the identifiers checked for compliance and
// used for delivery: the contact's direct email when present, otherwise the
// target's general inbox.
func candidateRecipients(target *domain.Target, contact *domain.Contact) []string {
	if contact != nil && contact.Email != "" {
		return []string{contact.Email}
	}
	if target.GeneralEmail != "" {
		return []string{target.GeneralEmail}
	}
	return nil
}

// Approve records the approver and timestamp. Only drafts in the draft or
// queued state can be approved; anything else is ErrInvalidTransition.
func (s *Service) Approve(ctx context.Context, draftID, approver string) (*domain.OutreachDraft, error) {
	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != domain.DraftComposed && draft.Status != domain.DraftQueued {
		return nil, fmt.Errorf("approve from %s: %w", draft.Status, ErrInvalidTransition)
	}

	now := s.now().UTC()
	draft.Status = domain.DraftApproved
	draft.ApprovedBy = approver
	draft.ApprovedAt = &now
	draft.UpdatedAt = &now

	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, err
	}
	logger.Info("draft approved", "draft_id", draft.ID, "approver", approver)
	return draft, nil
}

// Queue parks a draft for batching. Only the initial draft state may be
// queued; queued drafts still require approval before send.
func (s *Service) Queue(ctx context.Context, draftID string) (*domain.OutreachDraft, error) {
	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != domain.DraftComposed {
		return nil, fmt.Errorf("queue from %s: %w", draft.Status, ErrInvalidTransition)
	}

	now := s.now().UTC()
	draft.Status = domain.DraftQueued
	draft.UpdatedAt = &now

	if err := s.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Send attempts delivery of an approved draft.
//
// Compliance is re-checked against current data; any warning moves the
// draft to terminal failed without contacting the dispatcher and returns a
// *ComplianceError. A missing recipient or a consumed daily cap is a
// request-level error that leaves the draft approved and retryable. A
// dispatch failure is captured into the draft (terminal failed) rather
// than returned as an error; inspect the returned draft's status.
func (s *Service) Send(ctx context.Context, draftID string) (*domain.OutreachDraft, error) {
	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != domain.DraftApproved {
		return nil, fmt.Errorf("send from %s: %w", draft.Status, ErrInvalidTransition)
	}

	target, err := s.repo.GetTarget(ctx, draft.TargetID)
	if err != nil {
		return nil, err
	}
	var contact *domain.Contact
	if draft.ContactID != "" {
		contact, err = s.repo.GetContact(ctx, draft.ContactID)
		if err != nil {
			return nil, err
		}
	}

	recipients := candidateRecipients(target, contact)

	warnings, err := s.checker.Check(ctx, *target, contact, recipients)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		if err := s.finalize(ctx, draft, target, contact, false, "", strings.Join(warnings, "; ")); err != nil {
			return nil, err
		}
		logger.Warn("send blocked by compliance", "draft_id", draft.ID, "reasons", strings.Join(warnings, "; "))
		return draft, &ComplianceError{Warnings: warnings}
	}

	var recipient string
	if len(recipients) > 0 {
		recipient = recipients[0]
	}
	if draft.Channel == domain.ChannelEmail && recipient == "" {
		return nil, ErrNoRecipient
	}

	ok, err := s.limiter.Reserve(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRateLimited
	}

	dispatcher := s.preview
	if !s.previewMode {
		var found bool
		dispatcher, found = s.dispatchers[draft.Channel]
		if !found {
			return nil, fmt.Errorf("no dispatcher for channel %q", draft.Channel)
		}
	}

	msgID, sendErr := dispatcher.Send(ctx, domain.OutboundMessage{
		Recipient: recipient,
		Subject:   draft.FinalSubject,
		Body:      draft.FinalBody,
		Channel:   draft.Channel,
	})
	if sendErr != nil {
		if err := s.finalize(ctx, draft, target, contact, false, "", sendErr.Error()); err != nil {
			return nil, err
		}
		logger.Error("dispatch failed", "draft_id", draft.ID, "error", sendErr.Error())
		return draft, nil
	}

	if err := s.finalize(ctx, draft, target, contact, true, msgID, ""); err != nil {
		return nil, err
	}
	logger.Info("draft sent", "draft_id", draft.ID, "message_id", msgID, "recipient", recipient)
	return draft, nil
}

// finalize applies the terminal transition and commits it together with the
// attempt's event via the repository.
func (s *Service) finalize(ctx context.Context, draft *domain.OutreachDraft, target *domain.Target, contact *domain.Contact, succeeded bool, msgID, sendErr string) error {
	now := s.now().UTC()
	draft.UpdatedAt = &now

	event := &domain.OutreachEvent{
		ID:           uuid.New().String(),
		TargetID:     draft.TargetID,
		ContactID:    draft.ContactID,
		DraftID:      draft.ID,
		Channel:      draft.Channel,
		TemplateName: draft.TemplateName,
		Subject:      draft.FinalSubject,
		Body:         draft.FinalBody,
		Succeeded:    succeeded,
		Error:        sendErr,
		SentAt:       now,
		Outcome:      domain.OutcomeNoReply,
	}

	markContacted := false
	if succeeded {
		draft.Status = domain.DraftSent
		draft.MessageID = msgID
		draft.SentAt = &now
		markContacted = target.Status == domain.TargetNew
	} else {
		draft.Status = domain.DraftFailed
		draft.SendError = sendErr
	}

	return s.repo.FinalizeSend(ctx, draft, event, markContacted)
}

// GetDraft returns one draft.
func (s *Service) GetDraft(ctx context.Context, id string) (*domain.OutreachDraft, error) {
	return s.repo.GetDraft(ctx, id)
}

// ListDrafts returns drafts, optionally filtered by status.
func (s *Service) ListDrafts(ctx context.Context, status domain.DraftStatus) ([]domain.OutreachDraft, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown draft status %q", status)
	}
	return s.repo.ListDrafts(ctx, status)
}

// ListEvents returns a target's outreach history.
func (s *Service) ListEvents(ctx context.Context, targetID string) ([]domain.OutreachEvent, error) {
	return s.repo.ListEvents(ctx, targetID)
}

// RecordOutcome registers a later response on an outreach event. Events are
// otherwise immutable.
func (s *Service) RecordOutcome(ctx context.Context, eventID string, outcome domain.Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("unknown outcome %q", outcome)
	}
	var respondedAt *time.Time
	if outcome != domain.OutcomeNoReply {
		t := s.now().UTC()
		respondedAt = &t
	}
	if err := s.repo.UpdateEventOutcome(ctx, eventID, outcome, respondedAt); err != nil {
		return err
	}
	logger.Info("outcome recorded", "event_id", eventID, "outcome", outcome)
	return nil
}
