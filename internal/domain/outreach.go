package domain

import "time"

// Channel identifies the delivery channel for an outreach touch.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelLinkedIn Channel = "linkedin"
	ChannelPhone    Channel = "phone"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelLinkedIn || c == ChannelPhone
}

// DraftStatus enumerates the lifecycle states of an outreach draft.
// Transitions are monotonic: draft → queued → approved → sent|failed.
type DraftStatus string

const (
	DraftComposed DraftStatus = "draft"
	DraftQueued   DraftStatus = "queued"
	DraftApproved DraftStatus = "approved"
	DraftSent     DraftStatus = "sent"
	DraftFailed   DraftStatus = "failed"
)

// Valid reports whether s is a known draft status.
func (s DraftStatus) Valid() bool {
	switch s {
	case DraftComposed, DraftQueued, DraftApproved, DraftSent, DraftFailed:
		return true
	}
	return false
}

// Terminal reports whether a draft in this state can never transition again.
func (s DraftStatus) Terminal() bool {
	return s == DraftSent || s == DraftFailed
}

// OutreachDraft is a proposed message awaiting human review before sending.
//
// Rendered* holds the template output at composition time, Edited* holds any
// human overrides, and Final* is the resolved pair actually sent (edited
// wins when non-blank). Final subject/body are never blank once rendering
// has succeeded.
type OutreachDraft struct {
	ID           string      `json:"id" db:"id"`
	TargetID     string      `json:"target_id" db:"target_id"`
	ContactID    string      `json:"contact_id,omitempty" db:"contact_id"`
	TemplateName string      `json:"template_name" db:"template_name"`
	Channel      Channel     `json:"channel" db:"channel"`

	RenderedSubject string `json:"rendered_subject" db:"rendered_subject"`
	RenderedBody    string `json:"rendered_body" db:"rendered_body"`
	EditedSubject   string `json:"edited_subject,omitempty" db:"edited_subject"`
	EditedBody      string `json:"edited_body,omitempty" db:"edited_body"`
	FinalSubject    string `json:"final_subject" db:"final_subject"`
	FinalBody       string `json:"final_body" db:"final_body"`

	Status   DraftStatus `json:"status" db:"status"`
	Warnings []string    `json:"warnings,omitempty" db:"warnings"`

	ApprovedBy string     `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" db:"approved_at"`

	MessageID string     `json:"message_id,omitempty" db:"message_id"`
	SendError string     `json:"send_error,omitempty" db:"send_error"`
	SentAt    *time.Time `json:"sent_at,omitempty" db:"sent_at"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Outcome classifies the eventual result of an outreach attempt.
type Outcome string

const (
	OutcomeNoReply    Outcome = "no_reply"
	OutcomeReply      Outcome = "reply"
	OutcomeMeetingSet Outcome = "meeting_set"
	OutcomeRedirected Outcome = "redirected"
	OutcomeRejected   Outcome = "rejected"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeNoReply, OutcomeReply, OutcomeMeetingSet, OutcomeRedirected, OutcomeRejected:
		return true
	}
	return false
}

// OutreachEvent is the immutable record of one outreach attempt, successful
// or not. It is never mutated after creation except to record a later
// response outcome.
type OutreachEvent struct {
	ID           string     `json:"id" db:"id"`
	TargetID     string     `json:"target_id" db:"target_id"`
	ContactID    string     `json:"contact_id,omitempty" db:"contact_id"`
	DraftID      string     `json:"draft_id,omitempty" db:"draft_id"`
	Channel      Channel    `json:"channel" db:"channel"`
	TemplateName string     `json:"template_name,omitempty" db:"template_name"`
	Subject      string     `json:"subject,omitempty" db:"subject"`
	Body         string     `json:"body" db:"body"`
	Succeeded    bool       `json:"succeeded" db:"succeeded"`
	Error        string     `json:"error,omitempty" db:"error"`
	SentAt       time.Time  `json:"sent_at" db:"sent_at"`
	Outcome      Outcome    `json:"outcome" db:"outcome"`
	RespondedAt  *time.Time `json:"responded_at,omitempty" db:"responded_at"`
}
