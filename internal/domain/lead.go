package domain

import "time"

// SuggestionStatus enumerates the review states of a lead suggestion.
type SuggestionStatus string

const (
	SuggestionNew      SuggestionStatus = "new"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Valid reports whether s is a known suggestion status.
func (s SuggestionStatus) Valid() bool {
	return s == SuggestionNew || s == SuggestionAccepted || s == SuggestionRejected
}

// ScoreBreakdown itemizes the contributors to a lead score. It is stored as
// an opaque JSON blob alongside the suggestion so the historical record does
// not shift when scoring rules change.
type ScoreBreakdown struct {
	KeywordPoints    int  `json:"keyword_points"`
	RoleMatch        bool `json:"role_match"`
	HasContacts      bool `json:"has_contacts"`
	MissingContacts  bool `json:"missing_contacts"`
	HasContactEmail  bool `json:"has_contact_email"`
	MissingEmail     bool `json:"missing_email"`
	GenericEmailOnly bool `json:"generic_email_only"`
}

// ContactSnapshot is the point-in-time copy of a contact captured when a
// suggestion is generated.
type ContactSnapshot struct {
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LeadSnapshot freezes the target and contact data a suggestion was scored
// against. Later edits to the live target never change this record.
type LeadSnapshot struct {
	TargetName   string            `json:"target_name"`
	TargetType   TargetType        `json:"target_type"`
	Sector       string            `json:"sector,omitempty"`
	Province     string            `json:"province,omitempty"`
	GeneralEmail string            `json:"general_email,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Contacts     []ContactSnapshot `json:"contacts,omitempty"`
}

// LeadSuggestion is a scored, system-generated recommendation to pursue a
// target.
type LeadSuggestion struct {
	ID        string           `json:"id" db:"id"`
	TargetID  string           `json:"target_id" db:"target_id"`
	Snapshot  LeadSnapshot     `json:"snapshot" db:"snapshot"`
	Score     int              `json:"score" db:"score"`
	Breakdown ScoreBreakdown   `json:"breakdown" db:"breakdown"`
	Tags      []string         `json:"tags,omitempty" db:"tags"`
	Status    SuggestionStatus `json:"status" db:"status"`
	Reason    string           `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty" db:"updated_at"`
}
