package domain

import "time"

// TargetType classifies an organization being pursued for outreach.
type TargetType string

const (
	TargetEmployer     TargetType = "employer"
	TargetMunicipality TargetType = "municipality"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	return t == TargetEmployer || t == TargetMunicipality
}

// TargetStatus enumerates the pipeline stages of a target.
type TargetStatus string

const (
	TargetNew       TargetStatus = "new"
	TargetContacted TargetStatus = "contacted"
	TargetReplied   TargetStatus = "replied"
	TargetMeeting   TargetStatus = "meeting"
	TargetWon       TargetStatus = "won"
	TargetLost      TargetStatus = "lost"
)

// Valid reports whether s is a known pipeline status.
func (s TargetStatus) Valid() bool {
	switch s {
	case TargetNew, TargetContacted, TargetReplied, TargetMeeting, TargetWon, TargetLost:
		return true
	}
	return false
}

// Target is an organization (municipality or employer) being pursued.
type Target struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Type         TargetType   `json:"type" db:"type"`
	Sector       string       `json:"sector,omitempty" db:"sector"`
	Province     string       `json:"province,omitempty" db:"province"`
	Website      string       `json:"website,omitempty" db:"website"`
	GeneralEmail string       `json:"general_email,omitempty" db:"general_email"`
	Phone        string       `json:"phone,omitempty" db:"phone"`
	Source       string       `json:"source,omitempty" db:"source"`
	Notes        string       `json:"notes,omitempty" db:"notes"`
	DoNotContact bool         `json:"do_not_contact" db:"do_not_contact"`
	Status       TargetStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	ImportedAt   *time.Time   `json:"imported_at,omitempty" db:"imported_at"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
}

// Confidence grades how much verified information exists for a contact.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Valid reports whether c is a known confidence grade.
func (c Confidence) Valid() bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// ContactConfidence derives the confidence grade from the verified
// information present on a contact. Email plus a known role is the
// strongest signal we record without a human in the loop.
func ContactConfidence(email, role string) Confidence {
	switch {
	case email != "" && role != "":
		return ConfidenceHigh
	case email != "":
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Contact is a person at a target. A contact never outlives its target.
type Contact struct {
	ID           string     `json:"id" db:"id"`
	TargetID     string     `json:"target_id" db:"target_id"`
	FullName     string     `json:"full_name" db:"full_name"`
	Role         string     `json:"role,omitempty" db:"role"`
	RoleEN       string     `json:"role_en,omitempty" db:"role_en"`
	Email        string     `json:"email,omitempty" db:"email"`
	Phone        string     `json:"phone,omitempty" db:"phone"`
	LinkedInURL  string     `json:"linkedin_url,omitempty" db:"linkedin_url"`
	DoNotContact bool       `json:"do_not_contact" db:"do_not_contact"`
	Confidence   Confidence `json:"confidence_score" db:"confidence_score"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// FollowUp is a reminder to re-touch a target on or after a due date.
type FollowUp struct {
	ID       string    `json:"id" db:"id"`
	TargetID string    `json:"target_id" db:"target_id"`
	DueDate  time.Time `json:"due_date" db:"due_date"`
	Reason   string    `json:"reason,omitempty" db:"reason"`
	Done     bool      `json:"done" db:"done"`
}

// DncEntry is a value (normally an email address) globally blocked from
// outreach. Matching is a case-sensitive exact match on Value.
type DncEntry struct {
	ID        string    `json:"id" db:"id"`
	Value     string    `json:"value" db:"value"`
	Reason    string    `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ImportLog records the outcome of one CSV import run.
type ImportLog struct {
	ID         string    `json:"id" db:"id"`
	ImportType string    `json:"import_type" db:"import_type"`
	Inserted   int       `json:"inserted" db:"inserted"`
	Updated    int       `json:"updated" db:"updated"`
	Skipped    int       `json:"skipped" db:"skipped"`
	Failed     int       `json:"failed" db:"failed"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
