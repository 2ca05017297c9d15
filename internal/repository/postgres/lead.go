package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/leads"
)

// LeadRepo implements leads.Repository against PostgreSQL. Snapshot,
// breakdown, and tags are stored as JSONB blobs: they are immutable
// point-in-time records, never queried field by field.
type LeadRepo struct{ db *sql.DB }

// NewLeadRepo creates a Postgres-backed lead suggestion repository.
func NewLeadRepo(db *sql.DB) *LeadRepo { return &LeadRepo{db: db} }

func (r *LeadRepo) ListTargets(ctx context.Context) ([]domain.Target, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+targetColumns+` FROM targets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var out []domain.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *LeadRepo) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	t, err := scanTarget(r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, leads.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get target: %w", err)
	}
	return t, nil
}

func (r *LeadRepo) UpdateTargetStatus(ctx context.Context, id string, status domain.TargetStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE targets SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("update target status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return leads.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) ListContacts(ctx context.Context, targetID string) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE target_id = $1 ORDER BY full_name`,
		targetID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *LeadRepo) InsertContact(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts
			(id, target_id, full_name, role, role_en, email, phone, linkedin_url,
			 do_not_contact, confidence_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`, c.ID, c.TargetID, c.FullName, c.Role, c.RoleEN, c.Email, c.Phone,
		c.LinkedInURL, c.DoNotContact, c.Confidence)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *LeadRepo) SuggestedTargetIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT target_id FROM lead_suggestions`)
	if err != nil {
		return nil, fmt.Errorf("suggested target ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

const suggestionColumns = `
	id, target_id, snapshot, score, breakdown, tags, status,
	COALESCE(reason,''), created_at, updated_at`

func scanSuggestion(row interface{ Scan(...interface{}) error }) (*domain.LeadSuggestion, error) {
	s := &domain.LeadSuggestion{}
	var snapshot, breakdown, tags []byte
	err := row.Scan(
		&s.ID, &s.TargetID, &snapshot, &s.Score, &breakdown, &tags,
		&s.Status, &s.Reason, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &s.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
		return nil, fmt.Errorf("decode breakdown: %w", err)
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &s.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return s, nil
}

func (r *LeadRepo) InsertSuggestion(ctx context.Context, s *domain.LeadSuggestion) error {
	snapshot, err := json.Marshal(s.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	breakdown, err := json.Marshal(s.Breakdown)
	if err != nil {
		return fmt.Errorf("encode breakdown: %w", err)
	}
	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lead_suggestions
			(id, target_id, snapshot, score, breakdown, tags, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.TargetID, snapshot, s.Score, breakdown, tags, s.Status, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	return nil
}

func (r *LeadRepo) GetSuggestion(ctx context.Context, id string) (*domain.LeadSuggestion, error) {
	s, err := scanSuggestion(r.db.QueryRowContext(ctx,
		`SELECT `+suggestionColumns+` FROM lead_suggestions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, leads.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get suggestion: %w", err)
	}
	return s, nil
}

func (r *LeadRepo) UpdateSuggestion(ctx context.Context, s *domain.LeadSuggestion) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lead_suggestions SET status = $2, reason = NULLIF($3,''), updated_at = $4
		WHERE id = $1
	`, s.ID, s.Status, s.Reason, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update suggestion: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return leads.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) ListSuggestions(ctx context.Context, status domain.SuggestionStatus) ([]domain.LeadSuggestion, error) {
	q := `SELECT ` + suggestionColumns + ` FROM lead_suggestions`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY score DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []domain.LeadSuggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
