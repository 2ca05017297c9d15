package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/outreach"
)

// DraftRepo implements outreach.Repository against PostgreSQL. Draft
// warnings are stored as a JSONB blob since they are written once and read
// whole.
type DraftRepo struct{ db *sql.DB }

// NewDraftRepo creates a Postgres-backed draft repository.
func NewDraftRepo(db *sql.DB) *DraftRepo { return &DraftRepo{db: db} }

func (r *DraftRepo) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	t, err := scanTarget(r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, outreach.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get target: %w", err)
	}
	return t, nil
}

func (r *DraftRepo) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, outreach.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

const draftColumns = `
	id, target_id, COALESCE(contact_id,''), template_name, channel,
	rendered_subject, rendered_body, COALESCE(edited_subject,''),
	COALESCE(edited_body,''), final_subject, final_body, status, warnings,
	COALESCE(approved_by,''), approved_at, COALESCE(message_id,''),
	COALESCE(send_error,''), sent_at, created_at, updated_at`

func scanDraft(row interface{ Scan(...interface{}) error }) (*domain.OutreachDraft, error) {
	d := &domain.OutreachDraft{}
	var warnings []byte
	err := row.Scan(
		&d.ID, &d.TargetID, &d.ContactID, &d.TemplateName, &d.Channel,
		&d.RenderedSubject, &d.RenderedBody, &d.EditedSubject,
		&d.EditedBody, &d.FinalSubject, &d.FinalBody, &d.Status, &warnings,
		&d.ApprovedBy, &d.ApprovedAt, &d.MessageID,
		&d.SendError, &d.SentAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &d.Warnings); err != nil {
			return nil, fmt.Errorf("decode draft warnings: %w", err)
		}
	}
	return d, nil
}

func (r *DraftRepo) InsertDraft(ctx context.Context, d *domain.OutreachDraft) error {
	warnings, err := json.Marshal(d.Warnings)
	if err != nil {
		return fmt.Errorf("encode draft warnings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO outreach_drafts
			(id, target_id, contact_id, template_name, channel,
			 rendered_subject, rendered_body, edited_subject, edited_body,
			 final_subject, final_body, status, warnings, created_at)
		VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, d.ID, d.TargetID, d.ContactID, d.TemplateName, d.Channel,
		d.RenderedSubject, d.RenderedBody, d.EditedSubject, d.EditedBody,
		d.FinalSubject, d.FinalBody, d.Status, warnings, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *DraftRepo) GetDraft(ctx context.Context, id string) (*domain.OutreachDraft, error) {
	d, err := scanDraft(r.db.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM outreach_drafts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, outreach.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

func (r *DraftRepo) UpdateDraft(ctx context.Context, d *domain.OutreachDraft) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outreach_drafts SET
			status = $2, approved_by = NULLIF($3,''), approved_at = $4,
			updated_at = $5
		WHERE id = $1
	`, d.ID, d.Status, d.ApprovedBy, d.ApprovedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return outreach.ErrNotFound
	}
	return nil
}

func (r *DraftRepo) ListDrafts(ctx context.Context, status domain.DraftStatus) ([]domain.OutreachDraft, error) {
	q := `SELECT ` + draftColumns + ` FROM outreach_drafts`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []domain.OutreachDraft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DraftRepo) CountQueuedDrafts(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM outreach_drafts WHERE status = 'queued'`,
	).Scan(&n)
	return n, err
}

// FinalizeSend commits a send attempt in one transaction: the draft's
// terminal state, the appended event, and the optional target advance.
func (r *DraftRepo) FinalizeSend(ctx context.Context, draft *domain.OutreachDraft, event *domain.OutreachEvent, markContacted bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE outreach_drafts SET
			status = $2, message_id = NULLIF($3,''), send_error = NULLIF($4,''),
			sent_at = $5, updated_at = $6
		WHERE id = $1
	`, draft.ID, draft.Status, draft.MessageID, draft.SendError, draft.SentAt, draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("finalize draft: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return outreach.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outreach_events
			(id, target_id, contact_id, draft_id, channel, template_name,
			 subject, body, succeeded, error, sent_at, outcome)
		VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, $7, $8, $9, NULLIF($10,''), $11, $12)
	`, event.ID, event.TargetID, event.ContactID, event.DraftID, event.Channel,
		event.TemplateName, event.Subject, event.Body, event.Succeeded,
		event.Error, event.SentAt, event.Outcome)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if markContacted {
		_, err = tx.ExecContext(ctx, `
			UPDATE targets SET status = 'contacted', updated_at = NOW()
			WHERE id = $1 AND status = 'new'
		`, draft.TargetID)
		if err != nil {
			return fmt.Errorf("advance target: %w", err)
		}
	}

	return tx.Commit()
}

const eventColumns = `
	id, target_id, COALESCE(contact_id,''), COALESCE(draft_id,''), channel,
	COALESCE(template_name,''), COALESCE(subject,''), body, succeeded,
	COALESCE(error,''), sent_at, outcome, responded_at`

func (r *DraftRepo) ListEvents(ctx context.Context, targetID string) ([]domain.OutreachEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM outreach_events WHERE target_id = $1 ORDER BY sent_at DESC`,
		targetID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.OutreachEvent
	for rows.Next() {
		var e domain.OutreachEvent
		if err := rows.Scan(
			&e.ID, &e.TargetID, &e.ContactID, &e.DraftID, &e.Channel,
			&e.TemplateName, &e.Subject, &e.Body, &e.Succeeded,
			&e.Error, &e.SentAt, &e.Outcome, &e.RespondedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *DraftRepo) UpdateEventOutcome(ctx context.Context, eventID string, outcome domain.Outcome, respondedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE outreach_events SET outcome = $2, responded_at = $3
		WHERE id = $1
	`, eventID, outcome, respondedAt)
	if err != nil {
		return fmt.Errorf("update event outcome: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return outreach.ErrNotFound
	}
	return nil
}
