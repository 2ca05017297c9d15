package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/followup"
)

// FollowUpRepo implements followup.Repository against PostgreSQL.
type FollowUpRepo struct{ db *sql.DB }

// NewFollowUpRepo creates a Postgres-backed follow-up repository.
func NewFollowUpRepo(db *sql.DB) *FollowUpRepo { return &FollowUpRepo{db: db} }

const followUpColumns = `id, target_id, due_date, COALESCE(reason,''), done`

func (r *FollowUpRepo) InsertFollowUp(ctx context.Context, f *domain.FollowUp) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follow_ups (id, target_id, due_date, reason, done)
		VALUES ($1, $2, $3, NULLIF($4,''), $5)
	`, f.ID, f.TargetID, f.DueDate, f.Reason, f.Done)
	if err != nil {
		return fmt.Errorf("insert follow-up: %w", err)
	}
	return nil
}

func (r *FollowUpRepo) GetFollowUp(ctx context.Context, id string) (*domain.FollowUp, error) {
	f := &domain.FollowUp{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups WHERE id = $1`, id,
	).Scan(&f.ID, &f.TargetID, &f.DueDate, &f.Reason, &f.Done)
	if err == sql.ErrNoRows {
		return nil, followup.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get follow-up: %w", err)
	}
	return f, nil
}

func (r *FollowUpRepo) UpdateFollowUp(ctx context.Context, f *domain.FollowUp) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE follow_ups SET due_date = $2, reason = NULLIF($3,''), done = $4
		WHERE id = $1
	`, f.ID, f.DueDate, f.Reason, f.Done)
	if err != nil {
		return fmt.Errorf("update follow-up: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return followup.ErrNotFound
	}
	return nil
}

func (r *FollowUpRepo) ListDue(ctx context.Context, day time.Time) ([]domain.FollowUp, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+followUpColumns+` FROM follow_ups
		WHERE done = false AND due_date <= $1
		ORDER BY due_date
	`, day)
	if err != nil {
		return nil, fmt.Errorf("list due follow-ups: %w", err)
	}
	defer rows.Close()
	return collectFollowUps(rows)
}

func (r *FollowUpRepo) ListByTarget(ctx context.Context, targetID string) ([]domain.FollowUp, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups WHERE target_id = $1 ORDER BY due_date`,
		targetID)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()
	return collectFollowUps(rows)
}

func collectFollowUps(rows *sql.Rows) ([]domain.FollowUp, error) {
	var out []domain.FollowUp
	for rows.Next() {
		var f domain.FollowUp
		if err := rows.Scan(&f.ID, &f.TargetID, &f.DueDate, &f.Reason, &f.Done); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
