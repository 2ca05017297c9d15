package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/compliance"
)

// DncRepo implements compliance.Repository against PostgreSQL.
type DncRepo struct{ db *sql.DB }

// NewDncRepo creates a Postgres-backed do-not-contact repository.
func NewDncRepo(db *sql.DB) *DncRepo { return &DncRepo{db: db} }

func (r *DncRepo) IsBlocked(ctx context.Context, value string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM dnc_entries WHERE value = $1)`,
		value,
	).Scan(&exists)
	return exists, err
}

func (r *DncRepo) Add(ctx context.Context, e *domain.DncEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dnc_entries (id, value, reason, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (value) DO NOTHING
	`, e.ID, e.Value, e.Reason)
	if err != nil {
		return fmt.Errorf("add dnc entry: %w", err)
	}
	return nil
}

func (r *DncRepo) Remove(ctx context.Context, value string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM dnc_entries WHERE value = $1`,
		value,
	)
	if err != nil {
		return fmt.Errorf("remove dnc entry: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return compliance.ErrNotFound
	}
	return nil
}

func (r *DncRepo) List(ctx context.Context) ([]domain.DncEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, value, COALESCE(reason,''), created_at
		FROM dnc_entries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list dnc entries: %w", err)
	}
	defer rows.Close()

	var out []domain.DncEntry
	for rows.Next() {
		var e domain.DncEntry
		if err := rows.Scan(&e.ID, &e.Value, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dnc entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
