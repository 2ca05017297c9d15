package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/importer"
)

// ImportRepo implements importer.Repository against PostgreSQL.
type ImportRepo struct {
	db      *sql.DB
	targets *TargetRepo
}

// NewImportRepo creates a Postgres-backed import repository.
func NewImportRepo(db *sql.DB) *ImportRepo {
	return &ImportRepo{db: db, targets: NewTargetRepo(db)}
}

func (r *ImportRepo) FindTargetByName(ctx context.Context, name string) (*domain.Target, error) {
	t, err := scanTarget(r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE name = $1`, name))
	if err == sql.ErrNoRows {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find target by name: %w", err)
	}
	return t, nil
}

func (r *ImportRepo) FindTargetByWebsite(ctx context.Context, website string) (*domain.Target, error) {
	t, err := scanTarget(r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE website = $1`, website))
	if err == sql.ErrNoRows {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find target by website: %w", err)
	}
	return t, nil
}

func (r *ImportRepo) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	t, err := scanTarget(r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get target: %w", err)
	}
	return t, nil
}

func (r *ImportRepo) InsertTarget(ctx context.Context, t *domain.Target) error {
	return r.targets.InsertTarget(ctx, t)
}

func (r *ImportRepo) UpdateTarget(ctx context.Context, t *domain.Target) error {
	return r.targets.UpdateTarget(ctx, t)
}

func (r *ImportRepo) FindContactByEmail(ctx context.Context, targetID, email string) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE target_id = $1 AND email = $2`,
		targetID, email))
	if err == sql.ErrNoRows {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact by email: %w", err)
	}
	return c, nil
}

func (r *ImportRepo) FindContactByName(ctx context.Context, targetID, fullName string) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE target_id = $1 AND full_name = $2`,
		targetID, fullName))
	if err == sql.ErrNoRows {
		return nil, importer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact by name: %w", err)
	}
	return c, nil
}

func (r *ImportRepo) InsertContact(ctx context.Context, c *domain.Contact) error {
	return r.targets.InsertContact(ctx, c)
}

func (r *ImportRepo) UpdateContact(ctx context.Context, c *domain.Contact) error {
	return r.targets.UpdateContact(ctx, c)
}

func (r *ImportRepo) InsertImportLog(ctx context.Context, log *domain.ImportLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_logs (id, import_type, inserted, updated, skipped, failed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.ImportType, log.Inserted, log.Updated, log.Skipped, log.Failed, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert import log: %w", err)
	}
	return nil
}

func (r *ImportRepo) ListExportRows(ctx context.Context) ([]importer.ExportRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+targetColumns+`,
		       (SELECT MAX(e.sent_at) FROM outreach_events e
		        WHERE e.target_id = targets.id AND e.succeeded = true)
		FROM targets
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list export rows: %w", err)
	}
	defer rows.Close()

	var out []importer.ExportRow
	for rows.Next() {
		var row importer.ExportRow
		t := &row.Target
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Type, &t.Sector, &t.Province,
			&t.Website, &t.GeneralEmail, &t.Phone,
			&t.Source, &t.Notes, &t.DoNotContact, &t.Status,
			&t.CreatedAt, &t.ImportedAt, &t.UpdatedAt,
			&row.LastContacted,
		); err != nil {
			return nil, fmt.Errorf("scan export row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
