package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/targets"
)

const targetColumns = `
	id, name, type, COALESCE(sector,''), COALESCE(province,''),
	COALESCE(website,''), COALESCE(general_email,''), COALESCE(phone,''),
	COALESCE(source,''), COALESCE(notes,''), do_not_contact, status,
	created_at, imported_at, updated_at`

func scanTarget(row interface{ Scan(...interface{}) error }) (*domain.Target, error) {
	t := &domain.Target{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Type, &t.Sector, &t.Province,
		&t.Website, &t.GeneralEmail, &t.Phone,
		&t.Source, &t.Notes, &t.DoNotContact, &t.Status,
		&t.CreatedAt, &t.ImportedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

const contactColumns = `
	id, target_id, full_name, COALESCE(role,''), COALESCE(role_en,''),
	COALESCE(email,''), COALESCE(phone,''), COALESCE(linkedin_url,''),
	do_not_contact, confidence_score, updated_at`

func scanContact(row interface{ Scan(...interface{}) error }) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := row.Scan(
		&c.ID, &c.TargetID, &c.FullName, &c.Role, &c.RoleEN,
		&c.Email, &c.Phone, &c.LinkedInURL,
		&c.DoNotContact, &c.Confidence, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// TargetRepo implements targets.Repository against PostgreSQL.
type TargetRepo struct{ db *sql.DB }

// NewTargetRepo creates a Postgres-backed target repository.
func NewTargetRepo(db *sql.DB) *TargetRepo { return &TargetRepo{db: db} }

func (r *TargetRepo) InsertTarget(ctx context.Context, t *domain.Target) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO targets
			(id, name, type, sector, province, website, general_email, phone,
			 source, notes, do_not_contact, status, created_at, imported_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, t.ID, t.Name, t.Type, t.Sector, t.Province, t.Website, t.GeneralEmail, t.Phone,
		t.Source, t.Notes, t.DoNotContact, t.Status, t.CreatedAt, t.ImportedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert target: %w", err)
	}
	return nil
}

func (r *TargetRepo) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	t, err := scanTarget(r.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, targets.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get target: %w", err)
	}
	return t, nil
}

func (r *TargetRepo) UpdateTarget(ctx context.Context, t *domain.Target) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE targets SET
			name = $2, type = $3, sector = $4, province = $5, website = $6,
			general_email = $7, phone = $8, source = $9, notes = $10,
			do_not_contact = $11, status = $12, imported_at = $13, updated_at = $14
		WHERE id = $1
	`, t.ID, t.Name, t.Type, t.Sector, t.Province, t.Website,
		t.GeneralEmail, t.Phone, t.Source, t.Notes,
		t.DoNotContact, t.Status, t.ImportedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update target: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return targets.ErrNotFound
	}
	return nil
}

func (r *TargetRepo) DeleteTarget(ctx context.Context, id string) error {
	// Contacts cascade via the foreign key.
	res, err := r.db.ExecContext(ctx, `DELETE FROM targets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete target: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return targets.ErrNotFound
	}
	return nil
}

func (r *TargetRepo) ListTargets(ctx context.Context, f targets.Filter) ([]domain.Target, error) {
	q := `SELECT ` + targetColumns + ` FROM targets WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if f.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Type != "" {
		q += fmt.Sprintf(" AND type = $%d", idx)
		args = append(args, f.Type)
		idx++
	}
	if f.Province != "" {
		q += fmt.Sprintf(" AND province = $%d", idx)
		args = append(args, f.Province)
		idx++
	}
	q += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, q, args...)
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

func (r *TargetRepo) InsertContact(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts
			(id, target_id, full_name, role, role_en, email, phone, linkedin_url,
			 do_not_contact, confidence_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, c.ID, c.TargetID, c.FullName, c.Role, c.RoleEN, c.Email, c.Phone, c.LinkedInURL,
		c.DoNotContact, c.Confidence, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *TargetRepo) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, targets.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *TargetRepo) UpdateContact(ctx context.Context, c *domain.Contact) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts SET
			full_name = $2, role = $3, role_en = $4, email = $5, phone = $6,
			linkedin_url = $7, do_not_contact = $8, confidence_score = $9,
			updated_at = $10
		WHERE id = $1
	`, c.ID, c.FullName, c.Role, c.RoleEN, c.Email, c.Phone,
		c.LinkedInURL, c.DoNotContact, c.Confidence, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return targets.ErrNotFound
	}
	return nil
}

func (r *TargetRepo) ListContacts(ctx context.Context, targetID string) ([]domain.Contact, error) {
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
