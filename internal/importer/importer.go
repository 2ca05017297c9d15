package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// Service runs CSV imports and the target export.
type Service struct {
	repo Repository

	now func() time.Time
}

// NewService creates an importer.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ImportMunicipalities loads a municipality CSV. Recognized columns: name
// (required), website, province, general_email, phone, source. Rows are
// matched against existing targets by name first, then by website; on a
// match, non-blank values from the row replace the stored ones. Rows without
// a name count as failed. Returns the persisted ImportLog.
func (s *Service) ImportMunicipalities(ctx context.Context, r io.Reader) (*domain.ImportLog, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	log := &domain.ImportLog{
		ID:         uuid.New().String(),
		ImportType: "municipalities",
		CreatedAt:  now,
	}

	for _, row := range rows {
		name := row["name"]
		if name == "" {
			log.Failed++
			continue
		}
		website := row["website"]

		existing, err := s.repo.FindTargetByName(ctx, name)
		if errors.Is(err, ErrNotFound) && website != "" {
			existing, err = s.repo.FindTargetByWebsite(ctx, website)
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		if existing != nil {
			existing.Website = coalesce(website, existing.Website)
			existing.Province = coalesce(row["province"], existing.Province)
			existing.GeneralEmail = coalesce(row["general_email"], existing.GeneralEmail)
			existing.Phone = coalesce(row["phone"], existing.Phone)
			existing.Source = coalesce(row["source"], existing.Source)
			if existing.Status == "" {
				existing.Status = domain.TargetNew
			}
			existing.ImportedAt = &now
			existing.UpdatedAt = &now
			if err := s.repo.UpdateTarget(ctx, existing); err != nil {
				return nil, err
			}
			log.Updated++
			continue
		}

		target := &domain.Target{
			ID:           uuid.New().String(),
			Name:         name,
			Type:         domain.TargetMunicipality,
			Province:     row["province"],
			Website:      website,
			GeneralEmail: row["general_email"],
			Phone:        row["phone"],
			Source:       row["source"],
			Status:       domain.TargetNew,
			CreatedAt:    now,
			ImportedAt:   &now,
			UpdatedAt:    &now,
		}
		if err := s.repo.InsertTarget(ctx, target); err != nil {
			return nil, err
		}
		log.Inserted++
	}

	if err := s.repo.InsertImportLog(ctx, log); err != nil {
		return nil, err
	}
	logger.Info("municipality import finished",
		"inserted", log.Inserted, "updated", log.Updated, "failed", log.Failed)
	return log, nil
}

// ImportContacts loads a contact CSV. Recognized columns: target_id or
// target_name (one required), full_name, role, email, phone, linkedin_url.
// The target is resolved by id first, then by name. Within the target,
// contacts are matched by email first, then by full name; matches are
// updated with non-blank row values and their confidence is re-derived.
// Rows with no resolvable target, or with neither full_name nor email,
// count as failed.
func (s *Service) ImportContacts(ctx context.Context, r io.Reader) (*domain.ImportLog, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	log := &domain.ImportLog{
		ID:         uuid.New().String(),
		ImportType: "contacts",
		CreatedAt:  now,
	}

	for _, row := range rows {
		targetID := row["target_id"]
		targetName := row["target_name"]
		if targetID == "" && targetName == "" {
			log.Failed++
			continue
		}

		target, err := s.resolveTarget(ctx, targetID, targetName)
		if errors.Is(err, ErrNotFound) {
			log.Failed++
			continue
		}
		if err != nil {
			return nil, err
		}

		fullName := row["full_name"]
		email := row["email"]
		if fullName == "" && email == "" {
			log.Failed++
			continue
		}
		role := row["role"]

		existing, err := s.findContact(ctx, target.ID, email, fullName)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		if existing != nil {
			existing.FullName = coalesce(fullName, existing.FullName)
			existing.Role = coalesce(role, existing.Role)
			existing.Phone = coalesce(row["phone"], existing.Phone)
			existing.LinkedInURL = coalesce(row["linkedin_url"], existing.LinkedInURL)
			existing.Confidence = domain.ContactConfidence(
				coalesce(email, existing.Email), coalesce(role, existing.Role))
			existing.UpdatedAt = &now
			if err := s.repo.UpdateContact(ctx, existing); err != nil {
				return nil, err
			}
			log.Updated++
			continue
		}

		if fullName == "" {
			fullName = email
		}
		contact := &domain.Contact{
			ID:          uuid.New().String(),
			TargetID:    target.ID,
			FullName:    fullName,
			Role:        role,
			Email:       email,
			Phone:       row["phone"],
			LinkedInURL: row["linkedin_url"],
			Confidence:  domain.ContactConfidence(email, role),
			UpdatedAt:   &now,
		}
		if err := s.repo.InsertContact(ctx, contact); err != nil {
			return nil, err
		}
		log.Inserted++
	}

	if err := s.repo.InsertImportLog(ctx, log); err != nil {
		return nil, err
	}
	logger.Info("contact import finished",
		"inserted", log.Inserted, "updated", log.Updated, "failed", log.Failed)
	return log, nil
}

func (s *Service) resolveTarget(ctx context.Context, id, name string) (*domain.Target, error) {
	if id != "" {
		target, err := s.repo.GetTarget(ctx, id)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if name != "" {
		return s.repo.FindTargetByName(ctx, name)
	}
	return nil, fmt.Errorf("target %s: %w", id, ErrNotFound)
}

func (s *Service) findContact(ctx context.Context, targetID, email, fullName string) (*domain.Contact, error) {
	if email != "" {
		c, err := s.repo.FindContactByEmail(ctx, targetID, email)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return c, err
		}
	}
	if fullName != "" {
		return s.repo.FindContactByName(ctx, targetID, fullName)
	}
	return nil, ErrNotFound
}

// exportHeader is the column order of the target CSV export.
var exportHeader = []string{
	"id", "name", "type", "sector", "province", "website",
	"general_email", "phone", "status", "do_not_contact", "last_contacted",
}

// ExportTargets writes every target as CSV, including the timestamp of the
// most recent successful outreach.
func (s *Service) ExportTargets(ctx context.Context, w io.Writer) error {
	rows, err := s.repo.ListExportRows(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		lastContacted := ""
		if row.LastContacted != nil {
			lastContacted = row.LastContacted.UTC().Format(time.RFC3339)
		}
		record := []string{
			row.Target.ID,
			row.Target.Name,
			string(row.Target.Type),
			row.Target.Sector,
			row.Target.Province,
			row.Target.Website,
			row.Target.GeneralEmail,
			row.Target.Phone,
			string(row.Target.Status),
			fmt.Sprintf("%t", row.Target.DoNotContact),
			lastContacted,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readRows parses a CSV with a header line into one trimmed map per record.
// Header names are lowercased so exports from spreadsheet tools round-trip.
func readRows(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // exports from spreadsheet tools drop trailing commas

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
