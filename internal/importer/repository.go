package importer

import (
	"context"
	"errors"
	"time"

	"github.com/ignite/outreach-crm/internal/domain"
)

// ErrNotFound indicates a lookup matched no row.
var ErrNotFound = errors.New("not found")

// ExportRow is one line of the target CSV export.
type ExportRow struct {
	Target        domain.Target
	LastContacted *time.Time
}

// Repository is the persistence surface for imports and the CSV export.
type Repository interface {
	FindTargetByName(ctx context.Context, name string) (*domain.Target, error)
	FindTargetByWebsite(ctx context.Context, website string) (*domain.Target, error)
	GetTarget(ctx context.Context, id string) (*domain.Target, error)
	InsertTarget(ctx context.Context, t *domain.Target) error
	UpdateTarget(ctx context.Context, t *domain.Target) error

	FindContactByEmail(ctx context.Context, targetID, email string) (*domain.Contact, error)
	FindContactByName(ctx context.Context, targetID, fullName string) (*domain.Contact, error)
	InsertContact(ctx context.Context, c *domain.Contact) error
	UpdateContact(ctx context.Context, c *domain.Contact) error

	InsertImportLog(ctx context.Context, log *domain.ImportLog) error

	// ListExportRows returns every target with its most recent successful
	// outreach timestamp, if any.
	ListExportRows(ctx context.Context) ([]ExportRow, error)
}
