// Package targets manages the organizations being pursued and their
// contacts.
package targets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// ErrNotFound indicates the requested target or contact does not exist.
var ErrNotFound = errors.New("not found")

// Filter narrows a target listing. Zero values match everything.
type Filter struct {
	Status   domain.TargetStatus
	Type     domain.TargetType
	Province string
}

// Repository is the persistence surface for targets and contacts.
type Repository interface {
	InsertTarget(ctx context.Context, t *domain.Target) error
	GetTarget(ctx context.Context, id string) (*domain.Target, error)
	UpdateTarget(ctx context.Context, t *domain.Target) error
	// DeleteTarget removes a target and, by cascade, its contacts.
	DeleteTarget(ctx context.Context, id string) error
	ListTargets(ctx context.Context, f Filter) ([]domain.Target, error)

	InsertContact(ctx context.Context, c *domain.Contact) error
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	UpdateContact(ctx context.Context, c *domain.Contact) error
	ListContacts(ctx context.Context, targetID string) ([]domain.Contact, error)
}

// Service exposes target and contact CRUD with validation.
type Service struct {
	repo Repository

	now func() time.Time
}

// NewService creates a target service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateTargetInput carries the caller-supplied fields of a new target.
type CreateTargetInput struct {
	Name         string            `json:"name"`
	Type         domain.TargetType `json:"type"`
	Sector       string            `json:"sector,omitempty"`
	Province     string            `json:"province,omitempty"`
	Website      string            `json:"website,omitempty"`
	GeneralEmail string            `json:"general_email,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	Source       string            `json:"source,omitempty"`
	Notes        string            `json:"notes,omitempty"`
}

// CreateTarget validates and persists a new target in the new status.
func (s *Service) CreateTarget(ctx context.Context, in CreateTargetInput) (*domain.Target, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("target name required")
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown target type %q", in.Type)
	}

	now := s.now().UTC()
	target := &domain.Target{
		ID:           uuid.New().String(),
		Name:         name,
		Type:         in.Type,
		Sector:       in.Sector,
		Province:     in.Province,
		Website:      in.Website,
		GeneralEmail: in.GeneralEmail,
		Phone:        in.Phone,
		Source:       in.Source,
		Notes:        in.Notes,
		Status:       domain.TargetNew,
		CreatedAt:    now,
	}
	if err := s.repo.InsertTarget(ctx, target); err != nil {
		return nil, err
	}
	logger.Info("target created", "target_id", target.ID, "type", target.Type)
	return target, nil
}

// GetTarget returns one target.
func (s *Service) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	return s.repo.GetTarget(ctx, id)
}

// ListTargets returns targets matching the filter.
func (s *Service) ListTargets(ctx context.Context, f Filter) ([]domain.Target, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("unknown target status %q", f.Status)
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, fmt.Errorf("unknown target type %q", f.Type)
	}
	return s.repo.ListTargets(ctx, f)
}

// UpdateStatus moves a target to a new pipeline status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.TargetStatus) (*domain.Target, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown target status %q", status)
	}
	target, err := s.repo.GetTarget(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	target.Status = status
	target.UpdatedAt = &now
	if err := s.repo.UpdateTarget(ctx, target); err != nil {
		return nil, err
	}
	logger.Info("target status updated", "target_id", id, "status", status)
	return target, nil
}

// SetDoNotContact flips a target's do-not-contact flag.
func (s *Service) SetDoNotContact(ctx context.Context, id string, flag bool) (*domain.Target, error) {
	target, err := s.repo.GetTarget(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	target.DoNotContact = flag
	target.UpdatedAt = &now
	if err := s.repo.UpdateTarget(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteTarget removes a target together with its contacts.
func (s *Service) DeleteTarget(ctx context.Context, id string) error {
	if _, err := s.repo.GetTarget(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteTarget(ctx, id)
}

// AddContactInput carries the caller-supplied fields of a new contact.
type AddContactInput struct {
	FullName    string `json:"full_name"`
	Role        string `json:"role,omitempty"`
	RoleEN      string `json:"role_en,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

// AddContact attaches a person to a target. Confidence is derived from the
// verified information present.
func (s *Service) AddContact(ctx context.Context, targetID string, in AddContactInput) (*domain.Contact, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("contact full name required")
	}
	if _, err := s.repo.GetTarget(ctx, targetID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	contact := &domain.Contact{
		ID:          uuid.New().String(),
		TargetID:    targetID,
		FullName:    strings.TrimSpace(in.FullName),
		Role:        in.Role,
		RoleEN:      in.RoleEN,
		Email:       in.Email,
		Phone:       in.Phone,
		LinkedInURL: in.LinkedInURL,
		Confidence:  domain.ContactConfidence(in.Email, in.Role),
		UpdatedAt:   &now,
	}
	if err := s.repo.InsertContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// ListContacts returns a target's contacts.
func (s *Service) ListContacts(ctx context.Context, targetID string) ([]domain.Contact, error) {
	if _, err := s.repo.GetTarget(ctx, targetID); err != nil {
		return nil, err
	}
	return s.repo.ListContacts(ctx, targetID)
}

// SetContactDoNotContact flips a contact's do-not-contact flag.
func (s *Service) SetContactDoNotContact(ctx context.Context, id string, flag bool) (*domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	contact.DoNotContact = flag
	contact.UpdatedAt = &now
	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}
