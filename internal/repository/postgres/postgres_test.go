package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/service/compliance"
	"github.com/ignite/outreach-crm/internal/service/outreach"
)

func TestDncRepo_IsBlocked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDncRepo(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("blocked@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	blocked, err := repo.IsBlocked(context.Background(), "blocked@example.org")
	if err != nil {
		t.Fatalf("IsBlocked: %v", err)
	}
	if !blocked {
		t.Error("expected blocked = true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDncRepo_RemoveMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDncRepo(db)

	mock.ExpectExec("DELETE FROM dnc_entries").
		WithArgs("ghost@example.org").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Remove(context.Background(), "ghost@example.org")
	if !errors.Is(err, compliance.ErrNotFound) {
		t.Errorf("expected compliance.ErrNotFound, got %v", err)
	}
}

func TestDraftRepo_FinalizeSend_CommitsAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDraftRepo(db)

	now := time.Now().UTC()
	draft := &domain.OutreachDraft{
		ID:        "d1",
		TargetID:  "t1",
		Status:    domain.DraftSent,
		MessageID: "msg-1",
		SentAt:    &now,
		UpdatedAt: &now,
	}
	event := &domain.OutreachEvent{
		ID:        "e1",
		TargetID:  "t1",
		DraftID:   "d1",
		Channel:   domain.ChannelEmail,
		Body:      "hello",
		Succeeded: true,
		SentAt:    now,
		Outcome:   domain.OutcomeNoReply,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE outreach_drafts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outreach_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE targets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.FinalizeSend(context.Background(), draft, event, true); err != nil {
		t.Fatalf("FinalizeSend: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDraftRepo_FinalizeSend_RollsBackOnEventFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDraftRepo(db)

	now := time.Now().UTC()
	draft := &domain.OutreachDraft{ID: "d1", TargetID: "t1", Status: domain.DraftSent, UpdatedAt: &now}
	event := &domain.OutreachEvent{ID: "e1", TargetID: "t1", SentAt: now, Outcome: domain.OutcomeNoReply}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE outreach_drafts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outreach_events").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	if err := repo.FinalizeSend(context.Background(), draft, event, false); err == nil {
		t.Fatal("expected error from failed event insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDraftRepo_GetDraftMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewDraftRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM outreach_drafts").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetDraft(context.Background(), "ghost")
	if !errors.Is(err, outreach.ErrNotFound) {
		t.Errorf("expected outreach.ErrNotFound, got %v", err)
	}
}
