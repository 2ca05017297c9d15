package compliance

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/ignite/outreach-crm/internal/domain"
)

// mockRepo is an in-memory blocklist for testing.
type mockRepo struct {
	mu    sync.RWMutex
	store map[string]*domain.DncEntry
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]*domain.DncEntry)}
}

func (m *mockRepo) IsBlocked(_ context.Context, value string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.store[value]
	return ok, nil
}

func (m *mockRepo) Add(_ context.Context, e *domain.DncEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.store[e.Value]; exists {
		return nil
	}
	m.store[e.Value] = e
	return nil
}

func (m *mockRepo) Remove(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[value]; !ok {
		return ErrNotFound
	}
	delete(m.store, value)
	return nil
}

func (m *mockRepo) List(_ context.Context) ([]domain.DncEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.DncEntry
	for _, e := range m.store {
		out = append(out, *e)
	}
	return out, nil
}

func TestCheck_CompliantPair(t *testing.T) {
	svc := NewService(newMockRepo())

	warnings, err := svc.Check(context.Background(),
		domain.Target{Name: "City One"},
		&domain.Contact{FullName: "Anna Berg", Email: "anna@cityone.example"},
		[]string{"anna@cityone.example"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestCheck_TargetFlag(t *testing.T) {
	svc := NewService(newMockRepo())

	warnings, err := svc.Check(context.Background(),
		domain.Target{Name: "City One", DoNotContact: true}, nil, nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "do-not-contact") {
		t.Errorf("expected one target warning, got %v", warnings)
	}
}

func TestCheck_AllRulesEvaluated(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Block(ctx, "blocked@example.com", "unsubscribed"); err != nil {
		t.Fatalf("Block: %v", err)
	}

	warnings, err := svc.Check(ctx,
		domain.Target{Name: "City One", DoNotContact: true},
		&domain.Contact{FullName: "Anna Berg", DoNotContact: true},
		[]string{"blocked@example.com"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(warnings) != 3 {
		t.Fatalf("expected all 3 warnings, got %d: %v", len(warnings), warnings)
	}
	// Order is fixed: target, contact, then blocklist hits.
	if !strings.Contains(warnings[0], "target") {
		t.Errorf("warnings[0] = %q, want target warning", warnings[0])
	}
	if !strings.Contains(warnings[1], "contact") {
		t.Errorf("warnings[1] = %q, want contact warning", warnings[1])
	}
	if !strings.Contains(warnings[2], "blocked@example.com") {
		t.Errorf("warnings[2] = %q, want blocklist warning", warnings[2])
	}
}

func TestCheck_BlocklistMatchIsCaseSensitive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Block(ctx, "Info@cityone.example", ""); err != nil {
		t.Fatalf("Block: %v", err)
	}

	warnings, err := svc.Check(ctx, domain.Target{Name: "City One"}, nil,
		[]string{"info@cityone.example"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("lowercase variant should not match stored value, got %v", warnings)
	}

	warnings, err = svc.Check(ctx, domain.Target{Name: "City One"}, nil,
		[]string{"Info@cityone.example"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("exact match should warn, got %v", warnings)
	}
}

func TestCheck_EmptyRecipientsSkipped(t *testing.T) {
	svc := NewService(newMockRepo())

	warnings, err := svc.Check(context.Background(),
		domain.Target{Name: "City One"}, nil, []string{"", ""})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("empty identifiers must be ignored, got %v", warnings)
	}
}

func TestBlock_Idempotent(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Block(ctx, "dup@example.com", "manual"); err != nil {
			t.Fatalf("Block #%d: %v", i, err)
		}
	}

	entries, _ := svc.List(ctx)
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestUnblock_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Unblock(context.Background(), "ghost@example.com"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBlock_EmptyValueFails(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Block(context.Background(), "  ", ""); err == nil {
		t.Error("expected error for empty value")
	}
}
