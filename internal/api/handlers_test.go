package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/message"
	"github.com/ignite/outreach-crm/internal/service/compliance"
	"github.com/ignite/outreach-crm/internal/service/outreach"
	"github.com/ignite/outreach-crm/internal/service/targets"
)

// memTargetRepo backs the targets service with maps.
type memTargetRepo struct {
	mu       sync.Mutex
	targets  map[string]domain.Target
	contacts map[string]domain.Contact
}

func newMemTargetRepo() *memTargetRepo {
	return &memTargetRepo{
		targets:  make(map[string]domain.Target),
		contacts: make(map[string]domain.Contact),
	}
}

func (r *memTargetRepo) InsertTarget(_ context.Context, t *domain.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets[t.ID] = *t
	return nil
}

func (r *memTargetRepo) GetTarget(_ context.Context, id string) (*domain.Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.targets[id]
	if !ok {
		return nil, targets.ErrNotFound
	}
	return &t, nil
}

func (r *memTargetRepo) UpdateTarget(_ context.Context, t *domain.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.targets[t.ID]; !ok {
		return targets.ErrNotFound
	}
	r.targets[t.ID] = *t
	return nil
}

func (r *memTargetRepo) DeleteTarget(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.targets, id)
	for cid, c := range r.contacts {
		if c.TargetID == id {
			delete(r.contacts, cid)
		}
	}
	return nil
}

func (r *memTargetRepo) ListTargets(_ context.Context, f targets.Filter) ([]domain.Target, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Target
	for _, t := range r.targets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Province != "" && t.Province != f.Province {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *memTargetRepo) InsertContact(_ context.Context, c *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[c.ID] = *c
	return nil
}

func (r *memTargetRepo) GetContact(_ context.Context, id string) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok {
		return nil, targets.ErrNotFound
	}
	return &c, nil
}

func (r *memTargetRepo) UpdateContact(_ context.Context, c *domain.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contacts[c.ID]; !ok {
		return targets.ErrNotFound
	}
	r.contacts[c.ID] = *c
	return nil
}

func (r *memTargetRepo) ListContacts(_ context.Context, targetID string) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.TargetID == targetID {
			out = append(out, c)
		}
	}
	return out, nil
}

// memDraftRepo backs the outreach service. It shares target and contact
// state with a memTargetRepo so the two services see the same world.
type memDraftRepo struct {
	store *memTargetRepo

	mu     sync.Mutex
	drafts map[string]domain.OutreachDraft
	events []domain.OutreachEvent
}

func newMemDraftRepo(store *memTargetRepo) *memDraftRepo {
	return &memDraftRepo{store: store, drafts: make(map[string]domain.OutreachDraft)}
}

func (r *memDraftRepo) GetTarget(ctx context.Context, id string) (*domain.Target, error) {
	t, err := r.store.GetTarget(ctx, id)
	if err != nil {
		return nil, outreach.ErrNotFound
	}
	return t, nil
}

func (r *memDraftRepo) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := r.store.GetContact(ctx, id)
	if err != nil {
		return nil, outreach.ErrNotFound
	}
	return c, nil
}

func (r *memDraftRepo) InsertDraft(_ context.Context, d *domain.OutreachDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = *d
	return nil
}

func (r *memDraftRepo) GetDraft(_ context.Context, id string) (*domain.OutreachDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, outreach.ErrNotFound
	}
	return &d, nil
}

func (r *memDraftRepo) UpdateDraft(_ context.Context, d *domain.OutreachDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = *d
	return nil
}

func (r *memDraftRepo) ListDrafts(_ context.Context, status domain.DraftStatus) ([]domain.OutreachDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OutreachDraft
	for _, d := range r.drafts {
		if status == "" || d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDraftRepo) CountQueuedDrafts(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.drafts {
		if d.Status == domain.DraftQueued {
			n++
		}
	}
	return n, nil
}

func (r *memDraftRepo) FinalizeSend(ctx context.Context, draft *domain.OutreachDraft, event *domain.OutreachEvent, markContacted bool) error {
	r.mu.Lock()
	r.drafts[draft.ID] = *draft
	r.events = append(r.events, *event)
	r.mu.Unlock()

	if markContacted {
		t, err := r.store.GetTarget(ctx, draft.TargetID)
		if err != nil {
			return err
		}
		t.Status = domain.TargetContacted
		return r.store.UpdateTarget(ctx, t)
	}
	return nil
}

func (r *memDraftRepo) ListEvents(_ context.Context, targetID string) ([]domain.OutreachEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OutreachEvent
	for _, e := range r.events {
		if e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memDraftRepo) UpdateEventOutcome(_ context.Context, eventID string, outcome domain.Outcome, respondedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == eventID {
			r.events[i].Outcome = outcome
			r.events[i].RespondedAt = respondedAt
			return nil
		}
	}
	return outreach.ErrNotFound
}

// memDncRepo backs the compliance service.
type memDncRepo struct {
	mu      sync.Mutex
	entries []domain.DncEntry
}

func (r *memDncRepo) IsBlocked(_ context.Context, value string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Value == value {
			return true, nil
		}
	}
	return false, nil
}

func (r *memDncRepo) Add(_ context.Context, e *domain.DncEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.Value == e.Value {
			return nil
		}
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *memDncRepo) Remove(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.Value == value {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return compliance.ErrNotFound
}

func (r *memDncRepo) List(_ context.Context) ([]domain.DncEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DncEntry(nil), r.entries...), nil
}

// memLimiter plays both the send limiter and the quota reader.
type memLimiter struct {
	mu    sync.Mutex
	used  int
	limit int
}

func (l *memLimiter) Reserve(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.used >= l.limit {
		return false, nil
	}
	l.used++
	return true, nil
}

func (l *memLimiter) Remaining(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit - l.used, nil
}

func (l *memLimiter) UsedToday(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used, nil
}

func (l *memLimiter) Limit() int { return l.limit }

type testEnv struct {
	handler http.Handler
	store   *memTargetRepo
	drafts  *memDraftRepo
	dnc     *memDncRepo
	limiter *memLimiter
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store := newMemTargetRepo()
	draftRepo := newMemDraftRepo(store)
	dncRepo := &memDncRepo{}
	limiter := &memLimiter{limit: 5}

	templates := message.StaticCollection{
		"first-touch": "Subject: Hello {target_name}\nDear {contact_name},\n\n{value_prop}\n",
	}
	complianceSvc := compliance.NewService(dncRepo)
	outreachSvc := outreach.NewService(outreach.Options{
		Repo:        draftRepo,
		Checker:     complianceSvc,
		Limiter:     limiter,
		Templates:   templates,
		PreviewMode: true,
	})

	svcs := Services{
		Targets:    targets.NewService(store),
		Outreach:   outreachSvc,
		Compliance: complianceSvc,
		Templates:  templates,
		Quota:      limiter,
	}
	return &testEnv{
		handler: SetupRoutes(NewHandlers(svcs)),
		store:   store,
		drafts:  draftRepo,
		dnc:     dncRepo,
		limiter: limiter,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedTarget(t *testing.T, e *testEnv) *domain.Target {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/targets", map[string]string{
		"name":          "Gemeente Ede",
		"type":          "municipality",
		"province":      "Gelderland",
		"general_email": "info@ede.example",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var target domain.Target
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &target))
	return &target
}

func TestHealthCheck(t *testing.T) {
	env := setupTestServer(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["sent_today"])
	assert.Equal(t, float64(5), body["daily_limit"])
}

func TestTargetEndpoints(t *testing.T) {
	env := setupTestServer(t)
	target := seedTarget(t, env)

	rec := env.do(t, http.MethodGet, "/api/targets/"+target.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Gemeente Ede", body["name"])
	assert.Equal(t, "new", body["status"])

	rec = env.do(t, http.MethodGet, "/api/targets/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/targets", map[string]string{
		"name": "Broken", "type": "starship",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/targets/"+target.ID+"/status", map[string]string{
		"status": "qualified",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qualified", decodeBody(t, rec)["status"])

	rec = env.do(t, http.MethodPost, "/api/targets/"+target.ID+"/contacts", map[string]string{
		"full_name": "Anna de Vries",
		"role":      "Programmamanager",
		"email":     "a.devries@ede.example",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "high", decodeBody(t, rec)["confidence"])

	rec = env.do(t, http.MethodGet, "/api/targets/"+target.ID+"/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	contacts := decodeBody(t, rec)["contacts"].([]interface{})
	assert.Len(t, contacts, 1)
}

func TestDraftLifecycle(t *testing.T) {
	env := setupTestServer(t)
	target := seedTarget(t, env)

	rec := env.do(t, http.MethodPost, "/api/drafts", map[string]interface{}{
		"target_id":     target.ID,
		"template_name": "first-touch",
		"channel":       "email",
		"fields":        map[string]string{"contact_name": "there", "value_prop": "We modernize permit workflows."},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var draft domain.OutreachDraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	assert.Equal(t, domain.DraftComposed, draft.Status)
	assert.Contains(t, draft.FinalSubject, "Gemeente Ede")

	// Send before approval is a state violation.
	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/send", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/approve", map[string]string{
		"approved_by": "sam",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decodeBody(t, rec)["status"])

	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/send", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "sent", body["status"])
	assert.Equal(t, "preview", body["message_id"])

	// A sent draft cannot be sent twice.
	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/send", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The send advanced the target and left an event behind.
	rec = env.do(t, http.MethodGet, "/api/targets/"+target.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "contacted", decodeBody(t, rec)["status"])

	rec = env.do(t, http.MethodGet, "/api/targets/"+target.ID+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeBody(t, rec)["events"].([]interface{})
	require.Len(t, events, 1)
}

func TestSendBlockedByCompliance(t *testing.T) {
	env := setupTestServer(t)
	target := seedTarget(t, env)

	rec := env.do(t, http.MethodPost, "/api/drafts", map[string]interface{}{
		"target_id":     target.ID,
		"template_name": "first-touch",
		"channel":       "email",
		"fields":        map[string]string{"contact_name": "there", "value_prop": "x"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var draft domain.OutreachDraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))

	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/approve", map[string]string{"approved_by": "sam"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Blocking the recipient after approval must still stop the send.
	rec = env.do(t, http.MethodPost, "/api/dnc", map[string]string{
		"value": "info@ede.example", "reason": "asked to be removed",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/send", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	warnings := body["warnings"].([]interface{})
	require.NotEmpty(t, warnings)

	rec = env.do(t, http.MethodGet, "/api/drafts/"+draft.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "failed", decodeBody(t, rec)["status"])
}

func TestSendRateLimited(t *testing.T) {
	env := setupTestServer(t)
	env.limiter.used = env.limiter.limit
	target := seedTarget(t, env)

	rec := env.do(t, http.MethodPost, "/api/drafts", map[string]interface{}{
		"target_id":     target.ID,
		"template_name": "first-touch",
		"channel":       "email",
		"fields":        map[string]string{"contact_name": "there", "value_prop": "x"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var draft domain.OutreachDraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))

	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/approve", map[string]string{"approved_by": "sam"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/send", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// The draft survives for a later attempt.
	rec = env.do(t, http.MethodGet, "/api/drafts/"+draft.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decodeBody(t, rec)["status"])
}

func TestUnknownTemplate(t *testing.T) {
	env := setupTestServer(t)
	target := seedTarget(t, env)

	rec := env.do(t, http.MethodPost, "/api/drafts", map[string]interface{}{
		"target_id":     target.ID,
		"template_name": "no-such-template",
		"channel":       "email",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDncEndpoints(t *testing.T) {
	env := setupTestServer(t)

	rec := env.do(t, http.MethodPost, "/api/dnc", map[string]string{
		"value": "blocked@example.com", "reason": "complaint",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/dnc", map[string]string{"value": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/dnc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody(t, rec)["entries"].([]interface{})
	assert.Len(t, entries, 1)

	rec = env.do(t, http.MethodDelete, "/api/dnc/nobody@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/dnc/blocked@example.com", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestQuotaEndpoint(t *testing.T) {
	env := setupTestServer(t)
	env.limiter.used = 2

	rec := env.do(t, http.MethodGet, "/api/quota", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["used"])
	assert.Equal(t, float64(3), body["remaining"])
	assert.Equal(t, float64(5), body["limit"])
}

func TestListTemplates(t *testing.T) {
	env := setupTestServer(t)

	rec := env.do(t, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	names := decodeBody(t, rec)["templates"].([]interface{})
	require.Len(t, names, 1)
	assert.Equal(t, "first-touch", names[0])
}

func TestRecordOutcomeRejectsUnknownValue(t *testing.T) {
	env := setupTestServer(t)

	rec := env.do(t, http.MethodPatch, "/api/events/some-id/outcome", map[string]string{
		"outcome": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
