package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/sentinel/internal/core/access"
	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/core/evaluation"
	"github.com/example/sentinel/internal/ports/secondary"
)

// Ensure the mocks implement their interfaces
var (
	_ secondary.SessionStore         = (*mockSessionStore)(nil)
	_ secondary.EvaluationRepository = (*mockEvaluationRepository)(nil)
	_ secondary.ActionRepository     = (*mockActionRepository)(nil)
	_ secondary.AttachmentRepository = (*mockAttachmentRepository)(nil)
	_ secondary.ChecklistRepository  = (*mockChecklistRepository)(nil)
	_ secondary.UserRepository       = (*mockUserRepository)(nil)
	_ TokenSigner                    = (*mockSigner)(nil)
)

// testClock is a fixed instant injected as the service clock.
var testClock = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testClock }

// sequentialIDs returns an id generator producing prefix_1, prefix_2, ...
func sequentialIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

// mockSessionStore implements secondary.SessionStore for testing.
type mockSessionStore struct {
	session  *evaluation.Session
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
}

func (m *mockSessionStore) Load() (*evaluation.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.session, nil
}

func (m *mockSessionStore) Save(s *evaluation.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.session = s
	m.saves++
	return nil
}

func (m *mockSessionStore) Clear() error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.session = nil
	return nil
}

// mockEvaluationRepository implements secondary.EvaluationRepository.
type mockEvaluationRepository struct {
	evals        map[string]*evaluation.Completed
	savedActions []*secondary.ActionRecord
	savedEntries []*secondary.HistoryRecord
	saveErr      error
	listErr      error
	deleted      []string
}

func newMockEvaluationRepository() *mockEvaluationRepository {
	return &mockEvaluationRepository{evals: make(map[string]*evaluation.Completed)}
}

func (m *mockEvaluationRepository) SaveWithActions(ctx context.Context, ev *evaluation.Completed, actions []*secondary.ActionRecord, entries []*secondary.HistoryRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.evals[ev.ID] = ev
	m.savedActions = actions
	m.savedEntries = entries
	return nil
}

func (m *mockEvaluationRepository) List(ctx context.Context) ([]*evaluation.Completed, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*evaluation.Completed
	for _, ev := range m.evals {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockEvaluationRepository) GetByID(ctx context.Context, id string) (*evaluation.Completed, error) {
	return m.evals[id], nil
}

func (m *mockEvaluationRepository) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(m.evals, id)
	}
	m.deleted = append(m.deleted, ids...)
	return nil
}

// mockActionRepository implements secondary.ActionRepository.
type mockActionRepository struct {
	actions   map[string]*secondary.ActionRecord
	history   map[string][]*secondary.HistoryRecord
	order     []string
	createErr error
	updateErr error
	listErr   error
}

func newMockActionRepository() *mockActionRepository {
	return &mockActionRepository{
		actions: make(map[string]*secondary.ActionRecord),
		history: make(map[string][]*secondary.HistoryRecord),
	}
}

func (m *mockActionRepository) Create(ctx context.Context, rec *secondary.ActionRecord, first *secondary.HistoryRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.actions[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	m.history[rec.ID] = append(m.history[rec.ID], first)
	return nil
}

func (m *mockActionRepository) GetByID(ctx context.Context, id string) (*secondary.ActionRecord, error) {
	return m.actions[id], nil
}

func (m *mockActionRepository) List(ctx context.Context, filters secondary.ActionFilters) ([]*secondary.ActionRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.ActionRecord
	for _, id := range m.order {
		rec := m.actions[id]
		if rec == nil {
			continue
		}
		if filters.Status != "" && string(rec.Status) != filters.Status {
			continue
		}
		if filters.Responsible != "" && rec.Responsible != filters.Responsible {
			continue
		}
		if filters.Priority != "" && string(rec.Priority) != filters.Priority {
			continue
		}
		if filters.EvaluationID != "" && rec.EvaluationID != filters.EvaluationID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockActionRepository) UpdateStatus(ctx context.Context, id string, status action.Status, updatedAt time.Time, entry *secondary.HistoryRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	rec, ok := m.actions[id]
	if !ok {
		return errors.New("action not found")
	}
	rec.Status = status
	rec.UpdatedAt = updatedAt
	m.history[id] = append(m.history[id], entry)
	return nil
}

func (m *mockActionRepository) Update(ctx context.Context, rec *secondary.ActionRecord) error {
	m.actions[rec.ID] = rec
	return nil
}

func (m *mockActionRepository) Delete(ctx context.Context, id string) error {
	delete(m.actions, id)
	delete(m.history, id)
	return nil
}

func (m *mockActionRepository) History(ctx context.Context, actionID string) ([]*secondary.HistoryRecord, error) {
	return m.history[actionID], nil
}

// mockAttachmentRepository implements secondary.AttachmentRepository.
type mockAttachmentRepository struct {
	attachments map[string]*secondary.AttachmentRecord
	putErr      error
}

func newMockAttachmentRepository() *mockAttachmentRepository {
	return &mockAttachmentRepository{attachments: make(map[string]*secondary.AttachmentRecord)}
}

func (m *mockAttachmentRepository) Put(ctx context.Context, att *secondary.AttachmentRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.attachments[att.ID] = att
	return nil
}

func (m *mockAttachmentRepository) GetByID(ctx context.Context, id string) (*secondary.AttachmentRecord, error) {
	return m.attachments[id], nil
}

func (m *mockAttachmentRepository) ListByParent(ctx context.Context, parentID string) ([]*secondary.AttachmentRecord, error) {
	var out []*secondary.AttachmentRecord
	for _, att := range m.attachments {
		if att.ParentID == parentID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (m *mockAttachmentRepository) Delete(ctx context.Context, id string) error {
	delete(m.attachments, id)
	return nil
}

// mockChecklistRepository implements secondary.ChecklistRepository.
type mockChecklistRepository struct {
	sections []checklist.Section
	saves    int
	getErr   error
}

func (m *mockChecklistRepository) Get(ctx context.Context) ([]checklist.Section, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.sections, nil
}

func (m *mockChecklistRepository) Save(ctx context.Context, sections []checklist.Section) error {
	m.sections = sections
	m.saves++
	return nil
}

// mockUserRepository implements secondary.UserRepository.
type mockUserRepository struct {
	users     map[string]*secondary.UserRecord
	createErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*secondary.UserRecord)}
}

func (m *mockUserRepository) Create(ctx context.Context, u *secondary.UserRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	return m.users[id], nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*secondary.UserRecord, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	var out []*secondary.UserRecord
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *secondary.UserRecord) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if u, ok := m.users[id]; ok {
		u.LastLogin = at
	}
	return nil
}

// mockSigner implements TokenSigner with transparent tokens.
type mockSigner struct {
	signErr  error
	parseErr error
}

func (m *mockSigner) Sign(userID string, role access.Role, expiresAt time.Time) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	return "token:" + userID, nil
}

func (m *mockSigner) Parse(token string) (string, error) {
	if m.parseErr != nil {
		return "", m.parseErr
	}
	if strings.HasPrefix(token, "token:") {
		return strings.TrimPrefix(token, "token:"), nil
	}
	return "", errors.New("malformed token")
}

// testSections is a two-section checklist small enough to complete in
// tests.
func testSections() []checklist.Section {
	return []checklist.Section{
		{
			ID:        "opening",
			Title:     "Opening",
			Questions: []string{"Doors unlocked on time?", "Alarm disarmed?"},
		},
		{
			ID:        "closing",
			Title:     "Closing",
			Questions: []string{"Registers counted?", "Premises secured?"},
		},
	}
}
