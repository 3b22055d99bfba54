package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/sentinel/internal/core/action"
	"github.com/example/sentinel/internal/ports/primary"
	"github.com/example/sentinel/internal/ports/secondary"
)

func newTestActionService() (*ActionServiceImpl, *mockActionRepository) {
	repo := newMockActionRepository()
	service := NewActionService(repo, newMockAttachmentRepository())
	service.now = fixedNow
	service.newID = sequentialIDs()
	return service, repo
}

func createTestAction(t *testing.T, service *ActionServiceImpl) *primary.Action {
	t.Helper()
	a, err := service.Create(context.Background(), primary.CreateActionRequest{
		Description: "Restock the first aid kit",
		Responsible: "Dana",
		Priority:    action.PriorityHigh,
		DueDate:     "2026-03-20",
		Actor:       "admin",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return a
}

func TestCreateAction_Success(t *testing.T) {
	service, repo := newTestActionService()
	a := createTestAction(t, service)

	if a.Status != action.StatusNew {
		t.Errorf("expected status new, got %q", a.Status)
	}
	if a.EvaluationID != "" {
		t.Errorf("expected no evaluation link, got %q", a.EvaluationID)
	}
	if a.QuestionIndex != -1 {
		t.Errorf("expected question index -1, got %d", a.QuestionIndex)
	}
	entries := repo.history[a.ID]
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Comment != "action created" || entries[0].ChangedBy != "admin" {
		t.Errorf("unexpected creation entry %+v", entries[0])
	}
}

func TestCreateAction_Validation(t *testing.T) {
	service, _ := newTestActionService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  primary.CreateActionRequest
	}{
		{"missing description", primary.CreateActionRequest{Responsible: "Dana"}},
		{"missing responsible", primary.CreateActionRequest{Description: "Fix"}},
		{"bad priority", primary.CreateActionRequest{Description: "Fix", Responsible: "Dana", Priority: "urgent"}},
		{"bad due date", primary.CreateActionRequest{Description: "Fix", Responsible: "Dana", DueDate: "20-03-2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(ctx, tc.req)
			if !IsCode(err, ErrorInvalid) {
				t.Errorf("expected invalid error, got %v", err)
			}
		})
	}
}

func TestCreateAction_DefaultPriority(t *testing.T) {
	service, _ := newTestActionService()

	a, err := service.Create(context.Background(), primary.CreateActionRequest{
		Description: "Fix the door closer",
		Responsible: "Dana",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.Priority != action.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", a.Priority)
	}
}

func TestGetAction_DerivesOverdue(t *testing.T) {
	service, _ := newTestActionService()
	a := createTestAction(t, service) // due 2026-03-20, clock 2026-03-15
	ctx := context.Background()

	got, err := service.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Overdue {
		t.Error("expected action not overdue before its due date")
	}

	service.now = func() time.Time { return testClock.AddDate(0, 0, 10) }
	got, err = service.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !got.Overdue {
		t.Error("expected action overdue past its due date")
	}
}

func TestGetAction_NotFound(t *testing.T) {
	service, _ := newTestActionService()

	_, err := service.Get(context.Background(), "act_missing")
	if !IsCode(err, ErrorNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestListActions_Filters(t *testing.T) {
	service, _ := newTestActionService()
	ctx := context.Background()
	createTestAction(t, service)
	service.Create(ctx, primary.CreateActionRequest{
		Description: "Repaint the exit markings",
		Responsible: "Sam",
	})

	all, err := service.List(ctx, primary.ActionFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(all))
	}

	byResp, err := service.List(ctx, primary.ActionFilters{Responsible: "Sam"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(byResp) != 1 || byResp[0].Responsible != "Sam" {
		t.Errorf("expected only Sam's action, got %+v", byResp)
	}

	_, err = service.List(ctx, primary.ActionFilters{Status: "bogus"})
	if !IsCode(err, ErrorInvalid) {
		t.Errorf("expected invalid error for unknown status filter, got %v", err)
	}
}

func TestValidNextStatuses(t *testing.T) {
	service, _ := newTestActionService()
	a := createTestAction(t, service)

	next, err := service.ValidNextStatuses(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []action.Status{action.StatusPlanned, action.StatusCancelled}
	if len(next) != len(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
	for i := range want {
		if next[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, next)
		}
	}
}

func TestChangeStatus_Success(t *testing.T) {
	service, repo := newTestActionService()
	a := createTestAction(t, service)
	ctx := context.Background()

	err := service.ChangeStatus(ctx, a.ID, action.StatusPlanned, "admin", "scheduled for next week")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.actions[a.ID].Status != action.StatusPlanned {
		t.Errorf("expected status planned, got %q", repo.actions[a.ID].Status)
	}
	entries := repo.history[a.ID]
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	last := entries[1]
	if last.Status != action.StatusPlanned || last.Comment != "scheduled for next week" || last.ChangedBy != "admin" {
		t.Errorf("unexpected history entry %+v", last)
	}
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	service, repo := newTestActionService()
	a := createTestAction(t, service)

	err := service.ChangeStatus(context.Background(), a.ID, action.StatusCompleted, "admin", "")
	if !IsCode(err, ErrorInvalid) {
		t.Errorf("expected invalid error, got %v", err)
	}
	if repo.actions[a.ID].Status != action.StatusNew {
		t.Errorf("expected status unchanged, got %q", repo.actions[a.ID].Status)
	}
	if len(repo.history[a.ID]) != 1 {
		t.Errorf("expected no new history entry, got %d", len(repo.history[a.ID]))
	}
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	service, _ := newTestActionService()
	a := createTestAction(t, service)

	err := service.ChangeStatus(context.Background(), a.ID, "overdue", "admin", "")
	if !IsCode(err, ErrorInvalid) {
		t.Errorf("expected invalid error, got %v", err)
	}
}

func TestChangeStatus_ReopenCompleted(t *testing.T) {
	service, _ := newTestActionService()
	a := createTestAction(t, service)
	ctx := context.Background()

	steps := []action.Status{
		action.StatusPlanned,
		action.StatusInProgress,
		action.StatusCompleted,
		action.StatusInProgress,
	}
	for _, next := range steps {
		if err := service.ChangeStatus(ctx, a.ID, next, "admin", ""); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
}

func TestActionHistory_Order(t *testing.T) {
	service, _ := newTestActionService()
	a := createTestAction(t, service)
	ctx := context.Background()
	service.ChangeStatus(ctx, a.ID, action.StatusPlanned, "admin", "planned")
	service.ChangeStatus(ctx, a.ID, action.StatusInProgress, "dana", "started")

	entries, err := service.History(ctx, a.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantStatuses := []action.Status{action.StatusNew, action.StatusPlanned, action.StatusInProgress}
	for i, want := range wantStatuses {
		if entries[i].Status != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, entries[i].Status)
		}
	}
}

func TestDeleteAction(t *testing.T) {
	service, repo := newTestActionService()
	a := createTestAction(t, service)
	ctx := context.Background()

	if err := service.Delete(ctx, a.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.actions[a.ID] != nil {
		t.Error("expected the action to be removed")
	}

	err := service.Delete(ctx, a.ID)
	if !IsCode(err, ErrorNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUpdateAction(t *testing.T) {
	service, repo := newTestActionService()
	ctx := context.Background()
	a := createTestAction(t, service)

	err := service.Update(ctx, primary.UpdateActionRequest{
		ID:          a.ID,
		Description: "Restock and inspect the first aid kit",
		Responsible: "Luis",
		DueDate:     "2026-04-01",
		Priority:    action.PriorityLow,
		Tags:        []string{"safety"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec := repo.actions[a.ID]
	if rec.Responsible != "Luis" || rec.DueDate != "2026-04-01" || rec.Priority != action.PriorityLow {
		t.Errorf("unexpected record after update: %+v", rec)
	}
	if rec.Status != action.StatusNew {
		t.Errorf("update must not touch status, got %q", rec.Status)
	}
	if !rec.UpdatedAt.Equal(testClock) {
		t.Errorf("expected updatedAt %v, got %v", testClock, rec.UpdatedAt)
	}
}

func TestUpdateAction_Validation(t *testing.T) {
	service, _ := newTestActionService()
	ctx := context.Background()
	a := createTestAction(t, service)

	tests := []struct {
		name string
		req  primary.UpdateActionRequest
	}{
		{"missing description", primary.UpdateActionRequest{ID: a.ID, Responsible: "Dana", Priority: action.PriorityLow}},
		{"bad priority", primary.UpdateActionRequest{ID: a.ID, Description: "x", Responsible: "Dana", Priority: "urgent"}},
		{"bad due date", primary.UpdateActionRequest{ID: a.ID, Description: "x", Responsible: "Dana", Priority: action.PriorityLow, DueDate: "01-04-2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Update(ctx, tt.req)
			if !IsCode(err, ErrorInvalid) {
				t.Errorf("expected invalid error, got %v", err)
			}
		})
	}

	err := service.Update(ctx, primary.UpdateActionRequest{ID: "act_missing", Description: "x", Responsible: "Dana", Priority: action.PriorityLow})
	if !IsCode(err, ErrorNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestActionEvidence(t *testing.T) {
	repo := newMockActionRepository()
	atts := newMockAttachmentRepository()
	service := NewActionService(repo, atts)
	service.now = fixedNow
	service.newID = sequentialIDs()
	ctx := context.Background()

	a := createTestAction(t, service)
	atts.attachments["att_1"] = &secondary.AttachmentRecord{
		ID: "att_1", ParentID: a.ID, FileName: "photo.jpg", FileType: "image/jpeg", Data: []byte("jpeg"),
	}
	atts.attachments["att_2"] = &secondary.AttachmentRecord{
		ID: "att_2", ParentID: "act_other", FileName: "other.pdf",
	}

	files, err := service.Evidence(ctx, a.ID)
	if err != nil {
		t.Fatalf("Evidence: %v", err)
	}
	if len(files) != 1 || files[0].ID != "att_1" || files[0].Size != 4 {
		t.Fatalf("unexpected evidence list %+v", files)
	}

	file, data, err := service.EvidenceData(ctx, "att_1")
	if err != nil {
		t.Fatalf("EvidenceData: %v", err)
	}
	if file.FileName != "photo.jpg" || string(data) != "jpeg" {
		t.Errorf("unexpected attachment %+v %q", file, data)
	}

	if _, _, err := service.EvidenceData(ctx, "att_missing"); err == nil {
		t.Error("expected not found for missing attachment")
	}
	if _, err := service.Evidence(ctx, "act_missing"); err == nil {
		t.Error("expected not found for missing action")
	}
}
