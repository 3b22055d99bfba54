package app

import (
	"context"
	"testing"

	"github.com/example/sentinel/internal/core/checklist"
)

func TestChecklistGet_SeedsDefault(t *testing.T) {
	repo := &mockChecklistRepository{}
	service := NewChecklistService(repo)

	sections, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(sections) != 5 {
		t.Fatalf("expected 5 default sections, got %d", len(sections))
	}
	if repo.saves != 1 {
		t.Errorf("expected the default to be seeded once, got %d saves", repo.saves)
	}

	// Second call serves the stored copy without re-seeding.
	if _, err := service.Get(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("expected no re-seed, got %d saves", repo.saves)
	}
}

func TestChecklistUpdate_Validates(t *testing.T) {
	repo := &mockChecklistRepository{sections: testSections()}
	service := NewChecklistService(repo)
	ctx := context.Background()

	err := service.Update(ctx, []checklist.Section{{ID: "x", Title: "X"}})
	if !IsCode(err, ErrorInvalid) {
		t.Errorf("expected invalid error for section without questions, got %v", err)
	}

	custom := []checklist.Section{{
		ID:        "custom",
		Title:     "Custom",
		Questions: []string{"Is the ramp clear?"},
	}}
	if err := service.Update(ctx, custom); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.sections) != 1 || repo.sections[0].ID != "custom" {
		t.Errorf("expected the stored definition to be replaced, got %+v", repo.sections)
	}
}

func TestChecklistReset(t *testing.T) {
	repo := &mockChecklistRepository{sections: testSections()}
	service := NewChecklistService(repo)

	if err := service.Reset(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.sections) != 5 {
		t.Errorf("expected the default definition back, got %d sections", len(repo.sections))
	}
}
