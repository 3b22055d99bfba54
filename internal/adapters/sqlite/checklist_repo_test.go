package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/sentinel/internal/adapters/sqlite"
	"github.com/example/sentinel/internal/core/checklist"
)

func TestChecklistRepository_EmptyReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(db)

	sections, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sections != nil {
		t.Errorf("expected nil before any save, got %+v", sections)
	}
}

func TestChecklistRepository_SaveRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(db)
	ctx := context.Background()

	if err := repo.Save(ctx, checklist.DefaultSections()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sections, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(sections))
	}
	if sections[0].ID != "opening" || len(sections[0].Questions) != 10 {
		t.Errorf("unexpected first section %+v", sections[0])
	}
}

func TestChecklistRepository_SaveReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(db)
	ctx := context.Background()

	if err := repo.Save(ctx, checklist.DefaultSections()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	custom := []checklist.Section{{
		ID:        "custom",
		Title:     "Custom",
		Questions: []string{"Is the ramp clear?"},
	}}
	if err := repo.Save(ctx, custom); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	sections, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(sections) != 1 || sections[0].ID != "custom" {
		t.Errorf("expected the replacement definition, got %+v", sections)
	}
}
