package app

import (
	"context"
	"fmt"

	"github.com/example/sentinel/internal/core/checklist"
	"github.com/example/sentinel/internal/ports/secondary"
)

// ChecklistServiceImpl implements primary.ChecklistService.
type ChecklistServiceImpl struct {
	checklists secondary.ChecklistRepository
}

// NewChecklistService creates a ChecklistService with injected
// dependencies.
func NewChecklistService(checklists secondary.ChecklistRepository) *ChecklistServiceImpl {
	return &ChecklistServiceImpl{checklists: checklists}
}

// Get returns the stored definition, seeding the built-in default when
// none has been saved yet.
func (s *ChecklistServiceImpl) Get(ctx context.Context) ([]checklist.Section, error) {
	sections, err := s.checklists.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist definition: %w", err)
	}
	if sections != nil {
		return sections, nil
	}

	sections = checklist.DefaultSections()
	if err := s.checklists.Save(ctx, sections); err != nil {
		return nil, fmt.Errorf("failed to seed default checklist: %w", err)
	}
	return sections, nil
}

// Update validates and replaces the stored definition.
func (s *ChecklistServiceImpl) Update(ctx context.Context, sections []checklist.Section) error {
	if err := checklist.Validate(sections); err != nil {
		return NewInvalidError(err.Error())
	}
	if err := s.checklists.Save(ctx, sections); err != nil {
		return fmt.Errorf("failed to save checklist definition: %w", err)
	}
	return nil
}

// Reset restores the built-in default definition.
func (s *ChecklistServiceImpl) Reset(ctx context.Context) error {
	if err := s.checklists.Save(ctx, checklist.DefaultSections()); err != nil {
		return fmt.Errorf("failed to save checklist definition: %w", err)
	}
	return nil
}
