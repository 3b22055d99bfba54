package primary

import (
	"context"

	"github.com/example/sentinel/internal/core/checklist"
)

// ChecklistService serves the checklist definition used by evaluation
// sessions.
type ChecklistService interface {
	// Get returns the stored definition, seeding and returning the
	// built-in default when none exists. Requires config:read.
	Get(ctx context.Context) ([]checklist.Section, error)

	// Update validates and replaces the stored definition. The change
	// only affects sessions started afterwards. Requires config:update.
	Update(ctx context.Context, sections []checklist.Section) error

	// Reset restores the built-in default definition. Requires
	// config:advanced.
	Reset(ctx context.Context) error
}
