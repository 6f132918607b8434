package repository

import (
	"context"

	"complyapi/internal/model"
)

// ChecklistRepository defines data access for evidence checklist items.
// (control_id, requirement_id) is unique in the table.
type ChecklistRepository interface {
	// UpsertAbsent inserts the item unless a row for its
	// (controlID, requirementID) pair already exists, in which case it is a
	// no-op. Safe to call on every view.
	UpsertAbsent(ctx context.Context, item *model.ChecklistItem) error

	// FindByID returns a checklist item by its row ID.
	FindByID(ctx context.Context, id string) (*model.ChecklistItem, error)

	// FindByRequirement returns the item for one (control, requirement) pair.
	FindByRequirement(ctx context.Context, controlID string, requirementID int) (*model.ChecklistItem, error)

	// ListByControl returns all items of a control ordered by requirement id.
	ListByControl(ctx context.Context, controlID string) ([]model.ChecklistItem, error)

	// Update persists completion state and evidence payloads guarded by the
	// item's revision.
	Update(ctx context.Context, item *model.ChecklistItem) error
}
