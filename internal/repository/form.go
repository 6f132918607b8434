package repository

import (
	"context"

	"complyapi/internal/model"
)

// EvidenceFormRepository defines data access for evidence forms.
type EvidenceFormRepository interface {
	// Create inserts a form and assigns its per-type sequence number and
	// form number in the same transaction.
	Create(ctx context.Context, form *model.EvidenceForm) (*model.EvidenceForm, error)

	// FindByID returns a form by its ID.
	FindByID(ctx context.Context, id string) (*model.EvidenceForm, error)

	// List returns forms, newest first. controlID and formType filter when
	// non-empty.
	List(ctx context.Context, controlID, formType string, pq PageQuery) (*PageResult[model.EvidenceForm], error)

	// Update persists status, signatures, attachments, history, and
	// rejection guarded by the form's revision.
	Update(ctx context.Context, form *model.EvidenceForm) error
}
