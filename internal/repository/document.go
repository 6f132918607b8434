package repository

import (
	"context"

	"complyapi/internal/model"
)

// DocumentRepository defines data access for control documents using SQL
// queries only. No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document row. The version is assigned in the
	// database as max(version for the control)+1 and returned on the stored
	// document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents, newest version first.
	// controlID filters when non-empty.
	List(ctx context.Context, controlID string, pq PageQuery) (*PageResult[model.Document], error)

	// Update persists status, stamped flag, and signatures guarded by the
	// document's revision. Returns ErrRevisionConflict when the row's
	// revision no longer matches doc.Revision.
	Update(ctx context.Context, doc *model.Document) error

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
