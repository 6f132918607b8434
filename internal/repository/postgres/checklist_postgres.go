package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

// ChecklistPostgres is a PostgreSQL implementation of
// repository.ChecklistRepository.
type ChecklistPostgres struct {
	db *sql.DB
}

// NewChecklistPostgres creates a new ChecklistPostgres repository.
func NewChecklistPostgres(db *sql.DB) *ChecklistPostgres {
	return &ChecklistPostgres{db: db}
}

var _ repository.ChecklistRepository = (*ChecklistPostgres)(nil)

const checklistColumns = `id, control_id, requirement_id, requirement_name, is_required,
		is_complete, evidence_type, file_meta, form_ref, completed_at, completed_by,
		revision, created_at, updated_at`

// UpsertAbsent inserts the item unless its (control_id, requirement_id)
// pair already exists. Idempotent by the unique constraint.
func (r *ChecklistPostgres) UpsertAbsent(ctx context.Context, item *model.ChecklistItem) error {
	const q = `
		INSERT INTO evidence_checklist
			(id, control_id, requirement_id, requirement_name, is_required, is_complete, evidence_type, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, '', 1, $6, $6)
		ON CONFLICT (control_id, requirement_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q,
		item.ID,
		item.ControlID,
		item.RequirementID,
		item.RequirementName,
		item.IsRequired,
		item.CreatedAt,
	)
	return err
}

// FindByID fetches a single checklist item by its row ID.
func (r *ChecklistPostgres) FindByID(ctx context.Context, id string) (*model.ChecklistItem, error) {
	const q = `SELECT ` + checklistColumns + ` FROM evidence_checklist WHERE id = $1`
	return scanChecklistItem(r.db.QueryRowContext(ctx, q, id))
}

// FindByRequirement fetches the item for one (control, requirement) pair.
func (r *ChecklistPostgres) FindByRequirement(ctx context.Context, controlID string, requirementID int) (*model.ChecklistItem, error) {
	const q = `SELECT ` + checklistColumns + ` FROM evidence_checklist WHERE control_id = $1 AND requirement_id = $2`
	return scanChecklistItem(r.db.QueryRowContext(ctx, q, controlID, requirementID))
}

// ListByControl returns every item of a control ordered by requirement id.
func (r *ChecklistPostgres) ListByControl(ctx context.Context, controlID string) ([]model.ChecklistItem, error) {
	const q = `
		SELECT ` + checklistColumns + `
		FROM evidence_checklist
		WHERE control_id = $1
		ORDER BY requirement_id
	`
	rows, err := r.db.QueryContext(ctx, q, controlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ChecklistItem, 0)
	for rows.Next() {
		it, err := scanChecklistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists evidence payloads and completion state with an optimistic
// revision check.
func (r *ChecklistPostgres) Update(ctx context.Context, item *model.ChecklistItem) error {
	fileMeta, err := jsonbOrNull(item.File, item.File == nil)
	if err != nil {
		return err
	}
	formRef, err := jsonbOrNull(item.Form, item.Form == nil)
	if err != nil {
		return err
	}

	var completedAt any
	if item.CompletedAt != nil {
		completedAt = *item.CompletedAt
	}

	const q = `
		UPDATE evidence_checklist
		SET is_complete = $1, evidence_type = $2, file_meta = $3, form_ref = $4,
			completed_at = $5, completed_by = $6,
			revision = revision + 1, updated_at = $7
		WHERE id = $8 AND revision = $9
	`
	res, err := r.db.ExecContext(ctx, q,
		item.IsComplete,
		item.EvidenceType,
		fileMeta,
		formRef,
		completedAt,
		item.CompletedBy,
		item.UpdatedAt,
		item.ID,
		item.Revision,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrRevisionConflict
	}
	item.Revision++
	return nil
}

func scanChecklistItem(row rowScanner) (*model.ChecklistItem, error) {
	var (
		it          model.ChecklistItem
		fileMeta    []byte
		formRef     []byte
		completedAt sql.NullTime
		completedBy sql.NullString
	)
	if err := row.Scan(
		&it.ID,
		&it.ControlID,
		&it.RequirementID,
		&it.RequirementName,
		&it.IsRequired,
		&it.IsComplete,
		&it.EvidenceType,
		&fileMeta,
		&formRef,
		&completedAt,
		&completedBy,
		&it.Revision,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(fileMeta) > 0 {
		var f model.ChecklistFile
		if err := json.Unmarshal(fileMeta, &f); err != nil {
			return nil, err
		}
		it.File = &f
	}
	if len(formRef) > 0 {
		var f model.ChecklistFormRef
		if err := json.Unmarshal(formRef, &f); err != nil {
			return nil, err
		}
		it.Form = &f
	}
	if completedAt.Valid {
		t := completedAt.Time
		it.CompletedAt = &t
	}
	it.CompletedBy = completedBy.String
	return &it, nil
}
