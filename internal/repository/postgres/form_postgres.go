package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

// EvidenceFormPostgres is a PostgreSQL implementation of
// repository.EvidenceFormRepository.
type EvidenceFormPostgres struct {
	db *sql.DB
}

// NewEvidenceFormPostgres creates a new EvidenceFormPostgres repository.
func NewEvidenceFormPostgres(db *sql.DB) *EvidenceFormPostgres {
	return &EvidenceFormPostgres{db: db}
}

var _ repository.EvidenceFormRepository = (*EvidenceFormPostgres)(nil)

const formColumns = `id, form_no, form_type, seq, control_id, status, form_data,
		sig_requester, sig_reviewer, sig_approver, attachments, history, rejection,
		revision, created_at, updated_at`

// Create inserts a form inside a transaction that assigns the next per-type
// sequence number; unique(form_type, seq) backstops concurrent creates.
func (r *EvidenceFormPostgres) Create(ctx context.Context, form *model.EvidenceForm) (*model.EvidenceForm, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var seq int
	const qSeq = `SELECT COALESCE(MAX(seq), 0) + 1 FROM evidence_forms WHERE form_type = $1`
	if err := tx.QueryRowContext(ctx, qSeq, form.FormType).Scan(&seq); err != nil {
		return nil, err
	}
	formNo := fmt.Sprintf("%s-%05d", strings.ToUpper(form.FormType), seq)

	attachments, err := jsonbOrNull(form.Attachments, form.Attachments == nil)
	if err != nil {
		return nil, err
	}
	history, err := jsonbOrNull(form.History, form.History == nil)
	if err != nil {
		return nil, err
	}

	const qIns = `
		INSERT INTO evidence_forms
			(id, form_no, form_type, seq, control_id, status, form_data, attachments, history, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)
		RETURNING ` + formColumns
	row := tx.QueryRowContext(ctx, qIns,
		form.ID,
		formNo,
		form.FormType,
		seq,
		form.ControlID,
		form.Status,
		[]byte(form.FormData),
		attachments,
		history,
		form.CreatedAt,
	)
	stored, err := scanForm(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

// FindByID fetches a single form by its ID.
func (r *EvidenceFormPostgres) FindByID(ctx context.Context, id string) (*model.EvidenceForm, error) {
	const q = `SELECT ` + formColumns + ` FROM evidence_forms WHERE id = $1`
	return scanForm(r.db.QueryRowContext(ctx, q, id))
}

// List returns forms using LIMIT/OFFSET pagination and a total count.
func (r *EvidenceFormPostgres) List(ctx context.Context, controlID, formType string, pq repository.PageQuery) (*repository.PageResult[model.EvidenceForm], error) {
	const qCount = `
		SELECT COUNT(*) FROM evidence_forms
		WHERE ($1 = '' OR control_id = $1) AND ($2 = '' OR form_type = $2)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, controlID, formType).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + formColumns + `
		FROM evidence_forms
		WHERE ($1 = '' OR control_id = $1) AND ($2 = '' OR form_type = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, controlID, formType, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.EvidenceForm, 0)
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.EvidenceForm]{Items: items, Total: total}, nil
}

// Update persists mutable form state with an optimistic revision check.
func (r *EvidenceFormPostgres) Update(ctx context.Context, form *model.EvidenceForm) error {
	sigs := make([]any, len(form.Signatures))
	for i, s := range form.Signatures {
		b, err := jsonbOrNull(s, s == nil)
		if err != nil {
			return err
		}
		sigs[i] = b
	}
	attachments, err := jsonbOrNull(form.Attachments, form.Attachments == nil)
	if err != nil {
		return err
	}
	history, err := jsonbOrNull(form.History, form.History == nil)
	if err != nil {
		return err
	}
	rejection, err := jsonbOrNull(form.Rejection, form.Rejection == nil)
	if err != nil {
		return err
	}

	const q = `
		UPDATE evidence_forms
		SET status = $1,
			sig_requester = $2, sig_reviewer = $3, sig_approver = $4,
			attachments = $5, history = $6, rejection = $7,
			revision = revision + 1, updated_at = $8
		WHERE id = $9 AND revision = $10
	`
	res, err := r.db.ExecContext(ctx, q,
		form.Status,
		sigs[0], sigs[1], sigs[2],
		attachments,
		history,
		rejection,
		form.UpdatedAt,
		form.ID,
		form.Revision,
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
	form.Revision++
	return nil
}

func scanForm(row rowScanner) (*model.EvidenceForm, error) {
	var (
		f            model.EvidenceForm
		formData     []byte
		rawSigs      [3][]byte
		attachments  []byte
		history      []byte
		rejection    []byte
	)
	if err := row.Scan(
		&f.ID,
		&f.FormNo,
		&f.FormType,
		&f.Seq,
		&f.ControlID,
		&f.Status,
		&formData,
		&rawSigs[0],
		&rawSigs[1],
		&rawSigs[2],
		&attachments,
		&history,
		&rejection,
		&f.Revision,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	f.FormData = formData
	for i, raw := range rawSigs {
		if len(raw) == 0 {
			continue
		}
		var s model.Signature
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		f.Signatures[i] = &s
	}
	if err := unmarshalInto(attachments, &f.Attachments); err != nil {
		return nil, err
	}
	if err := unmarshalInto(history, &f.History); err != nil {
		return nil, err
	}
	if len(rejection) > 0 {
		var rj model.FormRejection
		if err := json.Unmarshal(rejection, &rj); err != nil {
			return nil, err
		}
		f.Rejection = &rj
	}
	return &f, nil
}
