package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. It uses database/sql with parameterized
// queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, control_id, title, status, stamped, version, revision,
		sig_prepared, sig_reviewed, sig_approved, created_at, updated_at`

// Create inserts a new document row. The version is computed in the insert
// as max(version for the control)+1; unique(control_id, version) backstops
// concurrent generations.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, control_id, title, status, stamped, version, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM documents WHERE control_id = $2),
			1, $6, $6)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.ControlID,
		doc.Title,
		doc.Status,
		doc.Stamped,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, controlID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE ($1 = '' OR control_id = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, controlID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE ($1 = '' OR control_id = $1)
		ORDER BY control_id, version DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, controlID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Update persists derived state and signatures with an optimistic revision
// check. Zero affected rows means the revision moved underneath the caller.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) error {
	sigs := make([]any, len(doc.Signatures))
	for i, s := range doc.Signatures {
		b, err := jsonbOrNull(s, s == nil)
		if err != nil {
			return err
		}
		sigs[i] = b
	}

	const q = `
		UPDATE documents
		SET status = $1, stamped = $2,
			sig_prepared = $3, sig_reviewed = $4, sig_approved = $5,
			revision = revision + 1, updated_at = $6
		WHERE id = $7 AND revision = $8
	`
	res, err := r.db.ExecContext(ctx, q,
		doc.Status,
		doc.Stamped,
		sigs[0], sigs[1], sigs[2],
		doc.UpdatedAt,
		doc.ID,
		doc.Revision,
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
	doc.Revision++
	return nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d       model.Document
		rawSigs [3][]byte
	)
	if err := row.Scan(
		&d.ID,
		&d.ControlID,
		&d.Title,
		&d.Status,
		&d.Stamped,
		&d.Version,
		&d.Revision,
		&rawSigs[0],
		&rawSigs[1],
		&rawSigs[2],
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for i, raw := range rawSigs {
		if len(raw) == 0 {
			continue
		}
		var s model.Signature
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		d.Signatures[i] = &s
	}
	return &d, nil
}
