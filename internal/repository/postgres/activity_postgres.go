package postgres

import (
	"context"
	"database/sql"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

// ActivityPostgres is a PostgreSQL implementation of
// repository.ActivityRepository. Append-only: no update or delete queries
// exist on this table.
type ActivityPostgres struct {
	db *sql.DB
}

// NewActivityPostgres creates a new ActivityPostgres repository.
func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

// Append inserts one activity record.
func (r *ActivityPostgres) Append(ctx context.Context, act *model.Activity) error {
	const q = `
		INSERT INTO activity_log
			(id, actor_id, actor_name, action, entity_type, entity_id, entity_name, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, q,
		act.ID,
		act.ActorID,
		act.ActorName,
		act.Action,
		act.EntityType,
		act.EntityID,
		act.EntityName,
		act.Description,
		act.CreatedAt,
	)
	return err
}

// List returns activities using LIMIT/OFFSET pagination and a total count.
func (r *ActivityPostgres) List(ctx context.Context, entityType, entityID string, pq repository.PageQuery) (*repository.PageResult[model.Activity], error) {
	const qCount = `
		SELECT COUNT(*) FROM activity_log
		WHERE ($1 = '' OR entity_type = $1) AND ($2 = '' OR entity_id = $2)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, entityType, entityID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, actor_id, actor_name, action, entity_type, entity_id, entity_name, description, created_at
		FROM activity_log
		WHERE ($1 = '' OR entity_type = $1) AND ($2 = '' OR entity_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, entityType, entityID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(
			&a.ID,
			&a.ActorID,
			&a.ActorName,
			&a.Action,
			&a.EntityType,
			&a.EntityID,
			&a.EntityName,
			&a.Description,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Activity]{Items: items, Total: total}, nil
}
