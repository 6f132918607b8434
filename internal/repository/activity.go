package repository

import (
	"context"

	"complyapi/internal/model"
)

// ActivityRepository persists the append-only activity trail. There is no
// update or delete: the trail only grows.
type ActivityRepository interface {
	// Append inserts one activity record.
	Append(ctx context.Context, act *model.Activity) error

	// List returns activities, newest first. entityType and entityID filter
	// when non-empty.
	List(ctx context.Context, entityType, entityID string, pq PageQuery) (*PageResult[model.Activity], error)
}
