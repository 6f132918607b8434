package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"complyapi/internal/model"
	"complyapi/internal/repository"
)

// Entity type labels used in activity records.
const (
	EntityDocument  = "document"
	EntityForm      = "evidence_form"
	EntityChecklist = "checklist_item"
)

// AuditRecorder appends activity-trail records. The trail is a passive
// observer: recording failures are logged but never veto the mutation that
// already committed.
type AuditRecorder interface {
	Record(ctx context.Context, actor model.Actor, action, entityType, entityID, entityName, description string)
}

// ActivityListResult is the service-level DTO for paginated activities.
type ActivityListResult struct {
	Items []model.Activity `json:"data"`
	Total int              `json:"total"`
}

// ActivityService exposes the activity trail to the HTTP layer and records
// new entries for the other services.
type ActivityService interface {
	AuditRecorder

	// List returns activities, newest first, optionally filtered by entity.
	List(ctx context.Context, entityType, entityID string, limit, offset int) (*ActivityListResult, error)
}

type activityService struct {
	repo repository.ActivityRepository
}

// NewActivityService constructs a new ActivityService.
func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) Record(ctx context.Context, actor model.Actor, action, entityType, entityID, entityName, description string) {
	act := &model.Activity{
		ID:          uuid.New().String(),
		ActorID:     actor.UserID,
		ActorName:   actor.UserName,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		EntityName:  entityName,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Append(ctx, act); err != nil {
		logJSON("error", "activity_append_failed", map[string]any{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
			"error":       err.Error(),
		})
	}
}

func (s *activityService) List(ctx context.Context, entityType, entityID string, limit, offset int) (*ActivityListResult, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, entityType, entityID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ActivityListResult{Items: res.Items, Total: res.Total}, nil
}
