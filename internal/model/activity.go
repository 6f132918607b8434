package model

import "time"

// Activity is one append-only audit-trail record. The trail observes state
// changes; it never drives them.
type Activity struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	EntityName  string    `json:"entity_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
