package model

import "time"

// DocumentStatus is derived from the signature slots and recomputed on every
// mutation; it is stored for query convenience only.
type DocumentStatus string

const (
	DocumentPending    DocumentStatus = "pending"
	DocumentInProgress DocumentStatus = "in_progress"
	DocumentCompleted  DocumentStatus = "completed"
)

// Document is one versioned instance of a policy/procedure document for a
// control. Versions are monotonic per control.
type Document struct {
	ID        string         `json:"id"`
	ControlID string         `json:"control_id"`
	Title     string         `json:"title"`
	Status    DocumentStatus `json:"status"`
	Stamped   bool           `json:"stamped"`
	Version   int            `json:"version"`
	// Signatures holds prepared, reviewed, approved in chain order.
	Signatures SignatureSet `json:"signatures"`
	// Revision guards concurrent read-modify-write cycles; bumped on every
	// mutation, never exposed as domain state.
	Revision  int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
