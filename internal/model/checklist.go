package model

import "time"

// EvidenceType says which of the two mutually exclusive evidence payloads
// completes a checklist item. Empty means the item is incomplete.
type EvidenceType string

const (
	EvidenceNone EvidenceType = ""
	EvidenceFile EvidenceType = "file"
	EvidenceLink EvidenceType = "form"
)

// ChecklistFile is the metadata of an uploaded evidence file.
type ChecklistFile struct {
	FileName    string `json:"file_name"`
	StoragePath string `json:"storage_path"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Notes       string `json:"notes,omitempty"`
}

// ChecklistFormRef links a checklist item to an approved-or-in-flight
// evidence form instead of a raw file.
type ChecklistFormRef struct {
	FormID    string `json:"form_id"`
	FormType  string `json:"form_type"`
	FormTitle string `json:"form_title"`
}

// ChecklistItem is one required evidence slot for one control.
// (ControlID, RequirementID) is unique. Exactly one of File/Form is set when
// IsComplete is true; both are nil otherwise.
type ChecklistItem struct {
	ID              string            `json:"id"`
	ControlID       string            `json:"control_id"`
	RequirementID   int               `json:"requirement_id"`
	RequirementName string            `json:"requirement_name"`
	IsRequired      bool              `json:"is_required"`
	IsComplete      bool              `json:"is_complete"`
	EvidenceType    EvidenceType      `json:"evidence_type"`
	File            *ChecklistFile    `json:"file,omitempty"`
	Form            *ChecklistFormRef `json:"form,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CompletedBy     string            `json:"completed_by,omitempty"`
	Revision        int               `json:"-"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Progress is the aggregate completion state of one control's checklist.
// Percentages are rounded half away from zero and are 0 when the
// denominator is 0.
type Progress struct {
	Total              int `json:"total"`
	Completed          int `json:"completed"`
	Required           int `json:"required"`
	RequiredCompleted  int `json:"required_completed"`
	Percentage         int `json:"percentage"`
	RequiredPercentage int `json:"required_percentage"`
}
