package model

import (
	"encoding/json"
	"time"
)

// FormStatus advances monotonically through signing; rejected is terminal.
type FormStatus string

const (
	FormDraft           FormStatus = "draft"
	FormPendingReview   FormStatus = "pending_review"
	FormPendingApproval FormStatus = "pending_approval"
	FormApproved        FormStatus = "approved"
	FormRejected        FormStatus = "rejected"
)

// FormAttachment is a supporting file uploaded onto an evidence form.
type FormAttachment struct {
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	Category   string    `json:"category"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// FormHistoryEntry is one row of a form's append-only history.
type FormHistoryEntry struct {
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	PerformedAt time.Time `json:"performed_at"`
	Details     string    `json:"details,omitempty"`
}

// FormRejection records the terminal rejection of a form.
type FormRejection struct {
	Role       string    `json:"role"`
	Reason     string    `json:"reason"`
	RejectedBy string    `json:"rejected_by"`
	RejectedAt time.Time `json:"rejected_at"`
}

// EvidenceForm is one operational-evidence record (change request, incident
// report, ...) tied to a control. FormNo is the human-readable id, e.g.
// "INCIDENT_REPORT-00004"; Seq is its per-type sequence number.
type EvidenceForm struct {
	ID          string             `json:"id"`
	FormNo      string             `json:"form_no"`
	FormType    string             `json:"form_type"`
	Seq         int                `json:"-"`
	ControlID   string             `json:"control_id"`
	Status      FormStatus         `json:"status"`
	FormData    json.RawMessage    `json:"form_data,omitempty"`
	// Signatures holds requester, reviewer, approver in chain order.
	Signatures  SignatureSet       `json:"signatures"`
	Attachments []FormAttachment   `json:"attachments"`
	History     []FormHistoryEntry `json:"history"`
	Rejection   *FormRejection     `json:"rejection,omitempty"`
	Revision    int                `json:"-"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
