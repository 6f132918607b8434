package service

// Package service contains the use cases of the compliance manager: document
// generation and signing, evidence form lifecycle, the evidence checklist
// engine, and the activity trail. Services validate preconditions before
// mutating and leave state untouched on rejection.

import (
	"encoding/json"
	"errors"
	"log"
	"time"
)

var (
	ErrIDRequired          = errors.New("id is required")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrFormNotFound        = errors.New("evidence form not found")
	ErrItemNotFound        = errors.New("checklist item not found")
	ErrReaderNil           = errors.New("reader is nil")
	ErrInvalidFormType     = errors.New("unknown form type")
	ErrFormRejected        = errors.New("form is rejected and cannot advance")
	ErrFormNotRejectable   = errors.New("form is not in a rejectable state")
	ErrEvidenceNotRequired = errors.New("control requires no evidence")
	ErrFormNotApplicable   = errors.New("form type does not apply to this control")
	ErrFormControlMismatch = errors.New("form belongs to a different control")
	ErrNoFileEvidence      = errors.New("item has no file evidence")
	ErrAttachmentNotFound  = errors.New("attachment not found")
)

// logJSON writes one structured log line the same way the request logger
// does: a single JSON object per line on stdout.
func logJSON(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal log entry: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
