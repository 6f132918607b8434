package model

// Package model contains the domain models for the compliance documentation
// manager: control documents, evidence forms, checklist items, and the
// activity trail. Pure data structures with no persistence dependencies;
// state-machine logic lives in internal/workflow.

// Actor identifies the user performing an operation. It is supplied by the
// upstream auth gateway and trusted as given.
type Actor struct {
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	Position       string `json:"position"`
	SignatureImage string `json:"signature_image,omitempty"`
}
