package model

import "time"

// Signature is one filled role slot in an approval chain. A nil *Signature
// means the role has not signed yet.
type Signature struct {
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name"`
	Position       string    `json:"position"`
	SignedAt       time.Time `json:"signed_at"`
	SignatureImage string    `json:"signature_image,omitempty"`
	Comment        string    `json:"comment,omitempty"`
}

// SignatureSet holds the three ordered role slots of an approval chain.
// Index 0 is the first role in the chain (prepared/requester), index 2 the
// last (approved/approver).
type SignatureSet [3]*Signature
