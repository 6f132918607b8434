package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidControlID means the id is not a dotted numeric triple.
	ErrInvalidControlID = errors.New("invalid control id")
	// ErrControlUnmapped means a control that is not template-only resolves
	// to no modality at all: a missing catalog entry, not "no evidence
	// needed". Callers must surface it loudly.
	ErrControlUnmapped = errors.New("control has no evidence mapping")
)

// Modality is the evidence-collection method applicable to a control.
type Modality string

const (
	ModalityNone        Modality = "none"
	ModalityOperational Modality = "operational"
	ModalityStatic      Modality = "static"
	ModalityBoth        Modality = "both"
)

// Resolution is the answer to "what evidence does this control need".
type Resolution struct {
	ControlID           string     `json:"control_id"`
	NeedsEvidence       bool       `json:"needs_evidence"`
	Modality            Modality   `json:"modality"`
	ApplicableFormTypes []FormType `json:"applicable_form_types,omitempty"`
	StaticDescription   string     `json:"static_description,omitempty"`
	TemplateReason      string     `json:"template_reason,omitempty"`
}

// SplitControlID validates a "<category>.<subcategory>.<control>" id and
// returns its category prefix ("4.2.1" -> "4.2") and its third segment.
func SplitControlID(controlID string) (prefix, item string, err error) {
	parts := strings.Split(controlID, ".")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidControlID, controlID)
	}
	for _, p := range parts {
		if n, convErr := strconv.Atoi(p); convErr != nil || n <= 0 {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidControlID, controlID)
		}
	}
	return parts[0] + "." + parts[1], parts[2], nil
}

// Resolve decides which evidence modality applies to a control. Pure over
// the immutable catalog: the same controlID always yields the same answer.
func (c *Catalog) Resolve(controlID string) (Resolution, error) {
	prefix, item, err := SplitControlID(controlID)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{ControlID: controlID}

	// The first sub-requirement of every subcategory is by convention a
	// foundational policy control: the template itself is the deliverable.
	if reason, ok := c.templateOnly[controlID]; ok {
		res.Modality = ModalityNone
		res.TemplateReason = reason
		return res, nil
	}
	if item == "1" {
		res.Modality = ModalityNone
		res.TemplateReason = "foundational policy control; the document template is the deliverable"
		return res, nil
	}

	forms := c.prefixForms[prefix]
	staticDesc, needsStatic := c.staticEvidence[prefix]

	switch {
	case len(forms) > 0 && needsStatic:
		res.Modality = ModalityBoth
	case len(forms) > 0:
		res.Modality = ModalityOperational
	case needsStatic:
		res.Modality = ModalityStatic
	default:
		return Resolution{}, fmt.Errorf("%w: %s (category %s)", ErrControlUnmapped, controlID, prefix)
	}

	res.NeedsEvidence = true
	res.ApplicableFormTypes = forms
	res.StaticDescription = staticDesc
	return res, nil
}
