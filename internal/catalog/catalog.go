package catalog

// Package catalog holds the read-only evidence configuration: which
// requirement slots each control has, which form types apply to which
// control categories, which categories take static file evidence, and which
// controls are template-only. The catalog is loaded once at startup and is
// immutable afterwards, so Resolve and Requirements are safe for concurrent
// use.

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed seed.json
var seedJSON []byte

// Requirement is one named evidence slot of a control.
type Requirement struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type catalogFile struct {
	Requirements   map[string][]Requirement `json:"requirements"`
	FormMappings   map[string][]string      `json:"form_mappings"`
	StaticEvidence map[string]string        `json:"static_evidence"`
	TemplateOnly   map[string]string        `json:"template_only"`
}

// Catalog is the immutable evidence configuration.
type Catalog struct {
	requirements map[string][]Requirement
	// prefixForms indexes the form->categories mapping the other way round:
	// category prefix -> applicable form types, sorted.
	prefixForms    map[string][]FormType
	staticEvidence map[string]string
	templateOnly   map[string]string
}

// Load reads the catalog from path, or from the embedded seed when path is
// empty. Unknown form types and malformed shapes are load errors so that a
// bad catalog fails startup instead of resolving wrong.
func Load(path string) (*Catalog, error) {
	raw := seedJSON
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		raw = b
	}

	var cf catalogFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		requirements:   cf.Requirements,
		prefixForms:    make(map[string][]FormType),
		staticEvidence: cf.StaticEvidence,
		templateOnly:   cf.TemplateOnly,
	}
	if c.requirements == nil {
		c.requirements = map[string][]Requirement{}
	}
	if c.staticEvidence == nil {
		c.staticEvidence = map[string]string{}
	}
	if c.templateOnly == nil {
		c.templateOnly = map[string]string{}
	}

	for ft, prefixes := range cf.FormMappings {
		if !FormType(ft).Valid() {
			return nil, fmt.Errorf("catalog maps unknown form type %q", ft)
		}
		for _, p := range prefixes {
			c.prefixForms[p] = append(c.prefixForms[p], FormType(ft))
		}
	}
	for _, fts := range c.prefixForms {
		sort.Slice(fts, func(i, j int) bool { return fts[i] < fts[j] })
	}

	for controlID, reqs := range c.requirements {
		seen := make(map[int]bool, len(reqs))
		for _, r := range reqs {
			if seen[r.ID] {
				return nil, fmt.Errorf("control %s declares requirement %d twice", controlID, r.ID)
			}
			seen[r.ID] = true
		}
	}

	return c, nil
}

// Requirements returns the requirement slots of a control. The returned
// slice is shared and must not be mutated.
func (c *Catalog) Requirements(controlID string) []Requirement {
	return c.requirements[controlID]
}
