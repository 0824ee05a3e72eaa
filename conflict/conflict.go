// Package conflict defines the canonical schema for conflicts emitted by
// composition and the remediation suggestions attached to them.
package conflict

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jimmc414/semantic-merge/internal/naming"
	"github.com/jimmc414/semantic-merge/opmodel"
)

// Category is the closed-ish set of conflict categories. Unlike op Kind,
// the core does not dispatch on Category beyond composition's own rule
// for DivergentRename (spec §4.5); the rest are declared shapes available
// to future composer rules (spec §4.2, §10.1).
type Category string

// Declared conflict categories, per spec §4.2 and SPEC_FULL §10.1.
const (
	CategoryDivergentRename Category = "DivergentRename"
	CategoryDivergentMove   Category = "DivergentMove"
	CategoryDeleteVsEdit    Category = "DeleteVsEdit"
	CategorySignatureClash  Category = "SignatureClash"
	CategoryImportClash     Category = "ImportClash"
)

// AddressIDs records the addresses each side, and optionally the base,
// associate with the conflicted symbol.
type AddressIDs struct {
	A    string
	B    string
	Base string
}

// Suggestion is one resolution choice offered for a Conflict. OpIDs names
// the op(s) from the conflicting pair that this suggestion would keep.
type Suggestion struct {
	ID    string
	Label string
	OpIDs []string
}

// Conflict is a structured record of two incompatible ops on the same
// symbol. The core never resolves a Conflict; it only ever produces and
// reports them.
type Conflict struct {
	ID           string
	Category     Category
	SymbolID     string
	AddressIDs   AddressIDs
	OpA          opmodel.Op
	OpB          opmodel.Op
	MinimalSlice MinimalSlice
	Suggestions  []Suggestion
}

// MinimalSlice is the smallest source excerpt relevant to a conflict. The
// core does not compute this from source text (that belongs to the
// analyzer/applier layer the conflict was raised against); it defaults to
// the empty slice and is filled in by a collaborator that has the
// original file content available, if any.
type MinimalSlice struct {
	Path  string
	Start int
	End   int
	Code  string
}

// ToDict renders a Conflict as the plain-map wire shape from spec §3.
func (c Conflict) ToDict() map[string]any {
	suggestions := make([]map[string]any, len(c.Suggestions))
	for i, s := range c.Suggestions {
		suggestions[i] = map[string]any{
			"id":    s.ID,
			"label": s.Label,
			"opIds": append([]string(nil), s.OpIDs...),
		}
	}
	return map[string]any{
		"id":       c.ID,
		"category": string(c.Category),
		"symbolId": c.SymbolID,
		"addressIds": map[string]any{
			"A":    c.AddressIDs.A,
			"B":    c.AddressIDs.B,
			"base": c.AddressIDs.Base,
		},
		"opA": c.OpA.ToDict(),
		"opB": c.OpB.ToDict(),
		"minimalSlice": map[string]any{
			"path":  c.MinimalSlice.Path,
			"start": c.MinimalSlice.Start,
			"end":   c.MinimalSlice.End,
			"code":  c.MinimalSlice.Code,
		},
		"suggestions": suggestions,
	}
}

// titleCaser renders a display-friendly word ("Rename", "Keep") using
// golang.org/x/text/cases instead of the deprecated strings.Title.
var titleCaser = cases.Title(language.English)

// shortID returns the first 8 characters of id, or the whole string if
// shorter — used to build deterministic, human-scannable conflict ids.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// Slug returns a filesystem-safe, kebab-case name for c, used when a
// conflict is written out as its own report file alongside a merged tree
// (one file per conflict, never overwriting another).
func (c Conflict) Slug() string {
	return fmt.Sprintf("%s-%s", naming.ToKebabCase(string(c.Category)), shortID(c.ID))
}
