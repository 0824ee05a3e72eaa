// Package opmodel defines the canonical schema for semantic operations:
// the atomic, addressable changes produced by a language analyzer and
// consumed by the composer and applier.
package opmodel

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jimmc414/semantic-merge/internal/maputil"
)

// Kind is the closed set of semantic operation kinds. Values outside this
// set are tolerated everywhere in the pipeline (sorted last by the
// composer, logged and skipped by the applier); [New] and [FromDict]
// store whatever kind they are given without checking it against the set.
type Kind string

// The exhaustive operation kinds, per spec §6.
const (
	KindRenameSymbol    Kind = "renameSymbol"
	KindMoveDecl        Kind = "moveDecl"
	KindAddDecl         Kind = "addDecl"
	KindDeleteDecl      Kind = "deleteDecl"
	KindChangeSignature Kind = "changeSignature"
	KindReorderParams   Kind = "reorderParams"
	KindAddParam        Kind = "addParam"
	KindRemoveParam     Kind = "removeParam"
	KindExtractMethod   Kind = "extractMethod"
	KindInlineMethod    Kind = "inlineMethod"
	KindUpdateCall      Kind = "updateCall"
	KindEditStmtBlock   Kind = "editStmtBlock"
	KindModifyImport    Kind = "modifyImport"
	KindReorderImports  Kind = "reorderImports"
	KindMoveFile        Kind = "moveFile"
	KindRenameFile      Kind = "renameFile"
	KindModifyNamespace Kind = "modifyNamespace"
)

// CurrentSchemaVersion is the schema version stamped on ops created via [New].
const CurrentSchemaVersion = 1

// Target identifies what an operation acts on: a stable logical symbol and,
// optionally, a concrete physical location.
type Target struct {
	// SymbolID is an opaque, analyzer-assigned identity for a logical
	// declaration. The core never parses or compares it structurally.
	SymbolID string
	// AddressID is an opaque identity for a physical location (file +
	// range). Absent for purely symbol-level operations.
	AddressID string
}

// Provenance records where an op came from. Timestamp is the sole input
// to composition's tie-breaking (see compose.Compose); it is never the
// local wall clock.
type Provenance struct {
	Timestamp string
	Author    string
	Commit    string
}

// Op is an atomic, addressable semantic change. Ops are created by an
// analyzer, never mutated in place; the composer clones and annotates
// clones, the applier only ever reads.
type Op struct {
	ID            string
	SchemaVersion int
	Type          Kind
	Target        Target
	Params        map[string]any
	Guards        map[string]any
	Effects       map[string]any
	Provenance    Provenance
}

// New constructs an Op with a fresh ID and the current schema version.
// Nil maps are replaced with empty ones so callers never need a nil check.
func New(kind Kind, target Target, params map[string]any) Op {
	if params == nil {
		params = map[string]any{}
	}
	return Op{
		ID:            newOpID(),
		SchemaVersion: CurrentSchemaVersion,
		Type:          kind,
		Target:        target,
		Params:        params,
		Guards:        map[string]any{},
		Effects:       map[string]any{},
		Provenance:    Provenance{},
	}
}

func newOpID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a visibly-degenerate id rather than panic.
		return "op-" + hex.EncodeToString(buf[:])
	}
	// RFC 4122 version/variant bits, matching the shape of a UUIDv4 string
	// without importing a UUID package for sixteen bytes of formatting.
	buf[6] = (buf[6] & 0x0f) | 0x40
	buf[8] = (buf[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", buf[0:4], buf[4:6], buf[6:8], buf[8:10], buf[10:16])
}

// Clone returns a deep copy of op. The composer relies on this to avoid
// aliasing input ops into its output: downstream annotation of a clone
// (renameContext, newAddress) must never be observable on the input.
func (op Op) Clone() Op {
	return Op{
		ID:            op.ID,
		SchemaVersion: op.SchemaVersion,
		Type:          op.Type,
		Target:        op.Target,
		Params:        cloneAnyMap(op.Params),
		Guards:        cloneAnyMap(op.Guards),
		Effects:       cloneAnyMap(op.Effects),
		Provenance:    op.Provenance,
	}
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAnyValue(v)
	}
	return out
}

func cloneAnyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneAnyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneAnyValue(item)
		}
		return out
	default:
		// Strings, numbers, bools and nil are already immutable.
		return v
	}
}

// Pretty renders a short human-readable summary, used by the CLI's
// non-JSON diff listing.
func (op Op) Pretty() string {
	keys := maputil.SortedKeys(op.Params)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, op.Params[k])
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s %s", op.Type, op.Target.SymbolID)
	}
	return fmt.Sprintf("%s %s {%s}", op.Type, op.Target.SymbolID, strings.Join(parts, ", "))
}
