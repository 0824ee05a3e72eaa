// Package compose implements the composer (spec §4.5): a deterministic
// merge of two operation logs into one sequence plus a conflict list.
package compose

import (
	"sort"

	"github.com/jimmc414/semantic-merge/conflict"
	"github.com/jimmc414/semantic-merge/opmodel"
)

// precedence maps each op kind to its sort priority (spec §4.5). Kinds
// not present here — any kind outside the closed set — sort last.
var precedence = map[opmodel.Kind]int{
	opmodel.KindMoveDecl:        10,
	opmodel.KindRenameSymbol:    11,
	opmodel.KindModifyImport:    12,
	opmodel.KindReorderImports:  13,
	opmodel.KindChangeSignature: 20,
	opmodel.KindUpdateCall:      21,
	opmodel.KindAddDecl:         30,
	opmodel.KindDeleteDecl:      31,
	opmodel.KindExtractMethod:   40,
	opmodel.KindInlineMethod:    41,
	opmodel.KindEditStmtBlock:   50,
	opmodel.KindReorderParams:   51,
	opmodel.KindAddParam:        52,
	opmodel.KindRemoveParam:     53,
	opmodel.KindMoveFile:        60,
	opmodel.KindRenameFile:      61,
	opmodel.KindModifyNamespace: 70,
}

const unknownKindPriority = 99

const epochTimestamp = "1970-01-01T00:00:00Z"

// sortKey is the (priority, timestamp, id) tuple spec §4.5 defines as the
// composer's sort key. Ops are totally ordered by it, which is what makes
// composition deterministic and stable under repeated sorts.
type sortKey struct {
	priority  int
	timestamp string
	id        string
}

func keyOf(op opmodel.Op) sortKey {
	priority, ok := precedence[op.Type]
	if !ok {
		priority = unknownKindPriority
	}
	timestamp := op.Provenance.Timestamp
	if timestamp == "" {
		timestamp = epochTimestamp
	}
	return sortKey{priority: priority, timestamp: timestamp, id: op.ID}
}

// less reports whether a sorts strictly before b.
func (a sortKey) less(b sortKey) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.timestamp != b.timestamp {
		return a.timestamp < b.timestamp
	}
	return a.id < b.id
}

// lessOrEqual reports whether a sorts at or before b — used for the
// two-cursor merge's tie-break, which favors the A side (spec §4.5 step 2).
func (a sortKey) lessOrEqual(b sortKey) bool {
	return !b.less(a)
}

func sortedByKey(ops []opmodel.Op) []opmodel.Op {
	out := append([]opmodel.Op(nil), ops...)
	sort.SliceStable(out, func(i, j int) bool {
		return keyOf(out[i]).less(keyOf(out[j]))
	})
	return out
}

// Compose merges deltaA and deltaB into a single deterministic sequence
// and a list of conflicts, per spec §4.5. Output never aliases either
// input: every emitted op is a deep clone (opmodel.Op.Clone).
//
// Invariants upheld (spec §8):
//   - len(output) <= len(deltaA) + len(deltaB)
//   - no two output ops share an id
//   - for every DivergentRename conflict, neither originating op appears
//     in the output
//   - given the same inputs, output is byte-identical across calls
func Compose(deltaA, deltaB []opmodel.Op) ([]opmodel.Op, []conflict.Conflict) {
	opsA := sortedByKey(deltaA)
	opsB := sortedByKey(deltaB)

	var out []opmodel.Op
	var conflicts []conflict.Conflict

	renameChain := map[string]string{}
	move := newMoveChain()

	idxA, idxB := 0, 0
	for idxA < len(opsA) || idxB < len(opsB) {
		var fromA bool
		switch {
		case idxA >= len(opsA):
			fromA = false
		case idxB >= len(opsB):
			fromA = true
		default:
			fromA = keyOf(opsA[idxA]).lessOrEqual(keyOf(opsB[idxB]))
		}

		var chosen, other opmodel.Op
		var haveOther bool
		if fromA {
			chosen = opsA[idxA]
			if idxB < len(opsB) {
				other, haveOther = opsB[idxB], true
			}
		} else {
			chosen = opsB[idxB]
			if idxA < len(opsA) {
				other, haveOther = opsA[idxA], true
			}
		}

		if haveOther && isDivergentRename(chosen, other) {
			if fromA {
				conflicts = append(conflicts, conflict.DivergentRename(chosen, other))
			} else {
				conflicts = append(conflicts, conflict.DivergentRename(other, chosen))
			}
			idxA++
			idxB++
			continue
		}

		if haveOther && isConvergingRename(chosen, other) {
			recordChains(chosen, renameChain, move)
			out = append(out, materialize(chosen, renameChain, move))
			idxA++
			idxB++
			continue
		}

		recordChains(chosen, renameChain, move)
		out = append(out, materialize(chosen, renameChain, move))

		if fromA {
			idxA++
		} else {
			idxB++
		}
	}

	return out, conflicts
}

// isDivergentRename reports whether chosen and other are both
// renameSymbol ops on the same symbol with different newName values —
// the only conflict the composer's merge procedure emits on its own
// (spec §4.5 step 3).
func isDivergentRename(chosen, other opmodel.Op) bool {
	if chosen.Type != opmodel.KindRenameSymbol || other.Type != opmodel.KindRenameSymbol {
		return false
	}
	if chosen.Target.SymbolID != other.Target.SymbolID {
		return false
	}
	return chosen.Params["newName"] != other.Params["newName"]
}

// isConvergingRename reports whether chosen and other are both
// renameSymbol ops on the same symbol with the same newName — both
// sides made the identical edit, so the composer coalesces them into a
// single emitted op instead of duplicating it (spec §4.5 step 3).
func isConvergingRename(chosen, other opmodel.Op) bool {
	if chosen.Type != opmodel.KindRenameSymbol || other.Type != opmodel.KindRenameSymbol {
		return false
	}
	if chosen.Target.SymbolID != other.Target.SymbolID {
		return false
	}
	return chosen.Params["newName"] == other.Params["newName"]
}

// recordChains updates the renameChain and moveChain running maps with
// the op about to be emitted, using its original (pre-clone) symbol id
// and params — per spec §4.5 step 4.
func recordChains(op opmodel.Op, renameChain map[string]string, move *moveChain) {
	symbolID := op.Target.SymbolID
	switch op.Type {
	case opmodel.KindRenameSymbol:
		if newName, ok := op.Params["newName"].(string); ok {
			renameChain[symbolID] = newName
		}
	case opmodel.KindMoveDecl:
		if newAddr, ok := op.Params["newAddress"].(string); ok {
			move.set(symbolID, newAddr)
		}
	}
}

// materialize clones op and applies whatever the running chains know
// about its symbol (spec §4.5 step 5): a later move rewrites the
// target address (and, for moveDecl itself, params.newAddress); a
// pending rename on a non-rename op attaches params.renameContext.
func materialize(op opmodel.Op, renameChain map[string]string, move *moveChain) opmodel.Op {
	clone := op.Clone()
	symbolID := clone.Target.SymbolID

	if newAddr, ok := move.get(symbolID); ok {
		if clone.Type == opmodel.KindMoveDecl {
			clone.Params["newAddress"] = newAddr
		}
		clone.Target = opmodel.Target{SymbolID: symbolID, AddressID: newAddr}
	}

	if clone.Type != opmodel.KindRenameSymbol {
		if newName, ok := renameChain[symbolID]; ok {
			clone.Params["renameContext"] = newName
		}
	}

	return clone
}

// moveChain tracks, per symbol, the latest chosen move address. It is a
// small named type rather than a bare map so materialize/recordChains
// read clearly about what they're consulting.
type moveChain struct {
	bySymbol map[string]string
}

func newMoveChain() *moveChain {
	return &moveChain{bySymbol: map[string]string{}}
}

func (m *moveChain) set(symbolID, address string) {
	m.bySymbol[symbolID] = address
}

func (m *moveChain) get(symbolID string) (string, bool) {
	addr, ok := m.bySymbol[symbolID]
	return addr, ok
}
