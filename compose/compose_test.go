package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmc414/semantic-merge/opmodel"
)

// S1 — single move composes.
func TestCompose_SingleMoveComposes(t *testing.T) {
	moveOp := opmodel.New(opmodel.KindMoveDecl, opmodel.Target{SymbolID: "s1", AddressID: "old"}, map[string]any{
		"newAddress": "new",
	})

	out, conflicts := Compose([]opmodel.Op{moveOp}, nil)

	require.Empty(t, conflicts)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].Target.AddressID)
	assert.Equal(t, "new", out[0].Params["newAddress"])
}

// S2 — divergent rename.
func TestCompose_DivergentRename(t *testing.T) {
	a := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})
	b := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "bar"})

	out, conflicts := Compose([]opmodel.Op{a}, []opmodel.Op{b})

	assert.Empty(t, out)
	require.Len(t, conflicts, 1)
	require.Len(t, conflicts[0].Suggestions, 2)
	assert.Contains(t, conflicts[0].Suggestions[0].Label, "foo")
	assert.Contains(t, conflicts[0].Suggestions[1].Label, "bar")
}

// S3 — converging rename.
func TestCompose_ConvergingRenameCoalesces(t *testing.T) {
	a := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})
	b := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})

	out, conflicts := Compose([]opmodel.Op{a}, []opmodel.Op{b})

	assert.Empty(t, conflicts)
	require.Len(t, out, 1)
	assert.Equal(t, "foo", out[0].Params["newName"])
}

// S4 — rename then unrelated edit on the same symbol.
func TestCompose_RenameThenUnrelatedEditCarriesRenameContext(t *testing.T) {
	rename := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})
	rename.Provenance.Timestamp = "2024-01-01T00:00:00Z"
	edit := opmodel.New(opmodel.KindEditStmtBlock, opmodel.Target{SymbolID: "s1"}, nil)
	edit.Provenance.Timestamp = "2024-01-01T00:00:01Z"

	out, conflicts := Compose([]opmodel.Op{rename}, []opmodel.Op{edit})

	assert.Empty(t, conflicts)
	require.Len(t, out, 2)
	assert.Equal(t, opmodel.KindRenameSymbol, out[0].Type)
	assert.Equal(t, opmodel.KindEditStmtBlock, out[1].Type)
	assert.Equal(t, "foo", out[1].Params["renameContext"])
}

func TestCompose_OutputLengthBounded(t *testing.T) {
	a := []opmodel.Op{
		opmodel.New(opmodel.KindAddDecl, opmodel.Target{SymbolID: "s1"}, nil),
		opmodel.New(opmodel.KindDeleteDecl, opmodel.Target{SymbolID: "s2"}, nil),
	}
	b := []opmodel.Op{
		opmodel.New(opmodel.KindAddParam, opmodel.Target{SymbolID: "s3"}, nil),
	}

	out, conflicts := Compose(a, b)

	assert.LessOrEqual(t, len(out), len(a)+len(b))
	assert.Empty(t, conflicts)

	seen := map[string]struct{}{}
	for _, op := range out {
		_, dup := seen[op.ID]
		assert.False(t, dup, "duplicate id %s in composer output", op.ID)
		seen[op.ID] = struct{}{}
	}
}

func TestCompose_DivergentRenameExcludesBothOriginatingIDs(t *testing.T) {
	a := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})
	b := opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "bar"})
	other := opmodel.New(opmodel.KindAddDecl, opmodel.Target{SymbolID: "s2"}, nil)

	out, conflicts := Compose([]opmodel.Op{a, other}, []opmodel.Op{b})

	require.Len(t, conflicts, 1)
	for _, op := range out {
		assert.NotEqual(t, a.ID, op.ID)
		assert.NotEqual(t, b.ID, op.ID)
	}
}

func TestCompose_DeterministicAcrossRepeatedCalls(t *testing.T) {
	a := []opmodel.Op{
		opmodel.New(opmodel.KindMoveDecl, opmodel.Target{SymbolID: "s1"}, map[string]any{"newAddress": "new"}),
		opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s2"}, map[string]any{"newName": "x"}),
	}
	b := []opmodel.Op{
		opmodel.New(opmodel.KindEditStmtBlock, opmodel.Target{SymbolID: "s1"}, nil),
	}

	out1, _ := Compose(a, b)
	out2, _ := Compose(a, b)

	require.Equal(t, len(out1), len(out2))
	for i := range out1 {
		assert.Equal(t, out1[i], out2[i])
	}
}

func TestCompose_MoveChainRewritesLaterOpsOnSameSymbol(t *testing.T) {
	move := opmodel.New(opmodel.KindMoveDecl, opmodel.Target{SymbolID: "s1", AddressID: "old"}, map[string]any{"newAddress": "new"})
	move.Provenance.Timestamp = "2024-01-01T00:00:00Z"
	edit := opmodel.New(opmodel.KindEditStmtBlock, opmodel.Target{SymbolID: "s1", AddressID: "old"}, nil)
	edit.Provenance.Timestamp = "2024-01-01T00:00:01Z"

	out, conflicts := Compose([]opmodel.Op{move}, []opmodel.Op{edit})

	assert.Empty(t, conflicts)
	require.Len(t, out, 2)
	assert.Equal(t, "new", out[1].Target.AddressID, "later op on the moved symbol should see the new address")
}

func TestCompose_DoesNotMutateInputs(t *testing.T) {
	a := []opmodel.Op{opmodel.New(opmodel.KindRenameSymbol, opmodel.Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})}
	snapshot := a[0].Clone()

	Compose(a, nil)

	assert.Equal(t, snapshot, a[0])
}
