package opmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AssignsDefaults(t *testing.T) {
	op := New(KindRenameSymbol, Target{SymbolID: "s1"}, nil)

	assert.NotEmpty(t, op.ID)
	assert.Equal(t, CurrentSchemaVersion, op.SchemaVersion)
	assert.Equal(t, KindRenameSymbol, op.Type)
	assert.NotNil(t, op.Params)
	assert.NotNil(t, op.Guards)
	assert.NotNil(t, op.Effects)
}

func TestNew_GeneratesUniqueIDs(t *testing.T) {
	a := New(KindAddDecl, Target{SymbolID: "s1"}, nil)
	b := New(KindAddDecl, Target{SymbolID: "s1"}, nil)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestClone_DoesNotAliasParams(t *testing.T) {
	op := New(KindRenameSymbol, Target{SymbolID: "s1"}, map[string]any{"newName": "foo"})
	clone := op.Clone()

	clone.Params["newName"] = "bar"

	assert.Equal(t, "foo", op.Params["newName"], "mutating the clone must not affect the original")
	assert.Equal(t, "bar", clone.Params["newName"])
}

func TestClone_DeepCopiesNestedValues(t *testing.T) {
	op := New(KindEditStmtBlock, Target{SymbolID: "s1"}, map[string]any{
		"nested": map[string]any{"a": 1},
		"list":   []any{"x", "y"},
	})
	clone := op.Clone()

	clone.Params["nested"].(map[string]any)["a"] = 2
	clone.Params["list"].([]any)[0] = "z"

	assert.Equal(t, 1, op.Params["nested"].(map[string]any)["a"])
	assert.Equal(t, "x", op.Params["list"].([]any)[0])
}

func TestFromDict_RoundTripsToDict(t *testing.T) {
	original := New(KindMoveDecl, Target{SymbolID: "s1", AddressID: "addr-1"}, map[string]any{
		"newAddress": "addr-2",
	})
	original.Provenance = Provenance{Timestamp: "2024-01-01T00:00:00Z", Author: "alice", Commit: "deadbeef"}

	roundTripped, err := FromDict(original.ToDict())
	require.NoError(t, err)

	assert.Equal(t, original, roundTripped)
}

func TestFromDict_StripsUnknownTopLevelKeys(t *testing.T) {
	data := map[string]any{
		"id":            "op-1",
		"schemaVersion": 1,
		"type":          "renameSymbol",
		"target":        map[string]any{"symbolId": "s1", "addressId": ""},
		"params":        map[string]any{},
		"guards":        map[string]any{},
		"effects":       map[string]any{},
		"provenance":    map[string]any{},
		"future":        "field-from-a-newer-writer",
	}

	op, err := FromDict(data)
	require.NoError(t, err)

	// The unknown key leaves no trace anywhere on the decoded Op.
	assert.Equal(t, "s1", op.Target.SymbolID)
	_, hasFuture := op.Params["future"]
	assert.False(t, hasFuture)
}

func TestFromDict_RejectsMissingID(t *testing.T) {
	_, err := FromDict(map[string]any{
		"type":   "renameSymbol",
		"target": map[string]any{"symbolId": "s1"},
	})
	assert.Error(t, err)
}

func TestFromDict_RejectsMissingSymbolID(t *testing.T) {
	_, err := FromDict(map[string]any{
		"id":     "op-1",
		"type":   "renameSymbol",
		"target": map[string]any{},
	})
	assert.Error(t, err)
}

func TestOpJSON_RoundTrips(t *testing.T) {
	op := New(KindRenameFile, Target{SymbolID: "s1"}, map[string]any{"oldPath": "a.go", "newPath": "b.go"})

	encoded, err := op.ToJSON()
	require.NoError(t, err)

	decoded, err := OpFromJSON(encoded)
	require.NoError(t, err)

	assert.Equal(t, op, decoded)
}
