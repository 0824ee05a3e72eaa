package goanalyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmc414/semantic-merge/opmodel"
	"github.com/jimmc414/semantic-merge/snapshot"
)

func snap(files map[string]string) snapshot.Snapshot {
	var out snapshot.Snapshot
	for path, content := range files {
		out.Files = append(out.Files, snapshot.File{Path: path, Content: content})
	}
	return out
}

func TestDiff_DetectsRenamedFunction(t *testing.T) {
	base := snap(map[string]string{"a.go": "package a\n\nfunc Foo() {}\n"})
	rev := snap(map[string]string{"a.go": "package a\n\nfunc Bar() {}\n"})

	log, err := Diff(base, rev)
	require.NoError(t, err)
	require.Len(t, log.Ops, 1)
	assert.Equal(t, opmodel.KindRenameSymbol, log.Ops[0].Type)
	assert.Equal(t, "Foo", log.Ops[0].Params["oldName"])
	assert.Equal(t, "Bar", log.Ops[0].Params["newName"])
}

func TestDiff_DetectsAddedDecl(t *testing.T) {
	base := snap(map[string]string{"a.go": "package a\n\nfunc Foo() {}\n"})
	rev := snap(map[string]string{"a.go": "package a\n\nfunc Foo() {}\n\nfunc Baz() {}\n"})

	log, err := Diff(base, rev)
	require.NoError(t, err)
	require.Len(t, log.Ops, 1)
	assert.Equal(t, opmodel.KindAddDecl, log.Ops[0].Type)
	assert.Equal(t, "Baz", log.Ops[0].Params["name"])
}

func TestDiff_DetectsBodyEdit(t *testing.T) {
	base := snap(map[string]string{"a.go": "package a\n\nfunc Foo() int { return 1 }\n"})
	rev := snap(map[string]string{"a.go": "package a\n\nfunc Foo() int { return 2 }\n"})

	log, err := Diff(base, rev)
	require.NoError(t, err)
	require.Len(t, log.Ops, 1)
	assert.Equal(t, opmodel.KindEditStmtBlock, log.Ops[0].Type)
}

func TestDiff_DetectsModifiedImport(t *testing.T) {
	base := snap(map[string]string{"a.go": "package a\n\nimport \"fmt\"\n\nfunc Foo() { fmt.Println() }\n"})
	rev := snap(map[string]string{"a.go": "package a\n\nimport \"os\"\n\nfunc Foo() { fmt.Println() }\n"})

	log, err := Diff(base, rev)
	require.NoError(t, err)
	require.Len(t, log.Ops, 1)
	assert.Equal(t, opmodel.KindModifyImport, log.Ops[0].Type)
	assert.Equal(t, "fmt", log.Ops[0].Params["oldImport"])
	assert.Equal(t, "os", log.Ops[0].Params["newImport"])
}

func TestDiff_NoChangesYieldsEmptyLog(t *testing.T) {
	base := snap(map[string]string{"a.go": "package a\n\nfunc Foo() {}\n"})

	log, err := Diff(base, base)
	require.NoError(t, err)
	assert.Empty(t, log.Ops)
}

func TestBuildAndDiff_DivergentRenameProducesDivergentOps(t *testing.T) {
	base := snap(map[string]string{"a.go": "package a\n\nfunc Foo() {}\n"})
	left := snap(map[string]string{"a.go": "package a\n\nfunc Bar() {}\n"})
	right := snap(map[string]string{"a.go": "package a\n\nfunc Baz() {}\n"})

	opLogLeft, opLogRight, _, err := BuildAndDiff(base, left, right)
	require.NoError(t, err)
	require.Len(t, opLogLeft.Ops, 1)
	require.Len(t, opLogRight.Ops, 1)
	assert.Equal(t, opLogLeft.Ops[0].Target.SymbolID, opLogRight.Ops[0].Target.SymbolID)
	assert.NotEqual(t, opLogLeft.Ops[0].Params["newName"], opLogRight.Ops[0].Params["newName"])
}
