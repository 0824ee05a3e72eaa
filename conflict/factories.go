package conflict

import (
	"fmt"

	"github.com/jimmc414/semantic-merge/opmodel"
)

func paramString(op opmodel.Op, key string) string {
	v, _ := op.Params[key].(string)
	return v
}

// DivergentRename builds a DivergentRename conflict from two renameSymbol
// ops on the same symbol with different newName values. Per spec §4.2 the
// id is derived deterministically from the first 8 characters of each op
// id, and the suggestions are keepA/keepB referencing each side's newName.
func DivergentRename(opA, opB opmodel.Op) Conflict {
	return Conflict{
		ID:       fmt.Sprintf("conf-%s-%s", shortID(opA.ID), shortID(opB.ID)),
		Category: CategoryDivergentRename,
		SymbolID: opA.Target.SymbolID,
		AddressIDs: AddressIDs{
			A: opA.Target.AddressID,
			B: opB.Target.AddressID,
		},
		OpA: opA,
		OpB: opB,
		Suggestions: []Suggestion{
			{ID: "keepA", Label: fmt.Sprintf("%s to %s", titleCaser.String("rename"), paramString(opA, "newName")), OpIDs: []string{opA.ID}},
			{ID: "keepB", Label: fmt.Sprintf("%s to %s", titleCaser.String("rename"), paramString(opB, "newName")), OpIDs: []string{opB.ID}},
		},
	}
}

// DivergentMove builds a conflict for two moveDecl/moveFile ops that send
// the same symbol or file to different addresses. Not emitted by the
// composer today (spec's merge procedure only special-cases renames) but
// part of the conflict model's public surface per spec §4.2.
func DivergentMove(opA, opB opmodel.Op) Conflict {
	addrA := paramString(opA, "newAddress")
	if addrA == "" {
		addrA = paramString(opA, "newPath")
	}
	addrB := paramString(opB, "newAddress")
	if addrB == "" {
		addrB = paramString(opB, "newPath")
	}
	return Conflict{
		ID:       fmt.Sprintf("conf-%s-%s", shortID(opA.ID), shortID(opB.ID)),
		Category: CategoryDivergentMove,
		SymbolID: opA.Target.SymbolID,
		AddressIDs: AddressIDs{
			A: opA.Target.AddressID,
			B: opB.Target.AddressID,
		},
		OpA: opA,
		OpB: opB,
		Suggestions: []Suggestion{
			{ID: "keepA", Label: fmt.Sprintf("%s to %s", titleCaser.String("move"), addrA), OpIDs: []string{opA.ID}},
			{ID: "keepB", Label: fmt.Sprintf("%s to %s", titleCaser.String("move"), addrB), OpIDs: []string{opB.ID}},
		},
	}
}

// DeleteVsEdit builds a conflict between a deleteDecl on one side and any
// edit to the same symbol on the other.
func DeleteVsEdit(opDelete, opEdit opmodel.Op) Conflict {
	return Conflict{
		ID:       fmt.Sprintf("conf-%s-%s", shortID(opDelete.ID), shortID(opEdit.ID)),
		Category: CategoryDeleteVsEdit,
		SymbolID: opDelete.Target.SymbolID,
		AddressIDs: AddressIDs{
			A: opDelete.Target.AddressID,
			B: opEdit.Target.AddressID,
		},
		OpA: opDelete,
		OpB: opEdit,
		Suggestions: []Suggestion{
			{ID: "keepDelete", Label: "Keep deletion", OpIDs: []string{opDelete.ID}},
			{ID: "keepEdit", Label: fmt.Sprintf("%s %s edit", titleCaser.String("keep"), opEdit.Type), OpIDs: []string{opEdit.ID}},
		},
	}
}

// SignatureClash builds a conflict between two incompatible
// changeSignature ops on the same symbol.
func SignatureClash(opA, opB opmodel.Op) Conflict {
	return Conflict{
		ID:       fmt.Sprintf("conf-%s-%s", shortID(opA.ID), shortID(opB.ID)),
		Category: CategorySignatureClash,
		SymbolID: opA.Target.SymbolID,
		AddressIDs: AddressIDs{
			A: opA.Target.AddressID,
			B: opB.Target.AddressID,
		},
		OpA: opA,
		OpB: opB,
		Suggestions: []Suggestion{
			{ID: "keepA", Label: fmt.Sprintf("%s signature %v", titleCaser.String("keep"), opA.Params["newSignature"]), OpIDs: []string{opA.ID}},
			{ID: "keepB", Label: fmt.Sprintf("%s signature %v", titleCaser.String("keep"), opB.Params["newSignature"]), OpIDs: []string{opB.ID}},
		},
	}
}

// ImportClash builds a conflict between two modifyImport ops that
// retarget the same import differently.
func ImportClash(opA, opB opmodel.Op) Conflict {
	return Conflict{
		ID:       fmt.Sprintf("conf-%s-%s", shortID(opA.ID), shortID(opB.ID)),
		Category: CategoryImportClash,
		SymbolID: opA.Target.SymbolID,
		AddressIDs: AddressIDs{
			A: opA.Target.AddressID,
			B: opB.Target.AddressID,
		},
		OpA: opA,
		OpB: opB,
		Suggestions: []Suggestion{
			{ID: "keepA", Label: fmt.Sprintf("%s %s", titleCaser.String("import"), paramString(opA, "newImport")), OpIDs: []string{opA.ID}},
			{ID: "keepB", Label: fmt.Sprintf("%s %s", titleCaser.String("import"), paramString(opB, "newImport")), OpIDs: []string{opB.ID}},
		},
	}
}
