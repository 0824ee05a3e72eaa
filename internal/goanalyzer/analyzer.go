package goanalyzer

import (
	"fmt"

	"github.com/jimmc414/semantic-merge/opmodel"
	"github.com/jimmc414/semantic-merge/snapshot"
)

// Diff compares base against revision and returns the op log describing
// revision's changes relative to base.
func Diff(base, revision snapshot.Snapshot) (opmodel.OpLog, error) {
	baseDecls, err := parseSnapshot(base)
	if err != nil {
		return opmodel.OpLog{}, err
	}
	revDecls, err := parseSnapshot(revision)
	if err != nil {
		return opmodel.OpLog{}, err
	}

	var ops []opmodel.Op
	ops = append(ops, diffDecls(baseDecls, revDecls)...)
	ops = append(ops, diffImports(base, revision)...)
	return opmodel.OpLog{Ops: ops}, nil
}

// BuildAndDiff computes the op logs for left and right against base, the
// Go-native equivalent of the worker protocol's buildAndDiff method.
func BuildAndDiff(base, left, right snapshot.Snapshot) (opLogLeft, opLogRight opmodel.OpLog, symbolMaps map[string]any, err error) {
	opLogLeft, err = Diff(base, left)
	if err != nil {
		return opmodel.OpLog{}, opmodel.OpLog{}, nil, err
	}
	opLogRight, err = Diff(base, right)
	if err != nil {
		return opmodel.OpLog{}, opmodel.OpLog{}, nil, err
	}
	return opLogLeft, opLogRight, map[string]any{}, nil
}

func diffDecls(base, rev []decl) []opmodel.Op {
	groups := groupByFileKind(base, rev)
	var ops []opmodel.Op
	for _, g := range groups {
		n := min(len(g.base), len(g.rev))
		for i := 0; i < n; i++ {
			ops = append(ops, diffPaired(g.base[i], g.rev[i])...)
		}
		for i := n; i < len(g.base); i++ {
			ops = append(ops, deleteDeclOp(g.base[i]))
		}
		for i := n; i < len(g.rev); i++ {
			ops = append(ops, addDeclOp(g.rev[i]))
		}
	}
	return ops
}

type declGroup struct {
	base, rev []decl
}

func groupByFileKind(base, rev []decl) map[string]*declGroup {
	groups := map[string]*declGroup{}
	key := func(d decl) string { return d.File + "/" + string(d.Kind) }
	for _, d := range base {
		k := key(d)
		g, ok := groups[k]
		if !ok {
			g = &declGroup{}
			groups[k] = g
		}
		g.base = append(g.base, d)
	}
	for _, d := range rev {
		k := key(d)
		g, ok := groups[k]
		if !ok {
			g = &declGroup{}
			groups[k] = g
		}
		g.rev = append(g.rev, d)
	}
	return groups
}

func diffPaired(b, r decl) []opmodel.Op {
	target := opmodel.Target{SymbolID: b.symbolID(), AddressID: r.addressID()}
	if b.Name != r.Name {
		return []opmodel.Op{opmodel.New(opmodel.KindRenameSymbol, target, map[string]any{
			"file": r.File, "oldName": b.Name, "newName": r.Name,
		})}
	}
	if b.Body != r.Body {
		return []opmodel.Op{opmodel.New(opmodel.KindEditStmtBlock, target, map[string]any{
			"file": r.File, "name": r.Name,
		})}
	}
	return nil
}

func deleteDeclOp(d decl) opmodel.Op {
	return opmodel.New(opmodel.KindDeleteDecl, opmodel.Target{SymbolID: d.symbolID(), AddressID: d.addressID()}, map[string]any{
		"file": d.File, "name": d.Name,
	})
}

func addDeclOp(d decl) opmodel.Op {
	return opmodel.New(opmodel.KindAddDecl, opmodel.Target{SymbolID: d.symbolID(), AddressID: d.addressID()}, map[string]any{
		"file": d.File, "name": d.Name, "body": d.Body,
	})
}

func diffImports(base, revision snapshot.Snapshot) []opmodel.Op {
	baseByPath := map[string][]string{}
	for _, f := range base.Files {
		baseByPath[f.Path] = importSet(f.Path, f.Content)
	}

	var ops []opmodel.Op
	for _, f := range revision.Files {
		before, ok := baseByPath[f.Path]
		if !ok {
			continue
		}
		after := importSet(f.Path, f.Content)
		n := min(len(before), len(after))
		for i := 0; i < n; i++ {
			if before[i] != after[i] {
				ops = append(ops, opmodel.New(opmodel.KindModifyImport, opmodel.Target{
					SymbolID:  fmt.Sprintf("%s/import#%d", f.Path, i),
					AddressID: f.Path,
				}, map[string]any{
					"file": f.Path, "oldImport": before[i], "newImport": after[i],
				}))
			}
		}
	}
	return ops
}
