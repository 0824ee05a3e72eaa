// Package goanalyzer is a modest, heuristic semantic analyzer for Go
// source: it is not a rigorous semantic-diff engine, only enough of one
// to exercise the worker protocol end-to-end. It identifies top-level
// function, method and type declarations by file, kind and ordinal
// position among same-kind declarations (not by name), and structurally
// diffs two snapshots to report additions, removals, position-matched
// renames, and body edits.
package goanalyzer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/jimmc414/semantic-merge/snapshot"
)

// declKind is the closed set of top-level declaration shapes this
// analyzer recognizes.
type declKind string

const (
	kindFunc   declKind = "func"
	kindMethod declKind = "method"
	kindType   declKind = "type"
)

// decl is one recognized top-level declaration.
type decl struct {
	File  string
	Kind  declKind
	Name  string
	Index int // ordinal among same-kind, same-file declarations, source order
	Body  string
	Line  int
}

// symbolID is a positional identity stable across a rename: the logical
// "third function declared in this file" rather than its current name.
// This is the heuristic this analyzer trades for not doing real
// cross-revision symbol resolution.
func (d decl) symbolID() string {
	return fmt.Sprintf("%s/%s#%d", d.File, d.Kind, d.Index)
}

func (d decl) addressID() string {
	return fmt.Sprintf("%s:%d", d.File, d.Line)
}

// parseSnapshot extracts top-level decls from every .go file in snap, in
// source order, and assigns each a per-(file,kind) ordinal.
func parseSnapshot(snap snapshot.Snapshot) ([]decl, error) {
	var decls []decl
	counters := map[string]int{}

	for _, f := range snap.Files {
		if !isGoFile(f.Path) {
			continue
		}
		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, f.Path, f.Content, parser.ParseComments)
		if err != nil {
			// A file that doesn't parse contributes no declarations;
			// the analyzer never fails a whole diff over one bad file.
			continue
		}
		src := []byte(f.Content)
		for _, astDecl := range file.Decls {
			d, ok := declFrom(fset, src, f.Path, astDecl)
			if !ok {
				continue
			}
			key := f.Path + "/" + string(d.Kind)
			d.Index = counters[key]
			counters[key]++
			decls = append(decls, d)
		}
	}
	return decls, nil
}

func isGoFile(path string) bool {
	return len(path) > 3 && path[len(path)-3:] == ".go"
}

func declFrom(fset *token.FileSet, src []byte, file string, node ast.Decl) (decl, bool) {
	switch n := node.(type) {
	case *ast.FuncDecl:
		kind := kindFunc
		name := n.Name.Name
		if n.Recv != nil && len(n.Recv.List) > 0 {
			kind = kindMethod
			name = receiverTypeName(n.Recv.List[0].Type) + "." + name
		}
		pos := fset.Position(n.Pos())
		return decl{
			File: file,
			Kind: kind,
			Name: name,
			Body: sliceSource(src, fset, n.Pos(), n.End()),
			Line: pos.Line,
		}, true
	case *ast.GenDecl:
		if n.Tok != token.TYPE || len(n.Specs) == 0 {
			return decl{}, false
		}
		spec, ok := n.Specs[0].(*ast.TypeSpec)
		if !ok {
			return decl{}, false
		}
		pos := fset.Position(n.Pos())
		return decl{
			File: file,
			Kind: kindType,
			Name: spec.Name.Name,
			Body: sliceSource(src, fset, n.Pos(), n.End()),
			Line: pos.Line,
		}, true
	default:
		return decl{}, false
	}
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return "?"
	}
}

func sliceSource(src []byte, fset *token.FileSet, start, end token.Pos) string {
	s, e := fset.Position(start).Offset, fset.Position(end).Offset
	if s < 0 || e > len(src) || s > e {
		return ""
	}
	return string(src[s:e])
}
