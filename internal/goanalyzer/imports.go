package goanalyzer

import (
	"go/parser"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
)

// importSet is the flat, order-preserving list of import paths declared
// in one file, gathered via astutil.Imports so blank-line-separated
// groups are walked uniformly.
func importSet(path, content string) []string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ImportsOnly)
	if err != nil {
		return nil
	}
	var paths []string
	for _, group := range astutil.Imports(fset, file) {
		for _, spec := range group {
			if p, err := strconv.Unquote(spec.Path.Value); err == nil {
				paths = append(paths, p)
			}
		}
	}
	return paths
}
