// Package format runs go/format over a merged tree. The example corpus
// carries no third-party Go source formatter (prettier, the original's
// formatter, has no Go analogue) — go/format.Source is the canonical
// tool for this job, not a stand-in for a missing library.
package format

import (
	"io/fs"
	"os"
	"path/filepath"

	goformat "go/format"
)

// Format rewrites every .go file under tree in place with gofmt-equivalent
// formatting. A tree with no Go files is not an error, matching the
// "formatter may be absent" collaborator contract.
func Format(tree string) error {
	return filepath.WalkDir(tree, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, err := goformat.Source(src)
		if err != nil {
			// A file that doesn't parse is left as-is; formatting is
			// best-effort and must never fail the merge.
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.WriteFile(path, formatted, info.Mode())
	})
}
