// Package snapshot enumerates source files under a tree and produces the
// {path, content} payload the worker transport sends to an analyzer
// (spec §4.4).
package snapshot

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/jimmc414/semantic-merge/logx"
)

// File is one entry of a snapshot: a tree-relative, posix-style path and
// its UTF-8 content.
type File struct {
	Path    string
	Content string
}

// Snapshot is the payload shape sent to a worker's buildAndDiff/diff RPCs
// (spec §4.3).
type Snapshot struct {
	Files   []File
	Project string
}

// Walk recursively enumerates files under root whose suffix is in
// suffixes, reading each as UTF-8. Files that fail to decode as UTF-8 are
// skipped with a log line (best-effort, per spec §4.4) rather than
// failing the whole snapshot.
func Walk(root string, suffixes []string, logger logx.Logger) (Snapshot, error) {
	if logger == nil {
		logger = logx.NopLogger{}
	}
	suffixSet := make(map[string]struct{}, len(suffixes))
	for _, s := range suffixes {
		suffixSet[s] = struct{}{}
	}

	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := suffixSet[filepath.Ext(path)]; !ok {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("snapshot: skipping unreadable file", "path", path, "error", readErr)
			return nil
		}
		if !utf8.Valid(data) {
			logger.Warn("snapshot: skipping non-UTF-8 file", "path", path)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, File{
			Path:    filepath.ToSlash(rel),
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	// Deterministic ordering: the filesystem walk order is already
	// lexicographic per directory, but sort explicitly so snapshots never
	// depend on OS-specific directory iteration order.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return Snapshot{Files: files}, nil
}

// ToPayload renders the snapshot as the {files, project} map the worker
// wire protocol expects (spec §4.3).
func (s Snapshot) ToPayload() map[string]any {
	files := make([]map[string]any, len(s.Files))
	for i, f := range s.Files {
		files[i] = map[string]any{"path": f.Path, "content": f.Content}
	}
	payload := map[string]any{"files": files}
	if s.Project != "" {
		payload["project"] = s.Project
	}
	return payload
}
