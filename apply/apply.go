// Package apply implements the Applier (C6): deterministic projection of
// a composed operation sequence onto a copy of a base file tree. Ported
// from original_source/semmerge/applier.py's apply_ops and its four
// per-kind handlers.
package apply

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jimmc414/semantic-merge/internal/fileutil"
	"github.com/jimmc414/semantic-merge/internal/pathutil"
	"github.com/jimmc414/semantic-merge/logx"
	"github.com/jimmc414/semantic-merge/opmodel"
)

// Option configures Apply.
type Option func(*applier)

// WithLogger sets the logger used to report skipped ops and misses.
func WithLogger(logger logx.Logger) Option {
	return func(a *applier) { a.logger = logger }
}

type applier struct {
	root   string
	logger logx.Logger
}

// Apply snapshots baseTree into a fresh temporary directory, applies ops
// in order, and returns the new tree's path. baseTree is never modified.
func Apply(baseTree string, ops []opmodel.Op, opts ...Option) (mergedTree string, err error) {
	out, err := os.MkdirTemp("", "semmerge_merged_")
	if err != nil {
		return "", err
	}
	if err := fileutil.CopyTree(baseTree, out); err != nil {
		os.RemoveAll(out)
		return "", err
	}

	a := &applier{root: out, logger: logx.NopLogger{}}
	for _, opt := range opts {
		opt(a)
	}

	for _, op := range ops {
		if err := a.apply(op); err != nil {
			os.RemoveAll(out)
			return "", fmt.Errorf("apply: op %s (%s): %w", op.ID, op.Type, err)
		}
	}
	return out, nil
}

func (a *applier) apply(op opmodel.Op) error {
	switch op.Type {
	case opmodel.KindMoveDecl:
		return a.applyMoveDecl(op)
	case opmodel.KindRenameSymbol:
		return a.applyRenameSymbol(op)
	case opmodel.KindModifyImport:
		return a.applyModifyImport(op)
	case opmodel.KindMoveFile:
		return a.applyMoveFile(op)
	default:
		a.logger.Debug("apply: no handler for op kind", "kind", op.Type, "opId", op.ID)
		return nil
	}
}

func (a *applier) stringParam(op opmodel.Op, keys ...string) string {
	for _, key := range keys {
		if v, ok := op.Params[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func (a *applier) applyMoveDecl(op opmodel.Op) error {
	oldFile := a.stringParam(op, "oldFile", "file")
	newFile := a.stringParam(op, "newFile", "file")
	if oldFile == "" || newFile == "" {
		return nil
	}
	src := pathutil.JoinTreeRelative(a.root, oldFile)
	dst := pathutil.JoinTreeRelative(a.root, newFile)
	if src == dst {
		return nil
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		a.logger.Debug("moveDecl source missing", "path", src, "opId", op.ID)
		return nil
	}
	return moveFile(src, dst)
}

func (a *applier) applyMoveFile(op opmodel.Op) error {
	oldPath := a.stringParam(op, "oldPath")
	newPath := a.stringParam(op, "newPath")
	if oldPath == "" || newPath == "" {
		return nil
	}
	src := pathutil.JoinTreeRelative(a.root, oldPath)
	dst := pathutil.JoinTreeRelative(a.root, newPath)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		a.logger.Debug("moveFile source missing", "path", src, "opId", op.ID)
		return nil
	}
	return moveFile(src, dst)
}

func (a *applier) applyRenameSymbol(op opmodel.Op) error {
	file := a.stringParam(op, "file", "newFile")
	oldName := a.stringParam(op, "oldName")
	newName := a.stringParam(op, "newName")
	if file == "" || oldName == "" || newName == "" {
		return nil
	}
	path := pathutil.JoinTreeRelative(a.root, file)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			a.logger.Debug("renameSymbol target missing", "path", path, "opId", op.ID)
			return nil
		}
		return err
	}
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(oldName) + `\b`)
	rewritten := pattern.ReplaceAllString(string(data), newName)
	if rewritten == string(data) {
		return nil
	}
	return os.WriteFile(path, []byte(rewritten), fileModeOf(path))
}

func (a *applier) applyModifyImport(op opmodel.Op) error {
	file := a.stringParam(op, "file")
	oldImport, hasOld := op.Params["oldImport"]
	newImport, hasNew := op.Params["newImport"]
	if file == "" || !hasOld || !hasNew {
		return nil
	}
	path := pathutil.JoinTreeRelative(a.root, file)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			a.logger.Debug("modifyImport target missing", "path", path, "opId", op.ID)
			return nil
		}
		return err
	}
	rewritten := strings.ReplaceAll(string(data), fmt.Sprint(oldImport), fmt.Sprint(newImport))
	if rewritten == string(data) {
		return nil
	}
	return os.WriteFile(path, []byte(rewritten), fileModeOf(path))
}

func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), fileutil.DirDefault); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

func fileModeOf(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode()
	}
	return fileutil.ReadableByAll
}
