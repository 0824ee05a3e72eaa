// Package vcs shells out to the git binary for the thin, out-of-scope
// pieces of the pipeline: resolving revisions, checking a tree out to a
// scratch directory, and finding what changed between two revisions.
// Ported from original_source's git_api.py.
package vcs

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ResolveRev resolves rev to a full commit hash via `git rev-parse` in
// the process's current working directory.
func ResolveRev(ctx context.Context, rev string) (string, error) {
	return ResolveRevIn(ctx, "", rev)
}

// ResolveRevIn is ResolveRev against the repository rooted at dir. An
// empty dir behaves like ResolveRev.
func ResolveRevIn(ctx context.Context, dir, rev string) (string, error) {
	return runGit(ctx, dir, "rev-parse", rev)
}

// ChangedFilesBetween returns the paths that differ between rev1 and rev2.
func ChangedFilesBetween(ctx context.Context, rev1, rev2 string) ([]string, error) {
	out, err := runGit(ctx, "", "diff", "--name-only", rev1+".."+rev2)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CheckoutTreeToTemp resolves rev in the process's current working
// directory and materializes it into a fresh temporary directory.
func CheckoutTreeToTemp(ctx context.Context, rev string) (dir, resolved string, err error) {
	return CheckoutTreeToTempIn(ctx, "", rev)
}

// CheckoutTreeToTempIn resolves rev against the repository rooted at
// repoDir and materializes it into a fresh temporary directory via
// `git archive | tar -x`, mirroring checkout_tree_to_temp in the Python
// original rather than a worktree, so the result is an ordinary
// directory with no .git metadata. An empty repoDir behaves like
// CheckoutTreeToTemp.
func CheckoutTreeToTempIn(ctx context.Context, repoDir, rev string) (dir, resolved string, err error) {
	resolved, err = ResolveRevIn(ctx, repoDir, rev)
	if err != nil {
		return "", "", err
	}
	dir, err = os.MkdirTemp("", "semmerge_tree_")
	if err != nil {
		return "", "", err
	}

	archive := filepath.Join(dir, "tree.tar")
	archiveFile, err := os.Create(archive)
	if err != nil {
		os.RemoveAll(dir)
		return "", "", err
	}
	cmd := exec.CommandContext(ctx, "git", "archive", resolved)
	cmd.Dir = repoDir
	cmd.Stdout = archiveFile
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	archiveFile.Close()
	if runErr != nil {
		os.RemoveAll(dir)
		return "", "", wrapGitErr("archive", runErr, stderr.String())
	}

	extract := exec.CommandContext(ctx, "tar", "-xf", archive)
	extract.Dir = dir
	extract.Stderr = &stderr
	if err := extract.Run(); err != nil {
		os.RemoveAll(dir)
		return "", "", wrapGitErr("tar", err, stderr.String())
	}
	os.Remove(archive)
	return dir, resolved, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", wrapGitErr(strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
