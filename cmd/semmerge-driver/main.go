// Command semmerge-driver is a git merge-driver wrapper around the
// semmerge engine: git invokes it as `semmerge-driver %O %A %B` for any
// path matching a `merge=semmerge` attribute, and it is responsible for
// producing the merged content at %A.
//
// Because git invokes the driver once per conflicting file but a
// semantic merge operates on the whole tree, the first invocation for a
// given merge runs the tree-wide merge under a lock file and every
// subsequent invocation just copies its file out of the already-merged
// result.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const lockFileName = ".semmerge.lock"

func main() {
	if len(os.Args) < 4 {
		fmt.Fprintln(os.Stderr, "semmerge-driver requires %O %A %B arguments")
		os.Exit(1)
	}
	oursFile := os.Args[2]

	repoRoot, err := run("git", "rev-parse", "--show-toplevel")
	if err != nil {
		fail(err)
	}
	head, err := run("git", "rev-parse", "HEAD")
	if err != nil {
		fail(err)
	}
	mergeHead := os.Getenv("GITHEAD_REF")
	if mergeHead == "" {
		mergeHead, err = run("git", "rev-parse", "MERGE_HEAD")
		if err != nil {
			fail(err)
		}
	}
	baseCommit, err := run("git", "merge-base", "HEAD", mergeHead)
	if err != nil {
		fail(err)
	}

	lock := filepath.Join(repoRoot, ".git", lockFileName)
	if err := os.MkdirAll(filepath.Dir(lock), 0o755); err != nil {
		fail(err)
	}

	if _, err := os.Stat(lock); os.IsNotExist(err) {
		if err := os.WriteFile(lock, []byte(mergeHead), 0o644); err != nil {
			fail(err)
		}
		defer os.Remove(lock)

		cmd := exec.Command(semmergeBinary(), "semmerge", baseCommit, head, mergeHead, "--inplace", "--git")
		cmd.Dir = repoRoot
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				os.Exit(exitErr.ExitCode())
			}
			fail(err)
		}
	}

	rel, err := filepath.Rel(repoRoot, absPath(oursFile))
	if err != nil {
		fail(err)
	}
	resolved := filepath.Join(repoRoot, rel)
	if data, err := os.ReadFile(resolved); err == nil {
		if err := os.WriteFile(oursFile, data, 0o644); err != nil {
			fail(err)
		}
	}
	os.Exit(0)
}

func semmergeBinary() string {
	if path, err := exec.LookPath("semmerge"); err == nil {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "semmerge")
	}
	return "semmerge"
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s: %s", strings.Join(append([]string{name}, args...), " "), stderr.String())
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "semmerge-driver:", err)
	os.Exit(1)
}
