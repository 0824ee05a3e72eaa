// Package verify runs the post-merge type check, the Go-toolchain
// analogue of original_source's verify.py shelling out to `tsc --noEmit`.
package verify

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Typecheck runs `go vet ./...` in tree. A missing Go toolchain counts as
// success with no diagnostics, matching the original's tsc-not-installed
// fallback: an absent verifier is not a rejection.
func Typecheck(ctx context.Context, tree string) (ok bool, diagnostics []string, err error) {
	cmd := exec.CommandContext(ctx, "go", "vet", "./...")
	cmd.Dir = tree
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	if runErr == nil {
		return true, nil, nil
	}

	var execErr *exec.Error
	if errors.As(runErr, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return true, nil, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return false, splitLines(out.String()), nil
	}
	return false, nil, runErr
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
