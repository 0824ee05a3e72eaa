// Package orchestrator sequences snapshot, diff, compose, apply and the
// formatter/verifier/notes collaborators into one end-to-end merge, the
// Go counterpart of original_source/semmerge/__main__.py's semmerge
// command (minus the CLI framing, which lives in cmd/semmerge).
package orchestrator

import (
	"context"
	"os"

	"github.com/jimmc414/semantic-merge/apply"
	"github.com/jimmc414/semantic-merge/compose"
	"github.com/jimmc414/semantic-merge/conflict"
	"github.com/jimmc414/semantic-merge/internal/format"
	"github.com/jimmc414/semantic-merge/internal/vcs"
	"github.com/jimmc414/semantic-merge/internal/verify"
	"github.com/jimmc414/semantic-merge/logx"
	"github.com/jimmc414/semantic-merge/opmodel"
	"github.com/jimmc414/semantic-merge/semmergeerrors"
	"github.com/jimmc414/semantic-merge/snapshot"
	"github.com/jimmc414/semantic-merge/worker"
)

// Outcome classifies how a Run ended, used by cmd/semmerge to select an
// exit code per spec.md §6.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeConflicts    Outcome = "conflicts"
	OutcomeVerifyFailed Outcome = "verify_failed"
)

// Result is what Run returns.
type Result struct {
	Outcome     Outcome
	MergedTree  string
	Conflicts   []conflict.Conflict
	Diagnostics []string
}

// Orchestrator holds the collaborators a merge needs beyond the pure
// core: a language worker, a source-suffix set for snapshotting, and a
// logger.
type Orchestrator struct {
	Client        *worker.Client
	Suffixes      []string
	Logger        logx.Logger
	NotesNS       string
	RequireVerify bool
	// RepoDir is the git repository base/left/right are resolved against.
	// Empty means the process's current working directory.
	RepoDir string
}

// New constructs an Orchestrator. logger may be nil (defaults to a
// no-op logger).
func New(client *worker.Client, suffixes []string, logger logx.Logger) *Orchestrator {
	if logger == nil {
		logger = logx.NopLogger{}
	}
	return &Orchestrator{Client: client, Suffixes: suffixes, Logger: logger, NotesNS: "semmerge", RequireVerify: true}
}

// Run performs base/left/right checkout, diff, compose, apply, and the
// formatter/verifier/notes passes. All temporary trees are cleaned up on
// every exit path; the worker process is left running for reuse by the
// caller (Close is the caller's responsibility).
func (o *Orchestrator) Run(ctx context.Context, base, left, right string) (Result, error) {
	baseTree, _, err := vcs.CheckoutTreeToTempIn(ctx, o.RepoDir, base)
	if err != nil {
		return Result{}, err
	}
	defer cleanup(o.Logger, baseTree)

	leftTree, leftRev, err := vcs.CheckoutTreeToTempIn(ctx, o.RepoDir, left)
	if err != nil {
		return Result{}, err
	}
	defer cleanup(o.Logger, leftTree)

	rightTree, rightRev, err := vcs.CheckoutTreeToTempIn(ctx, o.RepoDir, right)
	if err != nil {
		return Result{}, err
	}
	defer cleanup(o.Logger, rightTree)

	baseSnap, err := snapshot.Walk(baseTree, o.Suffixes, o.Logger)
	if err != nil {
		return Result{}, err
	}
	leftSnap, err := snapshot.Walk(leftTree, o.Suffixes, o.Logger)
	if err != nil {
		return Result{}, err
	}
	rightSnap, err := snapshot.Walk(rightTree, o.Suffixes, o.Logger)
	if err != nil {
		return Result{}, err
	}

	opLogLeft, opLogRight, _, err := o.Client.BuildAndDiff(ctx, baseSnap, leftSnap, rightSnap)
	if err != nil {
		return Result{}, err
	}

	composed, conflicts := compose.Compose(opLogLeft.Ops, opLogRight.Ops)
	if len(conflicts) > 0 {
		return Result{Outcome: OutcomeConflicts, Conflicts: conflicts}, nil
	}

	mergedTree, err := apply.Apply(baseTree, composed, apply.WithLogger(o.Logger))
	if err != nil {
		return Result{}, &semmergeerrors.ApplyError{Message: "applying composed ops", Cause: err}
	}

	if err := format.Format(mergedTree); err != nil {
		o.Logger.Warn("orchestrator: formatter failed, continuing", "error", err)
	}

	ok, diagnostics, err := verify.Typecheck(ctx, mergedTree)
	if err != nil {
		o.Logger.Warn("orchestrator: verifier could not run, continuing", "error", err)
	} else if !ok && o.RequireVerify {
		cleanup(o.Logger, mergedTree)
		return Result{Outcome: OutcomeVerifyFailed, Diagnostics: diagnostics}, nil
	}

	if err := vcs.NotesPut(ctx, leftRev, opLogLeft, o.NotesNS); err != nil {
		o.Logger.Warn("orchestrator: failed to write notes", "rev", leftRev, "error", err)
	}
	if err := vcs.NotesPut(ctx, rightRev, opLogRight, o.NotesNS); err != nil {
		o.Logger.Warn("orchestrator: failed to write notes", "rev", rightRev, "error", err)
	}

	return Result{Outcome: OutcomeSuccess, MergedTree: mergedTree}, nil
}

func cleanup(logger logx.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("orchestrator: cleanup failed", "path", path, "error", err)
	}
}
