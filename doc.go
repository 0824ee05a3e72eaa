// Package semanticmerge provides a semantic, operation-log based
// three-way merge engine for source trees.
//
// Instead of diffing and merging line ranges, semantic-merge asks each
// language's analyzer to describe a revision as a sequence of symbol-level
// operations (rename, move, edit, add, delete) addressed by logical
// identity rather than file position. Two revisions' operation logs are
// composed deterministically; two sides renaming the same symbol to
// different names surface as a conflict with suggested resolutions
// instead of the textual merge markers a line-based merge would emit.
// Other combinations of ops on one symbol are not reported as conflicts
// by the composer.
//
// # Overview
//
// The engine is built from a small set of composable packages:
//
//   - opmodel: the canonical Op/OpLog schema and its JSON wire codec
//   - snapshot: enumerates a source tree into the {path, content} payload sent to an analyzer
//   - worker: the JSON-RPC-over-stdio client that talks to a per-language analyzer subprocess
//   - compose: the deterministic three-way composition and conflict detection algorithm
//   - conflict: the conflict model and suggestion factories
//   - apply: applies a composed operation log onto a base tree to produce the merged tree
//   - orchestrator: sequences checkout, snapshot, diff, compose, apply, format, and verify
//   - config: loads .semmerge.yaml for per-repository settings
//
// Language analyzers are separate processes speaking a line-delimited
// JSON-RPC 2.0 protocol (buildAndDiff, diff); internal/goanalyzer is the
// bundled Go-language analyzer.
//
// # Quick Start
//
// Run a three-way merge programmatically:
//
//	import (
//		"context"
//
//		"github.com/jimmc414/semantic-merge/orchestrator"
//		"github.com/jimmc414/semantic-merge/worker"
//	)
//
//	client := worker.NewClient("go", []string{"semmerge-worker-go"})
//	defer client.Close()
//
//	orc := orchestrator.New(client, []string{".go"}, nil)
//	result, err := orc.Run(context.Background(), "main", "feature-a", "feature-b")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Outcome == orchestrator.OutcomeConflicts {
//		for _, c := range result.Conflicts {
//			fmt.Println(c.Slug(), c.Category)
//		}
//	}
//
// # Command-Line Interface
//
// In addition to the library packages, semantic-merge provides three
// command-line entrypoints:
//
//	# Show the operation log between two revisions
//	semmerge semdiff main feature-a
//
//	# Perform a three-way merge
//	semmerge semmerge main feature-a feature-b
//
//	# Install as a git merge driver
//	semmerge-driver %O %A %B
//
// Install the CLI:
//
//	go install github.com/jimmc414/semantic-merge/cmd/semmerge@latest
//
// # Determinism
//
// Composition never depends on wall-clock time or map iteration order:
// tie-breaking uses the Provenance.Timestamp an analyzer or caller
// supplies, and every internal ordering is either explicitly sorted or
// derived from input order. The same two operation logs compose to the
// same result and the same conflicts on every run.
//
// # Security Considerations
//
//   - Worker subprocesses are launched with an explicit argv, never a shell string
//   - Git operations shell out to the git binary with fixed argument lists, never interpolated revision strings
//   - Applied renames use word-boundary matching to avoid clobbering unrelated identifiers that share a substring
//
// # License
//
// This library is released under the MIT License. See the LICENSE file in the
// repository for full details.
package semanticmerge
