// Command semmerge is the semantic merge engine's command-line
// interface: semdiff prints the operation log between two revisions,
// semmerge performs a three-way semantic merge.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	semanticmerge "github.com/jimmc414/semantic-merge"
	"github.com/jimmc414/semantic-merge/conflict"
	"github.com/jimmc414/semantic-merge/internal/fileutil"
	"github.com/jimmc414/semantic-merge/internal/vcs"
	"github.com/jimmc414/semantic-merge/orchestrator"
	"github.com/jimmc414/semantic-merge/snapshot"
	"github.com/jimmc414/semantic-merge/worker"
)

const conflictReportPath = ".semmerge-conflicts.json"

// validCommands lists all valid command names for typo suggestions.
var validCommands = []string{"semdiff", "semmerge", "version", "help"}

// levenshteinDistance calculates the minimum edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range len(b) + 1 {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// suggestCommand returns the closest matching command if the edit distance is <= 2.
func suggestCommand(input string) string {
	var bestMatch string
	bestDistance := 3
	for _, c := range validCommands {
		dist := levenshteinDistance(input, c)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = c
		}
	}
	return bestMatch
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "version", "-v", "--version":
		fmt.Println(semanticmerge.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "semdiff":
		if err := runSemdiff(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	case "semmerge":
		os.Exit(runSemmerge(os.Args[2:]))
	default:
		fmt.Fprintln(os.Stderr, "Unknown command:", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintln(os.Stderr, "Did you mean:", s+"?")
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`semmerge - semantic merge engine

Usage:
  semmerge <command> [options]

Commands:
  semdiff <rev1> <rev2> [--json-out]        Print the operation log between two revisions
  semmerge <base> <a> <b> [--inplace]       Perform a three-way semantic merge
  version                                    Show version information
  help                                       Show this help message

Examples:
  semmerge semdiff main feature-a
  semmerge semmerge main feature-a feature-b --inplace`)
}

func goWorkerCommand() []string {
	if cmd := os.Getenv("SEMMERGE_GO_WORKER_COMMAND"); cmd != "" {
		return []string{cmd}
	}
	return []string{"semmerge-worker-go"}
}

func suffixes() []string {
	return []string{".go"}
}

func runSemdiff(args []string) error {
	var jsonOut bool
	var positional []string
	for _, a := range args {
		if a == "--json-out" {
			jsonOut = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) != 2 {
		return fmt.Errorf("semdiff requires exactly two revisions, got %d", len(positional))
	}
	rev1, rev2 := positional[0], positional[1]

	ctx := context.Background()
	client := worker.NewClient("go", goWorkerCommand())
	defer client.Close()

	baseTree, _, err := vcs.CheckoutTreeToTemp(ctx, rev1)
	if err != nil {
		return err
	}
	defer os.RemoveAll(baseTree)

	rightTree, _, err := vcs.CheckoutTreeToTemp(ctx, rev2)
	if err != nil {
		return err
	}
	defer os.RemoveAll(rightTree)

	baseSnap, err := snapshot.Walk(baseTree, suffixes(), nil)
	if err != nil {
		return err
	}
	rightSnap, err := snapshot.Walk(rightTree, suffixes(), nil)
	if err != nil {
		return err
	}

	opLog, err := client.Diff(ctx, baseSnap, rightSnap)
	if err != nil {
		return err
	}

	if jsonOut {
		data, err := opLog.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, op := range opLog.Ops {
		fmt.Println(op.Pretty())
	}
	return nil
}

// runSemmerge performs the three-way merge and returns the process exit
// code per the outcome: 0 success, 1 conflicts, 2 verify failure.
func runSemmerge(args []string) int {
	var inplace bool
	var positional []string
	for _, a := range args {
		switch a {
		case "--inplace":
			inplace = true
		case "--git":
			// Accepted for git-merge-driver compatibility; no behavior change.
		default:
			positional = append(positional, a)
		}
	}
	if len(positional) != 3 {
		fmt.Fprintf(os.Stderr, "Error: semmerge requires base, a, and b revisions, got %d\n", len(positional))
		return 1
	}
	base, a, b := positional[0], positional[1], positional[2]

	ctx := context.Background()
	client := worker.NewClient("go", goWorkerCommand())
	defer client.Close()

	orc := orchestrator.New(client, suffixes(), nil)
	result, err := orc.Run(ctx, base, a, b)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 3
	}

	switch result.Outcome {
	case orchestrator.OutcomeConflicts:
		if err := writeConflictReports(result.Conflicts); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing conflict report:", err)
		}
		return 1
	case orchestrator.OutcomeVerifyFailed:
		for _, line := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, line)
		}
		return 2
	}

	if inplace {
		if err := copyTreeIntoCwd(result.MergedTree); err != nil {
			fmt.Fprintln(os.Stderr, "Error copying merge result:", err)
			return 3
		}
	} else {
		// Matches the original CLI: without --inplace the merge is only
		// validated (conflicts/verify failures reported, notes written);
		// the scratch tree itself is discarded.
		os.RemoveAll(result.MergedTree)
	}
	return 0
}

func writeConflictReports(conflicts []conflict.Conflict) error {
	payload := make([]map[string]any, len(conflicts))
	for i, c := range conflicts {
		payload[i] = c.ToDict()
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(conflictReportPath, data, fileutil.OwnerReadWrite)
}

func copyTreeIntoCwd(tree string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	return fileutil.CopyTree(tree, cwd)
}
