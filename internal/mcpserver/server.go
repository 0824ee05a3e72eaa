// Package mcpserver exposes the semantic-merge engine's diff and merge
// operations as MCP (Model Context Protocol) tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	semanticmerge "github.com/jimmc414/semantic-merge"
	"github.com/jimmc414/semantic-merge/worker"
)

const serverInstructions = `semantic-merge MCP server — diffs and merges source trees by symbol identity rather than line position.

Configuration: defaults are configurable via SEMMERGE_* environment variables set in your MCP client config.

Key settings:
- SEMMERGE_GO_WORKER_COMMAND (default: semmerge-worker-go) — argv used to launch the Go analyzer worker
- SEMMERGE_SUFFIXES (default: .go) — comma-separated file extensions snapshotted for a diff or merge

Tools:
- diff: compute the operation log between two git revisions of a repository
- merge: perform a three-way semantic merge of three git revisions, returning the merged tree path or a conflict list`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or ctx is cancelled. It owns one long-lived worker.Client
// per supported language, closed on return.
func Run(ctx context.Context) error {
	goClient := worker.NewClient("go", cfg.GoWorkerCommand)
	defer goClient.Close()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "semantic-merge", Version: semanticmerge.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerAllTools(server, goClient)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server, goClient *worker.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compute the semantic operation log between two git revisions of a repository: renames, moves, additions, deletions, and edits addressed by logical symbol identity rather than line position.",
	}, newDiffHandler(goClient))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Perform a three-way semantic merge of base/left/right git revisions. Returns the path to the merged tree on success, or a list of conflicts with suggested resolutions when the two sides rename the same symbol to different names.",
	}, newMergeHandler(goClient))
}

// sanitizeError strips absolute filesystem paths from error messages to
// avoid leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON
// semantics), otherwise make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
