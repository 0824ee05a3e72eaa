package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jimmc414/semantic-merge/conflict"
	"github.com/jimmc414/semantic-merge/orchestrator"
	"github.com/jimmc414/semantic-merge/worker"
)

type mergeInput struct {
	Repo  string `json:"repo"  jsonschema:"Path to the git repository"`
	Base  string `json:"base"  jsonschema:"The common ancestor revision (commit-ish)"`
	Left  string `json:"left"  jsonschema:"The first side's revision (commit-ish)"`
	Right string `json:"right" jsonschema:"The second side's revision (commit-ish)"`
}

type conflictSummary struct {
	Category    string   `json:"category"`
	SymbolID    string   `json:"symbol_id"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type mergeOutput struct {
	Outcome     string            `json:"outcome"`
	MergedTree  string            `json:"merged_tree,omitempty"`
	Conflicts   []conflictSummary `json:"conflicts,omitempty"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
}

func newMergeHandler(client *worker.Client) func(context.Context, *mcp.CallToolRequest, mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
		orc := orchestrator.New(client, cfg.Suffixes, nil)
		orc.RepoDir = input.Repo

		result, err := orc.Run(ctx, input.Base, input.Left, input.Right)
		if err != nil {
			return errResult(err), mergeOutput{}, nil
		}

		output := mergeOutput{
			Outcome:     string(result.Outcome),
			MergedTree:  result.MergedTree,
			Diagnostics: result.Diagnostics,
			Conflicts:   makeSlice[conflictSummary](len(result.Conflicts)),
		}
		for _, c := range result.Conflicts {
			output.Conflicts = append(output.Conflicts, conflictSummary{
				Category:    string(c.Category),
				SymbolID:    c.SymbolID,
				Suggestions: suggestionLabels(c),
			})
		}
		return nil, output, nil
	}
}

func suggestionLabels(c conflict.Conflict) []string {
	labels := makeSlice[string](len(c.Suggestions))
	for _, s := range c.Suggestions {
		labels = append(labels, s.Label)
	}
	return labels
}
