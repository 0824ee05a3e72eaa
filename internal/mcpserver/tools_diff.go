package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jimmc414/semantic-merge/internal/vcs"
	"github.com/jimmc414/semantic-merge/opmodel"
	"github.com/jimmc414/semantic-merge/snapshot"
	"github.com/jimmc414/semantic-merge/worker"
)

type diffInput struct {
	Repo     string `json:"repo"               jsonschema:"Path to the git repository"`
	Base     string `json:"base"               jsonschema:"The base revision (commit-ish)"`
	Revision string `json:"revision"           jsonschema:"The revision to compare against base (commit-ish)"`
}

type diffOpSummary struct {
	Type     string `json:"type"`
	SymbolID string `json:"symbol_id"`
	File     string `json:"file,omitempty"`
}

type diffOutput struct {
	TotalOps int             `json:"total_ops"`
	Ops      []diffOpSummary `json:"ops,omitempty"`
	Summary  string          `json:"summary"`
}

func newDiffHandler(client *worker.Client) func(context.Context, *mcp.CallToolRequest, diffInput) (*mcp.CallToolResult, diffOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
		baseTree, _, err := vcs.CheckoutTreeToTempIn(ctx, input.Repo, input.Base)
		if err != nil {
			return errResult(err), diffOutput{}, nil
		}
		defer os.RemoveAll(baseTree)

		revTree, _, err := vcs.CheckoutTreeToTempIn(ctx, input.Repo, input.Revision)
		if err != nil {
			return errResult(err), diffOutput{}, nil
		}
		defer os.RemoveAll(revTree)

		baseSnap, err := snapshot.Walk(baseTree, cfg.Suffixes, nil)
		if err != nil {
			return errResult(err), diffOutput{}, nil
		}
		revSnap, err := snapshot.Walk(revTree, cfg.Suffixes, nil)
		if err != nil {
			return errResult(err), diffOutput{}, nil
		}

		opLog, err := client.Diff(ctx, baseSnap, revSnap)
		if err != nil {
			return errResult(err), diffOutput{}, nil
		}

		output := diffOutput{Ops: makeSlice[diffOpSummary](len(opLog.Ops))}
		for _, op := range opLog.Ops {
			output.Ops = append(output.Ops, diffOpSummary{
				Type:     string(op.Type),
				SymbolID: op.Target.SymbolID,
				File:     fileParam(op),
			})
		}
		output.TotalOps = len(output.Ops)
		output.Summary = buildDiffSummary(output)
		return nil, output, nil
	}
}

func fileParam(op opmodel.Op) string {
	file, _ := op.Params["file"].(string)
	return file
}

func buildDiffSummary(output diffOutput) string {
	if output.TotalOps == 0 {
		return "No semantic changes detected."
	}
	return fmt.Sprintf("%d semantic operation(s) found.", output.TotalOps)
}
