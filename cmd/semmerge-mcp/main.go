// Command semmerge-mcp exposes the semantic-merge engine's diff and
// merge operations as an MCP server over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jimmc414/semantic-merge/internal/mcpserver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpserver.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "semmerge-mcp:", err)
		os.Exit(1)
	}
}
