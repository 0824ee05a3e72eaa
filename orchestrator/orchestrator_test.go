package orchestrator

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmc414/semantic-merge/worker"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func initRepo(t *testing.T) (dir, commit string) {
	t.Helper()
	dir = t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))
	run("add", "a.go")
	run("commit", "-q", "-m", "initial")

	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	commit = strings.TrimSpace(string(out))
	return dir, commit
}

// divergentRenameWorker always reports divergent renameSymbol ops on
// the same symbol, regardless of the snapshots it's handed — enough to
// exercise the orchestrator's early-exit-on-conflict path without a real
// analyzer backend.
const divergentRenameWorker = `
read line
echo '{"jsonrpc":"2.0","id":1,"result":{"opLogLeft":[{"id":"op-a","schemaVersion":1,"type":"renameSymbol","target":{"symbolId":"s1"},"params":{"newName":"foo"},"guards":{},"effects":{},"provenance":{}}],"opLogRight":[{"id":"op-b","schemaVersion":1,"type":"renameSymbol","target":{"symbolId":"s1"},"params":{"newName":"bar"},"guards":{},"effects":{},"provenance":{}}],"symbolMaps":{},"diagnostics":[]}}'
`

func TestOrchestrator_Run_ReportsConflicts(t *testing.T) {
	requireGit(t)
	dir, commit := initRepo(t)
	_ = dir

	client := worker.NewClient("go", []string{"sh", "-c", divergentRenameWorker})
	defer client.Close()
	orc := New(client, []string{".go"}, nil)

	result, err := orc.Run(context.Background(), commit, commit, commit)

	require.NoError(t, err)
	assert.Equal(t, OutcomeConflicts, result.Outcome)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "DivergentRename", string(result.Conflicts[0].Category))
}
