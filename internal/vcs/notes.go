package vcs

import (
	"context"
	"os"
	"os/exec"

	"github.com/jimmc414/semantic-merge/internal/fileutil"
	"github.com/jimmc414/semantic-merge/opmodel"
)

// NotesPut stores log as a git note attached to commit under namespace.
// Notes are advisory: any failure is returned to the caller, who is
// expected (per spec §6's "side-channel notes" collaborator contract) to
// log and swallow it rather than fail the merge.
func NotesPut(ctx context.Context, commit string, log opmodel.OpLog, namespace string) error {
	if namespace == "" {
		namespace = "semmerge"
	}
	data, err := log.ToJSON()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "semmerge_notes_")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, fileutil.OwnerReadWrite); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "git", "notes", "--ref", namespace, "add", "-f", "-F", tmpPath, commit)
	return cmd.Run()
}
