package submodule

import (
	"context"
	"fmt"

	"github.com/corby-engine/setup/runner"
)

// SyncArgs updates every submodule recursively, initializing any that are not yet checked out.
var SyncArgs = []string{"submodule", "update", "--init", "--recursive"}

// Sync runs git submodule update in root and returns its exit status.
// A non-zero exit is not an error; callers decide whether to warn.
func Sync(ctx context.Context, r runner.Runner, root string) (runner.ExitStatus, error) {
	status, err := r.Run(ctx, runner.Command{
		Name: "git",
		Args: append([]string(nil), SyncArgs...),
		Dir:  root,
	})
	if err != nil {
		return status, fmt.Errorf("updating submodules: %w", err)
	}
	return status, nil
}
