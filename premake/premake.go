package premake

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/corby-engine/setup/runner"
)

// NoPauseArg stops the generation script from waiting for a key press.
const NoPauseArg = "nopause"

// GenerateConfig holds the configuration for project generation.
type GenerateConfig struct {
	Root   string // Repository root
	Script string // Generation script, relative to Root
}

// ScriptPath returns the absolute path of the generation script.
func (c GenerateConfig) ScriptPath() string {
	script := filepath.FromSlash(c.Script)
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(c.Root, script)
}

// Generate runs the platform generation script, which invokes Premake to write
// the native project files.
func Generate(ctx context.Context, r runner.Runner, config GenerateConfig) (runner.ExitStatus, error) {
	cmd := runner.Command{
		Name: config.ScriptPath(),
		Args: []string{NoPauseArg},
		Dir:  config.Root,
	}

	status, err := r.Run(ctx, cmd)
	if err != nil {
		return status, fmt.Errorf("running %s: %w", filepath.Base(cmd.Name), err)
	}
	return status, nil
}
