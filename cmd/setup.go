package cmd

import (
	"fmt"
	"io"

	"github.com/corby-engine/setup/bootstrap"
	"github.com/corby-engine/setup/platform"
	"github.com/corby-engine/setup/project"
	"github.com/corby-engine/setup/requirement"
	"github.com/corby-engine/setup/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRunner is replaced in tests.
var newRunner = func(out, errOut io.Writer) runner.Runner {
	return &runner.ExecRunner{Stdout: out, Stderr: errOut}
}

// environment is everything resolved before the setup sequence starts.
type environment struct {
	root   string
	config *project.Config
	host   platform.OS
	runner runner.Runner
	out    io.Writer
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	root := rootFlag
	if root == "" {
		found, err := project.FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("getting project root: %w", err)
		}
		root = found
	}

	config, err := project.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	host, err := platform.DetectCurrent()
	if platformFlag != "" {
		host, err = platform.Parse(platformFlag)
	}
	if err != nil {
		return nil, fmt.Errorf("detecting current platform: %w", err)
	}

	logger.Debug("environment resolved",
		zap.String("root", root),
		zap.String("project", config.Name),
		zap.Stringer("platform", host))

	return &environment{
		root:   root,
		config: config,
		host:   host,
		runner: newRunner(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		out:    cmd.OutOrStdout(),
	}, nil
}

// checkers returns the runtime, build generator and graphics SDK checkers.
func (e *environment) checkers() (runtime, buildTool, sdk requirement.Checker) {
	setup := e.config.Setup
	runtime = requirement.NewPython(e.runner, setup.Python.Interpreter, setup.Python.MinVersion, e.out, logger)
	buildTool = requirement.NewPremake(e.root, setup.Premake.Path, setup.Premake.Version, e.host, e.out, logger)
	sdk = requirement.NewVulkan(setup.Vulkan.SDKPath, setup.Vulkan.SDKVersion, setup.Vulkan.MinVersion, e.out, logger)
	return runtime, buildTool, sdk
}

func runSetup(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	runtime, buildTool, sdk := env.checkers()
	script, _ := env.config.GeneratorScript(string(platform.Windows))

	b := &bootstrap.Bootstrapper{
		Runtime:     runtime,
		BuildTool:   buildTool,
		GraphicsSDK: sdk,
		Workspace:   project.Workspace{Root: env.root},
		Runner:      env.runner,
		Platform:    env.host,
		Root:        env.root,
		Script:      script,
		Out:         env.out,
		Logger:      logger,
	}

	fmt.Fprintf(env.out, "Setting up %s in %s\n", env.config.Name, env.root)
	report, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}

	logger.Debug("setup finished",
		zap.Bool("generated", report.Generated),
		zap.Bool("sync_failed", report.SyncFailed),
		zap.Int("warnings", len(report.Warnings)))
	return nil
}
