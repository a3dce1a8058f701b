// Package bootstrap runs the engine setup sequence: validate the required tooling,
// move to the repository root, update submodules and generate project files.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/corby-engine/setup/platform"
	"github.com/corby-engine/setup/premake"
	"github.com/corby-engine/setup/requirement"
	"github.com/corby-engine/setup/runner"
	"github.com/corby-engine/setup/submodule"
	"go.uber.org/zap"
)

// Step names one transition of the setup sequence.
type Step string

const (
	StepValidateRuntime     Step = "validate-runtime"
	StepValidateBuildTool   Step = "validate-build-tool"
	StepValidateGraphicsSDK Step = "validate-graphics-sdk"
	StepChangeDirToRoot     Step = "change-dir-to-root"
	StepSyncSubmodules      Step = "sync-submodules"
	StepGenerateProjects    Step = "generate-projects"
	StepReport              Step = "report"
)

// Final report lines.
const (
	MessageCompleted       = "Setup completed!"
	MessagePremakeRequired = "Engine requires Premake to generate project files!"
)

// Workspace redirects relative paths to the repository root.
type Workspace interface {
	ChangeDirToRoot() error
}

// Bootstrapper holds the collaborators of one setup run.
type Bootstrapper struct {
	Runtime     requirement.Checker // mandatory
	BuildTool   requirement.Checker // optional, gates project generation
	GraphicsSDK requirement.Checker // mandatory

	// Required. Workspace moves the process to Root; Root is also the working
	// directory of every command run through Runner.
	Workspace Workspace
	Runner    runner.Runner
	Root      string

	Platform platform.OS
	Script   string // generation script relative to Root

	Out    io.Writer
	Logger *zap.Logger
}

// Report describes what a run did.
type Report struct {
	Steps              []Step
	BuildToolAvailable bool
	Generated          bool
	SyncFailed         bool
	Warnings           []string
	Message            string
}

// Completed reports whether the run ended with the success message.
func (r *Report) Completed() bool {
	return r.Message == MessageCompleted
}

type run struct {
	*Bootstrapper
	out    io.Writer
	logger *zap.Logger
	report *Report
}

// Run executes the setup sequence. A failed mandatory requirement stops the run before
// anything else happens and is returned as *requirement.FatalPrerequisiteError; the
// partial report is returned alongside it.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	if err := b.validate(); err != nil {
		return &Report{}, err
	}

	r := &run{Bootstrapper: b, out: b.Out, logger: b.Logger, report: &Report{}}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	// Step 1: runtime, everything after assumes a working scripting environment
	if err := r.mandatory(ctx, StepValidateRuntime, b.Runtime); err != nil {
		return r.report, err
	}

	// Step 2: build generator, failure only gates generation
	r.report.BuildToolAvailable = r.optional(ctx, StepValidateBuildTool, b.BuildTool)

	// Step 3: graphics SDK
	if err := r.mandatory(ctx, StepValidateGraphicsSDK, b.GraphicsSDK); err != nil {
		return r.report, err
	}

	// Step 4: scope to repository root
	r.step(StepChangeDirToRoot)
	if err := b.Workspace.ChangeDirToRoot(); err != nil {
		return r.report, err
	}
	r.logger.Debug("working directory changed", zap.String("root", b.Root))

	// Step 5: submodules, best effort
	r.syncSubmodules(ctx)

	// Step 6: project generation
	if r.report.BuildToolAvailable {
		r.generateProjects(ctx)
	} else {
		r.logger.Info("skipping project generation, premake unavailable")
	}

	// Step 7: report
	r.step(StepReport)
	if r.report.BuildToolAvailable {
		r.report.Message = MessageCompleted
	} else {
		r.report.Message = MessagePremakeRequired
	}
	fmt.Fprintf(r.out, "\n%s\n", r.report.Message)

	return r.report, nil
}

func (b *Bootstrapper) validate() error {
	var errs []error
	if b.Runtime == nil || b.BuildTool == nil || b.GraphicsSDK == nil {
		errs = append(errs, errors.New("runtime, build tool and graphics SDK checkers are required"))
	}
	if b.Workspace == nil {
		errs = append(errs, errors.New("workspace is required"))
	}
	if b.Runner == nil {
		errs = append(errs, errors.New("runner is required"))
	}
	if b.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid bootstrapper: %w", err)
	}
	return nil
}

func (r *run) step(s Step) {
	r.report.Steps = append(r.report.Steps, s)
}

func (r *run) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.report.Warnings = append(r.report.Warnings, msg)
	fmt.Fprintf(r.out, "Warning: %s\n", msg)
}

func (r *run) mandatory(ctx context.Context, s Step, checker requirement.Checker) error {
	r.step(s)
	ok, err := checker.Validate(ctx)
	if err != nil {
		r.logger.Error("requirement check failed", zap.String("requirement", checker.Name()), zap.Error(err))
		return requirement.Fatal(checker.Name(), err)
	}
	if !ok {
		r.logger.Error("requirement missing", zap.String("requirement", checker.Name()))
		return requirement.Fatal(checker.Name(), nil)
	}
	return nil
}

func (r *run) optional(ctx context.Context, s Step, checker requirement.Checker) bool {
	r.step(s)
	ok, err := checker.Validate(ctx)
	if err != nil {
		r.logger.Warn("requirement check failed", zap.String("requirement", checker.Name()), zap.Error(err))
		return false
	}
	if !ok {
		r.logger.Info("optional requirement missing", zap.String("requirement", checker.Name()))
	}
	return ok
}

func (r *run) syncSubmodules(ctx context.Context) {
	r.step(StepSyncSubmodules)
	fmt.Fprintln(r.out, "\nUpdating submodules...")

	status, err := submodule.Sync(ctx, r.Runner, r.Root)
	switch {
	case err != nil:
		r.report.SyncFailed = true
		r.warn("%v", err)
	case !status.Success():
		r.report.SyncFailed = true
		r.warn("git submodule update exited with status %d", status.Code)
	}
}

func (r *run) generateProjects(ctx context.Context) {
	if !platform.SupportsProjectGeneration(r.Platform) {
		fmt.Fprintf(r.out, "\nProject generation is not available on %s, skipping.\n", r.Platform)
		return
	}

	r.step(StepGenerateProjects)
	fmt.Fprintln(r.out, "\nRunning premake...")

	status, err := premake.Generate(ctx, r.Runner, premake.GenerateConfig{Root: r.Root, Script: r.Script})
	switch {
	case err != nil:
		r.warn("%v", err)
	case !status.Success():
		r.warn("project generation exited with status %d", status.Code)
	default:
		r.report.Generated = true
	}
}
