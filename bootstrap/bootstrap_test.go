package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corby-engine/setup/platform"
	"github.com/corby-engine/setup/requirement"
	"github.com/corby-engine/setup/runner"
	"github.com/corby-engine/setup/runner/runnertest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testRoot   = "/src/corby"
	testScript = "scripts/Win-GenProjects.bat"
)

var scriptPath = filepath.Join(testRoot, filepath.FromSlash(testScript))

// events is the shared call log of all spies in one test.
type events []string

func (e *events) add(s string) { *e = append(*e, s) }

type stubChecker struct {
	name string
	ok   bool
	err  error
	log  *events
}

func (c *stubChecker) Name() string { return c.name }

func (c *stubChecker) Validate(ctx context.Context) (bool, error) {
	c.log.add("validate " + c.name)
	return c.ok, c.err
}

type spyWorkspace struct {
	err error
	log *events
}

func (w *spyWorkspace) ChangeDirToRoot() error {
	w.log.add("chdir")
	return w.err
}

type fixture struct {
	log       *events
	runtime   *stubChecker
	buildTool *stubChecker
	sdk       *stubChecker
	workspace *spyWorkspace
	runner    *runnertest.Fake
	out       *bytes.Buffer
	b         *Bootstrapper
}

func newFixture(t *testing.T, host platform.OS) *fixture {
	t.Helper()
	log := &events{}
	f := &fixture{
		log:       log,
		runtime:   &stubChecker{name: "Python", ok: true, log: log},
		buildTool: &stubChecker{name: "Premake", ok: true, log: log},
		sdk:       &stubChecker{name: "Vulkan SDK", ok: true, log: log},
		workspace: &spyWorkspace{log: log},
		runner:    runnertest.NewFake(),
		out:       &bytes.Buffer{},
	}
	f.runner.OnRun = func(cmd runner.Command) {
		log.add("run " + filepath.Base(cmd.Name))
	}
	f.b = &Bootstrapper{
		Runtime:     f.runtime,
		BuildTool:   f.buildTool,
		GraphicsSDK: f.sdk,
		Workspace:   f.workspace,
		Runner:      f.runner,
		Platform:    host,
		Root:        testRoot,
		Script:      testScript,
		Out:         f.out,
		Logger:      zaptest.NewLogger(t),
	}
	return f
}

func TestMandatoryFailureHaltsBeforeChangeDir(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(f *fixture)
		failing  string
		expected events
	}{
		{
			name:     "runtime missing",
			mutate:   func(f *fixture) { f.runtime.ok = false },
			failing:  "Python",
			expected: events{"validate Python"},
		},
		{
			name:     "runtime check errors",
			mutate:   func(f *fixture) { f.runtime.err = errors.New("probe exploded") },
			failing:  "Python",
			expected: events{"validate Python"},
		},
		{
			name:     "sdk missing",
			mutate:   func(f *fixture) { f.sdk.ok = false },
			failing:  "Vulkan SDK",
			expected: events{"validate Python", "validate Premake", "validate Vulkan SDK"},
		},
		{
			name: "sdk missing with build tool missing",
			mutate: func(f *fixture) {
				f.sdk.ok = false
				f.buildTool.ok = false
			},
			failing:  "Vulkan SDK",
			expected: events{"validate Python", "validate Premake", "validate Vulkan SDK"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, platform.Windows)
			tt.mutate(f)

			report, err := f.b.Run(context.Background())
			require.Error(t, err)

			var fatal *requirement.FatalPrerequisiteError
			require.True(t, errors.As(err, &fatal))
			assert.Equal(t, tt.failing, fatal.Requirement)

			if diff := cmp.Diff(tt.expected, *f.log); diff != "" {
				t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, f.runner.Calls)
			assert.NotContains(t, report.Steps, StepChangeDirToRoot)
			assert.Empty(t, report.Message)
		})
	}
}

func TestBuildToolMissingNeverGenerates(t *testing.T) {
	for _, host := range []platform.OS{platform.Windows, platform.Linux, platform.MacOS} {
		t.Run(string(host), func(t *testing.T) {
			f := newFixture(t, host)
			f.buildTool.ok = false

			report, err := f.b.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 0, f.runner.Count(scriptPath))
			assert.Equal(t, 1, f.runner.Count("git"))
			assert.False(t, report.Generated)
			assert.False(t, report.BuildToolAvailable)
			assert.NotContains(t, report.Steps, StepGenerateProjects)
		})
	}
}

func TestBuildToolCheckErrorIsNotFatal(t *testing.T) {
	f := newFixture(t, platform.Windows)
	f.buildTool.err = errors.New("stat failed")

	report, err := f.b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.BuildToolAvailable)
	assert.Equal(t, MessagePremakeRequired, report.Message)
	assert.Equal(t, 0, f.runner.Count(scriptPath))
}

func TestUnsupportedPlatformNeverGenerates(t *testing.T) {
	for _, host := range []platform.OS{platform.Linux, platform.MacOS} {
		t.Run(string(host), func(t *testing.T) {
			f := newFixture(t, host)

			report, err := f.b.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 0, f.runner.Count(scriptPath))
			assert.True(t, report.BuildToolAvailable)
			assert.False(t, report.Generated)
			assert.True(t, report.Completed())
			assert.Contains(t, f.out.String(), "Project generation is not available on "+string(host))
			assert.True(t, strings.HasSuffix(f.out.String(), "\nSetup completed!\n"))
		})
	}
}

func TestHappyPathOrder(t *testing.T) {
	f := newFixture(t, platform.Windows)

	report, err := f.b.Run(context.Background())
	require.NoError(t, err)

	want := events{
		"validate Python",
		"validate Premake",
		"validate Vulkan SDK",
		"chdir",
		"run git",
		"run Win-GenProjects.bat",
	}
	if diff := cmp.Diff(want, *f.log); diff != "" {
		t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []Step{
		StepValidateRuntime,
		StepValidateBuildTool,
		StepValidateGraphicsSDK,
		StepChangeDirToRoot,
		StepSyncSubmodules,
		StepGenerateProjects,
		StepReport,
	}
	if diff := cmp.Diff(wantSteps, report.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, f.runner.Calls, 2)
	assert.Equal(t, []string{"submodule", "update", "--init", "--recursive"}, f.runner.Calls[0].Args)
	assert.Equal(t, testRoot, f.runner.Calls[0].Dir)
	assert.Equal(t, scriptPath, f.runner.Calls[1].Name)
	assert.Equal(t, []string{"nopause"}, f.runner.Calls[1].Args)

	assert.True(t, report.Generated)
	assert.True(t, report.Completed())
	assert.Empty(t, report.Warnings)
	assert.Equal(t, "\nUpdating submodules...\n\nRunning premake...\n\nSetup completed!\n", f.out.String())
}

func TestBuildToolMissingReportsVerbatim(t *testing.T) {
	f := newFixture(t, platform.Windows)
	f.buildTool.ok = false

	report, err := f.b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.runner.Count("git"))
	assert.Equal(t, 0, f.runner.Count(scriptPath))
	assert.Equal(t, "Engine requires Premake to generate project files!", report.Message)
	assert.Equal(t, "\nUpdating submodules...\n\nEngine requires Premake to generate project files!\n", f.out.String())
}

func TestSubmoduleSyncIsBestEffort(t *testing.T) {
	tests := []struct {
		name       string
		response   runnertest.Response
		syncFailed bool
	}{
		{name: "exit 0", response: runnertest.Response{Code: 0}},
		{name: "exit 1", response: runnertest.Response{Code: 1}, syncFailed: true},
		{name: "exit 128", response: runnertest.Response{Code: 128}, syncFailed: true},
		{name: "git not found", response: runnertest.Response{Err: errors.New("executable file not found")}, syncFailed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, platform.Windows)
			f.runner.Responses["git"] = tt.response

			report, err := f.b.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 1, f.runner.Count("git"))
			assert.Equal(t, 1, f.runner.Count(scriptPath))
			assert.Equal(t, tt.syncFailed, report.SyncFailed)
			assert.Equal(t, tt.syncFailed, len(report.Warnings) == 1)
			assert.True(t, report.Completed())
		})
	}
}

func TestGenerationFailureIsWarning(t *testing.T) {
	f := newFixture(t, platform.Windows)
	f.runner.Responses[scriptPath] = runnertest.Response{Code: 2}

	report, err := f.b.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Generated)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "status 2")
	assert.Contains(t, f.out.String(), "Warning: project generation exited with status 2")
}

func TestChangeDirFailureStopsRun(t *testing.T) {
	f := newFixture(t, platform.Windows)
	f.workspace.err = errors.New("permission denied")

	_, err := f.b.Run(context.Background())
	require.Error(t, err)

	var fatal *requirement.FatalPrerequisiteError
	assert.False(t, errors.As(err, &fatal))
	assert.Empty(t, f.runner.Calls)
}

func TestNilOutputAndLogger(t *testing.T) {
	f := newFixture(t, platform.Windows)
	f.b.Out = nil
	f.b.Logger = nil

	report, err := f.b.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Completed())
	assert.Nil(t, f.b.Out)
}

func TestMissingCollaboratorsAreRejected(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *Bootstrapper)
		message string
	}{
		{name: "workspace", mutate: func(b *Bootstrapper) { b.Workspace = nil }, message: "workspace is required"},
		{name: "runner", mutate: func(b *Bootstrapper) { b.Runner = nil }, message: "runner is required"},
		{name: "root", mutate: func(b *Bootstrapper) { b.Root = "" }, message: "root is required"},
		{name: "checker", mutate: func(b *Bootstrapper) { b.GraphicsSDK = nil }, message: "checkers are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, platform.Windows)
			tt.mutate(f.b)

			report, err := f.b.Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			require.NotNil(t, report)
			assert.Empty(t, report.Steps)
			assert.Empty(t, *f.log)
			assert.Empty(t, f.out.String())
		})
	}
}
