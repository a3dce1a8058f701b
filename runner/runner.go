package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external program invocation.
type Command struct {
	Name   string    // Program name or path
	Args   []string  // Arguments, not including the program name
	Dir    string    // Working directory (empty: current directory)
	Stdout io.Writer // Defaults to the runner's stdout
	Stderr io.Writer // Defaults to the runner's stderr
}

// String renders the command line for display purposes.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ExitStatus is the result of a command that was started.
type ExitStatus struct {
	Code int
}

// Success reports whether the command exited with status 0.
func (s ExitStatus) Success() bool {
	return s.Code == 0
}

// Runner executes external commands and blocks until they finish.
// A non-zero exit is reported through ExitStatus with a nil error; the error is
// reserved for commands that could not be run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (ExitStatus, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that streams child output to the process stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts cmd and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (ExitStatus, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = pick(cmd.Stdout, r.Stdout)
	c.Stderr = pick(cmd.Stderr, r.Stderr)

	err := c.Run()
	if err == nil {
		return ExitStatus{Code: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return ExitStatus{Code: exitErr.ExitCode()}, nil
	}

	return ExitStatus{Code: -1}, fmt.Errorf("running %s: %w", cmd.Name, err)
}

func pick(preferred, fallback io.Writer) io.Writer {
	if preferred != nil {
		return preferred
	}
	if fallback != nil {
		return fallback
	}
	return io.Discard
}
