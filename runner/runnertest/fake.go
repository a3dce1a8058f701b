// Package runnertest provides a recording runner.Runner for tests.
package runnertest

import (
	"context"
	"io"

	"github.com/corby-engine/setup/runner"
)

// Response is the canned result for one program name.
type Response struct {
	Code   int
	Err    error
	Stdout string
}

// Fake records every command it is asked to run and replies from Responses.
// Unknown programs exit 0 with no output.
type Fake struct {
	Responses map[string]Response
	Calls     []runner.Command
	OnRun     func(cmd runner.Command)
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]Response)}
}

// Run implements runner.Runner.
func (f *Fake) Run(ctx context.Context, cmd runner.Command) (runner.ExitStatus, error) {
	f.Calls = append(f.Calls, cmd)
	if f.OnRun != nil {
		f.OnRun(cmd)
	}

	resp := f.Responses[cmd.Name]
	if resp.Err != nil {
		return runner.ExitStatus{Code: -1}, resp.Err
	}
	if resp.Stdout != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, resp.Stdout)
	}
	return runner.ExitStatus{Code: resp.Code}, nil
}

// Count returns how many times name was run.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}
