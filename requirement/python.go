package requirement

import (
	"bytes"
	"context"
	"io"
	"regexp"

	"github.com/corby-engine/setup/runner"
	"go.uber.org/zap"
)

var pythonVersionPattern = regexp.MustCompile(`Python\s+(\d+(?:\.\d+)*)`)

// Python checks for a Python interpreter of at least MinVersion.
type Python struct {
	base
	runner      runner.Runner
	interpreter string
	minVersion  string
}

// NewPython returns a Python checker. An empty interpreter probes python3, then python.
func NewPython(r runner.Runner, interpreter, minVersion string, out io.Writer, logger *zap.Logger) *Python {
	return &Python{
		base:        newBase(out, logger),
		runner:      r,
		interpreter: interpreter,
		minVersion:  minVersion,
	}
}

func (p *Python) Name() string {
	return "Python"
}

func (p *Python) candidates() []string {
	if p.interpreter != "" {
		return []string{p.interpreter}
	}
	return []string{"python3", "python"}
}

// Validate implements Checker.
func (p *Python) Validate(ctx context.Context) (bool, error) {
	for _, candidate := range p.candidates() {
		version, ok := p.probe(ctx, candidate)
		if !ok {
			continue
		}

		satisfied, err := atLeast(version, p.minVersion)
		if err != nil {
			return false, err
		}
		if !satisfied {
			p.printf("Python %s found (%s), but version %s or newer is required.\n", version, candidate, p.minVersion)
			return false, nil
		}

		p.logger.Debug("python found", zap.String("interpreter", candidate), zap.String("version", version))
		p.printf("Python %s found (%s)\n", version, candidate)
		return true, nil
	}

	p.printf("Python is not installed or not on PATH.\n"+
		"  Install Python %s or newer from https://www.python.org/downloads/\n", p.minVersion)
	return false, nil
}

// probe runs "<candidate> --version" and extracts the version number.
// Python 2 prints its version on stderr, so both streams are captured.
func (p *Python) probe(ctx context.Context, candidate string) (string, bool) {
	var out bytes.Buffer
	status, err := p.runner.Run(ctx, runner.Command{
		Name:   candidate,
		Args:   []string{"--version"},
		Stdout: &out,
		Stderr: &out,
	})
	if err != nil {
		p.logger.Debug("python probe failed", zap.String("interpreter", candidate), zap.Error(err))
		return "", false
	}
	if !status.Success() {
		p.logger.Debug("python probe exited", zap.String("interpreter", candidate), zap.Int("code", status.Code))
		return "", false
	}

	m := pythonVersionPattern.FindStringSubmatch(out.String())
	if m == nil {
		p.logger.Warn("unrecognised python version output", zap.String("interpreter", candidate), zap.String("output", out.String()))
		return "", false
	}
	return m[1], true
}
