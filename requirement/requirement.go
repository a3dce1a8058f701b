// Package requirement detects the external tooling a Corby checkout needs before setup:
// a Python interpreter, the Premake build generator and the Vulkan SDK.
//
// Checkers only detect and explain. Whether a missing requirement stops the setup
// is decided by the caller.
package requirement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
)

// Checker determines whether one external dependency is present and usable.
// Validate returns false when the dependency is absent; a non-nil error means
// the check itself could not be carried out.
type Checker interface {
	Name() string
	Validate(ctx context.Context) (bool, error)
}

// ErrNotSatisfied is wrapped by FatalPrerequisiteError when a checker returned false.
var ErrNotSatisfied = errors.New("requirement not satisfied")

// FatalPrerequisiteError reports a mandatory requirement that failed validation.
type FatalPrerequisiteError struct {
	Requirement string
	Err         error
}

func (e *FatalPrerequisiteError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrNotSatisfied) {
		return fmt.Sprintf("%s is required to set up the engine", e.Requirement)
	}
	return fmt.Sprintf("%s is required to set up the engine: %v", e.Requirement, e.Err)
}

func (e *FatalPrerequisiteError) Unwrap() error {
	return e.Err
}

// Fatal wraps a failed mandatory check. err may be nil when the checker simply returned false.
func Fatal(name string, err error) *FatalPrerequisiteError {
	if err == nil {
		err = ErrNotSatisfied
	}
	return &FatalPrerequisiteError{Requirement: name, Err: err}
}

var versionPattern = regexp.MustCompile(`\d+(\.\d+)*(-[0-9A-Za-z.]+)?`)

// normalizeVersion converts a dotted tool version into semver form.
// "3.11" becomes "v3.11.0" and "1.3.216.0" becomes "v1.3.216".
func normalizeVersion(raw string) (string, bool) {
	match := versionPattern.FindString(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if match == "" {
		return "", false
	}

	core, pre, _ := strings.Cut(match, "-")
	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	v := "v" + strings.Join(parts, ".")
	if pre != "" {
		v += "-" + pre
	}
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

// atLeast reports whether version have is greater than or equal to want.
func atLeast(have, want string) (bool, error) {
	h, ok := normalizeVersion(have)
	if !ok {
		return false, fmt.Errorf("invalid version %q", have)
	}
	w, ok := normalizeVersion(want)
	if !ok {
		return false, fmt.Errorf("invalid minimum version %q", want)
	}
	return semver.Compare(h, w) >= 0, nil
}

// base holds what every checker needs for output and logging.
type base struct {
	out    io.Writer
	logger *zap.Logger
}

func newBase(out io.Writer, logger *zap.Logger) base {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{out: out, logger: logger}
}

func (b base) printf(format string, args ...any) {
	fmt.Fprintf(b.out, format, args...)
}
