package requirement

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/corby-engine/setup/platform"
	"go.uber.org/zap"
)

const premakeReleases = "https://github.com/premake/premake-core/releases"

// Premake checks that the Premake executable is vendored in the repository
// or available on PATH.
type Premake struct {
	base
	root    string
	path    string // relative to root, without extension
	version string
	host    platform.OS

	// LookPath resolves executables on the search path. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewPremake returns a Premake checker for the repository at root.
func NewPremake(root, path, version string, host platform.OS, out io.Writer, logger *zap.Logger) *Premake {
	return &Premake{
		base:     newBase(out, logger),
		root:     root,
		path:     path,
		version:  version,
		host:     host,
		LookPath: exec.LookPath,
	}
}

func (p *Premake) Name() string {
	return "Premake"
}

// VendoredPath returns the absolute location the vendored executable is expected at.
func (p *Premake) VendoredPath() string {
	path := platform.ExecutableName(p.host, filepath.FromSlash(p.path))
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}

// Validate implements Checker.
func (p *Premake) Validate(ctx context.Context) (bool, error) {
	vendored := p.VendoredPath()

	info, err := os.Stat(vendored)
	switch {
	case err == nil && !info.IsDir():
		p.logger.Debug("premake found", zap.String("path", vendored))
		p.printf("Premake found at %s\n", vendored)
		return true, nil
	case err != nil && !os.IsNotExist(err):
		return false, err
	}

	if p.LookPath != nil {
		if found, err := p.LookPath(platform.ExecutableName(p.host, "premake5")); err == nil {
			p.logger.Debug("premake found on PATH", zap.String("path", found))
			p.printf("Premake found at %s\n", found)
			return true, nil
		}
	}

	p.printf("Premake is not installed.\n"+
		"  Download Premake %s from %s\n"+
		"  and place the executable at %s\n", p.version, premakeReleases, vendored)
	return false, nil
}
