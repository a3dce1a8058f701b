package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// OS identifies a host operating system.
type OS string

const (
	Windows OS = "windows"
	Linux   OS = "linux"
	MacOS   OS = "macos"
)

// Friendly name mappings accepted by Parse
var osNames = map[string]OS{
	"windows": Windows,
	"win":     Windows,
	"win64":   Windows,
	"linux":   Linux,
	"macos":   MacOS,
	"darwin":  MacOS,
	"osx":     MacOS,
}

// DetectCurrent returns the operating system this binary is running on.
func DetectCurrent() (OS, error) {
	return fromGOOS(runtime.GOOS)
}

// Hosts other than the three known ones keep their GOOS name; they can still
// run the checks and submodule sync but never generate projects.
func fromGOOS(goos string) (OS, error) {
	if goos == "" {
		return "", fmt.Errorf("unsupported platform: %s/%s", goos, runtime.GOARCH)
	}
	switch goos {
	case "windows":
		return Windows, nil
	case "linux":
		return Linux, nil
	case "darwin":
		return MacOS, nil
	default:
		return OS(goos), nil
	}
}

// Parse maps a friendly platform name to an OS.
func Parse(name string) (OS, error) {
	if os, ok := osNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return os, nil
	}
	return "", fmt.Errorf("unknown platform %q (valid: windows, linux, macos)", name)
}

// ExecutableName returns the executable file name for the given OS.
func ExecutableName(os OS, name string) string {
	if os == Windows && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}

// SupportsProjectGeneration reports whether a project generation script exists for os.
// Only Windows ships one (scripts/Win-GenProjects.bat).
func SupportsProjectGeneration(os OS) bool {
	return os == Windows
}

func (o OS) String() string {
	return string(o)
}
