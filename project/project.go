package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const configFileName = "corby.yaml"

// Config represents the setup configuration from corby.yaml.
// Every field is optional; LoadConfig fills in defaults.
type Config struct {
	Name  string      `yaml:"name"`
	Setup SetupConfig `yaml:"setup"`
}

// SetupConfig holds the requirement and generation settings.
type SetupConfig struct {
	Python     PythonConfig      `yaml:"python"`
	Premake    PremakeConfig     `yaml:"premake"`
	Vulkan     VulkanConfig      `yaml:"vulkan"`
	Generators map[string]string `yaml:"generators"` // platform -> script path relative to root
}

// PythonConfig selects the interpreter probed for the runtime check.
type PythonConfig struct {
	Interpreter string `yaml:"interpreter"`
	MinVersion  string `yaml:"min_version"`
}

// PremakeConfig locates the vendored Premake executable and the version to recommend.
type PremakeConfig struct {
	Path    string `yaml:"path"` // Relative to root, without .exe
	Version string `yaml:"version"`
}

// VulkanConfig describes the expected Vulkan SDK. The path and version only come from the environment.
type VulkanConfig struct {
	SDKPath    string `yaml:"-"`
	SDKVersion string `yaml:"-"`
	MinVersion string `yaml:"min_version"`
}

// envOverrides are read from the environment after the file.
type envOverrides struct {
	PythonInterpreter string `env:"CORBY_PYTHON"`
	PremakePath       string `env:"CORBY_PREMAKE_PATH"`
	GeneratorScript   string `env:"CORBY_GENERATOR_SCRIPT"`
	VulkanSDK         string `env:"VULKAN_SDK"`
	VulkanSDKVersion  string `env:"VULKAN_SDK_VERSION"`
}

const (
	DefaultPythonMinVersion = "3.3"
	DefaultPremakePath      = "vendor/bin/premake/premake5"
	DefaultPremakeVersion   = "5.0.0-beta2"
	DefaultVulkanMinVersion = "1.2.170"
	DefaultWindowsGenerator = "scripts/Win-GenProjects.bat"
)

// DefaultConfig returns the configuration used when corby.yaml is absent.
func DefaultConfig() *Config {
	return &Config{
		Name: "Corby",
		Setup: SetupConfig{
			Python:     PythonConfig{MinVersion: DefaultPythonMinVersion},
			Premake:    PremakeConfig{Path: DefaultPremakePath, Version: DefaultPremakeVersion},
			Vulkan:     VulkanConfig{MinVersion: DefaultVulkanMinVersion},
			Generators: map[string]string{"windows": DefaultWindowsGenerator},
		},
	}
}

// FindRoot walks up from start looking for corby.yaml, then for a .git entry.
// Returns the first directory that matches.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	if dir, ok := walkUp(abs, configFileName); ok {
		return dir, nil
	}
	if dir, ok := walkUp(abs, ".git"); ok {
		return dir, nil
	}
	return "", fmt.Errorf("neither %s nor .git found in any parent directory of %s", configFileName, abs)
}

// FindProjectRoot runs FindRoot from the current working directory.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return FindRoot(cwd)
}

func walkUp(dir, marker string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadConfig loads corby.yaml from root if present and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	config := DefaultConfig()
	configPath := filepath.Join(root, configFileName)

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", configFileName, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configFileName, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	config.fillDefaults()
	return config, nil
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if overrides.PythonInterpreter != "" {
		c.Setup.Python.Interpreter = overrides.PythonInterpreter
	}
	if overrides.PremakePath != "" {
		c.Setup.Premake.Path = overrides.PremakePath
	}
	if overrides.GeneratorScript != "" {
		if c.Setup.Generators == nil {
			c.Setup.Generators = make(map[string]string)
		}
		c.Setup.Generators["windows"] = overrides.GeneratorScript
	}
	c.Setup.Vulkan.SDKPath = overrides.VulkanSDK
	c.Setup.Vulkan.SDKVersion = overrides.VulkanSDKVersion
	return nil
}

// fillDefaults restores defaults for fields that corby.yaml set to empty values.
func (c *Config) fillDefaults() {
	if c.Name == "" {
		c.Name = "Corby"
	}
	if c.Setup.Python.MinVersion == "" {
		c.Setup.Python.MinVersion = DefaultPythonMinVersion
	}
	if c.Setup.Premake.Path == "" {
		c.Setup.Premake.Path = DefaultPremakePath
	}
	if c.Setup.Premake.Version == "" {
		c.Setup.Premake.Version = DefaultPremakeVersion
	}
	if c.Setup.Vulkan.MinVersion == "" {
		c.Setup.Vulkan.MinVersion = DefaultVulkanMinVersion
	}
	if c.Setup.Generators == nil {
		c.Setup.Generators = make(map[string]string)
	}
	if c.Setup.Generators["windows"] == "" {
		c.Setup.Generators["windows"] = DefaultWindowsGenerator
	}
}

// GeneratorScript returns the generation script configured for platform, if any.
func (c *Config) GeneratorScript(platform string) (string, bool) {
	script, ok := c.Setup.Generators[platform]
	return script, ok && script != ""
}

// Workspace scopes relative paths to the repository root.
type Workspace struct {
	Root string
}

// ChangeDirToRoot makes Root the process working directory.
func (w Workspace) ChangeDirToRoot() error {
	if err := os.Chdir(w.Root); err != nil {
		return fmt.Errorf("changing directory to %s: %w", w.Root, err)
	}
	return nil
}
