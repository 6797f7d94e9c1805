// Package build drives the transpilation of a TypeScript source tree into C#.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"martianoff/tscs/internal/config"
	"martianoff/tscs/internal/transpiler"
)

// Config holds configuration for the build system.
type Config struct {
	// InputDir is the directory scanned for .ts and .tsx sources.
	// Defaults to the enclosing git worktree root, or the working directory.
	InputDir string

	// OutputDir receives the generated .cs files, mirroring the input layout.
	OutputDir string

	// Exclude lists glob patterns of paths, relative to InputDir, to skip.
	Exclude []string

	// Options configures the transpiler. InputRoot is ignored: paths are
	// always resolved relative to InputDir.
	Options transpiler.Options

	// Jobs bounds the number of files transpiled in parallel.
	// Defaults to GOMAXPROCS.
	Jobs int
}

// NewConfig resolves a loaded configuration file into a build configuration.
func NewConfig(f *config.File) (*Config, error) {
	input := f.Input
	if input == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		input = FindRoot(wd)
	}
	c := &Config{
		InputDir:  input,
		OutputDir: f.Output,
		Exclude:   f.Exclude,
		Options:   f.Options(),
	}
	return c, c.normalize()
}

func (c *Config) normalize() error {
	abs, err := filepath.Abs(c.InputDir)
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}
	c.InputDir = abs
	if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}
	if c.Jobs <= 0 {
		c.Jobs = runtime.GOMAXPROCS(0)
	}
	c.Options.InputRoot = ""
	return nil
}

// EnsureDirs creates the output directory.
func (c *Config) EnsureDirs() error {
	if c.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(c.OutputDir, 0755)
}
