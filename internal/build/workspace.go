package build

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"

	"martianoff/tscs/internal/transpiler/naming"
)

// Workspace represents the source tree of a transpilation run.
type Workspace struct {
	// InputDir is the absolute path to the scanned directory.
	InputDir string

	// OutputDir is the absolute path generated files are written under.
	OutputDir string

	exclude []string
}

// NewWorkspace creates a new workspace for the given configuration.
func NewWorkspace(cfg *Config) (*Workspace, error) {
	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("opening input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", cfg.InputDir)
	}
	return &Workspace{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		exclude:   cfg.Exclude,
	}, nil
}

// FindRoot returns the worktree root of the git repository containing dir,
// or dir itself when it is not inside a repository.
func FindRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		return dir
	}
	return wt.Filesystem.Root()
}

// Rel returns p relative to the input directory, with forward slashes.
func (w *Workspace) Rel(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(w.InputDir, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of %s", p, w.InputDir)
	}
	return filepath.ToSlash(rel), nil
}

// SourceFiles lists the transpilable sources under the input directory,
// relative to it and sorted.
func (w *Workspace) SourceFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.InputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == w.InputDir {
			return nil
		}
		rel, err := w.Rel(p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if w.skipDir(p, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.IsSource(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", w.InputDir, err)
	}
	slices.Sort(files)
	return files, nil
}

func (w *Workspace) skipDir(abs, rel string) bool {
	name := path.Base(rel)
	if strings.HasPrefix(name, ".") || name == "node_modules" {
		return true
	}
	if w.OutputDir != "" && abs == w.OutputDir {
		return true
	}
	return w.excluded(rel)
}

// IsSource reports whether the relative path names a file to transpile:
// .ts or .tsx, not a declaration file and not excluded.
func (w *Workspace) IsSource(rel string) bool {
	rel = filepath.ToSlash(rel)
	if strings.HasSuffix(rel, ".d.ts") {
		return false
	}
	if !strings.HasSuffix(rel, ".ts") && !strings.HasSuffix(rel, ".tsx") {
		return false
	}
	for _, dir := range strings.Split(path.Dir(rel), "/") {
		if dir == "node_modules" || (strings.HasPrefix(dir, ".") && dir != ".") {
			return false
		}
	}
	return !w.excluded(rel)
}

func (w *Workspace) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		if matchGlob(filepath.ToSlash(pattern), rel) {
			return true
		}
	}
	return false
}

// matchGlob matches rel against pattern, the base name, and, for patterns
// starting with **/, every trailing path suffix.
func matchGlob(pattern, rel string) bool {
	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	if ok, _ := path.Match(pattern, path.Base(rel)); ok {
		return true
	}
	rest, ok := strings.CutPrefix(pattern, "**/")
	if !ok {
		return false
	}
	parts := strings.Split(rel, "/")
	for i := range parts {
		if ok, _ := path.Match(rest, strings.Join(parts[i:], "/")); ok {
			return true
		}
	}
	return false
}

// OutputPath returns where the C# file for a relative source path is written:
// the same directory under OutputDir, named after the module class.
func (w *Workspace) OutputPath(rel string) string {
	dir := path.Dir(rel)
	name := naming.ClassNameFromFile(rel) + ".cs"
	return filepath.Join(w.OutputDir, filepath.FromSlash(dir), name)
}

// WriteOutput writes generated code for a relative source path and returns the written path.
func (w *Workspace) WriteOutput(rel string, code []byte) (string, error) {
	out := w.OutputPath(rel)
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(out, code, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}
