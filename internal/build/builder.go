package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/generator"
	"martianoff/tscs/internal/transpiler/transformer"
	"martianoff/tscs/tscserr"
)

// FileResult is the outcome of one source file.
type FileResult struct {
	// Path is the source path relative to the input directory.
	Path string
	// Output is the written C# file, empty when nothing was written.
	Output      string
	Diagnostics []transpiler.Diagnostic
	// Err is a *tscserr.FileError when the file failed structurally.
	Err error
}

// Report collects the per-file results of a build, sorted by path.
type Report struct {
	Files []FileResult
}

// Failed returns the results of files that could not be transpiled.
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Warnings returns the total number of diagnostics.
func (r *Report) Warnings() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// Err aggregates the file errors, or returns nil when every file succeeded.
func (r *Report) Err() error {
	m := &tscserr.MultiError{}
	for _, f := range r.Failed() {
		m.Errors = append(m.Errors, f.Err)
	}
	return m.ErrorOrNil()
}

// Builder orchestrates the transpilation of a workspace.
type Builder struct {
	config     *Config
	workspace  *Workspace
	transpiler *transpiler.TsToCsTranspiler
}

// NewBuilder creates a new builder for the given configuration.
func NewBuilder(cfg *Config) (*Builder, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	workspace, err := NewWorkspace(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	t := transpiler.NewTsToCsTranspiler(
		transpiler.NewTreeSitterParser(),
		transformer.NewCSharpASTTransformer(cfg.Options, nil, nil),
		generator.NewCSharpCodeGenerator(),
		cfg.Options,
	)
	return &Builder{config: cfg, workspace: workspace, transpiler: t}, nil
}

// Build transpiles every source file in parallel and writes the results.
// A failing file is recorded in the report without stopping the others;
// the returned error is only set when the run itself could not proceed.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	if err := b.config.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	files, err := b.workspace.SourceFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		slog.Warn("no TypeScript sources found", "dir", b.workspace.InputDir)
	}

	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Jobs)
	for i, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = b.buildFile(ctx, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	report := &Report{Files: results}
	slog.Info("build finished",
		"files", len(results),
		"failed", len(report.Failed()),
		"warnings", report.Warnings())
	return report, nil
}

// buildFile transpiles one relative source path and writes its output.
func (b *Builder) buildFile(ctx context.Context, rel string) FileResult {
	res, err := b.transpileRel(ctx, rel)
	if err != nil {
		slog.Error("transpile failed", "file", rel, "error", err)
		return FileResult{Path: rel, Err: tscserr.NewFileError(rel, err)}
	}

	out := FileResult{Path: rel, Diagnostics: res.Diagnostics}
	if b.workspace.OutputDir != "" {
		written, err := b.workspace.WriteOutput(rel, []byte(res.Code))
		if err != nil {
			slog.Error("write failed", "file", rel, "error", err)
			out.Err = tscserr.NewFileError(rel, err)
			return out
		}
		out.Output = written
	}
	logDiagnostics(rel, res.Diagnostics)
	slog.Info("transpiled", "file", rel, "output", out.Output, "warnings", len(res.Diagnostics))
	return out
}

func (b *Builder) transpileRel(ctx context.Context, rel string) (*transpiler.Result, error) {
	src, err := os.ReadFile(filepath.Join(b.workspace.InputDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return b.transpiler.Transpile(ctx, rel, src)
}

// TranspileFile transpiles a single file without writing it. The namespace
// is derived from the path relative to the input directory, or from the
// file name alone when the file lies outside it.
func (b *Builder) TranspileFile(ctx context.Context, file string) (*transpiler.Result, error) {
	rel, err := b.workspace.Rel(file)
	if err != nil {
		src, readErr := os.ReadFile(file)
		if readErr != nil {
			return nil, tscserr.NewFileError(file, readErr)
		}
		res, err := b.transpiler.Transpile(ctx, filepath.Base(file), src)
		if err != nil {
			return nil, tscserr.NewFileError(file, err)
		}
		return res, nil
	}
	res, err := b.transpileRel(ctx, rel)
	if err != nil {
		return nil, tscserr.NewFileError(rel, err)
	}
	logDiagnostics(rel, res.Diagnostics)
	return res, nil
}

func logDiagnostics(rel string, diags []transpiler.Diagnostic) {
	for _, d := range diags {
		slog.Debug("diagnostic", "file", rel, "line", d.Line, "column", d.Column, "message", d.Message)
	}
}

// Workspace returns the builder's workspace.
func (b *Builder) Workspace() *Workspace {
	return b.workspace
}

// Config returns the builder's config.
func (b *Builder) Config() *Config {
	return b.config
}
