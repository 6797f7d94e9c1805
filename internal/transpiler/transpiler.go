package transpiler

import (
	"context"
	"path/filepath"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

// Parser turns TypeScript source text into a syntax tree.
type Parser interface {
	Parse(ctx context.Context, path string, src []byte) (*tsast.File, error)
}

// TypeOracle infers source types where the source omits an annotation.
type TypeOracle interface {
	// TypeOfExpr infers the type of e. lookup resolves identifiers visible at e
	// and returns nil for unknown names. The result is never nil.
	TypeOfExpr(e tsast.Expr, lookup func(name string) tsast.Type) tsast.Type
}

// Unit carries the per-file facts derived from the file path.
type Unit struct {
	Path string
	// Namespace is the dot-joined namespace of the file, empty at the root.
	Namespace string
	// ModuleClass names the static class holding top-level functions and variables.
	ModuleClass string
}

// ASTTransformer transforms a TypeScript syntax tree into a C# compilation unit.
// Implementations must keep all per-file state inside a single Transform call.
type ASTTransformer interface {
	Transform(file *tsast.File, unit Unit) (*csast.File, []Diagnostic, error)
}

// CodeGenerator prints a C# compilation unit.
type CodeGenerator interface {
	Generate(file *csast.File) (string, error)
}

// Transpiler defines the high-level interface for the TypeScript to C# conversion.
type Transpiler interface {
	Transpile(ctx context.Context, path string, src []byte) (*Result, error)
}

// Result is the output of one file.
type Result struct {
	Path        string
	Code        string
	Diagnostics []Diagnostic
}

// TsToCsTranspiler orchestrates the transpilation process.
type TsToCsTranspiler struct {
	parser      Parser
	transformer ASTTransformer
	generator   CodeGenerator
	opts        Options
}

// NewTsToCsTranspiler creates a new instance of TsToCsTranspiler with its dependencies.
func NewTsToCsTranspiler(
	parser Parser,
	transformer ASTTransformer,
	generator CodeGenerator,
	opts Options,
) *TsToCsTranspiler {
	return &TsToCsTranspiler{
		parser:      parser,
		transformer: transformer,
		generator:   generator,
		opts:        opts,
	}
}

// Transpile executes the full transpilation pipeline for one file.
func (t *TsToCsTranspiler) Transpile(ctx context.Context, path string, src []byte) (*Result, error) {
	file, err := t.parser.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	out, diags, err := t.transformer.Transform(file, t.UnitFor(path))
	if err != nil {
		return nil, err
	}

	code, err := t.generator.Generate(out)
	if err != nil {
		return nil, err
	}
	return &Result{Path: path, Code: code, Diagnostics: diags}, nil
}

// UnitFor derives the namespace and module class of path.
func (t *TsToCsTranspiler) UnitFor(path string) Unit {
	return UnitFor(path, t.opts.InputRoot, t.opts.NamespaceRoot)
}

// UnitFor derives the namespace of path relative to inputRoot, prefixed by namespaceRoot.
func UnitFor(path, inputRoot, namespaceRoot string) Unit {
	rel := path
	if inputRoot != "" {
		if r, err := filepath.Rel(inputRoot, path); err == nil && !isOutside(r) {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	return Unit{
		Path:        path,
		Namespace:   naming.JoinNamespace(namespaceRoot, naming.NamespaceFromPath(rel)),
		ModuleClass: naming.ClassNameFromFile(rel),
	}
}

func isOutside(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

var _ Transpiler = (*TsToCsTranspiler)(nil)
