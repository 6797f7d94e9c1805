// Package transformer turns a TypeScript syntax tree into a C# compilation
// unit: declarations, members, statements and expressions, with union
// synthesis and type mapping delegated to the union and typemap packages.
package transformer

import (
	"path/filepath"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/infer"
	"martianoff/tscs/internal/transpiler/module"
	"martianoff/tscs/internal/transpiler/registry"
	"martianoff/tscs/internal/transpiler/typemap"
	"martianoff/tscs/internal/transpiler/union"
	"martianoff/tscs/internal/tsast"
)

// csTransformer holds the read-only configuration shared by every file.
// All per-file state lives in a fileTransformer created by Transform.
type csTransformer struct {
	opts    transpiler.Options
	cfg     *transpiler.TypeMappingConfig
	reg     *registry.Registry
	oracle  transpiler.TypeOracle
	modules *module.Resolver
}

// NewCSharpASTTransformer creates a new instance of ASTTransformer producing C#.
// A nil oracle selects the default inferer and a nil registry the global one.
func NewCSharpASTTransformer(opts transpiler.Options, oracle transpiler.TypeOracle, reg *registry.Registry) transpiler.ASTTransformer {
	if oracle == nil {
		oracle = infer.NewInferer()
	}
	if reg == nil {
		reg = registry.Global
	}
	if opts.UnionStrategy == "" {
		opts.UnionStrategy = transpiler.UnionClassHierarchy
	}
	return &csTransformer{
		opts:    opts,
		cfg:     opts.MappingConfig(),
		reg:     reg,
		oracle:  oracle,
		modules: module.NewResolver(opts.InputRoot, opts.NamespaceRoot),
	}
}

// Transform implements transpiler.ASTTransformer.
func (t *csTransformer) Transform(file *tsast.File, unit transpiler.Unit) (*csast.File, []transpiler.Diagnostic, error) {
	ft := newFileTransformer(t, file, unit)
	out, err := ft.run()
	if err != nil {
		return nil, ft.diags.All(), err
	}
	return out, ft.diags.All(), nil
}

// fileTransformer is the context of one file transformation. It is created
// fresh for every file and never shared.
type fileTransformer struct {
	*csTransformer

	file  *tsast.File
	unit  transpiler.Unit
	diags *transpiler.Diagnostics

	mapper   *typemap.Mapper
	analyzer *union.Analyzer

	aliases      map[string]tsast.Type
	enums        map[string]*tsast.EnumDecl
	stringEnums  map[string]bool
	interfaces   map[string]*tsast.InterfaceDecl
	classes      map[string]*classInfo
	unions       map[string]*unionInfo
	suppressed   map[string]bool
	declared     map[string]bool
	imported     map[string]bool
	moduleFuncs  map[string]*tsast.FunctionDecl
	moduleVars   map[string]tsast.Type
	moduleClass  string
	usings       map[string]bool
	hoisted      []csast.Decl
	hoistedShape map[string]string
	records      map[string]*tsast.ObjectOf

	currentScope *scope
	cls          *classInfo
	inModule     bool
	returnType   csast.Type
	tempCount    int
}

func newFileTransformer(t *csTransformer, file *tsast.File, unit transpiler.Unit) *fileTransformer {
	return &fileTransformer{
		csTransformer: t,
		file:          file,
		unit:          unit,
		diags:         transpiler.NewDiagnostics(),
		aliases:       make(map[string]tsast.Type),
		enums:         make(map[string]*tsast.EnumDecl),
		stringEnums:   make(map[string]bool),
		interfaces:    make(map[string]*tsast.InterfaceDecl),
		classes:       make(map[string]*classInfo),
		unions:        make(map[string]*unionInfo),
		suppressed:    make(map[string]bool),
		declared:      make(map[string]bool),
		imported:      make(map[string]bool),
		moduleFuncs:   make(map[string]*tsast.FunctionDecl),
		moduleVars:    make(map[string]tsast.Type),
		usings:        make(map[string]bool),
		hoistedShape:  make(map[string]string),
		records:       make(map[string]*tsast.ObjectOf),
	}
}

func (ft *fileTransformer) run() (*csast.File, error) {
	ft.pushScope() // module scope
	defer ft.popScope()

	if err := ft.collect(); err != nil {
		return nil, err
	}
	ft.prepareUnions()
	ft.mapper = typemap.NewMapper(ft.cfg, ft.reg).WithAliases(ft.aliases).WithEnums(ft.enumNames())

	out := &csast.File{Namespace: ft.unit.Namespace}
	if ft.opts.HeaderComment {
		out.Header = headerLines(ft.unit.Path)
	}

	mb := newModuleBuilder(ft)
	for _, d := range ft.file.Decls {
		decls, err := ft.transformTopLevelDeclaration(d, mb)
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, decls...)
	}
	if m := mb.build(); m != nil {
		out.Decls = append(out.Decls, m)
	}
	out.Decls = append(out.Decls, ft.hoisted...)

	for ns := range ft.usings {
		if ns != "" && ns != ft.unit.Namespace {
			out.Usings = append(out.Usings, ns)
		}
	}
	return out, nil
}

func headerLines(path string) []string {
	return []string{
		"<auto-generated>",
		"    Generated by tscs from " + filepath.Base(path) + ". Do not edit.",
		"</auto-generated>",
	}
}

func (ft *fileTransformer) warn(pos tsast.Pos, format string, args ...any) {
	ft.diags.Warn(pos, format, args...)
}

func (ft *fileTransformer) use(namespaces ...string) {
	for _, ns := range namespaces {
		if ns != "" {
			ft.usings[ns] = true
		}
	}
}

var _ transpiler.ASTTransformer = (*csTransformer)(nil)
