package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tscs/internal/tsast"
)

func (c *converter) file(path string, root *sitter.Node) *tsast.File {
	f := &tsast.File{Path: path}
	for _, n := range namedChildren(root) {
		f.Decls = append(f.Decls, c.topLevel(n, false, nil)...)
	}
	for _, d := range f.Decls {
		c.markExported(d)
	}
	return f
}

func (c *converter) topLevel(n *sitter.Node, exported bool, decorators []*tsast.Decorator) []tsast.Decl {
	switch n.Type() {
	case "import_statement":
		return []tsast.Decl{c.importDecl(n)}
	case "export_statement":
		return c.exportStatement(n)
	case "class_declaration", "abstract_class_declaration":
		return []tsast.Decl{c.classDecl(n, exported, decorators)}
	case "interface_declaration":
		return []tsast.Decl{c.interfaceDecl(n, exported)}
	case "enum_declaration":
		return []tsast.Decl{c.enumDecl(n, exported)}
	case "type_alias_declaration":
		return []tsast.Decl{&tsast.TypeAliasDecl{
			Pos:        pos(n),
			Name:       c.text(n.ChildByFieldName("name")),
			TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
			Type:       c.typ(n.ChildByFieldName("value")),
			Exported:   exported,
		}}
	case "function_declaration", "function_signature":
		return []tsast.Decl{c.functionDecl(n, exported)}
	case "ambient_declaration", "module", "internal_module", "import_alias", "generator_function_declaration":
		return []tsast.Decl{c.unmodeledDecl(n)}
	case "expression_statement":
		// `namespace X { }` parses as an expression statement.
		if x := firstNamed(n); x != nil && x.Type() == "internal_module" {
			return []tsast.Decl{c.unmodeledDecl(n)}
		}
	}
	return []tsast.Decl{&tsast.StmtDecl{Pos: pos(n), Stmt: c.stmt(n), Exported: exported}}
}

func (c *converter) unmodeledDecl(n *sitter.Node) *tsast.UnmodeledDecl {
	return &tsast.UnmodeledDecl{Pos: pos(n), Kind: n.Type(), Text: c.text(n)}
}

func (c *converter) exportStatement(n *sitter.Node) []tsast.Decl {
	var decorators []*tsast.Decorator
	for _, ch := range namedChildren(n) {
		if ch.Type() == "decorator" {
			decorators = append(decorators, c.decorator(ch))
		}
	}
	if d := n.ChildByFieldName("declaration"); d != nil {
		return c.topLevel(d, true, decorators)
	}

	if n.ChildByFieldName("source") == nil {
		for _, ch := range namedChildren(n) {
			if ch.Type() != "export_clause" {
				continue
			}
			for _, spec := range namedChildren(ch) {
				if name := spec.ChildByFieldName("name"); name != nil {
					c.exports[c.text(name)] = true
				}
			}
			return nil
		}
	}
	// export default <expr>, export * from, export { x } from
	return []tsast.Decl{c.unmodeledDecl(n)}
}

// markExported applies `export { a, b }` clauses to the declarations they name.
func (c *converter) markExported(d tsast.Decl) {
	if len(c.exports) == 0 {
		return
	}
	switch d := d.(type) {
	case *tsast.ClassDecl:
		d.Exported = d.Exported || c.exports[d.Name]
	case *tsast.InterfaceDecl:
		d.Exported = d.Exported || c.exports[d.Name]
	case *tsast.EnumDecl:
		d.Exported = d.Exported || c.exports[d.Name]
	case *tsast.TypeAliasDecl:
		d.Exported = d.Exported || c.exports[d.Name]
	case *tsast.FunctionDecl:
		d.Exported = d.Exported || c.exports[d.Name]
	case *tsast.StmtDecl:
		if v, ok := d.Stmt.(*tsast.VarStmt); ok {
			for _, decl := range v.Decls {
				if c.exports[decl.Name] {
					d.Exported = true
				}
			}
		}
	}
}

func (c *converter) importDecl(n *sitter.Node) *tsast.ImportDecl {
	d := &tsast.ImportDecl{Pos: pos(n)}
	if s := n.ChildByFieldName("source"); s != nil {
		d.Module = c.stringValue(s)
	}
	for _, ch := range children(n) {
		switch ch.Type() {
		case "type":
			d.TypeOnly = true
		case "string":
			if d.Module == "" {
				d.Module = c.stringValue(ch)
			}
		case "import_clause":
			c.importClause(ch, d)
		case "import_require_clause":
			for _, gc := range namedChildren(ch) {
				switch gc.Type() {
				case "identifier":
					d.Default = c.text(gc)
				case "string":
					d.Module = c.stringValue(gc)
				}
			}
		}
	}
	return d
}

func (c *converter) importClause(n *sitter.Node, d *tsast.ImportDecl) {
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "identifier":
			d.Default = c.text(ch)
		case "namespace_import":
			if id := firstNamed(ch); id != nil {
				d.Namespace = c.text(id)
			}
		case "named_imports":
			for _, spec := range namedChildren(ch) {
				if spec.Type() != "import_specifier" {
					continue
				}
				d.Named = append(d.Named, tsast.ImportSpec{
					Name:  c.nameOf(spec.ChildByFieldName("name")),
					Alias: c.text(spec.ChildByFieldName("alias")),
				})
			}
		}
	}
}

func (c *converter) nameOf(n *sitter.Node) string {
	if n != nil && n.Type() == "string" {
		return c.stringValue(n)
	}
	return c.text(n)
}

func (c *converter) decorator(n *sitter.Node) *tsast.Decorator {
	d := &tsast.Decorator{Pos: pos(n)}
	x := firstNamed(n)
	if x == nil {
		return d
	}
	if x.Type() == "call_expression" {
		d.Name = c.text(x.ChildByFieldName("function"))
		d.Args = c.args(x.ChildByFieldName("arguments"))
		return d
	}
	d.Name = c.text(x)
	return d
}

func (c *converter) typeParams(n *sitter.Node) []*tsast.TypeParam {
	var out []*tsast.TypeParam
	for _, p := range namedChildren(n) {
		if p.Type() != "type_parameter" {
			continue
		}
		tp := &tsast.TypeParam{Pos: pos(p), Name: c.text(p.ChildByFieldName("name"))}
		if cons := p.ChildByFieldName("constraint"); cons != nil {
			tp.Constraint = c.typ(firstNamed(cons))
		}
		if def := p.ChildByFieldName("value"); def != nil {
			tp.Default = c.typ(firstNamed(def))
		}
		out = append(out, tp)
	}
	return out
}

func (c *converter) functionDecl(n *sitter.Node, exported bool) *tsast.FunctionDecl {
	return &tsast.FunctionDecl{
		Pos:        pos(n),
		Name:       c.text(n.ChildByFieldName("name")),
		TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
		Params:     c.params(n.ChildByFieldName("parameters")),
		Returns:    c.returnType(n.ChildByFieldName("return_type")),
		Body:       c.block(n.ChildByFieldName("body")),
		Async:      hasToken(n, "async"),
		Exported:   exported,
	}
}

func (c *converter) params(n *sitter.Node) []*tsast.Param {
	var out []*tsast.Param
	for _, p := range namedChildren(n) {
		switch p.Type() {
		case "required_parameter", "optional_parameter":
			if prm := c.param(p); prm.Name != "this" {
				out = append(out, prm)
			}
		}
	}
	return out
}

func (c *converter) param(n *sitter.Node) *tsast.Param {
	p := &tsast.Param{Pos: pos(n), Optional: n.Type() == "optional_parameter"}
	pattern := n.ChildByFieldName("pattern")
	if pattern != nil && pattern.Type() == "rest_pattern" {
		p.Rest = true
		pattern = firstNamed(pattern)
	}
	// Destructuring patterns keep their source text as the name.
	p.Name = c.text(pattern)
	p.Type = c.typeAnnotation(n.ChildByFieldName("type"))
	if v := n.ChildByFieldName("value"); v != nil {
		p.Default = c.expr(v)
	}
	for _, ch := range children(n) {
		switch ch.Type() {
		case "accessibility_modifier":
			p.Access = access(c.text(ch))
		case "readonly":
			p.Readonly = true
		}
	}
	return p
}

func access(s string) tsast.Access {
	switch s {
	case "public":
		return tsast.AccessPublic
	case "protected":
		return tsast.AccessProtected
	case "private":
		return tsast.AccessPrivate
	}
	return tsast.AccessDefault
}

func (c *converter) interfaceDecl(n *sitter.Node, exported bool) *tsast.InterfaceDecl {
	d := &tsast.InterfaceDecl{
		Pos:        pos(n),
		Name:       c.text(n.ChildByFieldName("name")),
		TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
		Exported:   exported,
	}
	for _, ch := range namedChildren(n) {
		if ch.Type() == "extends_type_clause" {
			for _, t := range namedChildren(ch) {
				d.Extends = append(d.Extends, c.typ(t))
			}
		}
	}
	d.Properties, d.Methods = c.signatures(n.ChildByFieldName("body"))
	return d
}

// signatures reads the members of an interface body or object type.
// Call, construct and index signatures are not modeled and are skipped.
func (c *converter) signatures(body *sitter.Node) ([]*tsast.PropertySig, []*tsast.MethodSig) {
	var (
		props   []*tsast.PropertySig
		methods []*tsast.MethodSig
	)
	for _, m := range namedChildren(body) {
		switch m.Type() {
		case "property_signature":
			f := c.flags(m)
			t := c.typeAnnotation(m.ChildByFieldName("type"))
			if t == nil {
				t = &tsast.Primitive{Pos: pos(m), Name: "any"}
			}
			props = append(props, &tsast.PropertySig{
				Pos:      pos(m),
				Name:     c.propertyName(m.ChildByFieldName("name")),
				Type:     t,
				Optional: f.optional,
				Readonly: f.mods.Readonly,
			})
		case "method_signature":
			methods = append(methods, &tsast.MethodSig{
				Pos:        pos(m),
				Name:       c.propertyName(m.ChildByFieldName("name")),
				TypeParams: c.typeParams(m.ChildByFieldName("type_parameters")),
				Params:     c.params(m.ChildByFieldName("parameters")),
				Returns:    c.returnType(m.ChildByFieldName("return_type")),
				Optional:   c.flags(m).optional,
			})
		}
	}
	return props, methods
}

func (c *converter) enumDecl(n *sitter.Node, exported bool) *tsast.EnumDecl {
	d := &tsast.EnumDecl{
		Pos:      pos(n),
		Name:     c.text(n.ChildByFieldName("name")),
		Const:    hasToken(n, "const"),
		Exported: exported,
	}
	for _, m := range namedChildren(n.ChildByFieldName("body")) {
		switch m.Type() {
		case "enum_assignment":
			d.Members = append(d.Members, &tsast.EnumMember{
				Pos:  pos(m),
				Name: c.propertyName(m.ChildByFieldName("name")),
				Init: c.expr(m.ChildByFieldName("value")),
			})
		default:
			d.Members = append(d.Members, &tsast.EnumMember{Pos: pos(m), Name: c.propertyName(m)})
		}
	}
	return d
}

// propertyName returns the name of a property key. String keys are
// decoded; computed keys keep their bracketed text.
func (c *converter) propertyName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	if n.Type() == "string" {
		return c.stringValue(n)
	}
	return c.text(n)
}
