// Package generator prints C# compilation units.
package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
)

const indentUnit = "    "

type csCodeGenerator struct {
}

// NewCSharpCodeGenerator creates a new instance of CodeGenerator that generates C# code.
func NewCSharpCodeGenerator() transpiler.CodeGenerator {
	return &csCodeGenerator{}
}

// Generate implements the CodeGenerator interface.
func (g *csCodeGenerator) Generate(file *csast.File) (out string, err error) {
	if file == nil {
		return "", fmt.Errorf("nil compilation unit")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generating C#: %v", r)
		}
	}()

	p := &printer{}
	p.file(file)
	return p.sb.String(), nil
}

type printer struct {
	sb          bytes.Buffer
	indent      int
	atLineStart bool
}

func (p *printer) write(s string) {
	if s == "" {
		return
	}
	if p.atLineStart {
		p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
		p.atLineStart = false
	}
	p.sb.WriteString(s)
}

func (p *printer) newline() {
	p.sb.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) line(s string) {
	p.write(s)
	p.newline()
}

func (p *printer) blank() {
	p.sb.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) file(f *csast.File) {
	for _, h := range f.Header {
		p.line(strings.TrimRight("// "+h, " "))
	}
	if len(f.Header) > 0 {
		p.blank()
	}

	usings := SortUsings(f.Usings)
	for _, u := range usings {
		p.line("using " + u + ";")
	}
	if len(usings) > 0 {
		p.blank()
	}

	if f.Namespace != "" {
		p.line("namespace " + f.Namespace + ";")
		p.blank()
	}

	for i, d := range f.Decls {
		if i > 0 {
			p.blank()
		}
		p.decl(d)
	}
}

// SortUsings deduplicates namespaces and orders System namespaces first,
// then the rest alphabetically.
func SortUsings(usings []string) []string {
	seen := make(map[string]bool, len(usings))
	var out []string
	for _, u := range usings {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	isSystem := func(s string) bool { return s == "System" || strings.HasPrefix(s, "System.") }
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := isSystem(out[i]), isSystem(out[j])
		if si != sj {
			return si
		}
		return out[i] < out[j]
	})
	return out
}

func (p *printer) decl(d csast.Decl) {
	switch d := d.(type) {
	case *csast.TypeDecl:
		p.typeDecl(d)
	case *csast.EnumDecl:
		p.enumDecl(d)
	default:
		panic(fmt.Sprintf("unsupported declaration %T", d))
	}
}

func (p *printer) attributes(attrs []*csast.Attribute) {
	for _, a := range attrs {
		if len(a.Args) == 0 {
			p.line("[" + a.Name + "]")
			continue
		}
		p.write("[" + a.Name + "(")
		p.exprList(a.Args)
		p.line(")]")
	}
}

func modifiers(m csast.Modifiers) string {
	var parts []string
	if m.Access != "" {
		parts = append(parts, m.Access)
	}
	if m.Const {
		parts = append(parts, "const")
	}
	if m.Static {
		parts = append(parts, "static")
	}
	switch {
	case m.Abstract:
		parts = append(parts, "abstract")
	case m.Virtual:
		parts = append(parts, "virtual")
	case m.Override:
		parts = append(parts, "override")
	}
	if m.Sealed {
		parts = append(parts, "sealed")
	}
	if m.Readonly {
		parts = append(parts, "readonly")
	}
	if m.Async {
		parts = append(parts, "async")
	}
	if m.Partial {
		parts = append(parts, "partial")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func typeParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func (p *printer) typeDecl(d *csast.TypeDecl) {
	p.attributes(d.Attributes)
	p.write(modifiers(d.Modifiers) + d.Kind.String() + " " + d.Name + typeParams(d.TypeParams))
	if len(d.Bases) > 0 {
		bases := make([]string, len(d.Bases))
		for i, b := range d.Bases {
			bases[i] = b.String()
		}
		p.write(" : " + strings.Join(bases, ", "))
	}
	p.newline()
	p.line("{")
	p.indent++
	p.members(d.Members)
	p.indent--
	p.line("}")
}

func (p *printer) members(members []csast.Member) {
	for i, m := range members {
		if i > 0 && !(isCompact(members[i-1]) && isCompact(m)) {
			p.blank()
		}
		p.member(m)
	}
}

// isCompact reports whether a member prints on a single line; runs of
// compact members are not separated by blank lines.
func isCompact(m csast.Member) bool {
	switch m := m.(type) {
	case *csast.FieldDecl:
		return len(m.Attributes) == 0
	case *csast.PropertyDecl:
		return len(m.Attributes) == 0 && isAutoProperty(m)
	case *csast.MethodDecl:
		return m.Body == nil && len(m.Attributes) == 0
	case *csast.CommentMember:
		return true
	}
	return false
}

func isAutoProperty(m *csast.PropertyDecl) bool {
	if m.ExprBody != nil {
		return true
	}
	return (m.Getter == nil || m.Getter.Body == nil) && (m.Setter == nil || m.Setter.Body == nil)
}

func (p *printer) member(m csast.Member) {
	switch m := m.(type) {
	case *csast.FieldDecl:
		p.attributes(m.Attributes)
		p.write(modifiers(m.Modifiers) + m.Type.String() + " " + m.Name)
		if m.Init != nil {
			p.write(" = ")
			p.expr(m.Init, precAssign)
		}
		p.line(";")
	case *csast.PropertyDecl:
		p.property(m)
	case *csast.MethodDecl:
		p.method(m)
	case *csast.CtorDecl:
		p.ctor(m)
	case *csast.CommentMember:
		p.line("// " + m.Text)
	case *csast.TypeDecl:
		p.typeDecl(m)
	case *csast.EnumDecl:
		p.enumDecl(m)
	default:
		panic(fmt.Sprintf("unsupported member %T", m))
	}
}

func (p *printer) property(m *csast.PropertyDecl) {
	p.attributes(m.Attributes)
	p.write(modifiers(m.Modifiers) + m.Type.String() + " " + m.Name)
	if m.ExprBody != nil {
		p.write(" => ")
		p.expr(m.ExprBody, precAssign)
		p.line(";")
		return
	}

	if isAutoProperty(m) {
		p.write(" {")
		for _, acc := range []struct {
			kw string
			a  *csast.Accessor
		}{{"get", m.Getter}, {"set", m.Setter}} {
			if acc.a == nil {
				continue
			}
			p.write(" ")
			if acc.a.Access != "" {
				p.write(acc.a.Access + " ")
			}
			p.write(acc.kw + ";")
		}
		p.write(" }")
		if m.Init != nil {
			p.write(" = ")
			p.expr(m.Init, precAssign)
			p.write(";")
		}
		p.newline()
		return
	}

	p.newline()
	p.line("{")
	p.indent++
	for _, acc := range []struct {
		kw string
		a  *csast.Accessor
	}{{"get", m.Getter}, {"set", m.Setter}} {
		if acc.a == nil {
			continue
		}
		prefix := ""
		if acc.a.Access != "" {
			prefix = acc.a.Access + " "
		}
		if acc.a.Body == nil {
			p.line(prefix + acc.kw + ";")
			continue
		}
		p.line(prefix + acc.kw)
		p.block(acc.a.Body)
	}
	p.indent--
	p.line("}")
}

func (p *printer) params(params []*csast.Param) {
	for i, prm := range params {
		if i > 0 {
			p.write(", ")
		}
		if prm.Params {
			p.write("params ")
		}
		if prm.Type != nil {
			p.write(prm.Type.String() + " ")
		}
		p.write(prm.Name)
		if prm.Default != nil {
			p.write(" = ")
			p.expr(prm.Default, precAssign)
		}
	}
}

func (p *printer) method(m *csast.MethodDecl) {
	p.attributes(m.Attributes)
	p.write(modifiers(m.Modifiers) + m.Returns.String() + " " + m.Name + typeParams(m.TypeParams) + "(")
	p.params(m.Params)
	p.write(")")
	if m.Body == nil {
		p.line(";")
		return
	}
	p.newline()
	p.block(m.Body)
}

func (p *printer) ctor(c *csast.CtorDecl) {
	p.write(modifiers(c.Modifiers) + c.Name + "(")
	p.params(c.Params)
	p.write(")")
	if c.Initializer != nil {
		p.write(" : " + c.Initializer.Keyword + "(")
		p.exprList(c.Initializer.Args)
		p.write(")")
	}
	p.newline()
	body := c.Body
	if body == nil {
		body = &csast.Block{}
	}
	p.block(body)
}

func (p *printer) enumDecl(d *csast.EnumDecl) {
	p.attributes(d.Attributes)
	p.line(modifiers(d.Modifiers) + "enum " + d.Name)
	p.line("{")
	p.indent++
	for i, m := range d.Members {
		p.write(m.Name)
		if m.Value != nil {
			p.write(" = ")
			p.expr(m.Value, precAssign)
		}
		if i < len(d.Members)-1 {
			p.write(",")
		}
		p.newline()
	}
	p.indent--
	p.line("}")
}
