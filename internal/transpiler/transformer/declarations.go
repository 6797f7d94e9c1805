package transformer

import (
	"fmt"
	"strings"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
	"martianoff/tscs/tscserr"
)

// collect records every top-level name before any declaration is emitted, so
// that references resolve regardless of declaration order.
func (ft *fileTransformer) collect() error {
	claim := func(name string, pos tsast.Pos) error {
		if name == "" {
			return nil
		}
		if ft.declared[name] {
			return tscserr.NewSemanticErrorInFile(ft.unit.Path, pos.Line, pos.Column,
				fmt.Sprintf("duplicate type declaration %s", name))
		}
		ft.declared[name] = true
		return nil
	}

	for _, d := range ft.file.Decls {
		switch d := d.(type) {
		case *tsast.ImportDecl:
			ft.recordImport(d)
		case *tsast.ClassDecl:
			if err := claim(d.Name, d.Pos); err != nil {
				return err
			}
			ft.classes[d.Name] = newClassInfo(ft, d)
		case *tsast.InterfaceDecl:
			if err := claim(d.Name, d.Pos); err != nil {
				return err
			}
			ft.interfaces[d.Name] = d
		case *tsast.EnumDecl:
			if err := claim(d.Name, d.Pos); err != nil {
				return err
			}
			ft.enums[d.Name] = d
			if isStringEnum(d) {
				// String enums become constant classes; values are plain strings.
				ft.stringEnums[d.Name] = true
				ft.aliases[d.Name] = &tsast.Primitive{Pos: d.Pos, Name: "string"}
				for _, m := range d.Members {
					ft.aliases[d.Name+"."+m.Name] = &tsast.Primitive{Pos: m.Pos, Name: "string"}
				}
			}
		case *tsast.TypeAliasDecl:
			if err := claim(d.Name, d.Pos); err != nil {
				return err
			}
		case *tsast.FunctionDecl:
			ft.moduleFuncs[d.Name] = d
		case *tsast.StmtDecl:
			if vs, ok := d.Stmt.(*tsast.VarStmt); ok {
				for _, v := range vs.Decls {
					t := v.Type
					if t == nil && v.Init != nil {
						t = ft.typeOfExpr(v.Init)
					}
					ft.moduleVars[v.Name] = t
				}
			}
		}
	}

	ft.moduleClass = ft.unit.ModuleClass
	if ft.moduleClass == "" {
		ft.moduleClass = "Module"
	}
	if ft.declared[ft.moduleClass] {
		ft.moduleClass += "Module"
	}
	return nil
}

func isStringEnum(d *tsast.EnumDecl) bool {
	for _, m := range d.Members {
		switch m.Init.(type) {
		case *tsast.StringLit, *tsast.TemplateLit:
			return true
		}
	}
	return false
}

func (ft *fileTransformer) enumNames() map[string]bool {
	names := make(map[string]bool, len(ft.enums))
	for name := range ft.enums {
		if !ft.stringEnums[name] {
			names[name] = true
		}
	}
	return names
}

func (ft *fileTransformer) transformTopLevelDeclaration(d tsast.Decl, mb *moduleBuilder) ([]csast.Decl, error) {
	switch d := d.(type) {
	case *tsast.ImportDecl:
		ft.transformImport(d)
		return nil, nil
	case *tsast.ClassDecl:
		if d.Name == "" {
			ft.warn(d.Pos, "anonymous class declaration is not supported; omitted")
			return nil, nil
		}
		return []csast.Decl{ft.transformClass(d)}, nil
	case *tsast.InterfaceDecl:
		if ft.suppressed[d.Name] {
			return nil, nil
		}
		return []csast.Decl{ft.transformInterface(d)}, nil
	case *tsast.EnumDecl:
		return []csast.Decl{ft.transformEnum(d)}, nil
	case *tsast.TypeAliasDecl:
		return ft.transformTypeAlias(d), nil
	case *tsast.FunctionDecl:
		mb.addFunction(d)
		return nil, nil
	case *tsast.StmtDecl:
		mb.addStatement(d)
		return nil, nil
	case *tsast.UnmodeledDecl:
		ft.warn(d.Pos, "unsupported top-level %s; omitted", d.Kind)
		mb.comment("unsupported: " + firstLine(d.Text))
		return nil, nil
	}
	return nil, tscserr.NewSemanticError(fmt.Sprintf("unexpected declaration %T", d))
}

func (ft *fileTransformer) attributes(decorators []*tsast.Decorator) []*csast.Attribute {
	var out []*csast.Attribute
	for _, d := range decorators {
		name, ok := ft.reg.Attribute(d.Name)
		if ok {
			ft.use(ft.reg.AttributeNamespace())
		} else {
			name = naming.PascalCase(d.Name)
		}
		attr := &csast.Attribute{Name: name}
		for _, a := range d.Args {
			attr.Args = append(attr.Args, ft.transformExpr(a, nil))
		}
		out = append(out, attr)
	}
	return out
}

func (ft *fileTransformer) typeParams(params []*tsast.TypeParam) []string {
	var out []string
	for _, p := range params {
		if p.Constraint != nil {
			ft.warn(p.Pos, "constraint on type parameter %s is not translated", p.Name)
		}
		out = append(out, p.Name)
	}
	return out
}

func (ft *fileTransformer) transformInterface(d *tsast.InterfaceDecl) csast.Decl {
	td := &csast.TypeDecl{
		Modifiers:  csast.Modifiers{Access: "public", Partial: true},
		Kind:       csast.KindInterface,
		Name:       d.Name,
		TypeParams: ft.typeParams(d.TypeParams),
	}
	for _, e := range d.Extends {
		td.Bases = append(td.Bases, ft.mapType(e, ""))
	}
	for _, p := range d.Properties {
		typ := ft.mapType(p.Type, p.Name)
		if p.Optional {
			typ = csast.Nullable(typ)
		}
		prop := &csast.PropertyDecl{Type: typ, Name: naming.PascalCase(p.Name), Getter: &csast.Accessor{}}
		if !p.Readonly {
			prop.Setter = &csast.Accessor{}
		}
		td.Members = append(td.Members, prop)
	}
	for _, m := range d.Methods {
		ft.pushScope()
		td.Members = append(td.Members, &csast.MethodDecl{
			Returns:    ft.signatureReturnType(m.Returns),
			Name:       naming.PascalCase(m.Name),
			TypeParams: ft.typeParams(m.TypeParams),
			Params:     ft.transformParams(m.Params),
		})
		ft.popScope()
	}
	return td
}

func (ft *fileTransformer) transformEnum(d *tsast.EnumDecl) csast.Decl {
	if ft.stringEnums[d.Name] {
		cls := &csast.TypeDecl{
			Modifiers: csast.Modifiers{Access: "public", Static: true},
			Kind:      csast.KindClass,
			Name:      d.Name,
		}
		for _, m := range d.Members {
			typ := csast.Type(csast.String)
			if _, ok := m.Init.(*tsast.NumberLit); ok {
				typ = ft.numberType()
			}
			var init csast.Expr = &csast.StringLit{Value: m.Name}
			if m.Init != nil {
				init = ft.transformExpr(m.Init, typ)
			}
			cls.Members = append(cls.Members, &csast.FieldDecl{
				Modifiers: csast.Modifiers{Access: "public", Const: true},
				Type:      typ,
				Name:      naming.EscapeKeyword(m.Name),
				Init:      init,
			})
		}
		return cls
	}

	enum := &csast.EnumDecl{Modifiers: csast.Modifiers{Access: "public"}, Name: d.Name}
	for _, m := range d.Members {
		em := &csast.EnumMember{Name: naming.EscapeKeyword(m.Name)}
		if m.Init != nil {
			em.Value = ft.transformEnumInit(m.Init)
		}
		enum.Members = append(enum.Members, em)
	}
	return enum
}

// transformEnumInit keeps integral initializers; C# enums cannot hold fractions.
func (ft *fileTransformer) transformEnumInit(e tsast.Expr) csast.Expr {
	if n, ok := e.(*tsast.NumberLit); ok {
		if strings.ContainsAny(n.Text, ".eE") && !isHex(n.Text) {
			ft.warn(n.Pos, "fractional enum value %s is truncated", n.Text)
			return &csast.Cast{Type: csast.BasicType{Name: "int"}, X: &csast.Literal{Text: n.Text}}
		}
		return &csast.Literal{Text: strings.ReplaceAll(n.Text, "_", "")}
	}
	return ft.transformExpr(e, nil)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]) + " ..."
	}
	return s
}
