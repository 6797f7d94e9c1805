package transformer

import (
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

// moduleBuilder accumulates the top-level functions, variables and statements
// of a file into one static class. Statements run from its static constructor.
type moduleBuilder struct {
	ft      *fileTransformer
	members []csast.Member
	init    []csast.Stmt
}

func newModuleBuilder(ft *fileTransformer) *moduleBuilder {
	return &moduleBuilder{ft: ft}
}

func exportedAccess(exported bool) string {
	if exported {
		return "public"
	}
	return "internal"
}

// moduleMemberName spells a top-level function or variable. SCREAMING_CASE
// constants become PascalCase words.
func moduleMemberName(name string) string {
	if isScreaming(name) {
		if n := naming.TypeName(name); naming.IsValidIdentifier(n) {
			return n
		}
	}
	return naming.PascalCase(name)
}

func (mb *moduleBuilder) enter() func() {
	ft := mb.ft
	prev := ft.inModule
	ft.inModule = true
	ft.pushScope()
	return func() {
		ft.popScope()
		ft.inModule = prev
	}
}

func (mb *moduleBuilder) addFunction(d *tsast.FunctionDecl) {
	if d.Body == nil {
		// Overload signature; the implementation carries the body.
		return
	}
	ft := mb.ft
	defer mb.enter()()

	params := ft.transformParams(d.Params)
	returns := ft.methodReturnType(d.Pos, "function "+d.Name, d.Params, d.Returns, d.Body, d.Async)
	mb.members = append(mb.members, &csast.MethodDecl{
		Modifiers:  csast.Modifiers{Access: exportedAccess(d.Exported), Static: true, Async: d.Async},
		Returns:    returns,
		Name:       moduleMemberName(d.Name),
		TypeParams: ft.typeParams(d.TypeParams),
		Params:     params,
		Body:       ft.functionBody(d.Body, returns, d.Async),
	})
}

func (mb *moduleBuilder) addStatement(d *tsast.StmtDecl) {
	ft := mb.ft
	defer mb.enter()()

	vs, ok := d.Stmt.(*tsast.VarStmt)
	if !ok {
		prev := ft.returnType
		ft.returnType = csast.Void
		mb.init = append(mb.init, ft.transformStmt(d.Stmt)...)
		ft.returnType = prev
		return
	}

	for _, v := range vs.Decls {
		typ := ft.declaredType(v.Pos, "variable", v.Name, v.Type, v.Init)
		mods := csast.Modifiers{Access: exportedAccess(d.Exported), Static: true}
		if vs.Kind == tsast.VarConst {
			if isLiteral(v.Init) && isPrimitive(typ) {
				mods = csast.Modifiers{Access: mods.Access, Const: true}
			} else {
				mods.Readonly = true
			}
		}
		field := &csast.FieldDecl{Modifiers: mods, Type: typ, Name: moduleMemberName(v.Name)}
		if v.Init != nil {
			field.Init = ft.transformExpr(v.Init, typ)
		}
		mb.members = append(mb.members, field)
	}
}

func (mb *moduleBuilder) comment(text string) {
	mb.members = append(mb.members, &csast.CommentMember{Text: text})
}

// build returns the module class, or nil when the file has no top-level code.
func (mb *moduleBuilder) build() csast.Decl {
	if len(mb.members) == 0 && len(mb.init) == 0 {
		return nil
	}
	td := &csast.TypeDecl{
		Modifiers: csast.Modifiers{Access: "public", Static: true, Partial: true},
		Kind:      csast.KindClass,
		Name:      mb.ft.moduleClass,
		Members:   mb.members,
	}
	if len(mb.init) > 0 {
		td.Members = append(td.Members, &csast.CtorDecl{
			Modifiers: csast.Modifiers{Static: true},
			Name:      mb.ft.moduleClass,
			Body:      &csast.Block{Stmts: mb.init},
		})
	}
	return td
}

func isLiteral(e tsast.Expr) bool {
	switch e := e.(type) {
	case *tsast.NumberLit, *tsast.StringLit, *tsast.BoolLit:
		return true
	case *tsast.Unary:
		_, ok := e.X.(*tsast.NumberLit)
		return ok && (e.Op == "-" || e.Op == "+")
	}
	return false
}

func isPrimitive(t csast.Type) bool {
	b, ok := t.(csast.BasicType)
	if !ok {
		return false
	}
	switch b.Name {
	case "object", "void":
		return false
	}
	return true
}
