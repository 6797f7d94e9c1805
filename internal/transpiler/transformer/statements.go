package transformer

import (
	"strings"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/tsast"
)

var exceptionType = csast.NamedType{Namespace: "System", Name: "Exception"}

func (ft *fileTransformer) transformBlock(b *tsast.Block) *csast.Block {
	ft.pushScope()
	defer ft.popScope()
	out := &csast.Block{}
	if b == nil {
		return out
	}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, ft.transformStmt(s)...)
	}
	return out
}

// transformBody transforms a loop or branch body, which C# always prints braced.
func (ft *fileTransformer) transformBody(s tsast.Stmt) *csast.Block {
	if b, ok := s.(*tsast.Block); ok {
		return ft.transformBlock(b)
	}
	ft.pushScope()
	defer ft.popScope()
	return &csast.Block{Stmts: ft.transformStmt(s)}
}

// transformStmt lowers one statement. A statement may expand into several
// (a multi-variable declaration) or none (an empty statement).
func (ft *fileTransformer) transformStmt(s tsast.Stmt) []csast.Stmt {
	switch s := s.(type) {
	case *tsast.Block:
		return []csast.Stmt{ft.transformBlock(s)}
	case *tsast.ExprStmt:
		return []csast.Stmt{&csast.ExprStmt{X: ft.transformExpr(s.X, nil)}}
	case *tsast.VarStmt:
		var out []csast.Stmt
		for _, v := range s.Decls {
			out = append(out, ft.localDecl(v, false))
		}
		return out
	case *tsast.If:
		return []csast.Stmt{ft.transformIf(s)}
	case *tsast.For:
		return []csast.Stmt{ft.transformFor(s)}
	case *tsast.ForOf:
		return []csast.Stmt{ft.transformForOf(s)}
	case *tsast.ForIn:
		return []csast.Stmt{ft.transformForIn(s)}
	case *tsast.While:
		return []csast.Stmt{&csast.While{Cond: ft.condition(s.Cond), Body: ft.transformBody(s.Body)}}
	case *tsast.DoWhile:
		body := ft.transformBody(s.Body)
		return []csast.Stmt{&csast.DoWhile{Body: body, Cond: ft.condition(s.Cond)}}
	case *tsast.Return:
		return ft.transformReturn(s)
	case *tsast.Break:
		if s.Label != "" {
			ft.warn(s.Pos, "label %s dropped from break", s.Label)
		}
		return []csast.Stmt{&csast.Break{}}
	case *tsast.Continue:
		if s.Label != "" {
			ft.warn(s.Pos, "label %s dropped from continue", s.Label)
		}
		return []csast.Stmt{&csast.Continue{}}
	case *tsast.Throw:
		return []csast.Stmt{&csast.Throw{X: ft.thrown(s.X)}}
	case *tsast.Try:
		return []csast.Stmt{ft.transformTry(s)}
	case *tsast.Switch:
		return []csast.Stmt{ft.transformSwitch(s)}
	case *tsast.FuncStmt:
		return []csast.Stmt{ft.localFunc(s.Func)}
	case *tsast.Empty:
		return nil
	case *tsast.UnmodeledStmt:
		ft.warn(s.Pos, "unsupported %s statement passed through as text", s.Kind)
		return []csast.Stmt{&csast.RawStmt{Text: renormalize(s.Text)}}
	}
	return nil
}

// localDecl declares a local variable. Annotated locals keep their mapped
// type. Numeric initializers get the configured number type explicitly so
// C# does not infer int. Initializers C# cannot type on its own (null,
// lambdas, collection and object literals) get the inferred type and a
// warning. Everything else uses var.
func (ft *fileTransformer) localDecl(v *tsast.VarDeclarator, loopInit bool) *csast.LocalDecl {
	src := v.Type
	var typ, known csast.Type
	switch {
	case v.Type != nil:
		typ = ft.mapType(v.Type, v.Name)
		known = typ
	case v.Init == nil:
		ft.warn(v.Pos, "variable %s has no type annotation or initializer; using object", v.Name)
		typ = csast.Object
		known = typ
	default:
		src = ft.typeOfExpr(v.Init)
		switch {
		case loopInit && isIntegerLiteral(v.Init):
			typ = csast.BasicType{Name: "int"}
			known = typ
		case isNumber(src):
			typ = ft.numberType()
			known = typ
		case isNullableNumber(src):
			typ = csast.Nullable(ft.numberType())
			known = typ
		case needsExplicitType(v.Init):
			typ = ft.inferredType(v.Pos, "variable", v.Name, src)
			known = typ
		default:
			known = ft.mapType(src, v.Name)
		}
	}

	decl := &csast.LocalDecl{Type: typ}
	if v.Init != nil {
		decl.Init = ft.transformExpr(v.Init, known)
	}
	decl.Name = ft.addLocal(v.Name, src, known)
	return decl
}

// isNullableNumber reports whether t is a union of numbers with null or undefined.
func isNullableNumber(t tsast.Type) bool {
	u, ok := t.(*tsast.UnionOf)
	if !ok {
		return false
	}
	var numbers, nullish int
	for _, m := range u.Members {
		switch {
		case tsast.IsNullish(m):
			nullish++
		case isNumber(m):
			numbers++
		default:
			return false
		}
	}
	return numbers > 0 && nullish > 0
}

func isNumber(t tsast.Type) bool {
	switch t := t.(type) {
	case *tsast.Primitive:
		return t.Name == "number"
	case *tsast.LiteralOf:
		return t.Value.Kind == tsast.LitNumber
	}
	return false
}

func isIntegerLiteral(e tsast.Expr) bool {
	n, ok := e.(*tsast.NumberLit)
	if !ok {
		return false
	}
	return isHex(n.Text) || !strings.ContainsAny(n.Text, ".eE")
}

func needsExplicitType(e tsast.Expr) bool {
	switch e := e.(type) {
	case *tsast.NullLit, *tsast.UndefinedLit, *tsast.Arrow, *tsast.FuncExpr, *tsast.ArrayLit, *tsast.ObjectLit:
		return true
	case *tsast.Ident:
		return e.Name == "undefined"
	case *tsast.Paren:
		return needsExplicitType(e.X)
	}
	return false
}

func (ft *fileTransformer) transformIf(s *tsast.If) *csast.If {
	out := &csast.If{Cond: ft.condition(s.Cond), Then: ft.transformBody(s.Then)}
	switch e := s.Else.(type) {
	case nil:
	case *tsast.If:
		out.Else = ft.transformIf(e)
	default:
		out.Else = ft.transformBody(e)
	}
	return out
}

func (ft *fileTransformer) transformFor(s *tsast.For) *csast.For {
	ft.pushScope()
	defer ft.popScope()

	out := &csast.For{}
	switch init := s.Init.(type) {
	case nil:
	case *tsast.VarStmt:
		if len(init.Decls) > 0 {
			out.Init = ft.localDecl(init.Decls[0], true)
		}
		if len(init.Decls) > 1 {
			ft.warn(init.Pos, "only the first declaration of a for initializer is kept")
		}
	case *tsast.ExprStmt:
		out.Init = &csast.ExprStmt{X: ft.transformExpr(init.X, nil)}
	default:
		ft.warn(s.Pos, "unsupported for initializer dropped")
	}
	if s.Cond != nil {
		out.Cond = ft.condition(s.Cond)
	}
	if s.Update != nil {
		out.Updates = []csast.Expr{ft.transformExpr(s.Update, nil)}
	}
	out.Body = ft.transformBody(s.Body)
	return out
}

func (ft *fileTransformer) transformForOf(s *tsast.ForOf) *csast.Foreach {
	ft.pushScope()
	defer ft.popScope()

	x := ft.transformExpr(s.X, nil)
	var src tsast.Type
	switch t := ft.typeOfExpr(s.X).(type) {
	case *tsast.ArrayOf:
		src = t.Elem
	case *tsast.Primitive:
		if t.Name == "string" {
			src = t
		}
	}
	elem, _ := csast.ElementType(ft.csTypeOfExpr(s.X))
	if elem == nil && src != nil {
		elem = ft.mapper.Map(src)
	}
	name := ft.addLocal(s.Name, src, elem)
	return &csast.Foreach{Name: name, X: x, Body: ft.transformBody(s.Body)}
}

func (ft *fileTransformer) transformForIn(s *tsast.ForIn) *csast.Foreach {
	ft.pushScope()
	defer ft.popScope()

	ft.warn(s.Pos, "for...in over %s iterates dictionary keys", describeExpr(s.X))
	x := &csast.Selector{X: ft.transformExpr(s.X, nil), Name: "Keys"}
	name := ft.addLocal(s.Name, &tsast.Primitive{Name: "string"}, csast.String)
	return &csast.Foreach{Name: name, X: x, Body: ft.transformBody(s.Body)}
}

func (ft *fileTransformer) transformReturn(s *tsast.Return) []csast.Stmt {
	if s.X == nil {
		return []csast.Stmt{&csast.Return{}}
	}
	if ft.returnType != nil && csast.IsVoid(ft.returnType) {
		// A void function may still return the value of a call.
		return []csast.Stmt{&csast.ExprStmt{X: ft.transformExpr(s.X, nil)}, &csast.Return{}}
	}
	return []csast.Stmt{&csast.Return{X: ft.transformExpr(s.X, ft.returnType)}}
}

// thrown wraps thrown strings into exceptions; C# can only throw Exception values.
func (ft *fileTransformer) thrown(e tsast.Expr) csast.Expr {
	x := ft.transformExpr(e, nil)
	switch e.(type) {
	case *tsast.StringLit, *tsast.TemplateLit:
		ft.use(exceptionType.Namespace)
		return &csast.New{Type: exceptionType, Args: []csast.Expr{x}}
	}
	if p, ok := ft.typeOfExpr(e).(*tsast.Primitive); ok && p.Name == "string" {
		ft.use(exceptionType.Namespace)
		return &csast.New{Type: exceptionType, Args: []csast.Expr{x}}
	}
	return x
}

func (ft *fileTransformer) transformTry(s *tsast.Try) *csast.Try {
	out := &csast.Try{Body: ft.transformBlock(s.Body)}
	if s.Catch != nil {
		ft.pushScope()
		c := &csast.Catch{}
		if s.CatchParam != "" {
			ft.use(exceptionType.Namespace)
			c.Type = exceptionType
			c.Name = ft.addLocal(s.CatchParam, &tsast.NamedRef{Name: "Error"}, exceptionType)
		}
		c.Body = ft.transformBlock(s.Catch)
		ft.popScope()
		out.Catches = append(out.Catches, c)
	}
	if s.Finally != nil {
		out.Finally = ft.transformBlock(s.Finally)
	}
	return out
}

// transformSwitch groups consecutive empty cases under one section and ends
// every section with a jump, since C# forbids falling through. A non-empty
// case that falls through gets a break and a warning.
func (ft *fileTransformer) transformSwitch(s *tsast.Switch) *csast.Switch {
	tagType := ft.csTypeOfExpr(s.Tag)
	out := &csast.Switch{Tag: ft.transformExpr(s.Tag, nil)}

	var labels []csast.Expr
	for i, c := range s.Cases {
		var label csast.Expr
		if c.Test != nil {
			label = ft.transformExpr(c.Test, tagType)
		}
		labels = append(labels, label)
		last := i == len(s.Cases)-1
		if len(c.Body) == 0 && !last {
			continue
		}

		ft.pushScope()
		var body []csast.Stmt
		for _, st := range c.Body {
			body = append(body, ft.transformStmt(st)...)
		}
		ft.popScope()
		if !terminates(c.Body) {
			if len(c.Body) > 0 && !last {
				ft.warn(c.Pos, "switch case falls through; break appended")
			}
			body = append(body, &csast.Break{})
		}
		out.Sections = append(out.Sections, &csast.SwitchSection{Labels: labels, Body: body})
		labels = nil
	}
	return out
}

func terminates(stmts []tsast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch s := stmts[len(stmts)-1].(type) {
	case *tsast.Break, *tsast.Continue, *tsast.Return, *tsast.Throw:
		return true
	case *tsast.Block:
		return terminates(s.Stmts)
	case *tsast.If:
		if s.Else == nil {
			return false
		}
		return terminates([]tsast.Stmt{s.Then}) && terminates([]tsast.Stmt{s.Else})
	}
	return false
}

func (ft *fileTransformer) localFunc(d *tsast.FunctionDecl) csast.Stmt {
	name := ft.addLocal(d.Name, functionType(d.Params, d.Returns), nil)
	ft.pushScope()
	defer ft.popScope()

	params := ft.transformParams(d.Params)
	returns := ft.methodReturnType(d.Pos, "function "+d.Name, d.Params, d.Returns, d.Body, d.Async)
	return &csast.LocalFunc{Method: &csast.MethodDecl{
		Modifiers:  csast.Modifiers{Async: d.Async},
		Returns:    returns,
		Name:       name,
		TypeParams: ft.typeParams(d.TypeParams),
		Params:     params,
		Body:       ft.functionBody(d.Body, returns, d.Async),
	}}
}
