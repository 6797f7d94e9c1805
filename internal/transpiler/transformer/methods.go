package transformer

import (
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/tsast"
)

// transformParams maps a parameter list and declares every parameter in the
// current scope.
func (ft *fileTransformer) transformParams(params []*tsast.Param) []*csast.Param {
	out := make([]*csast.Param, 0, len(params))
	for _, p := range params {
		src := p.Type
		var typ csast.Type
		switch {
		case p.Type != nil:
			typ = ft.mapType(p.Type, p.Name)
		case p.Default != nil:
			src = ft.typeOfExpr(p.Default)
			typ = ft.inferredType(p.Pos, "parameter", p.Name, src)
		default:
			typ = csast.Object
			ft.warn(p.Pos, "parameter %s has no type annotation; using object", p.Name)
		}

		cp := &csast.Param{Type: typ}
		switch {
		case p.Rest:
			elem, ok := csast.ElementType(typ)
			if !ok {
				elem = csast.Object
			}
			cp.Type = csast.ArrayType{Elem: elem}
			cp.Params = true
		case p.Optional:
			cp.Type = csast.Nullable(typ)
			cp.Default = &csast.Literal{Text: "null"}
		}
		if p.Default != nil {
			cp.Default = ft.transformExpr(p.Default, typ)
			if !isConstant(p.Default) {
				ft.warn(p.Pos, "default value of parameter %s is not a compile-time constant", p.Name)
			}
		}
		cp.Name = ft.addLocal(p.Name, src, cp.Type)
		out = append(out, cp)
	}
	return out
}

func isConstant(e tsast.Expr) bool {
	switch e := e.(type) {
	case *tsast.NumberLit, *tsast.StringLit, *tsast.BoolLit, *tsast.NullLit, *tsast.UndefinedLit:
		return true
	case *tsast.Unary:
		return isConstant(e.X)
	case *tsast.Member:
		// Enum members and other qualified constants.
		_, ok := e.X.(*tsast.Ident)
		return ok
	case *tsast.Paren:
		return isConstant(e.X)
	}
	return false
}

// methodReturnType maps a declared result type, or infers one from the body.
// Params must already be in scope. Inferring a non-void result warns.
func (ft *fileTransformer) methodReturnType(pos tsast.Pos, what string, params []*tsast.Param, returns tsast.Type, body *tsast.Block, async bool) csast.Type {
	if returns != nil {
		return ft.mapType(returns, "")
	}
	if body == nil {
		if async {
			return ft.mapType(&tsast.NamedRef{Pos: pos, Name: "Promise"}, "")
		}
		return csast.Void
	}

	var src tsast.Type
	if fn, ok := ft.typeOfExpr(&tsast.FuncExpr{Pos: pos, Params: params, Body: body, Async: async}).(*tsast.FunctionOf); ok {
		src = fn.Returns
	}
	typ := ft.mapType(src, "")
	if !voidResult(src) {
		ft.warn(pos, "%s has no return type annotation; inferred %s", what, typ)
	}
	return typ
}

// voidResult reports whether t is void, possibly wrapped in a Promise.
func voidResult(t tsast.Type) bool {
	if g, ok := t.(*tsast.GenericRef); ok && g.Name == "Promise" && len(g.Args) == 1 {
		t = g.Args[0]
	}
	p, ok := t.(*tsast.Primitive)
	return ok && (p.Name == "void" || p.Name == "never")
}

// functionBody transforms a body whose return statements produce returns.
// Async bodies return the Task's result type.
func (ft *fileTransformer) functionBody(body *tsast.Block, returns csast.Type, async bool) *csast.Block {
	if body == nil {
		return nil
	}
	if async {
		returns = taskResult(returns)
	}
	prev := ft.returnType
	ft.returnType = returns
	defer func() { ft.returnType = prev }()
	return ft.transformBlock(body)
}

func taskResult(t csast.Type) csast.Type {
	switch v := t.(type) {
	case csast.GenericType:
		if v.Name == "Task" && len(v.Args) == 1 {
			return v.Args[0]
		}
	case csast.NamedType:
		if v.Name == "Task" {
			return csast.Void
		}
	}
	return t
}
