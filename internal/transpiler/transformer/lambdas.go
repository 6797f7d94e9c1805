package transformer

import (
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/tsast"
)

// lambda lowers arrow functions and function expressions. Parameter types
// are printed only when every parameter is annotated; otherwise C# infers
// them from the target delegate, whose argument types are still used to
// type the parameters in scope.
func (ft *fileTransformer) lambda(pos tsast.Pos, params []*tsast.Param, returns tsast.Type, bodyExpr tsast.Expr, bodyBlock *tsast.Block, async bool, expected csast.Type) csast.Expr {
	ft.pushScope()
	defer ft.popScope()

	delegateArgs, delegateResult := delegateSignature(expected)
	typed := len(params) > 0
	for _, p := range params {
		if p.Type == nil {
			typed = false
		}
	}

	out := &csast.Lambda{Async: async}
	for i, p := range params {
		var cs csast.Type
		switch {
		case p.Type != nil:
			cs = ft.mapType(p.Type, p.Name)
		case i < len(delegateArgs):
			cs = delegateArgs[i]
		}
		cp := &csast.Param{Name: ft.addLocal(p.Name, p.Type, cs)}
		if typed {
			cp.Type = cs
			if p.Rest {
				elem, ok := csast.ElementType(cs)
				if !ok {
					elem = csast.Object
				}
				cp.Type = csast.ArrayType{Elem: elem}
				cp.Params = true
			}
		}
		out.Params = append(out.Params, cp)
	}

	var result csast.Type
	switch {
	case returns != nil:
		result = ft.mapType(returns, "")
	case delegateResult != nil:
		result = delegateResult
	case bodyBlock != nil:
		if fn, ok := ft.typeOfExpr(&tsast.FuncExpr{Pos: pos, Params: params, Body: bodyBlock, Async: async}).(*tsast.FunctionOf); ok {
			result = ft.mapper.Map(fn.Returns)
		}
	}

	if bodyExpr != nil {
		var want csast.Type
		if result != nil && !csast.IsVoid(result) {
			want = result
		}
		out.BodyExpr = ft.transformExpr(bodyExpr, want)
		return out
	}
	if result == nil {
		result = csast.Object
	}
	out.BodyBlock = ft.functionBody(bodyBlock, result, async)
	return out
}

// delegateSignature splits Action<...> and Func<..., R> into argument types
// and result type. Action results are void.
func delegateSignature(t csast.Type) ([]csast.Type, csast.Type) {
	switch v := csast.Underlying(t).(type) {
	case csast.GenericType:
		switch v.Name {
		case "Action":
			return v.Args, csast.Void
		case "Func":
			if len(v.Args) == 0 {
				return nil, nil
			}
			result := v.Args[len(v.Args)-1]
			if csast.IsObject(result) {
				result = nil
			}
			return v.Args[:len(v.Args)-1], result
		}
	case csast.NamedType:
		if v.Name == "Action" {
			return nil, csast.Void
		}
	}
	return nil, nil
}
