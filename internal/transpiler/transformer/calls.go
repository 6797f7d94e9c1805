package transformer

import (
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/tsast"
)

const nsLinq = "System.Linq"

func (ft *fileTransformer) transformCall(x *tsast.Call, expected csast.Type) csast.Expr {
	if _, ok := x.Callee.(*tsast.SuperExpr); ok {
		ft.warn(x.Pos, "super call outside the start of a constructor is not supported")
		return &csast.Call{Fun: csast.NewIdent("base"), Args: ft.transformArgs(x.Args, nil)}
	}
	if name := dottedName(x.Callee); name != "" {
		if _, local := ft.lookupLocal(rootName(name)); !local {
			if e, ok := ft.bridgeCall(name, x); ok {
				return e
			}
		}
	}
	if m, ok := x.Callee.(*tsast.Member); ok {
		if e, ok := ft.methodCall(m, x); ok {
			return e
		}
	}

	var params []csast.Type
	if fn, ok := ft.typeOfExpr(x.Callee).(*tsast.FunctionOf); ok {
		for _, p := range fn.Params {
			params = append(params, ft.mapper.Map(p))
		}
	}
	call := &csast.Call{
		Fun:      ft.transformExpr(x.Callee, nil),
		TypeArgs: ft.typeArgs(x.TypeArgs),
		Args:     ft.transformArgs(x.Args, params),
	}
	if x.Optional {
		call.Fun = &csast.Selector{X: call.Fun, Name: "Invoke", Conditional: true}
	}
	return call
}

func (ft *fileTransformer) typeArgs(args []tsast.Type) []csast.Type {
	var out []csast.Type
	for _, a := range args {
		out = append(out, ft.mapType(a, ""))
	}
	return out
}

// transformArgs lowers call arguments. A spread argument passes its array
// to a params parameter directly.
func (ft *fileTransformer) transformArgs(args []tsast.Expr, params []csast.Type) []csast.Expr {
	out := make([]csast.Expr, 0, len(args))
	for i, a := range args {
		var expected csast.Type
		if i < len(params) {
			expected = params[i]
		}
		if s, ok := a.(*tsast.Spread); ok {
			out = append(out, ft.transformExpr(s.X, nil))
			continue
		}
		out = append(out, ft.transformExpr(a, expected))
	}
	return out
}

func (ft *fileTransformer) transformNew(x *tsast.New, expected csast.Type) csast.Expr {
	name := dottedName(x.Callee)
	if name == "" {
		ft.warn(x.Pos, "new on computed constructor %s is not supported", describeExpr(x.Callee))
		return &csast.New{Type: csast.Object}
	}

	switch name {
	case "Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError":
		ft.use(exceptionType.Namespace)
		return &csast.New{Type: exceptionType, Args: ft.transformArgs(x.Args, nil)}
	case "Map", "WeakMap", "Set", "WeakSet":
		var typ csast.Type
		if len(x.TypeArgs) == 0 && expected != nil && !csast.IsObject(expected) {
			typ = csast.Underlying(expected)
		} else {
			typ = ft.mapType(&tsast.GenericRef{Pos: x.Pos, Name: name, Args: padTypeArgs(x.TypeArgs, name)}, "")
		}
		out := &csast.New{Type: typ}
		if len(x.Args) > 0 {
			if strings.HasSuffix(name, "Map") {
				ft.warn(x.Pos, "initial entries of new %s are not supported; omitted", name)
			} else {
				out.Args = ft.transformArgs(x.Args, nil)
			}
		}
		return out
	}

	var typ tsast.Type = &tsast.NamedRef{Pos: x.Pos, Name: name}
	if len(x.TypeArgs) > 0 {
		typ = &tsast.GenericRef{Pos: x.Pos, Name: name, Args: x.TypeArgs}
	}
	return &csast.New{Type: ft.mapType(typ, ""), Args: ft.transformArgs(x.Args, ft.ctorParams(name))}
}

func padTypeArgs(args []tsast.Type, name string) []tsast.Type {
	want := 1
	if strings.HasSuffix(name, "Map") {
		want = 2
	}
	for len(args) < want {
		args = append(args, &tsast.Primitive{Name: "any"})
	}
	return args
}

func (ft *fileTransformer) ctorParams(class string) []csast.Type {
	cls, ok := ft.classes[class]
	if !ok {
		return nil
	}
	for _, m := range cls.decl.Members {
		if c, ok := m.(*tsast.ConstructorDecl); ok {
			var out []csast.Type
			for _, p := range c.Params {
				out = append(out, ft.mapper.Map(p.Type))
			}
			return out
		}
	}
	return nil
}

// methodCall lowers calls of well-known array, map, set, string and number
// methods by receiver type.
func (ft *fileTransformer) methodCall(m *tsast.Member, x *tsast.Call) (csast.Expr, bool) {
	src := ft.typeOfExpr(m.X)
	recvType := ft.csTypeOfExpr(m.X)
	switch {
	case isArrayType(src) || csast.IsListLike(recvType) || csast.IsArray(recvType):
		return ft.arrayCall(m, x, recvType)
	case isCollection(src):
		return ft.collectionCall(m, x, receiverTypeName(src))
	case isString(src):
		return ft.stringCall(m, x)
	case isNumber(src):
		if m.Name == "toFixed" {
			return ft.toFixed(m, x), true
		}
	}
	if m.Name == "toString" && len(x.Args) == 0 {
		return ft.call(ft.transformExpr(m.X, nil), "ToString"), true
	}
	return nil, false
}

func isArrayType(t tsast.Type) bool {
	switch t := t.(type) {
	case *tsast.ArrayOf:
		return true
	case *tsast.GenericRef:
		return t.Name == "Array" || t.Name == "ReadonlyArray"
	}
	return false
}

func (ft *fileTransformer) call(recv csast.Expr, method string, args ...csast.Expr) *csast.Call {
	return &csast.Call{Fun: &csast.Selector{X: recv, Name: method}, Args: args}
}

func (ft *fileTransformer) arrayCall(m *tsast.Member, x *tsast.Call, recvType csast.Type) (csast.Expr, bool) {
	recv := ft.transformExpr(m.X, nil)
	elem, _ := csast.ElementType(recvType)
	var fnType csast.Type
	if elem != nil {
		fnType = csast.GenericType{Namespace: "System", Name: "Func", Args: []csast.Type{elem, csast.Object}}
	}
	args := func() []csast.Expr { return ft.transformArgs(x.Args, []csast.Type{fnType}) }
	values := func() []csast.Expr { return ft.transformArgs(x.Args, []csast.Type{elem}) }
	linq := func(method string) *csast.Call {
		ft.use(nsLinq)
		return ft.call(recv, method, args()...)
	}

	switch m.Name {
	case "push":
		if csast.IsArray(recvType) {
			ft.warn(x.Pos, "push on fixed-size array %s; consider the list-generic array strategy", describeExpr(m.X))
		}
		if len(x.Args) == 1 {
			if s, ok := x.Args[0].(*tsast.Spread); ok {
				return ft.call(recv, "AddRange", ft.transformExpr(s.X, nil)), true
			}
			return ft.call(recv, "Add", ft.transformExpr(x.Args[0], elem)), true
		}
		var elems []csast.Expr
		for _, a := range x.Args {
			elems = append(elems, ft.transformExpr(a, elem))
		}
		return ft.call(recv, "AddRange", &csast.CollectionExpr{Elems: elems}), true
	case "includes":
		if csast.IsArray(recvType) {
			ft.use(nsLinq)
		}
		return ft.call(recv, "Contains", values()...), true
	case "indexOf":
		if csast.IsArray(recvType) {
			ft.use("System")
			return &csast.Call{Fun: csast.Sel("Array", "IndexOf"), Args: append([]csast.Expr{recv}, values()...)}, true
		}
		return ft.call(recv, "IndexOf", values()...), true
	case "join":
		sep := csast.Expr(&csast.StringLit{Value: ","})
		if len(x.Args) > 0 {
			sep = ft.transformExpr(x.Args[0], nil)
		}
		return &csast.Call{Fun: csast.Sel("string", "Join"), Args: []csast.Expr{sep, recv}}, true
	case "map":
		return ft.materialize(linq("Select")), true
	case "filter":
		return ft.materialize(linq("Where")), true
	case "concat":
		return ft.materialize(linq("Concat")), true
	case "find":
		return linq("FirstOrDefault"), true
	case "some":
		return linq("Any"), true
	case "every":
		return linq("All"), true
	case "reduce":
		ft.use(nsLinq)
		a := ft.transformArgs(x.Args, nil)
		if len(a) == 2 {
			a[0], a[1] = a[1], a[0]
		}
		return ft.call(recv, "Aggregate", a...), true
	case "forEach":
		if csast.IsArray(recvType) {
			ft.use("System")
			return &csast.Call{Fun: csast.Sel("Array", "ForEach"), Args: append([]csast.Expr{recv}, args()...)}, true
		}
		return ft.call(recv, "ForEach", args()...), true
	case "findIndex":
		if csast.IsArray(recvType) {
			ft.use("System")
			return &csast.Call{Fun: csast.Sel("Array", "FindIndex"), Args: append([]csast.Expr{recv}, args()...)}, true
		}
		return ft.call(recv, "FindIndex", args()...), true
	case "reverse":
		return ft.call(recv, "Reverse"), true
	case "sort":
		if len(x.Args) > 0 {
			ft.warn(x.Pos, "sort comparator must return int in C#")
		}
		return ft.call(recv, "Sort", args()...), true
	}
	return nil, false
}

// materialize turns a LINQ sequence back into the configured array representation.
func (ft *fileTransformer) materialize(seq csast.Expr) csast.Expr {
	if ft.cfg.ArrayStrategy() == transpiler.ArrayNative {
		return ft.call(seq, "ToArray")
	}
	return ft.call(seq, "ToList")
}

func (ft *fileTransformer) collectionCall(m *tsast.Member, x *tsast.Call, kind string) (csast.Expr, bool) {
	recv := ft.transformExpr(m.X, nil)
	args := ft.transformArgs(x.Args, nil)
	isMap := strings.HasSuffix(kind, "Map")
	switch m.Name {
	case "get":
		if isMap && len(args) == 1 {
			return ft.call(recv, "GetValueOrDefault", args...), true
		}
	case "set":
		if isMap && len(args) == 2 {
			return &csast.Assign{Op: "=", L: &csast.Index{X: recv, Index: args[0]}, R: args[1]}, true
		}
	case "has":
		if isMap {
			return ft.call(recv, "ContainsKey", args...), true
		}
		return ft.call(recv, "Contains", args...), true
	case "add":
		return ft.call(recv, "Add", args...), true
	case "delete":
		return ft.call(recv, "Remove", args...), true
	case "clear":
		return ft.call(recv, "Clear"), true
	case "keys":
		return &csast.Selector{X: recv, Name: "Keys"}, true
	case "values":
		return &csast.Selector{X: recv, Name: "Values"}, true
	}
	return nil, false
}

var stringMethods = map[string]string{
	"toUpperCase": "ToUpper",
	"toLowerCase": "ToLower",
	"trim":        "Trim",
	"trimStart":   "TrimStart",
	"trimEnd":     "TrimEnd",
	"startsWith":  "StartsWith",
	"endsWith":    "EndsWith",
	"includes":    "Contains",
	"indexOf":     "IndexOf",
	"lastIndexOf": "LastIndexOf",
	"split":       "Split",
	"replaceAll":  "Replace",
	"padStart":    "PadLeft",
	"padEnd":      "PadRight",
	"toString":    "ToString",
}

func (ft *fileTransformer) stringCall(m *tsast.Member, x *tsast.Call) (csast.Expr, bool) {
	recv := ft.transformExpr(m.X, nil)
	args := ft.transformArgs(x.Args, nil)
	if method, ok := stringMethods[m.Name]; ok {
		return ft.call(recv, method, args...), true
	}
	switch m.Name {
	case "replace":
		ft.warn(x.Pos, "String.replace replaces every occurrence in C#")
		return ft.call(recv, "Replace", args...), true
	case "charAt":
		if len(args) == 1 {
			return ft.call(&csast.Index{X: recv, Index: args[0]}, "ToString"), true
		}
	case "substring", "slice":
		switch len(args) {
		case 1:
			return ft.call(recv, "Substring", args...), true
		case 2:
			length := &csast.Binary{Op: "-", L: args[1], R: args[0]}
			return ft.call(recv, "Substring", args[0], length), true
		}
	}
	return nil, false
}

// toFixed(n) becomes ToString("Fn").
func (ft *fileTransformer) toFixed(m *tsast.Member, x *tsast.Call) csast.Expr {
	recv := ft.transformExpr(m.X, nil)
	if len(x.Args) == 1 {
		if n, ok := x.Args[0].(*tsast.NumberLit); ok {
			return ft.call(recv, "ToString", &csast.StringLit{Value: "F" + n.Text})
		}
		arg := ft.transformExpr(x.Args[0], nil)
		return ft.call(recv, "ToString", &csast.Interpolated{Parts: []csast.InterpPart{{Text: "F"}, {X: arg}}})
	}
	return ft.call(recv, "ToString", &csast.StringLit{Value: "F0"})
}

func rootName(dotted string) string {
	head, _, _ := strings.Cut(dotted, ".")
	return head
}
