package infer

import (
	"strconv"
	"strings"

	"martianoff/tscs/internal/tsast"
)

func (inf *Inferer) infer(e tsast.Expr, lookup func(string) tsast.Type) tsast.Type {
	switch x := e.(type) {
	case *tsast.NumberLit:
		return Number
	case *tsast.StringLit, *tsast.TemplateLit:
		return String
	case *tsast.BoolLit:
		return Boolean
	case *tsast.NullLit:
		return Null
	case *tsast.UndefinedLit:
		return Undefined
	case *tsast.Ident:
		if x.Name == "undefined" {
			return Undefined
		}
		if x.Name == "NaN" || x.Name == "Infinity" {
			return Number
		}
		return lookup(x.Name)
	case *tsast.ThisExpr:
		return lookup("this")
	case *tsast.Paren:
		return inf.infer(x.X, lookup)
	case *tsast.NonNull:
		t := inf.infer(x.X, lookup)
		if t == nil {
			return nil
		}
		return StripNullish(t)
	case *tsast.As:
		return x.Type
	case *tsast.Satisfies:
		return inf.infer(x.X, lookup)
	case *tsast.ArrayLit:
		return inf.array(x, lookup)
	case *tsast.ObjectLit:
		return inf.object(x, lookup)
	case *tsast.Binary:
		return inf.binary(x, lookup)
	case *tsast.Unary:
		switch x.Op {
		case "!", "delete":
			return Boolean
		case "typeof":
			return String
		case "void":
			return Undefined
		}
		return Number
	case *tsast.Update:
		return Number
	case *tsast.Assign:
		return inf.infer(x.R, lookup)
	case *tsast.Conditional:
		return Join(Widen(orAny(inf.infer(x.Then, lookup))), Widen(orAny(inf.infer(x.Else, lookup))))
	case *tsast.New:
		return newType(x)
	case *tsast.Call:
		return inf.call(x, lookup)
	case *tsast.Member:
		return inf.member(x, lookup)
	case *tsast.Index:
		return inf.index(x, lookup)
	case *tsast.Arrow:
		return inf.function(x.Params, x.Returns, x.BodyExpr, x.BodyBlock, x.Async, lookup)
	case *tsast.FuncExpr:
		return inf.function(x.Params, x.Returns, nil, x.Body, x.Async, lookup)
	case *tsast.Await:
		t := inf.infer(x.X, lookup)
		if g, ok := t.(*tsast.GenericRef); ok && g.Name == "Promise" && len(g.Args) == 1 {
			return g.Args[0]
		}
		return t
	case *tsast.Spread, *tsast.SuperExpr, *tsast.Unmodeled:
		return nil
	}
	return nil
}

func orAny(t tsast.Type) tsast.Type {
	if t == nil {
		return Any
	}
	return t
}

func (inf *Inferer) array(x *tsast.ArrayLit, lookup func(string) tsast.Type) tsast.Type {
	var elem tsast.Type
	for _, el := range x.Elems {
		var t tsast.Type
		if s, ok := el.(*tsast.Spread); ok {
			st := inf.infer(s.X, lookup)
			if a, ok := st.(*tsast.ArrayOf); ok {
				t = a.Elem
			}
		} else {
			t = inf.infer(el, lookup)
		}
		elem = Join(elem, Widen(orAny(t)))
	}
	if elem == nil {
		elem = Any
	}
	return &tsast.ArrayOf{Pos: x.Pos, Elem: elem}
}

func (inf *Inferer) object(x *tsast.ObjectLit, lookup func(string) tsast.Type) tsast.Type {
	obj := &tsast.ObjectOf{Pos: x.Pos}
	for _, p := range x.Props {
		if p.Spread {
			if o, ok := inf.infer(p.Value, lookup).(*tsast.ObjectOf); ok {
				obj.Properties = append(obj.Properties, o.Properties...)
			}
			continue
		}
		var t tsast.Type
		if p.Shorthand {
			t = lookup(p.Key)
		} else {
			t = inf.infer(p.Value, lookup)
		}
		obj.Properties = append(obj.Properties, &tsast.PropertySig{Pos: p.Pos, Name: p.Key, Type: Widen(orAny(t))})
	}
	return obj
}

func (inf *Inferer) binary(x *tsast.Binary, lookup func(string) tsast.Type) tsast.Type {
	switch x.Op {
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return Boolean
	case "&&":
		return inf.infer(x.R, lookup)
	case "||", "??":
		l := inf.infer(x.L, lookup)
		r := inf.infer(x.R, lookup)
		if l == nil {
			return r
		}
		if r == nil {
			return StripNullish(Widen(l))
		}
		return Join(StripNullish(Widen(l)), Widen(r))
	case "+":
		l := Widen(orAny(inf.infer(x.L, lookup)))
		r := Widen(orAny(inf.infer(x.R, lookup)))
		if isNamed(l, "string") || isNamed(r, "string") {
			return String
		}
		if isNamed(l, "bigint") && isNamed(r, "bigint") {
			return &tsast.Primitive{Name: "bigint"}
		}
		if isNamed(l, "number") && isNamed(r, "number") {
			return Number
		}
		return Any
	}
	return Number
}

func newType(x *tsast.New) tsast.Type {
	name := calleeName(x.Callee)
	if name == "" {
		return nil
	}
	switch {
	case name == "Array":
		elem := Any
		if len(x.TypeArgs) == 1 {
			elem = x.TypeArgs[0]
		}
		return &tsast.ArrayOf{Pos: x.Pos, Elem: elem}
	case len(x.TypeArgs) > 0:
		return &tsast.GenericRef{Pos: x.Pos, Name: name, Args: x.TypeArgs}
	case name == "Map" || name == "WeakMap":
		return &tsast.GenericRef{Pos: x.Pos, Name: name, Args: []tsast.Type{Any, Any}}
	case name == "Set" || name == "WeakSet":
		return &tsast.GenericRef{Pos: x.Pos, Name: name, Args: []tsast.Type{Any}}
	}
	return &tsast.NamedRef{Pos: x.Pos, Name: name}
}

func (inf *Inferer) call(x *tsast.Call, lookup func(string) tsast.Type) tsast.Type {
	name := calleeName(x.Callee)
	if t, ok := returnTypes[name]; ok {
		return t
	}
	if strings.HasPrefix(name, "Math.") {
		return Number
	}
	if m, ok := x.Callee.(*tsast.Member); ok {
		if t, ok := methodReturns[m.Name]; ok {
			return t
		}
		recv := inf.infer(m.X, lookup)
		if a, ok := recv.(*tsast.ArrayOf); ok {
			switch m.Name {
			case "slice", "filter", "concat", "reverse", "sort":
				return a
			case "pop", "shift", "find":
				return Join(a.Elem, Undefined)
			}
		}
	}
	if fn, ok := inf.infer(x.Callee, lookup).(*tsast.FunctionOf); ok {
		return fn.Returns
	}
	return nil
}

// member infers a property access. Inside an optional chain the result may
// be undefined.
func (inf *Inferer) member(x *tsast.Member, lookup func(string) tsast.Type) tsast.Type {
	t := inf.memberOf(x, lookup)
	if t != nil && optionalChain(x) {
		return Join(t, Undefined)
	}
	return t
}

func (inf *Inferer) memberOf(x *tsast.Member, lookup func(string) tsast.Type) tsast.Type {
	if x.Name == "length" {
		if nullable(inf.infer(x.X, lookup)) {
			return Join(Number, Undefined)
		}
		return Number
	}
	if name := calleeName(x); strings.HasPrefix(name, "Math.") {
		return Number
	}
	recv := inf.infer(x.X, lookup)
	if o, ok := StripNullishOrNil(recv).(*tsast.ObjectOf); ok {
		for _, p := range o.Properties {
			if p.Name == x.Name {
				if x.Optional || p.Optional {
					return Join(p.Type, Undefined)
				}
				return p.Type
			}
		}
	}
	if name := calleeName(x); name != "" {
		return lookup(name)
	}
	return nil
}

// optionalChain reports whether e is part of a chain short-circuited by ?.
// Parentheses and non-null assertions end the chain.
func optionalChain(e tsast.Expr) bool {
	for {
		switch x := e.(type) {
		case *tsast.Member:
			if x.Optional {
				return true
			}
			e = x.X
		case *tsast.Index:
			if x.Optional {
				return true
			}
			e = x.X
		case *tsast.Call:
			if x.Optional {
				return true
			}
			e = x.Callee
		default:
			return false
		}
	}
}

func nullable(t tsast.Type) bool {
	u, ok := t.(*tsast.UnionOf)
	if !ok {
		return false
	}
	for _, m := range u.Members {
		if tsast.IsNullish(m) {
			return true
		}
	}
	return false
}

// StripNullishOrNil is StripNullish that keeps a nil type nil.
func StripNullishOrNil(t tsast.Type) tsast.Type {
	if t == nil {
		return nil
	}
	return StripNullish(t)
}

func (inf *Inferer) index(x *tsast.Index, lookup func(string) tsast.Type) tsast.Type {
	switch recv := StripNullishOrNil(inf.infer(x.X, lookup)).(type) {
	case *tsast.ArrayOf:
		return recv.Elem
	case *tsast.TupleOf:
		if n, ok := x.Index.(*tsast.NumberLit); ok {
			for i := range recv.Elems {
				if n.Text == strconv.Itoa(i) {
					return recv.Elems[i]
				}
			}
		}
	case *tsast.GenericRef:
		if (recv.Name == "Record" || recv.Name == "Map") && len(recv.Args) == 2 {
			return recv.Args[1]
		}
	case *tsast.Primitive:
		if recv.Name == "string" {
			return String
		}
	}
	return nil
}

func (inf *Inferer) function(params []*tsast.Param, returns tsast.Type, bodyExpr tsast.Expr, bodyBlock *tsast.Block, async bool, lookup func(string) tsast.Type) tsast.Type {
	fn := &tsast.FunctionOf{Returns: returns}
	env := make(TypeEnv, len(params))
	for _, p := range params {
		t := p.Type
		if t == nil {
			t = Any
		}
		fn.Params = append(fn.Params, t)
		env[p.Name] = t
	}
	if fn.Returns != nil {
		return fn
	}
	switch {
	case bodyExpr != nil:
		fn.Returns = Widen(orAny(inf.infer(bodyExpr, env.Lookup(lookup))))
	case bodyBlock != nil:
		fn.Returns = inf.ReturnType(bodyBlock, env.Lookup(lookup))
	default:
		fn.Returns = Void
	}
	if async {
		fn.Returns = &tsast.GenericRef{Name: "Promise", Args: []tsast.Type{fn.Returns}}
	}
	return fn
}

// ReturnType infers the result type of a function body from its return
// statements. Bodies without a valued return are void. Variables declared in
// the body are visible to later returns regardless of nesting.
func (inf *Inferer) ReturnType(body *tsast.Block, lookup func(string) tsast.Type) tsast.Type {
	env := make(TypeEnv)
	scoped := env.Lookup(lookup)
	var result tsast.Type
	var walk func(s tsast.Stmt)
	walk = func(s tsast.Stmt) {
		switch x := s.(type) {
		case *tsast.Block:
			for _, st := range x.Stmts {
				walk(st)
			}
		case *tsast.VarStmt:
			for _, d := range x.Decls {
				t := d.Type
				if t == nil && d.Init != nil {
					t = Widen(orAny(inf.infer(d.Init, scoped)))
				}
				if t != nil {
					env[d.Name] = t
				}
			}
		case *tsast.Return:
			if x.X != nil {
				result = Join(result, Widen(orAny(inf.infer(x.X, scoped))))
			}
		case *tsast.If:
			walk(x.Then)
			if x.Else != nil {
				walk(x.Else)
			}
		case *tsast.For:
			if x.Init != nil {
				walk(x.Init)
			}
			walk(x.Body)
		case *tsast.ForOf:
			walk(x.Body)
		case *tsast.ForIn:
			walk(x.Body)
		case *tsast.While:
			walk(x.Body)
		case *tsast.DoWhile:
			walk(x.Body)
		case *tsast.Try:
			walk(x.Body)
			if x.Catch != nil {
				walk(x.Catch)
			}
			if x.Finally != nil {
				walk(x.Finally)
			}
		case *tsast.Switch:
			for _, c := range x.Cases {
				for _, st := range c.Body {
					walk(st)
				}
			}
		}
	}
	walk(body)
	if result == nil {
		return Void
	}
	return result
}

// calleeName renders a dotted identifier chain (Math.floor) or "".
func calleeName(e tsast.Expr) string {
	switch x := e.(type) {
	case *tsast.Ident:
		return x.Name
	case *tsast.Member:
		head := calleeName(x.X)
		if head == "" {
			return ""
		}
		return head + "." + x.Name
	}
	return ""
}
