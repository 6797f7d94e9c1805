package transformer

import (
	"strconv"
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/transpiler/union"
	"martianoff/tscs/internal/tsast"
)

var nullLit = &csast.Literal{Text: "null"}

// transformExpr lowers an expression. expected is the C# type the context
// requires, or nil; it types collection and object literals.
func (ft *fileTransformer) transformExpr(e tsast.Expr, expected csast.Type) csast.Expr {
	switch x := e.(type) {
	case nil:
		return nullLit
	case *tsast.Ident:
		return ft.transformIdent(x)
	case *tsast.NumberLit:
		return &csast.Literal{Text: ft.numberLiteral(x)}
	case *tsast.StringLit:
		return &csast.StringLit{Value: x.Value}
	case *tsast.BoolLit:
		return &csast.Literal{Text: strconv.FormatBool(x.Value)}
	case *tsast.NullLit, *tsast.UndefinedLit:
		return nullLit
	case *tsast.ThisExpr:
		return csast.NewIdent("this")
	case *tsast.SuperExpr:
		return csast.NewIdent("base")
	case *tsast.TemplateLit:
		return ft.template(x)
	case *tsast.ArrayLit:
		return ft.arrayLiteral(x, expected)
	case *tsast.ObjectLit:
		return ft.objectLiteral(x, expected)
	case *tsast.Binary:
		return ft.binary(x)
	case *tsast.Unary:
		return ft.unary(x)
	case *tsast.Update:
		if x.Prefix {
			return &csast.Unary{Op: x.Op, X: ft.transformExpr(x.X, nil)}
		}
		return &csast.Postfix{Op: x.Op, X: ft.transformExpr(x.X, nil)}
	case *tsast.Assign:
		return ft.assign(x)
	case *tsast.Conditional:
		return &csast.Conditional{
			Cond: ft.condition(x.Cond),
			Then: ft.transformExpr(x.Then, expected),
			Else: ft.transformExpr(x.Else, expected),
		}
	case *tsast.Call:
		return ft.transformCall(x, expected)
	case *tsast.New:
		return ft.transformNew(x, expected)
	case *tsast.Member:
		return ft.transformMember(x)
	case *tsast.Index:
		return &csast.Index{
			X:           ft.transformExpr(x.X, nil),
			Index:       ft.transformExpr(x.Index, nil),
			Conditional: x.Optional,
		}
	case *tsast.Arrow:
		return ft.lambda(x.Pos, x.Params, x.Returns, x.BodyExpr, x.BodyBlock, x.Async, expected)
	case *tsast.FuncExpr:
		return ft.lambda(x.Pos, x.Params, x.Returns, nil, x.Body, x.Async, expected)
	case *tsast.Paren:
		return &csast.Paren{X: ft.transformExpr(x.X, expected)}
	case *tsast.NonNull:
		return &csast.SuppressNull{X: ft.transformExpr(x.X, expected)}
	case *tsast.As:
		return ft.as(x)
	case *tsast.Satisfies:
		return ft.transformExpr(x.X, ft.mapType(x.Type, ""))
	case *tsast.Spread:
		return &csast.Spread{X: ft.transformExpr(x.X, nil)}
	case *tsast.Await:
		return &csast.Await{X: ft.transformExpr(x.X, expected)}
	case *tsast.Unmodeled:
		ft.warn(x.Pos, "unsupported %s expression passed through as text", x.Kind)
		return &csast.Raw{Text: renormalize(x.Text)}
	}
	ft.warn(e.Position(), "unsupported expression %T emitted as null", e)
	return nullLit
}

func (ft *fileTransformer) transformIdent(x *tsast.Ident) csast.Expr {
	switch x.Name {
	case "undefined":
		return nullLit
	case "NaN":
		return &csast.Selector{X: &csast.TypeRef{Type: ft.numberType()}, Name: "NaN"}
	case "Infinity":
		return &csast.Selector{X: &csast.TypeRef{Type: ft.numberType()}, Name: "PositiveInfinity"}
	}
	if info, ok := ft.lookupLocal(x.Name); ok {
		return csast.NewIdent(info.csName)
	}
	if ft.isModuleMember(x.Name) {
		name := moduleMemberName(x.Name)
		if ft.inModule {
			return csast.NewIdent(name)
		}
		return csast.Sel(ft.moduleClass, name)
	}
	if t, ok := ft.aliases[x.Name]; ok {
		// A consumed union interface used as a value, e.g. in instanceof.
		if ref, ok := t.(*tsast.NamedRef); ok {
			return csast.NewIdent(ref.Name)
		}
	}
	return csast.NewIdent(naming.EscapeKeyword(x.Name))
}

func (ft *fileTransformer) isModuleMember(name string) bool {
	if _, ok := ft.moduleVars[name]; ok {
		return true
	}
	_, ok := ft.moduleFuncs[name]
	return ok
}

// numberLiteral renders a numeric literal for the configured width. Octal
// literals become decimal and bigint literals long.
func (ft *fileTransformer) numberLiteral(x *tsast.NumberLit) string {
	text := strings.ReplaceAll(x.Text, "_", "")
	if strings.HasSuffix(text, "n") {
		return strings.TrimSuffix(text, "n") + "L"
	}
	if strings.HasPrefix(text, "0o") || strings.HasPrefix(text, "0O") {
		if v, err := strconv.ParseInt(text[2:], 8, 64); err == nil {
			return strconv.FormatInt(v, 10)
		}
	}
	return union.NumberLiteral(text, ft.cfg.NumericWidth())
}

// floatLiteral renders an integer literal as a floating one so that division
// keeps its fractional result.
func (ft *fileTransformer) floatLiteral(x *tsast.NumberLit) csast.Expr {
	text := ft.numberLiteral(x)
	if isHex(text) || strings.ContainsAny(text, ".eEfL") {
		return &csast.Literal{Text: text}
	}
	if ft.cfg.NumericWidth() == transpiler.Width32 {
		return &csast.Literal{Text: text + "f"}
	}
	return &csast.Literal{Text: text + ".0"}
}

func (ft *fileTransformer) template(x *tsast.TemplateLit) csast.Expr {
	if len(x.Exprs) == 0 {
		return &csast.StringLit{Value: strings.Join(x.Quasis, "")}
	}
	out := &csast.Interpolated{}
	for i, q := range x.Quasis {
		if q != "" {
			out.Parts = append(out.Parts, csast.InterpPart{Text: q})
		}
		if i < len(x.Exprs) {
			out.Parts = append(out.Parts, csast.InterpPart{X: ft.transformExpr(x.Exprs[i], nil)})
		}
	}
	return out
}

func (ft *fileTransformer) arrayLiteral(x *tsast.ArrayLit, expected csast.Type) csast.Expr {
	elemType, _ := csast.ElementType(expected)
	out := &csast.CollectionExpr{}
	for _, el := range x.Elems {
		out.Elems = append(out.Elems, ft.transformExpr(el, elemType))
	}
	return out
}

// objectLiteral lowers to an object initializer of the expected named type,
// to a concrete variant class when the expected type is a discriminated
// union, to a dictionary initializer for dictionaries, and to an anonymous
// object otherwise.
func (ft *fileTransformer) objectLiteral(x *tsast.ObjectLit, expected csast.Type) csast.Expr {
	target := csast.Underlying(expected)
	if g, ok := target.(csast.GenericType); ok && strings.HasSuffix(g.Name, "Dictionary") && len(g.Args) == 2 {
		out := &csast.New{Type: g}
		for _, p := range x.Props {
			if p.Spread {
				ft.warn(p.Pos, "spread in object literal is not supported; omitted")
				continue
			}
			out.Inits = append(out.Inits, &csast.MemberInit{
				Name:  "[" + strconv.Quote(p.Key) + "]",
				Value: ft.propValue(p, g.Args[1]),
			})
		}
		return out
	}

	var typeName string
	if n, ok := target.(csast.NamedType); ok {
		typeName = n.Name
	}
	skip := ""
	if u, ok := ft.unions[typeName]; ok && ft.opts.UnionStrategy != transpiler.UnionTaggedStruct {
		if v, ok := ft.variantOf(u.plan, x); ok {
			typeName = v.ClassName
			target = csast.NamedType{Name: v.ClassName}
			skip = u.plan.Discriminant.Property
		} else {
			ft.warn(x.Pos, "object literal for union %s has no literal %s; emitted as anonymous object", typeName, u.plan.Discriminant.Property)
			typeName = ""
		}
	}
	if _, ok := ft.interfaces[typeName]; ok && !ft.suppressed[typeName] {
		ft.warn(x.Pos, "object literal for interface %s emitted as anonymous object", typeName)
		typeName = ""
	}

	out := &csast.New{}
	if typeName != "" {
		out.Type = target
	}
	for _, p := range x.Props {
		if p.Spread {
			ft.warn(p.Pos, "spread in object literal is not supported; omitted")
			continue
		}
		if p.Key == skip {
			continue
		}
		var propType csast.Type
		if typeName != "" {
			if t := ft.propertyType(typeName, p.Key); t != nil {
				propType = ft.mapper.Map(t)
			}
		}
		out.Inits = append(out.Inits, &csast.MemberInit{
			Name:  ft.memberNameOn(typeName, p.Key),
			Value: ft.propValue(p, propType),
		})
	}
	return out
}

func (ft *fileTransformer) propValue(p *tsast.ObjectProp, expected csast.Type) csast.Expr {
	if p.Shorthand || p.Value == nil {
		return ft.transformIdent(&tsast.Ident{Pos: p.Pos, Name: p.Key})
	}
	return ft.transformExpr(p.Value, expected)
}

// variantOf picks the variant class whose discriminant value the literal carries.
func (ft *fileTransformer) variantOf(plan *union.Plan, x *tsast.ObjectLit) (*union.VariantPlan, bool) {
	for _, p := range x.Props {
		if p.Key != plan.Discriminant.Property || p.Value == nil {
			continue
		}
		val, ok := ft.analyzer.ValueOf(literalType(p.Value))
		if !ok {
			return nil, false
		}
		for _, v := range plan.Variants {
			if v.Value.Domain == val.Domain && v.Value.Text == val.Text && v.Value.Enum == val.Enum {
				return v, true
			}
		}
	}
	return nil, false
}

// literalType is the literal type of a literal expression, or nil.
func literalType(e tsast.Expr) tsast.Type {
	switch e := e.(type) {
	case *tsast.StringLit:
		return &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitString, Value: e.Value}}
	case *tsast.NumberLit:
		return &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitNumber, Value: e.Text}}
	case *tsast.BoolLit:
		return &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitBoolean, Value: strconv.FormatBool(e.Value)}}
	case *tsast.Member:
		if id, ok := e.X.(*tsast.Ident); ok {
			return &tsast.NamedRef{Name: id.Name + "." + e.Name}
		}
	case *tsast.As:
		return literalType(e.X)
	}
	return nil
}

// propertyType finds the declared source type of a property on a type
// declared in this file.
func (ft *fileTransformer) propertyType(typeName, prop string) tsast.Type {
	if obj, ok := ft.records[typeName]; ok {
		for _, p := range obj.Properties {
			if p.Name == prop {
				return p.Type
			}
		}
	}
	if cls, ok := ft.classes[typeName]; ok {
		if m, ok := ft.lookupMember(cls, prop); ok {
			return m.src
		}
	}
	if iface, ok := ft.interfaces[typeName]; ok {
		for _, p := range iface.Properties {
			if p.Name == prop {
				return p.Type
			}
		}
	}
	for _, u := range ft.unions {
		for _, v := range u.plan.Variants {
			if v.ClassName != typeName && u.plan.BaseName != typeName {
				continue
			}
			for _, props := range [][]union.Property{u.plan.Shared, v.Own} {
				for _, p := range props {
					if p.Name == prop {
						return p.Type
					}
				}
			}
		}
	}
	return nil
}

// memberNameOn spells a member of a type: the recorded name for classes of
// this file, the synthesized name for union types, PascalCase otherwise.
func (ft *fileTransformer) memberNameOn(typeName, member string) string {
	if cls, ok := ft.classes[typeName]; ok {
		if m, ok := ft.lookupMember(cls, member); ok {
			return m.csName
		}
	}
	if plan := ft.planOf(typeName); plan != nil {
		if ft.opts.UnionStrategy == transpiler.UnionTaggedStruct {
			typeName = plan.BaseName
		}
		return plan.MemberName(typeName, member)
	}
	return naming.PascalCase(member)
}

// planOf returns the union plan declaring typeName as its base or one of
// its variant classes.
func (ft *fileTransformer) planOf(typeName string) *union.Plan {
	if typeName == "" {
		return nil
	}
	for _, u := range ft.unions {
		if u.plan.BaseName == typeName {
			return u.plan
		}
		for _, v := range u.plan.Variants {
			if v.ClassName == typeName {
				return u.plan
			}
		}
	}
	return nil
}

func (ft *fileTransformer) binary(x *tsast.Binary) csast.Expr {
	op := x.Op
	switch op {
	case "===", "!==", "==", "!=":
		eq := op == "===" || op == "=="
		if is, ok := ft.typeofCheck(x); ok {
			if eq {
				return is
			}
			return negate(is)
		}
		if eq {
			op = "=="
		} else {
			op = "!="
		}
	case "**":
		return ft.pow(ft.transformExpr(x.L, nil), ft.transformExpr(x.R, nil))
	case "instanceof":
		return &csast.Is{X: ft.transformExpr(x.L, nil), Type: ft.typeOfValue(x.R)}
	case "in":
		return &csast.Call{
			Fun:  &csast.Selector{X: ft.transformExpr(x.R, nil), Name: "ContainsKey"},
			Args: []csast.Expr{ft.transformExpr(x.L, nil)},
		}
	case "&&", "||":
		if op == "||" && !isBoolean(ft.typeOfExpr(x.L)) && ft.typeOfExpr(x.L) != nil {
			ft.warn(x.Pos, "|| on a non-boolean %s lowered to ??", describeExpr(x.L))
			return &csast.Binary{Op: "??", L: ft.transformExpr(x.L, nil), R: ft.transformExpr(x.R, nil)}
		}
		return &csast.Binary{Op: op, L: ft.condition(x.L), R: ft.condition(x.R)}
	case "/":
		return &csast.Binary{Op: op, L: ft.divisionOperand(x.L), R: ft.divisionOperand(x.R)}
	}
	return &csast.Binary{Op: op, L: ft.transformExpr(x.L, nil), R: ft.transformExpr(x.R, nil)}
}

func (ft *fileTransformer) divisionOperand(e tsast.Expr) csast.Expr {
	if n, ok := e.(*tsast.NumberLit); ok {
		return ft.floatLiteral(n)
	}
	return ft.transformExpr(e, nil)
}

// typeofCheck lowers typeof x === "string" to a type test.
func (ft *fileTransformer) typeofCheck(x *tsast.Binary) (csast.Expr, bool) {
	u, ok := x.L.(*tsast.Unary)
	lit, isLit := x.R.(*tsast.StringLit)
	if !ok || !isLit {
		u, ok = x.R.(*tsast.Unary)
		lit, isLit = x.L.(*tsast.StringLit)
	}
	if !ok || !isLit || u.Op != "typeof" {
		return nil, false
	}
	subject := ft.transformExpr(u.X, nil)
	var typ csast.Type
	switch lit.Value {
	case "string":
		typ = csast.String
	case "number":
		typ = ft.numberType()
	case "boolean":
		typ = csast.Bool
	case "bigint":
		typ = csast.BasicType{Name: "long"}
	case "function":
		ft.use("System")
		typ = csast.NamedType{Namespace: "System", Name: "Delegate"}
	case "undefined":
		return &csast.Binary{Op: "==", L: subject, R: nullLit}, true
	default:
		typ = csast.Object
	}
	return &csast.Is{X: subject, Type: typ}, true
}

// typeOfValue maps a class reference used as a value, as in instanceof.
func (ft *fileTransformer) typeOfValue(e tsast.Expr) csast.Type {
	if name := dottedName(e); name != "" {
		return ft.mapType(&tsast.NamedRef{Name: name}, "")
	}
	ft.warn(e.Position(), "instanceof right operand %s is not a type name", describeExpr(e))
	return csast.Object
}

func (ft *fileTransformer) pow(l, r csast.Expr) csast.Expr {
	fn := ft.mathClass()
	return &csast.Call{Fun: &csast.Selector{X: fn, Name: "Pow"}, Args: []csast.Expr{l, r}}
}

// mathClass is Mathf (single precision, Godot) or System.Math.
func (ft *fileTransformer) mathClass() csast.Expr {
	if ft.cfg.NumericWidth() == transpiler.Width32 {
		ft.use("Godot")
		return csast.NewIdent("Mathf")
	}
	ft.use("System")
	return csast.NewIdent("Math")
}

func (ft *fileTransformer) unary(x *tsast.Unary) csast.Expr {
	switch x.Op {
	case "!":
		return negate(ft.condition(x.X))
	case "typeof":
		ft.warn(x.Pos, "typeof outside a comparison lowered to GetType().Name")
		return &csast.Selector{
			X:    &csast.Call{Fun: &csast.Selector{X: ft.transformExpr(x.X, nil), Name: "GetType"}},
			Name: "Name",
		}
	case "delete":
		if ix, ok := x.X.(*tsast.Index); ok {
			return &csast.Call{
				Fun:  &csast.Selector{X: ft.transformExpr(ix.X, nil), Name: "Remove"},
				Args: []csast.Expr{ft.transformExpr(ix.Index, nil)},
			}
		}
		if m, ok := x.X.(*tsast.Member); ok {
			return &csast.Call{
				Fun:  &csast.Selector{X: ft.transformExpr(m.X, nil), Name: "Remove"},
				Args: []csast.Expr{&csast.StringLit{Value: m.Name}},
			}
		}
		ft.warn(x.Pos, "delete of %s is not supported", describeExpr(x.X))
		return ft.transformExpr(x.X, nil)
	case "void":
		ft.warn(x.Pos, "void operator dropped")
		return ft.transformExpr(x.X, nil)
	}
	return &csast.Unary{Op: x.Op, X: ft.transformExpr(x.X, nil)}
}

func (ft *fileTransformer) assign(x *tsast.Assign) csast.Expr {
	l := ft.transformExpr(x.L, nil)
	switch x.Op {
	case "=":
		return &csast.Assign{Op: "=", L: l, R: ft.transformExpr(x.R, ft.csTypeOfExpr(x.L))}
	case "**=":
		return &csast.Assign{Op: "=", L: l, R: ft.pow(ft.transformExpr(x.L, nil), ft.transformExpr(x.R, nil))}
	case "||=", "&&=":
		op := strings.TrimSuffix(x.Op, "=")
		if isBoolean(ft.typeOfExpr(x.L)) {
			return &csast.Assign{Op: "=", L: l, R: &csast.Binary{
				Op: op,
				L:  ft.transformExpr(x.L, nil),
				R:  ft.condition(x.R),
			}}
		}
		if x.Op == "||=" {
			ft.warn(x.Pos, "||= on a non-boolean %s lowered to ??=", describeExpr(x.L))
			return &csast.Assign{Op: "??=", L: l, R: ft.transformExpr(x.R, ft.csTypeOfExpr(x.L))}
		}
		ft.warn(x.Pos, "&&= on a non-boolean %s lowered to a conditional assignment", describeExpr(x.L))
		return &csast.Assign{Op: "=", L: l, R: &csast.Conditional{
			Cond: ft.condition(x.L),
			Then: ft.transformExpr(x.R, nil),
			Else: ft.transformExpr(x.L, nil),
		}}
	case "/=":
		return &csast.Assign{Op: x.Op, L: l, R: ft.divisionOperand(x.R)}
	}
	return &csast.Assign{Op: x.Op, L: l, R: ft.transformExpr(x.R, nil)}
}

func (ft *fileTransformer) as(x *tsast.As) csast.Expr {
	if ref, ok := x.Type.(*tsast.NamedRef); ok && ref.Name == "const" {
		return ft.transformExpr(x.X, nil)
	}
	typ := ft.mapType(x.Type, "")
	switch x.X.(type) {
	case *tsast.ObjectLit, *tsast.ArrayLit:
		return ft.transformExpr(x.X, typ)
	}
	return &csast.Cast{Type: typ, X: ft.transformExpr(x.X, nil)}
}

// condition lowers an expression used as a truth value. C# conditions must
// be bool, so other operands become explicit tests: numbers against zero,
// strings against null or empty, and everything else against null.
func (ft *fileTransformer) condition(e tsast.Expr) csast.Expr {
	switch x := e.(type) {
	case *tsast.Paren:
		return &csast.Paren{X: ft.condition(x.X)}
	case *tsast.Unary:
		if x.Op == "!" {
			return negate(ft.condition(x.X))
		}
	case *tsast.Binary:
		if x.Op == "&&" || x.Op == "||" {
			return &csast.Binary{Op: x.Op, L: ft.condition(x.L), R: ft.condition(x.R)}
		}
	}

	t := ft.typeOfExpr(e)
	v := ft.transformExpr(e, nil)
	switch {
	case t == nil, isBoolean(t):
		return v
	case isAny(t):
		return v
	case isNumber(t):
		return &csast.Binary{Op: "!=", L: v, R: &csast.Literal{Text: "0"}}
	case isString(t):
		return negate(&csast.Call{Fun: csast.Sel("string", "IsNullOrEmpty"), Args: []csast.Expr{v}})
	}
	return &csast.Binary{Op: "!=", L: v, R: nullLit}
}

// negate inverts a condition, folding comparisons and double negation.
func negate(e csast.Expr) csast.Expr {
	switch x := e.(type) {
	case *csast.Unary:
		if x.Op == "!" {
			if p, ok := x.X.(*csast.Paren); ok {
				return p.X
			}
			return x.X
		}
	case *csast.Binary:
		switch x.Op {
		case "==":
			return &csast.Binary{Op: "!=", L: x.L, R: x.R}
		case "!=":
			return &csast.Binary{Op: "==", L: x.L, R: x.R}
		}
	case *csast.Paren:
		return negate(x.X)
	}
	return &csast.Unary{Op: "!", X: e}
}

func isBoolean(t tsast.Type) bool {
	switch t := t.(type) {
	case *tsast.Primitive:
		return t.Name == "boolean"
	case *tsast.LiteralOf:
		return t.Value.Kind == tsast.LitBoolean
	case *tsast.NamedRef:
		return t.Name == "Boolean"
	}
	return false
}

func isString(t tsast.Type) bool {
	switch t := t.(type) {
	case *tsast.Primitive:
		return t.Name == "string"
	case *tsast.LiteralOf:
		return t.Value.Kind == tsast.LitString
	}
	return false
}

func isAny(t tsast.Type) bool {
	p, ok := t.(*tsast.Primitive)
	return ok && (p.Name == "any" || p.Name == "unknown")
}
