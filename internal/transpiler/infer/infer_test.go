package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"martianoff/tscs/internal/transpiler/infer"
	"martianoff/tscs/internal/tsast"
)

func ident(name string) tsast.Expr { return &tsast.Ident{Name: name} }

func num(text string) tsast.Expr { return &tsast.NumberLit{Text: text} }

func str(v string) tsast.Expr { return &tsast.StringLit{Value: v} }

func TestTypeOfExpr(t *testing.T) {
	env := infer.TypeEnv{
		"x":     &tsast.Primitive{Name: "number"},
		"name":  &tsast.UnionOf{Members: []tsast.Type{&tsast.Primitive{Name: "string"}, &tsast.Primitive{Name: "null"}}},
		"items": &tsast.ArrayOf{Elem: &tsast.NamedRef{Name: "Item"}},
		"pair":  &tsast.TupleOf{Elems: []tsast.Type{&tsast.Primitive{Name: "string"}, &tsast.Primitive{Name: "boolean"}}},
		"f":     &tsast.FunctionOf{Returns: &tsast.Primitive{Name: "boolean"}},
		"p":     &tsast.GenericRef{Name: "Promise", Args: []tsast.Type{&tsast.Primitive{Name: "string"}}},
		"this":  &tsast.ObjectOf{Properties: []*tsast.PropertySig{{Name: "speed", Type: &tsast.Primitive{Name: "number"}}}},
	}

	tests := []struct {
		name     string
		expr     tsast.Expr
		expected string
	}{
		{"number literal", num("42"), "number"},
		{"string literal", str("a"), "string"},
		{"template", &tsast.TemplateLit{Quasis: []string{"a", ""}, Exprs: []tsast.Expr{ident("x")}}, "string"},
		{"boolean", &tsast.BoolLit{Value: true}, "boolean"},
		{"null", &tsast.NullLit{}, "null"},
		{"undefined", &tsast.UndefinedLit{}, "undefined"},
		{"variable", ident("x"), "number"},
		{"unknown variable", ident("nope"), "any"},
		{"arithmetic", &tsast.Binary{Op: "*", L: ident("x"), R: num("2")}, "number"},
		{"concatenation", &tsast.Binary{Op: "+", L: str("n="), R: ident("x")}, "string"},
		{"sum", &tsast.Binary{Op: "+", L: ident("x"), R: num("2")}, "number"},
		{"comparison", &tsast.Binary{Op: "===", L: ident("x"), R: num("2")}, "boolean"},
		{"nullish default", &tsast.Binary{Op: "??", L: ident("name"), R: str("anon")}, "string"},
		{"not", &tsast.Unary{Op: "!", X: ident("x")}, "boolean"},
		{"typeof", &tsast.Unary{Op: "typeof", X: ident("x")}, "string"},
		{"conditional same", &tsast.Conditional{Cond: ident("x"), Then: num("1"), Else: num("2")}, "number"},
		{"conditional mixed", &tsast.Conditional{Cond: ident("x"), Then: num("1"), Else: str("a")}, "number | string"},
		{"array", &tsast.ArrayLit{Elems: []tsast.Expr{num("1"), num("2")}}, "number[]"},
		{"empty array", &tsast.ArrayLit{}, "any[]"},
		{"array spread", &tsast.ArrayLit{Elems: []tsast.Expr{&tsast.Spread{X: ident("items")}}}, "Item[]"},
		{"object", &tsast.ObjectLit{Props: []*tsast.ObjectProp{{Key: "a", Value: num("1")}, {Key: "x", Shorthand: true}}}, "{ a: number; x: number; }"},
		{"new class", &tsast.New{Callee: ident("Player")}, "Player"},
		{"new map", &tsast.New{Callee: ident("Map"), TypeArgs: []tsast.Type{&tsast.Primitive{Name: "string"}, &tsast.Primitive{Name: "number"}}}, "Map<string, number>"},
		{"new set", &tsast.New{Callee: ident("Set")}, "Set<any>"},
		{"math call", &tsast.Call{Callee: &tsast.Member{X: ident("Math"), Name: "floor"}, Args: []tsast.Expr{ident("x")}}, "number"},
		{"math constant", &tsast.Member{X: ident("Math"), Name: "PI"}, "number"},
		{"function call", &tsast.Call{Callee: ident("f")}, "boolean"},
		{"method", &tsast.Call{Callee: &tsast.Member{X: ident("x"), Name: "toFixed"}, Args: []tsast.Expr{num("2")}}, "string"},
		{"length", &tsast.Member{X: ident("items"), Name: "length"}, "number"},
		{"optional length", &tsast.Member{X: ident("name"), Name: "length", Optional: true}, "number | undefined"},
		{"length of nullable", &tsast.Member{X: ident("name"), Name: "length"}, "number | undefined"},
		{"asserted length", &tsast.Member{X: &tsast.NonNull{X: ident("name")}, Name: "length"}, "number"},
		{"length in optional chain", &tsast.Member{X: &tsast.Member{X: &tsast.ThisExpr{}, Name: "label", Optional: true}, Name: "length"}, "number | undefined"},
		{"optional this property", &tsast.Member{X: &tsast.ThisExpr{}, Name: "speed", Optional: true}, "number | undefined"},
		{"this property", &tsast.Member{X: &tsast.ThisExpr{}, Name: "speed"}, "number"},
		{"index array", &tsast.Index{X: ident("items"), Index: num("0")}, "Item"},
		{"index tuple", &tsast.Index{X: ident("pair"), Index: num("1")}, "boolean"},
		{"non null", &tsast.NonNull{X: ident("name")}, "string"},
		{"as", &tsast.As{X: ident("x"), Type: &tsast.NamedRef{Name: "Node2D"}}, "Node2D"},
		{"await", &tsast.Await{X: ident("p")}, "string"},
		{"arrow", &tsast.Arrow{Params: []*tsast.Param{{Name: "a", Type: &tsast.Primitive{Name: "number"}}}, BodyExpr: &tsast.Binary{Op: "*", L: ident("a"), R: num("2")}}, "(arg0: number) => number"},
		{"unmodeled", &tsast.Unmodeled{Text: "a!.b"}, "any"},
	}

	inf := infer.NewInferer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inf.TypeOfExpr(tt.expr, env.Lookup(nil))
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestTypeOfExprNilLookup(t *testing.T) {
	got := infer.NewInferer().TypeOfExpr(ident("x"), nil)
	assert.Equal(t, "any", got.String())
}

func TestReturnType(t *testing.T) {
	inf := infer.NewInferer()

	body := &tsast.Block{Stmts: []tsast.Stmt{
		&tsast.VarStmt{Kind: tsast.VarConst, Decls: []*tsast.VarDeclarator{{Name: "total", Init: num("0")}}},
		&tsast.If{
			Cond: ident("ok"),
			Then: &tsast.Block{Stmts: []tsast.Stmt{&tsast.Return{X: ident("total")}}},
		},
		&tsast.Return{X: num("1")},
	}}
	assert.Equal(t, "number", inf.ReturnType(body, nil).String())

	empty := &tsast.Block{Stmts: []tsast.Stmt{&tsast.Return{}}}
	assert.Equal(t, "void", inf.ReturnType(empty, nil).String())

	async := &tsast.Arrow{Async: true, BodyBlock: &tsast.Block{Stmts: []tsast.Stmt{&tsast.Return{X: str("x")}}}}
	assert.Equal(t, "() => Promise<string>", inf.TypeOfExpr(async, nil).String())
}

func TestJoinAndWiden(t *testing.T) {
	n := &tsast.Primitive{Name: "number"}
	s := &tsast.Primitive{Name: "string"}

	assert.Equal(t, "number", infer.Join(nil, n).String())
	assert.Equal(t, "number", infer.Join(n, n).String())
	assert.Equal(t, "number | string", infer.Join(infer.Join(n, s), s).String())

	lit := &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitString, Value: "a"}}
	assert.Equal(t, "string", infer.Widen(lit).String())
	assert.Equal(t, "string[]", infer.Widen(&tsast.ArrayOf{Elem: lit}).String())

	nullable := &tsast.UnionOf{Members: []tsast.Type{s, &tsast.Primitive{Name: "null"}}}
	assert.Equal(t, "string", infer.StripNullish(nullable).String())
}
