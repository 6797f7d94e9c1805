package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tscs/internal/tsast"
	"martianoff/tscs/tscserr"
)

func parse(t *testing.T, path, src string) *tsast.File {
	t.Helper()
	f, err := NewTreeSitterParser().Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return f
}

func TestTreeSitterParser(t *testing.T) {
	p := NewTreeSitterParser()

	tests := []struct {
		name    string
		path    string
		input   string
		wantErr bool
	}{
		{
			name:  "Const declaration",
			input: `const x = 10;`,
		},
		{
			name:  "Function declaration",
			input: `function add(a: number, b: number): number { return a + b; }`,
		},
		{
			name:  "Arrow function",
			input: `const f = (x: number) => x * x;`,
		},
		{
			name:  "Generic class",
			input: `class Box<T> { value: T; constructor(v: T) { this.value = v; } }`,
		},
		{
			name: "Interface and union alias",
			input: `interface A { kind: "a"; x: number }
type U = A | { kind: "b"; y?: string };`,
		},
		{
			name:  "TSX element",
			path:  "view.tsx",
			input: `const el = <div>{x}</div>;`,
		},
		{
			name:    "Missing initializer",
			input:   `let x = ;`,
			wantErr: true,
		},
		{
			name:    "Unclosed class body",
			input:   `class A { foo() {}`,
			wantErr: true,
		},
		{
			name:    "Broken parameter list",
			input:   `function f(a: number, { }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = "input.ts"
			}
			_, err := p.Parse(context.Background(), path, []byte(tt.input))
			if tt.wantErr {
				var syntaxErr *tscserr.SyntaxError
				require.ErrorAs(t, err, &syntaxErr)
				assert.Equal(t, 1, syntaxErr.Line)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseImports(t *testing.T) {
	f := parse(t, "main.ts", `import { Node2D } from "godot";
import type { A as B } from "./a";
import * as util from "./util";
import def from "../def";
import "./side";
`)

	require.Len(t, f.Decls, 5)
	imports := make([]*tsast.ImportDecl, len(f.Decls))
	for i, d := range f.Decls {
		imp, ok := d.(*tsast.ImportDecl)
		require.True(t, ok, "decl %d is %T", i, d)
		imports[i] = imp
	}

	assert.Equal(t, "godot", imports[0].Module)
	assert.Equal(t, []tsast.ImportSpec{{Name: "Node2D"}}, imports[0].Named)
	assert.True(t, imports[1].TypeOnly)
	assert.Equal(t, []tsast.ImportSpec{{Name: "A", Alias: "B"}}, imports[1].Named)
	assert.Equal(t, "util", imports[2].Namespace)
	assert.Equal(t, "def", imports[3].Default)
	assert.Equal(t, "../def", imports[3].Module)
	assert.True(t, imports[4].IsSideEffect())
	assert.Equal(t, 5, imports[4].Line)
}

func TestParseClass(t *testing.T) {
	f := parse(t, "player.ts", `@tool
export class Player extends Node2D {
  speed: number = 200;
  private readonly tag?: string;
  constructor(public hp: number) { super(); }
  get alive(): boolean { return this.hp > 0; }
  async load(path: string): Promise<void> {}
  static create(...args: number[]): Player { return new Player(1); }
}
`)

	require.Len(t, f.Decls, 1)
	cls, ok := f.Decls[0].(*tsast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "Player", cls.Name)
	assert.True(t, cls.Exported)
	require.Len(t, cls.Decorators, 1)
	assert.Equal(t, "tool", cls.Decorators[0].Name)
	assert.Equal(t, &tsast.NamedRef{Pos: cls.Extends.Position(), Name: "Node2D"}, cls.Extends)
	require.Len(t, cls.Members, 6)

	speed := cls.Members[0].(*tsast.PropertyDecl)
	assert.Equal(t, "speed", speed.Name)
	assert.Equal(t, "number", speed.Type.String())
	assert.Equal(t, "200", speed.Init.(*tsast.NumberLit).Text)

	tag := cls.Members[1].(*tsast.PropertyDecl)
	assert.Equal(t, tsast.AccessPrivate, tag.Modifiers.Access)
	assert.True(t, tag.Modifiers.Readonly)
	assert.True(t, tag.Optional)

	ctor := cls.Members[2].(*tsast.ConstructorDecl)
	require.Len(t, ctor.Params, 1)
	assert.True(t, ctor.Params[0].IsParameterProperty())
	assert.Equal(t, "hp", ctor.Params[0].Name)
	call := ctor.Body.Stmts[0].(*tsast.ExprStmt).X.(*tsast.Call)
	assert.IsType(t, &tsast.SuperExpr{}, call.Callee)

	getter := cls.Members[3].(*tsast.AccessorDecl)
	assert.Equal(t, tsast.Getter, getter.Kind)
	assert.Equal(t, "alive", getter.Name)

	load := cls.Members[4].(*tsast.MethodDecl)
	assert.True(t, load.Async)
	assert.Equal(t, "Promise<void>", load.Returns.String())

	create := cls.Members[5].(*tsast.MethodDecl)
	assert.True(t, create.Modifiers.Static)
	require.Len(t, create.Params, 1)
	assert.True(t, create.Params[0].Rest)
	assert.Equal(t, "args", create.Params[0].Name)
	assert.Equal(t, "number[]", create.Params[0].Type.String())
}

func TestParseTypes(t *testing.T) {
	f := parse(t, "types.ts", `type Shape = { kind: "circle"; radius: number } | { kind: "square"; size: number } | null;
type Fn = (a: number, b?: string) => void;
type Pair = [number, string];
type Index = Map<string, number[]>;
type Both = A & B;
`)

	require.Len(t, f.Decls, 5)
	aliases := make(map[string]tsast.Type)
	for _, d := range f.Decls {
		a := d.(*tsast.TypeAliasDecl)
		aliases[a.Name] = a.Type
	}

	shape := aliases["Shape"].(*tsast.UnionOf)
	require.Len(t, shape.Members, 3)
	circle := shape.Members[0].(*tsast.ObjectOf)
	require.Len(t, circle.Properties, 2)
	assert.Equal(t, tsast.Literal{Kind: tsast.LitString, Value: "circle"}, circle.Properties[0].Type.(*tsast.LiteralOf).Value)
	assert.True(t, tsast.IsNullish(shape.Members[2]))

	fn := aliases["Fn"].(*tsast.FunctionOf)
	assert.Len(t, fn.Params, 2)
	assert.Equal(t, "void", fn.Returns.String())

	assert.Equal(t, "[number, string]", aliases["Pair"].String())
	assert.Equal(t, "Map<string, number[]>", aliases["Index"].String())

	both, ok := aliases["Both"].(*tsast.UnsupportedType)
	require.True(t, ok)
	assert.Equal(t, "A & B", both.Text)
}

func TestParseStatements(t *testing.T) {
	f := parse(t, "stats.ts", `export function tally(items: number[]): number {
  let total = 0;
  for (let i = 0; i < items.length; i++) { total += items[i] ** 2; }
  for (const x of items) { if (x === 0) { continue; } }
  for (const k in lookup) {}
  switch (total) { case 1: case 2: return 1; default: break; }
  try { g(); } catch (e) { throw e; } finally { h(); }
  const s = `+"`a${total}b\\n`"+`;
  return total / 2;
}
`)

	require.Len(t, f.Decls, 1)
	fn := f.Decls[0].(*tsast.FunctionDecl)
	assert.True(t, fn.Exported)
	assert.Equal(t, "tally", fn.Name)
	stmts := fn.Body.Stmts
	require.Len(t, stmts, 8)

	total := stmts[0].(*tsast.VarStmt)
	assert.Equal(t, tsast.VarLet, total.Kind)

	loop := stmts[1].(*tsast.For)
	assert.Equal(t, tsast.VarLet, loop.Init.(*tsast.VarStmt).Kind)
	assert.Equal(t, "<", loop.Cond.(*tsast.Binary).Op)
	update := loop.Update.(*tsast.Update)
	assert.Equal(t, "++", update.Op)
	assert.False(t, update.Prefix)
	assign := loop.Body.(*tsast.Block).Stmts[0].(*tsast.ExprStmt).X.(*tsast.Assign)
	assert.Equal(t, "+=", assign.Op)
	assert.Equal(t, "**", assign.R.(*tsast.Binary).Op)

	forOf := stmts[2].(*tsast.ForOf)
	assert.Equal(t, "x", forOf.Name)
	assert.Equal(t, tsast.VarConst, forOf.Kind)
	assert.IsType(t, &tsast.ForIn{}, stmts[3])

	sw := stmts[4].(*tsast.Switch)
	require.Len(t, sw.Cases, 3)
	assert.Empty(t, sw.Cases[0].Body)
	assert.Len(t, sw.Cases[1].Body, 1)
	assert.Nil(t, sw.Cases[2].Test)

	try := stmts[5].(*tsast.Try)
	assert.Equal(t, "e", try.CatchParam)
	assert.NotNil(t, try.Catch)
	assert.NotNil(t, try.Finally)

	tmpl := stmts[6].(*tsast.VarStmt).Decls[0].Init.(*tsast.TemplateLit)
	assert.Equal(t, []string{"a", "b\n"}, tmpl.Quasis)
	assert.Len(t, tmpl.Exprs, 1)

	ret := stmts[7].(*tsast.Return)
	assert.Equal(t, "/", ret.X.(*tsast.Binary).Op)
}

func TestParseEnumAndExpressions(t *testing.T) {
	f := parse(t, "misc.ts", `enum Color { Red, Green = "g" }
const v = a?.b ?? c!;
const w = [1, 2] as const;
const o = { a: 1, b, ...rest, "quoted key": 'it\'s' };
export { v };
`)

	require.Len(t, f.Decls, 4)
	enum := f.Decls[0].(*tsast.EnumDecl)
	require.Len(t, enum.Members, 2)
	assert.Nil(t, enum.Members[0].Init)
	assert.Equal(t, "g", enum.Members[1].Init.(*tsast.StringLit).Value)

	vDecl := f.Decls[1].(*tsast.StmtDecl)
	assert.True(t, vDecl.Exported, "export clause marks the declaration")
	coalesce := vDecl.Stmt.(*tsast.VarStmt).Decls[0].Init.(*tsast.Binary)
	assert.Equal(t, "??", coalesce.Op)
	assert.True(t, coalesce.L.(*tsast.Member).Optional)
	assert.IsType(t, &tsast.NonNull{}, coalesce.R)

	as := f.Decls[2].(*tsast.StmtDecl).Stmt.(*tsast.VarStmt).Decls[0].Init.(*tsast.As)
	assert.Equal(t, "const", as.Type.String())

	obj := f.Decls[3].(*tsast.StmtDecl).Stmt.(*tsast.VarStmt).Decls[0].Init.(*tsast.ObjectLit)
	require.Len(t, obj.Props, 4)
	assert.True(t, obj.Props[1].Shorthand)
	assert.True(t, obj.Props[2].Spread)
	assert.Equal(t, "quoted key", obj.Props[3].Key)
	assert.Equal(t, "it's", obj.Props[3].Value.(*tsast.StringLit).Value)
}

func TestParseNonNullBindsToOperand(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, e tsast.Expr)
	}{
		{
			name: "nullish right operand",
			src:  "a?.b ?? c!",
			check: func(t *testing.T, e tsast.Expr) {
				b := e.(*tsast.Binary)
				assert.Equal(t, "??", b.Op)
				assert.IsType(t, &tsast.Member{}, b.L)
				assert.Equal(t, "c", b.R.(*tsast.NonNull).X.(*tsast.Ident).Name)
			},
		},
		{
			name: "conditional else branch",
			src:  "ok ? x : y!",
			check: func(t *testing.T, e tsast.Expr) {
				c := e.(*tsast.Conditional)
				assert.IsType(t, &tsast.Ident{}, c.Then)
				assert.IsType(t, &tsast.NonNull{}, c.Else)
			},
		},
		{
			name: "prefix operator",
			src:  "-n!",
			check: func(t *testing.T, e tsast.Expr) {
				u := e.(*tsast.Unary)
				assert.Equal(t, "-", u.Op)
				assert.IsType(t, &tsast.NonNull{}, u.X)
			},
		},
		{
			name: "parenthesized",
			src:  "(a ?? b)!",
			check: func(t *testing.T, e tsast.Expr) {
				assert.IsType(t, &tsast.Paren{}, e.(*tsast.NonNull).X)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parse(t, "nonnull.ts", "const v = "+tt.src+";\n")
			require.Len(t, f.Decls, 1)
			tt.check(t, f.Decls[0].(*tsast.StmtDecl).Stmt.(*tsast.VarStmt).Decls[0].Init)
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`\x41B\u{1F600}`, "AB\U0001F600"},
		{`quote\"s`, `quote"s`},
		{`dollar\${x}`, "dollar${x}"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unescape(tt.in))
		})
	}
}
