package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/generator"
)

var (
	float  = csast.BasicType{Name: "float"}
	public = csast.Modifiers{Access: "public"}
)

func TestCSharpCodeGenerator_Generate(t *testing.T) {
	g := generator.NewCSharpCodeGenerator()

	tests := []struct {
		name     string
		file     *csast.File
		expected string
	}{
		{
			name: "class with header, usings and namespace",
			file: &csast.File{
				Header:    []string{"<auto-generated />"},
				Usings:    []string{"Godot", "System.Collections.Generic", "System", "Godot"},
				Namespace: "Game.Actors",
				Decls: []csast.Decl{
					&csast.TypeDecl{
						Attributes: []*csast.Attribute{{Name: "GlobalClass"}},
						Modifiers:  csast.Modifiers{Access: "public", Partial: true},
						Name:       "Player",
						Bases:      []csast.Type{csast.NamedType{Name: "Node2D", Namespace: "Godot"}},
						Members: []csast.Member{
							&csast.PropertyDecl{
								Attributes: []*csast.Attribute{{Name: "Export"}},
								Modifiers:  public,
								Type:       float,
								Name:       "Speed",
								Getter:     &csast.Accessor{},
								Setter:     &csast.Accessor{},
								Init:       &csast.Literal{Text: "200f"},
							},
							&csast.PropertyDecl{Modifiers: public, Type: csast.String, Name: "Name", Getter: &csast.Accessor{}, Setter: &csast.Accessor{}},
							&csast.PropertyDecl{Modifiers: public, Type: csast.Bool, Name: "Ready", Getter: &csast.Accessor{}},
							&csast.MethodDecl{
								Modifiers: csast.Modifiers{Access: "public", Override: true},
								Returns:   csast.Void,
								Name:      "_Process",
								Params:    []*csast.Param{{Type: csast.BasicType{Name: "double"}, Name: "delta"}},
								Body: &csast.Block{Stmts: []csast.Stmt{
									&csast.ExprStmt{X: &csast.Call{Fun: csast.Sel("GD", "Print"), Args: []csast.Expr{&csast.StringLit{Value: "tick"}}}},
								}},
							},
						},
					},
				},
			},
			expected: `// <auto-generated />

using System;
using System.Collections.Generic;
using Godot;

namespace Game.Actors;

[GlobalClass]
public partial class Player : Node2D
{
    [Export]
    public float Speed { get; set; } = 200f;

    public string Name { get; set; }
    public bool Ready { get; }

    public override void _Process(double delta)
    {
        GD.Print("tick");
    }
}
`,
		},
		{
			name: "enum and abstract hierarchy",
			file: &csast.File{
				Decls: []csast.Decl{
					&csast.EnumDecl{
						Modifiers: public,
						Name:      "Direction",
						Members:   []*csast.EnumMember{{Name: "Up"}, {Name: "Down", Value: &csast.Literal{Text: "5"}}},
					},
					&csast.TypeDecl{
						Modifiers: csast.Modifiers{Access: "public", Abstract: true, Partial: true},
						Name:      "Shape",
						Members: []csast.Member{
							&csast.PropertyDecl{Modifiers: csast.Modifiers{Access: "public", Abstract: true}, Type: csast.String, Name: "Kind", Getter: &csast.Accessor{}},
						},
					},
					&csast.TypeDecl{
						Modifiers: csast.Modifiers{Access: "public", Sealed: true, Partial: true},
						Name:      "Circle",
						Bases:     []csast.Type{csast.NamedType{Name: "Shape"}},
						Members: []csast.Member{
							&csast.PropertyDecl{Modifiers: csast.Modifiers{Access: "public", Override: true}, Type: csast.String, Name: "Kind", ExprBody: &csast.StringLit{Value: "circle"}},
							&csast.FieldDecl{Modifiers: public, Type: float, Name: "Radius"},
						},
					},
				},
			},
			expected: `public enum Direction
{
    Up,
    Down = 5
}

public abstract partial class Shape
{
    public abstract string Kind { get; }
}

public sealed partial class Circle : Shape
{
    public override string Kind => "circle";
    public float Radius;
}
`,
		},
		{
			name: "constructor and statements",
			file: &csast.File{
				Decls: []csast.Decl{
					&csast.TypeDecl{
						Modifiers: csast.Modifiers{Access: "public", Partial: true},
						Name:      "Enemy",
						Bases:     []csast.Type{csast.NamedType{Name: "Actor"}},
						Members: []csast.Member{
							&csast.CtorDecl{
								Modifiers:   public,
								Name:        "Enemy",
								Params:      []*csast.Param{{Type: csast.String, Name: "name"}, {Type: float, Name: "hp", Default: &csast.Literal{Text: "10"}}},
								Initializer: &csast.CtorInitializer{Keyword: "base", Args: []csast.Expr{csast.NewIdent("name")}},
								Body: &csast.Block{Stmts: []csast.Stmt{
									&csast.LocalDecl{Name: "items", Init: &csast.New{Type: csast.GenericType{Name: "List", Args: []csast.Type{float}}}},
									&csast.For{
										Init:    &csast.LocalDecl{Type: csast.BasicType{Name: "int"}, Name: "i", Init: &csast.Literal{Text: "0"}},
										Cond:    &csast.Binary{Op: "<", L: csast.NewIdent("i"), R: &csast.Selector{X: csast.NewIdent("items"), Name: "Count"}},
										Updates: []csast.Expr{&csast.Postfix{Op: "++", X: csast.NewIdent("i")}},
										Body:    &csast.Block{Stmts: []csast.Stmt{&csast.Continue{}}},
									},
									&csast.If{
										Cond: &csast.Binary{Op: "==", L: csast.NewIdent("hp"), R: &csast.Literal{Text: "0"}},
										Then: &csast.Block{Stmts: []csast.Stmt{&csast.Return{}}},
										Else: &csast.If{
											Cond: &csast.Unary{Op: "!", X: csast.NewIdent("alive")},
											Then: &csast.Block{Stmts: []csast.Stmt{&csast.Throw{X: &csast.New{Type: csast.NamedType{Name: "Exception"}, Args: []csast.Expr{&csast.StringLit{Value: "dead"}}}}}},
											Else: &csast.Block{Stmts: []csast.Stmt{&csast.ExprStmt{X: &csast.Assign{Op: "-=", L: csast.NewIdent("hp"), R: &csast.Literal{Text: "1"}}}}},
										},
									},
									&csast.Switch{
										Tag: csast.NewIdent("state"),
										Sections: []*csast.SwitchSection{
											{Labels: []csast.Expr{&csast.StringLit{Value: "a"}, &csast.StringLit{Value: "b"}}, Body: []csast.Stmt{&csast.Break{}}},
											{Body: []csast.Stmt{&csast.Break{}}},
										},
									},
								}},
							},
						},
					},
				},
			},
			expected: `public partial class Enemy : Actor
{
    public Enemy(string name, float hp = 10) : base(name)
    {
        var items = new List<float>();
        for (int i = 0; i < items.Count; i++)
        {
            continue;
        }
        if (hp == 0)
        {
            return;
        }
        else if (!alive)
        {
            throw new Exception("dead");
        }
        else
        {
            hp -= 1;
        }
        switch (state)
        {
            case "a":
            case "b":
                break;
            default:
                break;
        }
    }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Generate(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGenerateExpressions(t *testing.T) {
	g := generator.NewCSharpCodeGenerator()
	x, y, z := csast.NewIdent("x"), csast.NewIdent("y"), csast.NewIdent("z")

	tests := []struct {
		name     string
		expr     csast.Expr
		expected string
	}{
		{"precedence kept", &csast.Binary{Op: "*", L: &csast.Binary{Op: "+", L: x, R: y}, R: z}, "(x + y) * z"},
		{"no redundant parens", &csast.Binary{Op: "+", L: &csast.Binary{Op: "*", L: x, R: y}, R: z}, "x * y + z"},
		{"right operand", &csast.Binary{Op: "-", L: x, R: &csast.Binary{Op: "-", L: y, R: z}}, "x - (y - z)"},
		{"coalesce", &csast.Binary{Op: "??", L: x, R: &csast.Binary{Op: "??", L: y, R: z}}, "x ?? y ?? z"},
		{"conditional", &csast.Conditional{Cond: x, Then: y, Else: &csast.Conditional{Cond: y, Then: z, Else: x}}, "x ? y : y ? z : x"},
		{"cast", &csast.Cast{Type: csast.NamedType{Name: "Node2D"}, X: &csast.Selector{X: x, Name: "Parent"}}, "(Node2D)x.Parent"},
		{"cast binary", &csast.Cast{Type: csast.BasicType{Name: "int"}, X: &csast.Binary{Op: "+", L: x, R: y}}, "(int)(x + y)"},
		{"member of cast", &csast.Selector{X: &csast.Cast{Type: csast.NamedType{Name: "Node2D"}, X: x}, Name: "Position"}, "((Node2D)x).Position"},
		{"optional chain", &csast.Call{Fun: &csast.Selector{X: &csast.Selector{X: x, Name: "Target", Conditional: true}, Name: "Invoke", Conditional: true}}, "x?.Target?.Invoke()"},
		{"conditional index", &csast.Index{X: x, Index: &csast.Literal{Text: "0"}, Conditional: true}, "x?[0]"},
		{"double negation", &csast.Unary{Op: "-", X: &csast.Unary{Op: "-", X: x}}, "- -x"},
		{"is", &csast.Unary{Op: "!", X: &csast.Is{X: x, Type: csast.NamedType{Name: "Enemy"}}}, "!(x is Enemy)"},
		{"suppress null", &csast.Selector{X: &csast.SuppressNull{X: x}, Name: "Name"}, "x!.Name"},
		{"string escapes", &csast.StringLit{Value: "a\"b\\c\n"}, `"a\"b\\c\n"`},
		{"interpolation", &csast.Interpolated{Parts: []csast.InterpPart{{Text: "hp {"}, {X: x}, {Text: "} "}, {X: &csast.Conditional{Cond: y, Then: x, Else: z}}}}, `$"hp {{{x}}} {(y ? x : z)}"`},
		{"collection", &csast.CollectionExpr{Elems: []csast.Expr{x, &csast.Spread{X: y}}}, "[x, ..y]"},
		{"object initializer", &csast.New{Type: csast.NamedType{Name: "Point"}, Inits: []*csast.MemberInit{{Name: "X", Value: &csast.Literal{Text: "1"}}}}, "new Point { X = 1 }"},
		{"anonymous", &csast.New{Inits: []*csast.MemberInit{{Name: "A", Value: x}}}, "new { A = x }"},
		{"lambda", &csast.Lambda{Params: []*csast.Param{{Name: "a"}}, BodyExpr: &csast.Binary{Op: "*", L: csast.NewIdent("a"), R: &csast.Literal{Text: "2"}}}, "a => a * 2"},
		{"typed lambda", &csast.Lambda{Params: []*csast.Param{{Type: float, Name: "a"}, {Type: float, Name: "b"}}, BodyExpr: x}, "(float a, float b) => x"},
		{"await", &csast.Await{X: &csast.Call{Fun: x}}, "await x()"},
		{"generic call", &csast.Call{Fun: csast.NewIdent("GetNode"), TypeArgs: []csast.Type{csast.NamedType{Name: "Sprite2D"}}, Args: []csast.Expr{&csast.StringLit{Value: "Sprite"}}}, `GetNode<Sprite2D>("Sprite")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := &csast.File{Decls: []csast.Decl{&csast.TypeDecl{
				Name: "T",
				Members: []csast.Member{&csast.MethodDecl{
					Returns: csast.Void,
					Name:    "M",
					Body:    &csast.Block{Stmts: []csast.Stmt{&csast.ExprStmt{X: tt.expr}}},
				}},
			}}}
			got, err := g.Generate(file)
			require.NoError(t, err)
			assert.Equal(t, "class T\n{\n    void M()\n    {\n        "+tt.expected+";\n    }\n}\n", got)
		})
	}
}

func TestBlockLambda(t *testing.T) {
	g := generator.NewCSharpCodeGenerator()
	file := &csast.File{Decls: []csast.Decl{&csast.TypeDecl{
		Name: "T",
		Members: []csast.Member{&csast.MethodDecl{
			Returns: csast.Void,
			Name:    "M",
			Body: &csast.Block{Stmts: []csast.Stmt{
				&csast.LocalDecl{
					Type: csast.NamedType{Name: "Action"},
					Name: "done",
					Init: &csast.Lambda{BodyBlock: &csast.Block{Stmts: []csast.Stmt{&csast.Return{}}}},
				},
			}},
		}},
	}}}

	got, err := g.Generate(file)
	require.NoError(t, err)
	assert.Equal(t, `class T
{
    void M()
    {
        Action done = () =>
        {
            return;
        };
    }
}
`, got)
}

func TestGenerateRejectsUnknownNodes(t *testing.T) {
	_, err := generator.NewCSharpCodeGenerator().Generate(nil)
	assert.Error(t, err)
}

func TestSortUsings(t *testing.T) {
	assert.Equal(t,
		[]string{"System", "System.Linq", "Game.Util", "Godot"},
		generator.SortUsings([]string{"Godot", "System.Linq", "Game.Util", "System", "Godot", ""}))
}
