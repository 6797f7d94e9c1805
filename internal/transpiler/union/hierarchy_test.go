package union_test

import (
	"sort"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/typemap"
	"martianoff/tscs/internal/transpiler/union"
	"martianoff/tscs/internal/tsast"
)

func mapper() *typemap.Mapper {
	return typemap.NewMapper(transpiler.DefaultTypeMappingConfig(), nil)
}

func classNames(plan *union.Plan) []string {
	out := make([]string, len(plan.Variants))
	for i, v := range plan.Variants {
		out[i] = v.ClassName
	}
	return out
}

func ownNames(v *union.VariantPlan) []string {
	var out []string
	for _, p := range v.Own {
		out = append(out, p.Name)
	}
	return out
}

func TestScenarioStringDiscriminant(t *testing.T) {
	variants := []*union.Variant{
		shape(prop("kind", str("circle")), prop("radius", prim("number"))),
		shape(prop("kind", str("square")), prop("size", prim("number"))),
	}

	plan, ok := union.NewAnalyzer().BuildPlan("Shape", variants, transpiler.NewDiagnostics())
	require.True(t, ok)
	assert.Equal(t, "kind", plan.Discriminant.Property)
	assert.Equal(t, union.DomainString, plan.Discriminant.Domain)
	assert.Empty(t, plan.Shared)
	assert.Equal(t, []string{"Circle", "Square"}, classNames(plan))
	assert.Equal(t, []string{"radius"}, ownNames(plan.Variants[0]))
	assert.Equal(t, []string{"size"}, ownNames(plan.Variants[1]))

	decls := union.Synthesize(plan, mapper())
	require.Len(t, decls, 3)

	base := decls[0].(*csast.TypeDecl)
	assert.Equal(t, "Shape", base.Name)
	assert.True(t, base.Modifiers.Abstract)
	kind := base.Members[0].(*csast.PropertyDecl)
	assert.Equal(t, "Kind", kind.Name)
	assert.Equal(t, "string", kind.Type.String())
	assert.True(t, kind.Modifiers.Abstract)
	assert.NotNil(t, kind.Getter)
	assert.Nil(t, kind.Setter)

	circle := decls[1].(*csast.TypeDecl)
	assert.Equal(t, "Circle", circle.Name)
	assert.Equal(t, "Shape", circle.Bases[0].String())
	override := circle.Members[0].(*csast.PropertyDecl)
	assert.True(t, override.Modifiers.Override)
	assert.Equal(t, &csast.StringLit{Value: "circle"}, override.ExprBody)
	radius := circle.Members[1].(*csast.FieldDecl)
	assert.Equal(t, "Radius", radius.Name)
	assert.Equal(t, "float", radius.Type.String())
}

func TestScenarioNumberDiscriminant(t *testing.T) {
	variants := []*union.Variant{
		shape(prop("code", num("1")), prop("payload", prim("string"))),
		shape(prop("code", num("2")), prop("error", prim("string"))),
	}

	plan, ok := union.NewAnalyzer().BuildPlan("Response", variants, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"Code1", "Code2"}, classNames(plan))

	decls := union.Synthesize(plan, mapper())
	base := decls[0].(*csast.TypeDecl)
	assert.Equal(t, "float", base.Members[0].(*csast.PropertyDecl).Type.String())
	override := decls[2].(*csast.TypeDecl).Members[0].(*csast.PropertyDecl)
	assert.Equal(t, &csast.Literal{Text: "2"}, override.ExprBody)
}

func TestVariantClassNames(t *testing.T) {
	tests := []struct {
		name     string
		disc     union.Discriminant
		value    union.Value
		expected string
	}{
		{"kebab string", union.Discriminant{Property: "state"}, union.Value{Domain: union.DomainString, Text: "in-progress"}, "InProgress"},
		{"screaming string", union.Discriminant{Property: "state"}, union.Value{Domain: union.DomainString, Text: "HTTP_ERROR"}, "HttpError"},
		{"digit string", union.Discriminant{Property: "mode"}, union.Value{Domain: union.DomainString, Text: "3d"}, "Mode3d"},
		{"empty string", union.Discriminant{Property: "mode"}, union.Value{Domain: union.DomainString, Text: ""}, "Mode"},
		{"number", union.Discriminant{Property: "code", Domain: union.DomainNumber}, union.Value{Domain: union.DomainNumber, Text: "404"}, "Code404"},
		{"fraction", union.Discriminant{Property: "code", Domain: union.DomainNumber}, union.Value{Domain: union.DomainNumber, Text: "-1.5"}, "CodeNeg1_5"},
		{"true", union.Discriminant{Property: "isOpen", Domain: union.DomainBoolean}, union.Value{Domain: union.DomainBoolean, Text: "true"}, "IsOpenTrue"},
		{"false", union.Discriminant{Property: "ok", Domain: union.DomainBoolean}, union.Value{Domain: union.DomainBoolean, Text: "false"}, "OkFalse"},
		{"enum", union.Discriminant{Property: "type", Domain: union.DomainEnum, Enum: "Kind"}, union.Value{Domain: union.DomainEnum, Text: "BigCircle", Enum: "Kind"}, "BigCircle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, union.VariantClassName(tt.disc, tt.value))
		})
	}
}

func TestClassNameCollisionsGetSuffix(t *testing.T) {
	variants := []*union.Variant{
		{Pos: tsast.Pos{Line: 2, Column: 5}, Properties: []union.Property{prop("kind", str("circle"))}},
		{Pos: tsast.Pos{Line: 3, Column: 5}, Properties: []union.Property{prop("kind", str("Circle"))}},
		{Pos: tsast.Pos{Line: 4, Column: 5}, Properties: []union.Property{prop("kind", str("CIRCLE"))}},
		{Pos: tsast.Pos{Line: 5, Column: 5}, Properties: []union.Property{prop("kind", str("shape"))}},
	}

	diags := transpiler.NewDiagnostics()
	plan, ok := union.NewAnalyzer().BuildPlan("Shape", variants, diags)
	require.True(t, ok)
	assert.Equal(t, []string{"Circle", "Circle2", "Circle3", "Shape2"}, classNames(plan))

	all := diags.All()
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Line)
	assert.Contains(t, all[0].Message, `"Circle"`)
	assert.Contains(t, all[0].Message, `value "circle"`)
	assert.Contains(t, all[2].Message, "the union type")
}

func TestBooleanAndEnumValues(t *testing.T) {
	cfg := transpiler.DefaultTypeMappingConfig()
	assert.Equal(t, &csast.Literal{Text: "true"}, union.ValueExpr(union.Value{Domain: union.DomainBoolean, Text: "true"}, cfg))
	assert.Equal(t, csast.Sel("Kind", "Circle"), union.ValueExpr(union.Value{Domain: union.DomainEnum, Enum: "Kind", Text: "Circle"}, cfg))

	assert.Equal(t, "1.5f", union.NumberLiteral("1.5", transpiler.Width32))
	assert.Equal(t, "1.5", union.NumberLiteral("1.5", transpiler.Width64))
	assert.Equal(t, "0x1F", union.NumberLiteral("0x1F", transpiler.Width32))
	assert.Equal(t, "1000", union.NumberLiteral("1_000", transpiler.Width32))

	m := mapper()
	assert.Equal(t, "Kind", union.DiscriminantType(union.Discriminant{Domain: union.DomainEnum, Enum: "Kind"}, m).String())
	assert.Equal(t, "string", union.DiscriminantType(union.Discriminant{Domain: union.DomainEnum, Enum: "Label", StringValued: true}, m).String())
	assert.Equal(t, "bool", union.DiscriminantType(union.Discriminant{Domain: union.DomainBoolean}, m).String())
}

// TestHierarchyCompleteness checks that every property of every variant ends up
// exactly once: as the discriminant, as a shared field or in the own fields
// of each variant that declares it.
func TestHierarchyCompleteness(t *testing.T) {
	variants := []*union.Variant{
		shape(prop("kind", str("a")), prop("x", prim("number")), prop("label", prim("string")), prop("onlyA", prim("boolean"))),
		shape(prop("kind", str("b")), prop("x", prim("number")), prop("label", prim("number")), prop("onlyB", prim("string"))),
		shape(prop("x", prim("number")), prop("kind", str("c")), prop("extra", prim("string")), prop("extra", prim("string"))),
	}

	plan, ok := union.NewAnalyzer().BuildPlan("Node", variants, nil)
	require.True(t, ok)

	decls := union.Synthesize(plan, mapper())
	require.Len(t, decls, len(variants)+1, spew.Sdump(plan))

	covered := map[string]bool{plan.Discriminant.Property: true}
	shared := map[string]bool{}
	for _, p := range plan.Shared {
		covered[p.Name] = true
		shared[p.Name] = true
	}
	for _, v := range plan.Variants {
		seen := map[string]bool{}
		for _, p := range v.Own {
			assert.False(t, seen[p.Name], "duplicate own property %s in %s", p.Name, v.ClassName)
			assert.False(t, shared[p.Name], "own property %s is also shared", p.Name)
			assert.NotEqual(t, plan.Discriminant.Property, p.Name)
			seen[p.Name] = true
			covered[p.Name] = true
		}
	}

	all := map[string]bool{}
	for _, v := range variants {
		for _, p := range v.Properties {
			all[p.Name] = true
		}
	}
	keys := func(m map[string]bool) []string {
		var out []string
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, keys(all), keys(covered), spew.Sdump(plan))
	assert.Equal(t, []string{"x"}, keys(shared))
}

func TestSynthesizeTagged(t *testing.T) {
	variants := []*union.Variant{
		shape(prop("kind", str("circle")), prop("radius", prim("number")), prop("value", prim("string"))),
		shape(prop("kind", str("square")), prop("size", prim("number")), prop("value", prim("number"))),
	}
	plan, ok := union.NewAnalyzer().BuildPlan("Shape", variants, nil)
	require.True(t, ok)

	decl := union.SynthesizeTagged(plan, mapper()).(*csast.TypeDecl)
	assert.Equal(t, csast.KindStruct, decl.Kind)

	var fieldsOut, props, methods []string
	for _, m := range decl.Members {
		switch m := m.(type) {
		case *csast.FieldDecl:
			fieldsOut = append(fieldsOut, m.Type.String()+" "+m.Name)
		case *csast.PropertyDecl:
			props = append(props, m.Name)
		case *csast.MethodDecl:
			methods = append(methods, m.Name)
		}
	}
	assert.Equal(t, []string{"string Kind", "float Radius", "string CircleValue", "float Size", "float SquareValue"}, fieldsOut)
	assert.Equal(t, []string{"IsCircle", "IsSquare"}, props)
	assert.Equal(t, []string{"NewCircle", "NewSquare"}, methods)
}

func TestReservedNamesGetSuffix(t *testing.T) {
	tests := []struct {
		name     string
		variants []*union.Variant
		reserved []string
		expected []string
		diags    []string
	}{
		{
			name: "declared class",
			variants: []*union.Variant{
				shape(prop("kind", str("circle"))),
				shape(prop("kind", str("square"))),
			},
			reserved: []string{"Circle", "Square2"},
			expected: []string{"Circle2", "Square"},
			diags:    []string{"declaration Circle"},
		},
		{
			name: "variant of an earlier union",
			variants: []*union.Variant{
				shape(prop("kind", str("a"))),
				shape(prop("kind", str("b"))),
			},
			reserved: []string{"A", "B", "B2"},
			expected: []string{"A2", "B3"},
			diags:    []string{"declaration A", "declaration B"},
		},
		{
			name: "consumed interface keeps its name",
			variants: []*union.Variant{
				{Name: "Circle", Properties: []union.Property{prop("kind", str("circle"))}},
				shape(prop("kind", str("square"))),
			},
			reserved: []string{"Circle"},
			expected: []string{"Circle", "Square"},
		},
		{
			name: "discriminant property",
			variants: []*union.Variant{
				shape(prop("kind", str("kind"))),
				shape(prop("kind", str("square"))),
			},
			expected: []string{"Kind2", "Square"},
			diags:    []string{"the discriminant property Kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := transpiler.NewDiagnostics()
			plan, ok := union.NewAnalyzer().BuildPlan("Shape", tt.variants, diags, tt.reserved...)
			require.True(t, ok)
			assert.Equal(t, tt.expected, classNames(plan))

			all := diags.All()
			require.Len(t, all, len(tt.diags))
			for i, want := range tt.diags {
				assert.Contains(t, all[i].Message, want)
			}
		})
	}
}

func TestMemberNamedLikeItsClass(t *testing.T) {
	variants := []*union.Variant{
		shape(prop("kind", str("radius")), prop("radius", prim("number")), prop("shape", prim("string"))),
		shape(prop("kind", str("square")), prop("size", prim("number")), prop("shape", prim("string"))),
	}
	plan, ok := union.NewAnalyzer().BuildPlan("Shape", variants, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"Radius", "Square"}, classNames(plan))

	assert.Equal(t, "RadiusValue", plan.MemberName("Radius", "radius"))
	assert.Equal(t, "ShapeValue", plan.MemberName("Radius", "shape"))
	assert.Equal(t, "Kind", plan.MemberName("Radius", "kind"))
	assert.Equal(t, "Size", plan.MemberName("Square", "size"))

	members := func(d csast.Decl) []string {
		var out []string
		for _, m := range d.(*csast.TypeDecl).Members {
			switch m := m.(type) {
			case *csast.FieldDecl:
				out = append(out, m.Name)
			case *csast.PropertyDecl:
				out = append(out, m.Name)
			}
		}
		return out
	}

	decls := union.Synthesize(plan, mapper())
	require.Len(t, decls, 3)
	assert.Equal(t, []string{"Kind", "ShapeValue"}, members(decls[0]))
	assert.Equal(t, []string{"Kind", "RadiusValue"}, members(decls[1]))
	assert.Equal(t, []string{"Kind", "Size"}, members(decls[2]))

	tagged := union.SynthesizeTagged(plan, mapper())
	assert.Equal(t, []string{"Kind", "ShapeValue", "Radius", "Size", "IsRadius", "IsSquare"}, members(tagged))
}

func TestEnumVariantMemberNamedLikeItsClass(t *testing.T) {
	a := union.NewAnalyzer(union.EnumInfo{Name: "E", Members: []string{"A", "B"}})
	variants := []*union.Variant{
		shape(prop("kind", ref("E.A")), prop("a", prim("number"))),
		shape(prop("kind", ref("E.B")), prop("b", prim("number"))),
	}
	plan, ok := a.BuildPlan("S", variants, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, classNames(plan))

	decls := union.Synthesize(plan, mapper())
	require.Len(t, decls, 3)
	for i, want := range []string{"AValue", "BValue"} {
		cls := decls[i+1].(*csast.TypeDecl)
		own := cls.Members[1].(*csast.FieldDecl)
		assert.Equal(t, want, own.Name, "fields of %s", cls.Name)
	}
}
