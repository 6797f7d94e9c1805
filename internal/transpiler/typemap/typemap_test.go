package typemap_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/typemap"
	"martianoff/tscs/internal/tsast"
)

func prim(name string) tsast.Type { return &tsast.Primitive{Name: name} }

func arr(t tsast.Type) tsast.Type { return &tsast.ArrayOf{Elem: t} }

func union(ts ...tsast.Type) tsast.Type { return &tsast.UnionOf{Members: ts} }

func generic(name string, args ...tsast.Type) tsast.Type {
	return &tsast.GenericRef{Name: name, Args: args}
}

func named(name string) tsast.Type { return &tsast.NamedRef{Name: name} }

func strLit(v string) tsast.Type {
	return &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitString, Value: v}}
}

func numLit(v string) tsast.Type {
	return &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitNumber, Value: v}}
}

func config(o transpiler.TypeMappingOverrides) *transpiler.TypeMappingConfig {
	return transpiler.NewTypeMappingConfig(o)
}

func TestMapTypeDefaults(t *testing.T) {
	cfg := transpiler.DefaultTypeMappingConfig()
	tests := []struct {
		name     string
		input    tsast.Type
		expected string
	}{
		{"string", prim("string"), "string"},
		{"number", prim("number"), "float"},
		{"boolean", prim("boolean"), "bool"},
		{"any", prim("any"), "object"},
		{"unknown", prim("unknown"), "object"},
		{"void", prim("void"), "void"},
		{"bigint", prim("bigint"), "long"},
		{"missing annotation", nil, "object"},
		{"string literal", strLit("circle"), "string"},
		{"number literal", numLit("1"), "float"},
		{"boolean literal", &tsast.LiteralOf{Value: tsast.Literal{Kind: tsast.LitBoolean, Value: "true"}}, "bool"},
		{"array", arr(prim("number")), "float[]"},
		{"generic Array", generic("Array", prim("string")), "string[]"},
		{"map", generic("Map", prim("string"), prim("number")), "Dictionary<string, float>"},
		{"record", generic("Record", prim("string"), prim("boolean")), "Dictionary<string, bool>"},
		{"set", generic("Set", prim("string")), "HashSet<string>"},
		{"readonly array", generic("ReadonlyArray", prim("string")), "IReadOnlyList<string>"},
		{"weak map", generic("WeakMap", named("Node"), prim("string")), "ConditionalWeakTable<Node, string>"},
		{"weak set", generic("WeakSet", named("Node")), "ConditionalWeakTable<Node, object>"},
		{"weak ref", generic("WeakRef", named("Node")), "WeakReference<Node>"},
		{"promise", generic("Promise", prim("string")), "Task<string>"},
		{"promise void", generic("Promise", prim("void")), "Task"},
		{"unknown generic", generic("Box", arr(prim("number"))), "Box<float[]>"},
		{"tuple", &tsast.TupleOf{Elems: []tsast.Type{prim("string"), prim("number"), prim("boolean")}}, "(string, float, bool)"},
		{"single tuple", &tsast.TupleOf{Elems: []tsast.Type{prim("string")}}, "ValueTuple<string>"},
		{"action", &tsast.FunctionOf{Returns: prim("void")}, "Action"},
		{"action with params", &tsast.FunctionOf{Params: []tsast.Type{prim("string"), prim("number")}, Returns: prim("void")}, "Action<string, float>"},
		{"func", &tsast.FunctionOf{Params: []tsast.Type{prim("string")}, Returns: prim("boolean")}, "Func<string, bool>"},
		{"func without params", &tsast.FunctionOf{Returns: prim("number")}, "Func<float>"},
		{"unresolved named", named("Player"), "Player"},
		{"typed buffer", named("Uint8Array"), "byte[]"},
		{"error", named("Error"), "Exception"},
		{"inline object", &tsast.ObjectOf{}, "object"},
		{"unsupported", &tsast.UnsupportedType{Text: "A & B"}, "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, typemap.MapType(tt.input, cfg).String())
		})
	}
}

func TestMapTypeUnions(t *testing.T) {
	cfg := transpiler.DefaultTypeMappingConfig()
	tests := []struct {
		name     string
		input    tsast.Type
		expected string
	}{
		{"nullable string", union(prim("string"), prim("null")), "string?"},
		{"undefined", union(prim("number"), prim("undefined")), "float?"},
		{"null first", union(prim("null"), named("Player")), "Player?"},
		{"two members", union(prim("string"), prim("number")), "object"},
		{"two members and null", union(prim("string"), prim("number"), prim("null")), "object"},
		{"literal domain", union(strLit("a"), strLit("b")), "string"},
		{"only null", union(prim("null"), prim("undefined")), "object"},
		{"nested", union(union(prim("string"), prim("null")), prim("undefined")), "string?"},
		{"array of nullable", arr(union(prim("string"), prim("null"))), "string?[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, typemap.MapType(tt.input, cfg).String())
		})
	}
}

func TestNullableReductionIsIdempotent(t *testing.T) {
	cfg := transpiler.DefaultTypeMappingConfig()
	for _, base := range []tsast.Type{prim("string"), prim("number"), named("Player"), arr(prim("boolean")), generic("Map", prim("string"), prim("number"))} {
		once := typemap.MapType(union(base, prim("null")), cfg)
		twice := typemap.MapType(union(base, prim("null"), prim("null")), cfg)
		mixed := typemap.MapType(union(base, prim("null"), prim("undefined")), cfg)

		assert.Empty(t, cmp.Diff(once.String(), twice.String()), base.String())
		assert.Empty(t, cmp.Diff(once.String(), mixed.String()), base.String())
		assert.Equal(t, csast.Nullable(typemap.MapType(base, cfg)).String(), once.String())
		assert.NotEqual(t, "object", once.String())
	}
}

func TestArrayNesting(t *testing.T) {
	tests := []struct {
		strategy transpiler.ArrayStrategy
		wrap     func(string) string
	}{
		{transpiler.ArrayNative, func(s string) string { return s + "[]" }},
		{transpiler.ArrayList, func(s string) string { return "List<" + s + ">" }},
		{transpiler.ArrayFramework, func(s string) string { return "Godot.Collections.Array<" + s + ">" }},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			cfg := config(transpiler.TypeMappingOverrides{Arrays: tt.strategy})
			var src tsast.Type = prim("number")
			expected := "float"
			for depth := 1; depth <= 4; depth++ {
				src = arr(src)
				expected = tt.wrap(expected)
				assert.Equal(t, expected, typemap.MapType(src, cfg).String(), "depth %d", depth)
			}
		})
	}

	cfg := config(transpiler.TypeMappingOverrides{Arrays: transpiler.ArrayNative})
	assert.Equal(t, "float[][]", typemap.MapType(arr(arr(prim("number"))), cfg).String())
}

func TestConfigurationPolicies(t *testing.T) {
	wide := config(transpiler.TypeMappingOverrides{NumericWidth: transpiler.Width64})
	assert.Equal(t, "double", typemap.MapType(prim("number"), wide).String())
	assert.Equal(t, "double[]", typemap.MapType(arr(numLit("3")), wide).String())

	aliased := config(transpiler.TypeMappingOverrides{PrimitiveAliases: map[string]string{"any": "Variant"}})
	assert.Equal(t, "Variant", typemap.MapType(prim("any"), aliased).String())
	assert.Equal(t, "string", typemap.MapType(prim("string"), aliased).String())

	span := config(transpiler.TypeMappingOverrides{TypedBuffers: transpiler.BufferSpan})
	assert.Equal(t, "Span<float>", typemap.MapType(named("Float32Array"), span).String())

	framework := config(transpiler.TypeMappingOverrides{Arrays: transpiler.ArrayFramework})
	assert.Equal(t, "Godot.Collections.Dictionary<string, float>",
		typemap.MapType(generic("Map", prim("string"), prim("number")), framework).String())
	assert.Equal(t, "HashSet<string>", typemap.MapType(generic("Set", prim("string")), framework).String())
}

func TestMapTypeDoesNotMutateConfig(t *testing.T) {
	cfg := transpiler.DefaultTypeMappingConfig()
	before := cfg.PrimitiveAliases()
	typemap.MapType(union(prim("string"), prim("null")), cfg)
	typemap.MapType(arr(arr(prim("number"))), cfg)
	assert.Empty(t, cmp.Diff(before, cfg.PrimitiveAliases()))
}

func TestNamespaces(t *testing.T) {
	cfg := transpiler.DefaultTypeMappingConfig()
	got := typemap.MapType(generic("Promise", generic("Map", prim("string"), arr(prim("number")))), cfg)
	assert.ElementsMatch(t, []string{"System.Threading.Tasks", "System.Collections.Generic"}, got.Namespaces())

	framework := typemap.MapType(arr(prim("string")), config(transpiler.TypeMappingOverrides{Arrays: transpiler.ArrayFramework}))
	assert.Empty(t, framework.Namespaces())
}

func TestAliasesAndEnums(t *testing.T) {
	m := typemap.NewMapper(transpiler.DefaultTypeMappingConfig(), nil).
		WithAliases(map[string]tsast.Type{
			"Id":       prim("string"),
			"MaybeId":  union(named("Id"), prim("null")),
			"Loop":     named("Loop"),
			"Callback": &tsast.FunctionOf{Params: []tsast.Type{named("Id")}, Returns: prim("void")},
		}).
		WithEnums(map[string]bool{"Direction": true})

	assert.Equal(t, "string", m.Map(named("Id")).String())
	assert.Equal(t, "string?", m.Map(named("MaybeId")).String())
	assert.Equal(t, "Action<string>", m.Map(named("Callback")).String())
	assert.Equal(t, "object", m.Map(named("Loop")).String())
	assert.Equal(t, "Direction", m.Map(named("Direction.Up")).String())
}
