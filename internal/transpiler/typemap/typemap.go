// Package typemap converts source type expressions into structured C# type
// descriptors under a resolved TypeMappingConfig.
//
// Mapping is total: every source type produces a target type, degrading to
// object for constructs C# cannot express.
package typemap

import (
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/registry"
	"martianoff/tscs/internal/tsast"
)

const (
	nsSystem      = "System"
	nsGeneric     = "System.Collections.Generic"
	nsTasks       = "System.Threading.Tasks"
	nsGodotCollns = "Godot.Collections"
)

// maxAliasDepth bounds alias expansion so that self-referencing aliases terminate.
const maxAliasDepth = 16

// Mapper maps source types. A Mapper is immutable; the With* methods return
// modified copies, so one Mapper can be shared across goroutines.
type Mapper struct {
	cfg     *transpiler.TypeMappingConfig
	reg     *registry.Registry
	aliases map[string]tsast.Type
	enums   map[string]bool
}

// NewMapper creates a mapper. A nil registry selects registry.Global.
func NewMapper(cfg *transpiler.TypeMappingConfig, reg *registry.Registry) *Mapper {
	if cfg == nil {
		cfg = transpiler.DefaultTypeMappingConfig()
	}
	if reg == nil {
		reg = registry.Global
	}
	return &Mapper{cfg: cfg, reg: reg}
}

// MapType maps expr using the global registry.
func MapType(expr tsast.Type, cfg *transpiler.TypeMappingConfig) csast.Type {
	return NewMapper(cfg, nil).Map(expr)
}

// WithAliases returns a copy that expands the given type aliases before mapping.
func (m *Mapper) WithAliases(aliases map[string]tsast.Type) *Mapper {
	c := *m
	c.aliases = aliases
	return &c
}

// WithEnums returns a copy that knows the given enum names, so that enum
// member references (Enum.Member) map to the enum type.
func (m *Mapper) WithEnums(enums map[string]bool) *Mapper {
	c := *m
	c.enums = enums
	return &c
}

// Config returns the mapping configuration.
func (m *Mapper) Config() *transpiler.TypeMappingConfig { return m.cfg }

// Registry returns the collection registry.
func (m *Mapper) Registry() *registry.Registry { return m.reg }

// Map converts a source type into a target type. A nil type (missing
// annotation) maps to object.
func (m *Mapper) Map(expr tsast.Type) csast.Type {
	return m.mapType(expr, 0)
}

// Expand resolves alias references at the top of expr.
func (m *Mapper) Expand(expr tsast.Type) tsast.Type {
	for i := 0; i < maxAliasDepth; i++ {
		ref, ok := expr.(*tsast.NamedRef)
		if !ok {
			return expr
		}
		target, ok := m.aliases[ref.Name]
		if !ok {
			return expr
		}
		expr = target
	}
	return expr
}

func (m *Mapper) mapType(expr tsast.Type, depth int) csast.Type {
	if depth > maxAliasDepth {
		return csast.Object
	}
	switch t := expr.(type) {
	case nil:
		return csast.Object
	case *tsast.Primitive:
		return m.primitive(t.Name)
	case *tsast.LiteralOf:
		return m.literal(t.Value.Kind)
	case *tsast.ArrayOf:
		return m.array(m.mapType(t.Elem, depth))
	case *tsast.GenericRef:
		return m.generic(t, depth)
	case *tsast.UnionOf:
		return m.union(t, depth)
	case *tsast.TupleOf:
		elems := make([]csast.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = m.valueOf(m.mapType(e, depth))
		}
		return csast.TupleType{Elems: elems}
	case *tsast.FunctionOf:
		return m.function(t, depth)
	case *tsast.NamedRef:
		return m.named(t, depth)
	case *tsast.ObjectOf, *tsast.UnsupportedType:
		return csast.Object
	}
	return csast.Object
}

func (m *Mapper) primitive(name string) csast.Type {
	target, ok := m.cfg.Primitive(name)
	if !ok || target == "" {
		return csast.Object
	}
	return csast.BasicType{Name: target}
}

func (m *Mapper) literal(kind tsast.LiteralKind) csast.Type {
	switch kind {
	case tsast.LitString:
		return m.primitive("string")
	case tsast.LitNumber:
		return m.primitive("number")
	case tsast.LitBoolean:
		return m.primitive("boolean")
	}
	return csast.Object
}

// valueOf replaces void by object where a value type is required
// (generic arguments, array elements, tuple members).
func (m *Mapper) valueOf(t csast.Type) csast.Type {
	if csast.IsVoid(t) {
		return csast.Object
	}
	return t
}

// array applies the array strategy to an already mapped element type.
func (m *Mapper) array(elem csast.Type) csast.Type {
	elem = m.valueOf(elem)
	switch m.cfg.ArrayStrategy() {
	case transpiler.ArrayList:
		return csast.GenericType{Namespace: nsGeneric, Name: "List", Args: []csast.Type{elem}}
	case transpiler.ArrayFramework:
		return csast.GenericType{Namespace: nsGodotCollns, Name: "Array", Args: []csast.Type{elem}, Qualified: true}
	}
	return csast.ArrayType{Elem: elem}
}

// ArrayOf applies the configured array strategy to elem.
func (m *Mapper) ArrayOf(elem csast.Type) csast.Type {
	return m.array(elem)
}

func (m *Mapper) typedBuffer(elem string) csast.Type {
	base := csast.BasicType{Name: elem}
	if m.cfg.TypedBufferStrategy() == transpiler.BufferSpan {
		return csast.GenericType{Namespace: nsSystem, Name: "Span", Args: []csast.Type{base}}
	}
	return csast.ArrayType{Elem: base}
}

func (m *Mapper) generic(t *tsast.GenericRef, depth int) csast.Type {
	args := make([]csast.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = m.valueOf(m.mapType(a, depth))
	}

	switch t.Name {
	case "Array":
		if len(args) == 1 {
			return m.array(args[0])
		}
	case "Promise", "PromiseLike":
		return task(t.Args, args)
	}

	if info, ok := m.reg.Collection(t.Name); ok {
		if info.PadObject {
			args = append(args, csast.Object)
		}
		if m.cfg.ArrayStrategy() == transpiler.ArrayFramework && info.FrameworkTarget != "" {
			return csast.GenericType{Namespace: info.FrameworkNamespace, Name: info.FrameworkTarget, Args: args, Qualified: true}
		}
		return csast.GenericType{Namespace: info.Namespace, Name: info.Target, Args: args}
	}

	if len(args) == 0 {
		return m.named(&tsast.NamedRef{Pos: t.Pos, Name: t.Name}, depth)
	}
	return csast.GenericType{Name: t.Name, Args: args}
}

func task(src []tsast.Type, args []csast.Type) csast.Type {
	if len(args) == 0 || isVoidLike(src[0]) {
		return csast.NamedType{Namespace: nsTasks, Name: "Task"}
	}
	return csast.GenericType{Namespace: nsTasks, Name: "Task", Args: args[:1]}
}

func isVoidLike(t tsast.Type) bool {
	p, ok := t.(*tsast.Primitive)
	return ok && (p.Name == "void" || p.Name == "undefined" || p.Name == "never")
}

// union performs nullable reduction. Null-ish members are dropped; a single
// remaining target type is marked nullable when anything was dropped; more
// than one distinct remaining target type falls back to object.
func (m *Mapper) union(t *tsast.UnionOf, depth int) csast.Type {
	var (
		hadNull bool
		mapped  []csast.Type
		seen    = make(map[string]bool)
	)
	for _, member := range flattenUnion(t, m, depth) {
		if tsast.IsNullish(member) {
			hadNull = true
			continue
		}
		ct := csast.Underlying(m.mapType(member, depth))
		if seen[ct.String()] {
			continue
		}
		seen[ct.String()] = true
		mapped = append(mapped, ct)
	}

	if len(mapped) != 1 {
		return csast.Object
	}
	if hadNull && !csast.IsVoid(mapped[0]) && !csast.IsObject(mapped[0]) {
		return csast.Nullable(mapped[0])
	}
	return mapped[0]
}

// flattenUnion inlines nested unions, including those reached through aliases.
func flattenUnion(t *tsast.UnionOf, m *Mapper, depth int) []tsast.Type {
	var out []tsast.Type
	for _, member := range t.Members {
		expanded := member
		if depth < maxAliasDepth {
			expanded = m.Expand(member)
		}
		if u, ok := expanded.(*tsast.UnionOf); ok {
			out = append(out, flattenUnion(u, m, depth+1)...)
			continue
		}
		out = append(out, member)
	}
	return out
}

func (m *Mapper) function(t *tsast.FunctionOf, depth int) csast.Type {
	params := make([]csast.Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = m.valueOf(m.mapType(p, depth))
	}

	ret := m.mapType(t.Returns, depth)
	if t.Returns == nil || csast.IsVoid(ret) || isVoidLike(t.Returns) {
		if len(params) == 0 {
			return csast.NamedType{Namespace: nsSystem, Name: "Action"}
		}
		return csast.GenericType{Namespace: nsSystem, Name: "Action", Args: params}
	}
	return csast.GenericType{Namespace: nsSystem, Name: "Func", Args: append(params, ret)}
}

// builtinNamed maps the non-generic library names that have a direct C# counterpart.
var builtinNamed = map[string]csast.Type{
	"Object":   csast.Object,
	"Boolean":  csast.Bool,
	"String":   csast.String,
	"Function": csast.NamedType{Namespace: nsSystem, Name: "Delegate"},
	"Error":    csast.NamedType{Namespace: nsSystem, Name: "Exception"},
	"Date":     csast.NamedType{Namespace: nsSystem, Name: "DateTime"},
	"RegExp":   csast.NamedType{Namespace: "System.Text.RegularExpressions", Name: "Regex"},
	"Promise":  csast.NamedType{Namespace: nsTasks, Name: "Task"},
}

func (m *Mapper) named(t *tsast.NamedRef, depth int) csast.Type {
	if target, ok := m.aliases[t.Name]; ok {
		return m.mapType(target, depth+1)
	}
	if elem, ok := m.reg.TypedBuffer(t.Name); ok {
		return m.typedBuffer(elem)
	}
	if t.Name == "Number" {
		return m.primitive("number")
	}
	if bt, ok := builtinNamed[t.Name]; ok {
		return bt
	}
	if head, _, ok := strings.Cut(t.Name, "."); ok && m.enums[head] {
		return csast.NamedType{Name: head}
	}
	return csast.NamedType{Name: t.Name}
}
