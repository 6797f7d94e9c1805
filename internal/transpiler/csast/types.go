// Package csast models the C# declarations, statements, expressions and type
// descriptors produced by the transformer and printed by the generator.
package csast

import (
	"strings"
)

// Type is a structured C# type descriptor.
type Type interface {
	String() string
	IsNullable() bool
	// Namespaces lists the namespaces that must be imported for the type to resolve.
	Namespaces() []string
	typeNode()
}

// BasicType is a C# keyword type: float, double, string, bool, object, void, byte, ...
type BasicType struct {
	Name string
}

func (t BasicType) String() string       { return t.Name }
func (t BasicType) IsNullable() bool     { return false }
func (t BasicType) Namespaces() []string { return nil }
func (BasicType) typeNode()              {}

// NamedType is a named, non-generic type. Qualified types print with their
// namespace; unqualified ones require a using directive.
type NamedType struct {
	Namespace string
	Name      string
	Qualified bool
}

func (t NamedType) String() string {
	if t.Qualified && t.Namespace != "" {
		return t.Namespace + "." + t.Name
	}
	return t.Name
}
func (t NamedType) IsNullable() bool { return false }
func (t NamedType) Namespaces() []string {
	if t.Namespace == "" || t.Qualified {
		return nil
	}
	return []string{t.Namespace}
}
func (NamedType) typeNode() {}

// GenericType is Name<Args...>.
type GenericType struct {
	Namespace string
	Name      string
	Args      []Type
	Qualified bool
}

func (t GenericType) String() string {
	var sb strings.Builder
	if t.Qualified && t.Namespace != "" {
		sb.WriteString(t.Namespace)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	sb.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a != nil {
			sb.WriteString(a.String())
		}
	}
	sb.WriteByte('>')
	return sb.String()
}
func (t GenericType) IsNullable() bool { return false }
func (t GenericType) Namespaces() []string {
	var out []string
	if t.Namespace != "" && !t.Qualified {
		out = append(out, t.Namespace)
	}
	for _, a := range t.Args {
		if a != nil {
			out = append(out, a.Namespaces()...)
		}
	}
	return out
}
func (GenericType) typeNode() {}

// ArrayType is a single-rank array T[]; nested arrays are jagged (T[][]).
type ArrayType struct {
	Elem Type
}

func (t ArrayType) String() string       { return t.Elem.String() + "[]" }
func (t ArrayType) IsNullable() bool     { return false }
func (t ArrayType) Namespaces() []string { return t.Elem.Namespaces() }
func (ArrayType) typeNode()              {}

// NullableType is T?. Build it with Nullable so the marker is applied once.
type NullableType struct {
	Elem Type
}

func (t NullableType) String() string       { return t.Elem.String() + "?" }
func (t NullableType) IsNullable() bool     { return true }
func (t NullableType) Namespaces() []string { return t.Elem.Namespaces() }
func (NullableType) typeNode()              {}

// TupleType is a value tuple (A, B, ...).
type TupleType struct {
	Elems []Type
}

func (t TupleType) String() string {
	if len(t.Elems) < 2 {
		// C# has no tuple literal syntax below arity two.
		return GenericType{Name: "ValueTuple", Args: t.Elems}.String()
	}
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t TupleType) IsNullable() bool { return false }
func (t TupleType) Namespaces() []string {
	var out []string
	if len(t.Elems) < 2 {
		out = append(out, "System")
	}
	for _, e := range t.Elems {
		out = append(out, e.Namespaces()...)
	}
	return out
}
func (TupleType) typeNode() {}

// Common keyword types.
var (
	Object = BasicType{Name: "object"}
	Void   = BasicType{Name: "void"}
	String = BasicType{Name: "string"}
	Bool   = BasicType{Name: "bool"}
)

// Nullable marks t nullable exactly once.
func Nullable(t Type) Type {
	if t == nil {
		return nil
	}
	if t.IsNullable() {
		return t
	}
	return NullableType{Elem: t}
}

// Underlying strips a nullable marker.
func Underlying(t Type) Type {
	if n, ok := t.(NullableType); ok {
		return n.Elem
	}
	return t
}

// IsVoid reports whether t is void.
func IsVoid(t Type) bool {
	b, ok := t.(BasicType)
	return ok && b.Name == "void"
}

// IsObject reports whether t is the object fallback.
func IsObject(t Type) bool {
	b, ok := Underlying(t).(BasicType)
	return ok && b.Name == "object"
}

// listLikeNames are the single-argument containers that expose Count and Add.
var listLikeNames = map[string]bool{
	"List":          true,
	"Array":         true,
	"IReadOnlyList": true,
	"HashSet":       true,
}

// ElementType returns the element type of an array or list-like container.
func ElementType(t Type) (Type, bool) {
	switch v := Underlying(t).(type) {
	case ArrayType:
		return v.Elem, true
	case GenericType:
		if listLikeNames[v.Name] && len(v.Args) == 1 {
			return v.Args[0], true
		}
	}
	return nil, false
}

// IsListLike reports whether t is a generic container whose size is Count.
func IsListLike(t Type) bool {
	g, ok := Underlying(t).(GenericType)
	return ok && listLikeNames[g.Name] && len(g.Args) == 1
}

// IsArray reports whether t is a native array.
func IsArray(t Type) bool {
	_, ok := Underlying(t).(ArrayType)
	return ok
}

// Equal compares two descriptors structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}
