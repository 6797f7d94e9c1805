// Package tsast models the TypeScript syntax tree consumed by the transpiler.
//
// The tree is produced by internal/parser (or built directly in tests) and is
// read-only for every consumer.
package tsast

import (
	"strconv"
	"strings"
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Position returns the node position.
func (p Pos) Position() Pos { return p }

// Node is implemented by every syntax tree node.
type Node interface {
	Position() Pos
}

// Type is a source type expression (SourceTypeExpr).
type Type interface {
	Node
	// String renders the canonical TypeScript text of the type.
	String() string
	typeNode()
}

// Primitive is a predefined type such as string, number, boolean, null or undefined.
type Primitive struct {
	Pos
	Name string
}

// ArrayOf is T[].
type ArrayOf struct {
	Pos
	Elem Type
}

// GenericRef is Name<Args...>.
type GenericRef struct {
	Pos
	Name string
	Args []Type
}

// UnionOf is A | B | ...
type UnionOf struct {
	Pos
	Members []Type
}

// LiteralOf is a literal type such as "circle", 1 or true.
type LiteralOf struct {
	Pos
	Value Literal
}

// TupleOf is [A, B, ...].
type TupleOf struct {
	Pos
	Elems []Type
}

// FunctionOf is (a: A, b: B) => R.
type FunctionOf struct {
	Pos
	Params  []Type
	Returns Type
}

// NamedRef is a reference to a declared type, possibly dotted (Enum.Member).
type NamedRef struct {
	Pos
	Name string
}

// ObjectOf is an inline object type { a: A; b?: B }.
type ObjectOf struct {
	Pos
	Properties []*PropertySig
}

// UnsupportedType keeps the text of a type form the tree does not model
// (intersections, conditional and mapped types, type queries).
type UnsupportedType struct {
	Pos
	Text string
}

func (*Primitive) typeNode()       {}
func (*ArrayOf) typeNode()         {}
func (*GenericRef) typeNode()      {}
func (*UnionOf) typeNode()         {}
func (*LiteralOf) typeNode()       {}
func (*TupleOf) typeNode()         {}
func (*FunctionOf) typeNode()      {}
func (*NamedRef) typeNode()        {}
func (*ObjectOf) typeNode()        {}
func (*UnsupportedType) typeNode() {}

func (t *Primitive) String() string { return t.Name }

func (t *ArrayOf) String() string {
	elem := t.Elem.String()
	switch t.Elem.(type) {
	case *UnionOf, *FunctionOf:
		elem = "(" + elem + ")"
	}
	return elem + "[]"
}

func (t *GenericRef) String() string {
	return t.Name + "<" + joinTypes(t.Args, ", ") + ">"
}

func (t *UnionOf) String() string { return joinTypes(t.Members, " | ") }

func (t *LiteralOf) String() string { return t.Value.String() }

func (t *TupleOf) String() string { return "[" + joinTypes(t.Elems, ", ") + "]" }

func (t *FunctionOf) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("arg")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(": ")
		sb.WriteString(p.String())
	}
	sb.WriteString(") => ")
	if t.Returns != nil {
		sb.WriteString(t.Returns.String())
	} else {
		sb.WriteString("void")
	}
	return sb.String()
}

func (t *NamedRef) String() string { return t.Name }

func (t *ObjectOf) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, p := range t.Properties {
		if p.Readonly {
			sb.WriteString("readonly ")
		}
		sb.WriteString(p.Name)
		if p.Optional {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		sb.WriteString(TypeText(p.Type))
		sb.WriteString("; ")
	}
	sb.WriteByte('}')
	return sb.String()
}

func (t *UnsupportedType) String() string { return t.Text }

func joinTypes(types []Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = TypeText(t)
	}
	return strings.Join(parts, sep)
}

// TypeText renders t, returning "any" for a missing annotation.
func TypeText(t Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

// LiteralKind is the primitive domain of a literal.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
)

func (k LiteralKind) String() string {
	switch k {
	case LitString:
		return "string"
	case LitNumber:
		return "number"
	case LitBoolean:
		return "boolean"
	}
	return "unknown"
}

// Literal is the value of a literal type. Value holds the unquoted string,
// the numeral as written, or "true"/"false".
type Literal struct {
	Kind  LiteralKind
	Value string
}

func (l Literal) String() string {
	if l.Kind == LitString {
		return `"` + l.Value + `"`
	}
	return l.Value
}

// IsNullish reports whether t is the null or undefined type.
func IsNullish(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && (p.Name == "null" || p.Name == "undefined")
}

// PropertySig is a property of an interface or inline object type.
type PropertySig struct {
	Pos
	Name     string
	Type     Type
	Optional bool
	Readonly bool
}

// MethodSig is a method of an interface or inline object type.
type MethodSig struct {
	Pos
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	Returns    Type
	Optional   bool
}

// TypeParam is a generic type parameter.
type TypeParam struct {
	Pos
	Name       string
	Constraint Type
	Default    Type
}
