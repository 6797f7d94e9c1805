package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tscs/internal/tsast"
)

// typeAnnotation unwraps `: T`. It returns nil when n is nil.
func (c *converter) typeAnnotation(n *sitter.Node) tsast.Type {
	if n == nil {
		return nil
	}
	if n.Type() == "type_annotation" {
		return c.typ(firstNamed(n))
	}
	return c.typ(n)
}

// returnType also accepts type predicates (`x is T`), which return boolean,
// and assertion signatures, which return nothing.
func (c *converter) returnType(n *sitter.Node) tsast.Type {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "type_predicate_annotation", "type_predicate":
		return &tsast.Primitive{Pos: pos(n), Name: "boolean"}
	case "asserts_annotation", "asserts":
		return &tsast.Primitive{Pos: pos(n), Name: "void"}
	}
	return c.typeAnnotation(n)
}

func (c *converter) typ(n *sitter.Node) tsast.Type {
	if n == nil {
		return nil
	}
	p := pos(n)
	switch n.Type() {
	case "type_annotation", "parenthesized_type", "readonly_type", "optional_type":
		return c.typ(firstNamed(n))
	case "predefined_type":
		return &tsast.Primitive{Pos: p, Name: c.text(n)}
	case "type_identifier", "identifier", "nested_type_identifier":
		switch name := c.text(n); name {
		case "bigint", "null", "undefined":
			return &tsast.Primitive{Pos: p, Name: name}
		default:
			return &tsast.NamedRef{Pos: p, Name: name}
		}
	case "generic_type":
		return &tsast.GenericRef{
			Pos:  p,
			Name: c.text(n.ChildByFieldName("name")),
			Args: c.typeArgs(n.ChildByFieldName("type_arguments")),
		}
	case "array_type":
		return &tsast.ArrayOf{Pos: p, Elem: c.typ(firstNamed(n))}
	case "union_type":
		u := &tsast.UnionOf{Pos: p}
		c.unionMembers(n, u)
		return u
	case "literal_type":
		return c.literalType(n)
	case "tuple_type":
		t := &tsast.TupleOf{Pos: p}
		for _, e := range namedChildren(n) {
			t.Elems = append(t.Elems, c.typ(e))
		}
		return t
	case "function_type":
		f := &tsast.FunctionOf{Pos: p, Returns: c.returnType(n.ChildByFieldName("return_type"))}
		for _, prm := range c.params(n.ChildByFieldName("parameters")) {
			t := prm.Type
			if t == nil {
				t = &tsast.Primitive{Pos: prm.Pos, Name: "any"}
			}
			f.Params = append(f.Params, t)
		}
		return f
	case "object_type":
		o := &tsast.ObjectOf{Pos: p}
		props, methods := c.signatures(n)
		o.Properties = props
		for _, m := range methods {
			fn := &tsast.FunctionOf{Pos: m.Pos, Returns: m.Returns}
			for _, prm := range m.Params {
				fn.Params = append(fn.Params, prm.Type)
			}
			o.Properties = append(o.Properties, &tsast.PropertySig{Pos: m.Pos, Name: m.Name, Type: fn, Optional: m.Optional})
		}
		return o
	}
	return &tsast.UnsupportedType{Pos: p, Text: c.text(n)}
}

// unionMembers flattens the left-nested union_type chain.
func (c *converter) unionMembers(n *sitter.Node, u *tsast.UnionOf) {
	for _, ch := range namedChildren(n) {
		if ch.Type() == "union_type" {
			c.unionMembers(ch, u)
			continue
		}
		u.Members = append(u.Members, c.typ(ch))
	}
}

func (c *converter) literalType(n *sitter.Node) tsast.Type {
	p := pos(n)
	v := firstNamed(n)
	if v == nil {
		return &tsast.UnsupportedType{Pos: p, Text: c.text(n)}
	}
	switch v.Type() {
	case "string":
		return &tsast.LiteralOf{Pos: p, Value: tsast.Literal{Kind: tsast.LitString, Value: c.stringValue(v)}}
	case "number", "unary_expression":
		return &tsast.LiteralOf{Pos: p, Value: tsast.Literal{Kind: tsast.LitNumber, Value: c.text(v)}}
	case "true", "false":
		return &tsast.LiteralOf{Pos: p, Value: tsast.Literal{Kind: tsast.LitBoolean, Value: v.Type()}}
	case "null", "undefined":
		return &tsast.Primitive{Pos: p, Name: v.Type()}
	}
	return &tsast.UnsupportedType{Pos: p, Text: c.text(n)}
}

func (c *converter) typeArgs(n *sitter.Node) []tsast.Type {
	var out []tsast.Type
	for _, t := range namedChildren(n) {
		out = append(out, c.typ(t))
	}
	return out
}
