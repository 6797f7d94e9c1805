package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tscs/internal/tsast"
)

func (c *converter) classDecl(n *sitter.Node, exported bool, decorators []*tsast.Decorator) *tsast.ClassDecl {
	d := &tsast.ClassDecl{
		Pos:        pos(n),
		Name:       c.text(n.ChildByFieldName("name")),
		TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
		Decorators: decorators,
		Abstract:   n.Type() == "abstract_class_declaration",
		Exported:   exported,
	}
	for _, ch := range namedChildren(n) {
		switch ch.Type() {
		case "decorator":
			d.Decorators = append(d.Decorators, c.decorator(ch))
		case "class_heritage":
			c.heritage(ch, d)
		}
	}
	d.Members = c.classBody(n.ChildByFieldName("body"))
	return d
}

func (c *converter) heritage(n *sitter.Node, d *tsast.ClassDecl) {
	for _, clause := range namedChildren(n) {
		switch clause.Type() {
		case "extends_clause":
			var base tsast.Type
			for _, ch := range namedChildren(clause) {
				if ch.Type() == "type_arguments" && base != nil {
					base = &tsast.GenericRef{Pos: base.Position(), Name: base.String(), Args: c.typeArgs(ch)}
					continue
				}
				base = &tsast.NamedRef{Pos: pos(ch), Name: c.text(ch)}
			}
			d.Extends = base
		case "implements_clause":
			for _, t := range namedChildren(clause) {
				d.Implements = append(d.Implements, c.typ(t))
			}
		}
	}
}

func (c *converter) classBody(body *sitter.Node) []tsast.ClassMember {
	var (
		out     []tsast.ClassMember
		pending []*tsast.Decorator
	)
	for _, n := range namedChildren(body) {
		switch n.Type() {
		case "decorator":
			pending = append(pending, c.decorator(n))
			continue
		case "method_definition", "method_signature", "abstract_method_signature":
			out = append(out, c.method(n, pending))
		case "public_field_definition":
			out = append(out, c.property(n, pending))
		default:
			out = append(out, &tsast.UnmodeledMember{Pos: pos(n), Text: c.text(n)})
		}
		pending = nil
	}
	return out
}

type memberFlags struct {
	mods     tsast.Modifiers
	async    bool
	getter   bool
	setter   bool
	optional bool
	definite bool
}

// flags reads the modifier tokens before a member name and the ? or !
// marker after it.
func (c *converter) flags(n *sitter.Node) memberFlags {
	var (
		f      memberFlags
		name   = n.ChildByFieldName("name")
		inTail bool
	)
	for _, ch := range children(n) {
		if same(ch, name) {
			inTail = true
			continue
		}
		if inTail {
			switch ch.Type() {
			case "?":
				f.optional = true
			case "!":
				f.definite = true
			}
			continue
		}
		switch ch.Type() {
		case "accessibility_modifier":
			f.mods.Access = access(c.text(ch))
		case "static":
			f.mods.Static = true
		case "readonly":
			f.mods.Readonly = true
		case "abstract":
			f.mods.Abstract = true
		case "override", "override_modifier":
			f.mods.Override = true
		case "async":
			f.async = true
		case "get":
			f.getter = true
		case "set":
			f.setter = true
		}
	}
	return f
}

func (c *converter) method(n *sitter.Node, decorators []*tsast.Decorator) tsast.ClassMember {
	f := c.flags(n)
	name := c.propertyName(n.ChildByFieldName("name"))
	params := c.params(n.ChildByFieldName("parameters"))
	returns := c.returnType(n.ChildByFieldName("return_type"))
	body := c.block(n.ChildByFieldName("body"))

	switch {
	case name == "constructor":
		return &tsast.ConstructorDecl{Pos: pos(n), Params: params, Body: body, Access: f.mods.Access}
	case f.getter || f.setter:
		kind := tsast.Getter
		if f.setter {
			kind = tsast.Setter
		}
		return &tsast.AccessorDecl{
			Pos:        pos(n),
			Kind:       kind,
			Name:       name,
			Params:     params,
			Returns:    returns,
			Body:       body,
			Modifiers:  f.mods,
			Decorators: decorators,
		}
	}
	return &tsast.MethodDecl{
		Pos:        pos(n),
		Name:       name,
		TypeParams: c.typeParams(n.ChildByFieldName("type_parameters")),
		Params:     params,
		Returns:    returns,
		Body:       body,
		Modifiers:  f.mods,
		Async:      f.async,
		Decorators: decorators,
	}
}

func (c *converter) property(n *sitter.Node, decorators []*tsast.Decorator) *tsast.PropertyDecl {
	f := c.flags(n)
	for _, ch := range namedChildren(n) {
		if ch.Type() == "decorator" {
			decorators = append(decorators, c.decorator(ch))
		}
	}
	p := &tsast.PropertyDecl{
		Pos:        pos(n),
		Name:       c.propertyName(n.ChildByFieldName("name")),
		Type:       c.typeAnnotation(n.ChildByFieldName("type")),
		Modifiers:  f.mods,
		Optional:   f.optional,
		Definite:   f.definite,
		Decorators: decorators,
	}
	if v := n.ChildByFieldName("value"); v != nil {
		p.Init = c.expr(v)
	}
	return p
}
