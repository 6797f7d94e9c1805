package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tscs/internal/tsast"
)

func (c *converter) expr(n *sitter.Node) tsast.Expr {
	if n == nil {
		return nil
	}
	p := pos(n)
	switch n.Type() {
	case "identifier", "shorthand_property_identifier", "property_identifier", "private_property_identifier":
		if name := c.text(n); name != "undefined" {
			return &tsast.Ident{Pos: p, Name: name}
		}
		return &tsast.UndefinedLit{Pos: p}
	case "undefined":
		return &tsast.UndefinedLit{Pos: p}
	case "null":
		return &tsast.NullLit{Pos: p}
	case "true", "false":
		return &tsast.BoolLit{Pos: p, Value: n.Type() == "true"}
	case "number":
		return &tsast.NumberLit{Pos: p, Text: c.text(n)}
	case "string":
		return &tsast.StringLit{Pos: p, Value: c.stringValue(n)}
	case "template_string":
		return c.template(n)
	case "this":
		return &tsast.ThisExpr{Pos: p}
	case "super":
		return &tsast.SuperExpr{Pos: p}
	case "array":
		a := &tsast.ArrayLit{Pos: p}
		for _, e := range namedChildren(n) {
			a.Elems = append(a.Elems, c.expr(e))
		}
		return a
	case "object":
		return c.object(n)
	case "binary_expression":
		return &tsast.Binary{
			Pos: p,
			Op:  c.text(n.ChildByFieldName("operator")),
			L:   c.expr(n.ChildByFieldName("left")),
			R:   c.expr(n.ChildByFieldName("right")),
		}
	case "unary_expression":
		return &tsast.Unary{
			Pos: p,
			Op:  c.text(n.ChildByFieldName("operator")),
			X:   c.expr(n.ChildByFieldName("argument")),
		}
	case "update_expression":
		op := n.ChildByFieldName("operator")
		return &tsast.Update{
			Pos:    p,
			Op:     c.text(op),
			Prefix: same(n.Child(0), op),
			X:      c.expr(n.ChildByFieldName("argument")),
		}
	case "assignment_expression":
		return &tsast.Assign{
			Pos: p,
			Op:  "=",
			L:   c.expr(n.ChildByFieldName("left")),
			R:   c.expr(n.ChildByFieldName("right")),
		}
	case "augmented_assignment_expression":
		return &tsast.Assign{
			Pos: p,
			Op:  c.text(n.ChildByFieldName("operator")),
			L:   c.expr(n.ChildByFieldName("left")),
			R:   c.expr(n.ChildByFieldName("right")),
		}
	case "ternary_expression":
		return &tsast.Conditional{
			Pos:  p,
			Cond: c.expr(n.ChildByFieldName("condition")),
			Then: c.expr(n.ChildByFieldName("consequence")),
			Else: c.expr(n.ChildByFieldName("alternative")),
		}
	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args != nil && args.Type() == "template_string" {
			break // tagged template
		}
		return &tsast.Call{
			Pos:      p,
			Callee:   c.expr(n.ChildByFieldName("function")),
			TypeArgs: c.typeArgs(n.ChildByFieldName("type_arguments")),
			Args:     c.args(args),
			Optional: optionalChain(n),
		}
	case "new_expression":
		return &tsast.New{
			Pos:      p,
			Callee:   c.expr(n.ChildByFieldName("constructor")),
			TypeArgs: c.typeArgs(n.ChildByFieldName("type_arguments")),
			Args:     c.args(n.ChildByFieldName("arguments")),
		}
	case "member_expression":
		return &tsast.Member{
			Pos:      p,
			X:        c.expr(n.ChildByFieldName("object")),
			Name:     c.text(n.ChildByFieldName("property")),
			Optional: optionalChain(n),
		}
	case "subscript_expression":
		return &tsast.Index{
			Pos:      p,
			X:        c.expr(n.ChildByFieldName("object")),
			Index:    c.expr(n.ChildByFieldName("index")),
			Optional: optionalChain(n),
		}
	case "arrow_function":
		return c.arrow(n)
	case "function", "function_expression":
		return &tsast.FuncExpr{
			Pos:     p,
			Name:    c.text(n.ChildByFieldName("name")),
			Params:  c.params(n.ChildByFieldName("parameters")),
			Returns: c.returnType(n.ChildByFieldName("return_type")),
			Body:    c.block(n.ChildByFieldName("body")),
			Async:   hasToken(n, "async"),
		}
	case "parenthesized_expression":
		return &tsast.Paren{Pos: p, X: c.expr(firstNamed(n))}
	case "non_null_expression":
		return nonNull(p, c.expr(firstNamed(n)))
	case "as_expression", "satisfies_expression":
		parts := namedChildren(n)
		var t tsast.Type = &tsast.NamedRef{Pos: p, Name: "const"}
		if len(parts) > 1 {
			t = c.typ(parts[1])
		}
		if n.Type() == "satisfies_expression" {
			return &tsast.Satisfies{Pos: p, X: c.expr(parts[0]), Type: t}
		}
		return &tsast.As{Pos: p, X: c.expr(parts[0]), Type: t}
	case "type_assertion":
		parts := namedChildren(n)
		if len(parts) == 2 {
			return &tsast.As{Pos: p, X: c.expr(parts[1]), Type: c.typ(firstNamed(parts[0]))}
		}
	case "await_expression":
		return &tsast.Await{Pos: p, X: c.expr(firstNamed(n))}
	case "spread_element":
		return &tsast.Spread{Pos: p, X: c.expr(firstNamed(n))}
	}
	return &tsast.Unmodeled{Pos: p, Kind: n.Type(), Text: c.text(n)}
}

func optionalChain(n *sitter.Node) bool {
	return hasChild(n, "optional_chain") || hasToken(n, "?.")
}

func (c *converter) args(n *sitter.Node) []tsast.Expr {
	var out []tsast.Expr
	for _, a := range namedChildren(n) {
		out = append(out, c.expr(a))
	}
	return out
}

func (c *converter) arrow(n *sitter.Node) *tsast.Arrow {
	a := &tsast.Arrow{
		Pos:     pos(n),
		Returns: c.returnType(n.ChildByFieldName("return_type")),
		Async:   hasToken(n, "async"),
	}
	if prm := n.ChildByFieldName("parameter"); prm != nil {
		a.Params = []*tsast.Param{{Pos: pos(prm), Name: c.text(prm)}}
	} else {
		a.Params = c.params(n.ChildByFieldName("parameters"))
	}
	body := n.ChildByFieldName("body")
	if body != nil && body.Type() == "statement_block" {
		a.BodyBlock = c.block(body)
	} else {
		a.BodyExpr = c.expr(body)
	}
	return a
}

func (c *converter) object(n *sitter.Node) *tsast.ObjectLit {
	o := &tsast.ObjectLit{Pos: pos(n)}
	for _, ch := range namedChildren(n) {
		p := pos(ch)
		switch ch.Type() {
		case "pair":
			o.Props = append(o.Props, &tsast.ObjectProp{
				Pos:   p,
				Key:   c.propertyName(ch.ChildByFieldName("key")),
				Value: c.expr(ch.ChildByFieldName("value")),
			})
		case "shorthand_property_identifier":
			o.Props = append(o.Props, &tsast.ObjectProp{
				Pos:       p,
				Key:       c.text(ch),
				Value:     &tsast.Ident{Pos: p, Name: c.text(ch)},
				Shorthand: true,
			})
		case "spread_element":
			o.Props = append(o.Props, &tsast.ObjectProp{Pos: p, Value: c.expr(firstNamed(ch)), Spread: true})
		case "method_definition":
			o.Props = append(o.Props, &tsast.ObjectProp{
				Pos: p,
				Key: c.propertyName(ch.ChildByFieldName("name")),
				Value: &tsast.FuncExpr{
					Pos:     p,
					Params:  c.params(ch.ChildByFieldName("parameters")),
					Returns: c.returnType(ch.ChildByFieldName("return_type")),
					Body:    c.block(ch.ChildByFieldName("body")),
					Async:   hasToken(ch, "async"),
				},
			})
		default:
			o.Props = append(o.Props, &tsast.ObjectProp{
				Pos:   p,
				Key:   c.text(ch),
				Value: &tsast.Unmodeled{Pos: p, Kind: ch.Type(), Text: c.text(ch)},
			})
		}
	}
	return o
}

// template splits a template string into decoded quasis around its
// substitutions, using byte offsets so it does not depend on how the
// grammar exposes the literal chunks.
func (c *converter) template(n *sitter.Node) *tsast.TemplateLit {
	t := &tsast.TemplateLit{Pos: pos(n)}
	start := n.StartByte() + 1
	for _, ch := range children(n) {
		if ch.Type() != "template_substitution" {
			continue
		}
		t.Quasis = append(t.Quasis, unescape(string(c.src[start:ch.StartByte()])))
		t.Exprs = append(t.Exprs, c.expr(firstNamed(ch)))
		start = ch.EndByte()
	}
	end := n.EndByte() - 1
	if end < start {
		end = start
	}
	t.Quasis = append(t.Quasis, unescape(string(c.src[start:end])))
	return t
}

func (c *converter) stringValue(n *sitter.Node) string {
	raw := c.text(n)
	if len(raw) < 2 {
		return raw
	}
	return unescape(raw[1 : len(raw)-1])
}

// unescape decodes JavaScript string escape sequences.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case 'x':
			if r, ok := hexRune(s, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteByte(e)
			}
		case 'u':
			if i+1 < len(s) && s[i+1] == '{' {
				if end := strings.IndexByte(s[i:], '}'); end > 0 {
					if r, ok := hexRune(s, i+2, end-2); ok {
						sb.WriteRune(r)
						i += end
						continue
					}
				}
			}
			if r, ok := hexRune(s, i+1, 4); ok {
				sb.WriteRune(r)
				i += 4
			} else {
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

func hexRune(s string, at, n int) (rune, bool) {
	if n <= 0 || at+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

// nonNull applies a postfix ! to x. The grammar can attach the operator to
// a whole binary, conditional, assignment or prefix expression; in
// TypeScript it binds to the rightmost operand.
func nonNull(p tsast.Pos, x tsast.Expr) tsast.Expr {
	switch x := x.(type) {
	case *tsast.Binary:
		return &tsast.Binary{Pos: x.Pos, Op: x.Op, L: x.L, R: nonNull(p, x.R)}
	case *tsast.Conditional:
		return &tsast.Conditional{Pos: x.Pos, Cond: x.Cond, Then: x.Then, Else: nonNull(p, x.Else)}
	case *tsast.Assign:
		return &tsast.Assign{Pos: x.Pos, Op: x.Op, L: x.L, R: nonNull(p, x.R)}
	case *tsast.Unary:
		return &tsast.Unary{Pos: x.Pos, Op: x.Op, X: nonNull(p, x.X)}
	case *tsast.Await:
		return &tsast.Await{Pos: x.Pos, X: nonNull(p, x.X)}
	}
	return &tsast.NonNull{Pos: p, X: x}
}
