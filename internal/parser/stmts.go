package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tscs/internal/tsast"
)

func (c *converter) block(n *sitter.Node) *tsast.Block {
	if n == nil {
		return nil
	}
	b := &tsast.Block{Pos: pos(n)}
	for _, s := range namedChildren(n) {
		b.Stmts = append(b.Stmts, c.stmt(s))
	}
	return b
}

func (c *converter) stmt(n *sitter.Node) tsast.Stmt {
	p := pos(n)
	switch n.Type() {
	case "statement_block":
		return c.block(n)
	case "expression_statement":
		return &tsast.ExprStmt{Pos: p, X: c.expr(firstNamed(n))}
	case "lexical_declaration", "variable_declaration":
		return c.varStmt(n)
	case "if_statement":
		s := &tsast.If{
			Pos:  p,
			Cond: c.expr(unparen(n.ChildByFieldName("condition"))),
			Then: c.stmt(n.ChildByFieldName("consequence")),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				alt = firstNamed(alt)
			}
			s.Else = c.stmt(alt)
		}
		return s
	case "for_statement":
		return c.forStmt(n)
	case "for_in_statement":
		return c.forIn(n)
	case "while_statement":
		return &tsast.While{
			Pos:  p,
			Cond: c.expr(unparen(n.ChildByFieldName("condition"))),
			Body: c.stmt(n.ChildByFieldName("body")),
		}
	case "do_statement":
		return &tsast.DoWhile{
			Pos:  p,
			Body: c.stmt(n.ChildByFieldName("body")),
			Cond: c.expr(unparen(n.ChildByFieldName("condition"))),
		}
	case "return_statement":
		return &tsast.Return{Pos: p, X: c.expr(firstNamed(n))}
	case "break_statement":
		return &tsast.Break{Pos: p, Label: c.text(n.ChildByFieldName("label"))}
	case "continue_statement":
		return &tsast.Continue{Pos: p, Label: c.text(n.ChildByFieldName("label"))}
	case "throw_statement":
		return &tsast.Throw{Pos: p, X: c.expr(firstNamed(n))}
	case "try_statement":
		return c.try(n)
	case "switch_statement":
		return c.switchStmt(n)
	case "function_declaration":
		return &tsast.FuncStmt{Pos: p, Func: c.functionDecl(n, false)}
	case "labeled_statement":
		// Labels only matter to break/continue, which drop them.
		return c.stmt(n.ChildByFieldName("body"))
	case "empty_statement":
		return &tsast.Empty{Pos: p}
	}
	return &tsast.UnmodeledStmt{Pos: p, Kind: n.Type(), Text: c.text(n)}
}

func unparen(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == "parenthesized_expression" {
		return firstNamed(n)
	}
	return n
}

func varKind(n *sitter.Node) tsast.VarKind {
	switch {
	case hasToken(n, "const"):
		return tsast.VarConst
	case hasToken(n, "let"):
		return tsast.VarLet
	}
	return tsast.VarVar
}

func (c *converter) varStmt(n *sitter.Node) *tsast.VarStmt {
	s := &tsast.VarStmt{Pos: pos(n), Kind: varKind(n)}
	for _, d := range namedChildren(n) {
		if d.Type() != "variable_declarator" {
			continue
		}
		v := &tsast.VarDeclarator{
			Pos:  pos(d),
			Name: c.text(d.ChildByFieldName("name")),
			Type: c.typeAnnotation(d.ChildByFieldName("type")),
		}
		if init := d.ChildByFieldName("value"); init != nil {
			v.Init = c.expr(init)
		}
		s.Decls = append(s.Decls, v)
	}
	return s
}

func (c *converter) forStmt(n *sitter.Node) *tsast.For {
	s := &tsast.For{Pos: pos(n), Body: c.stmt(n.ChildByFieldName("body"))}
	if init := n.ChildByFieldName("initializer"); init != nil && init.Type() != "empty_statement" {
		s.Init = c.stmt(init)
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		switch cond.Type() {
		case "expression_statement":
			s.Cond = c.expr(firstNamed(cond))
		case "empty_statement", ";":
		default:
			s.Cond = c.expr(cond)
		}
	}
	if upd := n.ChildByFieldName("increment"); upd != nil {
		s.Update = c.expr(upd)
	}
	return s
}

func (c *converter) forIn(n *sitter.Node) tsast.Stmt {
	p := pos(n)
	kind := varKind(n)
	name := c.text(n.ChildByFieldName("left"))
	x := c.expr(n.ChildByFieldName("right"))
	body := c.stmt(n.ChildByFieldName("body"))
	if hasToken(n, "in") {
		return &tsast.ForIn{Pos: p, Kind: kind, Name: name, X: x, Body: body}
	}
	return &tsast.ForOf{Pos: p, Kind: kind, Name: name, X: x, Body: body}
}

func (c *converter) try(n *sitter.Node) *tsast.Try {
	s := &tsast.Try{Pos: pos(n), Body: c.block(n.ChildByFieldName("body"))}
	if h := n.ChildByFieldName("handler"); h != nil {
		s.CatchParam = c.text(h.ChildByFieldName("parameter"))
		s.CatchType = c.typeAnnotation(h.ChildByFieldName("type"))
		s.Catch = c.block(h.ChildByFieldName("body"))
	}
	if f := n.ChildByFieldName("finalizer"); f != nil {
		s.Finally = c.block(f.ChildByFieldName("body"))
	}
	return s
}

func (c *converter) switchStmt(n *sitter.Node) *tsast.Switch {
	s := &tsast.Switch{Pos: pos(n), Tag: c.expr(unparen(n.ChildByFieldName("value")))}
	for _, cl := range namedChildren(n.ChildByFieldName("body")) {
		cs := &tsast.Case{Pos: pos(cl)}
		value := cl.ChildByFieldName("value")
		if cl.Type() == "switch_case" {
			cs.Test = c.expr(value)
		}
		for _, st := range namedChildren(cl) {
			if same(st, value) {
				continue
			}
			cs.Body = append(cs.Body, c.stmt(st))
		}
		s.Cases = append(s.Cases, cs)
	}
	return s
}
