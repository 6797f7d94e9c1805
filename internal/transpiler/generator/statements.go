package generator

import (
	"fmt"

	"martianoff/tscs/internal/transpiler/csast"
)

func (p *printer) block(b *csast.Block) {
	p.line("{")
	p.indent++
	for _, s := range b.Stmts {
		p.stmt(s)
	}
	p.indent--
	p.write("}")
	p.newline()
}

// body prints a nested block or, for a non-block statement, wraps it in braces.
func (p *printer) body(s csast.Stmt) {
	if b, ok := s.(*csast.Block); ok {
		p.block(b)
		return
	}
	p.block(&csast.Block{Stmts: []csast.Stmt{s}})
}

func (p *printer) stmt(s csast.Stmt) {
	switch s := s.(type) {
	case *csast.Block:
		p.block(s)
	case *csast.ExprStmt:
		p.expr(s.X, precLowest)
		p.line(";")
	case *csast.LocalDecl:
		p.localDecl(s)
		p.line(";")
	case *csast.If:
		p.ifStmt(s)
	case *csast.While:
		p.write("while (")
		p.expr(s.Cond, precLowest)
		p.line(")")
		p.block(s.Body)
	case *csast.DoWhile:
		p.line("do")
		p.block(s.Body)
		p.write("while (")
		p.expr(s.Cond, precLowest)
		p.line(");")
	case *csast.For:
		p.write("for (")
		if s.Init != nil {
			p.inlineStmt(s.Init)
		}
		p.write(";")
		if s.Cond != nil {
			p.write(" ")
			p.expr(s.Cond, precLowest)
		}
		p.write(";")
		if len(s.Updates) > 0 {
			p.write(" ")
			p.exprList(s.Updates)
		}
		p.line(")")
		p.block(s.Body)
	case *csast.Foreach:
		typ := "var"
		if s.Type != nil {
			typ = s.Type.String()
		}
		p.write("foreach (" + typ + " " + s.Name + " in ")
		p.expr(s.X, precLowest)
		p.line(")")
		p.block(s.Body)
	case *csast.Return:
		if s.X == nil {
			p.line("return;")
			return
		}
		p.write("return ")
		p.expr(s.X, precLowest)
		p.line(";")
	case *csast.Break:
		p.line("break;")
	case *csast.Continue:
		p.line("continue;")
	case *csast.Throw:
		if s.X == nil {
			p.line("throw;")
			return
		}
		p.write("throw ")
		p.expr(s.X, precLowest)
		p.line(";")
	case *csast.Try:
		p.line("try")
		p.block(s.Body)
		for _, c := range s.Catches {
			switch {
			case c.Type == nil:
				p.line("catch")
			case c.Name == "":
				p.line("catch (" + c.Type.String() + ")")
			default:
				p.line("catch (" + c.Type.String() + " " + c.Name + ")")
			}
			p.block(c.Body)
		}
		if s.Finally != nil {
			p.line("finally")
			p.block(s.Finally)
		}
	case *csast.Switch:
		p.switchStmt(s)
	case *csast.LocalFunc:
		p.method(s.Method)
	case *csast.Comment:
		p.line("// " + s.Text)
	case *csast.RawStmt:
		p.line(s.Text)
	default:
		panic(fmt.Sprintf("unsupported statement %T", s))
	}
}

func (p *printer) localDecl(s *csast.LocalDecl) {
	typ := "var"
	if s.Type != nil {
		typ = s.Type.String()
	}
	p.write(typ + " " + s.Name)
	if s.Init != nil {
		p.write(" = ")
		p.expr(s.Init, precAssign)
	}
}

// inlineStmt prints a for-loop initializer without its terminator.
func (p *printer) inlineStmt(s csast.Stmt) {
	switch s := s.(type) {
	case *csast.LocalDecl:
		p.localDecl(s)
	case *csast.ExprStmt:
		p.expr(s.X, precLowest)
	default:
		panic(fmt.Sprintf("unsupported for initializer %T", s))
	}
}

func (p *printer) ifStmt(s *csast.If) {
	p.write("if (")
	p.expr(s.Cond, precLowest)
	p.line(")")
	p.block(s.Then)
	switch e := s.Else.(type) {
	case nil:
	case *csast.If:
		p.write("else ")
		p.ifStmt(e)
	default:
		p.line("else")
		p.body(e)
	}
}

func (p *printer) switchStmt(s *csast.Switch) {
	p.write("switch (")
	p.expr(s.Tag, precLowest)
	p.line(")")
	p.line("{")
	p.indent++
	for _, sec := range s.Sections {
		labels := sec.Labels
		if len(labels) == 0 {
			labels = []csast.Expr{nil}
		}
		for _, l := range labels {
			if l == nil {
				p.line("default:")
				continue
			}
			p.write("case ")
			p.expr(l, precLowest)
			p.line(":")
		}
		p.indent++
		for _, st := range sec.Body {
			p.stmt(st)
		}
		p.indent--
	}
	p.indent--
	p.line("}")
}
