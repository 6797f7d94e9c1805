package generator

import (
	"fmt"
	"strings"

	"martianoff/tscs/internal/transpiler/csast"
)

// Operator precedence levels, lowest first.
const (
	precLowest = iota
	precAssign
	precConditional
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

var binaryPrec = map[string]int{
	"??": precCoalesce,
	"||": precOr,
	"&&": precAnd,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"==": precEquality, "!=": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
}

func precOf(e csast.Expr) int {
	switch e := e.(type) {
	case *csast.Binary:
		if p, ok := binaryPrec[e.Op]; ok {
			return p
		}
		return precRelational
	case *csast.Assign, *csast.Lambda:
		return precAssign
	case *csast.Conditional:
		return precConditional
	case *csast.Is:
		return precRelational
	case *csast.Unary, *csast.Cast, *csast.Await:
		return precUnary
	case *csast.Literal:
		if strings.HasPrefix(e.Text, "-") {
			return precUnary
		}
	}
	return precPrimary
}

func (p *printer) expr(e csast.Expr, min int) {
	if precOf(e) < min {
		p.write("(")
		p.exprNoParen(e)
		p.write(")")
		return
	}
	p.exprNoParen(e)
}

func (p *printer) exprList(list []csast.Expr) {
	for i, e := range list {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e, precAssign)
	}
}

func (p *printer) exprNoParen(e csast.Expr) {
	switch e := e.(type) {
	case *csast.Ident:
		p.write(e.Name)
	case *csast.Literal:
		p.write(e.Text)
	case *csast.StringLit:
		p.write(Quote(e.Value))
	case *csast.Interpolated:
		p.interpolated(e)
	case *csast.Binary:
		prec := precOf(e)
		left, right := prec, prec+1
		if e.Op == "??" {
			left, right = prec+1, prec
		}
		p.expr(e.L, left)
		p.write(" " + e.Op + " ")
		p.expr(e.R, right)
	case *csast.Unary:
		p.write(e.Op)
		if u, ok := e.X.(*csast.Unary); ok && (e.Op == "-" || e.Op == "+") && strings.HasPrefix(u.Op, e.Op) {
			// keep "- -x" from printing as "--x"
			p.write(" ")
		}
		p.expr(e.X, precUnary)
	case *csast.Postfix:
		p.expr(e.X, precPrimary)
		p.write(e.Op)
	case *csast.Assign:
		p.expr(e.L, precUnary)
		p.write(" " + e.Op + " ")
		p.expr(e.R, precAssign)
	case *csast.Conditional:
		p.expr(e.Cond, precCoalesce)
		p.write(" ? ")
		p.expr(e.Then, precConditional)
		p.write(" : ")
		p.expr(e.Else, precConditional)
	case *csast.Call:
		p.expr(e.Fun, precPrimary)
		if len(e.TypeArgs) > 0 {
			args := make([]string, len(e.TypeArgs))
			for i, t := range e.TypeArgs {
				args[i] = t.String()
			}
			p.write("<" + strings.Join(args, ", ") + ">")
		}
		p.write("(")
		p.exprList(e.Args)
		p.write(")")
	case *csast.Selector:
		p.expr(e.X, precPrimary)
		if e.Conditional {
			p.write("?")
		}
		p.write("." + e.Name)
	case *csast.Index:
		p.expr(e.X, precPrimary)
		if e.Conditional {
			p.write("?")
		}
		p.write("[")
		p.expr(e.Index, precLowest)
		p.write("]")
	case *csast.New:
		p.newExpr(e)
	case *csast.Lambda:
		p.lambda(e)
	case *csast.Cast:
		p.write("(" + e.Type.String() + ")")
		p.expr(e.X, precPrimary)
	case *csast.Is:
		p.expr(e.X, precRelational)
		p.write(" is " + e.Type.String())
	case *csast.Paren:
		p.write("(")
		p.expr(e.X, precLowest)
		p.write(")")
	case *csast.SuppressNull:
		p.expr(e.X, precPrimary)
		p.write("!")
	case *csast.CollectionExpr:
		p.write("[")
		p.exprList(e.Elems)
		p.write("]")
	case *csast.Spread:
		p.write("..")
		p.expr(e.X, precUnary)
	case *csast.Await:
		p.write("await ")
		p.expr(e.X, precUnary)
	case *csast.TypeRef:
		p.write(e.Type.String())
	case *csast.Raw:
		p.write(e.Text)
	default:
		panic(fmt.Sprintf("unsupported expression %T", e))
	}
}

func (p *printer) newExpr(e *csast.New) {
	p.write("new")
	if e.Type != nil {
		p.write(" " + e.Type.String())
	}
	if len(e.Args) > 0 || len(e.Inits) == 0 {
		p.write("(")
		p.exprList(e.Args)
		p.write(")")
	}
	if len(e.Inits) == 0 {
		return
	}
	p.write(" { ")
	for i, in := range e.Inits {
		if i > 0 {
			p.write(", ")
		}
		p.write(in.Name + " = ")
		p.expr(in.Value, precAssign)
	}
	p.write(" }")
}

func (p *printer) lambda(e *csast.Lambda) {
	if e.Async {
		p.write("async ")
	}
	typed := len(e.Params) > 0
	for _, prm := range e.Params {
		if prm.Type == nil {
			typed = false
		}
	}
	if len(e.Params) == 1 && !typed && e.Params[0].Default == nil {
		p.write(e.Params[0].Name)
	} else {
		p.write("(")
		p.params(e.Params)
		p.write(")")
	}
	p.write(" =>")
	if e.BodyBlock != nil {
		p.newline()
		p.block(e.BodyBlock)
		// the enclosing statement continues on the closing brace line
		p.sb.Truncate(p.sb.Len() - 1)
		p.atLineStart = false
		return
	}
	p.write(" ")
	p.expr(e.BodyExpr, precAssign)
}

func (p *printer) interpolated(e *csast.Interpolated) {
	p.write(`$"`)
	for _, part := range e.Parts {
		if part.X == nil {
			escaped := escape(part.Text)
			escaped = strings.ReplaceAll(escaped, "{", "{{")
			escaped = strings.ReplaceAll(escaped, "}", "}}")
			p.write(escaped)
			continue
		}
		p.write("{")
		// ':' and '?:' would start a format specifier inside a hole
		p.expr(part.X, precCoalesce)
		p.write("}")
	}
	p.write(`"`)
}

// Quote renders s as a regular C# string literal.
func Quote(s string) string {
	return `"` + escape(s) + `"`
}

func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f || r == 0x2028 || r == 0x2029 {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
