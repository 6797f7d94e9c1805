package transformer

import (
	"strings"
	"unicode"

	"martianoff/tscs/internal/tsast"
)

func isHex(text string) bool {
	return strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
}

// isScreaming reports whether name is written in SCREAMING_SNAKE_CASE.
func isScreaming(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r):
			hasLetter = true
		}
	}
	return hasLetter && len(name) > 1
}

var rawReplacer = strings.NewReplacer("===", "==", "!==", "!=")

// renormalize applies the textual rewrites that keep unmodeled source close
// to valid C#.
func renormalize(text string) string {
	return rawReplacer.Replace(strings.TrimSpace(text))
}

// dottedName returns a.b.c for identifier/member chains, "" otherwise.
func dottedName(e tsast.Expr) string {
	switch x := e.(type) {
	case *tsast.Ident:
		return x.Name
	case *tsast.Member:
		if x.Optional {
			return ""
		}
		if head := dottedName(x.X); head != "" {
			return head + "." + x.Name
		}
	}
	return ""
}

// describeExpr names an expression in diagnostics.
func describeExpr(e tsast.Expr) string {
	if name := dottedName(e); name != "" {
		return name
	}
	switch x := e.(type) {
	case *tsast.ThisExpr:
		return "this"
	case *tsast.Member:
		return describeExpr(x.X) + "." + x.Name
	case *tsast.Call:
		return describeExpr(x.Callee) + "(...)"
	case *tsast.Paren:
		return describeExpr(x.X)
	}
	return "expression"
}
