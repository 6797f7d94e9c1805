// Package parser is the TypeScript front-end. It parses source text with
// tree-sitter and converts the concrete syntax tree into a tsast.File.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"martianoff/tscs/internal/tsast"
	"martianoff/tscs/tscserr"
)

type TreeSitterParser struct {
}

func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{}
}

// Parse parses src as TypeScript, or as TSX when path ends in .tsx. A tree
// containing any error or missing node fails the whole file with a
// SyntaxError positioned at the first such node.
func (p *TreeSitterParser) Parse(ctx context.Context, path string, src []byte) (*tsast.File, error) {
	ts := sitter.NewParser()
	if strings.HasSuffix(path, ".tsx") {
		ts.SetLanguage(tsx.GetLanguage())
	} else {
		ts.SetLanguage(typescript.GetLanguage())
	}

	tree, err := ts.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(root, src)
	}

	c := &converter{src: src, exports: make(map[string]bool)}
	return c.file(path, root), nil
}

func syntaxError(root *sitter.Node, src []byte) error {
	n := firstError(root)
	if n == nil {
		n = root
	}
	p := pos(n)
	msg := "syntax error"
	switch {
	case n.IsMissing():
		msg = fmt.Sprintf("missing %s", n.Type())
	case n.Type() == "ERROR":
		msg = fmt.Sprintf("unexpected %q", snippet(n.Content(src)))
	}
	return tscserr.NewSyntaxError(p.Line, p.Column, msg)
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch == nil || !(ch.HasError() || ch.IsMissing()) {
			continue
		}
		if e := firstError(ch); e != nil {
			return e
		}
	}
	return nil
}

func snippet(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}

// converter walks one concrete syntax tree. Node kinds it does not model
// are kept as Unmodeled* nodes carrying their source text.
type converter struct {
	src []byte
	// exports holds the local names listed in `export { ... }` clauses.
	exports map[string]bool
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

func pos(n *sitter.Node) tsast.Pos {
	p := n.StartPoint()
	return tsast.Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch.Type() == "comment" {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if ch := namedChildren(n); len(ch) > 0 {
		return ch[0]
	}
	return nil
}

// hasToken reports whether n has an anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for _, ch := range children(n) {
		if !ch.IsNamed() && ch.Type() == tok {
			return true
		}
	}
	return false
}

func hasChild(n *sitter.Node, kind string) bool {
	for _, ch := range children(n) {
		if ch.Type() == kind {
			return true
		}
	}
	return false
}

func same(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
