package transpiler

import (
	"context"

	"martianoff/tscs/internal/parser"
	"martianoff/tscs/internal/tsast"
)

type treeSitterParser struct {
	wrapper *parser.TreeSitterParser
}

// NewTreeSitterParser creates a new Parser implementation using tree-sitter.
func NewTreeSitterParser() Parser {
	return &treeSitterParser{
		wrapper: parser.NewTreeSitterParser(),
	}
}

// Parse implements the Parser interface.
func (p *treeSitterParser) Parse(ctx context.Context, path string, src []byte) (*tsast.File, error) {
	return p.wrapper.Parse(ctx, path, src)
}

// Ensure treeSitterParser implements Parser interface.
var _ Parser = (*treeSitterParser)(nil)
