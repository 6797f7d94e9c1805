// Package infer provides the default type oracle: a local, flow-insensitive
// inference over expressions that is good enough to pick declared types for
// unannotated variables and properties.
package infer

import (
	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/tsast"
)

// TypeEnv is a mapping from names to their source types.
type TypeEnv map[string]tsast.Type

// Lookup returns a lookup function over e that falls back to parent.
func (e TypeEnv) Lookup(parent func(string) tsast.Type) func(string) tsast.Type {
	return func(name string) tsast.Type {
		if t, ok := e[name]; ok {
			return t
		}
		if parent != nil {
			return parent(name)
		}
		return nil
	}
}

// Inferer is the default TypeOracle. It is stateless and safe for concurrent use.
type Inferer struct{}

// NewInferer creates an inferer.
func NewInferer() *Inferer {
	return &Inferer{}
}

// TypeOfExpr infers the widened source type of e: literal types become their
// primitive, so `42` is number and `"a"` is string.
func (inf *Inferer) TypeOfExpr(e tsast.Expr, lookup func(string) tsast.Type) tsast.Type {
	if lookup == nil {
		lookup = func(string) tsast.Type { return nil }
	}
	t := inf.infer(e, lookup)
	if t == nil {
		return Any
	}
	return Widen(t)
}

var _ transpiler.TypeOracle = (*Inferer)(nil)
