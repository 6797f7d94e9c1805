package infer

import (
	"martianoff/tscs/internal/tsast"
)

// Common source types produced by inference.
var (
	Any       tsast.Type = &tsast.Primitive{Name: "any"}
	Number    tsast.Type = &tsast.Primitive{Name: "number"}
	String    tsast.Type = &tsast.Primitive{Name: "string"}
	Boolean   tsast.Type = &tsast.Primitive{Name: "boolean"}
	Null      tsast.Type = &tsast.Primitive{Name: "null"}
	Undefined tsast.Type = &tsast.Primitive{Name: "undefined"}
	Void      tsast.Type = &tsast.Primitive{Name: "void"}
)

// Widen replaces literal types by their primitive domain, recursively.
func Widen(t tsast.Type) tsast.Type {
	switch v := t.(type) {
	case *tsast.LiteralOf:
		switch v.Value.Kind {
		case tsast.LitNumber:
			return Number
		case tsast.LitBoolean:
			return Boolean
		}
		return String
	case *tsast.ArrayOf:
		return &tsast.ArrayOf{Pos: v.Pos, Elem: Widen(v.Elem)}
	case *tsast.UnionOf:
		var out tsast.Type
		for _, m := range v.Members {
			out = Join(out, Widen(m))
		}
		return out
	}
	return t
}

// Join returns the least type covering a and b: identical types join to
// themselves, anything else to a union. A nil operand is ignored.
func Join(a, b tsast.Type) tsast.Type {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.String() == b.String():
		return a
	}

	var members []tsast.Type
	seen := make(map[string]bool)
	add := func(t tsast.Type) {
		if u, ok := t.(*tsast.UnionOf); ok {
			for _, m := range u.Members {
				if !seen[m.String()] {
					seen[m.String()] = true
					members = append(members, m)
				}
			}
			return
		}
		if !seen[t.String()] {
			seen[t.String()] = true
			members = append(members, t)
		}
	}
	add(a)
	add(b)
	if len(members) == 1 {
		return members[0]
	}
	return &tsast.UnionOf{Members: members}
}

// StripNullish removes null and undefined from a union.
func StripNullish(t tsast.Type) tsast.Type {
	u, ok := t.(*tsast.UnionOf)
	if !ok {
		return t
	}
	var out tsast.Type
	for _, m := range u.Members {
		if !tsast.IsNullish(m) {
			out = Join(out, m)
		}
	}
	if out == nil {
		return Any
	}
	return out
}

func isNamed(t tsast.Type, names ...string) bool {
	var name string
	switch v := t.(type) {
	case *tsast.Primitive:
		name = v.Name
	case *tsast.NamedRef:
		name = v.Name
	default:
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// returnTypes maps well-known global calls to their result type.
var returnTypes = map[string]tsast.Type{
	"String":         String,
	"Number":         Number,
	"Boolean":        Boolean,
	"parseInt":       Number,
	"parseFloat":     Number,
	"isNaN":          Boolean,
	"isFinite":       Boolean,
	"JSON.stringify": String,
	"Date.now":       Number,
	"Array.isArray":  Boolean,
	"Number.isNaN":   Boolean,
	"Object.keys":    &tsast.ArrayOf{Elem: String},
}

// methodReturns maps method names to result types independent of the receiver.
var methodReturns = map[string]tsast.Type{
	"toString":    String,
	"toFixed":     String,
	"join":        String,
	"trim":        String,
	"toUpperCase": String,
	"toLowerCase": String,
	"indexOf":     Number,
	"includes":    Boolean,
	"startsWith":  Boolean,
	"endsWith":    Boolean,
	"has":         Boolean,
	"push":        Number,
	"some":        Boolean,
	"every":       Boolean,
}
