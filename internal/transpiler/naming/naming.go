// Package naming converts TypeScript names into C# names: case conversion,
// keyword escaping and path to namespace derivation.
package naming

import (
	"path"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

var csharpKeywords = map[string]bool{
	"abstract": true, "as": true, "base": true, "bool": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "checked": true,
	"class": true, "const": true, "continue": true, "decimal": true, "default": true,
	"delegate": true, "do": true, "double": true, "else": true, "enum": true,
	"event": true, "explicit": true, "extern": true, "false": true, "finally": true,
	"fixed": true, "float": true, "for": true, "foreach": true, "goto": true,
	"if": true, "implicit": true, "in": true, "int": true, "interface": true,
	"internal": true, "is": true, "lock": true, "long": true, "namespace": true,
	"new": true, "null": true, "object": true, "operator": true, "out": true,
	"override": true, "params": true, "private": true, "protected": true, "public": true,
	"readonly": true, "ref": true, "return": true, "sbyte": true, "sealed": true,
	"short": true, "sizeof": true, "stackalloc": true, "static": true, "string": true,
	"struct": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "uint": true, "ulong": true, "unchecked": true,
	"unsafe": true, "ushort": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true,
}

// IsKeyword reports whether name is a reserved C# keyword.
func IsKeyword(name string) bool {
	return csharpKeywords[name]
}

// EscapeKeyword prefixes reserved C# keywords with @.
func EscapeKeyword(name string) string {
	if csharpKeywords[name] {
		return "@" + name
	}
	return name
}

// SplitWords splits s on non-alphanumeric separators and case boundaries.
// "fooBar" -> [foo Bar], "HTTPServer" -> [HTTP Server], "in-progress" -> [in progress].
func SplitWords(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsLower(prev) && unicode.IsUpper(r):
			flush(i)
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// PascalCase converts an identifier to PascalCase, keeping the casing inside
// words and any leading underscores: "maxSpeed" -> "MaxSpeed",
// "_physics_process" -> "_PhysicsProcess".
func PascalCase(s string) string {
	trimmed := strings.TrimLeft(s, "_")
	prefix := s[:len(s)-len(trimmed)]
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, w := range SplitWords(trimmed) {
		sb.WriteString(upperFirst(w))
	}
	if sb.Len() == 0 {
		return s
	}
	return sb.String()
}

// CamelCase converts an identifier to camelCase.
func CamelCase(s string) string {
	return lowerFirst(PascalCase(s))
}

// TypeName normalizes an arbitrary literal value to a C# type name: words are
// lower-cased and capitalized, so "HTTP_ERROR" -> "HttpError" and
// "in-progress" -> "InProgress". The result is empty when s has no letters or digits.
func TypeName(s string) string {
	var sb strings.Builder
	for _, w := range SplitWords(s) {
		sb.WriteString(upperFirst(strings.ToLower(w)))
	}
	return sb.String()
}

// IsValidIdentifier reports whether s can be used as a C# identifier.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// ClassNameFromFile derives the module class name from a file path:
// "src/player-utils.ts" -> "PlayerUtils".
func ClassNameFromFile(file string) string {
	base := path.Base(file)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	name := PascalCase(base)
	if !IsValidIdentifier(name) {
		name = "_" + name
	}
	return name
}

// NamespaceFromPath derives a namespace from a slash-separated path relative
// to the input root. Directory segments are PascalCased and dot-joined; files
// at the root yield "".
func NamespaceFromPath(rel string) string {
	dir := path.Dir(path.Clean("/" + rel))
	if dir == "/" {
		return ""
	}
	var parts []string
	for _, seg := range strings.Split(strings.TrimPrefix(dir, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		name := TypeName(seg)
		if name == "" {
			continue
		}
		if !IsValidIdentifier(name) {
			name = "_" + name
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ".")
}

// JoinNamespace joins namespace parts, skipping empty ones.
func JoinNamespace(parts ...string) string {
	var out []string
	for _, p := range parts {
		p = strings.Trim(p, ".")
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

// ElementClassName names a class generated for an inline object type declared
// by property prop. Array element positions use the singular form:
// ("items", true) -> "Item", ("settings", false) -> "Settings".
func ElementClassName(prop string, inArray bool) string {
	if inArray {
		prop = inflection.Singular(prop)
	}
	return PascalCase(prop)
}
