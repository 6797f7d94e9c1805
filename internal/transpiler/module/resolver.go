// Package module resolves TypeScript module specifiers to the C# namespaces
// of the files they name.
package module

import (
	"path"
	"path/filepath"
	"strings"

	"martianoff/tscs/internal/transpiler"
)

// Kind classifies a module specifier.
type Kind int

const (
	// Relative specifiers start with ./ or ../ and name a file of the project.
	Relative Kind = iota
	// Host specifiers name the engine API ("godot" or a subpath of it).
	Host
	// Package specifiers name anything else, e.g. an npm package.
	Package
)

func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Host:
		return "host"
	default:
		return "package"
	}
}

const (
	// HostModule is the specifier of the engine bindings.
	HostModule = "godot"
	// HostNamespace is the C# namespace the engine bindings live in.
	HostNamespace = "Godot"
)

// Resolution is the result of resolving a specifier.
type Resolution struct {
	Kind Kind
	// Path is the slash-separated path of the imported file, without its
	// extension. Set for relative specifiers only.
	Path string
	// Namespace is the C# namespace of the imported file; HostNamespace for
	// host specifiers and empty for packages.
	Namespace string
}

// Resolver maps specifiers, as written in one file, to namespaces.
//
// Example usage:
//
//	r := NewResolver("src", "Game")
//	res := r.Resolve("src/enemies/enemy.ts", "../actors/actor")
//	// res.Namespace == "Game.Actors"
type Resolver struct {
	inputRoot     string
	namespaceRoot string
}

// NewResolver creates a Resolver deriving namespaces relative to inputRoot,
// prefixed with namespaceRoot.
func NewResolver(inputRoot, namespaceRoot string) *Resolver {
	return &Resolver{inputRoot: inputRoot, namespaceRoot: namespaceRoot}
}

// Classify returns the kind of a specifier without resolving it.
func Classify(specifier string) Kind {
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		return Relative
	case specifier == HostModule || strings.HasPrefix(specifier, HostModule+"/"):
		return Host
	default:
		return Package
	}
}

// Resolve resolves specifier as imported from the file at fromFile.
func (r *Resolver) Resolve(fromFile, specifier string) Resolution {
	switch Classify(specifier) {
	case Host:
		return Resolution{Kind: Host, Namespace: HostNamespace}
	case Package:
		return Resolution{Kind: Package}
	}

	target := path.Join(path.Dir(filepath.ToSlash(fromFile)), stripExtension(specifier))
	unit := transpiler.UnitFor(filepath.FromSlash(target), r.inputRoot, r.namespaceRoot)
	return Resolution{Kind: Relative, Path: target, Namespace: unit.Namespace}
}

// stripExtension drops the source or emitted-JavaScript extension some
// projects write in specifiers.
func stripExtension(specifier string) string {
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		if strings.HasSuffix(specifier, ext) {
			return strings.TrimSuffix(specifier, ext)
		}
	}
	return specifier
}
