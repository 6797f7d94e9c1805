package transformer

import (
	"martianoff/tscs/internal/transpiler/module"
	"martianoff/tscs/internal/tsast"
)

func (ft *fileTransformer) recordImport(d *tsast.ImportDecl) {
	for _, spec := range d.Named {
		name := spec.Name
		if spec.Alias != "" {
			name = spec.Alias
		}
		ft.imported[name] = true
	}
}

// transformImport turns named imports of sibling modules into using
// directives for their namespaces. Imports of the host API bring in its
// namespace. Other import forms have no C# counterpart and warn.
func (ft *fileTransformer) transformImport(d *tsast.ImportDecl) {
	res := ft.modules.Resolve(ft.unit.Path, d.Module)
	switch res.Kind {
	case module.Host:
		ft.use(res.Namespace)
		return
	case module.Package:
		ft.warn(d.Pos, "import from package %q has no C# equivalent; omitted", d.Module)
		return
	}

	switch {
	case d.IsSideEffect():
		ft.warn(d.Pos, "side-effect import %q has no C# equivalent; omitted", d.Module)
		return
	case d.Default != "":
		ft.warn(d.Pos, "default import %s from %q has no C# equivalent; omitted", d.Default, d.Module)
	case d.Namespace != "":
		ft.warn(d.Pos, "namespace import %s from %q has no C# equivalent; omitted", d.Namespace, d.Module)
	}
	for _, spec := range d.Named {
		if spec.Alias != "" && spec.Alias != spec.Name {
			ft.warn(d.Pos, "import alias %s for %s is not supported; references keep the alias", spec.Alias, spec.Name)
		}
	}
	if len(d.Named) == 0 {
		return
	}

	if res.Namespace != "" && res.Namespace != ft.unit.Namespace {
		ft.use(res.Namespace)
	}
}
