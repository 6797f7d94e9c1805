package transformer

import (
	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/union"
	"martianoff/tscs/internal/tsast"
)

// unionInfo is a type alias recognized as a discriminated union.
type unionInfo struct {
	decl *tsast.TypeAliasDecl
	plan *union.Plan
}

func (ft *fileTransformer) enumInfos() []union.EnumInfo {
	var out []union.EnumInfo
	for _, d := range ft.file.Decls {
		e, ok := d.(*tsast.EnumDecl)
		if !ok {
			continue
		}
		info := union.EnumInfo{Name: e.Name, StringValued: ft.stringEnums[e.Name]}
		for _, m := range e.Members {
			info.Members = append(info.Members, m.Name)
		}
		out = append(out, info)
	}
	return out
}

// prepareUnions classifies every type alias before declarations are emitted.
// Discriminated unions get a hierarchy plan; the interfaces they consume are
// suppressed and, when renamed, aliased to their variant class. Object
// aliases stay nominal.
// Under the tagged-struct strategy consumed interfaces alias the struct itself. Everything else is expanded at use sites.
func (ft *fileTransformer) prepareUnions() {
	ft.analyzer = union.NewAnalyzer(ft.enumInfos()...)
	for _, d := range ft.file.Decls {
		a, ok := d.(*tsast.TypeAliasDecl)
		if !ok {
			continue
		}
		switch t := a.Type.(type) {
		case *tsast.ObjectOf:
			ft.records[a.Name] = t
			continue
		case *tsast.UnionOf:
			if plan, variants, ok := ft.planUnion(a.Name, t); ok {
				ft.unions[a.Name] = &unionInfo{decl: a, plan: plan}
				for i, v := range variants {
					if v.Name == "" {
						continue
					}
					ft.suppressed[v.Name] = true
					cls := plan.Variants[i].ClassName
					if ft.opts.UnionStrategy == transpiler.UnionTaggedStruct {
						cls = a.Name
					}
					if cls != v.Name {
						ft.aliases[v.Name] = &tsast.NamedRef{Pos: v.Pos, Name: cls}
					}
				}
				continue
			}
		}
		ft.aliases[a.Name] = a.Type
	}
}

func (ft *fileTransformer) planUnion(name string, t *tsast.UnionOf) (*union.Plan, []*union.Variant, bool) {
	variants, ok := ft.unionVariants(t)
	if !ok || len(variants) < 2 {
		return nil, nil, false
	}
	hierarchy := ft.opts.UnionStrategy != transpiler.UnionTaggedStruct
	var reserved []string
	if hierarchy {
		reserved = ft.takenTypeNames(name)
	}
	plan, ok := ft.analyzer.BuildPlan(name, variants, ft.diags, reserved...)
	if !ok {
		return nil, nil, false
	}
	if hierarchy {
		for _, v := range plan.Variants {
			ft.declared[v.ClassName] = true
		}
	}
	return plan, variants, true
}

// takenTypeNames lists the type names of the file a variant class of the
// union named except must not reuse: declarations, earlier variant classes
// and the module class.
func (ft *fileTransformer) takenTypeNames(except string) []string {
	names := make([]string, 0, len(ft.declared)+1)
	for n := range ft.declared {
		if n != except {
			names = append(names, n)
		}
	}
	if ft.moduleClass != "" {
		names = append(names, ft.moduleClass)
	}
	return names
}

// unionVariants collects the record shapes of a union whose members are all
// inline object types or plain interfaces of this file.
func (ft *fileTransformer) unionVariants(t *tsast.UnionOf) ([]*union.Variant, bool) {
	var out []*union.Variant
	for _, m := range t.Members {
		switch m := m.(type) {
		case *tsast.ObjectOf:
			out = append(out, &union.Variant{Pos: m.Pos, Properties: variantProperties(m.Properties)})
		case *tsast.NamedRef:
			iface, ok := ft.interfaces[m.Name]
			if !ok || ft.suppressed[m.Name] || len(iface.Extends) > 0 || len(iface.TypeParams) > 0 || len(iface.Methods) > 0 {
				return nil, false
			}
			out = append(out, &union.Variant{Pos: iface.Pos, Name: iface.Name, Properties: variantProperties(iface.Properties)})
		default:
			return nil, false
		}
	}
	return out, true
}

func variantProperties(sigs []*tsast.PropertySig) []union.Property {
	props := make([]union.Property, len(sigs))
	for i, s := range sigs {
		props[i] = union.Property{Name: s.Name, Type: s.Type, Optional: s.Optional}
	}
	return props
}

func (ft *fileTransformer) transformTypeAlias(d *tsast.TypeAliasDecl) []csast.Decl {
	if u, ok := ft.unions[d.Name]; ok {
		var decls []csast.Decl
		if ft.opts.UnionStrategy == transpiler.UnionTaggedStruct {
			decls = []csast.Decl{union.SynthesizeTagged(u.plan, ft.mapper)}
		} else {
			decls = union.Synthesize(u.plan, ft.mapper)
		}
		for _, decl := range decls {
			ft.useDecl(decl)
		}
		return decls
	}

	switch t := d.Type.(type) {
	case *tsast.ObjectOf:
		return []csast.Decl{ft.objectClass(d.Name, d.TypeParams, t)}
	case *tsast.UnionOf:
		if _, ok := ft.unionVariants(t); ok && len(t.Members) > 1 {
			ft.warn(d.Pos, "union %s has no discriminant property; mapped to object", d.Name)
			return nil
		}
	}
	ft.warn(d.Pos, "type alias %s is expanded at each use as %s; omitted from output",
		d.Name, ft.mapper.Map(d.Type))
	return nil
}
