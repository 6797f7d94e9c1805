package transformer

import (
	"strconv"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

// mapType maps a source annotation, hoisting inline object types into
// generated classes named after hint and recording the namespaces the result
// needs.
func (ft *fileTransformer) mapType(t tsast.Type, hint string) csast.Type {
	if t == nil {
		return csast.Object
	}
	t = ft.hoist(t, hint, false)
	ft.reportUnsupported(t)
	out := ft.mapper.Map(t)
	ft.use(out.Namespaces()...)
	return out
}

func (ft *fileTransformer) numberType() csast.Type {
	return csast.BasicType{Name: ft.cfg.NumberType()}
}

// signatureReturnType maps the declared result of a body-less signature,
// which is any when omitted.
func (ft *fileTransformer) signatureReturnType(t tsast.Type) csast.Type {
	if t == nil {
		return csast.Object
	}
	return ft.mapType(t, "")
}

func (ft *fileTransformer) hoist(t tsast.Type, hint string, inArray bool) tsast.Type {
	switch v := t.(type) {
	case *tsast.ObjectOf:
		if len(v.Properties) == 0 {
			return v
		}
		return &tsast.NamedRef{Pos: v.Pos, Name: ft.hoistObject(v, hint, inArray)}
	case *tsast.ArrayOf:
		return &tsast.ArrayOf{Pos: v.Pos, Elem: ft.hoist(v.Elem, hint, true)}
	case *tsast.UnionOf:
		nonNull := 0
		for _, m := range v.Members {
			if !tsast.IsNullish(m) {
				nonNull++
			}
		}
		if nonNull != 1 {
			return v
		}
		members := make([]tsast.Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = ft.hoist(m, hint, inArray)
		}
		return &tsast.UnionOf{Pos: v.Pos, Members: members}
	case *tsast.GenericRef:
		elems := v.Name == "Array" || v.Name == "ReadonlyArray" || v.Name == "Set" || v.Name == "ReadonlySet"
		args := make([]tsast.Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = ft.hoist(a, hint, elems || i > 0)
		}
		return &tsast.GenericRef{Pos: v.Pos, Name: v.Name, Args: args}
	}
	return t
}

// hoistObject returns the generated class for an inline object type. Shapes
// that print identically share one class.
func (ft *fileTransformer) hoistObject(obj *tsast.ObjectOf, hint string, inArray bool) string {
	key := obj.String()
	if name, ok := ft.hoistedShape[key]; ok {
		return name
	}
	base := naming.ElementClassName(hint, inArray)
	if !naming.IsValidIdentifier(base) {
		base = "Record"
	}
	name := base
	for i := 2; ft.declared[name] || name == ft.moduleClass; i++ {
		name = base + strconv.Itoa(i)
	}
	ft.declared[name] = true
	ft.hoistedShape[key] = name
	ft.records[name] = obj
	ft.hoisted = append(ft.hoisted, ft.objectClass(name, nil, obj))
	return name
}

// objectClass emits a plain data class for an object type.
func (ft *fileTransformer) objectClass(name string, typeParams []*tsast.TypeParam, obj *tsast.ObjectOf) *csast.TypeDecl {
	td := &csast.TypeDecl{
		Modifiers:  csast.Modifiers{Access: "public", Partial: true},
		Kind:       csast.KindClass,
		Name:       name,
		TypeParams: ft.typeParams(typeParams),
	}
	for _, p := range obj.Properties {
		typ := ft.mapType(p.Type, p.Name)
		if p.Optional {
			typ = csast.Nullable(typ)
		}
		prop := &csast.PropertyDecl{
			Modifiers: csast.Modifiers{Access: "public"},
			Type:      typ,
			Name:      naming.PascalCase(p.Name),
			Getter:    &csast.Accessor{},
		}
		if !p.Readonly {
			prop.Setter = &csast.Accessor{}
		}
		td.Members = append(td.Members, prop)
	}
	return td
}

func (ft *fileTransformer) reportUnsupported(t tsast.Type) {
	switch v := t.(type) {
	case *tsast.UnsupportedType:
		ft.warn(v.Pos, "unsupported type %q; using object", v.Text)
	case *tsast.ArrayOf:
		ft.reportUnsupported(v.Elem)
	case *tsast.UnionOf:
		for _, m := range v.Members {
			ft.reportUnsupported(m)
		}
	case *tsast.GenericRef:
		for _, a := range v.Args {
			ft.reportUnsupported(a)
		}
	case *tsast.TupleOf:
		for _, e := range v.Elems {
			ft.reportUnsupported(e)
		}
	case *tsast.FunctionOf:
		for _, p := range v.Params {
			ft.reportUnsupported(p)
		}
		if v.Returns != nil {
			ft.reportUnsupported(v.Returns)
		}
	}
}

// useDecl records the namespaces referenced by member types of a
// declaration built outside the transformer.
func (ft *fileTransformer) useDecl(d csast.Decl) {
	td, ok := d.(*csast.TypeDecl)
	if !ok {
		return
	}
	for _, m := range td.Members {
		switch m := m.(type) {
		case *csast.FieldDecl:
			ft.use(m.Type.Namespaces()...)
		case *csast.PropertyDecl:
			ft.use(m.Type.Namespaces()...)
		case *csast.MethodDecl:
			ft.use(m.Returns.Namespaces()...)
			for _, p := range m.Params {
				ft.use(p.Type.Namespaces()...)
			}
		}
	}
}
