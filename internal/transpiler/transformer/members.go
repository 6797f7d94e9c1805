package transformer

import (
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

func (ft *fileTransformer) transformMember(x *tsast.Member) csast.Expr {
	if name := dottedName(x); name != "" {
		if e, ok := ft.bridgeMember(name); ok {
			return e
		}
	}
	if id, ok := x.X.(*tsast.Ident); ok {
		if _, local := ft.lookupLocal(id.Name); !local {
			if _, ok := ft.enums[id.Name]; ok {
				return csast.Sel(id.Name, naming.EscapeKeyword(x.Name))
			}
		}
	}

	recv := ft.transformExpr(x.X, nil)
	switch x.Name {
	case "length":
		name := "Length"
		if csast.IsListLike(ft.csTypeOfExpr(x.X)) {
			name = "Count"
		}
		return &csast.Selector{X: recv, Name: name, Conditional: x.Optional}
	case "size":
		if isCollection(ft.typeOfExpr(x.X)) {
			return &csast.Selector{X: recv, Name: "Count", Conditional: x.Optional}
		}
	}
	return &csast.Selector{X: recv, Name: ft.memberName(x), Conditional: x.Optional}
}

// memberName spells x.Name on its receiver: the recorded name for members
// of classes in this file, PascalCase for everything else.
func (ft *fileTransformer) memberName(x *tsast.Member) string {
	switch recv := x.X.(type) {
	case *tsast.ThisExpr:
		if ft.cls != nil {
			if m, ok := ft.lookupMember(ft.cls, x.Name); ok {
				return m.csName
			}
		}
	case *tsast.SuperExpr:
		if ft.cls != nil {
			if base, ok := ft.classes[ft.cls.base]; ok {
				if m, ok := ft.lookupMember(base, x.Name); ok {
					return m.csName
				}
			}
		}
	case *tsast.Ident:
		if _, local := ft.lookupLocal(recv.Name); !local {
			if cls, ok := ft.classes[recv.Name]; ok {
				if m, ok := ft.lookupMember(cls, x.Name); ok {
					return m.csName
				}
			}
		}
	}
	if ref := receiverTypeName(ft.typeOfExpr(x.X)); ref != "" {
		return ft.memberNameOn(ref, x.Name)
	}
	return naming.PascalCase(x.Name)
}

func receiverTypeName(t tsast.Type) string {
	switch t := t.(type) {
	case *tsast.NamedRef:
		return t.Name
	case *tsast.GenericRef:
		return t.Name
	case *tsast.UnionOf:
		var name string
		for _, m := range t.Members {
			if tsast.IsNullish(m) {
				continue
			}
			if name != "" {
				return ""
			}
			name = receiverTypeName(m)
		}
		return name
	}
	return ""
}

func isCollection(t tsast.Type) bool {
	switch receiverTypeName(t) {
	case "Map", "Set", "ReadonlyMap", "ReadonlySet", "WeakMap", "WeakSet":
		return true
	}
	return false
}
