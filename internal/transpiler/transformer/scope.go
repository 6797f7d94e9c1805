package transformer

import (
	"strings"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

type localInfo struct {
	csName string
	src    tsast.Type
	cs     csast.Type
}

type scope struct {
	vars   map[string]*localInfo
	parent *scope
}

func (ft *fileTransformer) pushScope() {
	ft.currentScope = &scope{
		vars:   make(map[string]*localInfo),
		parent: ft.currentScope,
	}
}

func (ft *fileTransformer) popScope() {
	if ft.currentScope != nil {
		ft.currentScope = ft.currentScope.parent
	}
}

// addLocal declares a local variable or parameter and returns its C# name.
func (ft *fileTransformer) addLocal(name string, src tsast.Type, cs csast.Type) string {
	csName := naming.EscapeKeyword(name)
	ft.addRenamed(name, csName, src, cs)
	return csName
}

// addRenamed declares a local whose C# spelling differs from its source name,
// such as a setter parameter that becomes value.
func (ft *fileTransformer) addRenamed(name, csName string, src tsast.Type, cs csast.Type) {
	if ft.currentScope != nil {
		ft.currentScope.vars[name] = &localInfo{csName: csName, src: src, cs: cs}
	}
}

func (ft *fileTransformer) lookupLocal(name string) (*localInfo, bool) {
	for s := ft.currentScope; s != nil; s = s.parent {
		if info, ok := s.vars[name]; ok {
			return info, true
		}
	}
	return nil, false
}

// lookupType resolves a name for the type oracle. Dotted names walk the
// properties of types declared in this file.
func (ft *fileTransformer) lookupType(name string) tsast.Type {
	if head, rest, ok := strings.Cut(name, "."); ok {
		return ft.lookupPath(head, strings.Split(rest, "."))
	}
	if info, ok := ft.lookupLocal(name); ok {
		return info.src
	}
	if name == "this" && ft.cls != nil {
		return ft.cls.shape
	}
	if t, ok := ft.moduleVars[name]; ok {
		return t
	}
	if fn, ok := ft.moduleFuncs[name]; ok {
		return functionType(fn.Params, fn.Returns)
	}
	if cls, ok := ft.classes[name]; ok {
		return cls.staticShape
	}
	return nil
}

func (ft *fileTransformer) lookupPath(head string, path []string) tsast.Type {
	if _, local := ft.lookupLocal(head); !local {
		if _, ok := ft.enums[head]; ok && len(path) == 1 {
			return &tsast.NamedRef{Name: head}
		}
	}
	t := ft.lookupType(head)
	for _, seg := range path {
		if t == nil {
			return nil
		}
		if obj, ok := t.(*tsast.ObjectOf); ok {
			t = nil
			for _, p := range obj.Properties {
				if p.Name == seg {
					t = p.Type
				}
			}
			continue
		}
		t = ft.propertyType(receiverTypeName(t), seg)
	}
	return t
}

func functionType(params []*tsast.Param, returns tsast.Type) tsast.Type {
	fn := &tsast.FunctionOf{Returns: returns}
	for _, p := range params {
		t := p.Type
		if t == nil {
			t = &tsast.Primitive{Name: "any"}
		}
		fn.Params = append(fn.Params, t)
	}
	if fn.Returns == nil {
		fn.Returns = &tsast.Primitive{Name: "any"}
	}
	return fn
}

// typeOfExpr infers the source type of e in the current scope.
func (ft *fileTransformer) typeOfExpr(e tsast.Expr) tsast.Type {
	return ft.oracle.TypeOfExpr(e, ft.lookupType)
}

// csTypeOfExpr infers and maps the type of e.
func (ft *fileTransformer) csTypeOfExpr(e tsast.Expr) csast.Type {
	return ft.mapper.Map(ft.typeOfExpr(e))
}
