package transformer

import (
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/tsast"
)

// declaredType returns the type of a declaration: the mapped annotation when
// present, otherwise the type inferred from init. Inference appends exactly
// one warning naming the declaration, the inferred type and the line.
func (ft *fileTransformer) declaredType(pos tsast.Pos, kind, name string, annotation tsast.Type, init tsast.Expr) csast.Type {
	if annotation != nil {
		return ft.mapType(annotation, name)
	}
	if init == nil {
		ft.warn(pos, "%s %s has no type annotation or initializer; using object", kind, name)
		return csast.Object
	}
	return ft.inferredType(pos, kind, name, ft.typeOfExpr(init))
}

func (ft *fileTransformer) inferredType(pos tsast.Pos, kind, name string, src tsast.Type) csast.Type {
	typ := ft.mapType(src, name)
	ft.warn(pos, "%s %s has no type annotation; inferred %s at line %d", kind, name, typ, pos.Line)
	return typ
}
