package union

import (
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/typemap"
)

// Synthesize emits the class hierarchy of plan: an abstract base class
// exposing the discriminant and the shared fields, followed by one sealed
// subclass per variant. The result always has len(plan.Variants)+1 entries.
func Synthesize(plan *Plan, m *typemap.Mapper) []csast.Decl {
	discType := DiscriminantType(plan.Discriminant, m)
	discName := MemberName(plan.BaseName, plan.Discriminant.Property)

	base := &csast.TypeDecl{
		Modifiers: csast.Modifiers{Access: "public", Abstract: true, Partial: true},
		Kind:      csast.KindClass,
		Name:      plan.BaseName,
		Members: []csast.Member{
			&csast.PropertyDecl{
				Modifiers: csast.Modifiers{Access: "public", Abstract: true},
				Type:      discType,
				Name:      discName,
				Getter:    &csast.Accessor{},
			},
		},
	}
	base.Members = append(base.Members, fields(plan.Shared, plan.BaseName, m)...)

	decls := []csast.Decl{base}
	baseType := csast.NamedType{Name: plan.BaseName}
	for _, v := range plan.Variants {
		cls := &csast.TypeDecl{
			Modifiers: csast.Modifiers{Access: "public", Sealed: true, Partial: true},
			Kind:      csast.KindClass,
			Name:      v.ClassName,
			Bases:     []csast.Type{baseType},
			Members: []csast.Member{
				&csast.PropertyDecl{
					Modifiers: csast.Modifiers{Access: "public", Override: true},
					Type:      discType,
					Name:      discName,
					ExprBody:  ValueExpr(v.Value, m.Config()),
				},
			},
		}
		cls.Members = append(cls.Members, fields(v.Own, v.ClassName, m)...)
		decls = append(decls, cls)
	}
	return decls
}

// DiscriminantType maps the discriminant domain to its C# type.
func DiscriminantType(d Discriminant, m *typemap.Mapper) csast.Type {
	switch d.Domain {
	case DomainNumber:
		return csast.BasicType{Name: m.Config().NumberType()}
	case DomainBoolean:
		return csast.Bool
	case DomainEnum:
		if d.StringValued {
			return csast.String
		}
		return csast.NamedType{Name: d.Enum}
	}
	return csast.String
}

// ValueExpr formats a discriminant value: a quoted string, a bare numeral, a
// boolean literal or Enum.Member.
func ValueExpr(v Value, cfg *transpiler.TypeMappingConfig) csast.Expr {
	switch v.Domain {
	case DomainString:
		return &csast.StringLit{Value: v.Text}
	case DomainNumber:
		return &csast.Literal{Text: NumberLiteral(v.Text, cfg.NumericWidth())}
	case DomainBoolean:
		return &csast.Literal{Text: v.Text}
	case DomainEnum:
		return csast.Sel(v.Enum, v.Text)
	}
	return &csast.Literal{Text: "default"}
}

// NumberLiteral renders a numeral so that it converts implicitly to the
// configured number type: fractional numerals get an f suffix under 32-bit width.
func NumberLiteral(text string, width transpiler.NumericWidth) string {
	text = strings.ReplaceAll(text, "_", "")
	isHex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	fractional := !isHex && strings.ContainsAny(text, ".eE")
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	if fractional && width == transpiler.Width32 {
		return text + "f"
	}
	return text
}

func fields(props []Property, owner string, m *typemap.Mapper) []csast.Member {
	out := make([]csast.Member, 0, len(props))
	for _, p := range props {
		t := m.Map(p.Type)
		if p.Optional {
			t = csast.Nullable(t)
		}
		out = append(out, &csast.FieldDecl{
			Modifiers: csast.Modifiers{Access: "public"},
			Type:      t,
			Name:      MemberName(owner, p.Name),
		})
	}
	return out
}
