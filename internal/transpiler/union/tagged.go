package union

import (
	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/transpiler/typemap"
)

type taggedField struct {
	prop      Property
	fieldName string
	typ       csast.Type
}

// SynthesizeTagged emits plan as a single struct carrying the discriminant,
// the union of all variant fields, one Is<Variant> property per variant and
// one factory method per variant. A field name declared with different types
// by different variants is prefixed with the variant class name.
func SynthesizeTagged(plan *Plan, m *typemap.Mapper) csast.Decl {
	discType := DiscriminantType(plan.Discriminant, m)
	discName := MemberName(plan.BaseName, plan.Discriminant.Property)

	typeTexts := make(map[string]map[string]bool)
	for _, v := range plan.Variants {
		for _, p := range v.Own {
			if typeTexts[p.Name] == nil {
				typeTexts[p.Name] = make(map[string]bool)
			}
			typeTexts[p.Name][p.TypeText()] = true
		}
	}

	decl := &csast.TypeDecl{
		Modifiers: csast.Modifiers{Access: "public", Partial: true},
		Kind:      csast.KindStruct,
		Name:      plan.BaseName,
		Members: []csast.Member{
			&csast.FieldDecl{Modifiers: csast.Modifiers{Access: "public"}, Type: discType, Name: discName},
		},
	}

	shared := taggedFields(plan.Shared, "", plan.BaseName, m)
	for _, f := range shared {
		decl.Members = append(decl.Members, field(f))
	}

	declared := make(map[string]bool)
	perVariant := make([][]taggedField, len(plan.Variants))
	for i, v := range plan.Variants {
		for _, p := range v.Own {
			prefix := ""
			if len(typeTexts[p.Name]) > 1 {
				prefix = v.ClassName
			}
			f := taggedFields([]Property{p}, prefix, plan.BaseName, m)[0]
			perVariant[i] = append(perVariant[i], f)
			if declared[f.fieldName] {
				continue
			}
			declared[f.fieldName] = true
			decl.Members = append(decl.Members, field(f))
		}
	}

	for _, v := range plan.Variants {
		decl.Members = append(decl.Members, &csast.PropertyDecl{
			Modifiers: csast.Modifiers{Access: "public", Readonly: true},
			Type:      csast.Bool,
			Name:      "Is" + v.ClassName,
			ExprBody: &csast.Binary{
				Op: "==",
				L:  csast.NewIdent(discName),
				R:  ValueExpr(v.Value, m.Config()),
			},
		})
	}

	self := csast.NamedType{Name: plan.BaseName}
	for i, v := range plan.Variants {
		decl.Members = append(decl.Members, factory(self, discName, v, append(append([]taggedField{}, shared...), perVariant[i]...), m))
	}
	return decl
}

func taggedFields(props []Property, prefix, owner string, m *typemap.Mapper) []taggedField {
	out := make([]taggedField, len(props))
	for i, p := range props {
		t := m.Map(p.Type)
		if p.Optional {
			t = csast.Nullable(t)
		}
		name := prefix + naming.PascalCase(p.Name)
		if name == owner {
			name += "Value"
		}
		out[i] = taggedField{prop: p, fieldName: name, typ: t}
	}
	return out
}

func field(f taggedField) *csast.FieldDecl {
	return &csast.FieldDecl{Modifiers: csast.Modifiers{Access: "public"}, Type: f.typ, Name: f.fieldName}
}

// factory builds `public static Base Variant(args) => new Base { Kind = value, ... }`.
func factory(self csast.Type, discName string, v *VariantPlan, fs []taggedField, m *typemap.Mapper) *csast.MethodDecl {
	inits := []*csast.MemberInit{{Name: discName, Value: ValueExpr(v.Value, m.Config())}}
	params := make([]*csast.Param, 0, len(fs))
	for _, f := range fs {
		name := naming.EscapeKeyword(naming.CamelCase(f.prop.Name))
		p := &csast.Param{Type: f.typ, Name: name}
		if f.prop.Optional {
			p.Default = &csast.Literal{Text: "null"}
		}
		params = append(params, p)
		inits = append(inits, &csast.MemberInit{Name: f.fieldName, Value: csast.NewIdent(name)})
	}
	orderOptionalLast(params)

	return &csast.MethodDecl{
		Modifiers: csast.Modifiers{Access: "public", Static: true},
		Returns:   self,
		Name:      "New" + v.ClassName,
		Params:    params,
		Body: &csast.Block{Stmts: []csast.Stmt{
			&csast.Return{X: &csast.New{Type: self, Inits: inits}},
		}},
	}
}

// orderOptionalLast moves defaulted parameters behind required ones, keeping
// relative order, since C# requires optional parameters to come last.
func orderOptionalLast(params []*csast.Param) {
	var required, optional []*csast.Param
	for _, p := range params {
		if p.Default != nil {
			optional = append(optional, p)
		} else {
			required = append(required, p)
		}
	}
	copy(params, append(required, optional...))
}
