package union

import (
	"strconv"
	"strings"

	"martianoff/tscs/internal/transpiler"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

// VariantPlan is one concrete class of a hierarchy.
type VariantPlan struct {
	Value     Value
	ClassName string
	// Own lists the properties declared only by this variant's class.
	Own []Property
	Pos tsast.Pos
}

// Plan is the hierarchy derived from one tagged union declaration.
type Plan struct {
	BaseName     string
	Discriminant Discriminant
	Shared       []Property
	Variants     []*VariantPlan
}

// BuildPlan analyzes variants and, when a discriminant exists, returns the
// hierarchy plan. Variant class names must differ from the base, from the
// discriminant property and from every reserved name (other types of the
// file). A variant whose name is taken gets the smallest free integer suffix
// starting at 2, with a warning in diags. A variant declared by an interface
// may keep the interface's own name, since the class replaces it.
// It reports false when the union has no discriminant.
func (a *Analyzer) BuildPlan(baseName string, variants []*Variant, diags *transpiler.Diagnostics, reserved ...string) (*Plan, bool) {
	d, ok := a.FindDiscriminant(variants)
	if !ok {
		return nil, false
	}

	plan := &Plan{
		BaseName:     baseName,
		Discriminant: *d,
		Shared:       FindSharedProperties(variants, d.Property),
	}

	taken := make(map[string]string, len(reserved)+2)
	for _, r := range reserved {
		taken[r] = "declaration " + r
	}
	taken[baseName] = "the union type"
	disc := MemberName(baseName, d.Property)
	taken[disc] = "the discriminant property " + disc

	for _, v := range variants {
		p, _ := v.Property(d.Property)
		val, _ := a.ValueOf(p.Type)

		name := VariantClassName(*d, val)
		owner, clash := taken[name]
		if clash && v.Name == name && owner == "declaration "+name {
			clash = false
		}
		if clash {
			var unique string
			for i := 2; ; i++ {
				unique = name + strconv.Itoa(i)
				if _, used := taken[unique]; !used {
					break
				}
			}
			if diags != nil {
				diags.Warn(v.Pos, "variant class name %s for %s value %s collides with %s; using %s",
					name, d.Property, formatValue(val), owner, unique)
			}
			name = unique
		}
		taken[name] = "value " + formatValue(val)

		plan.Variants = append(plan.Variants, &VariantPlan{
			Value:     val,
			ClassName: name,
			Own:       ownProperties(v, d.Property, plan.Shared),
			Pos:       v.Pos,
		})
	}
	return plan, true
}

// MemberName spells prop as a member of the type named owner. C# forbids a
// member named like its enclosing type; such members get a Value suffix.
func MemberName(owner, prop string) string {
	name := naming.PascalCase(prop)
	if name == owner {
		name += "Value"
	}
	return name
}

// MemberName spells prop as accessed on class, the base or one of the
// variant classes of p. The discriminant and shared properties are declared
// by the base class.
func (p *Plan) MemberName(class, prop string) string {
	if prop == p.Discriminant.Property || hasProperty(p.Shared, prop) {
		return MemberName(p.BaseName, prop)
	}
	return MemberName(class, prop)
}

func formatValue(v Value) string {
	switch v.Domain {
	case DomainString:
		return strconv.Quote(v.Text)
	case DomainEnum:
		return v.Enum + "." + v.Text
	}
	return v.Text
}

func ownProperties(v *Variant, discriminant string, shared []Property) []Property {
	var own []Property
	for _, p := range v.Properties {
		if p.Name == discriminant || hasProperty(shared, p.Name) || hasProperty(own, p.Name) {
			continue
		}
		own = append(own, p)
	}
	return own
}

// VariantClassName derives the class name of the variant selected by val.
// String and enum values are normalized to a type name; numbers and booleans
// are appended to the PascalCase discriminant name (Code1, IsOpenTrue).
func VariantClassName(d Discriminant, val Value) string {
	prefix := naming.PascalCase(d.Property)
	switch val.Domain {
	case DomainNumber:
		return prefix + numeralName(val.Text)
	case DomainBoolean:
		if val.Text == "true" {
			return prefix + "True"
		}
		return prefix + "False"
	}

	name := naming.TypeName(val.Text)
	if name == "" || !naming.IsValidIdentifier(name) {
		name = prefix + name
	}
	return name
}

// numeralName turns a numeral into identifier characters: -1.5 -> Neg1_5.
func numeralName(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch {
		case r == '-':
			sb.WriteString("Neg")
		case r == '.':
			sb.WriteByte('_')
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
