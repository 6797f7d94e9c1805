// Package union discovers discriminants of structural unions of record shapes
// and synthesizes C# declarations for them.
//
// Analysis is pure: the analyzer neither mutates its inputs nor keeps state
// between calls, so it can be shared by concurrent file transformations.
package union

import (
	"slices"
	"strconv"
	"strings"

	"martianoff/tscs/internal/tsast"
)

// Domain is the value domain of a discriminant.
type Domain int

const (
	DomainString Domain = iota
	DomainNumber
	DomainBoolean
	DomainEnum
)

func (d Domain) String() string {
	switch d {
	case DomainString:
		return "string"
	case DomainNumber:
		return "number"
	case DomainBoolean:
		return "boolean"
	case DomainEnum:
		return "enum"
	}
	return "unknown"
}

// Property is a property of a variant shape.
type Property struct {
	Name     string
	Type     tsast.Type
	Optional bool
}

// TypeText is the declared type text used to compare properties across variants.
func (p Property) TypeText() string {
	return tsast.TypeText(p.Type)
}

// Variant is one record shape of a structural union.
type Variant struct {
	tsast.Pos
	// Name is the interface name when the member is a type reference, empty for inline shapes.
	Name       string
	Properties []Property
}

// Property looks up a property by name.
func (v *Variant) Property(name string) (Property, bool) {
	for _, p := range v.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// EnumInfo describes an enum visible to the analyzer.
type EnumInfo struct {
	Name    string
	Members []string
	// StringValued is set for enums whose members are initialized with strings.
	// They are emitted as constant classes, so discriminants typed by them are strings.
	StringValued bool
}

// Discriminant identifies the property that tells variants apart.
type Discriminant struct {
	Property string
	Domain   Domain
	// Enum names the enum of an enum-domain discriminant.
	Enum string
	// StringValued is set when Enum is a string-valued enum.
	StringValued bool
}

// Value is the discriminant value of one variant.
type Value struct {
	Domain Domain
	// Text is the unquoted string, the numeral as written, true/false, or the enum member name.
	Text string
	Enum string
}

// Analyzer finds discriminants and shared properties.
type Analyzer struct {
	enums map[string]EnumInfo
}

// NewAnalyzer creates an analyzer that resolves enum member references
// against enums.
func NewAnalyzer(enums ...EnumInfo) *Analyzer {
	a := &Analyzer{enums: make(map[string]EnumInfo, len(enums))}
	for _, e := range enums {
		a.enums[e.Name] = e
	}
	return a
}

// FindDiscriminant returns the first property of the first variant, in
// declaration order, that every variant declares with a literal or enum member
// type of one common domain and whose values are pairwise distinct.
// It reports false when no property qualifies.
func (a *Analyzer) FindDiscriminant(variants []*Variant) (*Discriminant, bool) {
	if len(variants) == 0 {
		return nil, false
	}
	for _, candidate := range variants[0].Properties {
		if d, ok := a.tryCandidate(candidate.Name, variants); ok {
			return d, true
		}
	}
	return nil, false
}

func (a *Analyzer) tryCandidate(name string, variants []*Variant) (*Discriminant, bool) {
	var (
		first Value
		seen  = make(map[string]bool, len(variants))
	)
	for i, v := range variants {
		p, ok := v.Property(name)
		if !ok || p.Optional {
			return nil, false
		}
		val, ok := a.ValueOf(p.Type)
		if !ok {
			return nil, false
		}
		if i == 0 {
			first = val
		} else if val.Domain != first.Domain || val.Enum != first.Enum {
			return nil, false
		}
		key := canonical(val)
		if seen[key] {
			return nil, false
		}
		seen[key] = true
	}

	d := &Discriminant{Property: name, Domain: first.Domain, Enum: first.Enum}
	if first.Domain == DomainEnum {
		d.StringValued = a.enums[first.Enum].StringValued
	}
	return d, true
}

// ValueOf extracts the discriminant value of a property type: a literal type,
// or a reference to a single enum member (Enum.Member).
func (a *Analyzer) ValueOf(t tsast.Type) (Value, bool) {
	switch v := t.(type) {
	case *tsast.LiteralOf:
		switch v.Value.Kind {
		case tsast.LitString:
			return Value{Domain: DomainString, Text: v.Value.Value}, true
		case tsast.LitNumber:
			return Value{Domain: DomainNumber, Text: v.Value.Value}, true
		case tsast.LitBoolean:
			return Value{Domain: DomainBoolean, Text: v.Value.Value}, true
		}
	case *tsast.NamedRef:
		enum, member, ok := strings.Cut(v.Name, ".")
		if !ok || strings.Contains(member, ".") {
			return Value{}, false
		}
		if info, known := a.enums[enum]; known && !slices.Contains(info.Members, member) {
			return Value{}, false
		}
		return Value{Domain: DomainEnum, Text: member, Enum: enum}, true
	}
	return Value{}, false
}

// canonical normalizes numerals to the double they denote, so that 1, 1.0,
// 0x1 and 1e0 compare equal, as do 0 and -0.
func canonical(v Value) string {
	if v.Domain != DomainNumber {
		return v.Text
	}
	text := strings.ReplaceAll(v.Text, "_", "")
	f, err := strconv.ParseFloat(text, 64)
	if i, ierr := strconv.ParseInt(text, 0, 64); ierr == nil {
		f, err = float64(i), nil
	}
	if err != nil {
		return v.Text
	}
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FindSharedProperties returns the properties, other than the discriminant,
// declared with identical type text and optionality in every variant, in
// first-variant declaration order.
func FindSharedProperties(variants []*Variant, discriminant string) []Property {
	if len(variants) == 0 {
		return nil
	}
	var shared []Property
	for _, p := range variants[0].Properties {
		if p.Name == discriminant || hasProperty(shared, p.Name) {
			continue
		}
		everywhere := true
		for _, v := range variants[1:] {
			q, ok := v.Property(p.Name)
			if !ok || q.TypeText() != p.TypeText() || q.Optional != p.Optional {
				everywhere = false
				break
			}
		}
		if everywhere {
			shared = append(shared, p)
		}
	}
	return shared
}

func hasProperty(props []Property, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return true
		}
	}
	return false
}
