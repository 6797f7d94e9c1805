package transpiler

import (
	"fmt"
	"maps"
)

// NumericWidth selects the C# type of the TypeScript number type.
type NumericWidth int

const (
	Width32 NumericWidth = 32
	Width64 NumericWidth = 64
)

// ArrayStrategy selects the representation of T[].
type ArrayStrategy string

const (
	ArrayNative    ArrayStrategy = "native-array"
	ArrayList      ArrayStrategy = "list-generic"
	ArrayFramework ArrayStrategy = "framework-array"
)

// TypedBufferStrategy selects the representation of typed arrays (Uint8Array, Float32Array, ...).
type TypedBufferStrategy string

const (
	BufferNative TypedBufferStrategy = "native-array"
	BufferSpan   TypedBufferStrategy = "span"
)

// UnionStrategy selects how discriminated unions are emitted.
type UnionStrategy string

const (
	UnionClassHierarchy UnionStrategy = "class-hierarchy"
	UnionTaggedStruct   UnionStrategy = "tagged-struct"
)

// ParseNumericWidth validates a numeric width value.
func ParseNumericWidth(v int) (NumericWidth, error) {
	switch NumericWidth(v) {
	case Width32, Width64:
		return NumericWidth(v), nil
	}
	return 0, fmt.Errorf("unknown numeric width %d (want 32 or 64)", v)
}

// ParseArrayStrategy validates an array strategy name.
func ParseArrayStrategy(s string) (ArrayStrategy, error) {
	switch ArrayStrategy(s) {
	case ArrayNative, ArrayList, ArrayFramework:
		return ArrayStrategy(s), nil
	}
	return "", fmt.Errorf("unknown array strategy %q (want %s, %s or %s)", s, ArrayNative, ArrayList, ArrayFramework)
}

// ParseTypedBufferStrategy validates a typed buffer strategy name.
func ParseTypedBufferStrategy(s string) (TypedBufferStrategy, error) {
	switch TypedBufferStrategy(s) {
	case BufferNative, BufferSpan:
		return TypedBufferStrategy(s), nil
	}
	return "", fmt.Errorf("unknown typed buffer strategy %q (want %s or %s)", s, BufferNative, BufferSpan)
}

// ParseUnionStrategy validates a union strategy name.
func ParseUnionStrategy(s string) (UnionStrategy, error) {
	switch UnionStrategy(s) {
	case UnionClassHierarchy, UnionTaggedStruct:
		return UnionStrategy(s), nil
	}
	return "", fmt.Errorf("unknown union strategy %q (want %s or %s)", s, UnionClassHierarchy, UnionTaggedStruct)
}

// TypeMappingOverrides is the user-supplied partial mapping configuration.
// Zero values select the defaults.
type TypeMappingOverrides struct {
	PrimitiveAliases map[string]string
	NumericWidth     NumericWidth
	Arrays           ArrayStrategy
	TypedBuffers     TypedBufferStrategy
}

// TypeMappingConfig is the resolved, immutable mapping configuration shared
// read-only by every component of a transpilation run.
type TypeMappingConfig struct {
	primitives map[string]string
	width      NumericWidth
	arrays     ArrayStrategy
	buffers    TypedBufferStrategy
}

// DefaultPrimitiveAliases returns the default primitive table for a numeric width.
func DefaultPrimitiveAliases(width NumericWidth) map[string]string {
	number := "float"
	if width == Width64 {
		number = "double"
	}
	return map[string]string{
		"string":    "string",
		"number":    number,
		"boolean":   "bool",
		"any":       "object",
		"unknown":   "object",
		"object":    "object",
		"void":      "void",
		"never":     "void",
		"null":      "object",
		"undefined": "object",
		"bigint":    "long",
		"symbol":    "object",
	}
}

// NewTypeMappingConfig merges overrides with the defaults.
func NewTypeMappingConfig(o TypeMappingOverrides) *TypeMappingConfig {
	cfg := &TypeMappingConfig{
		width:   Width32,
		arrays:  ArrayNative,
		buffers: BufferNative,
	}
	if o.NumericWidth == Width64 {
		cfg.width = Width64
	}
	if _, err := ParseArrayStrategy(string(o.Arrays)); err == nil {
		cfg.arrays = o.Arrays
	}
	if _, err := ParseTypedBufferStrategy(string(o.TypedBuffers)); err == nil {
		cfg.buffers = o.TypedBuffers
	}
	cfg.primitives = DefaultPrimitiveAliases(cfg.width)
	for k, v := range o.PrimitiveAliases {
		if v != "" {
			cfg.primitives[k] = v
		}
	}
	return cfg
}

// DefaultTypeMappingConfig returns the configuration with every default applied.
func DefaultTypeMappingConfig() *TypeMappingConfig {
	return NewTypeMappingConfig(TypeMappingOverrides{})
}

// Primitive returns the target type name of a source primitive.
func (c *TypeMappingConfig) Primitive(name string) (string, bool) {
	v, ok := c.primitives[name]
	return v, ok
}

// PrimitiveAliases returns a copy of the primitive table.
func (c *TypeMappingConfig) PrimitiveAliases() map[string]string {
	return maps.Clone(c.primitives)
}

// NumberType is the target type of number.
func (c *TypeMappingConfig) NumberType() string { return c.primitives["number"] }

func (c *TypeMappingConfig) NumericWidth() NumericWidth { return c.width }

func (c *TypeMappingConfig) ArrayStrategy() ArrayStrategy { return c.arrays }

func (c *TypeMappingConfig) TypedBufferStrategy() TypedBufferStrategy { return c.buffers }

// Options is the resolved configuration of one transpilation run.
type Options struct {
	// InputRoot is the directory namespaces are derived relative to.
	InputRoot string
	// NamespaceRoot prefixes every derived namespace.
	NamespaceRoot string
	// HeaderComment adds an auto-generated banner to each file.
	HeaderComment bool
	UnionStrategy UnionStrategy
	TypeMapping   TypeMappingOverrides
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		InputRoot:     ".",
		HeaderComment: true,
		UnionStrategy: UnionClassHierarchy,
	}
}

// MappingConfig resolves the type mapping configuration of o.
func (o Options) MappingConfig() *TypeMappingConfig {
	return NewTypeMappingConfig(o.TypeMapping)
}
