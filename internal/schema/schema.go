package schema

import "fmt"

// Kind identifies the primitive or composite type a Schema accepts.
type Kind int

// Supported kinds.
const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindEnum
	KindArray
	KindObject
)

// String returns the JSON-ish name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Schema is a declarative description of a value. Schemas are built once at
// startup and treated as immutable; the With* helpers return modified copies.
type Schema struct {
	Kind        Kind
	Description string

	// Object fields, in declaration order.
	Fields []Field

	// Array element schema.
	Items *Schema

	// Enum values.
	Values []string

	// Numeric bounds, inclusive.
	Min *float64
	Max *float64

	// Array length bounds, inclusive.
	MinItems *int
	MaxItems *int

	// Minimum string length.
	MinLength *int
}

// Field is one named member of an object schema.
type Field struct {
	Name       string
	Schema     *Schema
	Required   bool
	Default    any
	HasDefault bool
}

// Any accepts every value unchanged.
func Any() *Schema { return &Schema{Kind: KindAny} }

// String accepts strings.
func String() *Schema { return &Schema{Kind: KindString} }

// Number accepts any finite number.
func Number() *Schema { return &Schema{Kind: KindNumber} }

// Integer accepts numbers without a fractional part.
func Integer() *Schema { return &Schema{Kind: KindInteger} }

// Boolean accepts true and false.
func Boolean() *Schema { return &Schema{Kind: KindBoolean} }

// Enum accepts one of the given strings.
func Enum(values ...string) *Schema {
	return &Schema{Kind: KindEnum, Values: append([]string(nil), values...)}
}

// Array accepts lists whose elements all satisfy items.
func Array(items *Schema) *Schema {
	return &Schema{Kind: KindArray, Items: items}
}

// Object accepts maps with the given fields. Keys not listed are dropped.
func Object(fields ...Field) *Schema {
	return &Schema{Kind: KindObject, Fields: append([]Field(nil), fields...)}
}

// Required declares a field that must be present and non-null.
func Required(name string, s *Schema) Field {
	return Field{Name: name, Schema: s, Required: true}
}

// Optional declares a field that may be absent.
func Optional(name string, s *Schema) Field {
	return Field{Name: name, Schema: s}
}

// OptionalDefault declares a field that is filled with def when absent.
func OptionalDefault(name string, s *Schema, def any) Field {
	return Field{Name: name, Schema: s, Default: def, HasDefault: true}
}

// WithDescription returns a copy of s carrying a description. Descriptions
// are forwarded to the model as part of structured-output schemas.
func (s *Schema) WithDescription(desc string) *Schema {
	c := *s
	c.Description = desc
	return &c
}

// WithRange returns a copy of s with inclusive numeric bounds.
func (s *Schema) WithRange(minimum, maximum float64) *Schema {
	c := *s
	c.Min = &minimum
	c.Max = &maximum
	return &c
}

// WithMin returns a copy of s with an inclusive lower bound.
func (s *Schema) WithMin(minimum float64) *Schema {
	c := *s
	c.Min = &minimum
	return &c
}

// WithLength returns a copy of s with inclusive array length bounds.
func (s *Schema) WithLength(minItems, maxItems int) *Schema {
	c := *s
	c.MinItems = &minItems
	c.MaxItems = &maxItems
	return &c
}

// WithMinItems returns a copy of s with a minimum array length.
func (s *Schema) WithMinItems(minItems int) *Schema {
	c := *s
	c.MinItems = &minItems
	return &c
}

// WithMinLength returns a copy of s with a minimum string length.
func (s *Schema) WithMinLength(n int) *Schema {
	c := *s
	c.MinLength = &n
	return &c
}

// Field returns the named field of an object schema.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
