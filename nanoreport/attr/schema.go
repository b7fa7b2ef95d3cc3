package attr

import (
	"fmt"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// Validator checks a candidate value. The node is the entity the write targets,
// so validators may depend on sibling state.
type Validator func(n *tree.Node, value interface{}) error

// Check adapts a context-free validation.Check into a Validator
func Check(c validation.Check) Validator {
	return func(_ *tree.Node, value interface{}) error {
		return c(value)
	}
}

// Field declares one named attribute of an entity kind
type Field struct {
	Name string
	// Path is where the value lives inside the entity fragment. Defaults to Name.
	Path       []string
	Kind       Kind
	Nullable   bool
	Default    interface{}
	Validators []Validator
	ReadOnly   bool

	// Get replaces the default read of Path
	Get func(n *tree.Node) (interface{}, error)
	// Encode turns a validated value into the form written at Path
	Encode func(value interface{}) (interface{}, error)
	// Set replaces the default write of Path. It runs after validation.
	Set func(n *tree.Node, value interface{}) error
}

func (f *Field) path() []string {
	if len(f.Path) == 0 {
		return []string{f.Name}
	}
	return f.Path
}

// Schema is the compiled set of fields of one entity kind
type Schema struct {
	entity string
	fields map[string]*Field
	order  []string
}

// NewSchema compiles fields into a schema. It panics on duplicate or unnamed
// fields since schemas are declared at package initialization.
func NewSchema(entity string, fields ...Field) *Schema {
	s := &Schema{
		entity: entity,
		fields: make(map[string]*Field, len(fields)),
	}
	for i := range fields {
		f := fields[i]
		if f.Name == "" {
			panic(fmt.Sprintf("attr: %s: field %d has no name", entity, i))
		}
		if _, dup := s.fields[f.Name]; dup {
			panic(fmt.Sprintf("attr: %s: duplicate field %q", entity, f.Name))
		}
		s.fields[f.Name] = &f
		s.order = append(s.order, f.Name)
	}
	return s
}

// Extend returns a new schema with the fields of s followed by fields
func (s *Schema) Extend(entity string, fields ...Field) *Schema {
	all := make([]Field, 0, len(s.order)+len(fields))
	for _, name := range s.order {
		all = append(all, *s.fields[name])
	}
	return NewSchema(entity, append(all, fields...)...)
}

// Entity names the kind the schema describes
func (s *Schema) Entity() string {
	return s.entity
}

// Fields lists field names in declaration order
func (s *Schema) Fields() []string {
	return append([]string(nil), s.order...)
}

// Field looks up a field declaration
func (s *Schema) Field(name string) (*Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Get reads a field from the entity at n, falling back to the declared default
func (s *Schema) Get(n *tree.Node, name string) (interface{}, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, &UnknownFieldError{Entity: s.entity, Field: name}
	}
	if f.Get != nil {
		return f.Get(n)
	}
	v, ok := n.Get(f.path()...)
	if !ok {
		return tree.Copy(f.Default), nil
	}
	return tree.Copy(v), nil
}

// Validate runs every check Set would run without writing anything
func (s *Schema) Validate(n *tree.Node, name string, value interface{}) error {
	f, ok := s.fields[name]
	if !ok {
		return &UnknownFieldError{Entity: s.entity, Field: name}
	}
	if f.ReadOnly {
		return &ImmutableFieldError{Entity: s.entity, Field: name}
	}
	return s.check(f, n, value)
}

// Set validates value and writes it into the entity at n
func (s *Schema) Set(n *tree.Node, name string, value interface{}) error {
	if err := s.Validate(n, name, value); err != nil {
		return err
	}
	f := s.fields[name]
	if f.Set != nil {
		return f.Set(n, value)
	}
	out := value
	if f.Encode != nil {
		encoded, err := f.Encode(value)
		if err != nil {
			return &ValidationError{Entity: s.entity, Field: name, Value: value, Expected: f.Kind.String(), Err: err}
		}
		out = encoded
	}
	return n.Set(f.path(), out)
}

// Assignment is one pending field write
type Assignment struct {
	Field string
	Value interface{}
}

// SetAll validates every assignment before performing the first write
func (s *Schema) SetAll(n *tree.Node, assignments ...Assignment) error {
	for _, a := range assignments {
		if err := s.Validate(n, a.Field, a.Value); err != nil {
			return err
		}
	}
	for _, a := range assignments {
		if err := s.Set(n, a.Field, a.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) check(f *Field, n *tree.Node, value interface{}) error {
	if value == nil {
		if f.Nullable || f.Kind == Any {
			return nil
		}
		return &ValidationError{Entity: s.entity, Field: f.Name, Value: value, Expected: f.Kind.String(), Err: ErrTypeMismatch}
	}
	if !f.Kind.Accepts(value) {
		return &ValidationError{Entity: s.entity, Field: f.Name, Value: value, Expected: f.Kind.String(), Err: ErrTypeMismatch}
	}
	for _, v := range f.Validators {
		if err := v(n, value); err != nil {
			return &ValidationError{Entity: s.entity, Field: f.Name, Value: value, Expected: f.Kind.String(), Err: err}
		}
	}
	return nil
}

// String reads a string field, returning "" when absent or mistyped
func (s *Schema) String(n *tree.Node, name string) string {
	v, _ := s.Get(n, name)
	str, _ := v.(string)
	return str
}

// Bool reads a bool field, returning false when absent or mistyped
func (s *Schema) Bool(n *tree.Node, name string) bool {
	v, _ := s.Get(n, name)
	b, _ := v.(bool)
	return b
}

// Int reads an integral field, returning 0 when absent or mistyped
func (s *Schema) Int(n *tree.Node, name string) int {
	v, _ := s.Get(n, name)
	i, _ := validation.AsInt(v)
	return i
}

// Float reads a numeric field, returning 0 when absent or mistyped
func (s *Schema) Float(n *tree.Node, name string) float64 {
	v, _ := s.Get(n, name)
	f, _ := validation.AsFloat(v)
	return f
}

// Strings reads a list of strings, skipping non-string elements
func (s *Schema) Strings(n *tree.Node, name string) []string {
	v, _ := s.Get(n, name)
	list, _ := v.([]interface{})
	out := make([]string, 0, len(list))
	for _, item := range list {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
