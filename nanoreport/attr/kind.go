package attr

import (
	"fmt"
	"reflect"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

// Kind is the value type a field accepts
type Kind int

const (
	Any Kind = iota
	String
	Bool
	Int
	Number
	List
	Object
)

var kindNames = map[Kind]string{
	Any:    "any",
	String: "string",
	Bool:   "bool",
	Int:    "int",
	Number: "number",
	List:   "list",
	Object: "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Accepts reports whether value has the kind's type. nil is never accepted here;
// nullability is a property of the field.
func (k Kind) Accepts(value interface{}) bool {
	if value == nil {
		return false
	}
	switch k {
	case Any:
		return true
	case String:
		_, ok := value.(string)
		return ok
	case Bool:
		_, ok := value.(bool)
		return ok
	case Int:
		_, ok := validation.AsInt(value)
		return ok
	case Number:
		_, ok := validation.AsFloat(value)
		return ok
	case List:
		kind := reflect.TypeOf(value).Kind()
		return kind == reflect.Slice || kind == reflect.Array
	case Object:
		if _, ok := value.(tree.Mapper); ok {
			return true
		}
		rt := reflect.TypeOf(value)
		return rt.Kind() == reflect.Map && rt.Key().Kind() == reflect.String
	}
	return false
}
