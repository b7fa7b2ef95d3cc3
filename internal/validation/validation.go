package validation

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Check validates a single value and returns a descriptive error on failure
type Check func(value interface{}) error

// ValidateSimpleType ensures a value is a simple JSON scalar (string, number, bool or null)
func ValidateSimpleType(value interface{}, fieldName string) error {
	if value == nil {
		return nil
	}

	// Check the type using reflection
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Slice, reflect.Array:
		return fmt.Errorf("'%s' cannot be an array/slice type, got %T", fieldName, value)
	case reflect.Map:
		return fmt.Errorf("'%s' cannot be a map type, got %T", fieldName, value)
	case reflect.Ptr:
		// Dereference the pointer and check again
		if v.IsNil() {
			return nil // nil pointer is OK
		}
		return ValidateSimpleType(v.Elem().Interface(), fieldName)
	default:
		return fmt.Errorf("'%s' must be a simple type (string, number, bool or null), got %T", fieldName, value)
	}
}

// ValidateLiteral accepts a simple type or a flat list of simple types
func ValidateLiteral(value interface{}, fieldName string) error {
	v := reflect.ValueOf(value)
	if value != nil && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
		for i := 0; i < v.Len(); i++ {
			if err := ValidateSimpleType(v.Index(i).Interface(), fmt.Sprintf("%s[%d]", fieldName, i)); err != nil {
				return err
			}
		}
		return nil
	}
	return ValidateSimpleType(value, fieldName)
}

// AsInt converts any integral numeric value to int
func AsInt(value interface{}) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		if float64(n) == math.Trunc(float64(n)) {
			return int(n), true
		}
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	}
	return 0, false
}

// AsFloat converts any numeric value to float64
func AsFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := AsInt(value); ok {
		return float64(i), true
	}
	return 0, false
}

// IntRange accepts integers in the closed interval [min, max]
func IntRange(min, max int) Check {
	return func(value interface{}) error {
		n, ok := AsInt(value)
		if !ok {
			return fmt.Errorf("must be an integer, got %T", value)
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d, got %d", min, max, n)
		}
		return nil
	}
}

// FloatRange accepts numbers in the closed interval [min, max]
func FloatRange(min, max float64) Check {
	return func(value interface{}) error {
		f, ok := AsFloat(value)
		if !ok {
			return fmt.Errorf("must be a number, got %T", value)
		}
		if f < min || f > max {
			return fmt.Errorf("must be between %v and %v, got %v", min, max, f)
		}
		return nil
	}
}

// NonNegative accepts numbers >= 0
func NonNegative() Check {
	return func(value interface{}) error {
		f, ok := AsFloat(value)
		if !ok {
			return fmt.Errorf("must be a number, got %T", value)
		}
		if f < 0 {
			return fmt.Errorf("must be non-negative, got %v", value)
		}
		return nil
	}
}

// OneOf accepts only the listed strings
func OneOf(allowed ...string) Check {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be one of [%s], got %T", strings.Join(allowed, ", "), value)
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of [%s], got %q", strings.Join(allowed, ", "), s)
	}
}

// NotEmpty rejects the empty string
func NotEmpty() Check {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("cannot be empty")
		}
		return nil
	}
}

// Each applies c to every element of a list value
func Each(c Check) Check {
	return func(value interface{}) error {
		v := reflect.ValueOf(value)
		if value == nil || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return fmt.Errorf("must be a list, got %T", value)
		}
		for i := 0; i < v.Len(); i++ {
			if err := c(v.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	}
}

// EachValue applies c to every value of a map
func EachValue(c Check) Check {
	return func(value interface{}) error {
		v := reflect.ValueOf(value)
		if value == nil || v.Kind() != reflect.Map {
			return fmt.Errorf("must be a mapping, got %T", value)
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := c(iter.Value().Interface()); err != nil {
				return fmt.Errorf("value for %v: %w", iter.Key().Interface(), err)
			}
		}
		return nil
	}
}

// IsString accepts only strings
func IsString() Check {
	return func(value interface{}) error {
		if _, ok := value.(string); !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
		return nil
	}
}

// IsBool accepts only booleans
func IsBool() Check {
	return func(value interface{}) error {
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("must be a bool, got %T", value)
		}
		return nil
	}
}

// IsBase36 checks that an identifier only uses lowercase letters and digits
func IsBase36(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
