package tree

import (
	"encoding/json"
	"reflect"
)

// Mapper is implemented by value types that know their spec form
type Mapper interface {
	Map() map[string]interface{}
}

// Normalize converts v into the canonical JSON-shaped representation and copies
// every container along the way
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case bool, string, float64:
		return t
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case Mapper:
		return Normalize(t.Map())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []interface{}{}
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]interface{}, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = Normalize(iter.Value().Interface())
			}
			return out
		}
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}

	// Structs and anything else go through their JSON form
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// Equal reports whether a and b have the same JSON-shaped structure
func Equal(a, b interface{}) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// Copy returns a deep copy of a JSON-shaped value
func Copy(v interface{}) interface{} {
	return Normalize(v)
}

// CopyMap returns a deep copy of a JSON object, or an empty object for nil
func CopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	out, _ := Normalize(m).(map[string]interface{})
	return out
}
