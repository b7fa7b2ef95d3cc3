package types

import "fmt"

// Section identifies which part of a run record a column lives in
type Section string

const (
	SectionRun      Section = "run"
	SectionSummary  Section = "summary"
	SectionConfig   Section = "config"
	SectionTag      Section = "tag"
	SectionKeysInfo Section = "keys_info"
)

// Sections lists every section a column key may carry
var Sections = []Section{SectionRun, SectionSummary, SectionConfig, SectionTag, SectionKeysInfo}

// IsValid reports whether s is one of the known sections
func (s Section) IsValid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

// ColumnKey is the canonical (section, name) pair used by sort, group and filter trees
type ColumnKey struct {
	Section Section `json:"section"`
	Name    string  `json:"name"`
}

// String renders the key as "section:name"
func (k ColumnKey) String() string {
	return fmt.Sprintf("%s:%s", k.Section, k.Name)
}

// Map returns the spec form {"section": ..., "name": ...}
func (k ColumnKey) Map() map[string]interface{} {
	return map[string]interface{}{
		"section": string(k.Section),
		"name":    k.Name,
	}
}

// ColumnKeyFromMap reads a {"section", "name"} object
func ColumnKeyFromMap(v interface{}) (ColumnKey, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return ColumnKey{}, fmt.Errorf("column key must be an object, got %T", v)
	}
	section, ok := m["section"].(string)
	if !ok {
		return ColumnKey{}, fmt.Errorf("column key section must be a string, got %T", m["section"])
	}
	name, ok := m["name"].(string)
	if !ok {
		return ColumnKey{}, fmt.Errorf("column key name must be a string, got %T", m["name"])
	}
	return ColumnKey{Section: Section(section), Name: name}, nil
}

// Op is a canonical filter comparison operator
type Op string

const (
	OpEq    Op = "="
	OpNe    Op = "!="
	OpLt    Op = "<"
	OpLte   Op = "<="
	OpGt    Op = ">"
	OpGte   Op = ">="
	OpIn    Op = "IN"
	OpNotIn Op = "NIN"
)

// Ops lists every canonical operator
var Ops = []Op{OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpIn, OpNotIn}

// IsValid reports whether op is a canonical operator
func (op Op) IsValid() bool {
	for _, known := range Ops {
		if op == known {
			return true
		}
	}
	return false
}

// IsMembership reports whether op compares against a list of values
func (op Op) IsMembership() bool {
	return op == OpIn || op == OpNotIn
}

// Negate returns the operator matching exactly the complement of op
func (op Op) Negate() Op {
	switch op {
	case OpEq:
		return OpNe
	case OpNe:
		return OpEq
	case OpLt:
		return OpGte
	case OpLte:
		return OpGt
	case OpGt:
		return OpLte
	case OpGte:
		return OpLt
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	}
	return op
}

// Rect is a panel placement on the report grid, in grid units
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right is the first column past the rectangle
func (r Rect) Right() int { return r.X + r.W }

// Bottom is the first row past the rectangle
func (r Rect) Bottom() int { return r.Y + r.H }

// Map returns the spec form {"x", "y", "w", "h"}
func (r Rect) Map() map[string]interface{} {
	return map[string]interface{}{"x": r.X, "y": r.Y, "w": r.W, "h": r.H}
}
