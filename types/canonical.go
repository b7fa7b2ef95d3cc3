package types

import (
	"encoding/json"
	"fmt"
)

const (
	// FilterOpOr is the operator of the outer level of every filter tree
	FilterOpOr = "OR"
	// FilterOpAnd is the operator of every group directly under the outer level
	FilterOpAnd = "AND"
)

// Condition is a single leaf of a filter tree
type Condition struct {
	Key   ColumnKey
	Op    Op
	Value interface{}
}

// FilterGroup is a conjunction of conditions
type FilterGroup struct {
	Filters []Condition
}

// FilterTree is the canonical OR-of-ANDs filter representation:
//
//	{op: "OR", filters: [{op: "AND", filters: [Condition...]}...]}
//
// The outer level is always OR and every group is always AND.
type FilterTree struct {
	Groups []FilterGroup
}

// EmptyFilterTree returns the "no filter" tree: one empty AND group under the OR
func EmptyFilterTree() FilterTree {
	return FilterTree{Groups: []FilterGroup{{Filters: []Condition{}}}}
}

// IsEmpty reports whether the tree filters nothing
func (t FilterTree) IsEmpty() bool {
	for _, g := range t.Groups {
		if len(g.Filters) > 0 {
			return false
		}
	}
	return true
}

// Conditions returns every condition of the tree in group order
func (t FilterTree) Conditions() []Condition {
	var out []Condition
	for _, g := range t.Groups {
		out = append(out, g.Filters...)
	}
	return out
}

// Map returns the spec form of a condition
func (c Condition) Map() map[string]interface{} {
	return map[string]interface{}{
		"key":   c.Key.Map(),
		"op":    string(c.Op),
		"value": c.Value,
	}
}

// Map returns the spec form of the tree
func (t FilterTree) Map() map[string]interface{} {
	groups := make([]interface{}, 0, len(t.Groups))
	for _, g := range t.Groups {
		conds := make([]interface{}, 0, len(g.Filters))
		for _, c := range g.Filters {
			conds = append(conds, c.Map())
		}
		groups = append(groups, map[string]interface{}{
			"op":      FilterOpAnd,
			"filters": conds,
		})
	}
	return map[string]interface{}{
		"op":      FilterOpOr,
		"filters": groups,
	}
}

// MarshalJSON implements json.Marshaler using the spec form
func (t FilterTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// UnmarshalJSON implements json.Unmarshaler, rejecting non-canonical shapes
func (t *FilterTree) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FilterTreeFromMap(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// FilterTreeFromMap reads the spec form of a filter tree. The outer node must be
// an OR whose every child is an AND of leaf conditions.
func FilterTreeFromMap(v interface{}) (FilterTree, error) {
	root, ok := v.(map[string]interface{})
	if !ok {
		return FilterTree{}, fmt.Errorf("filter tree must be an object, got %T", v)
	}
	if op, _ := root["op"].(string); op != FilterOpOr {
		return FilterTree{}, fmt.Errorf("filter tree root op must be %q, got %v", FilterOpOr, root["op"])
	}
	children, ok := root["filters"].([]interface{})
	if !ok {
		return FilterTree{}, fmt.Errorf("filter tree root filters must be a list, got %T", root["filters"])
	}

	tree := FilterTree{Groups: make([]FilterGroup, 0, len(children))}
	for i, child := range children {
		group, ok := child.(map[string]interface{})
		if !ok {
			return FilterTree{}, fmt.Errorf("filter group %d must be an object, got %T", i, child)
		}
		if op, _ := group["op"].(string); op != FilterOpAnd {
			return FilterTree{}, fmt.Errorf("filter group %d op must be %q, got %v", i, FilterOpAnd, group["op"])
		}
		leaves, ok := group["filters"].([]interface{})
		if !ok {
			return FilterTree{}, fmt.Errorf("filter group %d filters must be a list, got %T", i, group["filters"])
		}
		conds := make([]Condition, 0, len(leaves))
		for j, leaf := range leaves {
			cond, err := conditionFromMap(leaf)
			if err != nil {
				return FilterTree{}, fmt.Errorf("filter group %d condition %d: %w", i, j, err)
			}
			conds = append(conds, cond)
		}
		tree.Groups = append(tree.Groups, FilterGroup{Filters: conds})
	}
	return tree, nil
}

func conditionFromMap(v interface{}) (Condition, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return Condition{}, fmt.Errorf("condition must be an object, got %T", v)
	}
	if _, nested := m["filters"]; nested {
		return Condition{}, fmt.Errorf("nested filter groups are not supported")
	}
	key, err := ColumnKeyFromMap(m["key"])
	if err != nil {
		return Condition{}, err
	}
	opStr, ok := m["op"].(string)
	if !ok {
		return Condition{}, fmt.Errorf("condition op must be a string, got %T", m["op"])
	}
	op := Op(opStr)
	if !op.IsValid() {
		return Condition{}, fmt.Errorf("unknown condition op %q", opStr)
	}
	return Condition{Key: key, Op: op, Value: m["value"]}, nil
}
