package filter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

// Query operators of the operator tree
const (
	OpOr  = "$or"
	OpAnd = "$and"
	OpEq  = "$eq"
	OpNe  = "$ne"
	OpLt  = "$lt"
	OpLte = "$lte"
	OpGt  = "$gt"
	OpGte = "$gte"
	OpIn  = "$in"
	OpNin = "$nin"
)

var toQueryOp = map[types.Op]string{
	types.OpEq:    OpEq,
	types.OpNe:    OpNe,
	types.OpLt:    OpLt,
	types.OpLte:   OpLte,
	types.OpGt:    OpGt,
	types.OpGte:   OpGte,
	types.OpIn:    OpIn,
	types.OpNotIn: OpNin,
}

var fromQueryOp = map[string]types.Op{
	OpEq:  types.OpEq,
	OpNe:  types.OpNe,
	OpLt:  types.OpLt,
	OpLte: types.OpLte,
	OpGt:  types.OpGt,
	OpGte: types.OpGte,
	OpIn:  types.OpIn,
	OpNin: types.OpNotIn,
}

// OperatorTerm is one single-key entry of a conjunction: {path: value} for
// equality or {path: {operator: value}}
type OperatorTerm struct {
	Path     string
	Operator string
	Value    interface{}
}

// OperatorGroup is one $and conjunction. Terms on the same path stay separate entries.
type OperatorGroup struct {
	Terms []OperatorTerm
}

// OperatorTree is the query-operator form {"$or": [{"$and": [term...]}...]}
type OperatorTree struct {
	Groups []OperatorGroup
}

// Map returns the query form of a term
func (t OperatorTerm) Map() map[string]interface{} {
	value := tree.Normalize(t.Value)
	if t.Operator == "" || t.Operator == OpEq {
		// object values would read back as operator maps
		if _, isObject := value.(map[string]interface{}); !isObject {
			return map[string]interface{}{t.Path: value}
		}
		return map[string]interface{}{t.Path: map[string]interface{}{OpEq: value}}
	}
	return map[string]interface{}{t.Path: map[string]interface{}{t.Operator: value}}
}

// Map returns the query form of the tree
func (t OperatorTree) Map() map[string]interface{} {
	groups := make([]interface{}, 0, len(t.Groups))
	for _, g := range t.Groups {
		terms := make([]interface{}, 0, len(g.Terms))
		for _, term := range g.Terms {
			terms = append(terms, term.Map())
		}
		groups = append(groups, map[string]interface{}{OpAnd: terms})
	}
	return map[string]interface{}{OpOr: groups}
}

// MarshalJSON implements json.Marshaler using the query form
func (t OperatorTree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *OperatorTree) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOperatorTree(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseOperatorTree reads the query form. A bare {"$and": [...]} is read as a
// single group, a multi-key entry is split into one term per key in key order,
// and {"$eq": v} is read as plain equality.
func ParseOperatorTree(v interface{}) (OperatorTree, error) {
	root, ok := tree.Normalize(v).(map[string]interface{})
	if !ok {
		return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("operator tree must be an object, got %T", v)}
	}
	if _, bare := root[OpAnd]; bare && len(root) == 1 {
		root = map[string]interface{}{OpOr: []interface{}{root}}
	}
	if len(root) != 1 {
		return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("operator tree root must have exactly one key %q", OpOr)}
	}
	groups, ok := root[OpOr].([]interface{})
	if !ok {
		return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("operator tree root must be a %q list", OpOr)}
	}

	out := OperatorTree{Groups: make([]OperatorGroup, 0, len(groups))}
	for i, g := range groups {
		gm, ok := g.(map[string]interface{})
		if !ok || len(gm) != 1 {
			return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("group %d must be a single %q object", i, OpAnd)}
		}
		entries, ok := gm[OpAnd].([]interface{})
		if !ok {
			return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("group %d must be a %q list", i, OpAnd)}
		}
		group := OperatorGroup{Terms: make([]OperatorTerm, 0, len(entries))}
		for j, e := range entries {
			terms, err := parseEntry(e)
			if err != nil {
				return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("group %d entry %d", i, j), Err: err}
			}
			group.Terms = append(group.Terms, terms...)
		}
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}

func parseEntry(e interface{}) ([]OperatorTerm, error) {
	m, ok := e.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("entry must be an object, got %T", e)
	}
	var terms []OperatorTerm
	for _, path := range sortedKeys(m) {
		if strings.HasPrefix(path, "$") {
			return nil, &UnknownOperatorError{Operator: path}
		}
		ops, isOps := operatorMap(m[path])
		if !isOps {
			terms = append(terms, OperatorTerm{Path: path, Value: m[path]})
			continue
		}
		for _, op := range sortedKeys(ops) {
			if _, known := fromQueryOp[op]; !known {
				return nil, &UnknownOperatorError{Operator: op, Text: path}
			}
			operator := op
			if op == OpEq {
				operator = ""
			}
			terms = append(terms, OperatorTerm{Path: path, Operator: operator, Value: ops[op]})
		}
	}
	return terms, nil
}

// operatorMap reports whether v is a non-empty object whose keys are all operators
func operatorMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
