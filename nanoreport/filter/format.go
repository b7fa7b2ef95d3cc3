package filter

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reservedWords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"None": true, "True": true, "False": true, "null": true, "true": true, "false": true,
	"if": true, "else": true, "lambda": true, "for": true, "while": true, "def": true,
	"class": true, "return": true, "import": true, "from": true, "as": true, "with": true,
	"pass": true, "del": true, "global": true, "nonlocal": true, "assert": true, "yield": true,
	"raise": true, "try": true, "except": true, "finally": true, "break": true, "continue": true,
	"elif": true, "async": true, "await": true,
}

var formatOps = map[types.Op]string{
	types.OpEq:    "==",
	types.OpNe:    "!=",
	types.OpLt:    "<",
	types.OpLte:   "<=",
	types.OpGt:    ">",
	types.OpGte:   ">=",
	types.OpIn:    "in",
	types.OpNotIn: "not in",
}

// Format renders ft as an expression that compiles back to ft
func (g *QueryGenerator) Format(ft types.FilterTree) (string, error) {
	if ft.IsEmpty() {
		return "", nil
	}
	groups := make([]string, 0, len(ft.Groups))
	for i, group := range ft.Groups {
		if len(group.Filters) == 0 {
			return "", &MalformedTreeError{Reason: fmt.Sprintf("group %d is empty and cannot be expressed next to other groups", i)}
		}
		conds := make([]string, 0, len(group.Filters))
		for _, cond := range group.Filters {
			text, err := g.formatCondition(cond)
			if err != nil {
				return "", err
			}
			conds = append(conds, text)
		}
		groups = append(groups, strings.Join(conds, " and "))
	}
	return strings.Join(groups, " or "), nil
}

// Format renders ft with the default resolver
func Format(ft types.FilterTree) (string, error) {
	return defaultGenerator.Format(ft)
}

func (g *QueryGenerator) formatCondition(cond types.Condition) (string, error) {
	name := g.resolver.Name(cond.Key)
	if !identifierPattern.MatchString(name) || reservedWords[name] {
		return "", &UnsupportedExpressionError{Construct: "column without an expression name", Text: cond.Key.String()}
	}
	op, ok := formatOps[cond.Op]
	if !ok {
		return "", &UnknownOperatorError{Operator: string(cond.Op), Text: cond.Key.String()}
	}
	value, err := formatValue(tree.Normalize(cond.Value))
	if err != nil {
		return "", fmt.Errorf("condition on %s: %w", cond.Key, err)
	}
	return fmt.Sprintf("%s %s %s", name, op, value), nil
}

func formatValue(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case string:
		return strconv.Quote(t), nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return "", fmt.Errorf("value %v has no literal form", t)
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', -1, 64), nil
		}
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case []interface{}:
		items := make([]string, len(t))
		for i, item := range t {
			if _, nested := item.([]interface{}); nested {
				return "", fmt.Errorf("nested lists have no literal form")
			}
			s, err := formatValue(item)
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	}
	return "", fmt.Errorf("value of type %T has no literal form", v)
}
