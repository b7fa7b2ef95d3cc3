package filter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/arthur-debert/nanoreport/nanoreport/columns"
	"github.com/arthur-debert/nanoreport/types"
)

var comparisonOps = map[string]types.Op{
	"==":     types.OpEq,
	"!=":     types.OpNe,
	"<":      types.OpLt,
	"<=":     types.OpLte,
	">":      types.OpGt,
	">=":     types.OpGte,
	"in":     types.OpIn,
	"not in": types.OpNotIn,
}

// compiler turns one parsed expression into a filter tree
type compiler struct {
	src      *source
	resolver *columns.Resolver
}

// compile parses expr with the Python grammar and lowers it to OR-of-ANDs
func compile(ctx context.Context, resolver *columns.Resolver, expr string) (types.FilterTree, error) {
	if strings.TrimSpace(expr) == "" {
		return types.EmptyFilterTree(), nil
	}

	// Rewrite connectives and wrap the expression for the grammar
	src, err := prepare(expr)
	if err != nil {
		return types.FilterTree{}, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src.code)
	if err != nil {
		return types.FilterTree{}, fmt.Errorf("failed to parse filter expression: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return types.FilterTree{}, src.syntaxError(root)
	}

	// Lower the single expression to OR-of-ANDs
	c := &compiler{src: src, resolver: resolver}
	expression, err := c.expression(root)
	if err != nil {
		return types.FilterTree{}, err
	}
	groups, err := c.disjunction(expression)
	if err != nil {
		return types.FilterTree{}, err
	}
	return types.FilterTree{Groups: groups}, nil
}

// expression extracts the single expression of the parsed module
func (c *compiler) expression(root *sitter.Node) (*sitter.Node, error) {
	stmts := namedChildren(root)
	if len(stmts) != 1 || stmts[0].Type() != "expression_statement" {
		return nil, &UnsupportedExpressionError{Construct: "statement", Text: c.src.text, Position: 0}
	}
	exprs := namedChildren(stmts[0])
	if len(exprs) != 1 {
		return nil, c.unsupported(stmts[0], "expression list")
	}
	return exprs[0], nil
}

// disjunction flattens an or-chain into conjunction groups
func (c *compiler) disjunction(n *sitter.Node) ([]types.FilterGroup, error) {
	n = unwrap(n)
	if n.Type() == "boolean_operator" && c.connective(n) == "or" {
		left, err := c.disjunction(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := c.disjunction(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	conds, err := c.conjunction(n)
	if err != nil {
		return nil, err
	}
	return []types.FilterGroup{{Filters: conds}}, nil
}

// conjunction flattens an and-chain into conditions
func (c *compiler) conjunction(n *sitter.Node) ([]types.Condition, error) {
	n = unwrap(n)
	if n.Type() == "boolean_operator" {
		if c.connective(n) != "and" {
			return nil, c.unsupported(n, "disjunction nested inside a conjunction")
		}
		left, err := c.conjunction(n.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := c.conjunction(n.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	cond, err := c.condition(n)
	if err != nil {
		return nil, err
	}
	return []types.Condition{cond}, nil
}

// condition lowers one comparison, or a negated comparison
func (c *compiler) condition(n *sitter.Node) (types.Condition, error) {
	n = unwrap(n)
	switch n.Type() {
	case "comparison_operator":
		return c.comparison(n)
	case "not_operator":
		arg := unwrap(n.ChildByFieldName("argument"))
		if arg == nil || arg.Type() != "comparison_operator" {
			return types.Condition{}, c.unsupported(n, "negation of a non-comparison")
		}
		cond, err := c.comparison(arg)
		if err != nil {
			return types.Condition{}, err
		}
		cond.Op = cond.Op.Negate()
		return cond, nil
	case "boolean_operator":
		return types.Condition{}, c.unsupported(n, "boolean expression")
	}
	return types.Condition{}, c.unsupported(n, describe(n.Type()))
}

func (c *compiler) comparison(n *sitter.Node) (types.Condition, error) {
	var operands []*sitter.Node
	var operators []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch {
		case child.Type() == "comment":
		case child.IsNamed():
			operands = append(operands, child)
		default:
			operators = append(operators, child)
		}
	}
	if len(operands) != 2 || len(operators) != 1 {
		return types.Condition{}, c.unsupported(n, "chained comparison")
	}

	opToken := strings.Join(strings.Fields(operators[0].Type()), " ")
	op, ok := comparisonOps[opToken]
	if !ok {
		return types.Condition{}, &UnknownOperatorError{Operator: opToken, Text: c.src.snippet(n)}
	}

	lhs := unwrap(operands[0])
	if lhs.Type() != "identifier" {
		return types.Condition{}, c.unsupported(lhs, "left-hand side "+describe(lhs.Type()))
	}
	key, err := c.resolver.Resolve(c.src.content(lhs))
	if err != nil {
		return types.Condition{}, err
	}

	value, err := c.literal(operands[1])
	if err != nil {
		return types.Condition{}, err
	}
	if op.IsMembership() {
		if _, isList := value.([]interface{}); !isList {
			return types.Condition{}, c.unsupported(operands[1], "membership test against a non-list")
		}
	}
	return types.Condition{Key: key, Op: op, Value: value}, nil
}

func (c *compiler) connective(n *sitter.Node) string {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return ""
	}
	return op.Type()
}

func (c *compiler) unsupported(n *sitter.Node, construct string) error {
	return &UnsupportedExpressionError{
		Construct: construct,
		Text:      c.src.snippet(n),
		Position:  c.src.offset(n.StartByte()),
	}
}

// syntaxError reports the first error or missing node under root
func (s *source) syntaxError(root *sitter.Node) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	text := s.snippet(bad)
	if bad.IsMissing() {
		text = "missing " + bad.Type()
	}
	return s.syntaxErrorAt(s.offset(bad.StartByte()), text)
}

func (s *source) syntaxErrorAt(pos int, text string) error {
	line := strings.Count(s.text[:pos], "\n") + 1
	col := pos - (strings.LastIndex(s.text[:pos], "\n") + 1)
	return &SyntaxError{Text: text, Position: pos, Line: line, Column: col}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// unwrap strips redundant parentheses
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" {
		inner := namedChildren(n)
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

var constructNames = map[string]string{
	"call":                   "function call",
	"attribute":              "attribute access",
	"subscript":              "subscript",
	"binary_operator":        "arithmetic",
	"lambda":                 "lambda",
	"conditional_expression": "conditional expression",
	"identifier":             "bare name",
	"string":                 "bare literal",
	"integer":                "bare literal",
	"float":                  "bare literal",
}

func describe(nodeType string) string {
	if name, ok := constructNames[nodeType]; ok {
		return name
	}
	return strings.ReplaceAll(nodeType, "_", " ")
}
