package filter

import (
	"context"
	"fmt"

	"github.com/arthur-debert/nanoreport/nanoreport/columns"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

// QueryGenerator compiles filter expressions and converts between the filter
// tree and the operator tree. It holds no state besides its resolver.
type QueryGenerator struct {
	resolver *columns.Resolver
}

// NewQueryGenerator returns a generator over resolver, or the default resolver when nil
func NewQueryGenerator(resolver *columns.Resolver) *QueryGenerator {
	if resolver == nil {
		resolver = columns.Default()
	}
	return &QueryGenerator{resolver: resolver}
}

var defaultGenerator = NewQueryGenerator(nil)

// Resolver returns the column resolver used for names
func (g *QueryGenerator) Resolver() *columns.Resolver {
	return g.resolver
}

// Compile turns an expression into a canonical filter tree. An empty
// expression yields the empty tree.
func (g *QueryGenerator) Compile(expr string) (types.FilterTree, error) {
	return g.CompileContext(context.Background(), expr)
}

// CompileContext is Compile with a context bounding the parse
func (g *QueryGenerator) CompileContext(ctx context.Context, expr string) (types.FilterTree, error) {
	return compile(ctx, g.resolver, expr)
}

// ToOperatorTree converts a filter tree to the query-operator form
func (g *QueryGenerator) ToOperatorTree(ft types.FilterTree) (OperatorTree, error) {
	out := OperatorTree{Groups: make([]OperatorGroup, 0, len(ft.Groups))}
	for i, group := range ft.Groups {
		og := OperatorGroup{Terms: make([]OperatorTerm, 0, len(group.Filters))}
		for j, cond := range group.Filters {
			term, err := toTerm(cond)
			if err != nil {
				return OperatorTree{}, &MalformedTreeError{Reason: fmt.Sprintf("group %d condition %d", i, j), Err: err}
			}
			og.Terms = append(og.Terms, term)
		}
		out.Groups = append(out.Groups, og)
	}
	return out, nil
}

// FromOperatorTree converts the query-operator form back to a filter tree
func (g *QueryGenerator) FromOperatorTree(ot OperatorTree) (types.FilterTree, error) {
	out := types.FilterTree{Groups: make([]types.FilterGroup, 0, len(ot.Groups))}
	for i, group := range ot.Groups {
		fg := types.FilterGroup{Filters: make([]types.Condition, 0, len(group.Terms))}
		for j, term := range group.Terms {
			cond, err := fromTerm(term)
			if err != nil {
				return types.FilterTree{}, &MalformedTreeError{Reason: fmt.Sprintf("group %d term %d", i, j), Err: err}
			}
			fg.Filters = append(fg.Filters, cond)
		}
		out.Groups = append(out.Groups, fg)
	}
	return out, nil
}

// CompileToOperatorTree compiles expr straight to the query-operator form
func (g *QueryGenerator) CompileToOperatorTree(expr string) (OperatorTree, error) {
	ft, err := g.Compile(expr)
	if err != nil {
		return OperatorTree{}, err
	}
	return g.ToOperatorTree(ft)
}

func toTerm(cond types.Condition) (OperatorTerm, error) {
	path, err := Path(cond.Key)
	if err != nil {
		return OperatorTerm{}, err
	}
	op, ok := toQueryOp[cond.Op]
	if !ok {
		return OperatorTerm{}, &UnknownOperatorError{Operator: string(cond.Op), Text: cond.Key.String()}
	}
	if err := checkMembership(cond.Op, cond.Value); err != nil {
		return OperatorTerm{}, err
	}
	if op == OpEq {
		op = ""
	}
	return OperatorTerm{Path: path, Operator: op, Value: tree.Normalize(cond.Value)}, nil
}

func fromTerm(term OperatorTerm) (types.Condition, error) {
	op := types.OpEq
	if term.Operator != "" {
		known, ok := fromQueryOp[term.Operator]
		if !ok {
			return types.Condition{}, &UnknownOperatorError{Operator: term.Operator, Text: term.Path}
		}
		op = known
	}
	if err := checkMembership(op, term.Value); err != nil {
		return types.Condition{}, err
	}
	return types.Condition{Key: KeyFromPath(term.Path), Op: op, Value: tree.Normalize(term.Value)}, nil
}

func checkMembership(op types.Op, value interface{}) error {
	if !op.IsMembership() {
		return nil
	}
	if _, ok := tree.Normalize(value).([]interface{}); !ok {
		return fmt.Errorf("%s requires a list value, got %T", op, value)
	}
	return nil
}

// Compile compiles expr with the default resolver
func Compile(expr string) (types.FilterTree, error) {
	return defaultGenerator.Compile(expr)
}

// ToOperatorTree converts ft with the default generator
func ToOperatorTree(ft types.FilterTree) (OperatorTree, error) {
	return defaultGenerator.ToOperatorTree(ft)
}

// FromOperatorTree converts ot with the default generator
func FromOperatorTree(ot OperatorTree) (types.FilterTree, error) {
	return defaultGenerator.FromOperatorTree(ot)
}
