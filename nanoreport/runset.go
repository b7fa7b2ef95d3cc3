package nanoreport

import (
	"fmt"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/columns"
	"github.com/arthur-debert/nanoreport/nanoreport/filter"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

// DefaultRunSetName is the name of run sets created without one
const DefaultRunSetName = "Run set"

var runSetSchema = attr.NewSchema("run set",
	attr.Field{Name: "id", Kind: attr.String, ReadOnly: true},
	attr.Field{Name: "name", Kind: attr.String, Default: DefaultRunSetName},
	attr.Field{Name: "enabled", Kind: attr.Bool, Default: true},
	attr.Field{Name: "entity", Path: []string{"project", "entityName"}, Kind: attr.String, Default: ""},
	attr.Field{Name: "project", Path: []string{"project", "name"}, Kind: attr.String, Default: ""},
	attr.Field{Name: "query", Path: []string{"search", "query"}, Kind: attr.String, Default: ""},
	attr.Field{Name: "only_show_selected", Path: []string{"runFeed", "onlyShowSelected"}, Kind: attr.Bool, Default: false},
	attr.Field{
		Name: "show_all_runs",
		Path: []string{"selections", "root"},
		Kind: attr.Bool,
		Get: func(n *tree.Node) (interface{}, error) {
			v, _ := n.Get("selections", "root")
			root, _ := validation.AsInt(v)
			return root == 1, nil
		},
		Encode: func(value interface{}) (interface{}, error) {
			if value.(bool) {
				return 1, nil
			}
			return 0, nil
		},
	},
	attr.Field{Name: "visible", Path: []string{"selections", "tree"}, Kind: attr.List, Default: []interface{}{}},
	attr.Field{
		Name: "filters",
		Kind: attr.Object,
		Validators: []attr.Validator{
			attr.Check(func(value interface{}) error {
				_, err := types.FilterTreeFromMap(tree.Normalize(value))
				return err
			}),
		},
		Get: func(n *tree.Node) (interface{}, error) {
			return filtersAt(n)
		},
	},
	attr.Field{
		Name:       "order",
		Path:       []string{"sort", "keys"},
		Kind:       attr.List,
		Validators: []attr.Validator{
			attr.Check(validation.Each(validation.IsString())),
			attr.Check(func(value interface{}) error {
				_, err := columns.Default().ParseOrder(stringList(value))
				return err
			}),
		},
		Get: func(n *tree.Node) (interface{}, error) {
			keys, err := sortKeysAt(n)
			if err != nil {
				return nil, err
			}
			return columns.Default().FormatOrder(keys), nil
		},
		Encode: func(value interface{}) (interface{}, error) {
			keys, err := columns.Default().ParseOrder(stringList(value))
			if err != nil {
				return nil, err
			}
			out := make([]interface{}, len(keys))
			for i, k := range keys {
				out[i] = k.Map()
			}
			return out, nil
		},
	},
	attr.Field{
		Name:       "groupby",
		Path:       []string{"grouping"},
		Kind:       attr.List,
		Validators: []attr.Validator{
			attr.Check(validation.Each(validation.IsString())),
			attr.Check(func(value interface{}) error {
				_, err := columns.Default().ParseGroupBy(stringList(value))
				return err
			}),
		},
		Get: func(n *tree.Node) (interface{}, error) {
			keys, err := groupingAt(n)
			if err != nil {
				return nil, err
			}
			return columns.Default().FormatGroupBy(keys), nil
		},
		Encode: func(value interface{}) (interface{}, error) {
			keys, err := columns.Default().ParseGroupBy(stringList(value))
			if err != nil {
				return nil, err
			}
			out := make([]interface{}, len(keys))
			for i, k := range keys {
				out[i] = k.Map()
			}
			return out, nil
		},
	},
)

// RunSet selects, filters, orders and groups the runs a panel grid plots
type RunSet struct {
	entity
	generator *filter.QueryGenerator
}

func runSetAt(n *tree.Node) *RunSet {
	return &RunSet{
		entity:    newEntity(runSetSchema, n),
		generator: filter.NewQueryGenerator(columns.Default()),
	}
}

// NewRunSet creates a detached run set over the runs of entity/project. It has
// no id until it is assigned to a panel grid.
func NewRunSet(entity, project string) *RunSet {
	return runSetAt(tree.New(defaultRunSetSpec(entity, project)).Root())
}

func defaultRunSetSpec(entity, project string) map[string]interface{} {
	return map[string]interface{}{
		"filters": types.EmptyFilterTree().Map(),
		"runFeed": map[string]interface{}{
			"version":          2,
			"columnVisible":    map[string]interface{}{"run:name": false},
			"columnPinned":     map[string]interface{}{},
			"columnWidths":     map[string]interface{}{},
			"columnOrder":      []interface{}{},
			"pageSize":         10,
			"onlyShowSelected": false,
		},
		"sort": map[string]interface{}{
			"keys": []interface{}{
				columns.SortKey{Key: types.ColumnKey{Section: types.SectionRun, Name: "createdAt"}}.Map(),
			},
		},
		"enabled":              true,
		"name":                 DefaultRunSetName,
		"search":               map[string]interface{}{"query": ""},
		"grouping":             []interface{}{},
		"selections":           map[string]interface{}{"root": 1, "bounds": []interface{}{}, "tree": []interface{}{}},
		"expandedRowAddresses": []interface{}{},
		"project": map[string]interface{}{
			"name":       project,
			"entityName": entity,
		},
	}
}

// QueryGenerator returns the generator translating this run set's filters
func (rs *RunSet) QueryGenerator() *filter.QueryGenerator {
	return rs.generator
}

func (rs *RunSet) ID() string             { return rs.str("id") }
func (rs *RunSet) Name() string           { return rs.str("name") }
func (rs *RunSet) Enabled() bool          { return rs.boolean("enabled") }
func (rs *RunSet) Entity() string         { return rs.str("entity") }
func (rs *RunSet) Project() string        { return rs.str("project") }
func (rs *RunSet) Query() string          { return rs.str("query") }
func (rs *RunSet) OnlyShowSelected() bool { return rs.boolean("only_show_selected") }
func (rs *RunSet) ShowAllRuns() bool      { return rs.boolean("show_all_runs") }

// Visible returns a copy of the opaque selection tree
func (rs *RunSet) Visible() []interface{} {
	v, _ := rs.Get("visible")
	list, _ := v.([]interface{})
	return list
}

// Filters decodes the stored filter tree. A run set without filters has the
// empty tree.
func (rs *RunSet) Filters() (types.FilterTree, error) {
	return filtersAt(rs.node)
}

// SetFilters replaces the stored filter tree
func (rs *RunSet) SetFilters(ft types.FilterTree) error {
	return rs.Set("filters", ft)
}

// SetFiltersWithExpr compiles expr and stores the resulting filter tree.
// Nothing is written when compilation fails.
func (rs *RunSet) SetFiltersWithExpr(expr string) error {
	ft, err := rs.generator.Compile(expr)
	if err != nil {
		return err
	}
	if err := rs.SetFilters(ft); err != nil {
		return err
	}
	logger.Debug("compiled run set filters", "run_set", rs.ID(), "expr", expr, "conditions", len(ft.Conditions()))
	return nil
}

// FilterExpr renders the stored filters as an expression that compiles back
// to the same tree
func (rs *RunSet) FilterExpr() (string, error) {
	ft, err := rs.Filters()
	if err != nil {
		return "", err
	}
	return rs.generator.Format(ft)
}

// OperatorFilters returns the stored filters in operator form
func (rs *RunSet) OperatorFilters() (filter.OperatorTree, error) {
	ft, err := rs.Filters()
	if err != nil {
		return filter.OperatorTree{}, err
	}
	return rs.generator.ToOperatorTree(ft)
}

// SetOperatorFilters stores filters given in operator form
func (rs *RunSet) SetOperatorFilters(ot filter.OperatorTree) error {
	ft, err := rs.generator.FromOperatorTree(ot)
	if err != nil {
		return err
	}
	return rs.SetFilters(ft)
}

// Order returns the sort columns as signed tokens
func (rs *RunSet) Order() []string {
	v, _ := rs.Get("order")
	tokens, _ := v.([]string)
	return tokens
}

// SetOrder resolves signed column tokens and replaces the sort keys
func (rs *RunSet) SetOrder(tokens ...string) error {
	return rs.Set("order", tokens)
}

// OrderKeys decodes the stored sort keys
func (rs *RunSet) OrderKeys() ([]columns.SortKey, error) {
	return sortKeysAt(rs.node)
}

// GroupBy returns the grouping columns as tokens
func (rs *RunSet) GroupBy() []string {
	v, _ := rs.Get("groupby")
	tokens, _ := v.([]string)
	return tokens
}

// SetGroupBy resolves column tokens and replaces the grouping
func (rs *RunSet) SetGroupBy(tokens ...string) error {
	return rs.Set("groupby", tokens)
}

// GroupByKeys decodes the stored grouping
func (rs *RunSet) GroupByKeys() ([]types.ColumnKey, error) {
	return groupingAt(rs.node)
}

func filtersAt(n *tree.Node) (types.FilterTree, error) {
	v, ok := n.Get("filters")
	if !ok {
		return types.EmptyFilterTree(), nil
	}
	ft, err := types.FilterTreeFromMap(v)
	if err != nil {
		return types.FilterTree{}, fmt.Errorf("run set %s: %w", n.Pointer(), err)
	}
	return ft, nil
}

func sortKeysAt(n *tree.Node) ([]columns.SortKey, error) {
	list := n.List("sort", "keys")
	out := make([]columns.SortKey, 0, len(list))
	for _, item := range list {
		k, err := columns.SortKeyFromMap(item)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func groupingAt(n *tree.Node) ([]types.ColumnKey, error) {
	list := n.List("grouping")
	out := make([]types.ColumnKey, 0, len(list))
	for _, item := range list {
		k, err := types.ColumnKeyFromMap(item)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}
