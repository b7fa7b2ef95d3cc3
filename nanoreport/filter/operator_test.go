package filter_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanoreport/nanoreport/filter"
	"github.com/arthur-debert/nanoreport/types"
)

func TestParseOperatorTreeVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want filter.OperatorTree
	}{
		{
			name: "bare and",
			in:   `{"$and": [{"state": "running"}]}`,
			want: filter.OperatorTree{Groups: []filter.OperatorGroup{{Terms: []filter.OperatorTerm{{Path: "state", Value: "running"}}}}},
		},
		{
			name: "explicit eq",
			in:   `{"$or": [{"$and": [{"state": {"$eq": "running"}}]}]}`,
			want: filter.OperatorTree{Groups: []filter.OperatorGroup{{Terms: []filter.OperatorTerm{{Path: "state", Value: "running"}}}}},
		},
		{
			name: "merged bounds are split in operator order",
			in:   `{"$or": [{"$and": [{"duration": {"$lte": 6000, "$gte": 0}}]}]}`,
			want: filter.OperatorTree{Groups: []filter.OperatorGroup{{Terms: []filter.OperatorTerm{
				{Path: "duration", Operator: "$gte", Value: float64(0)},
				{Path: "duration", Operator: "$lte", Value: float64(6000)},
			}}}},
		},
		{
			name: "multi-key entry is split in key order",
			in:   `{"$or": [{"$and": [{"state": "running", "jobType": "train"}]}]}`,
			want: filter.OperatorTree{Groups: []filter.OperatorGroup{{Terms: []filter.OperatorTerm{
				{Path: "jobType", Value: "train"},
				{Path: "state", Value: "running"},
			}}}},
		},
		{
			name: "object equality value",
			in:   `{"$or": [{"$and": [{"config.opt.value": {"name": "adam"}}]}]}`,
			want: filter.OperatorTree{Groups: []filter.OperatorGroup{{Terms: []filter.OperatorTerm{
				{Path: "config.opt.value", Value: map[string]interface{}{"name": "adam"}},
			}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filter.ParseOperatorTree(decode(t, tt.in))
			if err != nil {
				t.Fatalf("ParseOperatorTree() failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOperatorTree() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOperatorTreeErrors(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantUnknown bool
	}{
		{"not an object", `[]`, false},
		{"missing or", `{"state": "x"}`, false},
		{"group without and", `{"$or": [{"state": "x"}]}`, false},
		{"entry not an object", `{"$or": [{"$and": ["x"]}]}`, false},
		{"unknown operator", `{"$or": [{"$and": [{"name": {"$regex": "^a"}}]}]}`, true},
		{"operator as path", `{"$or": [{"$and": [{"$where": "1"}]}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filter.ParseOperatorTree(decode(t, tt.in))
			var merr *filter.MalformedTreeError
			if !errors.As(err, &merr) {
				t.Fatalf("error = %v, want MalformedTreeError", err)
			}
			var uerr *filter.UnknownOperatorError
			if got := errors.As(err, &uerr); got != tt.wantUnknown {
				t.Errorf("errors.As(UnknownOperatorError) = %v, want %v", got, tt.wantUnknown)
			}
		})
	}
}

func TestObjectEqualityUsesEqOperator(t *testing.T) {
	term := filter.OperatorTerm{Path: "config.opt.value", Value: map[string]interface{}{"name": "adam"}}
	want := map[string]interface{}{"config.opt.value": map[string]interface{}{"$eq": map[string]interface{}{"name": "adam"}}}
	if diff := cmp.Diff(want, term.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		key  types.ColumnKey
		path string
	}{
		{types.ColumnKey{Section: types.SectionRun, Name: "state"}, "state"},
		{types.ColumnKey{Section: types.SectionSummary, Name: "acc"}, "summary_metrics.acc"},
		{types.ColumnKey{Section: types.SectionConfig, Name: "lr"}, "config.lr.value"},
		{types.ColumnKey{Section: types.SectionTag, Name: "baseline"}, "tags.baseline"},
		{types.ColumnKey{Section: types.SectionKeysInfo, Name: "loss"}, "keys_info.keys.loss"},
	}
	for _, tt := range tests {
		got, err := filter.Path(tt.key)
		if err != nil {
			t.Fatalf("Path(%v) failed: %v", tt.key, err)
		}
		if got != tt.path {
			t.Errorf("Path(%v) = %q, want %q", tt.key, got, tt.path)
		}
		if back := filter.KeyFromPath(got); back != tt.key {
			t.Errorf("KeyFromPath(%q) = %v, want %v", got, back, tt.key)
		}
	}

	if got := filter.KeyFromPath("config.lr"); got != (types.ColumnKey{Section: types.SectionConfig, Name: "lr"}) {
		t.Errorf("KeyFromPath(config.lr) = %v", got)
	}
	if _, err := filter.Path(types.ColumnKey{Section: "bogus", Name: "x"}); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestToOperatorTreeRejectsBadConditions(t *testing.T) {
	tests := []struct {
		name string
		cond types.Condition
	}{
		{"membership without list", types.Condition{Key: types.ColumnKey{Section: types.SectionRun, Name: "state"}, Op: types.OpIn, Value: "x"}},
		{"unknown op", types.Condition{Key: types.ColumnKey{Section: types.SectionRun, Name: "state"}, Op: "LIKE", Value: "x"}},
		{"unknown section", types.Condition{Key: types.ColumnKey{Section: "bogus", Name: "state"}, Op: types.OpEq, Value: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := types.FilterTree{Groups: []types.FilterGroup{{Filters: []types.Condition{tt.cond}}}}
			_, err := filter.ToOperatorTree(ft)
			var merr *filter.MalformedTreeError
			if !errors.As(err, &merr) {
				t.Errorf("error = %v, want MalformedTreeError", err)
			}
		})
	}
}

func TestMembershipAcceptsTypedSlices(t *testing.T) {
	ft := types.FilterTree{Groups: []types.FilterGroup{{Filters: []types.Condition{
		{Key: types.ColumnKey{Section: types.SectionRun, Name: "state"}, Op: types.OpIn, Value: []string{"a", "b"}},
	}}}}
	ot, err := filter.ToOperatorTree(ft)
	if err != nil {
		t.Fatalf("ToOperatorTree() failed: %v", err)
	}
	want := decode(t, `{"$or": [{"$and": [{"state": {"$in": ["a", "b"]}}]}]}`)
	if diff := cmp.Diff(want, ot.Map()); diff != "" {
		t.Errorf("operator tree mismatch (-want +got):\n%s", diff)
	}
}
