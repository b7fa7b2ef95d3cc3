package filter_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanoreport/nanoreport/columns"
	"github.com/arthur-debert/nanoreport/nanoreport/filter"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad JSON fixture: %v", err)
	}
	return v
}

var compileCases = []struct {
	name  string
	expr  string
	mongo string
	spec  string
}{
	{
		name:  "equality on alias and summary",
		expr:  "State == 'crashed' and team == 'amazing team'",
		mongo: `{"$or": [{"$and": [{"state": "crashed"}, {"summary_metrics.team": "amazing team"}]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "run", "name": "state"}, "op": "=", "value": "crashed"},
			{"key": {"section": "summary", "name": "team"}, "op": "=", "value": "amazing team"}
		]}]}`,
	},
	{
		name:  "inequality and numbers",
		expr:  "User != 'megatruong' and Runtime < 3600",
		mongo: `{"$or": [{"$and": [{"username": {"$ne": "megatruong"}}, {"duration": {"$lt": 3600}}]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "run", "name": "username"}, "op": "!=", "value": "megatruong"},
			{"key": {"section": "run", "name": "duration"}, "op": "<", "value": 3600}
		]}]}`,
	},
	{
		name: "multi-line with irregular indentation",
		expr: `
                a > 123 and
                        c == "the cow"
                    and Runtime == "amazing"
                    and UsingArtifact ==
                    "other thing"
                    and Name in [123,456,789]
                `,
		mongo: `{"$or": [{"$and": [
			{"summary_metrics.a": {"$gt": 123}},
			{"summary_metrics.c": "the cow"},
			{"duration": "amazing"},
			{"inputArtifacts": "other thing"},
			{"displayName": {"$in": [123, 456, 789]}}
		]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "summary", "name": "a"}, "op": ">", "value": 123},
			{"key": {"section": "summary", "name": "c"}, "op": "=", "value": "the cow"},
			{"key": {"section": "run", "name": "duration"}, "op": "=", "value": "amazing"},
			{"key": {"section": "run", "name": "inputArtifacts"}, "op": "=", "value": "other thing"},
			{"key": {"section": "run", "name": "displayName"}, "op": "IN", "value": [123, 456, 789]}
		]}]}`,
	},
	{
		name: "membership",
		expr: `
                person in ['a', 'b', 'c']
                and experiment_name == "amazing experiment"
                and JobType not in ['training', 'testing']
                `,
		mongo: `{"$or": [{"$and": [
			{"summary_metrics.person": {"$in": ["a", "b", "c"]}},
			{"summary_metrics.experiment_name": "amazing experiment"},
			{"jobType": {"$nin": ["training", "testing"]}}
		]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "summary", "name": "person"}, "op": "IN", "value": ["a", "b", "c"]},
			{"key": {"section": "summary", "name": "experiment_name"}, "op": "=", "value": "amazing experiment"},
			{"key": {"section": "run", "name": "jobType"}, "op": "NIN", "value": ["training", "testing"]}
		]}]}`,
	},
	{
		name: "two bounds on one path and null comparisons",
		expr: `
                Name in ['object_detection_2', 'pose_estimation_1', 'pose_estimation_2']
                and JobType == '<null>'
                and Runtime <= 6000
                and State != None
                and User != None
                and CreatedTimestamp <= '2022-05-06'
                and Runtime >= 0
                and team != None
                and _timestamp >= 0
                `,
		mongo: `{"$or": [{"$and": [
			{"displayName": {"$in": ["object_detection_2", "pose_estimation_1", "pose_estimation_2"]}},
			{"jobType": "<null>"},
			{"duration": {"$lte": 6000}},
			{"state": {"$ne": null}},
			{"username": {"$ne": null}},
			{"createdAt": {"$lte": "2022-05-06"}},
			{"duration": {"$gte": 0}},
			{"summary_metrics.team": {"$ne": null}},
			{"summary_metrics._timestamp": {"$gte": 0}}
		]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "run", "name": "displayName"}, "op": "IN", "value": ["object_detection_2", "pose_estimation_1", "pose_estimation_2"]},
			{"key": {"section": "run", "name": "jobType"}, "op": "=", "value": "<null>"},
			{"key": {"section": "run", "name": "duration"}, "op": "<=", "value": 6000},
			{"key": {"section": "run", "name": "state"}, "op": "!=", "value": null},
			{"key": {"section": "run", "name": "username"}, "op": "!=", "value": null},
			{"key": {"section": "run", "name": "createdAt"}, "op": "<=", "value": "2022-05-06"},
			{"key": {"section": "run", "name": "duration"}, "op": ">=", "value": 0},
			{"key": {"section": "summary", "name": "team"}, "op": "!=", "value": null},
			{"key": {"section": "summary", "name": "_timestamp"}, "op": ">=", "value": 0}
		]}]}`,
	},
	{
		name:  "disjunction of conjunctions",
		expr:  "State == 'running' and acc > 0.5 or State == 'finished'",
		mongo: `{"$or": [{"$and": [{"state": "running"}, {"summary_metrics.acc": {"$gt": 0.5}}]}, {"$and": [{"state": "finished"}]}]}`,
		spec: `{"op": "OR", "filters": [
			{"op": "AND", "filters": [
				{"key": {"section": "run", "name": "state"}, "op": "=", "value": "running"},
				{"key": {"section": "summary", "name": "acc"}, "op": ">", "value": 0.5}
			]},
			{"op": "AND", "filters": [
				{"key": {"section": "run", "name": "state"}, "op": "=", "value": "finished"}
			]}
		]}`,
	},
	{
		name:  "c-style connectives and parenthesized groups",
		expr:  "(loss < 1 && epoch >= 10) || (Tags in ['baseline'])",
		mongo: `{"$or": [{"$and": [{"summary_metrics.loss": {"$lt": 1}}, {"summary_metrics.epoch": {"$gte": 10}}]}, {"$and": [{"tags": {"$in": ["baseline"]}}]}]}`,
		spec: `{"op": "OR", "filters": [
			{"op": "AND", "filters": [
				{"key": {"section": "summary", "name": "loss"}, "op": "<", "value": 1},
				{"key": {"section": "summary", "name": "epoch"}, "op": ">=", "value": 10}
			]},
			{"op": "AND", "filters": [
				{"key": {"section": "run", "name": "tags"}, "op": "IN", "value": ["baseline"]}
			]}
		]}`,
	},
	{
		name:  "literals",
		expr:  `a == True and b == False and c == null and d == -2.5 and e == 1_000 and f == r'\d' and g == 'it\'s' and h == 1e3`,
		mongo: `{"$or": [{"$and": [
			{"summary_metrics.a": true},
			{"summary_metrics.b": false},
			{"summary_metrics.c": null},
			{"summary_metrics.d": -2.5},
			{"summary_metrics.e": 1000},
			{"summary_metrics.f": "\\d"},
			{"summary_metrics.g": "it's"},
			{"summary_metrics.h": 1000}
		]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "summary", "name": "a"}, "op": "=", "value": true},
			{"key": {"section": "summary", "name": "b"}, "op": "=", "value": false},
			{"key": {"section": "summary", "name": "c"}, "op": "=", "value": null},
			{"key": {"section": "summary", "name": "d"}, "op": "=", "value": -2.5},
			{"key": {"section": "summary", "name": "e"}, "op": "=", "value": 1000},
			{"key": {"section": "summary", "name": "f"}, "op": "=", "value": "\\d"},
			{"key": {"section": "summary", "name": "g"}, "op": "=", "value": "it's"},
			{"key": {"section": "summary", "name": "h"}, "op": "=", "value": 1000}
		]}]}`,
	},
	{
		name:  "negated comparison",
		expr:  "not State == 'crashed' and not Runtime < 10",
		mongo: `{"$or": [{"$and": [{"state": {"$ne": "crashed"}}, {"duration": {"$gte": 10}}]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "run", "name": "state"}, "op": "!=", "value": "crashed"},
			{"key": {"section": "run", "name": "duration"}, "op": ">=", "value": 10}
		]}]}`,
	},
	{
		name:  "operator characters inside strings are kept",
		expr:  `Name == 'a && b || c'`,
		mongo: `{"$or": [{"$and": [{"displayName": "a && b || c"}]}]}`,
		spec: `{"op": "OR", "filters": [{"op": "AND", "filters": [
			{"key": {"section": "run", "name": "displayName"}, "op": "=", "value": "a && b || c"}
		]}]}`,
	},
}

func TestCompile(t *testing.T) {
	for _, tt := range compileCases {
		t.Run(tt.name, func(t *testing.T) {
			ft, err := filter.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			if diff := cmp.Diff(decode(t, tt.spec), tree.Normalize(ft.Map())); diff != "" {
				t.Errorf("filter tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToOperatorTree(t *testing.T) {
	for _, tt := range compileCases {
		t.Run(tt.name, func(t *testing.T) {
			ft, err := types.FilterTreeFromMap(decode(t, tt.spec))
			if err != nil {
				t.Fatalf("bad spec fixture: %v", err)
			}
			ot, err := filter.ToOperatorTree(ft)
			if err != nil {
				t.Fatalf("ToOperatorTree() failed: %v", err)
			}
			if diff := cmp.Diff(decode(t, tt.mongo), ot.Map()); diff != "" {
				t.Errorf("operator tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOperatorTreeRoundTrip(t *testing.T) {
	for _, tt := range compileCases {
		t.Run(tt.name, func(t *testing.T) {
			ft, err := filter.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			ot, err := filter.ToOperatorTree(ft)
			if err != nil {
				t.Fatalf("ToOperatorTree() failed: %v", err)
			}

			// through JSON, the way the operator tree leaves the process
			data, err := json.Marshal(ot)
			if err != nil {
				t.Fatalf("Marshal() failed: %v", err)
			}
			var decoded filter.OperatorTree
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal() failed: %v", err)
			}

			back, err := filter.FromOperatorTree(decoded)
			if err != nil {
				t.Fatalf("FromOperatorTree() failed: %v", err)
			}
			if diff := cmp.Diff(ft, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileCanonicalShape(t *testing.T) {
	for _, tt := range compileCases {
		ft, err := filter.Compile(tt.expr)
		if err != nil {
			t.Fatalf("%s: Compile() failed: %v", tt.name, err)
		}
		m := ft.Map()
		if m["op"] != "OR" {
			t.Errorf("%s: outer op = %v", tt.name, m["op"])
		}
		for _, g := range m["filters"].([]interface{}) {
			if g.(map[string]interface{})["op"] != "AND" {
				t.Errorf("%s: group op = %v", tt.name, g.(map[string]interface{})["op"])
			}
		}
	}
}

func TestCompileEmpty(t *testing.T) {
	for _, expr := range []string{"", "   ", "\n\t\n"} {
		ft, err := filter.Compile(expr)
		if err != nil {
			t.Fatalf("Compile(%q) failed: %v", expr, err)
		}
		if diff := cmp.Diff(types.EmptyFilterTree(), ft); diff != "" {
			t.Errorf("Compile(%q) mismatch (-want +got):\n%s", expr, diff)
		}
		ot, err := filter.ToOperatorTree(ft)
		if err != nil {
			t.Fatalf("ToOperatorTree() failed: %v", err)
		}
		want := map[string]interface{}{"$or": []interface{}{map[string]interface{}{"$and": []interface{}{}}}}
		if diff := cmp.Diff(want, ot.Map()); diff != "" {
			t.Errorf("empty operator tree mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		construct string
	}{
		{"function call", "len(Name) > 3", "left-hand side function call"},
		{"attribute access", "run.state == 'x'", "left-hand side attribute access"},
		{"arithmetic", "a + 1 > 3", "left-hand side arithmetic"},
		{"arithmetic on the right", "a > 1 + 2", "arithmetic"},
		{"or inside and", "a == 1 and (b == 2 or c == 3)", "disjunction nested inside a conjunction"},
		{"chained comparison", "0 < a < 5", "chained comparison"},
		{"bare name", "State", "bare name"},
		{"literal on the left", "3 < a", "left-hand side bare literal"},
		{"membership without list", "a in 'abc'", "membership test against a non-list"},
		{"name on the right", "a == b", "name on the right-hand side"},
		{"negated conjunction", "not (a == 1 and b == 2)", "negation of a non-comparison"},
		{"f-string", "a == f'{x}'", "formatted or bytes string"},
		{"nested list", "a in [[1], 2]", "nested list"},
		{"named unicode escape", `a == '\N{BULLET}'`, "named unicode escape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filter.Compile(tt.expr)
			var uerr *filter.UnsupportedExpressionError
			if !errors.As(err, &uerr) {
				t.Fatalf("Compile(%q) error = %v, want UnsupportedExpressionError", tt.expr, err)
			}
			if uerr.Construct != tt.construct {
				t.Errorf("Construct = %q, want %q", uerr.Construct, tt.construct)
			}
			if uerr.Text == "" {
				t.Error("error must carry the offending text")
			}
		})
	}
}

func TestCompileUnknownOperator(t *testing.T) {
	for _, expr := range []string{"a is None", "a is not None", "a <> 1"} {
		_, err := filter.Compile(expr)
		var oerr *filter.UnknownOperatorError
		if !errors.As(err, &oerr) {
			// <> is a syntax error in some grammar versions
			var serr *filter.SyntaxError
			if expr == "a <> 1" && errors.As(err, &serr) {
				continue
			}
			t.Errorf("Compile(%q) error = %v, want UnknownOperatorError", expr, err)
		}
	}
}

func TestCompileSyntaxError(t *testing.T) {
	for _, expr := range []string{"a ==", "a == 'x", "a === 1", "a == 1 and", "State == 'x') or (b"} {
		_, err := filter.Compile(expr)
		var serr *filter.SyntaxError
		var uerr *filter.UnsupportedExpressionError
		if !errors.As(err, &serr) && !errors.As(err, &uerr) {
			t.Errorf("Compile(%q) error = %v, want a SyntaxError", expr, err)
		}
	}
}

func TestCompileRejectsUnmatchedParentheses(t *testing.T) {
	tests := []struct {
		expr string
		pos  int
	}{
		{"a == 1) or (b == 2", 6},
		{"(a == 1)) and (b == 2", 8},
		{"a in [1, 2]) or ([3]", 11},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := filter.Compile(tt.expr)
			var serr *filter.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("Compile(%q) error = %v, want SyntaxError", tt.expr, err)
			}
			if serr.Position != tt.pos {
				t.Errorf("Position = %d, want %d", serr.Position, tt.pos)
			}
		})
	}
}

func TestCompileParenthesesInsideStrings(t *testing.T) {
	tree, err := filter.Compile(`Name == ')' or Name == '(('`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := len(tree.Groups); got != 2 {
		t.Errorf("groups = %d, want 2", got)
	}
}

func TestCompileStringEscapes(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"octal newline", `Name == '\012'`, "\n"},
		{"three digit octal", `Name == '\101'`, "A"},
		{"single digit octal", `Name == 'a\0b'`, "a\x00b"},
		{"octal stops after three digits", `Name == '\1011'`, "A1"},
		{"hex", `Name == '\x41'`, "A"},
		{"unicode", `Name == '\u00e9'`, "\u00e9"},
		{"escaped backslash before N", `Name == '\\N{x}'`, `\N{x}`},
		{"raw string keeps escapes", `Name == r'\012'`, `\012`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := filter.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.expr, err)
			}
			got := tree.Groups[0].Filters[0].Value
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileSyntaxErrorDescribesInput(t *testing.T) {
	_, err := filter.Compile("a == 1 and b === 2")
	var serr *filter.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if serr.Line < 1 || serr.Position < 0 || serr.Position > len("a == 1 and b === 2") {
		t.Errorf("position out of range: %+v", serr)
	}
	if serr.Error() == "" {
		t.Error("expected a descriptive message")
	}
}

func TestCompileWithCustomResolver(t *testing.T) {
	r := columns.NewResolver([]columns.Alias{
		{Name: "lr", Key: types.ColumnKey{Section: types.SectionConfig, Name: "learning_rate"}},
	})
	g := filter.NewQueryGenerator(r)
	ot, err := g.CompileToOperatorTree("lr < 0.01")
	if err != nil {
		t.Fatalf("CompileToOperatorTree() failed: %v", err)
	}
	want := decode(t, `{"$or": [{"$and": [{"config.learning_rate.value": {"$lt": 0.01}}]}]}`)
	if diff := cmp.Diff(want, ot.Map()); diff != "" {
		t.Errorf("operator tree mismatch (-want +got):\n%s", diff)
	}
}
