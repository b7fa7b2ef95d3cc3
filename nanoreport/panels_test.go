package nanoreport_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/testutil"
	"github.com/arthur-debert/nanoreport/types"
)

func TestNewPanels(t *testing.T) {
	tests := []struct {
		panel    nanoreport.Panel
		viewType string
		config   map[string]interface{}
	}{
		{nanoreport.NewLinePlot("loss", "acc"), nanoreport.ViewLinePlot, map[string]interface{}{"metrics": []interface{}{"loss", "acc"}}},
		{nanoreport.NewBarPlot("acc"), nanoreport.ViewBarPlot, map[string]interface{}{"metrics": []interface{}{"acc"}}},
		{nanoreport.NewScalarChart("acc"), nanoreport.ViewScalarChart, map[string]interface{}{"metrics": []interface{}{"acc"}}},
		{nanoreport.NewScatterPlot("lr", "loss"), nanoreport.ViewScatterPlot, map[string]interface{}{"xAxis": "lr", "yAxis": "loss"}},
		{nanoreport.NewMarkdownPanel("**hi**"), nanoreport.ViewMarkdownPanel, map[string]interface{}{"value": "**hi**"}},
	}
	for _, tt := range tests {
		t.Run(tt.viewType, func(t *testing.T) {
			if tt.panel.ViewType() != tt.viewType {
				t.Errorf("ViewType() = %q", tt.panel.ViewType())
			}
			if tt.panel.ID() == "" {
				t.Error("new panel has no id")
			}
			if _, ok := tt.panel.Layout(); ok {
				t.Error("new panel has a layout")
			}
			testutil.AssertSpecEqual(t, tt.panel.Spec()["config"], tt.config)
			testutil.AssertModified(t, tt.panel, false)

			again, err := nanoreport.PanelFromSpec(tt.panel.Spec())
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprintf("%T", again) != fmt.Sprintf("%T", tt.panel) {
				t.Errorf("PanelFromSpec() = %T, want %T", again, tt.panel)
			}
			testutil.AssertSpecEqual(t, again.Spec(), tt.panel.Spec())
		})
	}
}

func TestPanelIDsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := nanoreport.NewLinePlot().ID()
		if seen[id] {
			t.Fatalf("duplicate panel id %q", id)
		}
		seen[id] = true
	}
}

func TestLinePlotFields(t *testing.T) {
	p := nanoreport.NewLinePlot("loss")
	tests := []struct {
		field   string
		value   interface{}
		wantErr bool
	}{
		{"title", "Loss", false},
		{"x", "_step", false},
		{"log_y", true, false},
		{"smoothing_factor", 0.6, false},
		{"smoothing_factor", 1.5, true},
		{"smoothing_type", "gaussian", false},
		{"smoothing_type", "cubic", true},
		{"groupby_aggfunc", "median", false},
		{"groupby_aggfunc", "mode", true},
		{"groupby_rangefunc", "stderr", false},
		{"max_runs_to_show", 20, false},
		{"max_runs_to_show", -1, true},
		{"max_runs_to_show", "ten", true},
		{"legend_position", "east", false},
		{"legend_position", "up", true},
		{"font_size", "huge", true},
		{"title", nil, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%v", tt.field, tt.value), func(t *testing.T) {
			err := p.Set(tt.field, tt.value)
			if tt.wantErr {
				var verr *attr.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("Set() error = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := p.Get(tt.field)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertSpecEqual(t, got, tt.value)
		})
	}
}

func TestRangeFields(t *testing.T) {
	p := nanoreport.NewLinePlot("loss")
	if err := p.Set("range_y", []interface{}{0, nil}); err != nil {
		t.Fatalf("Set(range_y) error = %v", err)
	}
	config := p.Spec()["config"].(map[string]interface{})
	testutil.AssertSpecEqual(t, config["yAxisMin"], 0)
	if v, ok := config["yAxisMax"]; !ok || v != nil {
		t.Errorf("yAxisMax = %v, %v", v, ok)
	}
	got, _ := p.Get("range_y")
	testutil.AssertSpecEqual(t, got, []interface{}{0, nil})

	if err := p.Set("range_x", []float64{1}); err == nil {
		t.Error("Set(range_x) accepted a single bound")
	}
	if err := p.Set("range_x", []interface{}{"a", 2}); err == nil {
		t.Error("Set(range_x) accepted a string bound")
	}
}

func TestLinePlotOverrides(t *testing.T) {
	_, d := testutil.LoadReport(t)
	p := nanoreport.NewLinePlot("loss")
	if err := d.Grid.SetPanels(p); err != nil {
		t.Fatal(err)
	}
	runKey := nanoreport.LineKeyFromRun("run1", "loss")
	aggKey := nanoreport.LineKeyFromRunSetAgg(d.EditingRunSet, "loss")

	if err := p.SetLineTitles(map[nanoreport.LineKey]string{runKey: "baseline"}); err != nil {
		t.Fatal(err)
	}
	red := nanoreport.RGBA{R: 255, A: 1}
	if err := p.SetLineColors(map[nanoreport.LineKey]nanoreport.RGBA{aggKey: red}); err != nil {
		t.Fatal(err)
	}
	if err := p.SetLineWidths(map[nanoreport.LineKey]float64{runKey: 2.5}); err != nil {
		t.Fatal(err)
	}
	if err := p.SetLineMarks(map[nanoreport.LineKey]string{runKey: "dashed"}); err != nil {
		t.Fatal(err)
	}

	stored := d.Grid.Panels()[0].Spec()["config"].(map[string]interface{})
	testutil.AssertSpecEqual(t, stored["overrideColors"], map[string]interface{}{
		"abcdef123-run:group:User,something:loss": map[string]interface{}{
			"color":            "rgba(255, 0, 0, 1)",
			"transparentColor": "rgba(255, 0, 0, 0.1)",
		},
	})
	testutil.AssertSpecEqual(t, stored["overrideSeriesTitles"], map[string]interface{}{"run1:loss": "baseline"})

	if diff := cmp.Diff(map[nanoreport.LineKey]nanoreport.RGBA{aggKey: red}, p.LineColors()); diff != "" {
		t.Errorf("LineColors() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[nanoreport.LineKey]float64{runKey: 2.5}, p.LineWidths()); diff != "" {
		t.Errorf("LineWidths() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[nanoreport.LineKey]string{runKey: "dashed"}, p.LineMarks()); diff != "" {
		t.Errorf("LineMarks() mismatch (-want +got):\n%s", diff)
	}

	if err := p.SetLineMarks(map[nanoreport.LineKey]string{runKey: "wavy"}); err == nil {
		t.Error("SetLineMarks() accepted an unknown mark")
	}
	if err := p.Set("line_colors", map[string]interface{}{"k": "blue"}); err == nil {
		t.Error("Set(line_colors) accepted a named color")
	}
}

func TestLineKeys(t *testing.T) {
	_, d := testutil.LoadReport(t)
	p := nanoreport.NewLinePlot("loss")

	tests := []struct {
		name string
		got  nanoreport.LineKey
		want string
	}{
		{"run", nanoreport.LineKeyFromRun("x1y2", "acc"), "x1y2:acc"},
		{"panel agg without groupby", nanoreport.LineKeyFromPanelAgg(d.EditingRunSet, p, "loss"), "abcdef123-config:group:null:null:loss"},
		{"run set agg", nanoreport.LineKeyFromRunSetAgg(d.EditingRunSet, "loss"), "abcdef123-run:group:User,something:loss"},
		{"run set agg without grouping", nanoreport.LineKeyFromRunSetAgg(d.FinanceRunSet, "acc"), "ghijklm456-run:group:null:acc"},
	}
	if err := p.Set("groupby", "lr"); err != nil {
		t.Fatal(err)
	}
	tests = append(tests, struct {
		name string
		got  nanoreport.LineKey
		want string
	}{"panel agg", nanoreport.LineKeyFromPanelAgg(d.EditingRunSet, p, "loss"), "abcdef123-config:group:lr:null:loss"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.String() != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseRGBA(t *testing.T) {
	tests := []struct {
		in      string
		want    nanoreport.RGBA
		wantErr bool
	}{
		{"rgba(255, 0, 0, 1)", nanoreport.RGBA{R: 255, A: 1}, false},
		{"rgba(1,2,3,0.5)", nanoreport.RGBA{R: 1, G: 2, B: 3, A: 0.5}, false},
		{"rgb(10, 20, 30)", nanoreport.RGBA{R: 10, G: 20, B: 30, A: 1}, false},
		{" rgba(0, 0, 0, 0) ", nanoreport.RGBA{}, false},
		{"rgba(256, 0, 0, 1)", nanoreport.RGBA{}, true},
		{"rgba(0, 0, 0, 2)", nanoreport.RGBA{}, true},
		{"rgba(0, 0, 1)", nanoreport.RGBA{R: 0, G: 0, B: 1, A: 1}, false},
		{"#ff0000", nanoreport.RGBA{}, true},
		{"rgba(a, b, c, d)", nanoreport.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := nanoreport.ParseRGBA(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRGBA(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRGBA(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRGBA(%q) = %v, want %v", tt.in, got, tt.want)
			}
			again, err := nanoreport.ParseRGBA(got.String())
			if err != nil || again != got {
				t.Errorf("String() does not parse back: %q", got.String())
			}
		})
	}
}

func TestPanelLayoutValidation(t *testing.T) {
	p := nanoreport.NewScalarChart("acc")
	var verr *attr.ValidationError
	if err := p.SetLayout(types.Rect{X: -1, Y: 0, W: 4, H: 4}); !errors.As(err, &verr) {
		t.Errorf("SetLayout(negative) error = %v, want ValidationError", err)
	}
	if err := p.SetLayout(types.Rect{X: 0, Y: 0, W: 0, H: 4}); !errors.As(err, &verr) {
		t.Errorf("SetLayout(empty) error = %v, want ValidationError", err)
	}
	if err := p.Set("layout", map[string]interface{}{"x": 0, "y": 0, "w": "wide", "h": 1}); !errors.As(err, &verr) {
		t.Errorf("Set(layout) error = %v, want ValidationError", err)
	}
	if err := p.SetLayout(types.Rect{X: 2, Y: 3, W: 4, H: 5}); err != nil {
		t.Fatal(err)
	}
	if r, ok := p.Layout(); !ok || r != (types.Rect{X: 2, Y: 3, W: 4, H: 5}) {
		t.Errorf("Layout() = %v, %v", r, ok)
	}
	if err := p.ClearLayout(); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Layout(); ok {
		t.Error("layout survived ClearLayout()")
	}
}

func TestRawPanelSurvives(t *testing.T) {
	_, d := testutil.LoadReport(t)
	raw, err := nanoreport.NewRawPanel(map[string]interface{}{
		"viewType": "Parallel Coordinates Plot",
		"config":   map[string]interface{}{"columns": []interface{}{"lr", "loss"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if raw.ID() == "" {
		t.Error("raw panel got no id")
	}
	if err := d.Grid.SetPanels(raw); err != nil {
		t.Fatal(err)
	}
	got := d.Grid.Panels()[0]
	if _, ok := got.(*nanoreport.RawPanel); !ok {
		t.Fatalf("panel decoded as %T", got)
	}
	testutil.AssertSpecEqual(t, got.Spec()["config"], map[string]interface{}{"columns": []interface{}{"lr", "loss"}})

	if _, err := nanoreport.NewRawPanel(map[string]interface{}{"config": map[string]interface{}{}}); err == nil {
		t.Error("NewRawPanel() accepted a spec without viewType")
	}
}
