package nanoreport_test

import (
	"errors"
	"testing"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/ids"
	"github.com/arthur-debert/nanoreport/nanoreport/layout"
	"github.com/arthur-debert/nanoreport/testutil"
	"github.com/arthur-debert/nanoreport/types"
)

func TestOpenRunSet(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		wantErr  bool
		wantType bool
	}{
		{"first", 0, false, false},
		{"second", 1, false, false},
		{"out of range", 2, true, false},
		{"negative", -1, true, false},
		{"not an integer", "abc", true, true},
		{"fractional", 0.5, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := testutil.LoadReport(t)
			err := d.Grid.Set("open_run_set", tt.value)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Set(open_run_set, %v) error = %v", tt.value, err)
				}
				testutil.AssertSpecEqual(t, d.Grid.Spec()["metadata"].(map[string]interface{})["openRunSet"], tt.value)
				testutil.AssertModified(t, d.Grid, true)
				testutil.AssertModified(t, r, true)
				return
			}
			var verr *attr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Set(open_run_set, %v) error = %v, want ValidationError", tt.value, err)
			}
			if got := errors.Is(err, attr.ErrTypeMismatch); got != tt.wantType {
				t.Errorf("errors.Is(err, ErrTypeMismatch) = %v, want %v", got, tt.wantType)
			}
			if d.Grid.OpenRunSet() != 0 {
				t.Errorf("rejected write changed open run set to %d", d.Grid.OpenRunSet())
			}
		})
	}
}

func TestSetRunSets(t *testing.T) {
	prev := ids.SetGenerator(&ids.SequenceGenerator{IDs: []string{"aaa111", "bbb222"}})
	defer ids.SetGenerator(prev)

	r, d := testutil.LoadReport(t)
	if err := d.Grid.SetOpenRunSet(1); err != nil {
		t.Fatal(err)
	}
	rs1 := r.NewRunSet()
	rs2 := r.NewRunSet()
	if err := d.Grid.SetRunSets(rs1); err != nil {
		t.Fatalf("SetRunSets() error = %v", err)
	}
	if d.Grid.OpenRunSet() != 0 {
		t.Errorf("open run set not clamped: %d", d.Grid.OpenRunSet())
	}
	if err := d.Grid.SetRunSets(rs1, rs2); err != nil {
		t.Fatalf("SetRunSets() error = %v", err)
	}

	if rs1.ID() != "aaa111" || rs2.ID() != "bbb222" {
		t.Errorf("ids = %q, %q", rs1.ID(), rs2.ID())
	}
	stored := d.Grid.Spec()["metadata"].(map[string]interface{})["runSets"]
	testutil.AssertSpecEqual(t, stored, []interface{}{rs1.Spec(), rs2.Spec()})

	if err := rs2.Set("name", "second"); err != nil {
		t.Fatal(err)
	}
	if got := d.Grid.RunSets()[1].Name(); got != "second" {
		t.Errorf("assigned run set is not a view into the grid: name = %q", got)
	}
	testutil.AssertModified(t, r, true)
}

func TestSetRunSetsKeepsExistingIDs(t *testing.T) {
	_, d := testutil.LoadReport(t)
	runSets := d.Grid.RunSets()
	if err := d.Grid.SetRunSets(runSets[1], runSets[0]); err != nil {
		t.Fatal(err)
	}
	got := d.Grid.RunSets()
	if got[0].ID() != testutil.FinanceRunSetID || got[1].ID() != testutil.EditingRunSetID {
		t.Errorf("ids after reorder = %q, %q", got[0].ID(), got[1].ID())
	}
}

func TestSetPanelLayouts(t *testing.T) {
	_, d := testutil.LoadReport(t)
	panels := make([]nanoreport.Panel, 7)
	for i := range panels {
		panels[i] = nanoreport.NewLinePlot()
	}
	if err := d.Grid.SetPanels(panels...); err != nil {
		t.Fatalf("SetPanels() error = %v", err)
	}
	testutil.AssertNoCollisions(t, panels)
	testutil.AssertNoCollisions(t, d.Grid.Panels())

	first, ok := d.Grid.Panels()[0].Layout()
	if !ok || first != (types.Rect{X: 0, Y: 0, W: 12, H: 6}) {
		t.Errorf("first auto-placed layout = %v", first)
	}
	third, _ := d.Grid.Panels()[2].Layout()
	if third != (types.Rect{X: 0, Y: 6, W: 12, H: 6}) {
		t.Errorf("third auto-placed layout = %v", third)
	}
	for i, p := range panels {
		if p.ID() != d.Grid.Panels()[i].ID() {
			t.Errorf("panel %d is not a view into the grid", i)
		}
	}
}

func TestSetPanelsRejectsCollisions(t *testing.T) {
	_, d := testutil.LoadReport(t)
	a, b := nanoreport.NewLinePlot("loss"), nanoreport.NewBarPlot("acc")
	if err := a.SetLayout(types.Rect{X: 0, Y: 0, W: 4, H: 4}); err != nil {
		t.Fatal(err)
	}
	if err := b.SetLayout(types.Rect{X: 3, Y: 0, W: 4, H: 4}); err != nil {
		t.Fatal(err)
	}
	err := d.Grid.SetPanels(a, b)
	var cerr *layout.CollisionError
	if !errors.As(err, &cerr) {
		t.Fatalf("SetPanels() error = %v, want CollisionError", err)
	}
	if len(cerr.Pairs) != 1 || cerr.Pairs[0] != (layout.Pair{A: 0, B: 1}) {
		t.Errorf("pairs = %v", cerr.Pairs)
	}
	if len(d.Grid.Panels()) != 0 {
		t.Error("rejected panels were written")
	}
	testutil.AssertModified(t, d.Grid, false)

	// touching edges are fine
	if err := b.SetLayout(types.Rect{X: 4, Y: 0, W: 4, H: 4}); err != nil {
		t.Fatal(err)
	}
	if err := d.Grid.SetPanels(a, b); err != nil {
		t.Errorf("SetPanels() with touching layouts error = %v", err)
	}
}

func TestSetPanelsRepackedFixesBadLayouts(t *testing.T) {
	_, d := testutil.LoadReport(t)
	var panels []nanoreport.Panel
	for _, xy := range []int{0, 1, 2, 3, 5, 8, 13, 21} {
		for _, w := range []int{4, 8, 12, 16} {
			for _, h := range []int{4, 8, 12, 16} {
				p := nanoreport.NewLinePlot()
				if err := p.SetLayout(types.Rect{X: xy, Y: xy, W: w, H: h}); err != nil {
					t.Fatal(err)
				}
				panels = append(panels, p)
			}
		}
	}
	if err := d.Grid.SetPanelsRepacked(panels...); err != nil {
		t.Fatalf("SetPanelsRepacked() error = %v", err)
	}
	got := d.Grid.Panels()
	if len(got) != len(panels) {
		t.Fatalf("grid has %d panels, want %d", len(got), len(panels))
	}
	testutil.AssertNoCollisions(t, got)
}

func TestReportPackerDrivesPlacement(t *testing.T) {
	r, d := testutil.LoadReport(t)
	r.SetPacker(layout.Packer{GridWidth: 24, Columns: 3, RowHeight: 4})
	p := nanoreport.NewMarkdownPanel("# notes")
	if err := d.Grid.SetPanels(p); err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Layout(); got != (types.Rect{X: 0, Y: 0, W: 8, H: 4}) {
		t.Errorf("layout = %v", got)
	}
}

func TestPanelsCollide(t *testing.T) {
	a := nanoreport.NewLinePlot()
	_ = a.SetLayout(types.Rect{X: 0, Y: 0, W: 4, H: 4})
	b := nanoreport.NewLinePlot()
	_ = b.SetLayout(types.Rect{X: 4, Y: 0, W: 4, H: 4})
	if nanoreport.PanelsCollide(a, b) {
		t.Error("edge-touching panels collide")
	}
	_ = b.SetLayout(types.Rect{X: 3, Y: 0, W: 4, H: 4})
	if !nanoreport.PanelsCollide(a, b) {
		t.Error("overlapping panels do not collide")
	}
	if nanoreport.PanelsCollide(a, a) {
		t.Error("a panel collides with itself")
	}
	if nanoreport.PanelsCollide(a, nanoreport.NewLinePlot()) {
		t.Error("a panel without layout collides")
	}
}

func TestPanelGridDefaultSpec(t *testing.T) {
	g := nanoreport.NewPanelGrid("megatruong", "report-editing")
	metadata := g.Spec()["metadata"].(map[string]interface{})
	for _, key := range []string{"openViz", "panels", "panelBankConfig", "panelBankSectionConfig", "customRunColors", "runSets", "openRunSet", "name"} {
		if _, ok := metadata[key]; !ok {
			t.Errorf("default metadata has no %s", key)
		}
	}
	section := metadata["panelBankSectionConfig"].(map[string]interface{})
	if section["type"] != "grid" || section["name"] != "Report Panels" {
		t.Errorf("panel section = %v", section)
	}
	rs := g.RunSets()
	if len(rs) != 1 {
		t.Fatalf("default grid has %d run sets", len(rs))
	}
	if rs[0].ID() != "" {
		t.Errorf("default run set has id %q before assignment", rs[0].ID())
	}
	if g.Modified() {
		t.Error("new grid is modified")
	}
}

func TestReorderedRunSetViewsFollowTheirRunSet(t *testing.T) {
	r, d := testutil.LoadReport(t)
	editing, finance := d.EditingRunSet, d.FinanceRunSet
	if err := d.Grid.SetRunSets(finance, editing); err != nil {
		t.Fatal(err)
	}
	r.ClearModified()

	if err := editing.Set("name", "editing"); err != nil {
		t.Fatal(err)
	}
	if err := finance.SetOrder("-Runtime"); err != nil {
		t.Fatal(err)
	}
	testutil.AssertModified(t, r, true, "after writes")

	got := d.Grid.RunSets()
	if got[1].ID() != testutil.EditingRunSetID || got[1].Name() != "editing" {
		t.Errorf("run set 1 = %q named %q", got[1].ID(), got[1].Name())
	}
	if got[0].ID() != testutil.FinanceRunSetID {
		t.Errorf("run set 0 = %q", got[0].ID())
	}
	testutil.AssertSpecEqual(t, got[0].Order(), []string{"-Runtime"})
	if editing.ID() != testutil.EditingRunSetID || finance.ID() != testutil.FinanceRunSetID {
		t.Errorf("views read %q, %q after reorder", editing.ID(), finance.ID())
	}
}

func TestDroppedRunSetViewIsDetached(t *testing.T) {
	r, d := testutil.LoadReport(t)
	if err := d.Grid.SetRunSets(d.FinanceRunSet); err != nil {
		t.Fatal(err)
	}
	r.ClearModified()

	if err := d.EditingRunSet.Set("name", "gone"); err != nil {
		t.Fatal(err)
	}
	testutil.AssertModified(t, r, false, "after write through dropped run set")
	if got := d.Grid.RunSets()[0].Name(); got == "gone" {
		t.Error("dropped run set wrote over the remaining one")
	}
}

func TestReorderedPanelViewsFollowTheirPanel(t *testing.T) {
	r, d := testutil.LoadReport(t)
	a, b := nanoreport.NewLinePlot("a"), nanoreport.NewLinePlot("b")
	if err := d.Grid.SetPanels(a, b); err != nil {
		t.Fatal(err)
	}
	if err := d.Grid.SetPanels(b, a); err != nil {
		t.Fatal(err)
	}
	r.ClearModified()

	if err := a.Set("smoothing_factor", 0.25); err != nil {
		t.Fatal(err)
	}
	testutil.AssertModified(t, r, true, "after panel write")

	panels := d.Grid.Panels()
	if panels[1].ID() != a.ID() || panels[0].ID() != b.ID() {
		t.Fatalf("panel order = %q, %q", panels[0].ID(), panels[1].ID())
	}
	moved := panels[1].(*nanoreport.LinePlot)
	if moved.SmoothingFactor() != 0.25 {
		t.Errorf("smoothing factor of moved panel = %v", moved.SmoothingFactor())
	}
	if other := panels[0].(*nanoreport.LinePlot); other.SmoothingFactor() == 0.25 {
		t.Error("write landed in the wrong panel")
	}
	testutil.AssertSpecEqual(t, a.Y(), []string{"a"})
}

func TestGridViewsFollowGridIntoReport(t *testing.T) {
	r, err := nanoreport.NewReport("megatruong", "report-editing")
	if err != nil {
		t.Fatal(err)
	}
	g := r.NewPanelGrid()
	rs := g.RunSets()[0]
	lp := nanoreport.NewLinePlot("loss")
	if err := g.SetPanels(lp); err != nil {
		t.Fatal(err)
	}
	if err := r.SetBlocks(g); err != nil {
		t.Fatal(err)
	}
	r.ClearModified()

	if err := rs.Set("name", "inside"); err != nil {
		t.Fatal(err)
	}
	if err := lp.SetLayout(types.Rect{X: 12, Y: 0, W: 12, H: 6}); err != nil {
		t.Fatal(err)
	}
	testutil.AssertModified(t, r, true, "after nested writes")
	if got := r.PanelGrids()[0].RunSets()[0].Name(); got != "inside" {
		t.Errorf("run set name = %q", got)
	}
	if got, _ := r.PanelGrids()[0].Panels()[0].Layout(); got.X != 12 {
		t.Errorf("panel layout = %v", got)
	}
}
