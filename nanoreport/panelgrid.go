package nanoreport

import (
	"fmt"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/ids"
	"github.com/arthur-debert/nanoreport/nanoreport/layout"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
	"github.com/arthur-debert/nanoreport/types"
)

var (
	runSetsPath = []string{"metadata", "runSets"}
	panelsPath  = []string{"metadata", "panelBankSectionConfig", "panels"}
)

var panelGridSchema = blockSchema.Extend("panel grid",
	attr.Field{
		Name:    "open_run_set",
		Path:    []string{"metadata", "openRunSet"},
		Kind:    attr.Int,
		Default: 0.0,
		Validators: []attr.Validator{
			func(n *tree.Node, value interface{}) error {
				i, _ := validation.AsInt(value)
				if count := n.Len(runSetsPath...); i < 0 || i >= count {
					return fmt.Errorf("run set index %d out of range [0, %d)", i, count)
				}
				return nil
			},
		},
	},
)

// PanelGrid is a block holding run sets and a grid of panels plotting them
type PanelGrid struct {
	blockBase
	report *Report
}

// NewPanelGrid creates a detached grid with one default run set over
// entity/project and no panels
func NewPanelGrid(entity, project string) *PanelGrid {
	return &PanelGrid{blockBase: newBlock(panelGridSchema, tree.New(defaultPanelGridSpec(entity, project)).Root())}
}

func defaultPanelGridSpec(entity, project string) map[string]interface{} {
	flowConfig := func() map[string]interface{} {
		return map[string]interface{}{
			"snapToColumns":  true,
			"columnsPerPage": 3,
			"rowsPerPage":    2,
			"gutterWidth":    16,
			"boxWidth":       460,
			"boxHeight":      300,
		}
	}
	panelSettings := func() map[string]interface{} {
		return map[string]interface{}{
			"xAxis":           "_step",
			"smoothingWeight": 0,
			"smoothingType":   "exponential",
			"ignoreOutliers":  false,
			"xAxisActive":     false,
			"smoothingActive": false,
		}
	}
	return map[string]interface{}{
		"type":     TypePanelGrid,
		"children": emptyChildren(),
		"metadata": map[string]interface{}{
			"openViz": true,
			"panels": map[string]interface{}{
				"views": map[string]interface{}{
					"0": map[string]interface{}{"name": "Panels", "defaults": []interface{}{}, "config": []interface{}{}},
				},
				"tabs": []interface{}{"0"},
			},
			"panelBankConfig": map[string]interface{}{
				"state": 0,
				"settings": map[string]interface{}{
					"autoOrganizePrefix": 2,
					"showEmptySections":  false,
					"sortAlphabetically": false,
				},
				"sections": []interface{}{
					map[string]interface{}{
						"name":               "Hidden Panels",
						"isOpen":             false,
						"panels":             []interface{}{},
						"type":               "flow",
						"flowConfig":         flowConfig(),
						"sorted":             0,
						"localPanelSettings": panelSettings(),
					},
				},
			},
			"panelBankSectionConfig": map[string]interface{}{
				"name":               "Report Panels",
				"isOpen":             false,
				"panels":             []interface{}{},
				"type":               "grid",
				"flowConfig":         flowConfig(),
				"sorted":             0,
				"localPanelSettings": panelSettings(),
			},
			"customRunColors": map[string]interface{}{},
			"runSets":         []interface{}{defaultRunSetSpec(entity, project)},
			"openRunSet":      0,
			"name":            "unused-name",
		},
	}
}

// Report returns the report the grid belongs to, or nil while detached
func (g *PanelGrid) Report() *Report {
	return g.report
}

// OpenRunSet returns the index of the run set selected in the grid
func (g *PanelGrid) OpenRunSet() int {
	return g.integer("open_run_set")
}

// SetOpenRunSet selects a run set by index
func (g *PanelGrid) SetOpenRunSet(i int) error {
	return g.Set("open_run_set", i)
}

// RunSets returns views over the grid's run sets
func (g *PanelGrid) RunSets() []*RunSet {
	count := g.node.Len(runSetsPath...)
	out := make([]*RunSet, count)
	for i := range out {
		out[i] = runSetAt(g.node.Child(runSetsPath...).Index(i))
	}
	return out
}

// SetRunSets replaces the grid's run sets. Run sets without an id get a fresh
// one, and every given run set becomes a view into the grid.
func (g *PanelGrid) SetRunSets(runSets ...*RunSet) error {
	if err := g.checkFragment(); err != nil {
		return err
	}
	specs := make([]interface{}, len(runSets))
	grafts := make([]tree.Graft, len(runSets))
	for i, rs := range runSets {
		if rs == nil {
			return fmt.Errorf("run set %d is nil", i)
		}
		spec := rs.Spec()
		if id, _ := spec["id"].(string); id == "" {
			spec["id"] = ids.New()
			logger.Debug("generated run set id", "id", spec["id"], "name", spec["name"])
		}
		specs[i] = spec
		grafts[i] = rs.graft(g.node.Child(runSetsPath...).Index(i))
	}

	if err := g.node.Assign(runSetsPath, specs, grafts...); err != nil {
		return err
	}
	if open := g.OpenRunSet(); open >= len(specs) || open < 0 {
		return g.node.Set([]string{"metadata", "openRunSet"}, 0)
	}
	return nil
}

// Panels returns views over the grid's panels
func (g *PanelGrid) Panels() []Panel {
	count := g.node.Len(panelsPath...)
	out := make([]Panel, count)
	for i := range out {
		out[i] = panelAt(g.node.Child(panelsPath...).Index(i))
	}
	return out
}

// SetPanels replaces the grid's panels. Explicit layouts must not overlap,
// otherwise a *layout.CollisionError is returned and nothing is written.
// Panels without a layout are placed in the first free cells.
func (g *PanelGrid) SetPanels(panels ...Panel) error {
	placed, err := g.packer().Place(requestedLayouts(panels))
	if err != nil {
		return err
	}
	return g.writePanels(panels, placed)
}

// SetPanelsRepacked replaces the grid's panels, moving any panel whose layout
// overlaps an earlier one to the first free slot instead of failing
func (g *PanelGrid) SetPanelsRepacked(panels ...Panel) error {
	placed, moved := g.packer().Repack(requestedLayouts(panels))
	if len(moved) > 0 {
		logger.Debug("repacked panel layouts", "moved", len(moved), "panels", len(panels))
	}
	return g.writePanels(panels, placed)
}

func (g *PanelGrid) packer() layout.Packer {
	if g.report != nil {
		return g.report.Packer()
	}
	return layout.DefaultPacker()
}

func requestedLayouts(panels []Panel) []*types.Rect {
	out := make([]*types.Rect, len(panels))
	for i, p := range panels {
		if p == nil {
			continue
		}
		if r, ok := p.Layout(); ok {
			r := r
			out[i] = &r
		}
	}
	return out
}

func (g *PanelGrid) writePanels(panels []Panel, placed []types.Rect) error {
	if err := g.checkFragment(); err != nil {
		return err
	}
	specs := make([]interface{}, len(panels))
	grafts := make([]tree.Graft, len(panels))
	for i, p := range panels {
		if p == nil {
			return fmt.Errorf("panel %d is nil", i)
		}
		spec := p.Spec()
		spec["layout"] = placed[i].Map()
		specs[i] = spec
		grafts[i] = p.view().graft(g.node.Child(panelsPath...).Index(i))
	}
	return g.node.Assign(panelsPath, specs, grafts...)
}
