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

// View types of the panels this package models
const (
	ViewLinePlot      = "Run History Line Plot"
	ViewBarPlot       = "Bar Chart"
	ViewScalarChart   = "Scalar Chart"
	ViewScatterPlot   = "Scatter Plot"
	ViewMarkdownPanel = "Markdown Panel"
)

// Panel is one visualization of a panel grid
type Panel interface {
	ID() string
	ViewType() string
	Node() *tree.Node
	Spec() map[string]interface{}
	Modified() bool
	Fields() []string
	Get(field string) (interface{}, error)
	Set(field string, value interface{}) error

	// Layout returns the grid rectangle of the panel, if it has one
	Layout() (types.Rect, bool)
	SetLayout(r types.Rect) error
	ClearLayout() error

	view() *entity
}

var panelSchema = attr.NewSchema("panel",
	attr.Field{Name: "id", Path: []string{"__id__"}, Kind: attr.String, ReadOnly: true},
	attr.Field{Name: "view_type", Path: []string{"viewType"}, Kind: attr.String, ReadOnly: true},
	attr.Field{
		Name:     "layout",
		Kind:     attr.Object,
		Nullable: true,
		Validators: []attr.Validator{attr.Check(func(value interface{}) error {
			r, err := rectFrom(tree.Normalize(value))
			if err != nil {
				return err
			}
			return layout.CheckRect(r)
		})},
		Set: func(n *tree.Node, value interface{}) error {
			if value == nil {
				return n.Delete("layout")
			}
			r, _ := rectFrom(tree.Normalize(value))
			return n.Set([]string{"layout"}, r.Map())
		},
	},
)

// panelBase carries the methods shared by every panel kind
type panelBase struct {
	entity
}

func newPanelBase(schema *attr.Schema, n *tree.Node) panelBase {
	return panelBase{entity: newEntity(schema, n)}
}

// ID returns the panel's __id__
func (p *panelBase) ID() string { return p.str("id") }

// ViewType returns the panel's view type
func (p *panelBase) ViewType() string { return p.str("view_type") }

func (p *panelBase) Layout() (types.Rect, bool) {
	v, ok := p.node.Get("layout")
	if !ok || v == nil {
		return types.Rect{}, false
	}
	r, err := rectFrom(v)
	if err != nil {
		return types.Rect{}, false
	}
	return r, true
}

func (p *panelBase) SetLayout(r types.Rect) error {
	return p.Set("layout", r)
}

func (p *panelBase) ClearLayout() error {
	return p.Set("layout", nil)
}

func (p *panelBase) view() *entity {
	return &p.entity
}

// PanelsCollide reports whether two distinct panels overlap. A panel never
// collides with itself, and panels without a layout collide with nothing.
func PanelsCollide(a, b Panel) bool {
	if a.ID() != "" && a.ID() == b.ID() {
		return false
	}
	ra, okA := a.Layout()
	rb, okB := b.Layout()
	if !okA || !okB {
		return false
	}
	return layout.Collides(ra, rb)
}

// PanelFromSpec builds a detached panel owning a copy of spec
func PanelFromSpec(spec map[string]interface{}) (Panel, error) {
	if spec == nil {
		return nil, fmt.Errorf("panel spec is nil")
	}
	if _, ok := spec["viewType"].(string); !ok {
		return nil, fmt.Errorf("panel spec has no viewType: %v", spec)
	}
	return panelAt(tree.New(spec).Root()), nil
}

func panelAt(n *tree.Node) Panel {
	vt, _ := n.Get("viewType")
	switch vt {
	case ViewLinePlot:
		return &LinePlot{panelBase: newPanelBase(linePlotSchema, n)}
	case ViewBarPlot:
		return &BarPlot{panelBase: newPanelBase(barPlotSchema, n)}
	case ViewScalarChart:
		return &ScalarChart{panelBase: newPanelBase(scalarChartSchema, n)}
	case ViewScatterPlot:
		return &ScatterPlot{panelBase: newPanelBase(scatterPlotSchema, n)}
	case ViewMarkdownPanel:
		return &MarkdownPanel{panelBase: newPanelBase(markdownPanelSchema, n)}
	}
	return &RawPanel{panelBase: newPanelBase(panelSchema, n)}
}

func newPanelNode(viewType string) *tree.Node {
	return tree.New(map[string]interface{}{
		"__id__":   ids.New(),
		"viewType": viewType,
		"config":   map[string]interface{}{},
	}).Root()
}

// rectFrom decodes a layout object with non-negative integer x, y, w and h
func rectFrom(v interface{}) (types.Rect, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return types.Rect{}, fmt.Errorf("layout must be an object, got %T", v)
	}
	var r types.Rect
	for _, f := range []struct {
		name string
		dst  *int
	}{{"x", &r.X}, {"y", &r.Y}, {"w", &r.W}, {"h", &r.H}} {
		n, ok := validation.AsInt(m[f.name])
		if !ok {
			return types.Rect{}, fmt.Errorf("layout %s must be an integer, got %v", f.name, m[f.name])
		}
		*f.dst = n
	}
	return r, nil
}

// RawPanel preserves a panel of a view type this package does not model
type RawPanel struct{ panelBase }

// NewRawPanel wraps an arbitrary panel spec, assigning an __id__ when missing
func NewRawPanel(spec map[string]interface{}) (*RawPanel, error) {
	if _, ok := spec["viewType"].(string); !ok {
		return nil, fmt.Errorf("panel spec has no viewType: %v", spec)
	}
	spec = tree.CopyMap(spec)
	if _, ok := spec["__id__"]; !ok {
		spec["__id__"] = ids.New()
	}
	return &RawPanel{panelBase: newPanelBase(panelSchema, tree.New(spec).Root())}, nil
}
