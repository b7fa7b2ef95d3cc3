package nanoreport

import (
	"fmt"

	"github.com/arthur-debert/nanoreport/internal/validation"
	"github.com/arthur-debert/nanoreport/nanoreport/attr"
	"github.com/arthur-debert/nanoreport/nanoreport/tree"
)

var (
	aggFuncs    = []string{"mean", "min", "max", "median", "sum", "samples"}
	rangeFuncs  = []string{"minmax", "stddev", "stderr", "none", "samples"}
	fontSizes   = []string{"small", "medium", "large", "auto"}
	lineMarks   = []string{"solid", "dashed", "dotted", "dotdash", "dotdotdash"}
	legendSides = []string{"north", "south", "east", "west"}
)

// configField declares a field stored under the panel config
func configField(name, key string, kind attr.Kind, checks ...validation.Check) attr.Field {
	validators := make([]attr.Validator, len(checks))
	for i, c := range checks {
		validators[i] = attr.Check(c)
	}
	return attr.Field{
		Name:       name,
		Path:       []string{"config", key},
		Kind:       kind,
		Nullable:   true,
		Validators: validators,
	}
}

// rangeField stores a [min, max] pair as two config keys written together
func rangeField(name, minKey, maxKey string) attr.Field {
	return attr.Field{
		Name:     name,
		Kind:     attr.List,
		Nullable: true,
		Validators: []attr.Validator{attr.Check(func(value interface{}) error {
			bounds, _ := tree.Normalize(value).([]interface{})
			if len(bounds) != 2 {
				return fmt.Errorf("must be a [min, max] pair")
			}
			for _, b := range bounds {
				if _, ok := validation.AsFloat(b); b != nil && !ok {
					return fmt.Errorf("bounds must be numbers or null, got %T", b)
				}
			}
			return nil
		})},
		Get: func(n *tree.Node) (interface{}, error) {
			lo, _ := n.Get("config", minKey)
			hi, _ := n.Get("config", maxKey)
			return []interface{}{tree.Copy(lo), tree.Copy(hi)}, nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			var lo, hi interface{}
			if bounds, ok := tree.Normalize(value).([]interface{}); ok {
				lo, hi = bounds[0], bounds[1]
			}
			if err := n.Set([]string{"config", minKey}, lo); err != nil {
				return err
			}
			return n.Set([]string{"config", maxKey}, hi)
		},
	}
}

// colorsField stores per-series colors in their override form
func colorsField(name, key string) attr.Field {
	return attr.Field{
		Name:     name,
		Path:     []string{"config", key},
		Kind:     attr.Object,
		Nullable: true,
		Validators: []attr.Validator{attr.Check(validation.EachValue(func(v interface{}) error {
			_, err := colorFrom(v)
			return err
		}))},
		Encode: func(value interface{}) (interface{}, error) {
			return encodeColors(value)
		},
	}
}

func encodeColors(value interface{}) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	switch t := value.(type) {
	case map[LineKey]RGBA:
		for k, c := range t {
			out[string(k)] = c.Map()
		}
		return out, nil
	case map[string]RGBA:
		for k, c := range t {
			out[k] = c.Map()
		}
		return out, nil
	}
	m, ok := tree.Normalize(value).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("colors must be a mapping, got %T", value)
	}
	for k, v := range m {
		c, err := colorFrom(v)
		if err != nil {
			return nil, fmt.Errorf("color for %s: %w", k, err)
		}
		out[k] = c.Map()
	}
	return out, nil
}

var linePlotSchema = panelSchema.Extend("line plot",
	configField("title", "chartTitle", attr.String),
	configField("x", "xAxis", attr.String),
	configField("y", "metrics", attr.List, validation.Each(validation.IsString())),
	rangeField("range_x", "xAxisMin", "xAxisMax"),
	rangeField("range_y", "yAxisMin", "yAxisMax"),
	configField("log_x", "xLogScale", attr.Bool),
	configField("log_y", "yLogScale", attr.Bool),
	configField("title_x", "xAxisTitle", attr.String),
	configField("title_y", "yAxisTitle", attr.String),
	configField("ignore_outliers", "ignoreOutliers", attr.Bool),
	configField("groupby", "groupBy", attr.String),
	configField("groupby_aggfunc", "groupAgg", attr.String, validation.OneOf(aggFuncs...)),
	configField("groupby_rangefunc", "groupArea", attr.String, validation.OneOf(rangeFuncs...)),
	configField("smoothing_factor", "smoothingWeight", attr.Number, validation.FloatRange(0, 1)),
	configField("smoothing_type", "smoothingType", attr.String, validation.OneOf("exponential", "gaussian", "average", "none")),
	configField("smoothing_show_original", "showOriginalAfterSmoothing", attr.Bool),
	configField("max_runs_to_show", "limit", attr.Int, validation.NonNegative()),
	configField("plot_type", "plotType", attr.String, validation.OneOf("line", "stacked-area", "pct-area")),
	configField("font_size", "fontSize", attr.String, validation.OneOf(fontSizes...)),
	configField("legend_position", "legendPosition", attr.String, validation.OneOf(legendSides...)),
	configField("legend_template", "legendTemplate", attr.String),
	configField("line_titles", "overrideSeriesTitles", attr.Object, validation.EachValue(validation.IsString())),
	colorsField("line_colors", "overrideColors"),
	configField("line_widths", "overrideLineWidths", attr.Object, validation.EachValue(validation.NonNegative())),
	configField("line_marks", "overrideMarks", attr.Object, validation.EachValue(validation.OneOf(lineMarks...))),
)

// LinePlot plots metrics over a step, time or custom x axis
type LinePlot struct{ panelBase }

// NewLinePlot creates a line plot of metrics without a layout
func NewLinePlot(metrics ...string) *LinePlot {
	p := &LinePlot{panelBase: newPanelBase(linePlotSchema, newPanelNode(ViewLinePlot))}
	if len(metrics) > 0 {
		_ = p.Set("y", metrics)
		p.node.Document().ClearModified()
	}
	return p
}

func (p *LinePlot) Title() string   { return p.str("title") }
func (p *LinePlot) X() string       { return p.str("x") }
func (p *LinePlot) Y() []string     { return p.strs("y") }
func (p *LinePlot) GroupBy() string { return p.str("groupby") }

func (p *LinePlot) SmoothingFactor() float64 { return p.number("smoothing_factor") }

// LineTitles returns the per-series title overrides
func (p *LinePlot) LineTitles() map[LineKey]string {
	out := map[LineKey]string{}
	for k, v := range p.node.Child("config", "overrideSeriesTitles").Map() {
		if s, ok := v.(string); ok {
			out[LineKey(k)] = s
		}
	}
	return out
}

// SetLineTitles replaces the per-series title overrides
func (p *LinePlot) SetLineTitles(titles map[LineKey]string) error {
	return p.Set("line_titles", titles)
}

// LineColors returns the per-series color overrides, skipping unreadable ones
func (p *LinePlot) LineColors() map[LineKey]RGBA {
	out := map[LineKey]RGBA{}
	for k, v := range p.node.Child("config", "overrideColors").Map() {
		if c, err := colorFrom(v); err == nil {
			out[LineKey(k)] = c
		}
	}
	return out
}

// SetLineColors replaces the per-series color overrides
func (p *LinePlot) SetLineColors(colors map[LineKey]RGBA) error {
	return p.Set("line_colors", colors)
}

// LineWidths returns the per-series width overrides
func (p *LinePlot) LineWidths() map[LineKey]float64 {
	out := map[LineKey]float64{}
	for k, v := range p.node.Child("config", "overrideLineWidths").Map() {
		if f, ok := validation.AsFloat(v); ok {
			out[LineKey(k)] = f
		}
	}
	return out
}

// SetLineWidths replaces the per-series width overrides
func (p *LinePlot) SetLineWidths(widths map[LineKey]float64) error {
	return p.Set("line_widths", widths)
}

// LineMarks returns the per-series dash style overrides
func (p *LinePlot) LineMarks() map[LineKey]string {
	out := map[LineKey]string{}
	for k, v := range p.node.Child("config", "overrideMarks").Map() {
		if s, ok := v.(string); ok {
			out[LineKey(k)] = s
		}
	}
	return out
}

// SetLineMarks replaces the per-series dash style overrides
func (p *LinePlot) SetLineMarks(marks map[LineKey]string) error {
	return p.Set("line_marks", marks)
}

var barPlotSchema = panelSchema.Extend("bar plot",
	configField("title", "chartTitle", attr.String),
	configField("metrics", "metrics", attr.List, validation.Each(validation.IsString())),
	configField("vertical", "vertical", attr.Bool),
	configField("max_runs_to_show", "limit", attr.Int, validation.NonNegative()),
	configField("groupby", "groupBy", attr.String),
	configField("groupby_aggfunc", "groupAgg", attr.String, validation.OneOf(aggFuncs...)),
	configField("groupby_rangefunc", "groupArea", attr.String, validation.OneOf(rangeFuncs...)),
	configField("font_size", "fontSize", attr.String, validation.OneOf(fontSizes...)),
	configField("line_titles", "overrideSeriesTitles", attr.Object, validation.EachValue(validation.IsString())),
	colorsField("line_colors", "overrideColors"),
)

// BarPlot compares the latest value of metrics across runs
type BarPlot struct{ panelBase }

// NewBarPlot creates a bar plot of metrics without a layout
func NewBarPlot(metrics ...string) *BarPlot {
	p := &BarPlot{panelBase: newPanelBase(barPlotSchema, newPanelNode(ViewBarPlot))}
	if len(metrics) > 0 {
		_ = p.Set("metrics", metrics)
		p.node.Document().ClearModified()
	}
	return p
}

func (p *BarPlot) Title() string     { return p.str("title") }
func (p *BarPlot) Metrics() []string { return p.strs("metrics") }
func (p *BarPlot) Vertical() bool    { return p.boolean("vertical") }

var scalarChartSchema = panelSchema.Extend("scalar chart",
	configField("title", "chartTitle", attr.String),
	attr.Field{
		Name:     "metric",
		Kind:     attr.String,
		Nullable: true,
		Get: func(n *tree.Node) (interface{}, error) {
			v, _ := n.Get("config", "metrics", "0")
			s, _ := v.(string)
			return s, nil
		},
		Set: func(n *tree.Node, value interface{}) error {
			if value == nil {
				return n.Set([]string{"config", "metrics"}, []interface{}{})
			}
			return n.Set([]string{"config", "metrics"}, []interface{}{value})
		},
	},
	configField("groupby_aggfunc", "groupAgg", attr.String, validation.OneOf(aggFuncs...)),
	configField("groupby_rangefunc", "groupArea", attr.String, validation.OneOf(rangeFuncs...)),
	configField("legend_template", "legendTemplate", attr.String),
	configField("font_size", "fontSize", attr.String, validation.OneOf(fontSizes...)),
)

// ScalarChart shows a single aggregated number
type ScalarChart struct{ panelBase }

// NewScalarChart creates a scalar chart of metric without a layout
func NewScalarChart(metric string) *ScalarChart {
	p := &ScalarChart{panelBase: newPanelBase(scalarChartSchema, newPanelNode(ViewScalarChart))}
	if metric != "" {
		_ = p.Set("metric", metric)
		p.node.Document().ClearModified()
	}
	return p
}

func (p *ScalarChart) Title() string  { return p.str("title") }
func (p *ScalarChart) Metric() string { return p.str("metric") }

var scatterPlotSchema = panelSchema.Extend("scatter plot",
	configField("title", "chartTitle", attr.String),
	configField("x", "xAxis", attr.String),
	configField("y", "yAxis", attr.String),
	configField("z", "zAxis", attr.String),
	rangeField("range_x", "xAxisMin", "xAxisMax"),
	rangeField("range_y", "yAxisMin", "yAxisMax"),
	configField("log_x", "xAxisLogScale", attr.Bool),
	configField("log_y", "yAxisLogScale", attr.Bool),
)

// ScatterPlot plots one metric against another across runs
type ScatterPlot struct{ panelBase }

// NewScatterPlot creates a scatter plot of y against x without a layout
func NewScatterPlot(x, y string) *ScatterPlot {
	p := &ScatterPlot{panelBase: newPanelBase(scatterPlotSchema, newPanelNode(ViewScatterPlot))}
	_ = p.node.Set([]string{"config", "xAxis"}, x)
	_ = p.node.Set([]string{"config", "yAxis"}, y)
	p.node.Document().ClearModified()
	return p
}

func (p *ScatterPlot) Title() string { return p.str("title") }
func (p *ScatterPlot) X() string     { return p.str("x") }
func (p *ScatterPlot) Y() string     { return p.str("y") }
func (p *ScatterPlot) Z() string     { return p.str("z") }

var markdownPanelSchema = panelSchema.Extend("markdown panel",
	configField("markdown", "value", attr.String),
)

// MarkdownPanel renders markdown inside the grid
type MarkdownPanel struct{ panelBase }

// NewMarkdownPanel creates a markdown panel without a layout
func NewMarkdownPanel(markdown string) *MarkdownPanel {
	node := newPanelNode(ViewMarkdownPanel)
	_ = node.Set([]string{"config", "value"}, markdown)
	node.Document().ClearModified()
	return &MarkdownPanel{panelBase: newPanelBase(markdownPanelSchema, node)}
}

func (p *MarkdownPanel) Markdown() string { return p.str("markdown") }
