package nanoreport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LineKey identifies one plotted series: a single run, a run set aggregate
// grouped by the panel, or a run set aggregate grouped by the run set
type LineKey string

// LineKeyFromRun keys the series of metric for one run
func LineKeyFromRun(runID, metric string) LineKey {
	return LineKey(runID + ":" + metric)
}

// LineKeyFromPanelAgg keys the series of metric aggregated by the panel's groupby
func LineKeyFromPanelAgg(rs *RunSet, panel *LinePlot, metric string) LineKey {
	groupby := panel.GroupBy()
	if groupby == "" {
		groupby = "null"
	}
	return LineKey(fmt.Sprintf("%s-config:group:%s:null:%s", rs.ID(), groupby, metric))
}

// LineKeyFromRunSetAgg keys the series of metric aggregated by the run set's grouping
func LineKeyFromRunSetAgg(rs *RunSet, metric string) LineKey {
	groupby := "null"
	if tokens := rs.GroupBy(); len(tokens) > 0 {
		groupby = strings.Join(tokens, ",")
	}
	return LineKey(fmt.Sprintf("%s-run:group:%s:%s", rs.ID(), groupby, metric))
}

func (k LineKey) String() string {
	return string(k)
}

// RGBA is a series color. Alpha is in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// String renders the CSS form used in overrides, e.g. "rgba(255, 0, 0, 1)"
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Transparent returns the color at the alpha used for confidence areas
func (c RGBA) Transparent() RGBA {
	c.A = 0.1
	return c
}

// Map returns the override form of the color
func (c RGBA) Map() map[string]interface{} {
	return map[string]interface{}{
		"color":            c.String(),
		"transparentColor": c.Transparent().String(),
	}
}

// ParseRGBA reads the CSS rgba() or rgb() form
func ParseRGBA(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return RGBA{}, fmt.Errorf("invalid color %q: want rgba(r, g, b, a)", s)
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, fmt.Errorf("invalid color %q: want 3 or 4 components", s)
	}
	var c RGBA
	for i, channel := range []*uint8{&c.R, &c.G, &c.B} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return RGBA{}, fmt.Errorf("invalid color %q: component %d must be 0-255", s, i)
		}
		*channel = uint8(v)
	}
	c.A = 1
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || math.IsNaN(a) || a < 0 || a > 1 {
			return RGBA{}, fmt.Errorf("invalid color %q: alpha must be in [0, 1]", s)
		}
		c.A = a
	}
	return c, nil
}

// colorFrom accepts an RGBA, its CSS string or its override form
func colorFrom(v interface{}) (RGBA, error) {
	switch t := v.(type) {
	case RGBA:
		return t, nil
	case *RGBA:
		if t == nil {
			return RGBA{}, fmt.Errorf("color is nil")
		}
		return *t, nil
	case string:
		return ParseRGBA(t)
	case map[string]interface{}:
		s, ok := t["color"].(string)
		if !ok {
			return RGBA{}, fmt.Errorf("color override has no color")
		}
		return ParseRGBA(s)
	}
	return RGBA{}, fmt.Errorf("cannot use %T as a color", v)
}
