package formats

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

var titleCaser = cases.Title(language.Und)

// blockLabel turns a block type such as "code-block" into "Code Block"
func blockLabel(b nanoreport.Block) string {
	if h, ok := b.(*nanoreport.Heading); ok {
		return fmt.Sprintf("Heading %d", h.Level())
	}
	if _, ok := b.(*nanoreport.InlineLaTeX); ok {
		return "Inline LaTeX"
	}
	return titleCaser.String(strings.ReplaceAll(b.Type(), "-", " "))
}

// runSetSummary is one line of text per run set field worth showing
type runSetSummary struct {
	Name    string
	Project string
	Filters string
	Order   string
	GroupBy string
}

func summarizeRunSet(rs *nanoreport.RunSet) runSetSummary {
	filters, err := rs.FilterExpr()
	if err != nil {
		filters = "(not expressible)"
	}
	return runSetSummary{
		Name:    rs.Name(),
		Project: strings.TrimPrefix(rs.Entity()+"/"+rs.Project(), "/"),
		Filters: filters,
		Order:   strings.Join(rs.Order(), " "),
		GroupBy: strings.Join(rs.GroupBy(), ", "),
	}
}

// panelTitle returns the chart title of panels that have one
func panelTitle(p nanoreport.Panel) string {
	v, err := p.Get("title")
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func panelLayout(p nanoreport.Panel) string {
	r, ok := p.Layout()
	if !ok {
		return "unplaced"
	}
	return fmt.Sprintf("x=%d y=%d w=%d h=%d", r.X, r.Y, r.W, r.H)
}

// prefixLines prepends prefix to every line of s
func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(prefix+line, " ")
	}
	return strings.Join(lines, "\n")
}
