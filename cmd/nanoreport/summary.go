package main

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanoreport/nanoreport"
)

// runSetInfo is one run set as shown by the show command
type runSetInfo struct {
	Grid    int      `json:"grid" yaml:"grid"`
	Index   int      `json:"index" yaml:"index"`
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Filters string   `json:"filters" yaml:"filters"`
	Order   []string `json:"order" yaml:"order"`
	GroupBy []string `json:"groupBy" yaml:"groupBy"`
}

// reportSummary is what the show command prints
type reportSummary struct {
	Ref       string       `json:"ref" yaml:"ref"`
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Entity    string       `json:"entity" yaml:"entity"`
	Project   string       `json:"project" yaml:"project"`
	Width     string       `json:"width" yaml:"width"`
	UpdatedAt string       `json:"updatedAt" yaml:"updatedAt"`
	Blocks    []string     `json:"blocks" yaml:"blocks"`
	RunSets   []runSetInfo `json:"runSets" yaml:"runSets"`
	Panels    int          `json:"panels" yaml:"panels"`
}

func summarizeReport(ref string, r *nanoreport.Report) reportSummary {
	s := reportSummary{
		Ref:       ref,
		ID:        r.ID(),
		Title:     r.Title(),
		Entity:    r.Entity(),
		Project:   r.Project(),
		Width:     r.Width(),
		UpdatedAt: r.UpdatedAt(),
		Blocks:    []string{},
		RunSets:   []runSetInfo{},
	}
	for _, b := range r.Blocks() {
		s.Blocks = append(s.Blocks, b.Type())
	}
	for i, g := range r.PanelGrids() {
		s.Panels += len(g.Panels())
		for j, rs := range g.RunSets() {
			expr, err := rs.FilterExpr()
			if err != nil {
				expr = "(not expressible)"
			}
			s.RunSets = append(s.RunSets, runSetInfo{
				Grid:    i,
				Index:   j,
				ID:      rs.ID(),
				Name:    rs.Name(),
				Filters: expr,
				Order:   rs.Order(),
				GroupBy: rs.GroupBy(),
			})
		}
	}
	return s
}

func (s reportSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", s.Title, s.Ref)
	fmt.Fprintf(&b, "  project: %s\n", strings.TrimPrefix(s.Entity+"/"+s.Project, "/"))
	if s.UpdatedAt != "" {
		fmt.Fprintf(&b, "  updated: %s\n", s.UpdatedAt)
	}
	fmt.Fprintf(&b, "  blocks:  %s\n", strings.Join(s.Blocks, ", "))
	fmt.Fprintf(&b, "  panels:  %d", s.Panels)
	for _, rs := range s.RunSets {
		fmt.Fprintf(&b, "\n  run set %d.%d %q", rs.Grid, rs.Index, rs.Name)
		if rs.Filters != "" {
			fmt.Fprintf(&b, "\n    filters:  %s", rs.Filters)
		}
		if len(rs.Order) > 0 {
			fmt.Fprintf(&b, "\n    order:    %s", strings.Join(rs.Order, " "))
		}
		if len(rs.GroupBy) > 0 {
			fmt.Fprintf(&b, "\n    group by: %s", strings.Join(rs.GroupBy, ", "))
		}
	}
	return b.String()
}
