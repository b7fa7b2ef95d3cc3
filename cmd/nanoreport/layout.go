package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/nanoreport/layout"
	"github.com/arthur-debert/nanoreport/types"
)

// overlap is one pair of colliding panels
type overlap struct {
	Grid int    `json:"grid" yaml:"grid"`
	A    string `json:"a" yaml:"a"`
	B    string `json:"b" yaml:"b"`
}

// gridOverlaps finds the colliding panel pairs of a grid. Panels without a
// layout are skipped.
func gridOverlaps(gridIndex int, g *nanoreport.PanelGrid) []overlap {
	var placed []nanoreport.Panel
	var rects []types.Rect
	for _, p := range g.Panels() {
		if r, ok := p.Layout(); ok {
			placed = append(placed, p)
			rects = append(rects, r)
		}
	}
	var out []overlap
	for _, pair := range layout.Validate(rects) {
		out = append(out, overlap{Grid: gridIndex, A: placed[pair.A].ID(), B: placed[pair.B].ID()})
	}
	return out
}

func hasUnplaced(g *nanoreport.PanelGrid) bool {
	for _, p := range g.Panels() {
		if _, ok := p.Layout(); !ok {
			return true
		}
	}
	return false
}

func (cli *ReportCLI) addLayoutCommands() {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Check or repair the panel layout of a report's grids",
	}

	checkCmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Report panels whose layouts overlap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := cli.loadReport(cmd.Context(), "check layout", args[0])
			if err != nil {
				return err
			}
			var overlaps []overlap
			for i, g := range r.PanelGrids() {
				overlaps = append(overlaps, gridOverlaps(i, g)...)
			}
			if len(overlaps) == 0 {
				return cli.print(cmd, "No overlapping panels")
			}

			lines := make([]string, len(overlaps))
			for i, o := range overlaps {
				lines[i] = fmt.Sprintf("grid %d: panel %s overlaps panel %s", o.Grid, o.A, o.B)
			}
			return &CLIError{
				Operation:   "check layout",
				Cause:       fmt.Sprintf("%d overlapping panel pairs", len(overlaps)),
				Details:     strings.Join(lines, "; "),
				Suggestions: []string{CommonSuggestions.TryPack},
			}
		},
	}

	packCmd := &cobra.Command{
		Use:   "pack <name>",
		Short: "Move panels so that no two overlap",
		Long: `Move panels so that no two overlap. Panels that already fit keep their
place; the rest take the first free slot of the grid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			s, r, err := cli.loadReport(cmd.Context(), "pack layout", ref)
			if err != nil {
				return err
			}
			packed := 0
			for i, g := range r.PanelGrids() {
				if len(gridOverlaps(i, g)) == 0 && !hasUnplaced(g) {
					continue
				}
				if err := g.SetPanelsRepacked(g.Panels()...); err != nil {
					return WrapError("pack layout", err)
				}
				packed++
			}
			if packed == 0 {
				return cli.print(cmd, "Layout already fits")
			}
			logOperation("layout pack", ref, packed)
			return cli.saveReport(cmd, s, ref, r)
		},
	}

	layoutCmd.AddCommand(checkCmd, packCmd)
	cli.rootCmd.AddCommand(layoutCmd)
}
