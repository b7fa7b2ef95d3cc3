package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/types"
)

// addRunSetFlags adds the flags selecting which run set a command edits
func addRunSetFlags(flags *pflag.FlagSet) {
	flags.Int("grid", 0, "Index of the panel grid among the report's grids")
	flags.Int("run-set", -1, "Index of the run set in the grid (default: the grid's open run set)")
}

// selectRunSet returns the run set chosen by --grid and --run-set
func selectRunSet(flags *pflag.FlagSet, operation string, r *nanoreport.Report) (*nanoreport.RunSet, error) {
	gridIndex, _ := flags.GetInt("grid")
	runSetIndex, _ := flags.GetInt("run-set")

	grids := r.PanelGrids()
	if gridIndex < 0 || gridIndex >= len(grids) {
		return nil, &CLIError{
			Operation:   operation,
			Cause:       fmt.Sprintf("panel grid %d not found (report has %d)", gridIndex, len(grids)),
			Suggestions: []string{"Add a grid with 'nanoreport add <name> grid'"},
		}
	}
	grid := grids[gridIndex]
	if runSetIndex < 0 {
		runSetIndex = grid.OpenRunSet()
	}
	runSets := grid.RunSets()
	if runSetIndex >= len(runSets) {
		return nil, &CLIError{
			Operation: operation,
			Cause:     fmt.Sprintf("run set %d not found (grid %d has %d)", runSetIndex, gridIndex, len(runSets)),
		}
	}
	return runSets[runSetIndex], nil
}

// runSetFilters is what filter show prints
type runSetFilters struct {
	RunSet     string                 `json:"runSet" yaml:"runSet"`
	Expression string                 `json:"expression" yaml:"expression"`
	Operators  map[string]interface{} `json:"operators" yaml:"operators"`
}

func (f runSetFilters) String() string {
	if f.Expression == "" {
		return fmt.Sprintf("%s: no filters", f.RunSet)
	}
	return fmt.Sprintf("%s: %s", f.RunSet, f.Expression)
}

func (cli *ReportCLI) addFilterCommands() {
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the filters of a run set",
	}

	setCmd := &cobra.Command{
		Use:   "set <name> <expression>",
		Short: "Replace a run set's filters with a compiled expression",
		Long: `Replace a run set's filters with a compiled expression.

Examples:
  nanoreport filter set results 'State == "finished" and loss < 0.5'
  nanoreport filter set results 'User in ["alice", "bob"]' --grid 1 --run-set 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, expr := args[0], args[1]
			s, r, err := cli.loadReport(cmd.Context(), "set filters", ref)
			if err != nil {
				return err
			}
			rs, err := selectRunSet(cmd.Flags(), "set filters", r)
			if err != nil {
				return err
			}
			if err := rs.SetFiltersWithExpr(expr); err != nil {
				return NewFilterError("set filters", expr, err)
			}
			logOperation("filter set", ref, rs.ID(), expr)
			return cli.saveReport(cmd, s, ref, r)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a run set's filters as an expression and in operator form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := cli.loadReport(cmd.Context(), "show filters", args[0])
			if err != nil {
				return err
			}
			rs, err := selectRunSet(cmd.Flags(), "show filters", r)
			if err != nil {
				return err
			}
			expr, err := rs.FilterExpr()
			if err != nil {
				return WrapError("show filters", err)
			}
			ot, err := rs.OperatorFilters()
			if err != nil {
				return WrapError("show filters", err)
			}
			return cli.print(cmd, runSetFilters{RunSet: rs.Name(), Expression: expr, Operators: ot.Map()})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <name>",
		Short: "Remove every filter of a run set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, r, err := cli.loadReport(cmd.Context(), "clear filters", args[0])
			if err != nil {
				return err
			}
			rs, err := selectRunSet(cmd.Flags(), "clear filters", r)
			if err != nil {
				return err
			}
			if err := rs.SetFilters(types.EmptyFilterTree()); err != nil {
				return WrapError("clear filters", err)
			}
			logOperation("filter clear", args[0], rs.ID())
			return cli.saveReport(cmd, s, args[0], r)
		},
	}

	for _, cmd := range []*cobra.Command{setCmd, showCmd, clearCmd} {
		addRunSetFlags(cmd.Flags())
		filterCmd.AddCommand(cmd)
	}
	cli.rootCmd.AddCommand(filterCmd)
}

// addColumnsCommand builds the order and group commands, which share a shape:
// no tokens shows the current columns, tokens replace them
func (cli *ReportCLI) addColumnsCommand(use, short, example string, get func(*nanoreport.RunSet) []string, set func(*nanoreport.RunSet, ...string) error) {
	cmd := &cobra.Command{
		Use:   use + " [flags] <name> [columns...]",
		Short: short,
		Long: short + ".\n\nFlags go before <name>: everything after it is a column, " +
			"so descending columns can be written as -Column.\n\nExamples:\n" + example,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, tokens := args[0], args[1:]
			operation := "set " + use
			if len(tokens) == 0 {
				operation = "show " + use
			}
			s, r, err := cli.loadReport(cmd.Context(), operation, ref)
			if err != nil {
				return err
			}
			rs, err := selectRunSet(cmd.Flags(), operation, r)
			if err != nil {
				return err
			}
			if len(tokens) == 0 {
				if cli.viperInst.GetString("format") == "text" {
					return cli.print(cmd, joinColumns(get(rs)))
				}
				return cli.print(cmd, get(rs))
			}
			if err := set(rs, tokens...); err != nil {
				return WrapError(operation, err, "Columns are run fields (State, User, ...), summary metrics or section:name")
			}
			logOperation(use, ref, rs.ID(), tokens)
			return cli.saveReport(cmd, s, ref, r)
		},
	}
	addRunSetFlags(cmd.Flags())
	// columns such as -Runtime are not flags
	cmd.Flags().SetInterspersed(false)
	cli.rootCmd.AddCommand(cmd)
}

func (cli *ReportCLI) addOrderCommand() {
	cli.addColumnsCommand("order", "Show or replace the sort order of a run set",
		"  nanoreport order results -CreatedTimestamp +loss\n  nanoreport order --run-set 1 results -Runtime",
		(*nanoreport.RunSet).Order, (*nanoreport.RunSet).SetOrder)
}

func (cli *ReportCLI) addGroupCommand() {
	cli.addColumnsCommand("group", "Show or replace the grouping of a run set",
		"  nanoreport group results User config:lr",
		(*nanoreport.RunSet).GroupBy, (*nanoreport.RunSet).SetGroupBy)
}

func joinColumns(tokens []string) string {
	if len(tokens) == 0 {
		return "(none)"
	}
	return strings.Join(tokens, " ")
}
