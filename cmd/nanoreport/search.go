package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoreport/search"
)

// searchResults prints one line per matching field in text mode
type searchResults []search.Result

func (rs searchResults) String() string {
	if len(rs) == 0 {
		return "No matches"
	}
	var b strings.Builder
	for i, r := range rs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s (%.2f)", r.Ref, r.Title, r.Score)
		for _, m := range r.Matches {
			text := m.Highlighted
			if text == "" {
				text = m.Text
			}
			fmt.Fprintf(&b, "\n  %s [%s]: %s", m.Field, m.Kind, strings.ReplaceAll(text, "\n", " "))
		}
	}
	return b.String()
}

func (cli *ReportCLI) addSearchCommand() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find text in the reports of the report directory",
		Long: `Find text in report titles, descriptions, block text and run set filters.

Examples:
  nanoreport search loss
  nanoreport search "State ==" --kind run-set
  nanoreport search Results --kind title --exact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			kinds, _ := cmd.Flags().GetStringSlice("kind")
			exact, _ := cmd.Flags().GetBool("exact")
			caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
			limit, _ := cmd.Flags().GetInt("limit")

			results, err := search.SearchStore(cmd.Context(), s, search.Options{
				Query:           args[0],
				Kinds:           kinds,
				ExactMatch:      exact,
				CaseSensitive:   caseSensitive,
				EnableHighlight: true,
				MaxResults:      limit,
			})
			if err != nil {
				return WrapError("search reports", err, CommonSuggestions.CheckDir)
			}
			logOperation("search", "", args[0], len(results))
			return cli.print(cmd, searchResults(results))
		},
	}
	cmd.Flags().StringSlice("kind", nil, "Only search these kinds (title, description, run-set or a block type)")
	cmd.Flags().Bool("exact", false, "Match whole fields only")
	cmd.Flags().Bool("case-sensitive", false, "Match case")
	cmd.Flags().Int("limit", 0, "Maximum number of reports to list (0 for all)")
	cli.rootCmd.AddCommand(cmd)
}
