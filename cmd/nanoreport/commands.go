package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanoreport/formats"
	"github.com/arthur-debert/nanoreport/nanoreport"
	"github.com/arthur-debert/nanoreport/nanoreport/filter"
	"github.com/arthur-debert/nanoreport/nanoreport/store"
)

// loadReport opens the report stored under ref
func (cli *ReportCLI) loadReport(ctx context.Context, operation, ref string) (*store.FileStore, *nanoreport.Report, error) {
	s, err := cli.openStore()
	if err != nil {
		return nil, nil, err
	}
	r, err := nanoreport.Open(ctx, s, ref)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, NewNotFoundError(operation, "report", ref, CommonSuggestions.CheckRef, CommonSuggestions.CheckDir)
		}
		if errors.Is(err, store.ErrInvalidRef) {
			return nil, nil, &CLIError{
				Operation:   operation,
				Cause:       fmt.Sprintf("invalid report name %q", ref),
				Suggestions: []string{"Report names are file names without directories"},
				Underlying:  err,
			}
		}
		return nil, nil, WrapError(operation, err, CommonSuggestions.CheckDir)
	}
	r.SetPacker(cli.packer())
	return s, r, nil
}

// saveReport stores the report unless --dry-run is set
func (cli *ReportCLI) saveReport(cmd *cobra.Command, s *store.FileStore, ref string, r *nanoreport.Report) error {
	if cli.viperInst.GetBool("dry-run") {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "(DRY RUN - %s not saved)\n", ref)
		return err
	}
	if err := r.Save(cmd.Context(), s, ref); err != nil {
		return WrapError("save report", err, CommonSuggestions.CheckDir, CommonSuggestions.TryDryRun)
	}
	return nil
}

// addConfigCommand shows the effective configuration
func (cli *ReportCLI) addConfigCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.print(cmd, cli.viperInst.AllSettings())
		},
	})
}

func (cli *ReportCLI) addListCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the reports in the report directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			refs, err := s.List()
			if err != nil {
				return WrapError("list reports", err, CommonSuggestions.CheckDir)
			}
			if cli.viperInst.GetString("format") == "text" {
				return cli.print(cmd, strings.Join(refs, "\n"))
			}
			if refs == nil {
				refs = []string{}
			}
			return cli.print(cmd, refs)
		},
	})
}

// addCompileCommand compiles a filter expression without touching a report
func (cli *ReportCLI) addCompileCommand() {
	cmd := &cobra.Command{
		Use:   "compile <expression>",
		Short: "Compile a filter expression to its filter tree",
		Long: `Compile a filter expression and print the filter tree it produces.

Examples:
  nanoreport compile 'State == "finished" and loss < 0.5'
  nanoreport compile --operators 'User in ["a", "b"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := filter.Compile(args[0])
			if err != nil {
				return NewFilterError("compile filter", args[0], err)
			}
			logOperation("compile", "", args[0])

			if operators, _ := cmd.Flags().GetBool("operators"); operators {
				ot, err := filter.ToOperatorTree(ft)
				if err != nil {
					return NewFilterError("compile filter", args[0], err)
				}
				return cli.print(cmd, ot.Map())
			}
			return cli.print(cmd, ft.Map())
		},
	}
	cmd.Flags().Bool("operators", false, "Print the query-operator form instead")
	cli.rootCmd.AddCommand(cmd)
}

func (cli *ReportCLI) addNewCommand() {
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty report",
		Long: `Create an empty report owned by --entity in --project.

Examples:
  nanoreport new results --project report-editing --title "Results"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			s, err := cli.openStore()
			if err != nil {
				return err
			}
			if force, _ := cmd.Flags().GetBool("force"); !force && s.Exists(ref) {
				return &CLIError{
					Operation:   "create report",
					Cause:       fmt.Sprintf("report %q already exists", ref),
					Suggestions: []string{"Use --force to replace it"},
				}
			}

			r, err := nanoreport.NewReport(cli.viperInst.GetString("entity"), cli.viperInst.GetString("project"))
			if err != nil {
				return WrapError("create report", err, "Use --project or NANOREPORT_PROJECT to name the project")
			}
			if title, _ := cmd.Flags().GetString("title"); title != "" {
				if err := r.SetTitle(title); err != nil {
					return WrapError("create report", err)
				}
			}
			if desc, _ := cmd.Flags().GetString("description"); desc != "" {
				if err := r.SetDescription(desc); err != nil {
					return WrapError("create report", err)
				}
			}
			logOperation("new", ref, r.Entity(), r.Project())
			return cli.saveReport(cmd, s, ref, r)
		},
	}
	cmd.Flags().String("title", "", "Report title")
	cmd.Flags().String("description", "", "Report description")
	cmd.Flags().Bool("force", false, "Replace an existing report")
	cli.rootCmd.AddCommand(cmd)
}

func (cli *ReportCLI) addShowCommand() {
	cli.rootCmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a report's blocks and run sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := cli.loadReport(cmd.Context(), "show report", args[0])
			if err != nil {
				return err
			}
			return cli.print(cmd, summarizeReport(args[0], r))
		},
	})
}

func (cli *ReportCLI) addRenderCommand() {
	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a report as a text document",
		Long: fmt.Sprintf(`Render a report as a text document.

Available formats: %s`, strings.Join(formats.List(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("as")
			format, err := formats.Get(name)
			if err != nil {
				return &CLIError{Operation: "render report", Cause: err.Error()}
			}
			_, r, err := cli.loadReport(cmd.Context(), "render report", args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), format.Render(r))
			return err
		},
	}
	cmd.Flags().String("as", "markdown", "Document format")
	cli.rootCmd.AddCommand(cmd)
}

// blockKinds lists the kinds the add command accepts
var blockKinds = []string{"callout", "code", "grid", "h1", "h2", "h3", "hr", "image", "latex", "markdown", "p", "quote", "toc"}

// newBlock builds a block of the given kind
func newBlock(kind, text, language string, r *nanoreport.Report) (nanoreport.Block, bool) {
	switch kind {
	case "h1":
		return nanoreport.H1(text), true
	case "h2":
		return nanoreport.H2(text), true
	case "h3":
		return nanoreport.H3(text), true
	case "p":
		return nanoreport.P(text), true
	case "quote":
		return nanoreport.NewBlockQuote(text), true
	case "callout":
		return nanoreport.NewCallout(text), true
	case "markdown":
		return nanoreport.NewMarkdown(text), true
	case "latex":
		return nanoreport.NewLaTeX(text), true
	case "image":
		return nanoreport.NewImage(text), true
	case "code":
		return nanoreport.NewCodeBlock(text, language), true
	case "hr":
		return nanoreport.NewHorizontalRule(), true
	case "toc":
		return nanoreport.NewTableOfContents(), true
	case "grid":
		return r.NewPanelGrid(), true
	}
	return nil, false
}

func (cli *ReportCLI) addAddCommand() {
	cmd := &cobra.Command{
		Use:   "add <name> <kind> [text]",
		Short: "Append a block to a report",
		Long: fmt.Sprintf(`Append a block to the end of a report.

Kinds: %s

Examples:
  nanoreport add results h1 "Results"
  nanoreport add results code "print(1)" --language python
  nanoreport add results grid`, strings.Join(blockKinds, ", ")),
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, kind := args[0], args[1]
			text := ""
			if len(args) == 3 {
				text = args[2]
			}
			language, _ := cmd.Flags().GetString("language")

			s, r, err := cli.loadReport(cmd.Context(), "add block", ref)
			if err != nil {
				return err
			}
			block, ok := newBlock(kind, text, language, r)
			if !ok {
				return &CLIError{
					Operation:   "add block",
					Cause:       fmt.Sprintf("unknown block kind %q", kind),
					Suggestions: []string{"Available kinds: " + strings.Join(blockKinds, ", ")},
				}
			}
			blocks := append(r.Blocks(), block)
			if err := r.SetBlocks(blocks...); err != nil {
				return WrapError("add block", err)
			}
			logOperation("add", ref, kind)
			return cli.saveReport(cmd, s, ref, r)
		},
	}
	cmd.Flags().String("language", nanoreport.DefaultCodeLanguage, "Language of code blocks")
	cli.rootCmd.AddCommand(cmd)
}
