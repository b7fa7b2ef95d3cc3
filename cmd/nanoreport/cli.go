package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/nanoreport/nanoreport/layout"
	"github.com/arthur-debert/nanoreport/nanoreport/store"
)

// ReportCLI wires the report commands to a Viper configuration
type ReportCLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
}

// NewReportCLI creates a new Viper-powered CLI
func NewReportCLI() *ReportCLI {
	cli := &ReportCLI{viperInst: viper.New()}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *ReportCLI) setupViperConfig() {
	// NANOREPORT_CONFIG names a config file explicitly
	if configFile := os.Getenv("NANOREPORT_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("nanoreport")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.nanoreport")
		cli.viperInst.AddConfigPath("/etc/nanoreport")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("NANOREPORT")

	// --dry-run -> NANOREPORT_DRY_RUN
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read config file if it exists (ignore errors)
	_ = cli.viperInst.ReadInConfig()
}

// createRootCommand creates the root Cobra command with Viper integration
func (cli *ReportCLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "nanoreport",
		Short: "Nanoreport CLI - edit report documents from the command line",
		Long: `Nanoreport edits report documents: their blocks, the run sets of their
panel grids (filters, sort order, grouping) and the layout of their panels.

Reports live as JSON or YAML files in a directory and are named by file name.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NANOREPORT_*)
3. Configuration files (custom path or default locations)

Configuration File Discovery:
  NANOREPORT_CONFIG=/path/to/config.yaml  # Custom config file path
  ./nanoreport.{json,yaml}                # Current directory
  ~/.nanoreport/nanoreport.{json,yaml}    # User directory
  /etc/nanoreport/nanoreport.{json,yaml}  # System directory

Examples:
  # Create a report and add a panel grid
  nanoreport new results --entity megatruong --project report-editing
  nanoreport add results grid

  # Filter the first run set of the first grid
  nanoreport filter set results 'State == "finished" and loss < 0.5'

  # Render it
  nanoreport render results --as markdown`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = cli.viperInst.BindPFlags(cmd.Flags())

			if _, err := initLogging(cli.viperInst.GetString("log-level"), cli.viperInst.GetBool("verbose"), cmd.ErrOrStderr()); err != nil {
				// Logging is best effort
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			return nil
		},
	}

	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *ReportCLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	// Store configuration
	flags.StringP("dir", "d", ".", "Directory holding the report files")
	flags.String("store-format", "json", "File format for new reports (json|yaml)")

	// Defaults for new reports and run sets
	flags.StringP("entity", "e", "", "Entity owning new reports")
	flags.StringP("project", "p", "", "Project of new reports")

	// Panel placement
	flags.Int("grid-width", 24, "Columns of the panel grid")
	flags.Int("columns", 2, "Auto-placed panels per row")
	flags.Int("row-height", 6, "Height of auto-placed panels")

	// Output configuration
	flags.StringP("format", "f", "text", "Output format (text|json|yaml)")

	// Execution options
	flags.Bool("dry-run", false, "Show what would happen without saving")
	flags.BoolP("verbose", "v", false, "Also log to stderr")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")

	for _, flag := range []string{
		"dir", "store-format", "entity", "project",
		"grid-width", "columns", "row-height",
		"format", "dry-run", "verbose", "log-level",
	} {
		_ = cli.viperInst.BindPFlag(flag, flags.Lookup(flag))
	}
}

// addCommands adds all the CLI commands
func (cli *ReportCLI) addCommands() {
	// Meta commands
	cli.addConfigCommand()
	cli.addListCommand()
	cli.addCompileCommand()
	cli.addSearchCommand()

	// Report commands
	cli.addNewCommand()
	cli.addShowCommand()
	cli.addRenderCommand()
	cli.addAddCommand()

	// Run set commands
	cli.addFilterCommands()
	cli.addOrderCommand()
	cli.addGroupCommand()

	// Panel grid commands
	cli.addLayoutCommands()
}

// Execute runs the root command
func (cli *ReportCLI) Execute() error {
	return cli.rootCmd.Execute()
}

// GetConfig returns a configuration value by key
func (cli *ReportCLI) GetConfig(key string) interface{} {
	return cli.viperInst.Get(key)
}

// GetRootCommand returns the root cobra command
func (cli *ReportCLI) GetRootCommand() *cobra.Command {
	return cli.rootCmd
}

// openStore returns the file store configured by --dir and --store-format
func (cli *ReportCLI) openStore() (*store.FileStore, error) {
	format, err := store.ParseFormat(cli.viperInst.GetString("store-format"))
	if err != nil {
		return nil, &CLIError{
			Operation:   "open store",
			Cause:       err.Error(),
			Suggestions: []string{"Use --store-format json or --store-format yaml"},
		}
	}
	return store.New(cli.viperInst.GetString("dir"), store.WithFormat(format)), nil
}

// packer returns the panel placement policy configured by the layout flags
func (cli *ReportCLI) packer() layout.Packer {
	return layout.Packer{
		GridWidth: cli.viperInst.GetInt("grid-width"),
		Columns:   cli.viperInst.GetInt("columns"),
		RowHeight: cli.viperInst.GetInt("row-height"),
	}
}

// print writes data to the command's output in the configured format
func (cli *ReportCLI) print(cmd *cobra.Command, data interface{}) error {
	out, err := NewOutputFormatter(cli.viperInst.GetString("format")).Format(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
