// Package cli provides the command-line interface for dbtgov.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/datagov-labs/dbtgov/internal/cli/commands"
	"github.com/datagov-labs/dbtgov/internal/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbtgov",
		Short: "dbtgov - Governance rule evaluation for dbt projects",
		Long: `dbtgov evaluates governance rules against dbt project manifests.

Rules are defined in a YAML file and checked against each project's
compiled manifest: required meta properties, required tags, model
ownership, and primary key test coverage. Results are written as a JSON
report and scored per severity against pass rate acceptance thresholds.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Governance rule evaluation for dbt projects
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./dbtgov.yaml)")
	rootCmd.PersistentFlags().StringP("project-path", "p", "", "Path to a dbt project")
	rootCmd.PersistentFlags().StringSlice("project-paths", nil, "Paths to dbt projects")
	rootCmd.PersistentFlags().String("rules-file", "", "Path to the governance rules file")
	rootCmd.PersistentFlags().String("output-path", "", "Path for the JSON report")
	rootCmd.PersistentFlags().String("state-path", "", "Path to the run-history database")
	rootCmd.PersistentFlags().Bool("no-history", false, "Disable run-history recording")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewEvaluateCommand(Version))
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewValidateConfigCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
