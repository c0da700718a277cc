// Package commands implements the dbtgov CLI subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/datagov-labs/dbtgov/internal/cli/output"
	"github.com/datagov-labs/dbtgov/internal/config"
	"github.com/datagov-labs/dbtgov/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		ProjectPath: os.Getenv("DBTGOV_PROJECT_PATH"),
		RulesFile:   getEnvOrDefault("DBTGOV_RULES_FILE", config.DefaultRulesFileName),
		OutputPath:  getEnvOrDefault("DBTGOV_OUTPUT_PATH", config.DefaultOutputFileName),
		StatePath:   getEnvOrDefault("DBTGOV_STATE_PATH", config.DefaultStateFile),
		Verbose:     os.Getenv("DBTGOV_VERBOSE") == "true",
		Output:      getEnvOrDefault("DBTGOV_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStore opens the run-history database at the configured path and
// applies pending migrations. The caller must Close the store.
func openStore(cfg *config.Config, logger *slog.Logger) (state.Store, error) {
	statePath := cfg.StatePath
	if statePath == "" {
		statePath = config.DefaultStateFile
	}

	if statePath != ":memory:" {
		stateDir := filepath.Dir(statePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, err
			}
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(statePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
