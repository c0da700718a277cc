package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datagov-labs/dbtgov/internal/config"
	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// NewValidateConfigCommand creates the validate-config command.
func NewValidateConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Validate the governance rules file",
		Long: `Load and validate the governance rules file without evaluating anything.

Reports rule definition problems (missing names, duplicate rules, invalid
severities, inconsistent selection arguments) before a real run hits them.`,
		Example: `  # Validate the default governance-rules.yml
  dbtgov validate-config

  # Validate a specific rules file
  dbtgov validate-config --rules-file team-rules.yml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidateConfig(cmd)
		},
	}
	return cmd
}

func runValidateConfig(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	styles := r.Styles()

	rulesFile := cmdCtx.Cfg.RulesFile
	if rulesFile == "" {
		rulesFile = config.DefaultRulesFileName
	}

	rulesCfg, err := config.LoadRulesConfig(rulesFile)
	if err != nil {
		return fmt.Errorf("invalid rules configuration: %w", err)
	}

	// Registry construction catches duplicate names and per-rule
	// selection argument problems.
	reg, err := config.BuildRegistry(rulesCfg)
	if err != nil {
		return fmt.Errorf("invalid rules configuration: %w", err)
	}

	enabled := len(rulesCfg.EnabledRules())
	unknown := 0
	for _, rule := range reg.All() {
		if rule.Kind == governance.KindUnknown {
			unknown++
		}
	}

	r.Println(styles.Success.Render(fmt.Sprintf("%s is valid", rulesFile)))
	r.Printf("  %d rules defined, %d enabled\n", reg.Len(), enabled)
	if unknown > 0 {
		r.Println(styles.Warning.Render(fmt.Sprintf("  %d rules have an unrecognized type and will be skipped", unknown)))
	}
	if clauses := reg.DistinctSelectionClauses(); len(clauses) > 0 {
		r.Printf("  %d distinct selection clauses\n", len(clauses))
	}
	return nil
}
