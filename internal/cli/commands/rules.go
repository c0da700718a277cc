package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/datagov-labs/dbtgov/internal/cli/output"
	"github.com/datagov-labs/dbtgov/internal/config"
	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Severity string // Filter by severity
	Enabled  bool   // Show enabled rules only
	Format   string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-name]",
		Short: "List configured governance rules",
		Long: `List the governance rules defined in the rules file.

With a rule name argument, shows the full definition of that rule
including its arguments and target paths.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all configured rules
  dbtgov rules

  # Show details for one rule
  dbtgov rules "Primary Key Test"

  # List critical rules only
  dbtgov rules --severity critical

  # Output as JSON
  dbtgov rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Severity, "severity", "s", "", "Filter by severity: critical, high, medium, low")
	cmd.Flags().BoolVar(&opts.Enabled, "enabled", false, "Show enabled rules only")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rulesCfg, err := loadRules(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	ruleList, err := filterRules(rulesCfg.Rules, opts)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, ruleList)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, ruleList)
	default:
		return listRulesText(r, ruleList)
	}
}

func loadRules(cfg *config.Config) (*governance.GovernanceRulesConfig, error) {
	rulesFile := cfg.RulesFile
	if rulesFile == "" {
		rulesFile = config.DefaultRulesFileName
	}
	return config.LoadRulesConfig(rulesFile)
}

func filterRules(ruleList []governance.GovernanceRule, opts *RulesOptions) ([]governance.GovernanceRule, error) {
	var severity governance.Severity
	if opts.Severity != "" {
		parsed, ok := governance.ParseSeverity(opts.Severity)
		if !ok {
			return nil, fmt.Errorf("invalid severity: %q", opts.Severity)
		}
		severity = parsed
	}

	var filtered []governance.GovernanceRule
	for _, rule := range ruleList {
		if opts.Severity != "" && rule.Severity != severity {
			continue
		}
		if opts.Enabled && !rule.Enabled {
			continue
		}
		filtered = append(filtered, rule)
	}
	return filtered, nil
}

func showRule(cmd *cobra.Command, name string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	rulesCfg, err := loadRules(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	var rule *governance.GovernanceRule
	for i := range rulesCfg.Rules {
		if rulesCfg.Rules[i].Name == name {
			rule = &rulesCfg.Rules[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", name)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return writeJSON(r, ruleJSON(*rule))
	}
	return showRuleText(r, *rule)
}

func listRulesText(r *output.Renderer, ruleList []governance.GovernanceRule) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Governance Rules (%d)", len(ruleList))))
	r.Println("")

	if len(ruleList) == 0 {
		r.Println(styles.Muted.Render("No rules configured."))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Type", "Severity", "Enabled", "Description"})
	for _, rule := range ruleList {
		enabled := "yes"
		if !rule.Enabled {
			enabled = "no"
		}
		t.AppendRow(table.Row{
			rule.Name,
			rule.Kind.String(),
			styles.SeverityStyle(rule.Severity.String()).Render(rule.Severity.String()),
			enabled,
			rule.Description,
		})
	}
	t.Render()
	return nil
}

func listRulesMarkdown(r *output.Renderer, ruleList []governance.GovernanceRule) error {
	r.Printf("# Governance Rules (%d)\n\n", len(ruleList))
	if len(ruleList) == 0 {
		r.Println("No rules configured.")
		return nil
	}

	r.Println("| Name | Type | Severity | Enabled | Description |")
	r.Println("|------|------|----------|---------|-------------|")
	for _, rule := range ruleList {
		enabled := "yes"
		if !rule.Enabled {
			enabled = "no"
		}
		r.Printf("| %s | %s | %s | %s | %s |\n",
			rule.Name, rule.Kind, rule.Severity, enabled, rule.Description)
	}
	return nil
}

func listRulesJSON(r *output.Renderer, ruleList []governance.GovernanceRule) error {
	out := make([]map[string]any, 0, len(ruleList))
	for _, rule := range ruleList {
		out = append(out, ruleJSON(rule))
	}
	return writeJSON(r, out)
}

func showRuleText(r *output.Renderer, rule governance.GovernanceRule) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(rule.Name))
	r.Println("")
	r.Printf("  %s %s\n", styles.Bold.Render("Type:"), rule.Kind)
	r.Printf("  %s %s\n", styles.Bold.Render("Severity:"),
		styles.SeverityStyle(rule.Severity.String()).Render(rule.Severity.String()))
	r.Printf("  %s %t\n", styles.Bold.Render("Enabled:"), rule.Enabled)
	if rule.Description != "" {
		r.Printf("  %s %s\n", styles.Bold.Render("Description:"), rule.Description)
	}
	if len(rule.Paths) > 0 {
		r.Printf("  %s %s\n", styles.Bold.Render("Paths:"), strings.Join(rule.Paths, ", "))
	}
	if len(rule.Args) > 0 {
		r.Println("")
		r.Println(styles.Header2.Render("  Arguments"))
		keys := make([]string, 0, len(rule.Args))
		for key := range rule.Args {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			r.Printf("    %s: %v\n", key, rule.Args[key])
		}
	}
	return nil
}

func ruleJSON(rule governance.GovernanceRule) map[string]any {
	return map[string]any{
		"name":        rule.Name,
		"type":        rule.Kind.String(),
		"severity":    rule.Severity,
		"enabled":     rule.Enabled,
		"description": rule.Description,
		"args":        rule.Args,
		"paths":       rule.Paths,
	}
}

func writeJSON(r *output.Renderer, v any) error {
	enc := json.NewEncoder(r.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
