package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/datagov-labs/dbtgov/internal/cli/output"
	"github.com/datagov-labs/dbtgov/internal/config"
	"github.com/datagov-labs/dbtgov/internal/engine"
	"github.com/datagov-labs/dbtgov/internal/report"
	"github.com/datagov-labs/dbtgov/internal/state"
	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// EvaluateOptions holds options for the evaluate command.
type EvaluateOptions struct {
	Workers int // Worker pool size
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(version string) *cobra.Command {
	opts := &EvaluateOptions{}
	cmd := &cobra.Command{
		Use:     "evaluate",
		Aliases: []string{"eval"},
		Short:   "Evaluate governance rules against dbt projects",
		Long: `Evaluate every enabled governance rule against the configured dbt
projects and write the JSON report.

Each project's target/manifest.json is loaded and every enabled rule is
checked against it. Results are written to the output path, summarized
per severity, and compared against the configured pass rate acceptance
thresholds. The command fails when any threshold is not met.`,
		Example: `  # Evaluate a single project
  dbtgov evaluate --project-path ./analytics

  # Evaluate several projects with a custom rules file
  dbtgov evaluate --project-paths ./analytics,./marts --rules-file team-rules.yml

  # Skip run-history recording
  dbtgov evaluate --project-path ./analytics --no-history`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, version, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Evaluation worker pool size (0 for default)")

	return cmd
}

func runEvaluate(cmd *cobra.Command, version string, opts *EvaluateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	projectPaths, err := cmdCtx.Cfg.GetProjectPaths()
	if err != nil {
		return err
	}

	rulesCfg, err := loadRules(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	registry, err := config.BuildRegistry(rulesCfg)
	if err != nil {
		return err
	}

	eng := engine.New(engine.Config{
		Version: version,
		Workers: opts.Workers,
		Logger:  logger,
	})

	runID := uuid.NewString()
	logger.Info("starting evaluation",
		"run_id", runID,
		"projects", len(projectPaths),
		"rules", registry.Len())

	result, err := eng.Evaluate(cmd.Context(), registry.All(), projectPaths, runID)
	if err != nil {
		return err
	}

	score := engine.Score(result.Results)
	verdicts := engine.CheckThresholds(score, rulesCfg.RuleEvaluationConfig.Thresholds)

	reportPath, err := report.Write(result, cmdCtx.Cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !cmdCtx.Cfg.NoHistory {
		if err := recordHistory(cmdCtx, runID, version, result, score); err != nil {
			// History is a convenience; an unwritable state database
			// must not fail an otherwise successful evaluation.
			logger.Warn("failed to record run history", "error", err)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := writeJSON(r, result); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderEvaluateMarkdown(r, result, score, verdicts, reportPath)
	default:
		renderEvaluateText(r, result, score, verdicts, reportPath)
	}

	if !verdicts.AllMet {
		return fmt.Errorf("pass rate thresholds not met")
	}
	return nil
}

func recordHistory(cmdCtx *CommandContext, runID, version string, result *governance.GovernanceResult, score engine.ScoreReport) error {
	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run := &state.EvaluationRun{
		ID:               runID,
		GeneratedAt:      time.Now().UTC(),
		Version:          version,
		TotalEvaluations: result.Summary.TotalEvaluations,
		TotalPassed:      result.Summary.TotalPassed,
		TotalFailed:      result.Summary.TotalFailed,
		OverallPassRate:  score.OverallPassRate,
	}

	rates := make([]state.SeverityRate, 0, len(score.PerSeverity))
	for _, tier := range score.PerSeverity {
		rates = append(rates, state.SeverityRate{
			RunID:     runID,
			Severity:  tier.Severity.String(),
			Evaluated: tier.Evaluated,
			Passed:    tier.Passed,
			PassRate:  tier.PassRate,
		})
	}

	return store.RecordRun(run, rates)
}

func renderEvaluateText(r *output.Renderer, result *governance.GovernanceResult, score engine.ScoreReport, verdicts engine.ThresholdReport, reportPath string) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("Governance Evaluation"))
	r.Println("")
	r.Printf("  %s %d\n", styles.Bold.Render("Evaluations:"), result.Summary.TotalEvaluations)
	r.Printf("  %s %s\n", styles.Bold.Render("Passed:"),
		styles.Success.Render(fmt.Sprintf("%d", result.Summary.TotalPassed)))
	r.Printf("  %s %s\n", styles.Bold.Render("Failed:"),
		styles.Error.Render(fmt.Sprintf("%d", result.Summary.TotalFailed)))
	r.Printf("  %s %.1f%%\n", styles.Bold.Render("Pass rate:"), score.OverallPassRate)
	r.Println("")

	renderFailures(r, result.Results)
	renderScorecard(r, verdicts)

	r.Println("")
	r.Printf("Report written to %s\n", reportPath)
}

// renderFailures lists failed evaluations with their reasons.
func renderFailures(r *output.Renderer, results []governance.ValidationResult) {
	styles := r.Styles()

	var failed []governance.ValidationResult
	for _, result := range results {
		if result.Status != governance.StatusPassed {
			failed = append(failed, result)
		}
	}
	if len(failed) == 0 {
		return
	}

	r.Println(styles.Header2.Render("Failures"))
	r.Println("")
	for _, result := range failed {
		reason := ""
		if result.Reason != nil {
			reason = *result.Reason
		}
		r.Printf("  %s [%s] %s\n",
			styles.SeverityStyle(result.RuleSeverity.String()).Render(result.RuleSeverity.String()),
			result.RuleName,
			reason)
	}
	r.Println("")
}

// renderScorecard shows per-severity pass rates against their thresholds.
func renderScorecard(r *output.Renderer, verdicts engine.ThresholdReport) {
	styles := r.Styles()

	r.Println(styles.Header2.Render("Scorecard"))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scope", "Pass Rate", "Threshold", "Status"})
	for _, verdict := range verdicts.Verdicts {
		threshold := "-"
		if verdict.Threshold != nil {
			threshold = fmt.Sprintf("%.1f%%", *verdict.Threshold)
		}
		status := styles.Success.Render("ok")
		if !verdict.Met {
			status = styles.Error.Render("below threshold")
		}
		t.AppendRow(table.Row{
			verdict.Scope,
			fmt.Sprintf("%.1f%%", verdict.PassRate),
			threshold,
			status,
		})
	}
	t.Render()
}

func renderEvaluateMarkdown(r *output.Renderer, result *governance.GovernanceResult, score engine.ScoreReport, verdicts engine.ThresholdReport, reportPath string) {
	r.Println("# Governance Evaluation")
	r.Println("")
	r.Printf("- Evaluations: %d\n", result.Summary.TotalEvaluations)
	r.Printf("- Passed: %d\n", result.Summary.TotalPassed)
	r.Printf("- Failed: %d\n", result.Summary.TotalFailed)
	r.Printf("- Overall pass rate: %.1f%%\n", score.OverallPassRate)
	r.Println("")

	r.Println("## Scorecard")
	r.Println("")
	r.Println("| Scope | Pass Rate | Threshold | Status |")
	r.Println("|-------|-----------|-----------|--------|")
	for _, verdict := range verdicts.Verdicts {
		threshold := "-"
		if verdict.Threshold != nil {
			threshold = fmt.Sprintf("%.1f%%", *verdict.Threshold)
		}
		status := "ok"
		if !verdict.Met {
			status = "below threshold"
		}
		r.Printf("| %s | %.1f%% | %s | %s |\n", verdict.Scope, verdict.PassRate, threshold, status)
	}
	r.Println("")
	r.Printf("Report written to `%s`\n", reportPath)
}
