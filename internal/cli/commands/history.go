package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/datagov-labs/dbtgov/internal/cli/output"
	"github.com/datagov-labs/dbtgov/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int    // Max number of runs to list
	Format string // Output format
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded evaluation runs",
		Long: `Show past governance evaluation runs from the local run-history
database.

With a run id argument, shows that run's per-severity pass rates.`,
		Example: `  # List the most recent runs
  dbtgov history

  # List the last 50 runs
  dbtgov history --limit 50

  # Show one run's per-severity breakdown
  dbtgov history 2f1c9a0e-7b4d-4c52-9d8a-6c1e1a2b3c4d`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRun(cmd, args[0], opts)
			}
			return listRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Maximum number of runs to show")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRuns(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]map[string]any, 0, len(runs))
		for _, run := range runs {
			out = append(out, runJSON(run))
		}
		return writeJSON(r, out)
	}
	return listRunsText(r, runs)
}

func listRunsText(r *output.Renderer, runs []*state.EvaluationRun) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Evaluation Runs (%d)", len(runs))))
	r.Println("")

	if len(runs) == 0 {
		r.Println(styles.Muted.Render("No recorded runs."))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run ID", "Generated At", "Evaluations", "Passed", "Failed", "Pass Rate"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.GeneratedAt.Format("2006-01-02 15:04:05"),
			run.TotalEvaluations,
			run.TotalPassed,
			run.TotalFailed,
			fmt.Sprintf("%.1f%%", run.OverallPassRate),
		})
	}
	t.Render()
	return nil
}

func showRun(cmd *cobra.Command, runID string, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %q not found", runID)
	}

	rates, err := store.GetSeverityRates(runID)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := runJSON(run)
		tiers := make([]map[string]any, 0, len(rates))
		for _, rate := range rates {
			tiers = append(tiers, map[string]any{
				"severity":  rate.Severity,
				"evaluated": rate.Evaluated,
				"passed":    rate.Passed,
				"pass_rate": rate.PassRate,
			})
		}
		out["severity_rates"] = tiers
		return writeJSON(r, out)
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render("Run " + run.ID))
	r.Println("")
	r.Printf("  %s %s\n", styles.Bold.Render("Generated at:"), run.GeneratedAt.Format("2006-01-02 15:04:05"))
	r.Printf("  %s %s\n", styles.Bold.Render("Version:"), run.Version)
	r.Printf("  %s %d passed / %d failed of %d\n", styles.Bold.Render("Results:"),
		run.TotalPassed, run.TotalFailed, run.TotalEvaluations)
	r.Printf("  %s %.1f%%\n", styles.Bold.Render("Pass rate:"), run.OverallPassRate)
	r.Println("")

	if len(rates) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Severity", "Evaluated", "Passed", "Pass Rate"})
		for _, rate := range rates {
			t.AppendRow(table.Row{
				styles.SeverityStyle(rate.Severity).Render(rate.Severity),
				rate.Evaluated,
				rate.Passed,
				fmt.Sprintf("%.1f%%", rate.PassRate),
			})
		}
		t.Render()
	}
	return nil
}

func runJSON(run *state.EvaluationRun) map[string]any {
	return map[string]any{
		"id":                run.ID,
		"generated_at":      run.GeneratedAt.Format("2006-01-02 15:04:05"),
		"version":           run.Version,
		"total_evaluations": run.TotalEvaluations,
		"total_passed":      run.TotalPassed,
		"total_failed":      run.TotalFailed,
		"overall_pass_rate": run.OverallPassRate,
	}
}
