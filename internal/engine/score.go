package engine

import "github.com/datagov-labs/dbtgov/pkg/governance"

// SeverityScore is the pass rate for one severity tier, on the 0-100
// percentage scale.
type SeverityScore struct {
	Severity  governance.Severity
	Evaluated int
	Passed    int
	PassRate  float64
}

// ScoreReport groups pass rates by severity plus the overall rate. The
// overall rate is computed over the flat result list, not as an average
// of tier rates, so uneven tier sizes cannot skew it.
type ScoreReport struct {
	PerSeverity     []SeverityScore
	TotalEvaluated  int
	TotalPassed     int
	OverallPassRate float64
}

// Score groups results by rule severity and computes pass rates. An empty
// tier reports 100: a severity with zero applicable rules is vacuously
// passing, and must not drag a threshold verdict down.
func Score(results []governance.ValidationResult) ScoreReport {
	evaluated := make(map[governance.Severity]int)
	passed := make(map[governance.Severity]int)
	report := ScoreReport{TotalEvaluated: len(results)}

	for _, result := range results {
		evaluated[result.RuleSeverity]++
		if result.Status == governance.StatusPassed {
			passed[result.RuleSeverity]++
			report.TotalPassed++
		}
	}

	for _, severity := range governance.Severities {
		report.PerSeverity = append(report.PerSeverity, SeverityScore{
			Severity:  severity,
			Evaluated: evaluated[severity],
			Passed:    passed[severity],
			PassRate:  passRate(passed[severity], evaluated[severity]),
		})
	}
	report.OverallPassRate = passRate(report.TotalPassed, report.TotalEvaluated)
	return report
}

func passRate(passed, evaluated int) float64 {
	if evaluated == 0 {
		return 100
	}
	return float64(passed) / float64(evaluated) * 100
}

// ThresholdVerdict is the comparison of one scope's pass rate against its
// configured acceptance threshold. Threshold is nil when no gate is
// configured for the scope, in which case the verdict is informational
// and Met is true.
type ThresholdVerdict struct {
	Scope     string
	PassRate  float64
	Threshold *float64
	Met       bool
}

// ThresholdReport holds the per-tier and overall threshold verdicts.
type ThresholdReport struct {
	Verdicts []ThresholdVerdict
	AllMet   bool
}

// CheckThresholds compares a score report against the configured
// acceptance thresholds. Each configured threshold passes when the
// scope's pass rate meets or exceeds it.
func CheckThresholds(report ScoreReport, thresholds *governance.PassRateAcceptanceThresholds) ThresholdReport {
	out := ThresholdReport{AllMet: true}

	for _, score := range report.PerSeverity {
		verdict := ThresholdVerdict{
			Scope:     score.Severity.String(),
			PassRate:  score.PassRate,
			Threshold: thresholds.ForSeverity(score.Severity),
			Met:       true,
		}
		if verdict.Threshold != nil {
			verdict.Met = score.PassRate >= *verdict.Threshold
		}
		out.AllMet = out.AllMet && verdict.Met
		out.Verdicts = append(out.Verdicts, verdict)
	}

	overall := ThresholdVerdict{
		Scope:    "overall",
		PassRate: report.OverallPassRate,
		Met:      true,
	}
	if thresholds != nil {
		overall.Threshold = thresholds.Overall
	}
	if overall.Threshold != nil {
		overall.Met = report.OverallPassRate >= *overall.Threshold
	}
	out.AllMet = out.AllMet && overall.Met
	out.Verdicts = append(out.Verdicts, overall)

	return out
}
