package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

func floatPtr(v float64) *float64 { return &v }

func resultWith(severity governance.Severity, status governance.ValidationStatus) governance.ValidationResult {
	return governance.ValidationResult{
		RuleName:     "r",
		RuleSeverity: severity,
		Status:       status,
	}
}

func TestScore(t *testing.T) {
	results := []governance.ValidationResult{
		resultWith(governance.SeverityCritical, governance.StatusPassed),
		resultWith(governance.SeverityCritical, governance.StatusFailed),
		resultWith(governance.SeverityHigh, governance.StatusPassed),
		resultWith(governance.SeverityHigh, governance.StatusPassed),
		resultWith(governance.SeverityMedium, governance.StatusFailed),
	}

	report := Score(results)
	assert.Equal(t, 5, report.TotalEvaluated)
	assert.Equal(t, 3, report.TotalPassed)
	assert.InDelta(t, 60.0, report.OverallPassRate, 1e-9)

	require.Len(t, report.PerSeverity, len(governance.Severities))

	bySeverity := make(map[governance.Severity]SeverityScore)
	for _, tier := range report.PerSeverity {
		bySeverity[tier.Severity] = tier
	}

	assert.InDelta(t, 50.0, bySeverity[governance.SeverityCritical].PassRate, 1e-9)
	assert.InDelta(t, 100.0, bySeverity[governance.SeverityHigh].PassRate, 1e-9)
	assert.InDelta(t, 0.0, bySeverity[governance.SeverityMedium].PassRate, 1e-9)
	// A tier with no evaluations is vacuously passing.
	assert.InDelta(t, 100.0, bySeverity[governance.SeverityLow].PassRate, 1e-9)
	assert.Equal(t, 0, bySeverity[governance.SeverityLow].Evaluated)
}

func TestScoreEmpty(t *testing.T) {
	report := Score(nil)
	assert.Equal(t, 0, report.TotalEvaluated)
	assert.InDelta(t, 100.0, report.OverallPassRate, 1e-9)
}

func TestCheckThresholds(t *testing.T) {
	results := []governance.ValidationResult{
		resultWith(governance.SeverityCritical, governance.StatusPassed),
		resultWith(governance.SeverityHigh, governance.StatusPassed),
		resultWith(governance.SeverityHigh, governance.StatusFailed),
	}
	report := Score(results)

	thresholds := &governance.PassRateAcceptanceThresholds{
		Critical: floatPtr(100),
		High:     floatPtr(80),
		Overall:  floatPtr(50),
	}

	verdicts := CheckThresholds(report, thresholds)
	assert.False(t, verdicts.AllMet)

	byScope := make(map[string]ThresholdVerdict)
	for _, verdict := range verdicts.Verdicts {
		byScope[verdict.Scope] = verdict
	}

	assert.True(t, byScope["critical"].Met)
	assert.False(t, byScope["high"].Met, "50%% pass rate is below the 80%% gate")
	assert.True(t, byScope["overall"].Met)

	// Unconfigured tiers are informational.
	medium := byScope["medium"]
	assert.Nil(t, medium.Threshold)
	assert.True(t, medium.Met)
}

func TestCheckThresholdsExactBoundaryMet(t *testing.T) {
	results := []governance.ValidationResult{
		resultWith(governance.SeverityHigh, governance.StatusPassed),
		resultWith(governance.SeverityHigh, governance.StatusFailed),
	}
	report := Score(results)

	thresholds := &governance.PassRateAcceptanceThresholds{High: floatPtr(50)}
	verdicts := CheckThresholds(report, thresholds)
	assert.True(t, verdicts.AllMet, "meeting the threshold exactly passes")
}

func TestCheckThresholdsNilConfig(t *testing.T) {
	report := Score([]governance.ValidationResult{
		resultWith(governance.SeverityHigh, governance.StatusFailed),
	})

	verdicts := CheckThresholds(report, nil)
	assert.True(t, verdicts.AllMet)
	require.Len(t, verdicts.Verdicts, len(governance.Severities)+1)
	assert.Equal(t, "overall", verdicts.Verdicts[len(verdicts.Verdicts)-1].Scope)
}
