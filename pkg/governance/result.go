package governance

import "time"

// ValidationResult is one outcome row: one rule evaluated against one
// resource node. Results are immutable once constructed.
type ValidationResult struct {
	RuleName       string           `json:"rule_name"`
	RuleSeverity   Severity         `json:"rule_severity"`
	DbtProjectPath string           `json:"dbt_project_path"`
	ResourceType   string           `json:"resource_type"`
	UniqueID       string           `json:"unique_id"`
	Status         ValidationStatus `json:"status"`
	// Reason explains a failed or errored evaluation; it is null on the
	// wire for passed results.
	Reason *string `json:"reason"`
}

// PassedResult builds a passed result for a node.
func PassedResult(rule GovernanceRule, projectPath, resourceType, uniqueID string) ValidationResult {
	return ValidationResult{
		RuleName:       rule.Name,
		RuleSeverity:   rule.Severity,
		DbtProjectPath: projectPath,
		ResourceType:   resourceType,
		UniqueID:       uniqueID,
		Status:         StatusPassed,
	}
}

// FailedResult builds a failed result with a human-readable reason.
func FailedResult(rule GovernanceRule, projectPath, resourceType, uniqueID, reason string) ValidationResult {
	return ValidationResult{
		RuleName:       rule.Name,
		RuleSeverity:   rule.Severity,
		DbtProjectPath: projectPath,
		ResourceType:   resourceType,
		UniqueID:       uniqueID,
		Status:         StatusFailed,
		Reason:         &reason,
	}
}

// GovernanceResultSummary holds the top-line counts for a run.
// Error and warning results count toward TotalEvaluations only.
type GovernanceResultSummary struct {
	TotalEvaluations int `json:"total_evaluations"`
	TotalPassed      int `json:"total_passed"`
	TotalFailed      int `json:"total_failed"`
}

// PassRate returns the fraction of evaluations that passed, 0.0 when
// nothing was evaluated.
func (s GovernanceResultSummary) PassRate() float64 {
	if s.TotalEvaluations == 0 {
		return 0.0
	}
	return float64(s.TotalPassed) / float64(s.TotalEvaluations)
}

// Summarize counts statuses across a result list in a single pass.
func Summarize(results []ValidationResult) GovernanceResultSummary {
	summary := GovernanceResultSummary{TotalEvaluations: len(results)}
	for _, result := range results {
		switch result.Status {
		case StatusPassed:
			summary.TotalPassed++
		case StatusFailed:
			summary.TotalFailed++
		}
	}
	return summary
}

// GovernanceResultMetadata describes one evaluation run.
type GovernanceResultMetadata struct {
	GeneratedAt          string `json:"generated_at"`
	ResultUUID           string `json:"result_uuid"`
	DbtGovernanceVersion string `json:"dbt_governance_version"`
}

// NewMetadata stamps metadata with the current UTC time.
func NewMetadata(runID, version string) GovernanceResultMetadata {
	return GovernanceResultMetadata{
		GeneratedAt:          UTCTimestamp(),
		ResultUUID:           runID,
		DbtGovernanceVersion: version,
	}
}

// UTCTimestamp returns the current UTC time with millisecond precision,
// space-separated ISO 8601. External report consumers parse this exact
// layout.
func UTCTimestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05.000+00:00")
}

// GovernanceResult is the full report artifact. Its lifecycle ends at JSON
// serialization; field names and enum values are part of the contract
// consumed by external tooling.
type GovernanceResult struct {
	Summary  GovernanceResultSummary  `json:"summary"`
	Metadata GovernanceResultMetadata `json:"metadata"`
	Results  []ValidationResult       `json:"results"`
}
