package governance

import "fmt"

// PassRateAcceptanceThresholds holds optional minimum pass rates on the
// percentage scale (0-100). A nil threshold means no gate for that tier.
type PassRateAcceptanceThresholds struct {
	Overall  *float64
	Critical *float64
	High     *float64
	Medium   *float64
	Low      *float64
}

// ForSeverity returns the configured threshold for a severity tier, or nil
// when none is set.
func (t *PassRateAcceptanceThresholds) ForSeverity(severity Severity) *float64 {
	if t == nil {
		return nil
	}
	switch severity {
	case SeverityCritical:
		return t.Critical
	case SeverityHigh:
		return t.High
	case SeverityMedium:
		return t.Medium
	case SeverityLow:
		return t.Low
	default:
		return nil
	}
}

// RuleEvaluationConfig controls evaluation-wide behavior.
type RuleEvaluationConfig struct {
	DefaultSeverity Severity
	Thresholds      *PassRateAcceptanceThresholds
}

// DefaultRuleEvaluationConfig returns the built-in evaluation config.
func DefaultRuleEvaluationConfig() RuleEvaluationConfig {
	return RuleEvaluationConfig{DefaultSeverity: DefaultSeverity}
}

// GovernanceRulesConfig is one loaded rule set plus its evaluation config.
type GovernanceRulesConfig struct {
	RuleEvaluationConfig RuleEvaluationConfig
	Rules                []GovernanceRule
}

// Validate checks the whole rule set. Loading two rules with the same name
// is a fatal configuration error, caught here before any evaluation.
func (c *GovernanceRulesConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Rules))
	for _, rule := range c.Rules {
		if err := rule.Validate(); err != nil {
			return err
		}
		if _, dup := seen[rule.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateRule, rule.Name)
		}
		seen[rule.Name] = struct{}{}
	}
	return nil
}

// EnabledRules returns the rules marked enabled, in config order.
func (c *GovernanceRulesConfig) EnabledRules() []GovernanceRule {
	enabled := make([]GovernanceRule, 0, len(c.Rules))
	for _, rule := range c.Rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}
