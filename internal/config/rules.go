package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// rawThresholds mirrors the pass_rate_acceptance_thresholds block.
// Pointer fields distinguish "unset" from zero: an absent threshold means
// no gate for that tier.
type rawThresholds struct {
	Overall  *float64 `koanf:"overall"`
	Critical *float64 `koanf:"critical"`
	High     *float64 `koanf:"high"`
	Medium   *float64 `koanf:"medium"`
	Low      *float64 `koanf:"low"`
}

type rawEvaluationConfig struct {
	DefaultSeverity              string         `koanf:"default_severity"`
	PassRateAcceptanceThresholds *rawThresholds `koanf:"pass_rate_acceptance_thresholds"`
}

type rawRule struct {
	Name        string         `koanf:"name"`
	Type        string         `koanf:"type"`
	Description string         `koanf:"description"`
	Severity    string         `koanf:"severity"`
	Enabled     *bool          `koanf:"enabled"`
	Args        map[string]any `koanf:"args"`
	Paths       []string       `koanf:"paths"`
}

type rawRulesConfig struct {
	RuleEvaluationConfig rawEvaluationConfig `koanf:"rule_evaluation_config"`
	Rules                []rawRule           `koanf:"rules"`
}

// LoadRulesConfig loads and validates a governance rules YAML document.
// A missing file or a rule set that fails validation (duplicate names,
// select without match_type) is a fatal configuration error.
func LoadRulesConfig(rulesFile string) (*governance.GovernanceRulesConfig, error) {
	if rulesFile == "" {
		return nil, fmt.Errorf("rules file not configured")
	}
	if _, err := os.Stat(rulesFile); err != nil {
		return nil, fmt.Errorf("rules file not found: %s", rulesFile)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(rulesFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load governance rules: %w", err)
	}

	var raw rawRulesConfig
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, fmt.Errorf("failed to decode governance rules: %w", err)
	}

	cfg, err := buildRulesConfig(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildRulesConfig(raw rawRulesConfig) (*governance.GovernanceRulesConfig, error) {
	evalConfig := governance.DefaultRuleEvaluationConfig()
	if raw.RuleEvaluationConfig.DefaultSeverity != "" {
		severity, ok := governance.ParseSeverity(raw.RuleEvaluationConfig.DefaultSeverity)
		if !ok {
			return nil, fmt.Errorf("invalid default_severity: %q", raw.RuleEvaluationConfig.DefaultSeverity)
		}
		evalConfig.DefaultSeverity = severity
	}
	if t := raw.RuleEvaluationConfig.PassRateAcceptanceThresholds; t != nil {
		evalConfig.Thresholds = &governance.PassRateAcceptanceThresholds{
			Overall:  t.Overall,
			Critical: t.Critical,
			High:     t.High,
			Medium:   t.Medium,
			Low:      t.Low,
		}
	}

	rules := make([]governance.GovernanceRule, 0, len(raw.Rules))
	for _, r := range raw.Rules {
		rule, err := buildRule(r, evalConfig.DefaultSeverity)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return &governance.GovernanceRulesConfig{
		RuleEvaluationConfig: evalConfig,
		Rules:                rules,
	}, nil
}

func buildRule(raw rawRule, defaultSeverity governance.Severity) (governance.GovernanceRule, error) {
	rule := governance.NewRule(raw.Name, governance.ParseRuleKind(raw.Type, raw.Name), raw.Description, defaultSeverity)

	if raw.Severity != "" {
		severity, ok := governance.ParseSeverity(raw.Severity)
		if !ok {
			return rule, fmt.Errorf("rule %q: invalid severity: %q", raw.Name, raw.Severity)
		}
		rule.Severity = severity
	}
	if raw.Enabled != nil {
		rule.Enabled = *raw.Enabled
	}
	for key, value := range raw.Args {
		rule.Args[key] = value
	}
	rule.Paths = append(rule.Paths, raw.Paths...)

	return rule, nil
}

// BuildRegistry registers every rule of a validated config into a fresh
// per-run registry.
func BuildRegistry(cfg *governance.GovernanceRulesConfig) (*governance.Registry, error) {
	registry := governance.NewRegistry()
	for _, rule := range cfg.Rules {
		if err := registry.Register(rule); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
