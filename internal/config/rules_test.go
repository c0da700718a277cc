package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

const sampleRulesYAML = `rule_evaluation_config:
  default_severity: high
  pass_rate_acceptance_thresholds:
    overall: 90
    critical: 100

rules:
  - name: Owner Metadata
    type: owner
    description: Model must declare an owner.
    severity: critical
  - name: Primary Key Test
    type: primary_key
  - name: PII Tag
    type: has_tag
    severity: low
    enabled: false
    args:
      required_tag: pii
      select: stg_
      match_type: startswith
    paths:
      - models/staging
`

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "governance-rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRulesConfig(t *testing.T) {
	path := writeRulesFile(t, sampleRulesYAML)

	cfg, err := LoadRulesConfig(path)
	require.NoError(t, err)

	assert.Equal(t, governance.SeverityHigh, cfg.RuleEvaluationConfig.DefaultSeverity)
	require.NotNil(t, cfg.RuleEvaluationConfig.Thresholds)
	require.NotNil(t, cfg.RuleEvaluationConfig.Thresholds.Overall)
	assert.InDelta(t, 90.0, *cfg.RuleEvaluationConfig.Thresholds.Overall, 1e-9)
	require.NotNil(t, cfg.RuleEvaluationConfig.Thresholds.Critical)
	assert.InDelta(t, 100.0, *cfg.RuleEvaluationConfig.Thresholds.Critical, 1e-9)
	assert.Nil(t, cfg.RuleEvaluationConfig.Thresholds.Low)

	require.Len(t, cfg.Rules, 3)

	owner := cfg.Rules[0]
	assert.Equal(t, "Owner Metadata", owner.Name)
	assert.Equal(t, governance.KindOwner, owner.Kind)
	assert.Equal(t, governance.SeverityCritical, owner.Severity)
	assert.True(t, owner.Enabled)

	pk := cfg.Rules[1]
	assert.Equal(t, governance.KindPrimaryKey, pk.Kind)
	assert.Equal(t, governance.SeverityHigh, pk.Severity, "unset severity falls back to default_severity")

	tag := cfg.Rules[2]
	assert.Equal(t, governance.KindHasTag, tag.Kind)
	assert.Equal(t, governance.SeverityLow, tag.Severity)
	assert.False(t, tag.Enabled)
	assert.Equal(t, "pii", tag.StringArg("required_tag"))
	assert.Equal(t, []string{"models/staging"}, tag.Paths)
}

func TestLoadRulesConfigMissingFile(t *testing.T) {
	_, err := LoadRulesConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rules file not found")
}

func TestLoadRulesConfigEmptyPath(t *testing.T) {
	_, err := LoadRulesConfig("")
	assert.Error(t, err)
}

func TestLoadRulesConfigDuplicateNames(t *testing.T) {
	path := writeRulesFile(t, `rules:
  - name: dup
    type: owner
  - name: dup
    type: has_tag
    args:
      required_tag: pii
`)

	_, err := LoadRulesConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, governance.ErrDuplicateRule)
}

func TestLoadRulesConfigInvalidSeverity(t *testing.T) {
	path := writeRulesFile(t, `rules:
  - name: r
    type: owner
    severity: blocker
`)

	_, err := LoadRulesConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid severity")
}

func TestLoadRulesConfigSelectWithoutMatchType(t *testing.T) {
	path := writeRulesFile(t, `rules:
  - name: scoped
    type: has_tag
    args:
      required_tag: pii
      select: stg_
`)

	_, err := LoadRulesConfig(path)
	assert.Error(t, err)
}

func TestLoadRulesConfigUnknownType(t *testing.T) {
	path := writeRulesFile(t, `rules:
  - name: Future Rule
    type: column_docs
`)

	cfg, err := LoadRulesConfig(path)
	require.NoError(t, err, "unknown rule types load as KindUnknown")
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, governance.KindUnknown, cfg.Rules[0].Kind)
}

func TestLoadRulesConfigLegacyNames(t *testing.T) {
	path := writeRulesFile(t, `rules:
  - name: Owner Metadata
  - name: Primary Key Test
`)

	cfg, err := LoadRulesConfig(path)
	require.NoError(t, err)
	assert.Equal(t, governance.KindOwner, cfg.Rules[0].Kind)
	assert.Equal(t, governance.KindPrimaryKey, cfg.Rules[1].Kind)
}

func TestBuildRegistry(t *testing.T) {
	path := writeRulesFile(t, sampleRulesYAML)
	cfg, err := LoadRulesConfig(path)
	require.NoError(t, err)

	reg, err := BuildRegistry(cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	all := reg.All()
	assert.Equal(t, "Owner Metadata", all[0].Name)

	clauses := reg.DistinctSelectionClauses()
	assert.Equal(t, []string{" --select stg_"}, clauses)
}
