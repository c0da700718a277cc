package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagov-labs/dbtgov/internal/testutil"
	"github.com/datagov-labs/dbtgov/pkg/governance"
)

func testView() governance.NodeView {
	return governance.NodeView{
		"model.p.orders": {
			ResourceType: governance.ResourceTypeModel,
			UniqueID:     "model.p.orders",
			Name:         "orders",
			Tags:         []string{"finance"},
			Meta:         map[string]any{"owner": "data-team", "primary_key": "order_id"},
		},
		"model.p.events": {
			ResourceType: governance.ResourceTypeModel,
			UniqueID:     "model.p.events",
			Name:         "events",
		},
		"test.p.pk_orders": {
			ResourceType: governance.ResourceTypeTest,
			UniqueID:     "test.p.pk_orders",
			TestName:     "primary_key",
			DependsOn:    []string{"model.p.orders"},
		},
	}
}

func testEngine(t *testing.T, views map[string]governance.NodeView) *Engine {
	t.Helper()
	return New(Config{
		Version: "0.1.0",
		Logger:  testutil.NewTestLogger(t),
		LoadManifest: func(projectPath string) (governance.NodeView, error) {
			view, ok := views[projectPath]
			if !ok {
				return nil, fmt.Errorf("%w at %s", governance.ErrManifestNotFound, projectPath)
			}
			return view, nil
		},
	})
}

func ownerRule(severity governance.Severity) governance.GovernanceRule {
	return governance.NewRule("Owner Metadata", governance.KindOwner, "", severity)
}

func TestEvaluate(t *testing.T) {
	eng := testEngine(t, map[string]governance.NodeView{"/proj": testView()})

	pkRule := governance.NewRule("Primary Key Test", governance.KindPrimaryKey, "", governance.SeverityCritical)
	result, err := eng.Evaluate(context.Background(), []governance.GovernanceRule{ownerRule(governance.SeverityHigh), pkRule}, []string{"/proj"}, "run-1")
	require.NoError(t, err)

	// Two rules over two models each.
	assert.Equal(t, 4, result.Summary.TotalEvaluations)
	assert.Equal(t, 2, result.Summary.TotalPassed)
	assert.Equal(t, 2, result.Summary.TotalFailed)
	assert.Equal(t, "run-1", result.Metadata.ResultUUID)
	assert.Equal(t, "0.1.0", result.Metadata.DbtGovernanceVersion)
	assert.Len(t, result.Results, 4)

	// Results come back in (project, rule, node) order.
	assert.Equal(t, "Owner Metadata", result.Results[0].RuleName)
	assert.Equal(t, "model.p.events", result.Results[0].UniqueID)
	assert.Equal(t, "Primary Key Test", result.Results[2].RuleName)
}

func TestEvaluateSkipsDisabledRules(t *testing.T) {
	eng := testEngine(t, map[string]governance.NodeView{"/proj": testView()})

	disabled := ownerRule(governance.SeverityHigh)
	disabled.Enabled = false

	result, err := eng.Evaluate(context.Background(), []governance.GovernanceRule{disabled}, []string{"/proj"}, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Summary.TotalEvaluations)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
}

func TestEvaluateSkipsUnknownKinds(t *testing.T) {
	eng := testEngine(t, map[string]governance.NodeView{"/proj": testView()})

	unknown := governance.NewRule("Future Rule", governance.KindUnknown, "", governance.SeverityLow)

	result, err := eng.Evaluate(context.Background(), []governance.GovernanceRule{unknown}, []string{"/proj"}, "run-1")
	require.NoError(t, err)
	assert.Empty(t, result.Results)
}

func TestEvaluateMissingManifestIsFatal(t *testing.T) {
	eng := testEngine(t, map[string]governance.NodeView{"/proj": testView()})

	_, err := eng.Evaluate(context.Background(), []governance.GovernanceRule{ownerRule(governance.SeverityHigh)}, []string{"/proj", "/absent"}, "run-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, governance.ErrManifestNotFound)
}

func TestEvaluateRuleConfigErrorAbortsRun(t *testing.T) {
	eng := testEngine(t, map[string]governance.NodeView{"/proj": testView()})

	// has_meta without required_property is a configuration error.
	bad := governance.NewRule("Meta Check", governance.KindHasMeta, "", governance.SeverityMedium)

	_, err := eng.Evaluate(context.Background(), []governance.GovernanceRule{bad}, []string{"/proj"}, "run-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule evaluation aborted")
}

func TestEvaluateMultipleProjects(t *testing.T) {
	eng := testEngine(t, map[string]governance.NodeView{
		"/a": testView(),
		"/b": testView(),
	})

	result, err := eng.Evaluate(context.Background(), []governance.GovernanceRule{ownerRule(governance.SeverityHigh)}, []string{"/a", "/b"}, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 4, result.Summary.TotalEvaluations)
	assert.Equal(t, "/a", result.Results[0].DbtProjectPath)
	assert.Equal(t, "/b", result.Results[2].DbtProjectPath)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	eng := New(Config{
		Version: "0.1.0",
		Workers: 8,
		Logger:  testutil.NewTestLogger(t),
		LoadManifest: func(string) (governance.NodeView, error) {
			return testView(), nil
		},
	})

	rulesToRun := []governance.GovernanceRule{
		ownerRule(governance.SeverityHigh),
		governance.NewRule("Primary Key Test", governance.KindPrimaryKey, "", governance.SeverityCritical),
	}
	paths := []string{"/a", "/b", "/c"}

	first, err := eng.Evaluate(context.Background(), rulesToRun, paths, "run-1")
	require.NoError(t, err)

	for range 5 {
		again, err := eng.Evaluate(context.Background(), rulesToRun, paths, "run-1")
		require.NoError(t, err)
		assert.Equal(t, first.Results, again.Results)
	}
}

func TestNewDefaults(t *testing.T) {
	eng := New(Config{})
	assert.Equal(t, DefaultWorkers, eng.workers)
	assert.NotNil(t, eng.loadManifest)
	assert.NotNil(t, eng.logger)
}
