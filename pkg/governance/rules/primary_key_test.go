package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

func testNode(uniqueID, testName string, dependsOn ...string) governance.Node {
	return governance.Node{
		ResourceType: governance.ResourceTypeTest,
		UniqueID:     uniqueID,
		TestName:     testName,
		DependsOn:    dependsOn,
	}
}

func TestValidatePrimaryKey(t *testing.T) {
	rule := governance.NewRule("Primary Key Test", governance.KindPrimaryKey, "", governance.SeverityCritical)

	view := governance.NodeView{
		// Has a primary key and a matching test.
		"model.p.orders": modelNode("model.p.orders", "orders", map[string]any{"primary_key": "order_id"}),
		"test.p.pk":      testNode("test.p.pk", "primary_key", "model.p.orders"),

		// Has a primary key but no test.
		"model.p.payments": modelNode("model.p.payments", "payments", map[string]any{"primary_key": "payment_id"}),

		// No primary key declared at all.
		"model.p.events": modelNode("model.p.events", "events", nil),
	}

	results, err := ValidatePrimaryKey(rule, view, projectPath)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]governance.ValidationResult, len(results))
	for _, result := range results {
		byID[result.UniqueID] = result
	}

	assert.Equal(t, governance.StatusPassed, byID["model.p.orders"].Status)

	payments := byID["model.p.payments"]
	assert.Equal(t, governance.StatusFailed, payments.Status)
	require.NotNil(t, payments.Reason)
	assert.Equal(t, "Model model.p.payments's primary key column (payment_id) is missing a unique test.", *payments.Reason)

	events := byID["model.p.events"]
	assert.Equal(t, governance.StatusFailed, events.Status)
	require.NotNil(t, events.Reason)
	assert.Equal(t, "Model model.p.events does not have a primary key defined in its config.", *events.Reason)
}

func TestValidatePrimaryKeyTestMustDependOnExactlyOneModel(t *testing.T) {
	rule := governance.NewRule("Primary Key Test", governance.KindPrimaryKey, "", governance.SeverityCritical)

	view := governance.NodeView{
		"model.p.orders": modelNode("model.p.orders", "orders", map[string]any{"primary_key": "order_id"}),
		// A relationship-style test depending on two nodes does not count.
		"test.p.rel": testNode("test.p.rel", "primary_key", "model.p.orders", "model.p.customers"),
	}

	results, err := ValidatePrimaryKey(rule, view, projectPath)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, governance.StatusFailed, results[0].Status)
}

func TestValidatePrimaryKeyWrongTestKind(t *testing.T) {
	rule := governance.NewRule("Primary Key Test", governance.KindPrimaryKey, "", governance.SeverityCritical)

	view := governance.NodeView{
		"model.p.orders": modelNode("model.p.orders", "orders", map[string]any{"primary_key": "order_id"}),
		"test.p.nn":      testNode("test.p.nn", "not_null", "model.p.orders"),
	}

	results, err := ValidatePrimaryKey(rule, view, projectPath)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, governance.StatusFailed, results[0].Status)
}

func TestForKind(t *testing.T) {
	for _, kind := range []governance.RuleKind{
		governance.KindHasMeta,
		governance.KindHasTag,
		governance.KindOwner,
		governance.KindPrimaryKey,
	} {
		check, ok := ForKind(kind)
		assert.True(t, ok, "kind %s should have a check", kind)
		assert.NotNil(t, check)
	}

	_, ok := ForKind(governance.KindUnknown)
	assert.False(t, ok)
}
