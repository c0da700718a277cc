package rules

import (
	"fmt"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// primaryKeyTestName is the built-in test kind that satisfies the rule.
const primaryKeyTestName = "primary_key"

// ValidatePrimaryKey checks each model in two phases. Phase 1: the model
// must declare meta["primary_key"]; without it the model fails and phase
// 2 is skipped. Phase 2: some test node must depend on exactly this model
// and carry the primary_key test kind.
//
// The test scan is O(models x tests), fine at manifest scale; the test
// list is materialized once per call so the scan does not re-sort per
// model.
func ValidatePrimaryKey(rule governance.GovernanceRule, view governance.NodeView, projectPath string) ([]governance.ValidationResult, error) {
	tests := view.Tests()

	var results []governance.ValidationResult
	for _, model := range view.Models() {
		primaryKey := model.MetaValue("primary_key")
		if !truthy(primaryKey) {
			reason := fmt.Sprintf("Model %s does not have a primary key defined in its config.", model.UniqueID)
			results = append(results, governance.FailedResult(rule, projectPath, model.ResourceType, model.UniqueID, reason))
			continue
		}

		if hasPrimaryKeyTest(tests, model.UniqueID) {
			results = append(results, governance.PassedResult(rule, projectPath, model.ResourceType, model.UniqueID))
		} else {
			reason := fmt.Sprintf("Model %s's primary key column (%v) is missing a unique test.", model.UniqueID, primaryKey)
			results = append(results, governance.FailedResult(rule, projectPath, model.ResourceType, model.UniqueID, reason))
		}
	}
	return results, nil
}

// hasPrimaryKeyTest reports whether some test depends on exactly the
// given model and is a primary_key test.
func hasPrimaryKeyTest(tests []governance.Node, modelID string) bool {
	for _, test := range tests {
		if len(test.DependsOn) == 1 && test.DependsOn[0] == modelID && test.TestName == primaryKeyTestName {
			return true
		}
	}
	return false
}
