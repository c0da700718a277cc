package rules

import (
	"fmt"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// HasMetaProperty checks that every model declares the rule's required
// meta property. When allowed_values is configured (scalar or list), the
// property value must be a member of it; otherwise mere presence of a
// truthy value passes. Each model yields exactly one result: the
// allowed-values check takes precedence over the presence check.
func HasMetaProperty(rule governance.GovernanceRule, view governance.NodeView, projectPath string) ([]governance.ValidationResult, error) {
	property := rule.StringArg("required_property")
	if property == "" {
		return nil, fmt.Errorf("rule %q: missing required_property argument", rule.Name)
	}
	allowedValues := rule.StringsArg("allowed_values")

	var results []governance.ValidationResult
	for _, node := range view.Models() {
		value := node.MetaValue(property)

		if len(allowedValues) > 0 {
			if value != nil && contains(allowedValues, fmt.Sprint(value)) {
				results = append(results, governance.PassedResult(rule, projectPath, node.ResourceType, node.UniqueID))
			} else {
				reason := fmt.Sprintf("Model %s has an invalid '%s' meta property value: %v.", node.UniqueID, property, value)
				results = append(results, governance.FailedResult(rule, projectPath, node.ResourceType, node.UniqueID, reason))
			}
			continue
		}

		if truthy(value) {
			results = append(results, governance.PassedResult(rule, projectPath, node.ResourceType, node.UniqueID))
		} else {
			reason := fmt.Sprintf("Model %s is missing required '%s' meta property.", node.UniqueID, property)
			results = append(results, governance.FailedResult(rule, projectPath, node.ResourceType, node.UniqueID, reason))
		}
	}
	return results, nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
