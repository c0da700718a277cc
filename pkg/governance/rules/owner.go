package rules

import (
	"fmt"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// DefaultOwnerMetaProperty is the meta property models use to declare
// ownership unless the rule overrides it.
const DefaultOwnerMetaProperty = "owner"

// ModelOwner checks that every model declares ownership metadata: the
// owner meta property (default "owner", overridable via the
// meta_property_name arg) must be present and truthy.
func ModelOwner(rule governance.GovernanceRule, view governance.NodeView, projectPath string) ([]governance.ValidationResult, error) {
	property := rule.StringArg("meta_property_name")
	if property == "" {
		property = DefaultOwnerMetaProperty
	}

	var results []governance.ValidationResult
	for _, node := range view.Models() {
		if truthy(node.MetaValue(property)) {
			results = append(results, governance.PassedResult(rule, projectPath, node.ResourceType, node.UniqueID))
		} else {
			reason := fmt.Sprintf("Model %s is missing '%s' meta property for model ownership.", node.UniqueID, property)
			results = append(results, governance.FailedResult(rule, projectPath, node.ResourceType, node.UniqueID, reason))
		}
	}
	return results, nil
}
