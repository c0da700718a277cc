package rules

import (
	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// CheckFunc evaluates one rule against one project's node view and
// returns one result per in-scope model node, in deterministic node
// order.
type CheckFunc func(rule governance.GovernanceRule, view governance.NodeView, projectPath string) ([]governance.ValidationResult, error)

// checks maps each known rule kind to its check. Adding a kind is a table
// edit; KindUnknown deliberately has no entry so unrecognized kinds from
// newer rule files evaluate to nothing.
var checks = map[governance.RuleKind]CheckFunc{
	governance.KindHasMeta:    HasMetaProperty,
	governance.KindHasTag:     HasTag,
	governance.KindOwner:      ModelOwner,
	governance.KindPrimaryKey: ValidatePrimaryKey,
}

// ForKind returns the check for a rule kind. The second return is false
// for unknown kinds, which callers must skip rather than fail.
func ForKind(kind governance.RuleKind) (CheckFunc, bool) {
	check, ok := checks[kind]
	return check, ok
}

// truthy mirrors the presence semantics of meta properties: nil, empty
// strings and collections, false and zero do not count as a set value.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
