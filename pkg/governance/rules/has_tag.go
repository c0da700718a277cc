package rules

import (
	"fmt"
	"strings"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// nameFilter scopes a tag rule to models whose name satisfies a
// (possibly negated) match against the select string.
type nameFilter struct {
	selector string
	match    string
	negate   bool
}

func newNameFilter(rule governance.GovernanceRule) (*nameFilter, error) {
	selector := rule.StringArg("select")
	matchType := rule.StringArg("match_type")
	// Filtering applies only when select is given; a match_type on its
	// own must not scope anything out.
	if selector == "" {
		return nil, nil
	}
	if matchType == "" {
		return nil, fmt.Errorf("rule %q: both select and match_type must be provided in order to filter nodes to test", rule.Name)
	}

	filter := &nameFilter{selector: selector}
	if rest, ok := strings.CutPrefix(matchType, "not "); ok {
		filter.negate = true
		matchType = rest
	}
	switch matchType {
	case "startswith", "endswith", "contains":
		filter.match = matchType
	default:
		return nil, fmt.Errorf("invalid match_type: %q for rule: %q", matchType, rule.Name)
	}
	return filter, nil
}

// inScope reports whether a model name passes the filter.
func (f *nameFilter) inScope(name string) bool {
	var matched bool
	switch f.match {
	case "startswith":
		matched = strings.HasPrefix(name, f.selector)
	case "endswith":
		matched = strings.HasSuffix(name, f.selector)
	case "contains":
		matched = strings.Contains(name, f.selector)
	}
	if f.negate {
		return !matched
	}
	return matched
}

// HasTag checks that every in-scope model carries the rule's required
// tag. Models filtered out by select/match_type emit no result at all.
// The effective tag set is the declared-config tags when non-empty, else
// the plain tags.
func HasTag(rule governance.GovernanceRule, view governance.NodeView, projectPath string) ([]governance.ValidationResult, error) {
	tag := rule.StringArg("required_tag")
	if tag == "" {
		return nil, fmt.Errorf("rule %q: missing required_tag argument", rule.Name)
	}

	filter, err := newNameFilter(rule)
	if err != nil {
		return nil, err
	}

	var results []governance.ValidationResult
	for _, node := range view.Models() {
		if filter != nil && !filter.inScope(node.Name) {
			continue
		}

		if node.HasTag(tag) {
			results = append(results, governance.PassedResult(rule, projectPath, node.ResourceType, node.UniqueID))
		} else {
			reason := fmt.Sprintf("Model %s is missing required '%s' tag.", node.UniqueID, tag)
			results = append(results, governance.FailedResult(rule, projectPath, node.ResourceType, node.UniqueID, reason))
		}
	}
	return results, nil
}
