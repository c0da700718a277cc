package governance

import (
	"fmt"
	"strings"
)

// RuleKind selects which check applies to a rule. It is a closed set:
// unrecognized kinds are carried as KindUnknown and evaluate to nothing,
// so rule files written for newer tool versions stay loadable.
type RuleKind int

// Rule kinds.
const (
	KindUnknown RuleKind = iota
	// KindHasMeta checks that models declare a required meta property,
	// optionally restricted to a set of allowed values.
	KindHasMeta
	// KindHasTag checks that models carry a required tag, optionally
	// scoped by a name filter.
	KindHasTag
	// KindOwner checks that models declare ownership metadata.
	KindOwner
	// KindPrimaryKey checks that models declare a primary key and have a
	// matching primary key test.
	KindPrimaryKey
)

// String returns the config string form of the rule kind.
func (k RuleKind) String() string {
	switch k {
	case KindHasMeta:
		return "has_meta"
	case KindHasTag:
		return "has_tag"
	case KindOwner:
		return "owner"
	case KindPrimaryKey:
		return "primary_key"
	default:
		return "unknown"
	}
}

// ParseRuleKind maps a rule's declared type (and, for the legacy exception
// rules that predate typed kinds, its name) to a RuleKind. Unrecognized
// values map to KindUnknown rather than an error.
func ParseRuleKind(ruleType, ruleName string) RuleKind {
	switch strings.ToLower(ruleType) {
	case "has_meta":
		return KindHasMeta
	case "has_tag":
		return KindHasTag
	case "owner", "model_owner":
		return KindOwner
	case "primary_key", "primary_key_test":
		return KindPrimaryKey
	}
	// Legacy rule files dispatch the exception rules by name.
	switch ruleName {
	case "Owner Metadata":
		return KindOwner
	case "Primary Key Test":
		return KindPrimaryKey
	}
	return KindUnknown
}

// GovernanceRule is one declarative governance rule. Rules are immutable
// after loading; the evaluation engine only reads them.
type GovernanceRule struct {
	Name        string
	Kind        RuleKind
	Description string
	Severity    Severity
	Enabled     bool
	Args        map[string]any
	Paths       []string
}

// NewRule constructs an enabled rule with fresh containers. Sharing one
// args map or paths slice across rule instances caused cross-rule mutation
// bugs before, so every rule gets its own.
func NewRule(name string, kind RuleKind, description string, severity Severity) GovernanceRule {
	return GovernanceRule{
		Name:        name,
		Kind:        kind,
		Description: description,
		Severity:    severity,
		Enabled:     true,
		Args:        make(map[string]any),
		Paths:       []string{},
	}
}

// StringArg returns the named argument as a string, or "" when absent or
// not a string.
func (r GovernanceRule) StringArg(key string) string {
	if r.Args == nil {
		return ""
	}
	if s, ok := r.Args[key].(string); ok {
		return s
	}
	return ""
}

// StringsArg returns the named argument normalized to a string list. A
// scalar string becomes a one-element list; list elements are stringified.
func (r GovernanceRule) StringsArg(key string) []string {
	if r.Args == nil {
		return nil
	}
	switch v := r.Args[key].(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// HasArg reports whether the named argument is present.
func (r GovernanceRule) HasArg(key string) bool {
	if r.Args == nil {
		return false
	}
	_, ok := r.Args[key]
	return ok
}

// Validate checks the rule's own configuration. Per-node evaluation
// outcomes are results, never errors; Validate only catches malformed
// rule definitions that must abort loading.
func (r GovernanceRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule has no name")
	}
	if r.HasArg("select") && r.StringArg("match_type") == "" {
		return fmt.Errorf("rule %q: both select and match_type must be provided in order to filter nodes to test", r.Name)
	}
	return nil
}
