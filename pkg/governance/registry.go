package governance

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SelectionClause records the dbt selection syntax a rule was configured
// with. The clauses are opaque to the engine (an external collaborator
// resolves them to node ids); the registry only tracks them for
// introspection.
type SelectionClause struct {
	Select  string
	Exclude string
}

// Registry maps rule names to rule definitions for one run. Create one
// per run and populate it before evaluation begins; registration is not
// safe to interleave with evaluation.
type Registry struct {
	mu               sync.RWMutex
	rules            map[string]GovernanceRule
	order            []string
	selectionClauses map[string]SelectionClause
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:            make(map[string]GovernanceRule),
		selectionClauses: make(map[string]SelectionClause),
	}
}

// Register adds a rule, enforcing name uniqueness within the run.
func (r *Registry) Register(rule GovernanceRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, rule.Name)
	}
	r.rules[rule.Name] = rule
	r.order = append(r.order, rule.Name)

	if rule.HasArg("select") || rule.HasArg("exclude") {
		r.selectionClauses[rule.Name] = SelectionClause{
			Select:  rule.StringArg("select"),
			Exclude: rule.StringArg("exclude"),
		}
	}
	return nil
}

// Get returns a registered rule by name.
func (r *Registry) Get(name string) (GovernanceRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// All returns the registered rules in registration order.
func (r *Registry) All() []GovernanceRule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]GovernanceRule, 0, len(r.order))
	for _, name := range r.order {
		rules = append(rules, r.rules[name])
	}
	return rules
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// SelectionClauses returns the per-rule selection clauses.
func (r *Registry) SelectionClauses() map[string]SelectionClause {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clauses := make(map[string]SelectionClause, len(r.selectionClauses))
	for name, clause := range r.selectionClauses {
		clauses[name] = clause
	}
	return clauses
}

// DistinctSelectionClauses returns the distinct normalized selection
// clause strings across all rules, sorted. Clauses are normalized by
// sorting their space-separated selectors so that equivalent clauses
// written in different orders collapse to one.
func (r *Registry) DistinctSelectionClauses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, clause := range r.selectionClauses {
		normalized := normalizeClause(clause)
		if normalized != "" {
			seen[normalized] = struct{}{}
		}
	}

	clauses := make([]string, 0, len(seen))
	for clause := range seen {
		clauses = append(clauses, clause)
	}
	sort.Strings(clauses)
	return clauses
}

func normalizeClause(clause SelectionClause) string {
	var buf strings.Builder
	if sorted := sortSelectors(clause.Select); sorted != "" {
		buf.WriteString(" --select " + sorted)
	}
	if sorted := sortSelectors(clause.Exclude); sorted != "" {
		buf.WriteString(" --exclude " + sorted)
	}
	return buf.String()
}

func sortSelectors(clause string) string {
	selectors := strings.Fields(clause)
	sort.Strings(selectors)
	return strings.Join(selectors, " ")
}
