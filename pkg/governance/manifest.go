package governance

import "sort"

// ResourceTypeModel and friends are the dbt resource types the engine
// cares about. Anything else is never a rule subject.
const (
	ResourceTypeModel = "model"
	ResourceTypeTest  = "test"
)

// Node is a read-only view of one resource in a dbt manifest. For
// test-type nodes DependsOn and TestName carry the dependency edges and
// the built-in test kind; both are empty for other resource types.
type Node struct {
	ResourceType string
	UniqueID     string
	Name         string
	Tags         []string
	ConfigTags   []string
	Meta         map[string]any
	DependsOn    []string
	TestName     string
}

// EffectiveTags returns the declared-config tags when non-empty, else the
// plain tags.
func (n Node) EffectiveTags() []string {
	if len(n.ConfigTags) > 0 {
		return n.ConfigTags
	}
	return n.Tags
}

// HasTag reports whether the node's effective tag set contains tag.
func (n Node) HasTag(tag string) bool {
	for _, t := range n.EffectiveTags() {
		if t == tag {
			return true
		}
	}
	return false
}

// MetaValue looks up a meta property, nil when absent.
func (n Node) MetaValue(key string) any {
	if n.Meta == nil {
		return nil
	}
	return n.Meta[key]
}

// NodeView is an unordered collection of manifest nodes keyed by unique
// id. It is read-only during evaluation; checks never mutate it.
type NodeView map[string]Node

// Models returns the model nodes sorted by unique id. Manifest maps carry
// no order, so iteration is made deterministic here.
func (v NodeView) Models() []Node {
	return v.byType(ResourceTypeModel)
}

// Tests returns the test nodes sorted by unique id.
func (v NodeView) Tests() []Node {
	return v.byType(ResourceTypeTest)
}

func (v NodeView) byType(resourceType string) []Node {
	var nodes []Node
	for _, node := range v {
		if node.ResourceType == resourceType {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].UniqueID < nodes[j].UniqueID })
	return nodes
}
