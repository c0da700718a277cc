// Package manifest loads a dbt project's compiled manifest artifact into
// the read-only node view the evaluation engine consumes. The on-disk
// format is dbt's manifest.json; only the fields the node view needs are
// parsed, everything else in the artifact is ignored.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// Path returns the expected manifest location for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, "target", "manifest.json")
}

// rawNode mirrors the subset of a dbt manifest node the engine reads.
type rawNode struct {
	ResourceType string         `json:"resource_type"`
	UniqueID     string         `json:"unique_id"`
	Name         string         `json:"name"`
	Tags         []string       `json:"tags"`
	Meta         map[string]any `json:"meta"`
	Config       struct {
		Tags []string       `json:"tags"`
		Meta map[string]any `json:"meta"`
	} `json:"config"`
	DependsOn struct {
		Nodes []string `json:"nodes"`
	} `json:"depends_on"`
	TestMetadata struct {
		Name string `json:"name"`
	} `json:"test_metadata"`
}

type rawManifest struct {
	Nodes map[string]rawNode `json:"nodes"`
}

// Load reads <projectPath>/target/manifest.json into a node view. A
// missing artifact wraps governance.ErrManifestNotFound; the caller must
// treat that as fatal for the whole run since no rule can be evaluated
// without a manifest.
func Load(projectPath string) (governance.NodeView, error) {
	manifestPath := Path(projectPath)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", governance.ErrManifestNotFound, manifestPath)
		}
		return nil, fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}

	return Parse(data, manifestPath)
}

// Parse decodes raw manifest JSON into a node view. The source name is
// used only for error messages.
func Parse(data []byte, source string) (governance.NodeView, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", source, err)
	}

	view := make(governance.NodeView, len(raw.Nodes))
	for id, node := range raw.Nodes {
		uniqueID := node.UniqueID
		if uniqueID == "" {
			uniqueID = id
		}

		// Config-level meta/tags take precedence; dbt merges top-level
		// declarations into config, but older artifacts only set one.
		meta := node.Config.Meta
		if len(meta) == 0 {
			meta = node.Meta
		}

		view[uniqueID] = governance.Node{
			ResourceType: node.ResourceType,
			UniqueID:     uniqueID,
			Name:         node.Name,
			Tags:         node.Tags,
			ConfigTags:   node.Config.Tags,
			Meta:         meta,
			DependsOn:    node.DependsOn.Nodes,
			TestName:     node.TestMetadata.Name,
		}
	}
	return view, nil
}
