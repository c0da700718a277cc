// Package report serializes the governance result artifact to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datagov-labs/dbtgov/pkg/governance"
)

// Write serializes the result as indented JSON and returns the path it
// was written to. The JSON field names and enum values are a contract
// with external report consumers; the encoder must not be swapped for
// one that renames or reorders fields.
func Write(result *governance.GovernanceResult, outputPath string) (string, error) {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode governance result: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write governance result: %w", err)
	}
	return outputPath, nil
}
