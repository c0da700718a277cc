package governance

import "errors"

// Sentinel errors for fatal loading conditions. Both abort a run before
// any evaluation; per-node outcomes are never errors.
var (
	// ErrDuplicateRule reports two rules loaded with the same name.
	ErrDuplicateRule = errors.New("duplicate rule name")

	// ErrManifestNotFound reports a project whose compiled manifest
	// artifact is missing. No rule can be evaluated without it.
	ErrManifestNotFound = errors.New("manifest not found")
)
