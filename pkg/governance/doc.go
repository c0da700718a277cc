// Package governance defines the core data model for dbt governance
// evaluation: rules, severities, validation results, evaluation
// configuration, the manifest node view consumed by rule checks, and the
// per-run rules registry.
//
// The package is deliberately free of I/O. Loading rule configuration and
// dbt manifests lives in internal/config and internal/manifest; running
// rules lives in internal/engine.
package governance
