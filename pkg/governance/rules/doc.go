// Package rules implements the built-in governance checks: one check
// function per rule kind, dispatched through a lookup table.
//
// Checks share a traversal contract: iterate the node view, skip
// non-model resources, and emit exactly one result per in-scope model.
// Missing properties, tags, or tests are failed results, never errors;
// checks return an error only for malformed rule configuration.
package rules
