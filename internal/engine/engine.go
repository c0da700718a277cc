// Package engine orchestrates rule evaluation: for each project and each
// enabled rule it dispatches to the matching check, collects validation
// results, and composes the final governance report. It also computes
// per-severity pass rates and compares them against acceptance
// thresholds.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/datagov-labs/dbtgov/internal/manifest"
	"github.com/datagov-labs/dbtgov/pkg/governance"
	"github.com/datagov-labs/dbtgov/pkg/governance/rules"
)

// DefaultWorkers bounds the evaluation worker pool.
const DefaultWorkers = 4

// Config holds engine construction options.
type Config struct {
	// Version is the tool version stamped into report metadata.
	Version string

	// Workers bounds concurrent (project, rule) evaluations. Zero or
	// negative means DefaultWorkers.
	Workers int

	// LoadManifest overrides manifest loading, used by tests. Nil means
	// manifest.Load.
	LoadManifest func(projectPath string) (governance.NodeView, error)

	Logger *slog.Logger
}

// Engine evaluates governance rules against dbt project manifests.
type Engine struct {
	version      string
	workers      int
	loadManifest func(projectPath string) (governance.NodeView, error)
	logger       *slog.Logger
}

// New creates an engine from the given configuration.
func New(cfg Config) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	load := cfg.LoadManifest
	if load == nil {
		load = manifest.Load
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		version:      cfg.Version,
		workers:      workers,
		loadManifest: load,
		logger:       logger,
	}
}

// job is one independent unit of work: one rule against one project.
type job struct {
	rule        governance.GovernanceRule
	view        governance.NodeView
	projectPath string
}

// Evaluate runs every enabled rule against every project and returns the
// composed governance report.
//
// Manifests are loaded up front; a missing manifest aborts the whole run
// since no rule can be evaluated without it. Rule configuration errors
// from a check also abort the run: emitting a partial report for a
// misconfigured rule set would hide the problem.
//
// Node views are read-only during evaluation, so the (project x rule)
// product fans out across a bounded worker pool. Each job appends into
// its own buffer; buffers are concatenated in (project, rule) order
// afterwards, keeping the result list deterministic regardless of
// scheduling.
func (e *Engine) Evaluate(ctx context.Context, rulesToRun []governance.GovernanceRule, projectPaths []string, runID string) (*governance.GovernanceResult, error) {
	var jobs []job
	for _, projectPath := range projectPaths {
		e.logger.Debug("loading dbt project manifest", slog.String("path", manifest.Path(projectPath)))
		view, err := e.loadManifest(projectPath)
		if err != nil {
			return nil, err
		}

		for _, rule := range rulesToRun {
			if !rule.Enabled {
				e.logger.Info("skipping rule not marked as enabled in the rules config", slog.String("rule", rule.Name))
				continue
			}
			if _, known := rules.ForKind(rule.Kind); !known {
				// Unknown kinds are skipped, not failed, so rule files
				// written for newer tool versions stay usable.
				e.logger.Debug("skipping rule with unrecognized kind", slog.String("rule", rule.Name))
				continue
			}
			jobs = append(jobs, job{rule: rule, view: view, projectPath: projectPath})
		}
	}

	buffers := make([][]governance.ValidationResult, len(jobs))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for i, j := range jobs {
		eg.Go(func() error {
			check, _ := rules.ForKind(j.rule.Kind)
			results, err := check(j.rule, j.view, j.projectPath)
			if err != nil {
				return fmt.Errorf("rule evaluation aborted: %w", err)
			}
			buffers[i] = results
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Non-nil even when empty so the report serializes "results": [].
	allResults := make([]governance.ValidationResult, 0)
	for _, buffer := range buffers {
		allResults = append(allResults, buffer...)
	}

	return &governance.GovernanceResult{
		Summary:  governance.Summarize(allResults),
		Metadata: governance.NewMetadata(runID, e.version),
		Results:  allResults,
	}, nil
}
