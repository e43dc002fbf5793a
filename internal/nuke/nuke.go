// Package nuke plans and executes the guarded bulk deletion of workshop
// namespaces. It reconciles the desired state against the live cluster and
// deletes straight through the remote API, deliberately bypassing the
// Terraform state: re-applying the provisioning engine afterwards recreates
// everything cleanly.
package nuke

import (
	"context"
	"sort"

	"github.com/systmms/wsops/internal/logging"
)

// Origin records which bucket put a namespace on the deletion plan.
type Origin string

const (
	// OriginExpected marks a namespace derived from the desired state.
	OriginExpected Origin = "expected"
	// OriginOrphan marks a live namespace matching the workshop naming
	// convention but absent from the desired state.
	OriginOrphan Origin = "orphan"
)

// Target is one namespace scheduled for deletion.
type Target struct {
	Name   string
	Origin Origin
}

// BuildPlan combines the expected namespace set with, when requested, the
// orphans found in the live set. The result is deduplicated (expected wins
// over orphan for the same name) and sorted for stable output.
func BuildPlan(expected, live []string, includeOrphans bool) []Target {
	origins := map[string]Origin{}
	for _, name := range expected {
		origins[name] = OriginExpected
	}
	if includeOrphans {
		for _, name := range live {
			if _, ok := origins[name]; !ok {
				origins[name] = OriginOrphan
			}
		}
	}

	targets := make([]Target, 0, len(origins))
	for name, origin := range origins {
		targets = append(targets, Target{Name: name, Origin: origin})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Name < targets[j].Name })
	return targets
}

// Deleter is the remote operation execution needs.
type Deleter interface {
	DeleteNamespace(ctx context.Context, parent, name string) error
}

// Failure records one namespace that could not be deleted.
type Failure struct {
	Target Target
	Err    error
}

// Report is the outcome of an executed deletion plan.
type Report struct {
	Deleted []Target
	Failed  []Failure
}

// Execute deletes the targets sequentially. A failed delete is reported
// and does not block the remaining deletions; there is no rollback.
func Execute(ctx context.Context, deleter Deleter, parent string, targets []Target, logger *logging.Logger) *Report {
	report := &Report{}
	for _, target := range targets {
		if err := deleter.DeleteNamespace(ctx, parent, target.Name); err != nil {
			if logger != nil {
				logger.Error("failed to delete %s/%s: %v", parent, target.Name, err)
			}
			report.Failed = append(report.Failed, Failure{Target: target, Err: err})
			continue
		}
		if logger != nil {
			logger.Info("deleted %s/%s (%s)", parent, target.Name, target.Origin)
		}
		report.Deleted = append(report.Deleted, target)
	}
	return report
}
