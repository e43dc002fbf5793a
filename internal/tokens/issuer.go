// Package tokens issues and redeems the single-use reveal tokens. Each
// attendee's story secret is read through their namespace and wrapped by
// the cluster into a token that can be unwrapped exactly once.
package tokens

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/systmms/wsops/internal/desired"
	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/export"
	"github.com/systmms/wsops/internal/logging"
)

// Wrapper is the cluster operation the issuer needs: a combined
// read-and-wrap of the story secret inside one namespace.
type Wrapper interface {
	ReadStoryWrapped(ctx context.Context, namespace, ttl string) (string, error)
}

// Issued is the reveal record for one attendee.
type Issued struct {
	ID              string `json:"-"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Namespace       string `json:"namespace"`
	NamespaceSuffix string `json:"namespace_suffix"`
	Username        string `json:"username"`
	WrappedToken    string `json:"wrapped_token"`
}

// Skip records one attendee whose token could not be issued.
type Skip struct {
	ID     string
	Reason string
}

// Report is the outcome of a token issuance batch.
type Report struct {
	Issued  []Issued
	Skipped []Skip
}

// Options configures a token issuance run.
type Options struct {
	ParentNamespace string
	TeamPrefix      string
	WrapTTL         string
	OutputDir       string
}

var tokenFields = []string{
	"first_name", "last_name", "email", "namespace", "namespace_suffix", "username", "wrapped_token",
}

// Issue wraps the story secret for every attendee in the plan, sequentially
// and in sorted ID order. Each attendee's read+wrap completes as one cluster
// call before their token is recorded; a failure for one attendee is logged
// and skipped without aborting the rest. Aggregate CSV and JSON exports are
// written in lock-step at the end.
func Issue(ctx context.Context, plan *desired.Plan, wrapper Wrapper, opts Options, logger *logging.Logger) (*Report, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, wserrors.ConfigError{
			Field:   "output_dir",
			Value:   opts.OutputDir,
			Message: "failed to create output directory: " + err.Error(),
		}
	}

	report := &Report{}

	for _, id := range plan.IDs() {
		a := plan.Attendees[id]
		namespace := opts.ParentNamespace + "/" + desired.Namespace(opts.TeamPrefix, a)

		token, err := wrapper.ReadStoryWrapped(ctx, namespace, opts.WrapTTL)
		if err != nil {
			attErr := wserrors.AttendeeError{ID: id, Step: "token wrap", Err: err}
			if logger != nil {
				logger.Error("%v", attErr)
			}
			report.Skipped = append(report.Skipped, Skip{ID: id, Reason: attErr.Error()})
			continue
		}

		report.Issued = append(report.Issued, Issued{
			ID:              id,
			FirstName:       a.FirstName,
			LastName:        a.LastName,
			Email:           a.Email,
			Namespace:       namespace,
			NamespaceSuffix: a.NamespaceSuffix,
			Username:        username(a),
			WrappedToken:    token,
		})
		if logger != nil {
			logger.Info("wrapped story for %s (token %s)", namespace, logging.Secret(token))
		}
	}

	sort.Slice(report.Issued, func(i, j int) bool { return report.Issued[i].ID < report.Issued[j].ID })

	rows := make([][]string, 0, len(report.Issued))
	for _, is := range report.Issued {
		rows = append(rows, []string{
			is.FirstName, is.LastName, is.Email, is.Namespace, is.NamespaceSuffix, is.Username, is.WrappedToken,
		})
	}
	if err := export.Files(opts.OutputDir, "wrapped_tokens", tokenFields, rows, report.Issued); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("issued %d reveal tokens (%d skipped)", len(report.Issued), len(report.Skipped))
	}
	return report, nil
}

func username(a desired.Attendee) string {
	return strings.ToLower(strings.TrimSpace(a.FirstName))
}
