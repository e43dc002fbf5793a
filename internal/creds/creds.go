// Package creds derives per-attendee login credentials and environment
// bundles from the desired state.
package creds

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/systmms/wsops/internal/desired"
	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/logging"
)

// Password scheme for workshop users. Weak on purpose: the namespaces are
// throwaway and the password is read out loud in the room.
const (
	passwordPrefix = "VaultWorkshop-"
	passwordSuffix = "!"
)

// Bundle is the credential set for one attendee.
type Bundle struct {
	ID              string `json:"-"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Namespace       string `json:"namespace"`
	NamespaceSuffix string `json:"namespace_suffix"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	VaultAddr       string `json:"vault_addr"`
}

// Skip records one attendee whose credentials could not be issued.
type Skip struct {
	ID     string
	Reason string
}

// Report is the outcome of a credential issuance batch.
type Report struct {
	Issued  []Bundle
	Skipped []Skip
}

// Options configures an issuance run.
type Options struct {
	VaultAddr       string
	ParentNamespace string
	TeamPrefix      string
	OutputDir       string
}

// Password derives the workshop password for a username.
func Password(username string) string {
	return passwordPrefix + username + passwordSuffix
}

// Derive computes the credential bundle for one attendee. A missing
// namespace suffix is non-fatal: the username stands in, with a warning.
func Derive(id string, a desired.Attendee, opts Options, logger *logging.Logger) (Bundle, error) {
	username := strings.ToLower(strings.TrimSpace(a.FirstName))
	if username == "" {
		return Bundle{}, wserrors.AttendeeError{
			ID:   id,
			Step: "credential derivation",
			Err:  fmt.Errorf("attendee has no first name to derive a username from"),
		}
	}

	suffix := a.NamespaceSuffix
	if suffix == "" {
		if logger != nil {
			logger.Warn("attendee %s has no namespace suffix; falling back to username %q", id, username)
		}
		suffix = username
	}

	return Bundle{
		ID:              id,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Email:           a.Email,
		Namespace:       opts.ParentNamespace + "/" + opts.TeamPrefix + suffix,
		NamespaceSuffix: suffix,
		Username:        username,
		Password:        Password(username),
		VaultAddr:       opts.VaultAddr,
	}, nil
}

// Issue derives credentials for every attendee in the plan and writes the
// aggregate CSV, the aggregate JSON, and one environment bundle per
// attendee. One malformed record never aborts the batch: it is logged,
// recorded as skipped, and the rest proceed.
func Issue(plan *desired.Plan, opts Options, logger *logging.Logger) (*Report, error) {
	if err := os.MkdirAll(filepath.Join(opts.OutputDir, "env"), 0o755); err != nil {
		return nil, wserrors.ConfigError{
			Field:   "output_dir",
			Value:   opts.OutputDir,
			Message: "failed to create output directory: " + err.Error(),
		}
	}

	report := &Report{}
	for _, id := range plan.IDs() {
		bundle, err := Derive(id, plan.Attendees[id], opts, logger)
		if err != nil {
			if logger != nil {
				logger.Error("%v", err)
			}
			report.Skipped = append(report.Skipped, Skip{ID: id, Reason: err.Error()})
			continue
		}

		// Bundle files are keyed by namespace suffix, not attendee id:
		// duplicate first names share a username but never a suffix.
		if err := writeEnvBundle(filepath.Join(opts.OutputDir, "env", bundle.NamespaceSuffix+".env"), bundle); err != nil {
			if logger != nil {
				logger.Error("%v", err)
			}
			report.Skipped = append(report.Skipped, Skip{ID: id, Reason: err.Error()})
			continue
		}

		report.Issued = append(report.Issued, bundle)
	}

	sort.Slice(report.Issued, func(i, j int) bool { return report.Issued[i].ID < report.Issued[j].ID })

	if err := writeAggregates(opts.OutputDir, "credentials", credentialFields, report.Issued); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("issued credentials for %d attendees (%d skipped)", len(report.Issued), len(report.Skipped))
	}
	return report, nil
}

// writeEnvBundle renders the per-attendee environment file. The broker
// fields are intentionally blank for manual fill-in.
func writeEnvBundle(path string, b Bundle) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "VAULT_ADDR=%s\n", b.VaultAddr)
	fmt.Fprintf(&sb, "VAULT_NAMESPACE=%s\n", b.Namespace)
	fmt.Fprintf(&sb, "VAULT_USERNAME=%s\n", b.Username)
	fmt.Fprintf(&sb, "VAULT_PASSWORD=%s\n", b.Password)
	sb.WriteString("BOUNDARY_ADDR=\n")
	sb.WriteString("BOUNDARY_USERNAME=\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return wserrors.AttendeeError{
			ID:   b.ID,
			Step: "env bundle write",
			Err:  err,
		}
	}
	return nil
}
