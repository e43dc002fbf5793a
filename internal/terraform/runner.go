// Package terraform drives the external provisioning engine. wsops only
// generates the variable file and shells out; reconciliation, resource
// tracking, and idempotence belong to Terraform and its own state, which
// wsops never reads or writes.
package terraform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/logging"
	"github.com/systmms/wsops/pkg/exec"
)

// Binary is the provisioning engine executable wsops invokes.
const Binary = "terraform"

// AttendeeOutput is one entry of the engine's post-apply attendee mapping,
// used for display only.
type AttendeeOutput struct {
	NamespacePath string `json:"namespace_path"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Company       string `json:"company"`
}

// Runner executes terraform in a fixed working directory.
type Runner struct {
	Dir    string
	Exec   exec.CommandExecutor
	Logger *logging.Logger
}

// NewRunner builds a Runner with the production executor.
func NewRunner(dir string, logger *logging.Logger) *Runner {
	return &Runner{Dir: dir, Exec: exec.DefaultExecutor(), Logger: logger}
}

// EnsureBinary verifies terraform is installed before anything mutating runs.
func (r *Runner) EnsureBinary() error {
	if _, err := r.Exec.LookPath(Binary); err != nil {
		return wserrors.ConfigError{
			Field:      "terraform",
			Message:    "terraform binary not found on PATH",
			Suggestion: "Install Terraform from https://developer.hashicorp.com/terraform/install",
		}
	}
	return nil
}

// Init runs 'terraform init' non-interactively.
func (r *Runner) Init(ctx context.Context) error {
	return r.run(ctx, "init", "-input=false", "-no-color")
}

// Apply reconciles the desired state in varFile into live resources.
func (r *Runner) Apply(ctx context.Context, varFile string) error {
	return r.run(ctx, "apply", "-auto-approve", "-input=false", "-no-color", "-var-file="+varFile)
}

// Outputs decodes 'terraform output -json attendees' into the post-apply
// attendee mapping.
func (r *Runner) Outputs(ctx context.Context) (map[string]AttendeeOutput, error) {
	stdout, stderr, err := r.Exec.Execute(ctx, r.Dir, Binary, "output", "-json", "attendees")
	if err != nil {
		return nil, fmt.Errorf("terraform output failed: %s: %w", strings.TrimSpace(string(stderr)), err)
	}

	var outputs map[string]AttendeeOutput
	if err := json.Unmarshal(stdout, &outputs); err != nil {
		return nil, fmt.Errorf("failed to decode terraform outputs: %w", err)
	}
	return outputs, nil
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	if r.Logger != nil {
		r.Logger.Debug("running terraform %s in %s", strings.Join(args, " "), r.Dir)
	}

	_, stderr, err := r.Exec.Execute(ctx, r.Dir, Binary, args...)
	if err != nil {
		return fmt.Errorf("terraform %s failed: %s: %w", args[0], strings.TrimSpace(string(stderr)), err)
	}
	if r.Logger != nil {
		r.Logger.Info("terraform %s completed", args[0])
	}
	return nil
}
