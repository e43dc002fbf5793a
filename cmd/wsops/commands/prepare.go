package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/desired"
	wserrors "github.com/systmms/wsops/internal/errors"
	"github.com/systmms/wsops/internal/roster"
)

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand(cfg *config.Config) *cobra.Command {
	var rosterPath string

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Generate the desired-state file from the attendee roster",
		Long: `Prepare reads the attendee CSV export, assigns every attendee a
unique identifier and namespace suffix, and writes the desired-state
variable file consumed by the provisioning engine.

Regeneration fully replaces the file; nothing is merged. Running prepare
twice on the same export produces identical bytes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			_, err := runPrepare(cfg, rosterPath)
			return err
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "Attendee CSV export (default from wsops.yaml)")

	return cmd
}

// runPrepare executes the prepare pipeline and returns the generated plan
// so the full command can reuse it.
func runPrepare(cfg *config.Config, rosterPath string) (*desired.Plan, error) {
	if rosterPath == "" {
		rosterPath = cfg.Definition.Workshop.Roster
	}
	if rosterPath == "" {
		return nil, wserrors.ConfigError{
			Field:      "roster",
			Message:    "no roster file configured",
			Suggestion: "Pass --roster or set workshop.roster in wsops.yaml",
		}
	}

	f, err := os.Open(rosterPath)
	if err != nil {
		return nil, wserrors.ConfigError{
			Field:      "roster",
			Value:      rosterPath,
			Message:    "failed to open roster: " + err.Error(),
			Suggestion: "Check the path to the attendee CSV export",
		}
	}
	defer f.Close()

	attendees, err := roster.Parse(f)
	if err != nil {
		return nil, err
	}

	identities := roster.Assign(attendees, cfg.Logger)
	plan, err := desired.Build(identities)
	if err != nil {
		return nil, err
	}

	path := varFilePath(cfg)
	if err := os.MkdirAll(cfg.Definition.Terraform.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create terraform directory: %w", err)
	}
	if err := plan.WriteFile(path); err != nil {
		return nil, err
	}

	cfg.Logger.Info("wrote desired state for %d attendees to %s", len(plan.Attendees), path)
	return plan, nil
}
