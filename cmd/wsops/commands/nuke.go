package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/nuke"
)

// NewNukeCommand creates the nuke command: guarded bulk deletion of every
// workshop namespace.
func NewNukeCommand(cfg *config.Config) *cobra.Command {
	var (
		dryRun         bool
		includeOrphans bool
	)

	cmd := &cobra.Command{
		Use:   "nuke",
		Short: "Delete every workshop namespace on the cluster",
		Long: `Nuke deletes the workshop namespaces derived from the desired state,
plus (with --include-orphans) live namespaces matching the workshop naming
convention that the desired state no longer accounts for.

Two independent guards must both pass before anything is deleted:

  1. ` + nuke.AllowEnvVar + `=true in the environment
  2. typing "` + nuke.ConfirmPhrase + `" at the interactive prompt

Deletion goes straight through the cluster API and bypasses the Terraform
state; re-running 'wsops full' afterwards recreates everything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			// The environment guard runs first in every mode, dry run
			// included: a disarmed nuke fails the same way no matter how
			// it is invoked.
			if err := nuke.Allowed(os.Getenv); err != nil {
				return err
			}

			plan, err := loadPlan(cfg)
			if err != nil {
				return err
			}

			client, err := newAdminClient(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			parent := cfg.Definition.Vault.ParentNamespace
			prefix := cfg.Definition.Workshop.TeamPrefix

			var live []string
			if includeOrphans {
				live, err = client.ListNamespaces(ctx, parent, prefix)
				if err != nil {
					return err
				}
			}

			targets := nuke.BuildPlan(plan.ExpectedNamespaces(prefix), live, includeOrphans)
			if len(targets) == 0 {
				cfg.Logger.Info("nothing to delete")
				return nil
			}

			fmt.Printf("The following %d namespaces will be deleted:\n\n", len(targets))
			for _, target := range targets {
				fmt.Printf("  %s/%s (%s)\n", parent, target.Name, target.Origin)
			}
			fmt.Println()

			if dryRun {
				cfg.Logger.Info("dry run: no namespaces were deleted")
				return nil
			}

			if err := nuke.Confirm(os.Stdin, os.Stdout, cfg.NonInteractive); err != nil {
				return err
			}

			report := nuke.Execute(ctx, client, parent, targets, cfg.Logger)
			cfg.Logger.Info("deleted %d of %d namespaces", len(report.Deleted), len(targets))
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d namespaces could not be deleted", len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the deletion plan and stop")
	cmd.Flags().BoolVar(&includeOrphans, "include-orphans", false, "Also delete live workshop namespaces absent from the desired state")

	return cmd
}
