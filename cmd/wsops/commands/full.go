package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/creds"
	"github.com/systmms/wsops/internal/desired"
	"github.com/systmms/wsops/internal/terraform"
	"github.com/systmms/wsops/internal/tokens"
)

// NewFullCommand creates the full command: the whole provisioning pipeline
// in one run.
func NewFullCommand(cfg *config.Config) *cobra.Command {
	var (
		rosterPath string
		skipTF     bool
		skipCreds  bool
		skipWrap   bool
	)

	cmd := &cobra.Command{
		Use:   "full",
		Short: "Run the whole pipeline: prepare, apply, credentials, tokens",
		Long: `Full runs every provisioning stage in order:

  1. prepare      regenerate the desired-state file from the roster
  2. terraform    init and apply the desired state (--skip-tf to skip)
  3. credentials  derive per-attendee credentials (--skip-creds to skip)
  4. tokens       wrap each attendee's story secret (--skip-wrap to skip)

Stages 3 and 4 tolerate per-attendee failures: a bad record is logged and
skipped while the rest of the batch proceeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			ctx := cmd.Context()

			plan, err := runPrepare(cfg, rosterPath)
			if err != nil {
				return err
			}

			if !skipTF {
				if err := runApply(ctx, cfg); err != nil {
					return err
				}
			} else {
				cfg.Logger.Warn("skipping terraform apply (--skip-tf)")
			}

			if !skipCreds {
				addr, err := cfg.RequireAddress()
				if err != nil {
					return err
				}
				if _, err := creds.Issue(plan, creds.Options{
					VaultAddr:       addr,
					ParentNamespace: cfg.Definition.Vault.ParentNamespace,
					TeamPrefix:      cfg.Definition.Workshop.TeamPrefix,
					OutputDir:       cfg.Definition.Workshop.OutputDir,
				}, cfg.Logger); err != nil {
					return err
				}
			} else {
				cfg.Logger.Warn("skipping credential issuance (--skip-creds)")
			}

			if !skipWrap {
				if err := runWrap(ctx, cfg, plan); err != nil {
					return err
				}
			} else {
				cfg.Logger.Warn("skipping token wrapping (--skip-wrap)")
			}

			cfg.Logger.Info("workshop provisioning complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "Attendee CSV export (default from wsops.yaml)")
	cmd.Flags().BoolVar(&skipTF, "skip-tf", false, "Skip the terraform init/apply stage")
	cmd.Flags().BoolVar(&skipCreds, "skip-creds", false, "Skip credential issuance")
	cmd.Flags().BoolVar(&skipWrap, "skip-wrap", false, "Skip reveal-token wrapping")

	return cmd
}

func runApply(ctx context.Context, cfg *config.Config) error {
	runner := terraform.NewRunner(cfg.Definition.Terraform.Dir, cfg.Logger)
	if err := runner.EnsureBinary(); err != nil {
		return err
	}
	if err := runner.Init(ctx); err != nil {
		return err
	}
	if err := runner.Apply(ctx, cfg.Definition.Terraform.VarFile); err != nil {
		return err
	}

	// Display only; the plan stays the source of truth for later stages.
	outputs, err := runner.Outputs(ctx)
	if err != nil {
		cfg.Logger.Warn("could not read terraform outputs: %v", err)
		return nil
	}
	for id, out := range outputs {
		cfg.Logger.Debug("provisioned %s for %s", out.NamespacePath, id)
	}
	cfg.Logger.Info("terraform reports %d attendee namespaces", len(outputs))
	return nil
}

func runWrap(ctx context.Context, cfg *config.Config, plan *desired.Plan) error {
	client, err := newAdminClient(cfg)
	if err != nil {
		return err
	}
	_, err = tokens.Issue(ctx, plan, client, tokens.Options{
		ParentNamespace: cfg.Definition.Vault.ParentNamespace,
		TeamPrefix:      cfg.Definition.Workshop.TeamPrefix,
		WrapTTL:         cfg.Definition.Workshop.WrapTTL,
		OutputDir:       cfg.Definition.Workshop.OutputDir,
	}, cfg.Logger)
	return err
}
