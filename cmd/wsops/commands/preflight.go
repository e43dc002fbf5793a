package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/terraform"
)

// check is one preflight verification.
type check struct {
	Name     string
	Required bool
	Run      func() error
}

// NewPreflightCommand creates the preflight command.
func NewPreflightCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Verify binaries, configuration, and cluster connectivity",
		Long: `Preflight checks everything a provisioning run needs:

- the terraform binary on PATH
- the cluster address (VAULT_ADDR or wsops.yaml)
- an admin token (VAULT_TOKEN or the OS keyring)
- cluster health (reachable, initialized, unsealed)
- the desired-state file, if one has been generated

Required failures exit non-zero with remediation steps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			return runPreflight(cfg)
		},
	}

	return cmd
}

func runPreflight(cfg *config.Config) error {
	runner := terraform.NewRunner(cfg.Definition.Terraform.Dir, cfg.Logger)

	checks := []check{
		{
			Name:     "terraform binary",
			Required: true,
			Run:      runner.EnsureBinary,
		},
		{
			Name:     "cluster address",
			Required: true,
			Run: func() error {
				_, err := cfg.RequireAddress()
				return err
			},
		},
		{
			Name:     "admin token",
			Required: true,
			Run: func() error {
				tok, err := config.AdminToken()
				if err != nil {
					return err
				}
				tok.Destroy()
				return nil
			},
		},
		{
			Name:     "cluster health",
			Required: true,
			Run: func() error {
				client, err := newAdminClient(cfg)
				if err != nil {
					return err
				}
				return client.Health(context.Background())
			},
		},
		{
			Name:     "desired-state file",
			Required: false,
			Run: func() error {
				_, err := loadPlan(cfg)
				return err
			},
		},
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")

	failed := false
	for _, c := range checks {
		if err := c.Run(); err != nil {
			status := "FAIL"
			if !c.Required {
				status = "WARN"
			} else {
				failed = true
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, status, firstLine(err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s\tOK\t\n", c.Name)
	}
	w.Flush()

	if failed {
		return fmt.Errorf("preflight found unmet preconditions; fix the FAIL rows above")
	}
	cfg.Logger.Info("preflight passed")
	return nil
}
