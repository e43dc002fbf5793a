package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/creds"
	"github.com/systmms/wsops/internal/desired"
	"github.com/systmms/wsops/internal/vault"
)

// NewStatusCommand creates the status command: a read-only cross-check of
// desired versus live state.
func NewStatusCommand(cfg *config.Config) *cobra.Command {
	var verifyLogin bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the desired state with the live cluster",
		Long: `Status lists every namespace the desired state expects and whether it
exists on the cluster, plus live workshop namespaces that nothing in the
desired state accounts for (orphans). It never changes anything.

With --verify-login, status additionally attempts a userpass login in each
present namespace using the issued credentials, discarding the resulting
token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
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

			parent := cfg.Definition.Vault.ParentNamespace
			prefix := cfg.Definition.Workshop.TeamPrefix
			live, err := client.ListNamespaces(cmd.Context(), parent, prefix)
			if err != nil {
				return err
			}

			liveSet := map[string]bool{}
			for _, name := range live {
				liveSet[name] = true
			}

			expected := plan.ExpectedNamespaces(prefix)
			expectedSet := map[string]bool{}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAMESPACE\tDESIRED\tLIVE")

			missing := 0
			for _, name := range expected {
				expectedSet[name] = true
				state := "present"
				if !liveSet[name] {
					state = "missing"
					missing++
				}
				fmt.Fprintf(w, "%s/%s\tyes\t%s\n", parent, name, state)
			}

			orphans := 0
			for _, name := range live {
				if !expectedSet[name] {
					orphans++
					fmt.Fprintf(w, "%s/%s\tno\torphan\n", parent, name)
				}
			}
			w.Flush()

			cfg.Logger.Info("%d expected, %d missing, %d orphaned", len(expected), missing, orphans)
			if missing > 0 {
				cfg.Logger.Warn("run 'wsops full' to reconcile missing namespaces")
			}
			if orphans > 0 {
				cfg.Logger.Warn("run 'wsops nuke --include-orphans' to remove orphans")
			}

			if verifyLogin {
				return runVerifyLogin(cmd, cfg, client, plan, liveSet)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verifyLogin, "verify-login", false, "Attempt a userpass login in each present namespace with the issued credentials")

	return cmd
}

// runVerifyLogin checks that the issued credentials actually work, one
// login per present namespace. Missing namespaces are skipped; they are
// already reported in the table.
func runVerifyLogin(cmd *cobra.Command, cfg *config.Config, client *vault.Client, plan *desired.Plan, liveSet map[string]bool) error {
	parent := cfg.Definition.Vault.ParentNamespace
	prefix := cfg.Definition.Workshop.TeamPrefix

	failed := 0
	for _, id := range plan.IDs() {
		a := plan.Attendees[id]
		if !liveSet[desired.Namespace(prefix, a)] {
			continue
		}

		bundle, err := creds.Derive(id, a, creds.Options{
			ParentNamespace: parent,
			TeamPrefix:      prefix,
		}, cfg.Logger)
		if err != nil {
			cfg.Logger.Warn("%v", err)
			continue
		}

		if err := client.VerifyUserpass(cmd.Context(), bundle.Namespace, bundle.Username, bundle.Password); err != nil {
			cfg.Logger.Error("login check failed for %s: %v", bundle.Namespace, err)
			failed++
			continue
		}
		cfg.Logger.Info("login ok for %s as %s", bundle.Namespace, bundle.Username)
	}

	if failed > 0 {
		return fmt.Errorf("%d namespaces failed the login check", failed)
	}
	return nil
}
