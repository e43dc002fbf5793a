package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	wserrors "github.com/systmms/wsops/internal/errors"
)

// NewLoginCommand creates the login command: store or forget the admin
// token in the OS keyring so VAULT_TOKEN does not have to live in shell
// history or profile files.
func NewLoginCommand(cfg *config.Config) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the admin token in the OS keyring",
		Long: `Login stores the cluster admin token in the OS keyring. Later runs
resolve the token from VAULT_TOKEN first, then the keyring.

The token is read from VAULT_TOKEN when set, otherwise from a prompt.
Use --forget to remove a stored token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if forget {
				if err := config.ForgetAdminToken(); err != nil {
					return err
				}
				cfg.Logger.Info("removed stored admin token")
				return nil
			}

			token := strings.TrimSpace(os.Getenv("VAULT_TOKEN"))
			if token == "" {
				if cfg.NonInteractive {
					return wserrors.ConfigError{
						Field:      "token",
						Message:    "no token to store",
						Suggestion: "Set VAULT_TOKEN before running 'wsops login' non-interactively",
					}
				}
				fmt.Print("Admin token: ")
				scanner := bufio.NewScanner(os.Stdin)
				if scanner.Scan() {
					token = strings.TrimSpace(scanner.Text())
				}
			}

			if err := config.StoreAdminToken(token); err != nil {
				return err
			}
			cfg.Logger.Info("stored admin token in the OS keyring (service %q)", config.KeyringService)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "Remove the stored admin token")

	return cmd
}
