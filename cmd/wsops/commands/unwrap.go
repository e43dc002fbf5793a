package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/wsops/internal/config"
	"github.com/systmms/wsops/internal/tokens"
	"github.com/systmms/wsops/internal/vault"
)

// NewUnwrapCommand creates the unwrap command attendees run to redeem
// their one-time reveal token.
func NewUnwrapCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unwrap [token]",
		Short: "Redeem a one-time reveal token",
		Long: `Unwrap redeems a wrapped reveal token against the cluster and prints
the story secret it protects.

The token comes from the argument, the ` + tokens.TokenEnvVar + ` environment
variable, or a single line piped on stdin, in that order. A wrap token is
single-use: once redeemed (by anyone), it is gone. A second attempt fails,
which is also how to detect that someone else already read the secret.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}

			// Only consult stdin when something is actually piped in;
			// reading a terminal would block waiting for input.
			var stdin io.Reader
			if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice == 0 {
				stdin = os.Stdin
			}

			token, err := tokens.ResolveToken(arg, os.Getenv, stdin)
			if err != nil {
				return err
			}

			addr, err := cfg.RequireAddress()
			if err != nil {
				return err
			}

			// The wrap token is the only credential the redemption needs;
			// no admin token is involved.
			client, err := vault.New(vault.Config{
				Address: addr,
				Timeout: cfg.Timeout(),
			}, cfg.Logger)
			if err != nil {
				return err
			}

			payload, err := tokens.Reveal(cmd.Context(), client, token)
			if err != nil {
				return err
			}

			fmt.Print(payload.Render())
			return nil
		},
	}

	return cmd
}
