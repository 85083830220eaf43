package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/models"
)

func (c *cli) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and check recovery tokens",
	}

	cmd.AddCommand(
		c.newTokenNewCmd(),
		c.newTokenVerifyCmd(),
	)
	return cmd
}

func (c *cli) newTokenNewCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "new <vault-id>",
		Short: "Open a recovery session and print its token",
		Long: `Opens a recovery session for the vault. The token is printed once; only its
hash is stored. It expires after the configured recovery TTL and completes at
most one recovery.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.app.services.RecoveryService.StartRecovery(cmd.Context(), args[0], models.RecoveryMethod(method))
			if err != nil {
				return err
			}

			session, err := c.app.services.RecoveryService.VerifyToken(cmd.Context(), token)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Token:   %s\n", token)
			fmt.Fprintf(c.streams.out, "Expires: %s\n", session.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", string(models.RecoveryMethodSocial), "recovery method: phrase, social or hardware")
	return cmd
}

func (c *cli) newTokenVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Show the recovery session behind a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.app.services.RecoveryService.VerifyToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Vault ID: %s\n", session.VaultID)
			fmt.Fprintf(c.streams.out, "Method:   %s\n", session.Method)
			fmt.Fprintf(c.streams.out, "Expires:  %s\n", session.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}
}
