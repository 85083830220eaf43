package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/crypto"
	"github.com/MKhiriev/go-vault-keeper/internal/recovery"
)

func (c *cli) newHardwareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Back up the recovery seed under a printable key",
	}

	cmd.AddCommand(
		c.newHardwareGenerateCmd(),
		c.newHardwareSetupCmd(),
		c.newHardwareRecoverCmd(),
	)
	return cmd
}

func (c *cli) newHardwareGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate a new backup key",
		Long: `Prints a new random backup key. Store it offline; only its fingerprint is
kept once "vaultctl hardware setup" has used it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := c.app.services.RecoveryService.GenerateHardwareKey(cmd.Context())
			if err != nil {
				return err
			}
			defer crypto.Zero(key.KeyBytes)

			fmt.Fprintf(c.streams.out, "Backup key:  %s\n", key.BackupKey)
			fmt.Fprintf(c.streams.out, "Fingerprint: %s\n", key.KeyHash)
			return nil
		},
	}
}

func (c *cli) newHardwareSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup <vault-id>",
		Short: "Seal the vault seed under a backup key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase, err := c.streams.text("Recovery phrase: ")
			if err != nil {
				return err
			}
			text, err := c.streams.secret("Backup key: ")
			if err != nil {
				return err
			}

			keyBytes, err := recovery.ParseBackupKey(text)
			if err != nil {
				return err
			}
			defer crypto.Zero(keyBytes)

			record, err := c.app.services.RecoveryService.SetupHardware(cmd.Context(), args[0], phrase, keyBytes)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Hardware recovery set up (fingerprint %s)\n", record.KeyHash)
			return nil
		},
	}
}

func (c *cli) newHardwareRecoverCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Open the seed with a backup key and set a new password",
		Long: `Finds the vault the backup key belongs to and re-keys it under a new
password. --token must come from "vaultctl token new <vault-id> --method hardware".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backupKey, err := c.streams.secret("Backup key: ")
			if err != nil {
				return err
			}
			newPassword, err := c.streams.newPassword("New password: ")
			if err != nil {
				return err
			}

			vaultID, err := c.app.services.RecoveryService.RecoverWithHardwareKey(cmd.Context(), token, backupKey, newPassword)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Password reset for vault %s\n", vaultID)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "recovery token")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
