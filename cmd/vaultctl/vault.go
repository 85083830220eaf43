package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/models"
)

func (c *cli) newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new vault and print its recovery phrase",
		Long: `Creates an empty vault sealed under a new password.

The 12-word recovery phrase is printed once and never stored. Write it down:
it is the only way back in without the password, and it is needed to set up
social or hardware recovery later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.streams.newPassword("New password: ")
			if err != nil {
				return err
			}

			created, err := c.app.services.VaultService.Create(cmd.Context(), password)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Vault ID:        %s\n", created.VaultID)
			fmt.Fprintf(c.streams.out, "Recovery phrase: %s\n", created.Phrase)
			return nil
		},
	}
}

func (c *cli) newUnlockCmd() *cobra.Command {
	var withPhrase bool

	cmd := &cobra.Command{
		Use:   "unlock <vault-id>",
		Short: "Decrypt a vault and print its payload as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := c.unlock(cmd, args[0], withPhrase)
			if err != nil {
				return err
			}
			return writeJSON(c.streams.out, payload)
		},
	}

	cmd.Flags().BoolVar(&withPhrase, "phrase", false, "unlock with the recovery phrase instead of the password")
	return cmd
}

func (c *cli) unlock(cmd *cobra.Command, vaultID string, withPhrase bool) (models.Payload, error) {
	if withPhrase {
		phrase, err := c.streams.text("Recovery phrase: ")
		if err != nil {
			return models.Payload{}, err
		}
		return c.app.services.VaultService.UnlockWithPhrase(cmd.Context(), vaultID, phrase)
	}

	password, err := c.streams.secret("Password: ")
	if err != nil {
		return models.Payload{}, err
	}
	return c.app.services.VaultService.Unlock(cmd.Context(), vaultID, password)
}

func (c *cli) newUpdateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <vault-id>",
		Short: "Replace the vault payload with a JSON document",
		Long: `Replaces the payload of the vault with the JSON document read from --file.

The document has the shape printed by "vaultctl unlock". Use "-" to read it
from standard input, in which case the password must come from a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(c.streams, file)
			if err != nil {
				return err
			}

			password, err := c.streams.secret("Password: ")
			if err != nil {
				return err
			}

			if err = c.app.services.VaultService.Update(cmd.Context(), args[0], password, payload); err != nil {
				return err
			}

			fmt.Fprintln(c.streams.out, "Vault updated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "payload JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) newChangePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password <vault-id>",
		Short: "Re-key a vault under a new password",
		Long:  `Re-keys the vault. The recovery phrase and every recovery method keep working.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPassword, err := c.streams.secret("Current password: ")
			if err != nil {
				return err
			}
			newPassword, err := c.streams.newPassword("New password: ")
			if err != nil {
				return err
			}

			if err = c.app.services.VaultService.ChangePassword(cmd.Context(), args[0], oldPassword, newPassword); err != nil {
				return err
			}

			fmt.Fprintln(c.streams.out, "Password changed")
			return nil
		},
	}
}

func (c *cli) newRecoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recover <vault-id>",
		Short: "Set a new password using the recovery phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase, err := c.streams.text("Recovery phrase: ")
			if err != nil {
				return err
			}
			newPassword, err := c.streams.newPassword("New password: ")
			if err != nil {
				return err
			}

			if err = c.app.services.VaultService.ResetPasswordWithPhrase(cmd.Context(), args[0], phrase, newPassword); err != nil {
				return err
			}

			fmt.Fprintln(c.streams.out, "Password reset")
			return nil
		},
	}
}

func (c *cli) newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <vault-id>",
		Short: "Write the encrypted vault envelope for backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.app.services.VaultService.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				fmt.Fprintln(c.streams.out, data)
				return nil
			}
			if err = os.WriteFile(output, []byte(data), 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(c.streams.out, "Vault exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *cli) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store an exported envelope under a new vault ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(c.streams, args[0])
			if err != nil {
				return err
			}

			vaultID, err := c.app.services.VaultService.Import(cmd.Context(), data)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Vault ID: %s\n", vaultID)
			return nil
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored vaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vaults, err := c.app.services.VaultService.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.streams.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VAULT ID\tREVISION\tCREATED\tUPDATED")
			for _, v := range vaults {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					v.VaultID, v.Revision,
					v.CreatedAt.Local().Format(time.DateTime),
					v.UpdatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vault-id>",
		Short: "Delete a vault and every recovery record bound to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.services.VaultService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintln(c.streams.out, "Vault deleted")
			return nil
		},
	}
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads path, or standard input when path is "-".
func readInput(s *streams, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(s.lines)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func readPayload(s *streams, path string) (models.Payload, error) {
	data, err := readInput(s, path)
	if err != nil {
		return models.Payload{}, err
	}
	return models.DecodePayload(data)
}
