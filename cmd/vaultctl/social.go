package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/models"
)

var errInvalidContactFlag = errors.New(`contact must be "email" or "email=name"`)

func (c *cli) newSocialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Split the recovery seed across trusted contacts",
		Long: `Social recovery splits the vault seed into one shard per contact, any
threshold of which rebuild it. Each shard is sealed to the recovery ID and the
contact's exact email, so a contact can only open their own shard.`,
	}

	cmd.AddCommand(
		c.newSocialSetupCmd(),
		c.newSocialListCmd(),
		c.newSocialShardCmd(),
		c.newSocialRecoverCmd(),
	)
	return cmd
}

func (c *cli) newSocialSetupCmd() *cobra.Command {
	var (
		contacts  []string
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "setup <vault-id>",
		Short: "Enrol contacts and print the recovery ID",
		Long: `Enrols 3 to 10 contacts. The recovery phrase is needed because the seed
is never stored.

Examples:
  vaultctl social setup 8f4b5c1e-... \
    --contact alice@example.com=Alice \
    --contact bob@example.com=Bob \
    --contact carol@example.com=Carol \
    --threshold 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseContacts(contacts)
			if err != nil {
				return err
			}

			phrase, err := c.streams.text("Recovery phrase: ")
			if err != nil {
				return err
			}

			bundle, err := c.app.services.RecoveryService.SetupSocial(cmd.Context(), args[0], phrase, parsed, threshold)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.streams.out, "Recovery ID: %s\n", bundle.RecoveryID)
			fmt.Fprintf(c.streams.out, "Threshold:   %d of %d\n\n", bundle.Threshold, bundle.TotalShares)

			w := tabwriter.NewWriter(c.streams.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHARE\tEMAIL\tNAME")
			for _, shard := range bundle.Contacts {
				fmt.Fprintf(w, "%d\t%s\t%s\n", shard.ShareIndex, shard.Email, shard.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringArrayVar(&contacts, "contact", nil, `contact as "email" or "email=name" (repeatable)`)
	cmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "shards needed to recover (default 3)")
	_ = cmd.MarkFlagRequired("contact")
	return cmd
}

func (c *cli) newSocialListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <vault-id>",
		Short: "List the recovery IDs enrolled for a vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundles, err := c.app.services.RecoveryService.SocialBundles(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.streams.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RECOVERY ID\tTHRESHOLD\tCONTACTS\tCREATED")
			for _, b := range bundles {
				emails := make([]string, 0, len(b.Contacts))
				for _, shard := range b.Contacts {
					emails = append(emails, shard.Email)
				}
				fmt.Fprintf(w, "%s\t%d of %d\t%s\t%s\n",
					b.RecoveryID, b.Threshold, b.TotalShares, strings.Join(emails, ","), b.Created.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func (c *cli) newSocialShardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shard <recovery-id> <email>",
		Short: "Open the shard enrolled for a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			share, err := c.app.services.RecoveryService.DecryptContactShard(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(c.streams.out, share)
			return nil
		},
	}
}

func (c *cli) newSocialRecoverCmd() *cobra.Command {
	var (
		token  string
		shares []string
	)

	cmd := &cobra.Command{
		Use:   "recover <recovery-id>",
		Short: "Rebuild the seed from contact shards and set a new password",
		Long: `Rebuilds the seed from the shards returned by "vaultctl social shard" and
re-keys the vault under a new password. --token must come from
"vaultctl token new <vault-id> --method social".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			newPassword, err := c.streams.newPassword("New password: ")
			if err != nil {
				return err
			}

			err = c.app.services.RecoveryService.RecoverWithShards(cmd.Context(), token, args[0], shares, newPassword)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.streams.out, "Password reset")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "recovery token")
	cmd.Flags().StringArrayVar(&shares, "share", nil, "decrypted shard (repeatable)")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("share")
	return cmd
}

// parseContacts turns "email" or "email=name" flag values into contacts.
func parseContacts(values []string) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0, len(values))
	for _, v := range values {
		email, name, _ := strings.Cut(v, "=")
		email = strings.TrimSpace(email)
		if email == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidContactFlag, v)
		}
		contacts = append(contacts, models.Contact{Email: email, Name: strings.TrimSpace(name)})
	}
	return contacts, nil
}
