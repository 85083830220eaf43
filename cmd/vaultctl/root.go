package main

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
)

// cli is one invocation of vaultctl: the command tree, its streams and
// the app opened for the subcommand that runs.
type cli struct {
	root    *cobra.Command
	streams *streams
	app     *app
	verbose bool
}

func newCLI(s *streams) *cli {
	c := &cli{streams: s}

	c.root = &cobra.Command{
		Use:          "vaultctl",
		Short:        "Manage encrypted vaults and their recovery methods",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			a, err := newApp(cmd.Context(), cmd.Flags(), s, c.verbose)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	c.root.SetIn(s.in)
	c.root.SetOut(s.out)
	c.root.SetErr(s.err)

	config.RegisterFlags(c.root.PersistentFlags())
	c.root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	c.root.AddCommand(
		c.newCreateCmd(),
		c.newUnlockCmd(),
		c.newUpdateCmd(),
		c.newChangePasswordCmd(),
		c.newRecoverCmd(),
		c.newExportCmd(),
		c.newImportCmd(),
		c.newListCmd(),
		c.newDeleteCmd(),
		c.newSocialCmd(),
		c.newHardwareCmd(),
		c.newTokenCmd(),
	)

	return c
}

// execute runs the command selected by args and releases the app, whether
// or not the command succeeded.
func (c *cli) execute(args []string) error {
	c.root.SetArgs(args)
	defer c.close()

	return c.root.Execute()
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}
