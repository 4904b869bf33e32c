package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root rigup command and attaches all subcommands.
func newRootCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rigup",
		Short:         "Build-orchestration CLI for CI/CD pipeline setup",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "require subcommand (run 'rigup help' for usage)")
			return cliError{code: 1}
		},
	}

	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newCloneCmd(deps))
	cmd.AddCommand(newHelmCmd(deps))
	cmd.AddCommand(newInstallCmd(deps))
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newUninstallCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
