package cli

import (
	"fmt"
	"strings"

	"rigup/internal/config"

	"github.com/spf13/cobra"
)

// newVerifyCmd wires the `verify` command that checks the environment a
// pipeline workstation needs before any other command runs.
func newVerifyCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify required environment variables are set",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) > 0 {
				fmt.Fprintln(stderr, "unexpected arguments")
				return cliError{code: 1}
			}

			loaded, err := config.LoadEnvFile(envFile)
			if err != nil {
				fmt.Fprintf(stderr, "failed to load %s: %v\n", envFile, err)
				return cliError{code: 5}
			}
			if loaded {
				fmt.Fprintf(stdout, "loaded environment from %s\n", envFile)
			}

			required := config.RequiredVars()
			missing := config.Require(required...)
			missingSet := make(map[string]bool, len(missing))
			for _, name := range missing {
				missingSet[name] = true
			}

			for _, name := range required {
				if missingSet[name] {
					fmt.Fprintf(stdout, "missing  %s\n", name)
					continue
				}
				fmt.Fprintf(stdout, "ok       %s\n", name)
			}

			if len(missing) > 0 {
				fmt.Fprintf(stderr, "missing required environment variables: %s\n", strings.Join(missing, ", "))
				return cliError{code: 1}
			}

			fmt.Fprintln(stdout, "environment verified")
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "env file merged into the environment when present")
	return cmd
}
