package cli

import (
	"fmt"
	"strings"

	"rigup/internal/config"
	"rigup/internal/shell"

	"github.com/spf13/cobra"
)

// newCloneCmd wires the `clone` command that fetches a pipeline
// repository via git.
func newCloneCmd(deps Deps) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "clone <url> [dir]",
		Short: "Clone a repository, injecting the configured access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) < 1 || len(args) > 2 {
				fmt.Fprintln(stderr, "require repository URL argument (and optional directory)")
				return cliError{code: 1}
			}

			rawURL := args[0]
			token := config.AccessToken()
			cloneURL := injectToken(rawURL, token)

			gitArgs := []string{"clone"}
			if branch != "" {
				gitArgs = append(gitArgs, "--branch", branch)
			}
			gitArgs = append(gitArgs, cloneURL)
			if len(args) == 2 {
				gitArgs = append(gitArgs, args[1])
			}

			res, err := deps.Run(cmd.Context(), "git", gitArgs, shell.Options{})
			if err != nil {
				fmt.Fprintf(stderr, "failed to launch git: %v\n", err)
				return cliError{code: 2}
			}
			if !res.Success() {
				// git echoes the clone URL, token included, in its
				// error output.
				fmt.Fprintf(stderr, "git clone failed (exit %d):\n%s", res.ExitCode, scrubToken(res.Combined, token))
				return cliError{code: 4}
			}

			fmt.Fprintf(stdout, "cloned %s\n", redactURL(cloneURL))
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to check out")
	return cmd
}

// scrubToken masks every occurrence of the access token in output
// relayed from a subprocess.
func scrubToken(output, token string) string {
	if token == "" {
		return output
	}
	return strings.ReplaceAll(output, token, "***")
}
