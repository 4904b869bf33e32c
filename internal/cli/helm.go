package cli

import (
	"fmt"
	"strings"

	"rigup/internal/shell"

	"github.com/spf13/cobra"
)

const (
	defaultHelmRepoName = "stable"
	defaultHelmRepoURL  = "https://charts.helm.sh/stable"
)

// newHelmCmd groups the helm client operations.
func newHelmCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helm",
		Short: "Initialize and inspect the helm client",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "require helm subcommand")
			return cliError{code: 1}
		},
	}

	cmd.AddCommand(newHelmInitCmd(deps))
	cmd.AddCommand(newHelmVersionCmd(deps))
	return cmd
}

func newHelmInitCmd(deps Deps) *cobra.Command {
	var repoName, repoURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Register the chart repository and refresh the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) > 0 {
				fmt.Fprintln(stderr, "unexpected arguments")
				return cliError{code: 1}
			}

			steps := [][]string{
				{"repo", "add", repoName, repoURL},
				{"repo", "update"},
			}
			for _, step := range steps {
				res, err := deps.Run(cmd.Context(), "helm", step, shell.Options{})
				if err != nil {
					fmt.Fprintf(stderr, "failed to launch helm: %v\n", err)
					return cliError{code: 2}
				}
				if !res.Success() {
					fmt.Fprintf(stderr, "helm %s failed (exit %d):\n%s", strings.Join(step, " "), res.ExitCode, res.Combined)
					return cliError{code: 4}
				}
			}

			fmt.Fprintf(stdout, "helm repository %s initialized\n", repoName)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoName, "repo-name", defaultHelmRepoName, "chart repository name")
	cmd.Flags().StringVar(&repoURL, "repo-url", defaultHelmRepoURL, "chart repository URL")
	return cmd
}

func newHelmVersionCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the installed helm client version",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) > 0 {
				fmt.Fprintln(stderr, "unexpected arguments")
				return cliError{code: 1}
			}

			res, err := deps.Run(cmd.Context(), "helm", []string{"version", "--short"}, shell.Options{})
			if err != nil {
				fmt.Fprintf(stderr, "failed to launch helm: %v\n", err)
				return cliError{code: 2}
			}
			if !res.Success() {
				fmt.Fprintf(stderr, "helm version failed (exit %d):\n%s", res.ExitCode, res.Combined)
				return cliError{code: 4}
			}

			fmt.Fprintln(stdout, strings.TrimSpace(res.Stdout))
			return nil
		},
	}
}
