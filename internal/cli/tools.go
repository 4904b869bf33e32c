package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"rigup/internal/registry"

	"github.com/spf13/cobra"
)

// newListCmd wires the `list` command showing installed tools.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) > 0 {
				fmt.Fprintln(stderr, "unexpected arguments")
				return cliError{code: 1}
			}

			root, err := storageDir()
			if err != nil {
				fmt.Fprintf(stderr, "failed to determine storage directory: %v\n", err)
				return cliError{code: 5}
			}

			store, err := registry.Load(filepath.Join(root, "installed.json"))
			if err != nil {
				fmt.Fprintf(stderr, "failed to load registry: %v\n", err)
				return cliError{code: 5}
			}

			if len(store.Tools) == 0 {
				fmt.Fprintln(stdout, "no tools installed")
				return nil
			}

			table := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(table, "NAME\tVERSION\tPATH\tINSTALLED AT")
			for _, tool := range store.Tools {
				fmt.Fprintf(table, "%s\t%s\t%s\t%s\n",
					tool.Name,
					tool.Version,
					tool.Path,
					formatInstalledAt(tool.InstalledAt),
				)
			}
			if err := table.Flush(); err != nil {
				fmt.Fprintf(stderr, "failed to write tool list: %v\n", err)
				return cliError{code: 5}
			}
			return nil
		},
	}
}

// newUninstallCmd wires the `uninstall` command that removes an
// installed tool and its registry entry.
func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <tool>",
		Short: "Remove an installed tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) != 1 {
				fmt.Fprintln(stderr, "require tool name argument")
				return cliError{code: 1}
			}

			root, err := storageDir()
			if err != nil {
				fmt.Fprintf(stderr, "failed to determine storage directory: %v\n", err)
				return cliError{code: 5}
			}

			registryPath := filepath.Join(root, "installed.json")
			store, err := registry.Load(registryPath)
			if err != nil {
				fmt.Fprintf(stderr, "failed to load registry: %v\n", err)
				return cliError{code: 5}
			}

			tool, ok := store.RemoveByName(args[0])
			if !ok {
				fmt.Fprintf(stderr, "no installed tool named %q\n", args[0])
				return cliError{code: 2}
			}

			if tool.Path != "" {
				if err := os.Remove(tool.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
					fmt.Fprintf(stderr, "failed to remove binary: %v\n", err)
					return cliError{code: 5}
				}
			}

			if err := store.Save(registryPath); err != nil {
				fmt.Fprintf(stderr, "failed to save registry: %v\n", err)
				return cliError{code: 5}
			}

			fmt.Fprintf(stdout, "removed %s\n", tool.Name)
			return nil
		},
	}
}

func formatInstalledAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
