package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

const defaultVersion = "0.0.0"

// Version is set by the main package prior to executing the CLI.
var Version = defaultVersion

var buildInfoReader = debug.ReadBuildInfo

// newVersionCmd reports CLI version details.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ver",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "unexpected arguments")
				return cliError{code: 1}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rigup version %s %s/%s\n", resolvedVersion(), runtime.GOOS, runtime.GOARCH)
			if rev := buildRevision(); rev != "" {
				fmt.Fprintf(out, "commit %s\n", rev)
			}
			return nil
		},
	}
}

// resolvedVersion prefers the ldflags-injected version, then the module
// version stamped by the toolchain.
func resolvedVersion() string {
	if v := normalizedVersion(Version); v != "" {
		return v
	}

	if info, ok := buildInfoReader(); ok {
		if v := normalizedVersion(info.Main.Version); v != "" {
			return v
		}
	}

	return defaultVersion
}

func normalizedVersion(v string) string {
	version := strings.TrimSpace(v)
	if version == "" || version == "(devel)" || version == defaultVersion {
		return ""
	}
	return version
}

// buildRevision returns the short VCS revision recorded in build info,
// suffixed with + when the working tree was dirty at build time.
func buildRevision() string {
	info, ok := buildInfoReader()
	if !ok {
		return ""
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		revision += "+"
	}
	return revision
}
