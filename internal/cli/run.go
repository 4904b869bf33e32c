package cli

import (
	"context"
	"errors"
	"io"

	"rigup/internal/shell"
	"rigup/pkg/fetch"
)

// RunFunc executes an external command and reports its captured output.
type RunFunc func(ctx context.Context, name string, args []string, opts shell.Options) (*shell.Result, error)

// DownloadFunc streams the remote file at the first argument into the
// path given by the second, reporting progress when the callback is
// non-nil.
type DownloadFunc func(ctx context.Context, url, path string, onProgress fetch.ProgressFunc) (int64, error)

// TagFunc resolves the latest release tag of an owner/repo slug.
type TagFunc func(ctx context.Context, ownerRepo string) (string, error)

// Deps carries the external collaborators commands depend on. Tests
// inject fakes; main wires the real implementations.
type Deps struct {
	Run       RunFunc
	Download  DownloadFunc
	LatestTag TagFunc
}

type cliError struct {
	code int
}

func (e cliError) Error() string {
	return "cli error"
}

// Run executes the rigup CLI with the provided arguments and writers,
// returning the process exit code. Command handlers report typed
// outcomes; this is the single place they become an exit code, and main
// performs the one os.Exit.
func Run(args []string, stdout, stderr io.Writer, deps Deps) int {
	root := newRootCmd(deps)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	var cliErr cliError
	if errors.As(err, &cliErr) {
		return cliErr.code
	}
	return 1
}
