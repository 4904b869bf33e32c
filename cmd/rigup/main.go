// Binary main package for the rigup command-line application.
package main

import (
	"os"

	"rigup/internal/cli"
	"rigup/internal/release"
	"rigup/internal/shell"
	"rigup/pkg/fetch"
)

// Version reports the build-time version string injected by ldflags.
var (
	Version = "0.0.0"
)

func main() {
	cli.Version = Version
	deps := cli.Deps{
		Run:       shell.Run,
		Download:  fetch.Download,
		LatestTag: release.NewClient(nil).LatestTag,
	}
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr, deps))
}
