package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"rigup/internal/manifest"
	"rigup/internal/registry"
	"rigup/internal/release"
	"rigup/pkg/fetch"

	"github.com/spf13/cobra"
)

// newInstallCmd wires the `install` command that downloads release
// binaries of external tools.
func newInstallCmd(deps Deps) *cobra.Command {
	var manifestPath, pinVersion, installDir string

	cmd := &cobra.Command{
		Use:   "install [tool]",
		Short: "Install release binaries of pipeline tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()

			if len(args) > 1 {
				fmt.Fprintln(stderr, "unexpected arguments")
				return cliError{code: 1}
			}

			ts := manifest.Defaults()
			if manifestPath != "" {
				path := expandPath(manifestPath)
				if isRemotePath(path) {
					tmpDir, err := os.MkdirTemp("", "rigup-manifest-*")
					if err != nil {
						fmt.Fprintf(stderr, "failed to create manifest directory: %v\n", err)
						return cliError{code: 5}
					}
					defer os.RemoveAll(tmpDir)

					local := filepath.Join(tmpDir, "tools.yaml")
					if _, err := deps.Download(cmd.Context(), path, local, nil); err != nil {
						fmt.Fprintf(stderr, "failed to fetch manifest: %v\n", err)
						return cliError{code: 5}
					}
					path = local
				} else if _, err := os.Stat(path); err != nil {
					fmt.Fprintln(stderr, "not found manifest path")
					return cliError{code: 2}
				}
				parsed, err := manifest.Parse(path)
				if err != nil {
					fmt.Fprintf(stderr, "failed to parse manifest: %v\n", err)
					return cliError{code: 3}
				}
				ts = parsed
			}

			tools := ts.Tools
			if len(args) == 1 {
				tool, ok := ts.Find(args[0])
				if !ok {
					fmt.Fprintf(stderr, "unknown tool %q\n", args[0])
					return cliError{code: 2}
				}
				tools = []manifest.Tool{tool}
			}
			if pinVersion != "" && len(tools) != 1 {
				fmt.Fprintln(stderr, "--version requires naming a single tool")
				return cliError{code: 1}
			}

			root, err := storageDir()
			if err != nil {
				fmt.Fprintf(stderr, "failed to determine storage directory: %v\n", err)
				return cliError{code: 5}
			}
			binDir := filepath.Join(root, "bin")
			if installDir != "" {
				binDir = expandPath(installDir)
			}
			if err := os.MkdirAll(binDir, 0o755); err != nil {
				fmt.Fprintf(stderr, "failed to prepare install directory: %v\n", err)
				return cliError{code: 5}
			}

			registryPath := filepath.Join(root, "installed.json")
			store, err := registry.Load(registryPath)
			if err != nil {
				fmt.Fprintf(stderr, "failed to load registry: %v\n", err)
				return cliError{code: 5}
			}

			for _, tool := range tools {
				if err := installTool(cmd.Context(), deps, tool, pinVersion, binDir, &store, stdout, stderr); err != nil {
					return err
				}
			}

			if err := store.Save(registryPath); err != nil {
				fmt.Fprintf(stderr, "failed to save registry: %v\n", err)
				return cliError{code: 5}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "tools manifest to install instead of the built-in set")
	cmd.Flags().StringVar(&pinVersion, "version", "", "release tag to install instead of the latest")
	cmd.Flags().StringVar(&installDir, "dir", "", "install directory (default $RIGUP_HOME/bin)")
	return cmd
}

// installTool downloads, unpacks and registers a single tool release.
func installTool(ctx context.Context, deps Deps, tool manifest.Tool, pinVersion, binDir string, store *registry.Store, stdout, stderr io.Writer) error {
	tag := pinVersion
	if tag == "" {
		tag = tool.Version
	}
	if tag == "" {
		latest, err := deps.LatestTag(ctx, tool.Repo)
		if err != nil {
			fmt.Fprintf(stderr, "failed to resolve latest %s release: %v\n", tool.Name, err)
			return cliError{code: 3}
		}
		tag = latest
	}

	asset := tool.AssetName(tag, runtime.GOOS, runtime.GOARCH)
	assetURL := release.AssetURL(tool.Repo, tag, asset)

	tmpDir, err := os.MkdirTemp("", "rigup-dl-*")
	if err != nil {
		fmt.Fprintf(stderr, "failed to create download directory: %v\n", err)
		return cliError{code: 5}
	}
	defer os.RemoveAll(tmpDir)

	fmt.Fprintf(stdout, "downloading %s %s\n", tool.Name, tag)
	printer := &progressPrinter{w: stdout, label: asset, lastStep: -1}
	written, err := deps.Download(ctx, assetURL, filepath.Join(tmpDir, asset), printer.update)
	if err != nil {
		fmt.Fprintf(stderr, "failed to download %s: %v\n", assetURL, err)
		return cliError{code: 5}
	}
	fmt.Fprintf(stdout, "downloaded %s (%d bytes)\n", asset, written)

	downloaded := filepath.Join(tmpDir, asset)
	if tool.Digest != "" {
		match, actual, err := verifyDigest(downloaded, tool.Digest)
		if err != nil {
			fmt.Fprintf(stderr, "failed to verify digest for %s: %v\n", asset, err)
			return cliError{code: 5}
		}
		if !match {
			fmt.Fprintf(stderr, "digest mismatch for %s (expected %s, got %s)\n", asset, tool.Digest, actual)
			return cliError{code: 3}
		}
	}

	outPath := filepath.Join(binDir, tool.Name)
	if err := fetch.Unpack(fetch.UnpackOptions{
		Encoding:    tool.Encoding,
		SourcePath:  downloaded,
		OutputPath:  outPath,
		ExtractPath: tool.ExtractPath,
	}); err != nil {
		fmt.Fprintf(stderr, "failed to unpack %s: %v\n", asset, err)
		return cliError{code: 5}
	}
	if err := os.Chmod(outPath, 0o755); err != nil {
		fmt.Fprintf(stderr, "failed to mark %s executable: %v\n", outPath, err)
		return cliError{code: 5}
	}

	_, digest, err := verifyDigest(outPath, "")
	if err != nil {
		fmt.Fprintf(stderr, "failed to compute digest: %v\n", err)
		return cliError{code: 5}
	}

	store.Upsert(registry.Tool{
		Name:        tool.Name,
		Version:     tag,
		Path:        outPath,
		Digest:      digest,
		InstalledAt: time.Now().UTC(),
	})

	fmt.Fprintf(stdout, "installed %s %s => %s\n", tool.Name, tag, outPath)
	return nil
}

// progressPrinter reports download progress at ten-percent steps. When
// the server declares no content length there is no percentage to show
// and the byte total is printed on completion instead.
type progressPrinter struct {
	w        io.Writer
	label    string
	lastStep int
}

func (p *progressPrinter) update(pr fetch.Progress) {
	if pr.Percent < 0 {
		return
	}
	step := int(pr.Percent) / 10
	if step > p.lastStep {
		p.lastStep = step
		fmt.Fprintf(p.w, "%s: %.2f%%\n", p.label, pr.Percent)
	}
}
