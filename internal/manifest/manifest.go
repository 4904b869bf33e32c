// Package manifest describes the external tools rigup can install.
package manifest

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ToolSet is the parsed tools manifest.
type ToolSet struct {
	Tools []Tool `yaml:"tools"`
}

// Tool describes one installable release binary.
type Tool struct {
	Name        string `yaml:"name"`
	Repo        string `yaml:"repo"`                   // owner/repo slug
	Version     string `yaml:"version,omitempty"`      // pinned tag; empty means latest
	Asset       string `yaml:"asset"`                  // asset name template
	Encoding    string `yaml:"encoding,omitempty"`     // "", zstd, tar+gzip, tar+xz
	ExtractPath string `yaml:"extract_path,omitempty"` // entry inside an archive asset
	Digest      string `yaml:"digest,omitempty"`       // expected BLAKE3 hex digest
}

// Parse reads and validates a tools manifest from path.
func Parse(path string) (ToolSet, error) {
	var ts ToolSet

	raw, err := os.ReadFile(path)
	if err != nil {
		return ts, fmt.Errorf("read manifest: %w", err)
	}

	if err := yaml.Unmarshal(raw, &ts); err != nil {
		return ts, fmt.Errorf("parse manifest: %w", err)
	}

	if err := ts.Validate(); err != nil {
		return ts, err
	}

	return ts, nil
}

// Validate checks every entry for the fields installation needs.
func (ts ToolSet) Validate() error {
	if len(ts.Tools) == 0 {
		return fmt.Errorf("manifest defines no tools")
	}
	seen := make(map[string]bool, len(ts.Tools))
	for i, tool := range ts.Tools {
		name := strings.TrimSpace(tool.Name)
		if name == "" {
			return fmt.Errorf("tool %d: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("tool %q is defined twice", name)
		}
		seen[name] = true
		if strings.TrimSpace(tool.Repo) == "" {
			return fmt.Errorf("tool %q: repo is required", name)
		}
		if strings.Count(tool.Repo, "/") != 1 {
			return fmt.Errorf("tool %q: repo must be an owner/repo slug", name)
		}
		if strings.TrimSpace(tool.Asset) == "" {
			return fmt.Errorf("tool %q: asset is required", name)
		}
		if isArchive(tool.Encoding) && strings.TrimSpace(tool.ExtractPath) == "" {
			return fmt.Errorf("tool %q: extract_path is required for encoding %s", name, tool.Encoding)
		}
	}
	return nil
}

// Find returns the tool named name.
func (ts ToolSet) Find(name string) (Tool, bool) {
	for _, tool := range ts.Tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// AssetName expands the asset template for a release tag and target
// platform. Supported placeholders: {tag}, {version} (tag without a
// leading v), {os} and {arch}.
func (t Tool) AssetName(tag, goos, goarch string) string {
	return strings.NewReplacer(
		"{tag}", tag,
		"{version}", strings.TrimPrefix(tag, "v"),
		"{os}", goos,
		"{arch}", goarch,
	).Replace(t.Asset)
}

func isArchive(encoding string) bool {
	switch strings.TrimSpace(strings.ToLower(encoding)) {
	case "tar+gzip", "tar+xz":
		return true
	default:
		return false
	}
}

// Defaults returns the built-in tool set installed when no manifest is
// given.
func Defaults() ToolSet {
	return ToolSet{
		Tools: []Tool{
			{
				Name:        "fab",
				Repo:        "microsoft/fabrikate",
				Asset:       "fab-v{version}-{os}-{arch}.tar.gz",
				Encoding:    "tar+gzip",
				ExtractPath: "fab",
			},
			{
				Name:  "spk",
				Repo:  "catalystcode/spk",
				Asset: "spk-{os}-{arch}",
			},
		},
	}
}
