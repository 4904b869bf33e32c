package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"rigup/internal/config"

	"github.com/zeebo/blake3"
)

// storageDir determines the rigup working directory.
func storageDir() (string, error) {
	if override := os.Getenv(config.EnvHome); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home: %w", err)
	}
	return filepath.Join(home, ".rigup"), nil
}

// expandPath expands environment variables within path.
func expandPath(path string) string {
	return os.ExpandEnv(path)
}

// isRemotePath reports whether the provided path is an HTTP(S) URL.
func isRemotePath(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// verifyDigest computes a BLAKE3 digest for the file and compares it to
// the expected string. An empty expected value matches anything.
func verifyDigest(path, expected string) (bool, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return false, "", fmt.Errorf("hash file: %w", err)
	}

	actualHex := hex.EncodeToString(hasher.Sum(nil))

	expected = strings.TrimSpace(expected)
	if expected == "" {
		return true, actualHex, nil
	}

	return strings.EqualFold(expected, actualHex), actualHex, nil
}

// injectToken embeds an access token as userinfo in an HTTPS clone URL.
// Non-HTTPS URLs and URLs that already carry credentials pass through
// unchanged.
func injectToken(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || strings.ToLower(u.Scheme) != "https" || u.User != nil {
		return rawURL
	}
	u.User = url.User(token)
	return u.String()
}

// redactURL masks userinfo so credentials never reach logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	u.User = url.User("***")
	return u.String()
}
