package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFileForTest(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func TestStorageDir_Override(t *testing.T) {
	t.Setenv("RIGUP_HOME", "/custom/rigup")
	dir, err := storageDir()
	if err != nil {
		t.Fatalf("storageDir returned error: %v", err)
	}
	if dir != "/custom/rigup" {
		t.Fatalf("dir = %q, want /custom/rigup", dir)
	}
}

func TestStorageDir_Default(t *testing.T) {
	t.Setenv("RIGUP_HOME", "")
	os.Unsetenv("RIGUP_HOME")
	dir, err := storageDir()
	if err != nil {
		t.Fatalf("storageDir returned error: %v", err)
	}
	if !strings.HasSuffix(dir, ".rigup") {
		t.Fatalf("dir = %q, want ~/.rigup", dir)
	}
}

func TestIsRemotePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"https://example.com/file", true},
		{"http://example.com/file", true},
		{"HTTPS://example.com/file", true},
		{"/local/path", false},
		{"git@github.com:owner/repo.git", false},
	}
	for _, tt := range tests {
		if got := isRemotePath(tt.path); got != tt.want {
			t.Errorf("isRemotePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestInjectToken(t *testing.T) {
	got := injectToken("https://example.com/org/repo.git", "s3cret")
	if got != "https://s3cret@example.com/org/repo.git" {
		t.Fatalf("injectToken = %q", got)
	}

	// No token: unchanged.
	if got := injectToken("https://example.com/repo.git", ""); got != "https://example.com/repo.git" {
		t.Fatalf("injectToken without token = %q", got)
	}

	// Existing credentials win.
	withUser := "https://user@example.com/repo.git"
	if got := injectToken(withUser, "s3cret"); got != withUser {
		t.Fatalf("injectToken with existing user = %q", got)
	}

	// Non-https URLs pass through.
	ssh := "git@github.com:owner/repo.git"
	if got := injectToken(ssh, "s3cret"); got != ssh {
		t.Fatalf("injectToken ssh = %q", got)
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://s3cret@example.com/repo.git")
	if strings.Contains(got, "s3cret") {
		t.Fatalf("redactURL leaked the token: %q", got)
	}
	if !strings.Contains(got, "***") {
		t.Fatalf("redactURL = %q, want masked userinfo", got)
	}

	plain := "https://example.com/repo.git"
	if got := redactURL(plain); got != plain {
		t.Fatalf("redactURL without userinfo = %q", got)
	}
}

func TestVerifyDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	match, digest, err := verifyDigest(path, "")
	if err != nil {
		t.Fatalf("verifyDigest returned error: %v", err)
	}
	if !match || digest == "" {
		t.Fatalf("match = %v, digest = %q", match, digest)
	}

	match, _, err = verifyDigest(path, digest)
	if err != nil {
		t.Fatalf("verifyDigest returned error: %v", err)
	}
	if !match {
		t.Fatal("digest did not match itself")
	}

	match, _, err = verifyDigest(path, strings.Repeat("0", 64))
	if err != nil {
		t.Fatalf("verifyDigest returned error: %v", err)
	}
	if match {
		t.Fatal("mismatched digest reported as matching")
	}
}
