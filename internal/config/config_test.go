package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRequire(t *testing.T) {
	t.Setenv("RIGUP_TEST_SET", "value")
	t.Setenv("RIGUP_TEST_EMPTY", "")

	missing := Require("RIGUP_TEST_SET", "RIGUP_TEST_EMPTY", "RIGUP_TEST_UNSET")
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want 2 entries", missing)
	}
	if missing[0] != "RIGUP_TEST_EMPTY" || missing[1] != "RIGUP_TEST_UNSET" {
		t.Fatalf("missing = %v", missing)
	}
}

func TestLoadEnvFile(t *testing.T) {
	// t.Setenv registers restoration, then the variable is cleared so
	// the file value wins.
	t.Setenv("RIGUP_TEST_FROM_FILE", "")
	os.Unsetenv("RIGUP_TEST_FROM_FILE")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RIGUP_TEST_FROM_FILE=loaded\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	loaded, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	if !loaded {
		t.Fatal("loaded = false, want true")
	}
	if got := os.Getenv("RIGUP_TEST_FROM_FILE"); got != "loaded" {
		t.Fatalf("env value = %q, want %q", got, "loaded")
	}
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	t.Setenv("RIGUP_TEST_KEEP", "original")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("RIGUP_TEST_KEEP=overridden\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if _, err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	if got := os.Getenv("RIGUP_TEST_KEEP"); got != "original" {
		t.Fatalf("env value = %q, want %q", got, "original")
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	loaded, err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	if loaded {
		t.Fatal("loaded = true for missing file")
	}
}
