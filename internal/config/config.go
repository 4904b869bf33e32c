// Package config reads rigup settings from the process environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consumed by rigup commands.
const (
	EnvAccessToken = "RIGUP_ACCESS_TOKEN"
	EnvOrgURL      = "RIGUP_ORG_URL"
	EnvProject     = "RIGUP_PROJECT"
	EnvHome        = "RIGUP_HOME"
)

// RequiredVars lists the variables a configured pipeline workstation
// must provide.
func RequiredVars() []string {
	return []string{EnvAccessToken, EnvOrgURL, EnvProject}
}

// LoadEnvFile merges variables from the .env file at path into the
// process environment without overriding values already set. A missing
// file is not an error; the caller decides whether to require one.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("load env file: %w", err)
	}
	return true, nil
}

// Require returns the subset of names that are unset or empty in the
// environment.
func Require(names ...string) []string {
	var missing []string
	for _, name := range names {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// AccessToken returns the configured access token, possibly empty.
func AccessToken() string {
	return os.Getenv(EnvAccessToken)
}
