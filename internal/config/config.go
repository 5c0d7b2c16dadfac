// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package config handles .tablepub.yaml configuration files and credential
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/tablepub/internal/brand"
)

// FileName is the expected config file name in the working directory.
const FileName = ".tablepub.yaml"

// Environment variable names for credentials and defaults.
const (
	EnvAppID         = "GITHUB_APP_ID"
	EnvAppPrivateKey = "GITHUB_APP_PRIVATE_KEY"
	EnvPersonalToken = "GITHUB_PAT"
	EnvOwner         = "TABLEPUB_OWNER"
)

// Config represents the contents of a .tablepub.yaml file.
type Config struct {
	// Owner is the account every table is published under.
	Owner string `yaml:"owner,omitempty"`
	// DefaultBrand is used when no brand flag is given.
	DefaultBrand string `yaml:"default_brand,omitempty"`
	// Publishers restricts who may publish. Empty means unrestricted.
	Publishers []string `yaml:"publishers,omitempty"`
	// Branch is the branch Pages serves from. Default: main.
	Branch string `yaml:"branch,omitempty"`
	// ListenAddr is the serve-mode bind address. Default: 127.0.0.1:8787.
	ListenAddr string `yaml:"listen_addr,omitempty"`
	// PollTimeoutSeconds bounds the liveness poll after publishing.
	PollTimeoutSeconds int `yaml:"poll_timeout_seconds,omitempty"`
}

// Credentials hold the secrets the publisher authenticates with. They come
// from the environment (optionally seeded from a .env file), never from
// .tablepub.yaml.
type Credentials struct {
	AppID         string
	AppPrivateKey string
	PersonalToken string
	Owner         string
}

// Load reads the .tablepub.yaml file from dir. A missing file returns a
// zero-value Config and nil error.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path) //nolint:gosec // user-provided directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Validate checks all fields and returns all errors at once.
func (c *Config) Validate() error {
	var errs []string

	if c.DefaultBrand != "" {
		known := false
		for _, n := range brand.Names() {
			if n == c.DefaultBrand {
				known = true
				break
			}
		}
		if !known {
			errs = append(errs, fmt.Sprintf("default_brand: unknown brand %q", c.DefaultBrand))
		}
	}

	if c.PollTimeoutSeconds < 0 {
		errs = append(errs, fmt.Sprintf("poll_timeout_seconds: must be non-negative, got %d", c.PollTimeoutSeconds))
	}

	for i, p := range c.Publishers {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Sprintf("publishers[%d]: must not be blank", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// AllowsPublisher reports whether name may publish. An empty publishers
// list is unrestricted.
func (c *Config) AllowsPublisher(name string) bool {
	if len(c.Publishers) == 0 {
		return true
	}
	for _, p := range c.Publishers {
		if strings.EqualFold(strings.TrimSpace(p), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// LoadCredentials reads credentials from the environment, seeding it from a
// .env file in dir when one exists. A private key value starting with "@"
// is read from the named file.
func LoadCredentials(dir string) (Credentials, error) {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	creds := Credentials{
		AppID:         strings.TrimSpace(os.Getenv(EnvAppID)),
		AppPrivateKey: strings.TrimSpace(os.Getenv(EnvAppPrivateKey)),
		PersonalToken: strings.TrimSpace(os.Getenv(EnvPersonalToken)),
		Owner:         strings.TrimSpace(os.Getenv(EnvOwner)),
	}

	if strings.HasPrefix(creds.AppPrivateKey, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(creds.AppPrivateKey, "@")) //nolint:gosec // user-provided key path
		if err != nil {
			return Credentials{}, fmt.Errorf("reading app private key file: %w", err)
		}
		creds.AppPrivateKey = string(data)
	}

	return creds, nil
}

// Configured reports whether at least one credential source is present.
func (c Credentials) Configured() bool {
	return c.PersonalToken != "" || (c.AppID != "" && c.AppPrivateKey != "")
}
