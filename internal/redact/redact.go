// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package redact strips credential values from strings before they appear
// in output, logs, or error messages.
package redact

import (
	"os"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variable names whose values must never
// appear in output. GITHUB_APP_PRIVATE_KEY may hold a multi-line PEM block,
// so its individual lines are redacted too.
var sensitiveEnvVars = []string{
	"GITHUB_PAT",
	"GITHUB_APP_PRIVATE_KEY",
	"GITHUB_TOKEN",
	"GH_TOKEN",
}

var (
	cachedSecrets []string
	cacheOnce     sync.Once
)

func loadSecrets() {
	for _, envVar := range sensitiveEnvVars {
		val := os.Getenv(envVar)
		if val == "" || len(val) < 4 {
			continue
		}
		cachedSecrets = append(cachedSecrets, val)
		if strings.Contains(val, "\n") {
			for _, line := range strings.Split(val, "\n") {
				// PEM body lines; headers like "-----BEGIN..." are not secret.
				if len(line) >= 16 && !strings.HasPrefix(line, "-----") {
					cachedSecrets = append(cachedSecrets, line)
				}
			}
		}
	}
}

// resetCache resets the cached secrets. Used by tests that change env vars
// between calls.
func resetCache() {
	cachedSecrets = nil
	cacheOnce = sync.Once{}
}

// ResetForTest resets the cached secrets so tests in other packages can
// verify redaction behavior after setting env vars with t.Setenv.
func ResetForTest() { resetCache() }

// String replaces any occurrence of a known credential value with
// "[REDACTED]". Returns the original string if no secrets are found.
// Secret values are cached on first call.
func String(s string) string {
	cacheOnce.Do(loadSecrets)
	for _, secret := range cachedSecrets {
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return s
}
