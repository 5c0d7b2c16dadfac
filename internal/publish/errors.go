// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package publish

import "fmt"

// The publish workflow surfaces one error type per step. Upstream HTTP
// status and message are carried verbatim; nothing is retried automatically
// since every step is idempotent and cheap to re-invoke.

// AuthConfigError means no credential source is configured. It halts the
// workflow before any network call.
type AuthConfigError struct {
	Reason string
}

func (e *AuthConfigError) Error() string {
	return fmt.Sprintf("auth not configured: %s", e.Reason)
}

// AuthDeniedError means the provider rejected the credential exchange, for
// example when the app is not installed for the target account.
type AuthDeniedError struct {
	StatusCode int
	Message    string
}

func (e *AuthDeniedError) Error() string {
	return fmt.Sprintf("auth denied (status %d): %s", e.StatusCode, e.Message)
}

// RepoCheckError covers failures checking for or creating the destination
// repository.
type RepoCheckError struct {
	StatusCode int
	Message    string
}

func (e *RepoCheckError) Error() string {
	return fmt.Sprintf("repository check failed (status %d): %s", e.StatusCode, e.Message)
}

// PagesEnableError covers fatal failures checking or enabling static
// hosting. A 403 on the hosting check is not fatal and never produces this
// error.
type PagesEnableError struct {
	StatusCode int
	Message    string
}

func (e *PagesEnableError) Error() string {
	return fmt.Sprintf("pages setup failed (status %d): %s", e.StatusCode, e.Message)
}

// DestinationExistsError is the deliberate soft-stop when the destination
// file already exists and the caller has not supplied the overwrite
// confirmation token. No upload is attempted.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("destination %s already exists; confirm overwrite to replace it", e.Path)
}

// UploadError covers failures reading or writing destination files.
type UploadError struct {
	Path       string
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s failed (status %d): %s", e.Path, e.StatusCode, e.Message)
}
