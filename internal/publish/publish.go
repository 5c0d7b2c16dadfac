// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package publish pushes rendered table pages to a GitHub-Pages-style
// static host. The workflow is a strict linear sequence of idempotent
// steps: authenticate, ensure the destination repository exists, ensure
// static hosting is enabled, check for a destination conflict, upload the
// files, compute the public URL, and poll until the page is reachable.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
)

// Default liveness-poll bounds. Pages propagation is asynchronous on the
// provider side; a timeout is a soft warning, not a failure.
const (
	defaultPollTimeout  = 90 * time.Second
	defaultPollInterval = 2 * time.Second
)

// defaultBranch is the branch Pages serves from.
const defaultBranch = "main"

// OverwritePhrase is the confirmation word a caller must supply to replace
// an already-published file.
const OverwritePhrase = "SWAP"

// ConfirmationToken gates the overwrite branch of the workflow. Only a
// token matching OverwritePhrase authorizes replacing an existing file.
type ConfirmationToken string

// Authorizes reports whether the token unlocks an overwrite.
func (t ConfirmationToken) Authorizes() bool {
	return string(t) == OverwritePhrase
}

// Target identifies where an artifact is written.
type Target struct {
	Owner string
	Repo  string
	// Path is the destination file path within the repository, normally
	// ending in .html.
	Path string
}

// Artifact is a frozen rendered page plus optional sidecar files recording
// what was published.
type Artifact struct {
	HTML string
	// ConfigJSON and DataCSV are written next to the page when non-empty.
	// Sidecars are plain overwrite-on-publish files with no conflict gate.
	ConfigJSON string
	DataCSV    string
}

// Result reports where the artifact landed.
type Result struct {
	URL         string
	RepoCreated bool
	// Live is false when the liveness poll timed out; the publish itself
	// still succeeded and propagation may simply be in progress.
	Live bool
}

// Publisher runs the publish workflow. Construct with New and reuse across
// publishes; the token source caches credentials internally.
type Publisher struct {
	tokens TokenSource
	// creation is preferred for repository creation since installation
	// tokens may lack the repo-creation scope. Nil means use tokens.
	creation TokenSource
	branch   string

	// Test seams.
	newProvider  func(token string) provider
	httpClient   *http.Client
	now          func() time.Time
	sleep        func(context.Context, time.Duration) error
	pollTimeout  time.Duration
	pollInterval time.Duration
}

// New builds a Publisher. tokens is the primary credential source and must
// be non-nil at publish time; creation may be nil.
func New(tokens, creation TokenSource) *Publisher {
	return &Publisher{
		tokens:       tokens,
		creation:     creation,
		branch:       defaultBranch,
		newProvider:  newRealProvider,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		now:          time.Now,
		sleep:        sleepContext,
		pollTimeout:  defaultPollTimeout,
		pollInterval: defaultPollInterval,
	}
}

// SetBranch overrides the branch Pages serves from. Empty keeps the default.
func (p *Publisher) SetBranch(branch string) {
	if branch != "" {
		p.branch = branch
	}
}

// SetPollTimeout overrides how long Publish waits for the page to come up.
// Zero disables the liveness poll.
func (p *Publisher) SetPollTimeout(d time.Duration) {
	p.pollTimeout = d
}

// Publish runs the full workflow. Steps already completed before an error
// (e.g. repository creation) remain in place; every step is individually
// idempotent so re-invocation after a partial failure is safe.
func (p *Publisher) Publish(ctx context.Context, target Target, art Artifact, overwrite ConfirmationToken) (*Result, error) {
	if p.tokens == nil {
		return nil, &AuthConfigError{Reason: "no credential source configured (set a personal token or app credentials)"}
	}
	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	prov := p.newProvider(token)

	target.Path = strings.TrimSpace(strings.TrimPrefix(target.Path, "/"))
	if target.Path == "" {
		target.Path = "table.html"
	}

	created, err := p.ensureRepo(ctx, prov, target)
	if err != nil {
		return nil, err
	}

	if err := p.ensurePages(ctx, prov, target); err != nil {
		return nil, err
	}

	sha, exists, err := p.fileSHA(ctx, prov, target, target.Path)
	if err != nil {
		return nil, err
	}
	if exists && !overwrite.Authorizes() {
		return nil, &DestinationExistsError{Path: target.Path}
	}

	if err := p.upsertFile(ctx, prov, target, target.Path, art.HTML, sha, exists); err != nil {
		return nil, err
	}
	if err := p.writeSidecars(ctx, prov, target, art); err != nil {
		return nil, err
	}

	url := PagesURL(target.Owner, target.Repo, target.Path)
	live := p.pollLive(ctx, url)
	if !live {
		slog.Warn("published page not yet reachable, propagation may still be in progress", "url", url)
	}

	return &Result{URL: url, RepoCreated: created, Live: live}, nil
}

// ensureRepo checks the destination repository and creates it when missing.
// Creation is public with auto-init so Pages has a branch to serve.
func (p *Publisher) ensureRepo(ctx context.Context, prov provider, target Target) (bool, error) {
	_, resp, err := prov.GetRepo(ctx, target.Owner, target.Repo)
	if err == nil {
		return false, nil
	}
	if statusOf(resp) != http.StatusNotFound {
		return false, &RepoCheckError{StatusCode: statusOf(resp), Message: fmt.Sprintf("checking repository %s/%s: %v", target.Owner, target.Repo, err)}
	}

	createProv := prov
	if p.creation != nil {
		createToken, err := p.creation.Token(ctx)
		if err != nil {
			return false, err
		}
		createProv = p.newProvider(createToken)
	}

	// Owner type decides the creation endpoint: org repos are created
	// under the org, user repos under the authenticated user.
	org := ""
	if user, _, err := createProv.GetUser(ctx, target.Owner); err == nil && user.GetType() == "Organization" {
		org = target.Owner
	}

	newRepo := &github.Repository{
		Name:        github.Ptr(target.Repo),
		AutoInit:    github.Ptr(true),
		Private:     github.Ptr(false),
		Description: github.Ptr("Branded searchable table (auto-created by tablepub)."),
	}
	_, resp, err = createProv.CreateRepo(ctx, org, newRepo)
	if err != nil {
		return false, &RepoCheckError{StatusCode: statusOf(resp), Message: fmt.Sprintf("creating repository %s/%s: %v", target.Owner, target.Repo, err)}
	}
	slog.Info("created destination repository", "owner", target.Owner, "repo", target.Repo)
	return true, nil
}

// ensurePages makes sure static hosting is enabled for the repository.
// 200 means already enabled; 403 means we lack permission to manage Pages
// and is skipped since hosting may already be active at the account level.
func (p *Publisher) ensurePages(ctx context.Context, prov provider, target Target) error {
	_, resp, err := prov.GetPagesInfo(ctx, target.Owner, target.Repo)
	if err == nil {
		return nil
	}
	switch statusOf(resp) {
	case http.StatusForbidden:
		slog.Debug("no permission to inspect pages config, skipping", "repo", target.Repo)
		return nil
	case http.StatusNotFound:
		// fall through to enable
	default:
		return &PagesEnableError{StatusCode: statusOf(resp), Message: fmt.Sprintf("checking pages config: %v", err)}
	}

	pages := &github.Pages{
		Source: &github.PagesSource{
			Branch: github.Ptr(p.branch),
			Path:   github.Ptr("/"),
		},
	}
	if _, resp, err := prov.EnablePages(ctx, target.Owner, target.Repo, pages); err != nil {
		return &PagesEnableError{StatusCode: statusOf(resp), Message: fmt.Sprintf("enabling pages: %v", err)}
	}
	slog.Info("enabled static hosting", "owner", target.Owner, "repo", target.Repo, "branch", p.branch)
	return nil
}

// fileSHA fetches the current content hash of path for optimistic
// concurrency. A 404 means the file does not exist yet.
func (p *Publisher) fileSHA(ctx context.Context, prov provider, target Target, path string) (sha string, exists bool, err error) {
	content, resp, err := prov.GetContents(ctx, target.Owner, target.Repo, path, &github.RepositoryContentGetOptions{Ref: p.branch})
	if err == nil {
		return content.GetSHA(), true, nil
	}
	if statusOf(resp) == http.StatusNotFound {
		return "", false, nil
	}
	return "", false, &UploadError{Path: path, StatusCode: statusOf(resp), Message: fmt.Sprintf("checking existing file: %v", err)}
}

// upsertFile writes content to path, attaching the previous hash when the
// file exists so a concurrent change fails the write instead of being
// silently overwritten.
func (p *Publisher) upsertFile(ctx context.Context, prov provider, target Target, path, content, sha string, exists bool) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(fmt.Sprintf("Publish %s", path)),
		Content: []byte(content),
		Branch:  github.Ptr(p.branch),
	}
	var resp *github.Response
	var err error
	if exists {
		opts.SHA = github.Ptr(sha)
		_, resp, err = prov.UpdateFile(ctx, target.Owner, target.Repo, path, opts)
	} else {
		_, resp, err = prov.CreateFile(ctx, target.Owner, target.Repo, path, opts)
	}
	if err != nil {
		return &UploadError{Path: path, StatusCode: statusOf(resp), Message: err.Error()}
	}
	return nil
}

// writeSidecars uploads the config.json and data.csv snapshots next to the
// page when present.
func (p *Publisher) writeSidecars(ctx context.Context, prov provider, target Target, art Artifact) error {
	sidecars := []struct {
		path    string
		content string
	}{
		{sidecarPath(target.Path, "config.json"), art.ConfigJSON},
		{sidecarPath(target.Path, "data.csv"), art.DataCSV},
	}
	for _, sc := range sidecars {
		if sc.content == "" {
			continue
		}
		sha, exists, err := p.fileSHA(ctx, prov, target, sc.path)
		if err != nil {
			return err
		}
		if err := p.upsertFile(ctx, prov, target, sc.path, sc.content, sha, exists); err != nil {
			return err
		}
	}
	return nil
}

// sidecarPath places a sidecar next to the page, namespaced by the page's
// base name so two tables in one repository never clobber each other's
// snapshots.
func sidecarPath(pagePath, name string) string {
	base := strings.TrimSuffix(pagePath, ".html")
	return base + "." + name
}

// PagesURL computes the public URL for a published file from the provider's
// fixed URL pattern. No network call is made.
func PagesURL(owner, repo, path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		path = "table.html"
	}
	return fmt.Sprintf("https://%s.github.io/%s/%s", strings.TrimSpace(owner), strings.TrimSpace(repo), path)
}

// pollLive polls url with cache-busting headers until it answers 200 or the
// poll window closes.
func (p *Publisher) pollLive(ctx context.Context, url string) bool {
	return waitFor(ctx, p.pollTimeout, p.pollInterval, p.now, p.sleep, func(ctx context.Context) bool {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false
		}
		req.Header.Set("Cache-Control", "no-cache")
		resp, err := p.httpClient.Do(req)
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode == http.StatusOK
	})
}
