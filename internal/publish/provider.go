// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package publish

import (
	"context"

	"github.com/google/go-github/v68/github"
)

// provider abstracts the hosting provider's REST API for testing.
type provider interface {
	GetRepo(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	CreateRepo(ctx context.Context, org string, repo *github.Repository) (*github.Repository, *github.Response, error)
	GetUser(ctx context.Context, user string) (*github.User, *github.Response, error)
	GetPagesInfo(ctx context.Context, owner, repo string) (*github.Pages, *github.Response, error)
	EnablePages(ctx context.Context, owner, repo string, pages *github.Pages) (*github.Pages, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, *github.Response, error)
	CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error)
}

// realProvider wraps the real go-github client to implement provider.
type realProvider struct {
	client *github.Client
}

// newRealProvider builds a provider authenticated with the given bearer
// token.
func newRealProvider(token string) provider {
	return &realProvider{client: github.NewClient(nil).WithAuthToken(token)}
}

func (r *realProvider) GetRepo(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	return r.client.Repositories.Get(ctx, owner, repo)
}

func (r *realProvider) CreateRepo(ctx context.Context, org string, repo *github.Repository) (*github.Repository, *github.Response, error) {
	return r.client.Repositories.Create(ctx, org, repo)
}

func (r *realProvider) GetUser(ctx context.Context, user string) (*github.User, *github.Response, error) {
	return r.client.Users.Get(ctx, user)
}

func (r *realProvider) GetPagesInfo(ctx context.Context, owner, repo string) (*github.Pages, *github.Response, error) {
	return r.client.Repositories.GetPagesInfo(ctx, owner, repo)
}

func (r *realProvider) EnablePages(ctx context.Context, owner, repo string, pages *github.Pages) (*github.Pages, *github.Response, error) {
	return r.client.Repositories.EnablePages(ctx, owner, repo, pages)
}

func (r *realProvider) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, *github.Response, error) {
	file, _, resp, err := r.client.Repositories.GetContents(ctx, owner, repo, path, opts)
	return file, resp, err
}

func (r *realProvider) CreateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	return r.client.Repositories.CreateFile(ctx, owner, repo, path, opts)
}

func (r *realProvider) UpdateFile(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, *github.Response, error) {
	return r.client.Repositories.UpdateFile(ctx, owner, repo, path, opts)
}

// statusOf extracts the HTTP status code from a go-github response, 0 when
// the response never materialized (transport error).
func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
