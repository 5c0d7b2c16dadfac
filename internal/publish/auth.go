// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package publish

import (
	"context"
	"crypto/rsa"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v68/github"
)

// App JWT lifetime parameters. The issued-at is backdated to tolerate clock
// skew between us and the provider; the expiry stays under the provider's
// 10-minute ceiling.
const (
	jwtClockSkew = 30 * time.Second
	jwtLifetime  = 9 * time.Minute
)

// tokenCacheTTL is shorter than the ~60 minute installation token lifetime
// so a cached token is never handed out close to expiry.
const tokenCacheTTL = 50 * time.Minute

// TokenSource yields a bearer credential for provider API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource wraps a long-lived personal access token.
type StaticTokenSource struct {
	AccessToken string
}

// Token returns the configured token.
func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	if s.AccessToken == "" {
		return "", &AuthConfigError{Reason: "personal access token is empty"}
	}
	return s.AccessToken, nil
}

// appsAPI abstracts the provider's app-installation endpoints for testing.
type appsAPI interface {
	FindUserInstallation(ctx context.Context, user string) (*github.Installation, *github.Response, error)
	FindOrganizationInstallation(ctx context.Context, org string) (*github.Installation, *github.Response, error)
	CreateInstallationToken(ctx context.Context, id int64, opts *github.InstallationTokenOptions) (*github.InstallationToken, *github.Response, error)
}

// realAppsAPI wraps the real go-github Apps service.
type realAppsAPI struct {
	client *github.Client
}

func (r *realAppsAPI) FindUserInstallation(ctx context.Context, user string) (*github.Installation, *github.Response, error) {
	return r.client.Apps.FindUserInstallation(ctx, user)
}

func (r *realAppsAPI) FindOrganizationInstallation(ctx context.Context, org string) (*github.Installation, *github.Response, error) {
	return r.client.Apps.FindOrganizationInstallation(ctx, org)
}

func (r *realAppsAPI) CreateInstallationToken(ctx context.Context, id int64, opts *github.InstallationTokenOptions) (*github.InstallationToken, *github.Response, error) {
	return r.client.Apps.CreateInstallationToken(ctx, id, opts)
}

// AppTokenSource exchanges a signed app-identity JWT for an installation
// token scoped to one account, caching the result for tokenCacheTTL.
// Safe for sequential reuse across publishes within the TTL.
type AppTokenSource struct {
	appID string
	owner string
	key   *rsa.PrivateKey

	// Test seams.
	newAPI func(appJWT string) appsAPI
	now    func() time.Time

	mu          sync.Mutex
	cached      string
	cachedUntil time.Time
}

// NewAppTokenSource parses the PEM private key and returns a token source
// for the app identified by appID, installed on owner's account.
func NewAppTokenSource(appID, privateKeyPEM, owner string) (*AppTokenSource, error) {
	if appID == "" || privateKeyPEM == "" {
		return nil, &AuthConfigError{Reason: "app id and private key are both required"}
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, &AuthConfigError{Reason: fmt.Sprintf("parsing app private key: %v", err)}
	}
	return &AppTokenSource{
		appID: appID,
		owner: owner,
		key:   key,
		newAPI: func(appJWT string) appsAPI {
			return &realAppsAPI{client: github.NewClient(nil).WithAuthToken(appJWT)}
		},
		now: time.Now,
	}, nil
}

// Token returns a cached installation token when fresh, otherwise signs a
// new app JWT and exchanges it.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != "" && now.Before(s.cachedUntil) {
		return s.cached, nil
	}

	appJWT, err := s.signJWT(now)
	if err != nil {
		return "", err
	}
	api := s.newAPI(appJWT)

	id, err := s.findInstallation(ctx, api)
	if err != nil {
		return "", err
	}

	tok, resp, err := api.CreateInstallationToken(ctx, id, nil)
	if err != nil {
		return "", &AuthDeniedError{StatusCode: statusOf(resp), Message: fmt.Sprintf("creating installation token: %v", err)}
	}

	s.cached = tok.GetToken()
	s.cachedUntil = now.Add(tokenCacheTTL)
	return s.cached, nil
}

// signJWT builds the short-lived RS256 app-identity assertion.
func (s *AppTokenSource) signJWT(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    s.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-jwtClockSkew)),
		ExpiresAt: jwt.NewNumericDate(now.Add(jwtLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", &AuthConfigError{Reason: fmt.Sprintf("signing app JWT: %v", err)}
	}
	return signed, nil
}

// findInstallation locates the app installation for the owner, trying the
// user endpoint first and the organization endpoint second.
func (s *AppTokenSource) findInstallation(ctx context.Context, api appsAPI) (int64, error) {
	inst, userResp, userErr := api.FindUserInstallation(ctx, s.owner)
	if userErr == nil {
		return inst.GetID(), nil
	}

	inst, orgResp, orgErr := api.FindOrganizationInstallation(ctx, s.owner)
	if orgErr == nil {
		return inst.GetID(), nil
	}

	return 0, &AuthDeniedError{
		StatusCode: statusOf(orgResp),
		Message: fmt.Sprintf("app not installed for %s: user lookup status %d, org lookup status %d",
			s.owner, statusOf(userResp), statusOf(orgResp)),
	}
}
