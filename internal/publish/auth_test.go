package publish

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKeyPEM generates a throwaway RSA key pair for signing tests.
func testKeyPEM(t *testing.T) (string, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return string(pem.EncodeToMemory(block)), &key.PublicKey
}

// mockAppsAPI implements appsAPI with call counters.
type mockAppsAPI struct {
	userInstallID int64 // 0 means user lookup fails
	orgInstallID  int64 // 0 means org lookup fails

	tokenCalls int
	tokenErr   error
}

func (m *mockAppsAPI) FindUserInstallation(_ context.Context, _ string) (*github.Installation, *github.Response, error) {
	if m.userInstallID == 0 {
		return nil, githubResp(http.StatusNotFound), fakeAPIError("no user installation")
	}
	return &github.Installation{ID: github.Ptr(m.userInstallID)}, githubResp(http.StatusOK), nil
}

func (m *mockAppsAPI) FindOrganizationInstallation(_ context.Context, _ string) (*github.Installation, *github.Response, error) {
	if m.orgInstallID == 0 {
		return nil, githubResp(http.StatusNotFound), fakeAPIError("no org installation")
	}
	return &github.Installation{ID: github.Ptr(m.orgInstallID)}, githubResp(http.StatusOK), nil
}

func (m *mockAppsAPI) CreateInstallationToken(_ context.Context, _ int64, _ *github.InstallationTokenOptions) (*github.InstallationToken, *github.Response, error) {
	m.tokenCalls++
	if m.tokenErr != nil {
		return nil, githubResp(http.StatusForbidden), m.tokenErr
	}
	return &github.InstallationToken{Token: github.Ptr("inst-token")}, githubResp(http.StatusCreated), nil
}

type fakeAPIError string

func (e fakeAPIError) Error() string { return string(e) }

func newTestAppSource(t *testing.T, api *mockAppsAPI) (*AppTokenSource, *time.Time) {
	t.Helper()
	pemKey, _ := testKeyPEM(t)
	src, err := NewAppTokenSource("12345", pemKey, "acme")
	require.NoError(t, err)

	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }
	src.newAPI = func(string) appsAPI { return api }
	return src, &now
}

func TestStaticTokenSource(t *testing.T) {
	tok, err := (&StaticTokenSource{AccessToken: "pat"}).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pat", tok)

	_, err = (&StaticTokenSource{}).Token(context.Background())
	var ace *AuthConfigError
	require.ErrorAs(t, err, &ace)
}

func TestNewAppTokenSource_MissingCredentials(t *testing.T) {
	var ace *AuthConfigError

	_, err := NewAppTokenSource("", "key", "acme")
	require.ErrorAs(t, err, &ace)

	_, err = NewAppTokenSource("12345", "", "acme")
	require.ErrorAs(t, err, &ace)

	_, err = NewAppTokenSource("12345", "not a pem key", "acme")
	require.ErrorAs(t, err, &ace)
}

func TestAppTokenSource_SignsValidJWT(t *testing.T) {
	pemKey, pub := testKeyPEM(t)
	src, err := NewAppTokenSource("12345", pemKey, "acme")
	require.NoError(t, err)

	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	signed, err := src.signJWT(now)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "12345", claims.Issuer)
	// NumericDate round-trips through time.Unix, so compare instants rather
	// than time.Time values with their locations.
	assert.True(t, claims.IssuedAt.Time.Equal(now.Add(-30*time.Second)), "issued-at backdated for clock skew, got %v", claims.IssuedAt.Time)
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(9*time.Minute)), "expiry under the 10 minute ceiling, got %v", claims.ExpiresAt.Time)
}

func TestAppTokenSource_ExchangesAndCaches(t *testing.T) {
	api := &mockAppsAPI{userInstallID: 77}
	src, now := newTestAppSource(t, api)

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inst-token", tok)
	assert.Equal(t, 1, api.tokenCalls)

	// Within the cache TTL no new exchange happens.
	*now = now.Add(49 * time.Minute)
	tok, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inst-token", tok)
	assert.Equal(t, 1, api.tokenCalls)

	// Past the TTL the token is re-exchanged.
	*now = now.Add(2 * time.Minute)
	_, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.tokenCalls)
}

func TestAppTokenSource_FallsBackToOrgInstallation(t *testing.T) {
	api := &mockAppsAPI{orgInstallID: 99}
	src, _ := newTestAppSource(t, api)

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "inst-token", tok)
}

func TestAppTokenSource_NotInstalled(t *testing.T) {
	api := &mockAppsAPI{}
	src, _ := newTestAppSource(t, api)

	_, err := src.Token(context.Background())

	var ade *AuthDeniedError
	require.ErrorAs(t, err, &ade)
	assert.Equal(t, http.StatusNotFound, ade.StatusCode)
	assert.Zero(t, api.tokenCalls, "no exchange is attempted without an installation")
}

func TestAppTokenSource_ExchangeDenied(t *testing.T) {
	api := &mockAppsAPI{userInstallID: 77, tokenErr: fakeAPIError("denied")}
	src, _ := newTestAppSource(t, api)

	_, err := src.Token(context.Background())

	var ade *AuthDeniedError
	require.ErrorAs(t, err, &ade)
	assert.Equal(t, http.StatusForbidden, ade.StatusCode)
}
