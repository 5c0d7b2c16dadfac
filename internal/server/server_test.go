// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/tablepub/internal/config"
	"github.com/davetashner/tablepub/internal/publish"
)

const testCSV = "Team,Wins\nDucks,12\nOtters,9\n"

type publishCall struct {
	target    publish.Target
	art       publish.Artifact
	overwrite publish.ConfirmationToken
}

// stubPublisher records calls and plays back a canned result or error.
type stubPublisher struct {
	calls []publishCall
	res   *publish.Result
	err   error
}

func (s *stubPublisher) publish(_ context.Context, target publish.Target, art publish.Artifact, overwrite publish.ConfirmationToken) (*publish.Result, error) {
	s.calls = append(s.calls, publishCall{target, art, overwrite})
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

type testHarness struct {
	ts     *httptest.Server
	client *http.Client
	stub   *stubPublisher
}

func newHarness(t *testing.T, cfg *config.Config) *testHarness {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{Owner: "acme"}
	}
	stub := &stubPublisher{res: &publish.Result{URL: "https://acme.github.io/ActionNetworktg26/table.html", Live: true}}
	s := New(cfg, stub.publish)
	s.now = func() time.Time { return time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testHarness{ts: ts, client: &http.Client{Jar: jar}, stub: stub}
}

func (h *testHarness) upload(t *testing.T, csv string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "data.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := h.client.Post(h.ts.URL+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func (h *testHarness) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := h.client.Post(h.ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestUploadReportsColumnsAndTypes(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.upload(t, testCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, []any{"Team", "Wins"}, body["columns"])
	assert.Equal(t, float64(2), body["rows"])
	types := body["types"].(map[string]any)
	assert.Equal(t, "text", types["Team"])
	assert.Equal(t, "num", types["Wins"])
	assert.NotEmpty(t, body["brands"])
}

func TestUploadRejectsEmptyCSV(t *testing.T) {
	h := newHarness(t, nil)

	resp := h.upload(t, "Team,Wins\n")
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewRendersDraft(t *testing.T) {
	h := newHarness(t, nil)
	_ = decodeBody(t, h.upload(t, testCSV))

	resp, err := h.client.Get(h.ts.URL + "/preview")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Ducks")
	assert.Contains(t, string(html), "<table")
}

func TestConfigOmittedFieldsKeepDefaults(t *testing.T) {
	h := newHarness(t, nil)
	_ = decodeBody(t, h.upload(t, testCSV))

	resp := h.postJSON(t, "/api/config", map[string]any{"title": "Only Title"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err := h.client.Get(h.ts.URL + "/preview")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(page)
	assert.Contains(t, html, "Only Title")
	assert.Contains(t, html, `id="tp-search" class=""`, "search box stays visible when the body omits show_search")
	assert.NotContains(t, html, `id="tp-search" class="tp-hide"`)
	assert.Contains(t, html, "nth-child", "striping keeps its default when the body omits striped")
}

func TestPreviewWithoutUploadFails(t *testing.T) {
	h := newHarness(t, nil)

	resp, err := h.client.Get(h.ts.URL + "/preview")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublishRequiresConfirmedSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	_ = decodeBody(t, h.upload(t, testCSV))

	resp := h.postJSON(t, "/api/publish", publishRequest{FileName: "table", Publisher: "dana"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Empty(t, h.stub.calls)
}

func TestPublishFlow(t *testing.T) {
	h := newHarness(t, nil)
	_ = decodeBody(t, h.upload(t, testCSV))

	resp := h.postJSON(t, "/api/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["hash"])

	resp = h.postJSON(t, "/api/publish", publishRequest{FileName: "week one", Publisher: "dana"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "https://acme.github.io/ActionNetworktg26/table.html", body["url"])
	assert.Equal(t, true, body["live"])
	assert.Contains(t, body["embed"], "<iframe")

	require.Len(t, h.stub.calls, 1)
	call := h.stub.calls[0]
	assert.Equal(t, "acme", call.target.Owner)
	assert.Equal(t, "ActionNetworktg26", call.target.Repo)
	assert.Equal(t, "week-one.html", call.target.Path)
	assert.Contains(t, call.art.HTML, "Ducks")
	assert.Contains(t, call.art.ConfigJSON, `"publisher": "dana"`)
	assert.Contains(t, call.art.DataCSV, "Ducks,12")
	assert.Empty(t, string(call.overwrite))
}

func TestPublishForwardsOverwriteToken(t *testing.T) {
	h := newHarness(t, nil)
	_ = decodeBody(t, h.upload(t, testCSV))
	_ = decodeBody(t, h.postJSON(t, "/api/confirm", nil))

	resp := h.postJSON(t, "/api/publish", publishRequest{FileName: "table", Publisher: "dana", Overwrite: "SWAP"})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, h.stub.calls, 1)
	assert.Equal(t, publish.ConfirmationToken("SWAP"), h.stub.calls[0].overwrite)
}

func TestPublishDirtyDraftRejected(t *testing.T) {
	h := newHarness(t, nil)
	_ = decodeBody(t, h.upload(t, testCSV))
	_ = decodeBody(t, h.postJSON(t, "/api/confirm", nil))

	cfg := map[string]any{"title": "Changed", "brand": "Action Network", "cell_align": "center", "footer_logo_align": "center"}
	_ = decodeBody(t, h.postJSON(t, "/api/config", cfg))

	resp := h.postJSON(t, "/api/publish", publishRequest{FileName: "table", Publisher: "dana"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Empty(t, h.stub.calls)
}

func TestPublishDisallowedPublisher(t *testing.T) {
	h := newHarness(t, &config.Config{Owner: "acme", Publishers: []string{"dana"}})
	_ = decodeBody(t, h.upload(t, testCSV))
	_ = decodeBody(t, h.postJSON(t, "/api/confirm", nil))

	resp := h.postJSON(t, "/api/publish", publishRequest{FileName: "table", Publisher: "mallory"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, h.stub.calls)
}

func TestPublishErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"destination exists", &publish.DestinationExistsError{Path: "table.html"}, http.StatusConflict},
		{"auth config", &publish.AuthConfigError{Reason: "no credentials"}, http.StatusPreconditionFailed},
		{"auth denied", &publish.AuthDeniedError{StatusCode: 403}, http.StatusForbidden},
		{"upload failure", &publish.UploadError{StatusCode: 500}, http.StatusBadGateway},
		{"plain error", errors.New("boom"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.stub.err = tt.err
			_ = decodeBody(t, h.upload(t, testCSV))
			_ = decodeBody(t, h.postJSON(t, "/api/confirm", nil))

			resp := h.postJSON(t, "/api/publish", publishRequest{FileName: "table", Publisher: "dana"})
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestStateEndpoint(t *testing.T) {
	h := newHarness(t, nil)

	resp, err := h.client.Get(h.ts.URL + "/api/state")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["uploaded"])
	assert.Equal(t, false, body["confirmed"])

	_ = decodeBody(t, h.upload(t, testCSV))
	_ = decodeBody(t, h.postJSON(t, "/api/confirm", nil))

	resp, err = h.client.Get(h.ts.URL + "/api/state")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["uploaded"])
	assert.Equal(t, true, body["confirmed"])
}

func TestSessionsAreIsolatedByCookie(t *testing.T) {
	cfg := &config.Config{Owner: "acme"}
	stub := &stubPublisher{res: &publish.Result{URL: "u"}}
	s := New(cfg, stub.publish)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	jarA, err := cookiejar.New(nil)
	require.NoError(t, err)
	jarB, err := cookiejar.New(nil)
	require.NoError(t, err)
	clientA := &http.Client{Jar: jarA}
	clientB := &http.Client{Jar: jarB}

	hA := &testHarness{ts: ts, client: clientA, stub: stub}
	_ = decodeBody(t, hA.upload(t, testCSV))

	resp, err := clientB.Get(ts.URL + "/api/state")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["uploaded"], "second client must not see the first client's upload")
}

func TestNormalizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"table", "table.html"},
		{"table.html", "table.html"},
		{"TABLE.HTML", "TABLE.HTML"},
		{".HTML", "table.html"},
		{"week one", "week-one.html"},
		{"  padded  ", "padded.html"},
		{"../../etc/passwd", "etcpasswd.html"},
		{"nested/path", "nestedpath.html"},
		{"", "table.html"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeFileName(tt.in), "input %q", tt.in)
	}
}

func TestIndexServesBuilderPage(t *testing.T) {
	h := newHarness(t, nil)

	resp, err := h.client.Get(h.ts.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), "tablepub"))
}
