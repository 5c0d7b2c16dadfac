// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package server provides the local web UI: upload a CSV, style it, confirm
// a snapshot, and publish it. Session state lives in memory keyed by a
// cookie; nothing is persisted.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/tablepub/internal/brand"
	"github.com/davetashner/tablepub/internal/config"
	"github.com/davetashner/tablepub/internal/dataset"
	"github.com/davetashner/tablepub/internal/publish"
	"github.com/davetashner/tablepub/internal/render"
	"github.com/davetashner/tablepub/internal/session"
)

// sessionCookie names the cookie carrying the in-memory session id.
const sessionCookie = "tablepub_session"

// maxUploadBytes bounds CSV uploads.
const maxUploadBytes = 16 << 20

// PublishFunc runs the publish workflow. Injected so tests exercise the
// handlers without network calls.
type PublishFunc func(ctx context.Context, target publish.Target, art publish.Artifact, overwrite publish.ConfirmationToken) (*publish.Result, error)

// Server is the HTTP layer over session state and the publish workflow.
type Server struct {
	cfg       *config.Config
	publishFn PublishFunc

	// Test seams.
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[string]*session.State
}

// New builds a Server around the given config and publish function.
func New(cfg *config.Config, publishFn PublishFunc) *Server {
	return &Server{
		cfg:       cfg,
		publishFn: publishFn,
		now:       time.Now,
		newID:     uuid.NewString,
		sessions:  make(map[string]*session.State),
	}
}

// Router assembles the chi routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/preview", s.handlePreview)
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/state", s.handleState)
		r.Post("/config", s.handleConfig)
		r.Post("/confirm", s.handleConfirm)
		r.Post("/publish", s.handlePublish)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("serving table builder UI", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

// state returns the session for the request, creating one (and setting the
// cookie) when absent.
func (s *Server) state(w http.ResponseWriter, r *http.Request) *session.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if st, ok := s.sessions[c.Value]; ok {
			return st
		}
	}

	id := s.newID()
	st := session.New()
	if s.cfg.DefaultBrand != "" {
		st.Draft.Brand = s.cfg.DefaultBrand
	}
	s.sessions[id] = st
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	st := s.state(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	ds, err := dataset.Read(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if ds.Empty() {
		writeError(w, http.StatusBadRequest, render.ErrEmptyDataset)
		return
	}

	st.SetDataset(ds)

	types := make(map[string]dataset.ColumnType, len(ds.Columns))
	for _, c := range ds.Columns {
		types[c] = ds.ColumnType(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": ds.Columns,
		"rows":    len(ds.Rows),
		"types":   types,
		"brands":  brand.Names(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.state(w, r)
	resp := map[string]any{
		"uploaded":  !st.Uploaded.Empty(),
		"dirty":     st.Dirty(),
		"confirmed": st.Confirmed != nil,
		"last_url":  st.LastURL,
	}
	if st.Confirmed != nil {
		resp["confirmed_at"] = st.Confirmed.ConfirmedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	st := s.state(w, r)

	// Decode over the defaults so omitted fields keep their documented
	// values instead of collapsing to Go zeros.
	cfg := render.DefaultConfig()
	if s.cfg.DefaultBrand != "" {
		cfg.Brand = s.cfg.DefaultBrand
	}
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding config: %w", err))
		return
	}
	st.Draft = cfg
	writeJSON(w, http.StatusOK, map[string]any{"dirty": st.Dirty()})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	st := s.state(w, r)
	if st.Uploaded.Empty() {
		writeError(w, http.StatusBadRequest, errors.New("upload a CSV before previewing"))
		return
	}
	html, err := render.Render(st.Uploaded, st.Draft)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	st := s.state(w, r)
	snap, err := st.Confirm(s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hash":         snap.Hash,
		"confirmed_at": snap.ConfirmedAt.Format(time.RFC3339),
	})
}

// publishRequest is the POST /api/publish body.
type publishRequest struct {
	FileName  string `json:"file_name"`
	Publisher string `json:"publisher"`
	Overwrite string `json:"overwrite"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	st := s.state(w, r)

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding publish request: %w", err))
		return
	}

	if !s.cfg.AllowsPublisher(req.Publisher) {
		writeError(w, http.StatusForbidden, fmt.Errorf("%q is not an allowed publisher", req.Publisher))
		return
	}
	if st.Confirmed == nil {
		writeError(w, http.StatusConflict, session.ErrNotConfirmed)
		return
	}
	if st.Dirty() {
		writeError(w, http.StatusConflict, errors.New("draft changed since last confirm; confirm again before publishing"))
		return
	}

	snap := st.Confirmed
	now := s.now()

	manifest, err := snap.Manifest(req.Publisher, s.newID(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	dataCSV, err := snap.Dataset.MarshalCSV()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	target := publish.Target{
		Owner: s.cfg.Owner,
		Repo:  brand.RepoName(snap.Config.Brand, now),
		Path:  NormalizeFileName(req.FileName),
	}
	art := publish.Artifact{HTML: snap.HTML, ConfigJSON: manifest, DataCSV: dataCSV}

	res, err := s.publishFn(r.Context(), target, art, publish.ConfirmationToken(req.Overwrite))
	if err != nil {
		writeError(w, publishErrorStatus(err), err)
		return
	}

	st.LastURL = res.URL
	st.LastEmbed = render.EmbedSnippet(res.URL, 800)
	writeJSON(w, http.StatusOK, map[string]any{
		"url":   res.URL,
		"embed": st.LastEmbed,
		"live":  res.Live,
		"repo":  target.Repo,
	})
}

// NormalizeFileName turns a user-supplied short name into a safe .html leaf
// path: spaces become dashes, path separators are stripped, and a missing
// extension is added.
func NormalizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "\\", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || strings.EqualFold(name, ".html") {
		return "table.html"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".html") {
		name += ".html"
	}
	return name
}

// publishErrorStatus maps the publish error taxonomy onto HTTP statuses.
func publishErrorStatus(err error) int {
	var (
		authCfg *publish.AuthConfigError
		denied  *publish.AuthDeniedError
		exists  *publish.DestinationExistsError
	)
	switch {
	case errors.As(err, &exists):
		return http.StatusConflict
	case errors.As(err, &authCfg):
		return http.StatusPreconditionFailed
	case errors.As(err, &denied):
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
