// Package server exposes table generation and snapshot management over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"pkg.jsn.cam/randen/internal/snapshot"
	"pkg.jsn.cam/randen/pkg/export"
	"pkg.jsn.cam/randen/pkg/httpx"
	"pkg.jsn.cam/randen/pkg/randen"
)

// Server wraps the generator, the snapshot store and the HTTP mux
type Server struct {
	gen   *randen.Generator
	store snapshot.Store
	mux   *http.ServeMux
}

// New creates a server. A nil store falls back to an in-memory one.
func New(gen *randen.Generator, store snapshot.Store) *Server {
	if store == nil {
		store = snapshot.NewMemoryStore()
	}
	s := &Server{
		gen:   gen,
		store: store,
		mux:   http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("POST /api/tables", httpx.Wrap(s.handleGenerate))

	// Snapshot APIs
	s.mux.HandleFunc("GET /api/snapshots", httpx.Wrap(s.handleSnapshotList))
	s.mux.HandleFunc("GET /api/snapshots/{id}", httpx.Wrap(s.handleSnapshotMeta))
	s.mux.HandleFunc("GET /api/snapshots/{id}/data", httpx.Wrap(s.handleSnapshotData))
	s.mux.HandleFunc("DELETE /api/snapshots/{id}", httpx.Wrap(s.handleSnapshotDelete))

	s.mux.HandleFunc("GET /health", httpx.Wrap(s.handleHealth))
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("[SERVER] Starting randen server on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) error {
	var req TableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httpx.WithStatus(http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
	}

	format := export.FormatJSON
	if req.Format != "" {
		f, err := export.ParseFormat(req.Format)
		if err != nil {
			return statusFor(err)
		}
		format = f
	}

	tbl, err := s.gen.Generate(req.Request)
	if err != nil {
		log.Printf("[SERVER] Generation failed: %v", err)
		return statusFor(err)
	}

	if req.Save {
		meta, err := snapshot.Save(s.store, req.Name, tbl)
		if err != nil {
			return statusFor(err)
		}
		httpx.JSON(w, http.StatusCreated, meta)
		return nil
	}

	return writeTable(w, tbl, format)
}

func (s *Server) handleSnapshotList(w http.ResponseWriter, r *http.Request) error {
	metas, err := s.store.List()
	if err != nil {
		return err
	}
	if metas == nil {
		metas = []snapshot.Meta{}
	}

	httpx.JSON(w, http.StatusOK, SnapshotListResponse{Snapshots: metas})
	return nil
}

func (s *Server) handleSnapshotMeta(w http.ResponseWriter, r *http.Request) error {
	meta, err := s.store.Meta(r.PathValue("id"))
	if err != nil {
		return statusFor(err)
	}

	httpx.JSON(w, http.StatusOK, meta)
	return nil
}

func (s *Server) handleSnapshotData(w http.ResponseWriter, r *http.Request) error {
	format := export.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			return statusFor(err)
		}
		format = f
	}

	_, tbl, err := snapshot.Load(s.store, r.PathValue("id"))
	if err != nil {
		return statusFor(err)
	}

	return writeTable(w, tbl, format)
}

func (s *Server) handleSnapshotDelete(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if err := s.store.Delete(id); err != nil {
		return statusFor(err)
	}

	log.Printf("[SERVER] Deleted snapshot %s", id)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	httpx.JSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	return nil
}

// writeTable encodes into memory first so encoding errors still get a status.
func writeTable(w http.ResponseWriter, tbl *randen.Table, format export.Format) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, tbl, format); err != nil {
		return err
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	if err != nil {
		log.Printf("[SERVER] Failed to write response: %v", err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) error {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		return httpx.WithStatus(http.StatusNotFound, err)
	case errors.Is(err, snapshot.ErrIncompatibleVersion):
		return httpx.WithStatus(http.StatusConflict, err)
	case errors.Is(err, randen.ErrUniqueExhausted):
		return httpx.WithStatus(http.StatusUnprocessableEntity, err)
	case errors.Is(err, randen.ErrColumnCountMismatch),
		errors.Is(err, randen.ErrUnsupportedType),
		errors.Is(err, randen.ErrInvalidRange),
		errors.Is(err, randen.ErrInvalidRowCount),
		errors.Is(err, randen.ErrInvalidColumnCount),
		errors.Is(err, randen.ErrInvalidRequest),
		errors.Is(err, export.ErrUnknownFormat):
		return httpx.WithStatus(http.StatusBadRequest, err)
	}
	return err
}
