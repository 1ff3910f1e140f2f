// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the conversational agent and its stored state
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hewansirak/tutormate/internal/agent"
	"github.com/hewansirak/tutormate/internal/store"
	"github.com/hewansirak/tutormate/pkg/types"
)

const (
	defaultHistoryLimit   = 20
	defaultInterestsLimit = 10
)

// Server routes HTTP requests to the agent and the store.
type Server struct {
	agent *agent.Agent
	store *store.Store
	cfg   types.ServerConfig
	out   io.Writer
}

// New creates a Server. Progress output is written to out.
func New(a *agent.Agent, st *store.Store, cfg types.ServerConfig, out io.Writer) *Server {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.InterestsLimit <= 0 {
		cfg.InterestsLimit = defaultInterestsLimit
	}
	if out == nil {
		out = io.Discard
	}
	return &Server{agent: a, store: st, cfg: cfg, out: out}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/search-history/{user_id}", s.handleSearchHistory).Methods(http.MethodGet)
	r.HandleFunc("/user-interests/{user_id}", s.handleUserInterests).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/debug/cached-papers", s.handleCachedPapers).Methods(http.MethodGet)
	r.HandleFunc("/debug/paper/{paper_id}", s.handlePaper).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(s.out, "listening on %s\n", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.UserID == "" {
		req.UserID = "default_user"
	}

	resp := s.agent.ProcessMessage(r.Context(), req.UserID, req.Message)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	history, err := s.store.SearchHistory(r.Context(), userID, s.cfg.HistoryLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if history == nil {
		history = []types.SearchHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"history": history,
	})
}

func (s *Server) handleUserInterests(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	interests, err := s.store.Interests(r.Context(), userID, s.cfg.InterestsLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if interests == nil {
		interests = []types.Interest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"interests": interests,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCachedPapers(w http.ResponseWriter, r *http.Request) {
	papers, err := s.store.RecentPapers(r.Context(), 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(papers),
		"papers": papers,
	})
}

func (s *Server) handlePaper(w http.ResponseWriter, r *http.Request) {
	paperID := mux.Vars(r)["paper_id"]
	paper, err := s.store.Paper(r.Context(), paperID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if paper == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"found":    false,
			"paper_id": paperID,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"found": true,
		"paper": paper,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
