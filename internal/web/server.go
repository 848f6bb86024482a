package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
	"github.com/Srivathz/twitter-bookmark-manager/internal/syncer"
)

// Server exposes the bookmarks manager over HTTP.
type Server struct {
	store  *db.Store
	syncer *syncer.Syncer

	// syncMu rejects a sync request while one is already running; the sync
	// engine itself does not arbitrate concurrent runs.
	syncMu sync.Mutex
}

func NewServer(store *db.Store, s *syncer.Syncer) *Server {
	return &Server{store: store, syncer: s}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/sync", s.handleSync).Methods(http.MethodPost)
	r.HandleFunc("/bookmarks", s.handleListBookmarks).Methods(http.MethodGet)
	r.HandleFunc("/bookmarks/{id:[0-9]+}", s.handleUpdateBookmark).Methods(http.MethodPatch)
	r.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id:[0-9]+}", s.handleDeleteCategory).Methods(http.MethodDelete)

	return r
}

func (s *Server) ListenAndServe(addr string) error {
	log.Printf("Starting server at %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
