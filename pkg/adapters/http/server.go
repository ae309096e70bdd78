// Package http exposes a read-only catalog over a JSON API.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/aretw0/tabula"
	"github.com/go-chi/chi/v5"
)

// Provider supplies the catalog to serve. *tabula.Reloader implements it.
type Provider interface {
	Current() *tabula.Result
}

// Static serves a single, never reloaded result.
type Static struct {
	Result *tabula.Result
}

func (s Static) Current() *tabula.Result { return s.Result }

// Server serves catalog lookups and reload notifications.
type Server struct {
	Provider Provider
	Streams  *StreamManager
	Logger   *slog.Logger
	metrics  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts handler (typically promhttp) on /metrics.
func WithMetrics(handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = handler
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewServer creates a server for p.
func NewServer(p Provider, opts ...Option) *Server {
	s := &Server{
		Provider: p,
		Streams:  NewStreamManager(),
		Logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for p.
func NewHandler(p Provider, opts ...Option) http.Handler {
	return NewServer(p, opts...).Handler()
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/tables", s.ListTables)
	r.Get("/tables/{table}", s.ListRecords)
	r.Get("/tables/{table}/schema", s.GetSchema)
	r.Get("/tables/{table}/{id}", s.GetRecord)
	r.Get("/references", s.GetReferences)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

// Notify tells event subscribers that a new catalog is being served.
// Register it with (*tabula.Reloader).OnChange.
func (s *Server) Notify(res *tabula.Result) {
	data, err := json.Marshal(ReloadEvent{
		Tables:             res.Catalog.Len(),
		DanglingReferences: len(res.References.Violations),
		Changed:            res.Changes.Changed(),
	})
	if err != nil {
		s.Logger.Error("failed to encode reload event", "error", err)
		return
	}
	s.Streams.Broadcast(string(data))
}

// ReloadEvent is the payload of the "reload" server-sent event.
type ReloadEvent struct {
	Tables             int      `json:"tables"`
	DanglingReferences int      `json:"dangling_references"`
	Changed            []string `json:"changed,omitempty"`
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TableInfo summarizes one table.
type TableInfo struct {
	Name    string `json:"name"`
	Schema  string `json:"schema"`
	Records int    `json:"records"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Mode    string `json:"mode"`
	Tables  int    `json:"tables"`
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	cat := s.Provider.Current().Catalog
	s.writeJSON(w, http.StatusOK, Health{
		Status:  "ok",
		Version: tabula.Version,
		Mode:    cat.Mode().String(),
		Tables:  cat.Len(),
	})
}

// ListTables handles GET /tables.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	cat := s.Provider.Current().Catalog
	out := make([]TableInfo, 0, cat.Len())
	for _, name := range cat.Names() {
		t, _ := cat.Table(name)
		out = append(out, TableInfo{Name: name, Schema: t.Schema().Name(), Records: t.Len()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// ListRecords handles GET /tables/{table}.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	t, ok := s.Provider.Current().Catalog.Table(chi.URLParam(r, "table"))
	if !ok {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, t.All())
}

// GetSchema handles GET /tables/{table}/schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	t, ok := s.Provider.Current().Catalog.Table(chi.URLParam(r, "table"))
	if !ok {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, t.Schema())
}

// GetRecord handles GET /tables/{table}/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid identifier", http.StatusBadRequest)
		return
	}
	t, ok := s.Provider.Current().Catalog.Table(chi.URLParam(r, "table"))
	if !ok {
		http.Error(w, "Table not found", http.StatusNotFound)
		return
	}
	rec, ok := t.Get(id)
	if !ok {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// GetReferences handles GET /references.
func (s *Server) GetReferences(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Provider.Current().References)
}

// SubscribeEvents handles the GET /events request (SSE).
// A "reload" event is sent whenever Notify is called.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
	}
}

// Subscribe registers a listener; call the returned func to unsubscribe.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Len returns the number of subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}
