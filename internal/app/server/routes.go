package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sentinel/internal/database"
	"sentinel/internal/feeds"
	"sentinel/internal/suspicion"
)

// Server binds the HTTP boundary to its collaborators. Handlers translate
// requests into engine and store calls and map errors onto status codes;
// nothing here classifies events itself.
type Server struct {
	engine *suspicion.Engine
	ranges *database.RangeStore
	flags  *database.FlagStore
	events *database.EventLog
	feeds  *feeds.Manager
}

func New(db *gorm.DB, engine *suspicion.Engine, feedManager *feeds.Manager) *Server {
	return &Server{
		engine: engine,
		ranges: database.NewRangeStore(db),
		flags:  database.NewFlagStore(db),
		events: database.NewEventLog(db),
		feeds:  feedManager,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*") // Allow any origin
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		log.Debug("Request handled", "id", requestID, "method", r.Method, "path", r.URL.Path)
	})
}

// Handler assembles the route table. Split out from OpenRoutes so tests can
// run it against httptest without a listener.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST /ip-ranges", s.addIPRange)
	router.HandleFunc("GET /ip-ranges", s.getIPRanges)
	router.HandleFunc("DELETE /ip-ranges", s.deleteIPRange)

	router.HandleFunc("POST /process-event", s.processEvents)
	router.HandleFunc("GET /suspicious-events", s.getSuspiciousEvents)

	router.HandleFunc("GET /stats", s.getOverviewStats)
	router.HandleFunc("GET /version", getVersion)
	router.HandleFunc("POST /feeds/refresh", s.refreshFeeds)

	return enableCORS(withRequestID(router))
}

// OpenRoutes starts the API server and blocks until it terminates.
func (s *Server) OpenRoutes(port int) error {
	log.Debug("Routes opened")

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	log.Infof("Starting sentinel backend on port :%d", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}
