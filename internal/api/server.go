// Package api serves the citation auditor over HTTP for the review UI.
package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/a3tai/mcp-citation-auditor/internal/audit"
)

// Server is the HTTP API server of the auditor.
type Server struct {
	router chi.Router
	audit  *audit.Service
	mcp    http.Handler
	log    *log.Logger
}

// NewServer creates and configures the HTTP server. When mcpHandler is not
// nil it is mounted at /mcp.
func NewServer(auditService *audit.Service, mcpHandler http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		audit: auditService,
		mcp:   mcpHandler,
		log:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Post("/pages/text", s.handlePageText)
		r.Post("/highlights", s.handleHighlights)
		r.Post("/extract-citations", s.handleExtractCitations)
		r.Post("/classify-text", s.handleClassifyText)
		r.Get("/citations", s.handleListCitations)
		r.Post("/citations/save", s.handleSaveCitations)
		r.Post("/export/csv", s.handleExportCSV)
	})

	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
