package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-citation-auditor/internal/audit"
	"github.com/a3tai/mcp-citation-auditor/internal/citation"
	"github.com/a3tai/mcp-citation-auditor/internal/llm"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf/security"
)

const maxBodySize = 10 << 20

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	req := pdf.ListDocumentsRequest{Query: r.URL.Query().Get("query")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		req.Limit = limit
	}

	res, err := s.audit.Pages().ListDocuments(req)
	if err != nil {
		s.log.Printf("list documents failed: %v", err)
		jsonError(w, err.Error(), statusFor(err, http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePageText(w http.ResponseWriter, r *http.Request) {
	var req pdf.PageTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	snap, err := s.audit.Pages().PageText(req)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err, http.StatusUnprocessableEntity))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	var req audit.HighlightsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.audit.Highlights(req)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err, http.StatusUnprocessableEntity))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// extractCitationsRequest names either a page of a document or the page
// text itself.
type extractCitationsRequest struct {
	Path string `json:"path,omitempty"`
	Page int    `json:"page,omitempty"`
	llm.PageRequest
}

func (s *Server) handleExtractCitations(w http.ResponseWriter, r *http.Request) {
	var req extractCitationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Path == "" {
		res, err := s.audit.ExtractText(r.Context(), req.PageRequest)
		if err != nil {
			s.log.Printf("citation extraction failed for page %d: %v", req.PageNumber, err)
			jsonError(w, err.Error(), statusFor(err, http.StatusBadGateway))
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	page := req.Page
	if page == 0 {
		page = req.PageNumber
	}
	res, err := s.audit.Extract(r.Context(), audit.ExtractRequest{
		Path:            req.Path,
		Page:            page,
		ReportName:      req.ReportName,
		FewShotExamples: req.FewShotExamples,
		Memory:          req.Memory,
		SkipValidation:  req.SkipValidation,
	})
	if err != nil {
		s.log.Printf("citation extraction failed for %s page %d: %v", req.Path, page, err)
		jsonError(w, err.Error(), statusFor(err, http.StatusBadGateway))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClassifyText(w http.ResponseWriter, r *http.Request) {
	var req llm.ClassifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SelectedText) == "" {
		jsonError(w, "selectedText is required", http.StatusBadRequest)
		return
	}

	res, err := s.audit.Classify(r.Context(), req)
	if err != nil {
		s.log.Printf("classification failed: %v", err)
		jsonError(w, err.Error(), statusFor(err, http.StatusBadGateway))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type saveCitationsRequest struct {
	Page      int              `json:"page"`
	Citations []citation.Entry `json:"citations"`
}

type saveCitationsResponse struct {
	Saved int `json:"saved"`
	Total int `json:"total"`
}

func (s *Server) handleSaveCitations(w http.ResponseWriter, r *http.Request) {
	var req saveCitationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, total, err := s.audit.SavePage(req.Page, req.Citations)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, saveCitationsResponse{Saved: saved, Total: total})
}

type citationsResponse struct {
	ReportName string           `json:"report_name"`
	Citations  []citation.Entry `json:"citations"`
	Total      int              `json:"total"`
}

func (s *Server) handleListCitations(w http.ResponseWriter, r *http.Request) {
	entries := s.audit.Saved()
	writeJSON(w, http.StatusOK, citationsResponse{
		ReportName: s.audit.ReportName(),
		Citations:  entries,
		Total:      len(entries),
	})
}

// exportCSVRequest carries the rows to export. A missing body or a missing
// citations field exports the saved table.
type exportCSVRequest struct {
	Citations []citation.Entry `json:"citations"`
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var req exportCSVRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := s.audit.ExportCSV(&buf, req.Citations); err != nil {
		s.log.Printf("csv export failed: %v", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="citations.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, security.ErrPathOutsideRoot):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, pdf.ErrPageOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrNoAPIKey):
		return http.StatusServiceUnavailable
	default:
		return fallback
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
