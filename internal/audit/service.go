// Package audit ties the page reader, the highlighter, the language model
// and the saved citation table together. Both the MCP tools and the HTTP
// API are thin layers over Service.
package audit

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
	"github.com/a3tai/mcp-citation-auditor/internal/highlight"
	"github.com/a3tai/mcp-citation-auditor/internal/llm"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf"
)

// Service coordinates the audit operations for one report.
type Service struct {
	pages      *pdf.Service
	extractor  llm.Extractor
	collection *citation.Collection
	reportName string
}

// NewService creates a Service. A nil extractor is replaced by
// llm.Unavailable.
func NewService(pages *pdf.Service, extractor llm.Extractor, reportName string) (*Service, error) {
	if pages == nil {
		return nil, fmt.Errorf("pdf service cannot be nil")
	}
	if extractor == nil {
		extractor = llm.Unavailable{}
	}
	if reportName == "" {
		reportName = llm.DefaultReportName
	}

	return &Service{
		pages:      pages,
		extractor:  extractor,
		collection: citation.NewCollection(reportName),
		reportName: reportName,
	}, nil
}

// Pages returns the underlying page service.
func (s *Service) Pages() *pdf.Service {
	return s.pages
}

// ReportName returns the configured report name.
func (s *Service) ReportName() string {
	return s.reportName
}

// HighlightsRequest asks where a page's citation values and search term sit.
type HighlightsRequest struct {
	Path       string           `json:"path"`
	Page       int              `json:"page"`
	Citations  []citation.Entry `json:"citations"`
	SearchTerm string           `json:"search_term,omitempty"`
	// Hovered is the citation row to emphasise, nil when none.
	Hovered *int `json:"hovered,omitempty"`
	// Scale converts page units to display pixels. Zero means 1.
	Scale float64 `json:"scale,omitempty"`
	// Explain adds the token span behind every highlight.
	Explain bool `json:"explain,omitempty"`
}

// HighlightsResult carries the raw highlights, the styled overlays and the
// rows none of whose values were found.
type HighlightsResult struct {
	Path      string                 `json:"path"`
	Page      int                    `json:"page"`
	Geometry  highlight.Geometry     `json:"geometry"`
	Citations []highlight.Highlight  `json:"citations"`
	Search    []highlight.Highlight  `json:"search"`
	Overlays  []highlight.Overlay    `json:"overlays"`
	Unmatched []int                  `json:"unmatched"`
	NeedsOCR  bool                   `json:"needs_ocr"`
	Spans     *highlight.Explanation `json:"spans,omitempty"`
}

// Highlights recomputes the highlights of one page from scratch.
func (s *Service) Highlights(req HighlightsRequest) (*HighlightsResult, error) {
	snap, err := s.pages.PageText(pdf.PageTextRequest{Path: req.Path, Page: req.Page})
	if err != nil {
		return nil, err
	}

	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}

	res, exp := highlight.ExplainHighlights(snap.Page, req.Citations, req.SearchTerm)
	out := &HighlightsResult{
		Path:      snap.Path,
		Page:      snap.Number(),
		Geometry:  snap.Page.Geometry,
		Citations: nonNil(res.Citations),
		Search:    nonNil(res.Search),
		Overlays:  highlight.StyleAll(res, req.Hovered, scale),
		Unmatched: unmatched(req.Citations, res.Citations),
		NeedsOCR:  snap.NeedsOCR,
	}
	if req.Explain {
		out.Spans = &exp
	}
	return out, nil
}

// unmatched lists the rows that have searchable values but produced no
// highlight.
func unmatched(entries []citation.Entry, found []highlight.Highlight) []int {
	seen := make(map[int]bool, len(found))
	for _, h := range found {
		seen[h.CitationIndex] = true
	}

	rows := []int{}
	for i, e := range entries {
		if len(e.SearchValues()) > 0 && !seen[i] {
			rows = append(rows, i)
		}
	}
	return rows
}

func nonNil(h []highlight.Highlight) []highlight.Highlight {
	if h == nil {
		return []highlight.Highlight{}
	}
	return h
}

// ExtractRequest asks for the citation rows of a page of a document.
type ExtractRequest struct {
	Path            string           `json:"path"`
	Page            int              `json:"page"`
	ReportName      string           `json:"report_name,omitempty"`
	FewShotExamples []citation.Entry `json:"few_shot_examples,omitempty"`
	Memory          *citation.Memory `json:"memory,omitempty"`
	SkipValidation  *bool            `json:"skip_validation,omitempty"`
}

// ExtractResult is the drafted table of one page.
type ExtractResult struct {
	Path      string           `json:"path"`
	Page      int              `json:"page"`
	Citations []citation.Entry `json:"citations"`
	Memory    *citation.Memory `json:"memory"`
	NeedsOCR  bool             `json:"needs_ocr"`
}

// Extract reads a page and drafts its citation rows with the model.
func (s *Service) Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	snap, err := s.pages.PageText(pdf.PageTextRequest{Path: req.Path, Page: req.Page})
	if err != nil {
		return nil, err
	}

	result, err := s.ExtractText(ctx, llm.PageRequest{
		PageText:        snap.Text,
		PageNumber:      snap.Number(),
		ReportName:      req.ReportName,
		FewShotExamples: req.FewShotExamples,
		Memory:          req.Memory,
		SkipValidation:  req.SkipValidation,
	})
	if err != nil {
		return nil, err
	}

	return &ExtractResult{
		Path:      snap.Path,
		Page:      snap.Number(),
		Citations: result.Citations,
		Memory:    result.Memory,
		NeedsOCR:  snap.NeedsOCR,
	}, nil
}

// ExtractText drafts the citation rows of page text supplied by the caller.
func (s *Service) ExtractText(ctx context.Context, req llm.PageRequest) (*citation.ExtractionResult, error) {
	if req.ReportName == "" {
		req.ReportName = s.reportName
	}

	result, err := s.extractor.ExtractCitations(ctx, req)
	if err != nil {
		return nil, err
	}
	if result.Citations == nil {
		result.Citations = []citation.Entry{}
	}
	return result, nil
}

// Classify assigns a selected snippet to a citation column.
func (s *Service) Classify(ctx context.Context, req llm.ClassifyRequest) (*citation.Classification, error) {
	if strings.TrimSpace(req.SelectedText) == "" {
		return nil, fmt.Errorf("selected text cannot be empty")
	}
	if req.ReportName == "" {
		req.ReportName = s.reportName
	}
	return s.extractor.Classify(ctx, req)
}

// SavePage appends the reviewed rows of a page to the audit table and
// returns the table's new size.
func (s *Service) SavePage(page int, entries []citation.Entry) (saved, total int, err error) {
	if page < 1 {
		return 0, 0, fmt.Errorf("invalid page number %d", page)
	}
	saved = s.collection.SavePage(page, citation.DropBlank(entries))
	return saved, s.collection.Len(), nil
}

// Saved returns every saved row in save order.
func (s *Service) Saved() []citation.Entry {
	return s.collection.Entries()
}

// ExportCSV writes entries as CSV, or the saved table when entries is nil.
func (s *Service) ExportCSV(w io.Writer, entries []citation.Entry) error {
	if entries == nil {
		entries = s.collection.Entries()
	}
	if err := citation.WriteCSV(w, entries); err != nil {
		return fmt.Errorf("failed to export citations: %w", err)
	}
	return nil
}
