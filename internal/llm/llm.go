// Package llm drafts citation rows and classifies selected text with a
// language model.
package llm

import (
	"context"
	"errors"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
)

// DefaultReportName is used when a request names no report.
const DefaultReportName = "Legal Expert Report"

// ErrNoAPIKey is returned when no model API key is configured.
var ErrNoAPIKey = errors.New("no OpenAI API key configured")

// Extractor is the language-model collaborator of the auditor.
type Extractor interface {
	ExtractCitations(ctx context.Context, req PageRequest) (*citation.ExtractionResult, error)
	Classify(ctx context.Context, req ClassifyRequest) (*citation.Classification, error)
}

// PageRequest asks for the citation rows of one page.
type PageRequest struct {
	PageText   string `json:"pageText"`
	PageNumber int    `json:"pageNumber"`
	ReportName string `json:"reportName,omitempty"`
	// FewShotExamples are rows a reviewer corrected earlier; the model is
	// asked to follow their patterns.
	FewShotExamples []citation.Entry `json:"fewShotExamples,omitempty"`
	// Memory is what the previous page's extraction handed on.
	Memory *citation.Memory `json:"memory,omitempty"`
	// SkipValidation disables dropping blank rows and coercing paragraph
	// numbers. Nil means true.
	SkipValidation *bool `json:"skipValidation,omitempty"`
}

// ValidationSkipped reports the effective SkipValidation setting.
func (r PageRequest) ValidationSkipped() bool {
	return r.SkipValidation == nil || *r.SkipValidation
}

// Report returns the report name, or DefaultReportName.
func (r PageRequest) Report() string {
	if r.ReportName == "" {
		return DefaultReportName
	}
	return r.ReportName
}

// ClassifyRequest asks which column a selected snippet belongs to.
type ClassifyRequest struct {
	SelectedText string `json:"selectedText"`
	PageNumber   int    `json:"pageNumber,omitempty"`
	ReportName   string `json:"reportName,omitempty"`
}

// Unavailable is the Extractor used when no model is configured. Every
// call fails with ErrNoAPIKey.
type Unavailable struct{}

func (Unavailable) ExtractCitations(context.Context, PageRequest) (*citation.ExtractionResult, error) {
	return nil, ErrNoAPIKey
}

func (Unavailable) Classify(context.Context, ClassifyRequest) (*citation.Classification, error) {
	return nil, ErrNoAPIKey
}
