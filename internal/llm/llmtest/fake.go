// Package llmtest provides a scripted llm.Extractor for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
	"github.com/a3tai/mcp-citation-auditor/internal/llm"
)

// Fake answers every call with the configured result and records the
// requests it saw.
type Fake struct {
	Extraction *citation.ExtractionResult
	Category   citation.Category
	Err        error

	mu       sync.Mutex
	pages    []llm.PageRequest
	classify []llm.ClassifyRequest
}

var _ llm.Extractor = (*Fake)(nil)

func (f *Fake) ExtractCitations(_ context.Context, req llm.PageRequest) (*citation.ExtractionResult, error) {
	f.mu.Lock()
	f.pages = append(f.pages, req)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if f.Extraction == nil {
		return &citation.ExtractionResult{}, nil
	}
	result := *f.Extraction
	result.Citations = append([]citation.Entry(nil), f.Extraction.Citations...)
	return &result, nil
}

func (f *Fake) Classify(_ context.Context, req llm.ClassifyRequest) (*citation.Classification, error) {
	f.mu.Lock()
	f.classify = append(f.classify, req)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	category := f.Category
	if category == "" {
		category = citation.CategoryUncategorized
	}
	c := citation.Classify(category, req.SelectedText)
	c.PageNumber = req.PageNumber
	c.ReportName = req.ReportName
	return &c, nil
}

// PageRequests returns the extraction requests received so far.
func (f *Fake) PageRequests() []llm.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.PageRequest(nil), f.pages...)
}

// ClassifyRequests returns the classification requests received so far.
func (f *Fake) ClassifyRequests() []llm.ClassifyRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.ClassifyRequest(nil), f.classify...)
}
