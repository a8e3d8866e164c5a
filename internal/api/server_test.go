package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-citation-auditor/internal/audit"
	"github.com/a3tai/mcp-citation-auditor/internal/citation"
	"github.com/a3tai/mcp-citation-auditor/internal/llm"
	"github.com/a3tai/mcp-citation-auditor/internal/llm/llmtest"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf/pdftest"
)

func newTestServer(t *testing.T, extractor llm.Extractor) *Server {
	t.Helper()
	dir := t.TempDir()
	pdftest.Write(t, dir, "larson-report.pdf",
		[]pdftest.Line{
			{X: 72, Y: 700, Text: "41. See TOT00189044-TOT00189059"},
			{X: 72, Y: 680, Text: "Prashant Vashi Deposition at 35:17"},
		},
		[]pdftest.Line{{X: 72, Y: 700, Text: "42. Intentionally short"}},
	)

	pages, err := pdf.NewService(pdf.Options{
		MaxFileSize: 10 * 1024 * 1024,
		Directory:   dir,
		CacheSize:   8,
		OCRMinChars: 10,
	})
	require.NoError(t, err)

	svc, err := audit.NewService(pages, extractor, "Larson Report")
	require.NoError(t, err)

	return NewServer(svc, nil, log.New(io.Discard, "", 0))
}

func do(t *testing.T, srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDocuments(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodGet, "/api/documents?query=larson", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res pdf.ListDocumentsResult
	decode(t, rec, &res)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "larson-report.pdf", res.Documents[0].Name)

	rec = do(t, srv, http.MethodGet, "/api/documents?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageText(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/pages/text", `{"path":"larson-report.pdf","page":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap pdf.PageSnapshot
	decode(t, rec, &snap)
	assert.Equal(t, 2, snap.PageCount)
	assert.Contains(t, snap.Text, "Prashant Vashi")
	assert.False(t, snap.NeedsOCR)

	rec = do(t, srv, http.MethodPost, "/api/pages/text", `{"path":"larson-report.pdf","page":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &snap)
	assert.False(t, snap.NeedsOCR)
}

func TestPageTextErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"missing file", `{"path":"missing.pdf","page":1}`, http.StatusNotFound},
		{"outside root", `{"path":"../escape.pdf","page":1}`, http.StatusForbidden},
		{"page out of range", `{"path":"larson-report.pdf","page":9}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/pages/text", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())

			var body map[string]string
			decode(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHighlights(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/highlights", `{
		"path": "larson-report.pdf",
		"page": 1,
		"citations": [{"Depositions": "Prashant Vashi"}, {"date": "3/28/24"}],
		"search_term": "35:17",
		"explain": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res audit.HighlightsResult
	decode(t, rec, &res)
	require.Len(t, res.Citations, 1)
	assert.Equal(t, 0, res.Citations[0].CitationIndex)
	assert.Len(t, res.Search, 1)
	assert.Len(t, res.Overlays, 2)
	assert.Empty(t, res.Unmatched)
	require.NotNil(t, res.Spans)
	assert.Len(t, res.Spans.Search, 1)
}

func TestExtractCitations(t *testing.T) {
	fake := &llmtest.Fake{Extraction: &citation.ExtractionResult{
		Citations: []citation.Entry{{Depositions: "Prashant Vashi", Cites: "35:17", ParagraphNo: 41}},
	}}
	srv := newTestServer(t, fake)

	rec := do(t, srv, http.MethodPost, "/api/extract-citations",
		`{"pageText":"41. Prashant Vashi Deposition at 35:17","pageNumber":3,"skipValidation":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res citation.ExtractionResult
	decode(t, rec, &res)
	require.Len(t, res.Citations, 1)
	assert.Equal(t, 41, res.Citations[0].ParagraphNo)

	rec = do(t, srv, http.MethodPost, "/api/extract-citations", `{"path":"larson-report.pdf","page":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var fromPage audit.ExtractResult
	decode(t, rec, &fromPage)
	assert.Equal(t, 1, fromPage.Page)
	assert.Len(t, fromPage.Citations, 1)

	reqs := fake.PageRequests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 3, reqs[0].PageNumber)
	assert.False(t, reqs[0].ValidationSkipped())
	assert.Equal(t, "Larson Report", reqs[0].ReportName)
	assert.Contains(t, reqs[1].PageText, "TOT00189044")
}

func TestExtractCitationsWithoutModel(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/extract-citations", `{"pageText":"text","pageNumber":1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClassifyText(t *testing.T) {
	fake := &llmtest.Fake{Category: citation.CategoryBatesBegin}
	srv := newTestServer(t, fake)

	rec := do(t, srv, http.MethodPost, "/api/classify-text",
		`{"selectedText":"TOT00189044-TOT00189059","pageNumber":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res citation.Classification
	decode(t, rec, &res)
	assert.Equal(t, citation.CategoryBatesRange, res.Category)
	require.NotNil(t, res.BatesBegin)
	assert.Equal(t, "TOT00189044", *res.BatesBegin)
	assert.Equal(t, 4, res.PageNumber)

	rec = do(t, srv, http.MethodPost, "/api/classify-text", `{"selectedText":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, fake.ClassifyRequests(), 1)
}

func TestSaveListAndExport(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/citations/save",
		`{"page":2,"citations":[{"Depositions":"Prashant Vashi","Paragraph No.":12},{}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"saved":1,"total":1}`, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/citations/save", `{"page":0,"citations":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/citations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list citationsResponse
	decode(t, rec, &list)
	assert.Equal(t, "Larson Report", list.ReportName)
	assert.Equal(t, 1, list.Total)

	rec = do(t, srv, http.MethodPost, "/api/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "citations.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(citation.Columns, ","), lines[0])
	assert.Contains(t, lines[1], "Prashant Vashi")

	rec = do(t, srv, http.MethodPost, "/api/export/csv", `{"citations":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strings.Join(citation.Columns, ",")+"\n", rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/export/csv", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMCPMount(t *testing.T) {
	dir := t.TempDir()
	pages, err := pdf.NewService(pdf.Options{MaxFileSize: 1024, Directory: dir, CacheSize: 1})
	require.NoError(t, err)
	svc, err := audit.NewService(pages, nil, "")
	require.NoError(t, err)

	var hit bool
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusAccepted)
	})

	var logs bytes.Buffer
	srv := NewServer(svc, mcp, log.New(&logs, "", 0))

	rec := do(t, srv, http.MethodPost, "/mcp", `{}`)
	assert.True(t, hit)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, logs.String(), "path=/mcp status=202")
}
