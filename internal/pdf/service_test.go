package pdf

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
	"github.com/a3tai/mcp-citation-auditor/internal/highlight"
	"github.com/a3tai/mcp-citation-auditor/internal/pdf/security"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	svc, err := NewService(Options{
		MaxFileSize: 10 * 1024 * 1024,
		Directory:   dir,
		CacheSize:   4,
		OCRMinChars: 20,
	})
	require.NoError(t, err)
	return svc
}

func TestService_PageText(t *testing.T) {
	dir := createTempDir(t)
	writeTestPDF(t, dir, "vashi-report.pdf",
		[]textLine{{X: 72, Y: 700, Text: "Deposition of Prashant Vashi at 35:17"}, {X: 72, Y: 680, Text: "TOT00191801-16"}},
		[]textLine{{X: 72, Y: 700, Text: "1"}},
	)
	svc := newTestService(t, dir)

	snap, err := svc.PageText(PageTextRequest{Path: "vashi-report.pdf", Page: 1})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "vashi-report.pdf"), snap.Path)
	assert.Equal(t, 2, snap.PageCount)
	assert.Equal(t, 1, snap.Number())
	assert.Contains(t, snap.Text, "Prashant Vashi")
	assert.False(t, snap.NeedsOCR)
	assert.Equal(t, highlight.Geometry{Width: 612, Height: 792}, snap.Page.Geometry)

	require.NotEmpty(t, snap.Page.Tokens)
	first := snap.Page.Tokens[0]
	assert.True(t, strings.HasPrefix(first.Text, "Deposition"))
	assert.InDelta(t, 72, first.X(), 0.5)
	assert.InDelta(t, 700, first.Y(), 0.5)
	assert.InDelta(t, 12, first.TextHeight(), 0.5)
}

func TestService_PageTextFeedsHighlighter(t *testing.T) {
	dir := createTempDir(t)
	writeTestPDF(t, dir, "report.pdf", []textLine{{X: 72, Y: 700, Text: "See TOT00189044 at 4"}})
	svc := newTestService(t, dir)

	snap, err := svc.PageText(PageTextRequest{Path: "report.pdf", Page: 1})
	require.NoError(t, err)

	res := highlight.ComputeHighlights(snap.Page, []citation.Entry{{BatesBegin: "TOT00189044"}}, "")
	require.Len(t, res.Citations, 1)
	assert.InDelta(t, 792-700-12, res.Citations[0].Top, 0.5)
}

func TestService_PageTextCached(t *testing.T) {
	dir := createTempDir(t)
	writeTestPDF(t, dir, "report.pdf", []textLine{{X: 72, Y: 700, Text: "Expert report of Dr. Larson"}})
	svc := newTestService(t, dir)

	first, err := svc.PageText(PageTextRequest{Path: "report.pdf", Page: 1})
	require.NoError(t, err)
	second, err := svc.PageText(PageTextRequest{Path: "report.pdf", Page: 1})
	require.NoError(t, err)

	assert.Same(t, first, second)
	stats := svc.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestService_PageTextErrors(t *testing.T) {
	dir := createTempDir(t)
	writeTestPDF(t, dir, "report.pdf", []textLine{{X: 72, Y: 700, Text: "only page"}})
	svc := newTestService(t, dir)

	t.Run("page out of range", func(t *testing.T) {
		for _, page := range []int{0, 2, -1} {
			_, err := svc.PageText(PageTextRequest{Path: "report.pdf", Page: page})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPageOutOfRange)

			var pageErr *PageError
			require.True(t, errors.As(err, &pageErr))
			assert.Equal(t, page, pageErr.Page)
		}
	})

	t.Run("outside root", func(t *testing.T) {
		_, err := svc.PageText(PageTextRequest{Path: "../elsewhere.pdf", Page: 1})
		assert.ErrorIs(t, err, security.ErrPathOutsideRoot)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := svc.PageText(PageTextRequest{Path: "missing.pdf", Page: 1})
		assert.Error(t, err)
	})
}

func TestService_NeedsOCR(t *testing.T) {
	dir := createTempDir(t)
	writeTestPDF(t, dir, "scan.pdf", []textLine{{X: 500, Y: 30, Text: "12"}})
	svc := newTestService(t, dir)

	snap, err := svc.PageText(PageTextRequest{Path: "scan.pdf", Page: 1})
	require.NoError(t, err)
	assert.True(t, snap.NeedsOCR)
}

func TestService_ValidateFile(t *testing.T) {
	dir := createTempDir(t)
	writeTestPDF(t, dir, "report.pdf", []textLine{{X: 72, Y: 700, Text: "x"}})
	svc := newTestService(t, dir)

	result, err := svc.ValidateFile(ValidateFileRequest{Path: "report.pdf"})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.Pages)

	_, err = svc.ValidateFile(ValidateFileRequest{Path: "/etc/passwd"})
	assert.ErrorIs(t, err, security.ErrPathOutsideRoot)
}

func TestService_ValidateConfiguration(t *testing.T) {
	svc, err := NewService(Options{MaxFileSize: 0, Directory: "/tmp"})
	require.NoError(t, err)
	assert.Error(t, svc.ValidateConfiguration())

	svc, err = NewService(Options{MaxFileSize: 1024, Directory: "/tmp"})
	require.NoError(t, err)
	assert.NoError(t, svc.ValidateConfiguration())

	_, err = NewService(Options{MaxFileSize: 1024})
	assert.Error(t, err)
}

func TestService_ServerInfo(t *testing.T) {
	dir := createTempDir(t)
	svc := newTestService(t, dir)

	info := svc.ServerInfo("citation-auditor", "1.2.3", "Legal Expert Report")

	assert.Equal(t, "citation-auditor", info.ServerName)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, dir, info.DefaultDirectory)
	assert.Equal(t, "Legal Expert Report", info.ReportName)
	assert.Equal(t, 4, info.Cache.Capacity)
	assert.Contains(t, info.UsageGuidance, "citation_highlights")

	var names []string
	for _, tool := range info.AvailableTools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Parameters, tool.Name)
		assert.NotEqual(t, "Tool description not available", tool.Description)
	}
	assert.Contains(t, names, "pdf_page_text")
	assert.Contains(t, names, "citation_extract")
}
