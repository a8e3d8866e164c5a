package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/a3tai/mcp-citation-auditor/internal/pdf/pdftest"
)

type textLine = pdftest.Line

func writeTestPDF(t *testing.T, dir, name string, pages ...[]textLine) string {
	t.Helper()
	return pdftest.Write(t, dir, name, pages...)
}

func createTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "pdf_test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

func createTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}
