package pdf

import (
	"errors"
	"strings"
	"testing"
)

func TestReader_ReadPage(t *testing.T) {
	dir := createTempDir(t)
	report := writeTestPDF(t, dir, "report.pdf",
		[]textLine{{X: 72, Y: 700, Text: "Page one"}},
		[]textLine{{X: 72, Y: 700, Text: "Sebini rough tr. at 23:21"}},
	)
	notPDF := createTempFile(t, dir, "report.txt", "plain text")

	reader := NewReader(1024*1024, 10)

	tests := []struct {
		name    string
		path    string
		page    int
		want    string
		errMsg  string
		errType error
	}{
		{name: "second page", path: report, page: 2, want: "Sebini"},
		{name: "empty path", path: "", page: 1, errMsg: "path cannot be empty"},
		{name: "not a pdf", path: notPDF, page: 1, errMsg: "file is not a PDF"},
		{name: "page zero", path: report, page: 0, errType: ErrPageOutOfRange},
		{name: "past the end", path: report, page: 3, errType: ErrPageOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := reader.ReadPage(tt.path, tt.page)
			if tt.errMsg != "" || tt.errType != nil {
				if err == nil {
					t.Fatal("ReadPage() expected error but got none")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ReadPage() error = %v, want error containing %q", err, tt.errMsg)
				}
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("ReadPage() error = %v, want %v", err, tt.errType)
				}
				if snap != nil {
					t.Errorf("ReadPage() expected nil snapshot on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadPage() unexpected error = %v", err)
			}
			if !strings.Contains(snap.Text, tt.want) {
				t.Errorf("Text = %q, want it to contain %q", snap.Text, tt.want)
			}
			if snap.Page.Number != tt.page {
				t.Errorf("Page.Number = %d, want %d", snap.Page.Number, tt.page)
			}
		})
	}
}

func TestPageError(t *testing.T) {
	err := &PageError{Path: "/r/a.pdf", Page: 9, Err: ErrPageOutOfRange}

	if !errors.Is(err, ErrPageOutOfRange) {
		t.Error("PageError should unwrap to its cause")
	}
	if got := err.Error(); got != "/r/a.pdf page 9: page out of range" {
		t.Errorf("Error() = %q", got)
	}
}

func TestJoinRuns(t *testing.T) {
	if got := joinRuns(nil); got != "" {
		t.Errorf("joinRuns(nil) = %q", got)
	}
}
