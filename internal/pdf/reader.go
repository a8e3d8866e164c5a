package pdf

import (
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-citation-auditor/internal/highlight"
)

// Reader loads single pages of PDF files.
type Reader struct {
	validator   *Validator
	ocrMinChars int
}

// NewReader creates a reader. Pages with fewer than ocrMinChars characters
// of text are flagged as needing OCR.
func NewReader(maxFileSize int64, ocrMinChars int) *Reader {
	return &Reader{
		validator:   NewValidator(maxFileSize),
		ocrMinChars: ocrMinChars,
	}
}

// ReadPage extracts the text layer and geometry of page number (1-based).
func (r *Reader) ReadPage(path string, number int) (*PageSnapshot, error) {
	if _, err := r.validator.statPDF(path); err != nil {
		return nil, err
	}

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count := doc.NumPage()
	if number < 1 || number > count {
		return nil, &PageError{
			Path: path,
			Page: number,
			Err:  fmt.Errorf("%w: document has %d pages", ErrPageOutOfRange, count),
		}
	}

	page := doc.Page(number)
	if page.V.IsNull() {
		return nil, &PageError{Path: path, Page: number, Err: fmt.Errorf("page object is missing")}
	}

	tokens, text, err := readText(page)
	if err != nil {
		return nil, &PageError{Path: path, Page: number, Err: err}
	}

	snapshot := &PageSnapshot{
		Path:      path,
		PageCount: count,
		Text:      text,
		Page: highlight.Page{
			Number:   number,
			Tokens:   tokens,
			Geometry: r.geometry(path, page, number),
		},
	}
	snapshot.NeedsOCR = len(strings.TrimSpace(text)) < r.ocrMinChars

	return snapshot, nil
}

// readText returns the positioned runs and plain text of a page. The PDF
// library panics on some malformed content streams; that is reported as an
// error for the page instead of taking the process down.
func readText(page pdf.Page) (tokens []highlight.Token, text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("failed to decode page content: %v", rec)
		}
	}()

	tokens = Runs(page.Content().Text)

	text, err = page.GetPlainText(nil)
	if err != nil {
		// fall back to the runs; they carry the same characters
		text = joinRuns(tokens)
		err = nil
	}
	return tokens, text, err
}

func joinRuns(tokens []highlight.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

func (r *Reader) geometry(path string, page pdf.Page, number int) highlight.Geometry {
	dims, err := pageDims(path)
	if err == nil && number <= len(dims) && dims[number-1].Height > 0 {
		return dims[number-1]
	}
	if err != nil {
		log.Printf("Warning: pdfcpu could not size %s: %v", path, err)
	}

	if g, ok := mediaBox(page); ok {
		return g
	}

	log.Printf("Warning: no MediaBox on %s page %d, assuming US Letter", path, number)
	return usLetter
}
