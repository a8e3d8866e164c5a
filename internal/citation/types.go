// Package citation holds the citation table model shared by extraction,
// highlighting and export.
package citation

import (
	"strings"
	"unicode/utf8"
)

// Placeholder is the empty-cell marker some extraction runs emit instead of
// a blank string.
const Placeholder = "nan"

// MinSearchLength is the shortest field value, in characters, that is
// searched on the page.
const MinSearchLength = 4

// Entry is one row of the citation table. JSON names match the column
// headers of the audit spreadsheet.
type Entry struct {
	NonBatesExhibits string `json:"Non-Bates Exhibits"`
	Depositions      string `json:"Depositions"`
	Date             string `json:"date"`
	Cites            string `json:"cites"`
	BatesBegin       string `json:"BatesBegin"`
	BatesEnd         string `json:"BatesEnd"`
	Pinpoint         string `json:"Pinpoint"`
	CodeLines        string `json:"Code Lines"`
	ReportName       string `json:"Report Name"`
	ParagraphNo      int    `json:"Paragraph No."`
}

// Memory carries extraction state from one page to the next.
type Memory struct {
	LastParagraphNumberUsed   *int   `json:"last_paragraph_number_used"`
	IncompleteExhibitDetected bool   `json:"incomplete_exhibit_detected"`
	RawText                   string `json:"raw_text"`
	LastPageProcessed         int    `json:"last_page_processed"`
}

// ExtractionResult is what the extraction model returns for one page.
type ExtractionResult struct {
	Citations []Entry `json:"citations"`
	Memory    *Memory `json:"memory,omitempty"`
}

// SearchValues returns the field values of e that are worth locating on the
// page, in a fixed order: Non-Bates Exhibits, Depositions, BatesBegin,
// BatesEnd, Pinpoint, Code Lines, cites.
func (e Entry) SearchValues() []string {
	candidates := [...]string{
		e.NonBatesExhibits,
		e.Depositions,
		e.BatesBegin,
		e.BatesEnd,
		e.Pinpoint,
		e.CodeLines,
		e.Cites,
	}

	var values []string
	for _, v := range candidates {
		if Searchable(v) {
			values = append(values, v)
		}
	}
	return values
}

// Searchable reports whether a field value should be searched for.
func Searchable(v string) bool {
	return v != "" && v != Placeholder && utf8.RuneCountInString(v) >= MinSearchLength
}

// IsBlank reports whether every field of e is empty.
func (e Entry) IsBlank() bool {
	for _, v := range e.Values() {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return e.ParagraphNo == 0
}

// Values returns the string fields of e in column order, excluding the
// paragraph number.
func (e Entry) Values() []string {
	return []string{
		e.NonBatesExhibits,
		e.Depositions,
		e.Date,
		e.Cites,
		e.BatesBegin,
		e.BatesEnd,
		e.Pinpoint,
		e.CodeLines,
		e.ReportName,
	}
}

// Columns lists the spreadsheet headers in export order.
var Columns = []string{
	"Non-Bates Exhibits",
	"Depositions",
	"date",
	"cites",
	"BatesBegin",
	"BatesEnd",
	"Pinpoint",
	"Code Lines",
	"Report Name",
	"Paragraph No.",
}
