package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
)

var (
	codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)
)

// stripCodeBlock removes a markdown fence the model may wrap JSON in.
func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// paragraphNumber decodes "Paragraph No." from a number, a numeric string
// or null. Anything unparseable becomes 0.
type paragraphNumber int

func (p *paragraphNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = paragraphNumber(int(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = 0
		return nil
	}
	m := leadingIntRe.FindString(strings.TrimSpace(s))
	v, err := strconv.Atoi(m)
	if err != nil {
		v = 0
	}
	*p = paragraphNumber(v)
	return nil
}

type wireEntry struct {
	NonBatesExhibits string          `json:"Non-Bates Exhibits"`
	Depositions      string          `json:"Depositions"`
	Date             string          `json:"date"`
	Cites            string          `json:"cites"`
	BatesBegin       string          `json:"BatesBegin"`
	BatesEnd         string          `json:"BatesEnd"`
	Pinpoint         string          `json:"Pinpoint"`
	CodeLines        string          `json:"Code Lines"`
	ReportName       string          `json:"Report Name"`
	ParagraphNo      paragraphNumber `json:"Paragraph No."`
}

type wireResult struct {
	Citations []wireEntry       `json:"citations"`
	Memory    *citation.Memory `json:"memory"`
}

// parseExtraction decodes a model answer into an ExtractionResult. With
// validate set, blank rows are dropped.
func parseExtraction(raw string, validate bool) (*citation.ExtractionResult, error) {
	body := stripCodeBlock(raw)

	var wire wireResult
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return nil, fmt.Errorf("parse extraction json: %w (raw: %s)", err, truncate(body, 200))
	}

	entries := make([]citation.Entry, 0, len(wire.Citations))
	for _, w := range wire.Citations {
		entries = append(entries, citation.Entry{
			NonBatesExhibits: w.NonBatesExhibits,
			Depositions:      w.Depositions,
			Date:             w.Date,
			Cites:            w.Cites,
			BatesBegin:       w.BatesBegin,
			BatesEnd:         w.BatesEnd,
			Pinpoint:         w.Pinpoint,
			CodeLines:        w.CodeLines,
			ReportName:       w.ReportName,
			ParagraphNo:      int(w.ParagraphNo),
		})
	}
	if validate {
		entries = citation.DropBlank(entries)
	}

	return &citation.ExtractionResult{Citations: entries, Memory: wire.Memory}, nil
}
