package highlight

import (
	"strings"
	"unicode/utf8"

	"github.com/a3tai/mcp-citation-auditor/internal/citation"
)

// MinSearchTermLength is the shortest trimmed search term, in characters,
// that activates search highlighting.
const MinSearchTermLength = 2

// Result holds the two highlight lists produced for one page.
type Result struct {
	Citations []Highlight `json:"citations"`
	Search    []Highlight `json:"search"`
}

// CitationPhrases turns citation rows into phrases tagged with their row
// index. Each row contributes at most seven phrases.
func CitationPhrases(entries []citation.Entry) []Phrase {
	var phrases []Phrase
	for i, e := range entries {
		for _, v := range e.SearchValues() {
			phrases = append(phrases, Phrase{Text: v, CitationIndex: i})
		}
	}
	return phrases
}

// SearchPhrase returns the phrase for the live search term, or false when
// the term is too short to search.
func SearchPhrase(term string) (Phrase, bool) {
	if utf8.RuneCountInString(strings.TrimSpace(term)) < MinSearchTermLength {
		return Phrase{}, false
	}
	return Phrase{Text: term, CitationIndex: NoCitation}, true
}

// Explanation holds the token span behind every highlight of a Result,
// index for index.
type Explanation struct {
	Citations []Span `json:"citations"`
	Search    []Span `json:"search"`
}

// ComputeHighlights recomputes both highlight lists for page from scratch.
// Call it whenever the page, the citation rows or the search term change.
func ComputeHighlights(page Page, entries []citation.Entry, searchTerm string) Result {
	res, _ := ExplainHighlights(page, entries, searchTerm)
	return res
}

// ExplainHighlights is ComputeHighlights that also reports which tokens
// each highlight was built from.
func ExplainHighlights(page Page, entries []citation.Entry, searchTerm string) (Result, Explanation) {
	var (
		res Result
		exp Explanation
	)
	res.Citations, exp.Citations = MatchSpans(page.Tokens, CitationPhrases(entries), page.Geometry)
	if p, ok := SearchPhrase(searchTerm); ok {
		res.Search, exp.Search = MatchSpans(page.Tokens, []Phrase{p}, page.Geometry)
	}
	return res, exp
}
