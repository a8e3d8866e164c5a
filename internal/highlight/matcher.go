package highlight

import "strings"

// Window is the maximum number of consecutive tokens a single match may
// span. Phrases needing more tokens are never found.
const Window = 10

// NoCitation tags phrases and highlights that belong to the live search term
// rather than to a citation row.
const NoCitation = -1

// Phrase is a piece of text to locate on a page.
type Phrase struct {
	Text          string `json:"text"`
	CitationIndex int    `json:"citation_index"`
}

// Highlight is one located occurrence of a phrase, in unscaled page units.
type Highlight struct {
	Rect
	CitationIndex int    `json:"citation_index"`
	SourceText    string `json:"source_text"`
}

// IsSearch reports whether h came from the search term.
func (h Highlight) IsSearch() bool {
	return h.CitationIndex == NoCitation
}

// Span is the inclusive range of token indexes consumed by one match.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Match locates every phrase in tokens and returns the highlights in phrase
// order, then token order.
func Match(tokens []Token, phrases []Phrase, g Geometry) []Highlight {
	highlights, _ := MatchSpans(tokens, phrases, g)
	return highlights
}

// MatchSpans is Match that also returns, for every highlight, the token span
// it was computed from. Both slices have the same length.
//
// Phrases are searched independently: a later phrase may reuse tokens
// consumed by an earlier one. Matches of the same phrase never share a token,
// because the scan resumes right after the last token of each match.
func MatchSpans(tokens []Token, phrases []Phrase, g Geometry) ([]Highlight, []Span) {
	var (
		highlights []Highlight
		spans      []Span
	)

	for _, p := range phrases {
		m := newMatcher(p.Text)
		if m == nil {
			continue
		}

		start := 0
		for start < len(tokens) {
			end, ok := m.scan(tokens, start)
			if !ok {
				start++
				continue
			}

			highlights = append(highlights, Highlight{
				Rect:          BoundingBox(nonEmpty(tokens[start:end+1]), g.Height),
				CitationIndex: p.CitationIndex,
				SourceText:    p.Text,
			})
			spans = append(spans, Span{Start: start, End: end})
			start = end + 1
		}
	}

	return highlights, spans
}

type matcher struct {
	phrase string
	joined string
	words  []string
	useAll bool
}

// newMatcher prepares a phrase for scanning. It returns nil for phrases that
// normalize to nothing, which would otherwise match every window.
func newMatcher(text string) *matcher {
	phrase := Normalize(text)
	if phrase == "" {
		return nil
	}
	words := SignificantWords(phrase)
	return &matcher{
		phrase: phrase,
		joined: compact(phrase),
		words:  words,
		useAll: len(words) > 1,
	}
}

// scan grows a window from start and returns the index of the last token of
// the first window that matches.
func (m *matcher) scan(tokens []Token, start int) (int, bool) {
	limit := min(start+Window, len(tokens))

	var combo strings.Builder
	for end := start; end < limit; end++ {
		if tokens[end].Text == "" {
			continue
		}
		combo.WriteByte(' ')
		combo.WriteString(tokens[end].Text)

		if m.hit(Normalize(combo.String())) {
			return end, true
		}
	}
	return 0, false
}

func (m *matcher) hit(window string) bool {
	if strings.Contains(window, m.phrase) {
		return true
	}
	if m.useAll && containsAll(window, m.words) {
		return true
	}
	return strings.Contains(compact(window), m.joined)
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}

// nonEmpty drops tokens without text; they never contributed to a match.
func nonEmpty(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Text != "" {
			out = append(out, t)
		}
	}
	return out
}
