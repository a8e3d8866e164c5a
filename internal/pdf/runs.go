package pdf

import (
	"math"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-citation-auditor/internal/highlight"
)

const (
	// wordSpaceMultiplier is the fraction of the font size above which a
	// horizontal gap starts a new run.
	wordSpaceMultiplier = 0.3
	// fallbackGap is used when a glyph carries no font size.
	fallbackGap = 3.0
	// baselineTolerance is how far two glyphs' baselines may differ and
	// still belong to one run.
	baselineTolerance = 0.5
)

// Runs coalesces the glyph-level text of a page into positioned runs, in
// content-stream order. A run ends when the baseline moves, the font or
// font size changes, or the horizontal gap to the next glyph is wider than
// a word space. Spaces inside a run are kept, so a run may hold several
// words, the way PDF viewers expose their text layer.
func Runs(texts []pdf.Text) []highlight.Token {
	var (
		tokens []highlight.Token
		cur    *run
	)

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if cur != nil && cur.accepts(t) {
			cur.add(t)
			continue
		}
		if cur != nil {
			tokens = append(tokens, cur.token())
		}
		cur = newRun(t)
	}
	if cur != nil {
		tokens = append(tokens, cur.token())
	}

	return tokens
}

type run struct {
	font     string
	fontSize float64
	x, y     float64
	width    float64
	text     []byte
}

func newRun(t pdf.Text) *run {
	return &run{
		font:     t.Font,
		fontSize: t.FontSize,
		x:        t.X,
		y:        t.Y,
		width:    t.W,
		text:     []byte(t.S),
	}
}

func (r *run) accepts(t pdf.Text) bool {
	if t.Font != r.font || t.FontSize != r.fontSize {
		return false
	}
	if math.Abs(t.Y-r.y) > baselineTolerance {
		return false
	}

	threshold := wordSpaceMultiplier * r.fontSize
	if r.fontSize == 0 {
		threshold = fallbackGap
	}
	gap := t.X - (r.x + r.width)
	return gap <= threshold && gap >= -threshold
}

func (r *run) add(t pdf.Text) {
	r.width = t.X + t.W - r.x
	r.text = append(r.text, t.S...)
}

func (r *run) token() highlight.Token {
	return highlight.Token{
		Text:      string(r.text),
		Transform: [6]float64{r.fontSize, 0, 0, r.fontSize, r.x, r.y},
		Width:     r.width,
		Height:    r.fontSize,
	}
}
