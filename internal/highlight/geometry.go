package highlight

import "math"

// DefaultTextHeight is used when a token carries neither an explicit height
// nor a usable vertical scale.
const DefaultTextHeight = 12.0

// Token is one positioned run of text on a page, in reading order.
type Token struct {
	Text string `json:"text"`
	// Transform is the affine matrix [a b c d e f]. E and F are the baseline
	// origin in page space (origin bottom-left), D is the vertical scale.
	Transform [6]float64 `json:"transform"`
	Width     float64    `json:"width"`
	// Height is the explicit glyph height, zero when unknown.
	Height float64 `json:"height,omitempty"`
}

// X returns the baseline origin x.
func (t Token) X() float64 { return t.Transform[4] }

// Y returns the baseline origin y (page space, bottom-up).
func (t Token) Y() float64 { return t.Transform[5] }

// TextHeight returns the explicit height, else |d|, else DefaultTextHeight.
func (t Token) TextHeight() float64 {
	if t.Height != 0 {
		return t.Height
	}
	if d := math.Abs(t.Transform[3]); d != 0 {
		return d
	}
	return DefaultTextHeight
}

// Geometry holds page dimensions in the same units as token transforms.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Page bundles the tokens and geometry of one page so that a caller can
// never pair the tokens of one page with the dimensions of another.
type Page struct {
	Number   int      `json:"number"`
	Tokens   []Token  `json:"tokens"`
	Geometry Geometry `json:"geometry"`
}

// Rect is an axis-aligned rectangle in screen orientation (top-left origin)
// expressed in unscaled page units.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoundingBox returns the box covering tokens, flipped into top-down
// coordinates using pageHeight.
//
// The height of the whole box is taken from the first token. Spans mixing
// glyph sizes (a superscript footnote marker next to body text) therefore
// get an imprecise box. Tokens are also assumed to sit on one line; a span
// that wraps produces a misaligned box. Both are known approximations.
func BoundingBox(tokens []Token, pageHeight float64) Rect {
	if len(tokens) == 0 {
		return Rect{}
	}

	minX := tokens[0].X()
	maxX := tokens[0].X() + tokens[0].Width
	minBaseline := tokens[0].Y()
	for _, t := range tokens[1:] {
		minX = math.Min(minX, t.X())
		maxX = math.Max(maxX, t.X()+t.Width)
		minBaseline = math.Min(minBaseline, t.Y())
	}

	height := tokens[0].TextHeight()

	return Rect{
		Left:   minX,
		Top:    pageHeight - minBaseline - height,
		Width:  maxX - minX,
		Height: height,
	}
}
