package highlight

// Palette is the ordered list of citation overlay colours. A citation row
// uses Palette[index % len(Palette)].
var Palette = []string{
	"rgba(255, 235, 59, 0.2)",
	"rgba(76, 175, 80, 0.2)",
	"rgba(33, 150, 243, 0.2)",
	"rgba(255, 152, 0, 0.2)",
	"rgba(156, 39, 176, 0.2)",
	"rgba(244, 67, 54, 0.2)",
}

// Overlay styling constants.
const (
	SearchBackground = "rgba(255, 255, 0, 0.08)"
	SearchBorder     = "1px solid rgba(255, 255, 0, 0.15)"
	HoverBorder      = "2px solid rgba(0,0,0,0.4)"
	DimmedOpacity    = 0.35

	zCitation = 10
	zSearch   = 20
	zHovered  = 30
)

// Overlay is a highlight ready to paint: scaled to display pixels and
// carrying its style.
type Overlay struct {
	Rect
	CitationIndex int     `json:"citation_index"`
	SourceText    string  `json:"source_text"`
	Background    string  `json:"background"`
	Border        string  `json:"border,omitempty"`
	Opacity       float64 `json:"opacity"`
	ZIndex        int     `json:"z_index"`
	Emphasized    bool    `json:"emphasized,omitempty"`
}

// ColorFor returns the palette colour of a citation row.
func ColorFor(index int) string {
	n := len(Palette)
	return Palette[((index%n)+n)%n]
}

// Style scales h by scale and applies the citation or search styling. hovered
// is the currently hovered or selected citation row, nil when none.
func Style(h Highlight, hovered *int, scale float64) Overlay {
	o := Overlay{
		Rect: Rect{
			Left:   h.Left * scale,
			Top:    h.Top * scale,
			Width:  h.Width * scale,
			Height: h.Height * scale,
		},
		CitationIndex: h.CitationIndex,
		SourceText:    h.SourceText,
		Opacity:       1,
	}

	if h.IsSearch() {
		o.Background = SearchBackground
		o.Border = SearchBorder
		o.ZIndex = zSearch
		return o
	}

	o.Background = ColorFor(h.CitationIndex)
	o.ZIndex = zCitation
	switch {
	case hovered == nil:
	case *hovered == h.CitationIndex:
		o.Border = HoverBorder
		o.ZIndex = zHovered
		o.Emphasized = true
	default:
		o.Opacity = DimmedOpacity
	}
	return o
}

// StyleAll styles a whole result, search overlays first so that citation
// overlays paint above them.
func StyleAll(res Result, hovered *int, scale float64) []Overlay {
	overlays := make([]Overlay, 0, len(res.Search)+len(res.Citations))
	for _, h := range res.Search {
		overlays = append(overlays, Style(h, hovered, scale))
	}
	for _, h := range res.Citations {
		overlays = append(overlays, Style(h, hovered, scale))
	}
	return overlays
}
