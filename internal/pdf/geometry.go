package pdf

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/mcp-citation-auditor/internal/highlight"
)

// pageDims reads the dimensions of every page with pdfcpu, which resolves
// inherited boxes and page rotation.
func pageDims(path string) ([]highlight.Geometry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(file, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	geometries := make([]highlight.Geometry, len(dims))
	for i, d := range dims {
		geometries[i] = highlight.Geometry{Width: d.Width, Height: d.Height}
	}
	return geometries, nil
}

// mediaBox reads the MediaBox of a page directly, walking up the page tree
// when the box is inherited. It reports false when no usable box exists.
func mediaBox(page pdf.Page) (highlight.Geometry, bool) {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.IsNull() || box.Len() != 4 {
			continue
		}

		llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
		urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
		g := highlight.Geometry{Width: urx - llx, Height: ury - lly}
		if g.Width <= 0 || g.Height <= 0 {
			return highlight.Geometry{}, false
		}
		return g, true
	}
	return highlight.Geometry{}, false
}

// usLetter is assumed when neither pdfcpu nor the MediaBox yields a size.
var usLetter = highlight.Geometry{Width: 612, Height: 792}
