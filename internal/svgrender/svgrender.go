// Package svgrender renders a packed solution set to an SVG string. It is a
// pure function with no dependency on internal/engine: the HTTP layer calls
// it after the engine returns, never the engine itself.
package svgrender

import (
	"fmt"
	"strings"

	"github.com/piwi3910/rectopt/internal/model"
)

const margin = 20.0

const emptySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`

// Render lays sheets out left to right with a fixed margin between them,
// drawing each sheet's full extent as a frame and each placement as a
// labeled rectangle. Placements are in full-sheet coordinates, so the trim
// shows as the gap between the frame and the placed rectangles.
func Render(solutions []model.Solution) string {
	if len(solutions) == 0 {
		return emptySVG
	}

	xCursor := 0.0
	positions := make([]float64, len(solutions))
	var minX, minY, maxX, maxY float64
	haveBounds := false

	for i, sol := range solutions {
		positions[i] = xCursor
		sheetMinX := xCursor
		sheetMaxX := xCursor + sol.WidthMM
		sheetMinY := 0.0
		sheetMaxY := sol.HeightMM

		if !haveBounds {
			minX, maxX, minY, maxY = sheetMinX, sheetMaxX, sheetMinY, sheetMaxY
			haveBounds = true
		} else {
			minX = min(minX, sheetMinX)
			maxX = max(maxX, sheetMaxX)
			minY = min(minY, sheetMinY)
			maxY = max(maxY, sheetMaxY)
		}

		xCursor += sol.WidthMM + margin
	}

	if !haveBounds {
		return emptySVG
	}

	totalWidth := max(1.0, maxX-minX)
	totalHeight := max(1.0, maxY-minY)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%v" height="%v" viewBox="%v %v %v %v">`,
		totalWidth, totalHeight, minX, minY, totalWidth, totalHeight)
	b.WriteString("<style>")
	b.WriteString(".sheet{fill:none;stroke:#1f2937;stroke-width:1}")
	b.WriteString(".item{fill:#93c5fd;stroke:#1e3a8a;stroke-width:0.8}")
	b.WriteString(".label{font-family:Arial, sans-serif;font-size:10px;fill:#111827}")
	b.WriteString("</style>")

	for i, sol := range solutions {
		fmt.Fprintf(&b, `<g transform="translate(%v 0)">`, positions[i])
		fmt.Fprintf(&b, `<rect class="sheet" x="0" y="0" width="%v" height="%v" />`,
			sol.WidthMM, sol.HeightMM)

		for _, p := range sol.Placements {
			label := escape(fmt.Sprintf("%s#%d", p.ItemID, p.Instance))
			fmt.Fprintf(&b, `<rect class="item" x="%v" y="%v" width="%v" height="%v" />`,
				p.XMM, p.YMM, p.WidthMM, p.HeightMM)
			fmt.Fprintf(&b, `<text class="label" x="%v" y="%v">%s</text>`, p.XMM+2, p.YMM+12, label)
		}
		b.WriteString("</g>")
	}

	b.WriteString("</svg>")
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
