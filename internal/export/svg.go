// Package export renders runs and live scenes as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sailsim/internal/analysis"
	"github.com/san-kum/sailsim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

// CanvasSVG draws every lit braille dot of c as a circle, scale pixels
// apart.
func CanvasSVG(c *viz.Canvas, scale float64, fill string) string {
	if c == nil {
		return ""
	}
	w, h := c.Dots()

	var sb strings.Builder
	header(&sb, float64(w)*scale, float64(h)*scale)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)
	r := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrackSVG draws the boat's track north up with equal scale on both axes
// and a tenth of padding, marking the start green and the end red.
func TrackSVG(track *analysis.Track, width, height int, stroke string) string {
	if track == nil || len(track.Points) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	lo, hi := track.Bounds()
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	span := max(spanX, spanY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (lo.X+hi.X)/2, (lo.Y+hi.Y)/2
	size := float64(min(width, height))

	project := func(x, y float64) (float64, float64) {
		px := float64(width)/2 + (x-cx)/span*size
		py := float64(height)/2 - (y-cy)/span*size
		return px, py
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
	for i, p := range track.Points {
		x, y := project(p.X, p.Y)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	sx, sy := project(track.Points[0].X, track.Points[0].Y)
	last := track.Points[len(track.Points)-1]
	ex, ey := project(last.X, last.Y)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"#00ff88\"/>\n", sx, sy)
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"#ff4444\"/>\n", ex, ey)
	sb.WriteString("</svg>")
	return sb.String()
}
