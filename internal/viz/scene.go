package viz

import (
	"math"
	"strings"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Scene is a top-down drawing of the boat, its sail and the true wind.
// North is up. Braille dots are roughly square so no aspect correction is
// applied.
type Scene struct {
	Hull, Sail, Wind *Canvas
}

func NewScene(cols, rows int) *Scene {
	return &Scene{
		Hull: NewCanvas(cols, rows),
		Sail: NewCanvas(cols, rows),
		Wind: NewCanvas(cols, rows),
	}
}

// point offsets p by length dots along a compass bearing. Screen y grows
// downwards.
func point(p [2]float64, bearing, length float64) [2]float64 {
	r := dynamo.Radians(bearing)
	return [2]float64{p[0] + math.Sin(r)*length, p[1] - math.Cos(r)*length}
}

func line(c *Canvas, a, b [2]float64) {
	c.Line(int(math.Round(a[0])), int(math.Round(a[1])), int(math.Round(b[0])), int(math.Round(b[1])))
}

// Draw renders s onto the three layers.
func (sc *Scene) Draw(s dynamo.State) {
	sc.Hull.Clear()
	sc.Sail.Clear()
	sc.Wind.Clear()

	w, h := sc.Hull.Dots()
	centre := [2]float64{float64(w) / 2, float64(h) / 2}
	r := math.Min(float64(w), float64(h)) * 0.38

	heading := s.Heading
	bow := point(centre, heading, r)
	stern := point(centre, heading+180, r*0.8)
	port := point(stern, heading-90, r*0.3)
	stbd := point(stern, heading+90, r*0.3)
	line(sc.Hull, bow, port)
	line(sc.Hull, bow, stbd)
	line(sc.Hull, port, stbd)

	// The boom swings aft to leeward: wind over starboard puts it to port.
	mast := point(centre, heading, r*0.35)
	boom := heading + 180 + math.Abs(s.SailAngle)
	if s.ApparentWindAngle < 0 {
		boom = heading + 180 - math.Abs(s.SailAngle)
	}
	line(sc.Sail, mast, point(mast, boom, r*0.9))

	// Wind arrow in the top-left corner, pointing downwind.
	a := math.Min(float64(w), float64(h)) * 0.12
	anchor := [2]float64{a + 1, a + 1}
	tail := point(anchor, s.WindDirection, a)
	head := point(anchor, s.WindDirection+180, a)
	line(sc.Wind, tail, head)
	line(sc.Wind, head, point(head, s.WindDirection+30, a*0.6))
	line(sc.Wind, head, point(head, s.WindDirection-30, a*0.6))
}

// Plain merges the layers without colour.
func (sc *Scene) Plain() string {
	return sc.merge(func(cell string, hull, sail, wind bool) string { return cell })
}

// Render merges the layers, colouring each cell by the topmost layer with a
// dot in it.
func (sc *Scene) Render(st styles) string {
	return sc.merge(func(cell string, hull, sail, wind bool) string {
		switch {
		case sail:
			return st.sail.Render(cell)
		case hull:
			return st.hull.Render(cell)
		case wind:
			return st.wind.Render(cell)
		}
		return cell
	})
}

func (sc *Scene) merge(paint func(cell string, hull, sail, wind bool) string) string {
	var b strings.Builder
	for i := range sc.Hull.cells {
		if i > 0 && i%sc.Hull.cols == 0 {
			b.WriteByte('\n')
		}
		h, s, w := sc.Hull.cells[i], sc.Sail.cells[i], sc.Wind.cells[i]
		cell := string(h | s | w)
		b.WriteString(paint(cell, h != brailleBlank, s != brailleBlank, w != brailleBlank))
	}
	return b.String()
}
