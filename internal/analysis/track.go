package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/sailsim/internal/dynamo"
)

// Track is the ground track of a run in metres, east and north.
type Track struct {
	Points []dynamo.Vec2
}

// TrackOf extracts positions from recorded snapshots.
func TrackOf(states []dynamo.State) *Track {
	tr := &Track{Points: make([]dynamo.Vec2, len(states))}
	for i, s := range states {
		tr.Points[i] = dynamo.Vec2{X: s.X, Y: s.Y}
	}
	return tr
}

// Bounds returns the south-west and north-east corners of the track.
func (t *Track) Bounds() (lo, hi dynamo.Vec2) {
	lo, hi = t.Points[0], t.Points[0]
	for _, p := range t.Points[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// PlotTrack draws the track in a width x height character grid, north up,
// with one scale on both axes so angles look right. Terminal cells are about
// twice as tall as wide, which the horizontal scale accounts for. S marks
// the start and E the end.
func PlotTrack(track *Track, width, height int) string {
	if track == nil || len(track.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := track.Bounds()
	span := math.Max((hi.X-lo.X)/2, hi.Y-lo.Y)
	if span == 0 {
		span = 1
	}
	// metres per row; a column is half a row
	scale := span / float64(height-1)
	if s := (hi.X - lo.X) / (2 * float64(width-1)); s > scale {
		scale = s
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	cell := func(p dynamo.Vec2) (row, col int, ok bool) {
		col = int(math.Round((p.X - lo.X) / (2 * scale)))
		row = height - 1 - int(math.Round((p.Y-lo.Y)/scale))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}

	for _, p := range track.Points {
		if r, c, ok := cell(p); ok {
			grid[r][c] = '·'
		}
	}
	if r, c, ok := cell(track.Points[0]); ok {
		grid[r][c] = 'S'
	}
	if r, c, ok := cell(track.Points[len(track.Points)-1]); ok && len(track.Points) > 1 {
		grid[r][c] = 'E'
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
