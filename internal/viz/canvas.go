package viz

import "strings"

const brailleBlank = 0x2800

// dotBits maps a dot inside a braille cell (2 wide, 4 tall) to its bit.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dots. A canvas of c
// columns and r rows is 2c dots wide and 4r dots tall.
type Canvas struct {
	cols, rows int
	cells      []rune
}

func NewCanvas(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

// Dots returns the drawable size in dots.
func (c *Canvas) Dots() (w, h int) { return c.cols * 2, c.rows * 4 }

// Set lights the dot at (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= dotBits[y%4][x%2]
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return false
	}
	return c.cells[(y/4)*c.cols+x/2]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Rows renders each cell row as a string.
func (c *Canvas) Rows() []string {
	out := make([]string, c.rows)
	for r := range out {
		out[r] = string(c.cells[r*c.cols : (r+1)*c.cols])
	}
	return out
}

func (c *Canvas) String() string { return strings.Join(c.Rows(), "\n") }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
