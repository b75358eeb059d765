package notify

import (
	"strings"

	"github.com/alejandrodnm/tradesim/internal/chart"
)

const (
	chartCols = 120
	chartRows = 28
)

// canvas rasterizes frame primitives onto a fixed character grid, scaling
// down from chart pixel space. It is a debugging view, not the real
// presentation layer; text primitives keep only their first word so price
// labels stay readable at this resolution.
type canvas struct {
	cols, rows int
	sx, sy     float64 // pixels → cells
	cells      [][]rune
}

func newCanvas(cols, rows, pixelW, pixelH int) *canvas {
	if pixelW <= 0 {
		pixelW = 1
	}
	if pixelH <= 0 {
		pixelH = 1
	}
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = make([]rune, cols)
		for j := range cells[i] {
			cells[i][j] = ' '
		}
	}
	return &canvas{
		cols:  cols,
		rows:  rows,
		sx:    float64(cols) / float64(pixelW),
		sy:    float64(rows) / float64(pixelH),
		cells: cells,
	}
}

func (c *canvas) paint(frame []chart.Primitive) {
	for _, p := range frame {
		switch p.Op {
		case chart.OpRect:
			c.fillRect(p)
		case chart.OpLine:
			c.drawLine(p)
		case chart.OpText:
			c.drawText(p)
		}
	}
}

func (c *canvas) fillRect(p chart.Primitive) {
	x1, y1 := c.cell(p.X1, p.Y1)
	x2, y2 := c.cell(p.X2, p.Y2)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			c.set(x, y, '█')
		}
	}
}

func (c *canvas) drawLine(p chart.Primitive) {
	x1, y1 := c.cell(p.X1, p.Y1)
	x2, y2 := c.cell(p.X2, p.Y2)
	switch {
	case x1 == x2:
		for y := y1; y <= y2; y++ {
			c.set(x1, y, '|')
		}
	case y1 == y2:
		for x := x1; x <= x2; x++ {
			c.set(x, y1, '-')
		}
	}
}

func (c *canvas) drawText(p chart.Primitive) {
	label, _, _ := strings.Cut(p.Text, " ")
	x, y := c.cell(p.X1, p.Y1)
	for i, r := range label {
		c.set(x+i, y, r)
	}
}

// set skips out-of-range cells and never overwrites a candle body.
func (c *canvas) set(x, y int, r rune) {
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return
	}
	if c.cells[y][x] == '█' && r != '█' {
		return
	}
	c.cells[y][x] = r
}

func (c *canvas) cell(px, py float64) (int, int) {
	x := int(px * c.sx)
	y := int(py * c.sy)
	if x >= c.cols {
		x = c.cols - 1
	}
	if y >= c.rows {
		y = c.rows - 1
	}
	return x, y
}

func (c *canvas) String() string {
	var sb strings.Builder
	for _, row := range c.cells {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
