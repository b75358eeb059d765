package chart

// Op is the kind of drawing primitive.
type Op string

const (
	OpLine Op = "line"
	OpRect Op = "rect"
	OpText Op = "text"
)

// Primitive is one drawing instruction in chart space (origin top-left,
// y grows downward). The presentation layer paints them in order.
//
// Lines use both coordinate pairs. Rects span [X1,Y1]..[X2,Y2] and are
// filled. Texts anchor their top-left corner at (X1, Y1).
type Primitive struct {
	Op     Op
	X1, Y1 float64
	X2, Y2 float64
	Color  string // #rrggbb
	Text   string
}

func line(x1, y1, x2, y2 float64, color string) Primitive {
	return Primitive{Op: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color}
}

func rect(x1, y1, x2, y2 float64, color string) Primitive {
	return Primitive{Op: OpRect, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color}
}

func text(x, y float64, color, s string) Primitive {
	return Primitive{Op: OpText, X1: x, Y1: y, Color: color, Text: s}
}
