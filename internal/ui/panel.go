package ui

// Rect is a region in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// BoundsFunc returns the panel's region given terminal dimensions.
type BoundsFunc func(width, height int) Rect

// Panel hosts a View and knows its bounds within a layout.
type Panel struct {
	ID     string
	View   View
	Bounds BoundsFunc
}

// Edge names the side of a panel that carries its drag handle.
type Edge int

const (
	EdgeRight Edge = iota
	EdgeLeft
)

func (e Edge) String() string {
	if e == EdgeLeft {
		return "left"
	}
	return "right"
}
