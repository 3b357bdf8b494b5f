// Package core provides the geometry, input and screen-buffer primitives shared
// by the simulation and its frontends. It has no external dependencies so the
// simulation stays pure and testable.
package core

// Rect is an axis-aligned bounding box in world pixels.
// X and Y are the top-left corner; the right and bottom edges are exclusive.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle from its top-left corner and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromEdges creates a rectangle from left, top, right and bottom edges.
// Inverted edges produce an empty rectangle.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, W: max(right-left, 0), H: max(bottom-top, 0)}
}

// Left returns the x-coordinate of the left edge.
func (r Rect) Left() int { return r.X }

// Top returns the y-coordinate of the top edge.
func (r Rect) Top() int { return r.Y }

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether two rectangles overlap.
// Rectangles that only share an edge do not intersect, and an empty
// rectangle never intersects anything.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Viewport maps world pixels onto a grid of terminal cells.
type Viewport struct {
	WorldW, WorldH int
	CellsW, CellsH int
}

// ToCells projects a world rectangle onto the cell grid.
// Edges are scaled independently so adjacent rectangles stay adjacent.
func (v Viewport) ToCells(r Rect) Rect {
	if v.WorldW <= 0 || v.WorldH <= 0 {
		return Rect{}
	}
	left := r.X * v.CellsW / v.WorldW
	right := r.Right() * v.CellsW / v.WorldW
	top := r.Y * v.CellsH / v.WorldH
	bottom := r.Bottom() * v.CellsH / v.WorldH
	if right == left && r.W > 0 {
		right = left + 1
	}
	if bottom == top && r.H > 0 {
		bottom = top + 1
	}
	return RectFromEdges(left, top, right, bottom)
}

// ToCellX projects a single world x-coordinate onto the cell grid.
func (v Viewport) ToCellX(x int) int {
	if v.WorldW <= 0 {
		return 0
	}
	return x * v.CellsW / v.WorldW
}

// ToCellY projects a single world y-coordinate onto the cell grid.
func (v Viewport) ToCellY(y int) int {
	if v.WorldH <= 0 {
		return 0
	}
	return y * v.CellsH / v.WorldH
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
