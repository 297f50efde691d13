// Package dropzone maps a release point from a pointer or touch drag onto the
// board column underneath it. Input adapters call ResolveDropTarget and then
// Store.MoveTask with the result.
package dropzone

import (
	"github.com/arthur-debert/taskboard/types"
)

// Point is a position in the adapter's coordinate space
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive, so adjacent columns never
// both claim a point on their shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Column is one drop area on screen
type Column struct {
	Status types.Status
	Bounds Rect
}

// ResolveDropTarget returns the status of the first column containing p.
// Columns with a status outside the known set are skipped. A point outside
// every column resolves to ("", false) and the drag should be abandoned.
func ResolveDropTarget(p Point, columns []Column) (types.Status, bool) {
	for _, col := range columns {
		if !col.Status.Valid() {
			continue
		}
		if col.Bounds.Contains(p) {
			return col.Status, true
		}
	}
	return "", false
}

// Layout splits a width x height area into equal side-by-side columns, one
// per status, in the given order. Each column's right edge is exactly the next
// column's left edge and the last one ends at width.
func Layout(width, height float64, statuses []types.Status) []Column {
	if len(statuses) == 0 || width <= 0 || height <= 0 {
		return nil
	}
	n := len(statuses)
	edge := func(i int) float64 {
		if i == n {
			return width
		}
		return width * float64(i) / float64(n)
	}

	columns := make([]Column, n)
	for i, status := range statuses {
		left, right := edge(i), edge(i+1)
		columns[i] = Column{
			Status: status,
			Bounds: Rect{X: left, Width: right - left, Height: height},
		}
	}
	return columns
}
