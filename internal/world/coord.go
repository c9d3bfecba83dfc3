// Package world provides the finite 2D lattice agents live on.
// Cells are addressed by (row, col) with the origin at the top-left.
package world

import (
	"fmt"
	"math"
)

// Coord is a lattice cell position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// MooreOffsets are the eight neighbour offsets around a cell.
var MooreOffsets = [8]Coord{
	{Row: -1, Col: -1},
	{Row: -1, Col: 0},
	{Row: -1, Col: 1},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: 1, Col: -1},
	{Row: 1, Col: 0},
	{Row: 1, Col: 1},
}

// Neighbors returns the eight surrounding coordinates. Some may be out of bounds.
func (c Coord) Neighbors() [8]Coord {
	var result [8]Coord
	for i, off := range MooreOffsets {
		result[i] = Coord{Row: c.Row + off.Row, Col: c.Col + off.Col}
	}
	return result
}

// Distance returns the Euclidean distance between two cells.
func Distance(a, b Coord) float64 {
	return math.Hypot(float64(a.Row-b.Row), float64(a.Col-b.Col))
}
