package world

import (
	"errors"
	"fmt"
)

// Empty marks an unoccupied cell.
const Empty uint64 = 0

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrOccupied    = errors.New("cell occupied")
)

// Grid is an R×C lattice holding at most one occupant id per cell.
// Ids are non-zero; zero means the cell is empty.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	cells    []uint64 // Row-major
	occupied int
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		cells: make([]uint64, rows*cols),
	}
}

// Size returns the total number of cells.
func (g *Grid) Size() int {
	return len(g.cells)
}

// Occupied returns the number of occupied cells.
func (g *Grid) Occupied() int {
	return g.occupied
}

// InBounds returns true if the coordinate lies on the lattice.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// At returns the occupant of a cell, or Empty. Out-of-bounds cells read as Empty.
func (g *Grid) At(c Coord) uint64 {
	if !g.InBounds(c) {
		return Empty
	}
	return g.cells[g.index(c)]
}

// IsEmpty returns true if an in-bounds cell has no occupant.
func (g *Grid) IsEmpty(c Coord) bool {
	return g.InBounds(c) && g.cells[g.index(c)] == Empty
}

// Place puts id on an empty cell.
func (g *Grid) Place(c Coord, id uint64) error {
	if !g.InBounds(c) {
		return fmt.Errorf("place %d at %s: %w", id, c, ErrOutOfBounds)
	}
	i := g.index(c)
	if g.cells[i] != Empty {
		return fmt.Errorf("place %d at %s: %w", id, c, ErrOccupied)
	}
	g.cells[i] = id
	g.occupied++
	return nil
}

// Move records id at to and releases from.
//
// During a relocation pass an earlier mover may claim a cell whose occupant
// has not left yet, so from is only cleared while it still holds id and to may
// briefly be shared. Once every mover of the pass has moved, each cell again
// holds exactly one id.
func (g *Grid) Move(id uint64, from, to Coord) error {
	if !g.InBounds(from) || !g.InBounds(to) {
		return fmt.Errorf("move %d %s->%s: %w", id, from, to, ErrOutOfBounds)
	}
	fi, ti := g.index(from), g.index(to)
	if g.cells[fi] == id {
		g.cells[fi] = Empty
		g.occupied--
	}
	if g.cells[ti] == Empty {
		g.occupied++
	}
	g.cells[ti] = id
	return nil
}

// EmptyCells returns every empty cell in row-major order.
func (g *Grid) EmptyCells() []Coord {
	out := make([]Coord, 0, len(g.cells)-g.occupied)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.cells[r*g.Cols+c] == Empty {
				out = append(out, Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

func (g *Grid) index(c Coord) int {
	return c.Row*g.Cols + c.Col
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, occupied=%d)", g.Rows, g.Cols, g.occupied)
}
