package world

import (
	"errors"
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Coord
		want float64
	}{
		{Coord{0, 0}, Coord{0, 1}, 1},
		{Coord{0, 0}, Coord{1, 1}, math.Sqrt2},
		{Coord{2, 2}, Coord{0, 2}, 2},
		{Coord{3, 4}, Coord{0, 0}, 5},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Distance(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNeighborsAreWithinMooreRadius(t *testing.T) {
	c := Coord{5, 5}
	for _, n := range c.Neighbors() {
		d := Distance(c, n)
		if d == 0 || d >= 1.5 {
			t.Fatalf("neighbour %s at distance %v", n, d)
		}
	}
}

func TestPlaceAndEmptyCells(t *testing.T) {
	g := NewGrid(2, 3)
	if g.Size() != 6 || len(g.EmptyCells()) != 6 {
		t.Fatalf("new grid: size=%d empty=%d", g.Size(), len(g.EmptyCells()))
	}
	if err := g.Place(Coord{0, 1}, 7); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := g.Place(Coord{0, 1}, 8); !errors.Is(err, ErrOccupied) {
		t.Fatalf("Place on occupied cell: %v", err)
	}
	if err := g.Place(Coord{2, 0}, 8); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Place out of bounds: %v", err)
	}
	if g.At(Coord{0, 1}) != 7 || g.IsEmpty(Coord{0, 1}) {
		t.Fatal("occupant not recorded")
	}

	want := []Coord{{0, 0}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	got := g.EmptyCells()
	if len(got) != len(want) {
		t.Fatalf("EmptyCells = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EmptyCells = %v, want row-major %v", got, want)
		}
	}
}

func TestMoveToEmpty(t *testing.T) {
	g := NewGrid(1, 3)
	g.Place(Coord{0, 0}, 1)
	if err := g.Move(1, Coord{0, 0}, Coord{0, 2}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !g.IsEmpty(Coord{0, 0}) || g.At(Coord{0, 2}) != 1 || g.Occupied() != 1 {
		t.Fatalf("after move: %v", g)
	}
}

func TestMoveSwapKeepsBothOccupants(t *testing.T) {
	g := NewGrid(1, 2)
	g.Place(Coord{0, 0}, 1)
	g.Place(Coord{0, 1}, 2)

	// 1 claims 2's cell before 2 has left.
	g.Move(1, Coord{0, 0}, Coord{0, 1})
	// 2 leaving must not erase 1.
	g.Move(2, Coord{0, 1}, Coord{0, 0})

	if g.At(Coord{0, 0}) != 2 || g.At(Coord{0, 1}) != 1 {
		t.Fatalf("swap lost an occupant: %d %d", g.At(Coord{0, 0}), g.At(Coord{0, 1}))
	}
	if g.Occupied() != 2 {
		t.Fatalf("Occupied = %d, want 2", g.Occupied())
	}
}
