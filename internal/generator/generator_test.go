package generator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/verte-zerg/tuimines/internal/minefield"
)

func TestCreateFieldStartIsZero(t *testing.T) {
	shapes := []struct{ rows, cols, mines int }{
		{9, 9, 10},
		{16, 16, 40},
		{16, 30, 99},
		{4, 4, 2},
		{5, 5, 8},
	}
	for seed := int64(1); seed <= 5; seed++ {
		gen := NewWithSource(rand.NewSource(seed))
		for _, s := range shapes {
			startRow, startCol := s.rows/2, s.cols/2
			field, err := gen.CreateField(s.rows, s.cols, s.mines, startRow, startCol)
			if err != nil {
				t.Fatalf("create %+v: %v", s, err)
			}
			cell, ok := field.Cell(minefield.Coordinate{Row: startRow, Col: startCol})
			if !ok {
				t.Fatalf("start cell missing")
			}
			if cell.IsMine() || !cell.IsZero() {
				t.Fatalf("expected zero start cell for %+v, got %d", s, cell.AdjacentMines())
			}
			if got := field.MineCount(); got != s.mines {
				t.Fatalf("expected %d mines, got %d", s.mines, got)
			}
		}
	}
}

func TestCreateFieldNumbersMatchLayout(t *testing.T) {
	gen := NewWithSource(rand.NewSource(42))
	field, err := gen.CreateField(10, 12, 25, 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, row := range field.Snapshot() {
		for _, cell := range row {
			n, ok := cell.Adjacent()
			if !ok {
				continue
			}
			if want := field.MinesAround(cell.Location()); n != want {
				t.Fatalf("cell %v: expected %d, got %d", cell.Location(), want, n)
			}
		}
	}
}

func TestCreateFieldCornerExample(t *testing.T) {
	gen := NewWithSource(rand.NewSource(7))
	field, err := gen.CreateField(3, 3, 1, 0, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	opened := field.Open(minefield.Coordinate{Row: 0, Col: 0})
	if len(opened) < 4 {
		t.Fatalf("expected at least 4 cells opened, got %d", len(opened))
	}
	for _, c := range []minefield.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}} {
		if cell, _ := field.Cell(c); !cell.IsOpen() {
			t.Fatalf("expected %v to be open", c)
		}
	}
}

func TestCreateFieldDeterministicWithSource(t *testing.T) {
	a, err := NewWithSource(rand.NewSource(99)).CreateField(9, 9, 10, 4, 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := NewWithSource(rand.NewSource(99)).CreateField(9, 9, 10, 4, 4)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	for r := range sa {
		for c := range sa[r] {
			if sa[r][c].IsMine() != sb[r][c].IsMine() {
				t.Fatalf("expected identical layouts for identical seeds")
			}
		}
	}
}

func TestCreateFieldRejectsImpossibleDensity(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))
	if _, err := gen.CreateField(3, 3, 2, 1, 1); !errors.Is(err, ErrTooManyMines) {
		t.Fatalf("expected ErrTooManyMines, got %v", err)
	}
	if _, err := gen.CreateField(3, 3, 1, 3, 0); !errors.Is(err, ErrStartOutOfBounds) {
		t.Fatalf("expected ErrStartOutOfBounds, got %v", err)
	}
	if _, err := gen.CreateField(3, 3, 9, 0, 0); !errors.Is(err, minefield.ErrInvalidShape) {
		t.Fatalf("expected ErrInvalidShape, got %v", err)
	}
}
