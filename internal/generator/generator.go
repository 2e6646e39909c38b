// Package generator builds randomized minefields.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/tuimines/internal/minefield"
)

var (
	// ErrStartOutOfBounds is returned when the first click lies outside the field.
	ErrStartOutOfBounds = errors.New("start cell outside field")
	// ErrTooManyMines is returned when no layout can leave the start cell at zero.
	ErrTooManyMines = errors.New("too many mines for a safe first click")
)

// Generator produces mine layouts where the first click opens a zero cell.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// CreateField rejection-samples mine layouts until the cell at
// (startRow, startCol) is a zero cell, then returns the numbered field.
func (g *Generator) CreateField(rows, cols, mines, startRow, startCol int) (*minefield.Field, error) {
	field, err := minefield.New(rows, cols, mines)
	if err != nil {
		return nil, err
	}
	if !field.IsValid(startRow, startCol) {
		return nil, fmt.Errorf("%w: %d,%d on %dx%d", ErrStartOutOfBounds, startRow, startCol, rows, cols)
	}
	start := minefield.Coordinate{Row: startRow, Col: startCol}
	safe := len(field.Neighbors(start)) + 1
	if mines > rows*cols-safe {
		return nil, fmt.Errorf("%w: %d mines, at most %d fit", ErrTooManyMines, mines, rows*cols-safe)
	}

	for {
		if err := field.PlaceMines(g.sampleMines(rows, cols, mines)); err != nil {
			return nil, err
		}
		field.FillNumbers()
		if cell, _ := field.Cell(start); cell.IsZero() {
			return field, nil
		}
	}
}

// sampleMines draws random coordinates, retrying duplicates, until count
// distinct mines are placed.
func (g *Generator) sampleMines(rows, cols, count int) []minefield.Coordinate {
	taken := make(map[minefield.Coordinate]struct{}, count)
	out := make([]minefield.Coordinate, 0, count)
	for len(out) < count {
		c := minefield.Coordinate{Row: g.rnd.Intn(rows), Col: g.rnd.Intn(cols)}
		if _, ok := taken[c]; ok {
			continue
		}
		taken[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
