package minefield

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is returned for impossible field dimensions or mine counts.
var ErrInvalidShape = errors.New("invalid field shape")

// Field is a rows x cols grid of cells. Shape is fixed after construction;
// only cell state changes.
type Field struct {
	rows  int
	cols  int
	mines int
	grid  [][]Cell
}

// New returns a field holding shape parameters only. The grid is assigned
// later with SetMatrix or PlaceMines.
func New(rows, cols, mines int) (*Field, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidShape, rows, cols)
	}
	if mines < 0 || mines >= rows*cols {
		return nil, fmt.Errorf("%w: %d mines on %dx%d", ErrInvalidShape, mines, rows, cols)
	}
	return &Field{rows: rows, cols: cols, mines: mines}, nil
}

// Rows returns the row count.
func (f *Field) Rows() int {
	return f.rows
}

// Cols returns the column count.
func (f *Field) Cols() int {
	return f.cols
}

// Mines returns the configured mine count.
func (f *Field) Mines() int {
	return f.mines
}

// HasGrid reports whether a mine layout has been assigned.
func (f *Field) HasGrid() bool {
	return len(f.grid) > 0
}

// IsValid reports whether (row, col) lies inside the field.
func (f *Field) IsValid(row, col int) bool {
	return row >= 0 && row < f.rows && col >= 0 && col < f.cols
}

// SetMatrix replaces the grid. The matrix must match the field shape.
// Cell locations are normalized to their grid position.
func (f *Field) SetMatrix(grid [][]Cell) error {
	if len(grid) != f.rows {
		return fmt.Errorf("%w: got %d rows, want %d", ErrInvalidShape, len(grid), f.rows)
	}
	out := make([][]Cell, f.rows)
	for r, row := range grid {
		if len(row) != f.cols {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidShape, r, len(row), f.cols)
		}
		out[r] = make([]Cell, f.cols)
		for c, cell := range row {
			cell.loc = Coordinate{Row: r, Col: c}
			out[r][c] = cell
		}
	}
	f.grid = out
	return nil
}

// PlaceMines builds a fresh closed grid with mines at locs.
// Adjacency counts are left at zero until FillNumbers runs.
func (f *Field) PlaceMines(locs []Coordinate) error {
	grid := make([][]Cell, f.rows)
	for r := range grid {
		grid[r] = make([]Cell, f.cols)
		for c := range grid[r] {
			grid[r][c] = Cell{loc: Coordinate{Row: r, Col: c}}
		}
	}
	for _, loc := range locs {
		if !f.IsValid(loc.Row, loc.Col) {
			return fmt.Errorf("%w: mine at %d,%d outside field", ErrInvalidShape, loc.Row, loc.Col)
		}
		grid[loc.Row][loc.Col].mine = true
	}
	f.grid = grid
	return nil
}

// MinesAround counts mines among the valid 8 neighbours of c. It is 0
// before a mine layout is assigned.
func (f *Field) MinesAround(c Coordinate) int {
	if !f.HasGrid() {
		return 0
	}
	count := 0
	f.eachNeighbor(c, func(n Coordinate) {
		if f.grid[n.Row][n.Col].mine {
			count++
		}
	})
	return count
}

// FillNumbers computes adjacency for every non-mine cell. It must run once
// after mine placement and before any opening; on an empty grid it does nothing.
func (f *Field) FillNumbers() {
	if !f.HasGrid() {
		return
	}
	for r := range f.grid {
		for c := range f.grid[r] {
			cell := &f.grid[r][c]
			if cell.mine {
				cell.adjacent = 0
				continue
			}
			cell.adjacent = f.MinesAround(Coordinate{Row: r, Col: c})
		}
	}
}

// Cell returns a copy of the cell at c.
func (f *Field) Cell(c Coordinate) (Cell, bool) {
	if !f.HasGrid() || !f.IsValid(c.Row, c.Col) {
		return Cell{}, false
	}
	return f.grid[c.Row][c.Col], true
}

// Snapshot returns a deep copy of the grid for rendering.
func (f *Field) Snapshot() [][]Cell {
	out := make([][]Cell, len(f.grid))
	for r, row := range f.grid {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}

// MineCount returns the number of mines actually placed.
func (f *Field) MineCount() int {
	count := 0
	for _, row := range f.grid {
		for _, cell := range row {
			if cell.mine {
				count++
			}
		}
	}
	return count
}

// Counts returns the number of open and flagged cells.
func (f *Field) Counts() (open, flagged int) {
	for _, row := range f.grid {
		for _, cell := range row {
			if cell.open {
				open++
			}
			if cell.flagged {
				flagged++
			}
		}
	}
	return open, flagged
}

// AllResolved reports whether every cell is open or flagged.
func (f *Field) AllResolved() bool {
	if !f.HasGrid() {
		return false
	}
	for _, row := range f.grid {
		for _, cell := range row {
			if !cell.open && !cell.flagged {
				return false
			}
		}
	}
	return true
}

func (f *Field) eachNeighbor(c Coordinate, fn func(Coordinate)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, col := c.Row+dr, c.Col+dc
			if f.IsValid(r, col) {
				fn(Coordinate{Row: r, Col: col})
			}
		}
	}
}
