// Package minefield models the Minesweeper grid: cells, adjacency counts and opening.
package minefield

// Coordinate addresses a cell by 0-based row and column.
type Coordinate struct {
	Row int
	Col int
}

// MineSentinel is the adjacency value mines carry in the save format.
const MineSentinel = -1

// Cell is one grid cell. Its content is either a mine or a count of
// neighbouring mines, never both.
type Cell struct {
	loc      Coordinate
	mine     bool
	adjacent int
	flagged  bool
	open     bool
	revealed bool
}

// NewMineCell returns an unopened mine at loc.
func NewMineCell(loc Coordinate) Cell {
	return Cell{loc: loc, mine: true}
}

// NewNumberCell returns an unopened non-mine cell at loc with n neighbouring mines.
func NewNumberCell(loc Coordinate, n int) Cell {
	return Cell{loc: loc, adjacent: n}
}

// Location returns the cell coordinate.
func (c Cell) Location() Coordinate {
	return c.loc
}

// IsMine reports whether the cell holds a mine.
func (c Cell) IsMine() bool {
	return c.mine
}

// Adjacent returns the neighbouring mine count. ok is false for mines.
func (c Cell) Adjacent() (n int, ok bool) {
	if c.mine {
		return 0, false
	}
	return c.adjacent, true
}

// AdjacentMines returns the count with MineSentinel for mines.
func (c Cell) AdjacentMines() int {
	if c.mine {
		return MineSentinel
	}
	return c.adjacent
}

// IsZero reports whether the cell is a non-mine without neighbouring mines.
func (c Cell) IsZero() bool {
	return !c.mine && c.adjacent == 0
}

// IsFlagged reports whether the player flagged the cell.
func (c Cell) IsFlagged() bool {
	return c.flagged
}

// IsOpen reports whether the player opened the cell.
func (c Cell) IsOpen() bool {
	return c.open
}

// IsRevealed reports whether the cell is shown after a loss without being opened.
func (c Cell) IsRevealed() bool {
	return c.revealed
}

// WithState returns a copy of c with the given flag and open state.
func (c Cell) WithState(flagged, open bool) Cell {
	c.flagged = flagged
	c.open = open
	return c
}
