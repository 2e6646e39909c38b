package minefield

// Open reveals c and, when c is a zero cell, flood-fills through the
// connected zero region and its bordering ring of numbered cells.
// Open, flagged and mine cells are never opened or expanded into; routing a
// mine click to the loss path is the caller's job.
// It returns the coordinates that changed state, in the order they opened.
func (f *Field) Open(c Coordinate) []Coordinate {
	cell, ok := f.Cell(c)
	if !ok || cell.open || cell.flagged || cell.mine {
		return nil
	}

	var opened []Coordinate
	stack := []Coordinate{c}
	f.grid[c.Row][c.Col].open = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		opened = append(opened, cur)
		if !f.grid[cur.Row][cur.Col].IsZero() {
			continue
		}
		f.eachNeighbor(cur, func(n Coordinate) {
			next := &f.grid[n.Row][n.Col]
			if next.open || next.flagged || next.mine {
				return
			}
			next.open = true
			stack = append(stack, n)
		})
	}
	return opened
}

// ToggleFlag flips the flag on a closed cell. changed is false when the
// cell is open or outside the field.
func (f *Field) ToggleFlag(c Coordinate) (flagged, changed bool) {
	cell, ok := f.Cell(c)
	if !ok || cell.open {
		return cell.flagged, false
	}
	f.grid[c.Row][c.Col].flagged = !cell.flagged
	return !cell.flagged, true
}

// SetFlag sets the flag on a closed cell and reports whether it changed.
func (f *Field) SetFlag(c Coordinate, flagged bool) bool {
	cell, ok := f.Cell(c)
	if !ok || cell.open || cell.flagged == flagged {
		return false
	}
	f.grid[c.Row][c.Col].flagged = flagged
	return true
}

// ShowAll marks every cell revealed for display after a loss. It does not
// touch the open state used by AllResolved.
func (f *Field) ShowAll() []Coordinate {
	var shown []Coordinate
	for r := range f.grid {
		for c := range f.grid[r] {
			cell := &f.grid[r][c]
			if cell.open || cell.revealed {
				continue
			}
			cell.revealed = true
			shown = append(shown, cell.loc)
		}
	}
	return shown
}

// Neighbors returns the valid 8-neighbourhood of c.
func (f *Field) Neighbors(c Coordinate) []Coordinate {
	out := make([]Coordinate, 0, 8)
	f.eachNeighbor(c, func(n Coordinate) {
		out = append(out, n)
	})
	return out
}
