package game

import (
	"github.com/verte-zerg/tuimines/internal/minefield"
	"github.com/verte-zerg/tuimines/internal/model"
)

// Rows returns the board height.
func (s *Session) Rows() int {
	if s.field != nil {
		return s.field.Rows()
	}
	return s.cfg.Rows
}

// Cols returns the board width.
func (s *Session) Cols() int {
	if s.field != nil {
		return s.field.Cols()
	}
	return s.cfg.Cols
}

// Cell returns a copy of the cell at (row, col). Before the first move no
// field exists and ok is false.
func (s *Session) Cell(row, col int) (minefield.Cell, bool) {
	if s.field == nil {
		return minefield.Cell{}, false
	}
	return s.field.Cell(minefield.Coordinate{Row: row, Col: col})
}

// Detonated returns the mine that ended the game, if any.
func (s *Session) Detonated() (minefield.Coordinate, bool) {
	if s.detonated == nil {
		return minefield.Coordinate{}, false
	}
	return *s.detonated, true
}

// AvailableFlags returns mines minus flags placed.
func (s *Session) AvailableFlags() int {
	return s.availableFlags
}

// Elapsed returns the elapsed game time in seconds.
func (s *Session) Elapsed() int {
	return s.elapsed
}

// FirstMovePending reports whether the field is still to be generated.
func (s *Session) FirstMovePending() bool {
	return s.firstMove
}

// Running reports whether a game is started and not finished.
func (s *Session) Running() bool {
	return s.field != nil && !s.ended
}

// Ended reports whether the game finished.
func (s *Session) Ended() bool {
	return s.ended
}

// Won reports whether the game ended in a win.
func (s *Session) Won() bool {
	return s.ended && s.won
}

// Saved reports whether the current state matches the last save.
func (s *Session) Saved() bool {
	return s.saved
}

// NeedsSavePrompt reports whether discarding the session would lose progress.
func (s *Session) NeedsSavePrompt() bool {
	return s.Running() && !s.saved
}

// Result summarizes a finished game. ok is false while the game runs.
func (s *Session) Result() (model.GameResult, bool) {
	if !s.ended || s.field == nil {
		return model.GameResult{}, false
	}
	open, flagged := s.field.Counts()
	outcome := model.OutcomeLost
	if s.won {
		outcome = model.OutcomeWon
	}
	return model.GameResult{
		StartedAt:      s.startedAt,
		EndedAt:        s.endedAt,
		Rows:           s.field.Rows(),
		Cols:           s.field.Cols(),
		Mines:          s.field.Mines(),
		Outcome:        outcome,
		ElapsedSeconds: s.elapsed,
		OpenedCells:    open,
		FlagsPlaced:    flagged,
		Resumed:        s.resumed,
	}, true
}
