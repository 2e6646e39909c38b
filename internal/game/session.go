// Package game drives a Minesweeper session on top of a minefield.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/tuimines/internal/minefield"
	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/savefile"
)

var (
	// ErrFirstMoveFlag is returned when the first move is attempted in flag mode.
	ErrFirstMoveFlag = errors.New("first move must open a cell")
	// ErrNothingToSave is returned when there is no game in progress to save.
	ErrNothingToSave = errors.New("no game in progress")
)

// FieldGenerator builds a field whose start cell is safe.
type FieldGenerator interface {
	CreateField(rows, cols, mines, startRow, startCol int) (*minefield.Field, error)
}

// Observer is notified after cell mutations so it can re-render them.
type Observer interface {
	CellChanged(c minefield.Coordinate)
	GameEnded(outcome model.Outcome)
}

// Session tracks one game: first move, flags, timer and outcome.
// It is not safe for concurrent use; every call happens on the UI loop.
type Session struct {
	cfg      model.Config
	gen      FieldGenerator
	observer Observer
	now      func() time.Time

	field          *minefield.Field
	firstMove      bool
	flagMode       bool
	ended          bool
	won            bool
	saved          bool
	resumed        bool
	availableFlags int
	elapsed        int
	detonated      *minefield.Coordinate
	startedAt      time.Time
	endedAt        time.Time
}

// NewSession returns a session waiting for its first move. observer may be nil.
func NewSession(cfg model.Config, gen FieldGenerator, observer Observer) *Session {
	s := &Session{
		cfg:      cfg,
		gen:      gen,
		observer: observer,
		now:      time.Now,
	}
	s.NewGame()
	return s
}

// NewGame drops the current field and resets counters.
func (s *Session) NewGame() {
	s.field = nil
	s.firstMove = true
	s.flagMode = false
	s.ended = false
	s.won = false
	s.saved = true
	s.resumed = false
	s.availableFlags = s.cfg.Mines
	s.elapsed = 0
	s.detonated = nil
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
}

// SetConfig changes the board shape used by the next NewGame.
func (s *Session) SetConfig(cfg model.Config) {
	s.cfg = cfg
}

// Config returns the session settings.
func (s *Session) Config() model.Config {
	return s.cfg
}

// Click handles a player click on (row, col).
func (s *Session) Click(row, col int) error {
	if s.ended {
		return nil
	}
	if s.firstMove {
		return s.FirstMove(row, col)
	}
	cell, ok := s.field.Cell(minefield.Coordinate{Row: row, Col: col})
	if !ok || cell.IsOpen() {
		return nil
	}
	s.saved = false
	if s.flagMode {
		s.FlagAction(row, col)
	} else {
		s.OpenAction(row, col)
	}
	s.checkWin()
	return nil
}

// FirstMove generates the field around (row, col) and opens it.
func (s *Session) FirstMove(row, col int) error {
	if !s.firstMove {
		return nil
	}
	if s.flagMode {
		return ErrFirstMoveFlag
	}
	field, err := s.gen.CreateField(s.cfg.Rows, s.cfg.Cols, s.cfg.Mines, row, col)
	if err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}
	s.field = field
	s.firstMove = false
	s.saved = false
	s.startedAt = s.now()
	s.notify(s.field.Open(minefield.Coordinate{Row: row, Col: col}))
	s.checkWin()
	return nil
}

// OpenAction opens (row, col); a mine ends the game as a loss.
func (s *Session) OpenAction(row, col int) {
	if s.field == nil || s.ended {
		return
	}
	c := minefield.Coordinate{Row: row, Col: col}
	cell, ok := s.field.Cell(c)
	if !ok || cell.IsFlagged() {
		return
	}
	if cell.IsMine() {
		s.lose(c)
		return
	}
	s.notify(s.field.Open(c))
}

// FlagAction toggles the flag on (row, col). A new flag needs a flag left.
func (s *Session) FlagAction(row, col int) {
	if s.field == nil || s.ended {
		return
	}
	c := minefield.Coordinate{Row: row, Col: col}
	cell, ok := s.field.Cell(c)
	if !ok || cell.IsOpen() {
		return
	}
	if s.availableFlags == 0 && !cell.IsFlagged() {
		return
	}
	flagged, changed := s.field.ToggleFlag(c)
	if !changed {
		return
	}
	if flagged {
		s.availableFlags--
	} else {
		s.availableFlags++
	}
	s.notify([]minefield.Coordinate{c})
}

// ToggleFlagMode switches clicks between opening and flagging.
func (s *Session) ToggleFlagMode() {
	s.flagMode = !s.flagMode
}

// FlagMode reports whether clicks place flags.
func (s *Session) FlagMode() bool {
	return s.flagMode
}

// WinCondition reports whether every cell is open or flagged.
func (s *Session) WinCondition() bool {
	return s.field != nil && s.field.AllResolved()
}

// Tick advances the timer by one second while a game is running.
func (s *Session) Tick() {
	if s.Running() {
		s.elapsed++
	}
}

func (s *Session) checkWin() {
	if s.ended || s.availableFlags != 0 || !s.WinCondition() {
		return
	}
	s.ended = true
	s.won = true
	s.saved = true
	s.endedAt = s.now()
	if s.observer != nil {
		s.observer.GameEnded(model.OutcomeWon)
	}
}

func (s *Session) lose(c minefield.Coordinate) {
	s.ended = true
	s.won = false
	s.saved = true
	s.detonated = &c
	s.endedAt = s.now()
	s.notify(s.field.ShowAll())
	if s.observer != nil {
		s.observer.GameEnded(model.OutcomeLost)
	}
}

func (s *Session) notify(changed []minefield.Coordinate) {
	if s.observer == nil {
		return
	}
	for _, c := range changed {
		s.observer.CellChanged(c)
	}
}

// Save writes the game in progress to path.
func (s *Session) Save(path string) error {
	if s.field == nil || s.ended {
		return ErrNothingToSave
	}
	if err := savefile.Save(path, s.field, s.elapsed); err != nil {
		return err
	}
	s.saved = true
	return nil
}

// Load replaces the session with the save at path. On error the session
// is left untouched.
func (s *Session) Load(path string, bounds savefile.Bounds) error {
	field, elapsed, err := savefile.Load(path, bounds)
	if err != nil {
		return err
	}
	_, flagged := field.Counts()
	if flagged > field.Mines() {
		return fmt.Errorf("%w: %d flags for %d mines", savefile.ErrReading, flagged, field.Mines())
	}

	s.NewGame()
	s.cfg.Rows = field.Rows()
	s.cfg.Cols = field.Cols()
	s.cfg.Mines = field.Mines()
	s.field = field
	s.firstMove = false
	s.resumed = true
	s.elapsed = elapsed
	s.availableFlags = field.Mines() - flagged
	s.startedAt = s.now().Add(-time.Duration(elapsed) * time.Second)
	for _, row := range field.Snapshot() {
		for _, cell := range row {
			if cell.IsOpen() || cell.IsFlagged() {
				s.notify([]minefield.Coordinate{cell.Location()})
			}
		}
	}
	return nil
}
