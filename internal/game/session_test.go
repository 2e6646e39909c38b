package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/tuimines/internal/minefield"
	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/savefile"
)

type fixedGenerator struct {
	mines []minefield.Coordinate
	calls int
}

func (g *fixedGenerator) CreateField(rows, cols, mines, _, _ int) (*minefield.Field, error) {
	g.calls++
	f, err := minefield.New(rows, cols, mines)
	if err != nil {
		return nil, err
	}
	if err := f.PlaceMines(g.mines); err != nil {
		return nil, err
	}
	f.FillNumbers()
	return f, nil
}

type recorder struct {
	changed  map[minefield.Coordinate]int
	outcomes []model.Outcome
}

func newRecorder() *recorder {
	return &recorder{changed: map[minefield.Coordinate]int{}}
}

func (r *recorder) CellChanged(c minefield.Coordinate) {
	r.changed[c]++
}

func (r *recorder) GameEnded(outcome model.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

func cornerSession(t *testing.T) (*Session, *fixedGenerator, *recorder) {
	t.Helper()
	gen := &fixedGenerator{mines: []minefield.Coordinate{{Row: 2, Col: 2}}}
	rec := newRecorder()
	cfg := model.Config{Rows: 3, Cols: 3, Mines: 1}
	return NewSession(cfg, gen, rec), gen, rec
}

func TestFirstMoveInFlagModeRefused(t *testing.T) {
	s, gen, _ := cornerSession(t)
	s.ToggleFlagMode()
	if err := s.Click(0, 0); !errors.Is(err, ErrFirstMoveFlag) {
		t.Fatalf("expected ErrFirstMoveFlag, got %v", err)
	}
	if gen.calls != 0 || !s.FirstMovePending() {
		t.Fatalf("expected no field to be generated")
	}
}

func TestFirstMoveOpensRegion(t *testing.T) {
	s, gen, rec := cornerSession(t)
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	if gen.calls != 1 || s.FirstMovePending() {
		t.Fatalf("expected field to be generated once")
	}
	if len(rec.changed) != 8 {
		t.Fatalf("expected 8 changed cells, got %d", len(rec.changed))
	}
	if !s.Running() || s.Ended() {
		t.Fatalf("expected game to be running")
	}
	if !s.NeedsSavePrompt() {
		t.Fatalf("expected unsaved progress after first move")
	}
}

func TestWinRequiresAllFlagsPlaced(t *testing.T) {
	s, _, rec := cornerSession(t)
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	if s.Ended() {
		t.Fatalf("game must not end while flags remain")
	}
	s.ToggleFlagMode()
	if err := s.Click(2, 2); err != nil {
		t.Fatalf("flag: %v", err)
	}
	if !s.Won() {
		t.Fatalf("expected win once the mine is flagged")
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != model.OutcomeWon {
		t.Fatalf("expected one won notification, got %v", rec.outcomes)
	}
	res, ok := s.Result()
	if !ok {
		t.Fatalf("expected result for finished game")
	}
	if res.OpenedCells != 8 || res.FlagsPlaced != 1 || res.Outcome != model.OutcomeWon {
		t.Fatalf("unexpected result %+v", res)
	}
	if s.NeedsSavePrompt() {
		t.Fatalf("finished game must not prompt for save")
	}
}

func TestOpenMineLoses(t *testing.T) {
	gen := &fixedGenerator{mines: []minefield.Coordinate{{Row: 0, Col: 2}, {Row: 2, Col: 2}}}
	rec := newRecorder()
	s := NewSession(model.Config{Rows: 3, Cols: 3, Mines: 2}, gen, rec)
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	if err := s.Click(2, 2); err != nil {
		t.Fatalf("click: %v", err)
	}
	if !s.Ended() || s.Won() {
		t.Fatalf("expected loss")
	}
	if c, ok := s.Detonated(); !ok || c != (minefield.Coordinate{Row: 2, Col: 2}) {
		t.Fatalf("expected detonated mine at 2,2")
	}
	cell, _ := s.Cell(0, 2)
	if !cell.IsRevealed() || cell.IsOpen() {
		t.Fatalf("expected other mine revealed but not open")
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != model.OutcomeLost {
		t.Fatalf("expected one lost notification, got %v", rec.outcomes)
	}
	if err := s.Click(1, 2); err != nil {
		t.Fatalf("click after end: %v", err)
	}
	if cell, _ := s.Cell(1, 2); cell.IsOpen() {
		t.Fatalf("clicks after the end must be ignored")
	}
}

func TestFlagBudget(t *testing.T) {
	gen := &fixedGenerator{mines: []minefield.Coordinate{{Row: 3, Col: 3}}}
	s := NewSession(model.Config{Rows: 4, Cols: 4, Mines: 1}, gen, nil)
	if err := s.Click(0, 3); err != nil {
		t.Fatalf("click: %v", err)
	}
	s.FlagAction(3, 3)
	if s.AvailableFlags() != 0 {
		t.Fatalf("expected no flags left, got %d", s.AvailableFlags())
	}
	s.FlagAction(3, 3)
	if s.AvailableFlags() != 1 {
		t.Fatalf("expected flag returned, got %d", s.AvailableFlags())
	}
}

func TestFlaggedCellIgnoresOpen(t *testing.T) {
	gen := &fixedGenerator{mines: []minefield.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 2}}}
	s := NewSession(model.Config{Rows: 3, Cols: 3, Mines: 2}, gen, nil)
	if err := s.Click(2, 1); err != nil {
		t.Fatalf("click: %v", err)
	}
	s.FlagAction(0, 0)
	s.OpenAction(0, 0)
	if s.Ended() {
		t.Fatalf("opening a flagged mine must be a no-op")
	}
}

func TestTickOnlyWhileRunning(t *testing.T) {
	s, _, _ := cornerSession(t)
	s.Tick()
	if s.Elapsed() != 0 {
		t.Fatalf("timer must not run before the first move")
	}
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	s.Tick()
	s.Tick()
	if s.Elapsed() != 2 {
		t.Fatalf("expected 2 seconds, got %d", s.Elapsed())
	}
	s.ToggleFlagMode()
	if err := s.Click(2, 2); err != nil {
		t.Fatalf("flag: %v", err)
	}
	s.Tick()
	if s.Elapsed() != 2 {
		t.Fatalf("timer must stop after the end, got %d", s.Elapsed())
	}
}

func TestSaveAndLoadSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.txt")
	gen := &fixedGenerator{mines: []minefield.Coordinate{{Row: 0, Col: 2}, {Row: 2, Col: 2}}}
	s := NewSession(model.Config{Rows: 3, Cols: 3, Mines: 2}, gen, nil)
	if err := s.Save(path); !errors.Is(err, ErrNothingToSave) {
		t.Fatalf("expected ErrNothingToSave, got %v", err)
	}
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	s.FlagAction(2, 2)
	s.Tick()
	if err := s.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.NeedsSavePrompt() {
		t.Fatalf("expected saved session not to prompt")
	}

	rec := newRecorder()
	loaded := NewSession(model.Config{Rows: 9, Cols: 9, Mines: 10}, gen, rec)
	if err := loaded.Load(path, savefile.Bounds{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Rows() != 3 || loaded.Cols() != 3 || loaded.Config().Mines != 2 {
		t.Fatalf("expected loaded shape 3x3/2, got %s", loaded.Config().Shape())
	}
	if loaded.Elapsed() != 1 || loaded.AvailableFlags() != 1 {
		t.Fatalf("expected elapsed 1 and 1 flag left, got %d and %d", loaded.Elapsed(), loaded.AvailableFlags())
	}
	if !loaded.Running() || loaded.FirstMovePending() {
		t.Fatalf("expected loaded game to be running")
	}
	if cell, _ := loaded.Cell(2, 2); !cell.IsFlagged() {
		t.Fatalf("expected flag to survive the round trip")
	}
	if len(rec.changed) == 0 {
		t.Fatalf("expected observer to be told about restored cells")
	}
	if err := loaded.Click(1, 2); err != nil {
		t.Fatalf("click: %v", err)
	}
	loaded.ToggleFlagMode()
	if err := loaded.Click(0, 2); err != nil {
		t.Fatalf("flag: %v", err)
	}
	if !loaded.Won() {
		t.Fatalf("expected loaded game to be winnable")
	}
	if res, _ := loaded.Result(); !res.Resumed {
		t.Fatalf("expected result to be marked resumed")
	}
}

func TestLoadFailureKeepsSession(t *testing.T) {
	s, _, _ := cornerSession(t)
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	err := s.Load(filepath.Join(t.TempDir(), "missing.txt"), savefile.Bounds{})
	if !errors.Is(err, savefile.ErrFileUnavailable) {
		t.Fatalf("expected ErrFileUnavailable, got %v", err)
	}
	if !s.Running() || s.Rows() != 3 {
		t.Fatalf("expected session to be untouched")
	}
}

func TestRejectedSaveKeepsRunningGame(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"malformed":        "2:2\n4\n0:0:0 0:x:0\n0:0:0 0:0:0\n",
		"flags over mines": "1:2\n4\n-1:1:0 1:1:0\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}

		s, _, _ := cornerSession(t)
		if err := s.Click(0, 0); err != nil {
			t.Fatalf("click: %v", err)
		}
		s.FlagAction(2, 2)
		s.Tick()
		before, _ := s.Cell(2, 2)

		if err := s.Load(path, savefile.Bounds{}); !errors.Is(err, savefile.ErrReading) {
			t.Fatalf("%s: expected ErrReading, got %v", name, err)
		}
		if s.Rows() != 3 || s.Cols() != 3 || s.Config().Mines != 1 {
			t.Fatalf("%s: shape changed to %s", name, s.Config().Shape())
		}
		if s.Elapsed() != 1 || s.AvailableFlags() != 0 {
			t.Fatalf("%s: expected elapsed 1 and no flags left, got %d and %d", name, s.Elapsed(), s.AvailableFlags())
		}
		if after, _ := s.Cell(2, 2); after != before || !after.IsFlagged() {
			t.Fatalf("%s: expected field to be untouched", name)
		}
		if cell, _ := s.Cell(0, 0); !cell.IsOpen() || !s.Running() {
			t.Fatalf("%s: expected the running game to be kept", name)
		}
	}
}

func TestNewGameResets(t *testing.T) {
	s, _, _ := cornerSession(t)
	if err := s.Click(0, 0); err != nil {
		t.Fatalf("click: %v", err)
	}
	s.ToggleFlagMode()
	s.SetConfig(model.Config{Rows: 9, Cols: 9, Mines: 10})
	s.NewGame()
	if !s.FirstMovePending() || s.FlagMode() || s.AvailableFlags() != 10 {
		t.Fatalf("expected fresh game state")
	}
	if s.Rows() != 9 || s.Cols() != 9 {
		t.Fatalf("expected new shape to apply")
	}
	if _, ok := s.Cell(0, 0); ok {
		t.Fatalf("expected no field before first move")
	}
}
