package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/store"
)

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter(" Expert ", "2024-05-01", "10", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Preset != "expert" || cfg.Last != 10 || cfg.CurveWindow != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Format("2006-01-02") != "2024-05-01" {
		t.Fatalf("expected since date")
	}
	if _, err := parseFilter("huge", "", "", ""); err == nil {
		t.Fatalf("expected unknown preset error")
	}
	if _, err := parseFilter("", "01/05/2024", "", ""); err == nil {
		t.Fatalf("expected date error")
	}
	if _, err := parseFilter("", "", "-1", ""); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := parseFilter("custom", "", "", "0"); err == nil {
		t.Fatalf("expected window error")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if got := nextCurveWindow(1); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := nextCurveWindow(7); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := prevCurveWindow(10); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := prevCurveWindow(5); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("ab\ncdef\nxyz", 4, 2)
	if out != "ab  \ncdef" {
		t.Fatalf("unexpected fit %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncate %q", got)
	}
}

func TestModelRendersHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "tuimines.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	end := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	if _, err := st.InsertGame(context.Background(), model.GameResult{
		StartedAt: end.Add(-42 * time.Second), EndedAt: end,
		Rows: 9, Cols: 9, Mines: 10, Outcome: model.OutcomeWon,
		ElapsedSeconds: 42, OpenedCells: 71, FlagsPlaced: 10,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m := NewModel(st, model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	if !strings.Contains(view, "Win Rate") {
		t.Fatalf("expected overview cards in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabPresets || !strings.Contains(m.View(), "beginner") {
		t.Fatalf("expected presets tab with beginner row")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "00:00:42") {
		t.Fatalf("expected best time in win times tab")
	}
}
