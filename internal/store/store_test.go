package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuimines/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuimines.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertGame(t *testing.T, st *Store, at time.Time, rows, cols, mines int, outcome model.Outcome, elapsed int) int64 {
	t.Helper()
	id, err := st.InsertGame(context.Background(), model.GameResult{
		StartedAt:      at.Add(-time.Duration(elapsed) * time.Second),
		EndedAt:        at,
		Rows:           rows,
		Cols:           cols,
		Mines:          mines,
		Outcome:        outcome,
		ElapsedSeconds: elapsed,
		OpenedCells:    rows*cols - mines,
	})
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	return id
}

func TestListGamesFilters(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	insertGame(t, st, base, 9, 9, 10, model.OutcomeWon, 40)
	insertGame(t, st, base.Add(time.Hour), 16, 16, 40, model.OutcomeLost, 12)
	insertGame(t, st, base.Add(48*time.Hour), 9, 9, 10, model.OutcomeLost, 5)

	ctx := context.Background()
	all, err := st.ListGames(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 games, got %d", len(all))
	}
	if all[0].Preset != "beginner" || all[0].SafeCells != 71 || all[0].Outcome != model.OutcomeWon {
		t.Fatalf("unexpected first game %+v", all[0])
	}

	beginner, err := st.ListGames(ctx, model.StatsConfig{Preset: "beginner"})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(beginner) != 2 {
		t.Fatalf("expected 2 beginner games, got %d", len(beginner))
	}

	since := base.Add(24 * time.Hour)
	recent, err := st.ListGames(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(recent) != 1 || recent[0].ElapsedSeconds != 5 {
		t.Fatalf("expected only the latest game, got %+v", recent)
	}
}

func TestPresetAggregates(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := []int64{
		insertGame(t, st, base, 9, 9, 10, model.OutcomeWon, 40),
		insertGame(t, st, base.Add(time.Minute), 9, 9, 10, model.OutcomeWon, 20),
		insertGame(t, st, base.Add(2*time.Minute), 9, 9, 10, model.OutcomeLost, 3),
		insertGame(t, st, base.Add(3*time.Minute), 5, 7, 3, model.OutcomeLost, 8),
	}
	aggs, err := st.ListPresetAggregatesForGames(context.Background(), ids)
	if err != nil {
		t.Fatalf("aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(aggs))
	}
	beginner := aggs[0]
	if beginner.Preset != "beginner" || beginner.Played != 3 || beginner.Won != 2 {
		t.Fatalf("unexpected beginner aggregate %+v", beginner)
	}
	if beginner.BestSeconds != 20 || beginner.AvgSeconds != 30 {
		t.Fatalf("expected best 20 and avg 30, got %+v", beginner)
	}
	custom := aggs[1]
	if custom.Preset != model.CustomPreset || custom.Won != 0 || custom.BestSeconds != 0 {
		t.Fatalf("unexpected custom aggregate %+v", custom)
	}

	empty, err := st.ListPresetAggregatesForGames(context.Background(), nil)
	if err != nil || empty != nil {
		t.Fatalf("expected nil for no games, got %v %v", empty, err)
	}
}

func TestBestTimes(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	insertGame(t, st, base, 16, 30, 99, model.OutcomeWon, 300)
	insertGame(t, st, base.Add(time.Minute), 16, 30, 99, model.OutcomeWon, 250)
	insertGame(t, st, base.Add(2*time.Minute), 16, 30, 99, model.OutcomeLost, 10)
	insertGame(t, st, base.Add(3*time.Minute), 16, 30, 99, model.OutcomeWon, 280)

	best, err := st.BestTimes(context.Background(), "expert", 2)
	if err != nil {
		t.Fatalf("best times: %v", err)
	}
	if len(best) != 2 || best[0].ElapsedSeconds != 250 || best[1].ElapsedSeconds != 280 {
		t.Fatalf("unexpected best times %+v", best)
	}
}
