// Package store handles SQLite persistence of finished games.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuimines/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			preset TEXT NOT NULL,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			mines INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			elapsed_s INTEGER NOT NULL,
			opened_cells INTEGER NOT NULL,
			flags_placed INTEGER NOT NULL,
			resumed INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_games_preset ON games(preset);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a finished game.
func (s *Store) InsertGame(ctx context.Context, res model.GameResult) (int64, error) {
	resumed := 0
	if res.Resumed {
		resumed = 1
	}
	out, err := s.db.ExecContext(ctx,
		`INSERT INTO games (started_at, ended_at, preset, rows, cols, mines, outcome, elapsed_s, opened_cells, flags_placed, resumed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.StartedAt.Format(time.RFC3339Nano),
		res.EndedAt.Format(time.RFC3339Nano),
		model.PresetName(res.Rows, res.Cols, res.Mines),
		res.Rows,
		res.Cols,
		res.Mines,
		string(res.Outcome),
		res.ElapsedSeconds,
		res.OpenedCells,
		res.FlagsPlaced,
		resumed,
	)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

// ListGames returns game aggregates filtered by stats config, oldest first.
func (s *Store) ListGames(ctx context.Context, cfg model.StatsConfig) ([]model.GameAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Preset != "" {
		clauses = append(clauses, "preset = ?")
		args = append(args, cfg.Preset)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, preset, outcome, elapsed_s, opened_cells, rows * cols - mines
		FROM games
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameAggregate
	for rows.Next() {
		var agg model.GameAggregate
		var endedAt, outcome string
		if err := rows.Scan(&agg.GameID, &endedAt, &agg.Preset, &outcome, &agg.ElapsedSeconds, &agg.OpenedCells, &agg.SafeCells); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Outcome = model.Outcome(outcome)
		games = append(games, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// ListPresetAggregatesForGames aggregates played, won and win times per preset.
func (s *Store) ListPresetAggregatesForGames(ctx context.Context, gameIDs []int64) ([]model.PresetAggregate, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(gameIDs))
	args := make([]any, 0, len(gameIDs)+1)
	args = append(args, string(model.OutcomeWon))
	for i, id := range gameIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT preset, COUNT(*) AS played,
		SUM(CASE WHEN outcome = ?1 THEN 1 ELSE 0 END) AS won,
		COALESCE(MIN(CASE WHEN outcome = ?1 THEN elapsed_s END), 0) AS best,
		COALESCE(AVG(CASE WHEN outcome = ?1 THEN elapsed_s END), 0) AS avg
		FROM games
		WHERE id IN (%s)
		GROUP BY preset
		ORDER BY preset`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.PresetAggregate
	for rows.Next() {
		var agg model.PresetAggregate
		if err := rows.Scan(&agg.Preset, &agg.Played, &agg.Won, &agg.BestSeconds, &agg.AvgSeconds); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BestTimes returns the fastest won games for a preset.
func (s *Store) BestTimes(ctx context.Context, preset string, limit int) ([]model.GameAggregate, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ended_at, preset, outcome, elapsed_s, opened_cells, rows * cols - mines
		 FROM games
		 WHERE outcome = ? AND preset = ?
		 ORDER BY elapsed_s ASC, ended_at ASC
		 LIMIT ?`, string(model.OutcomeWon), preset, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameAggregate
	for rows.Next() {
		var agg model.GameAggregate
		var endedAt, outcome string
		if err := rows.Scan(&agg.GameID, &endedAt, &agg.Preset, &outcome, &agg.ElapsedSeconds, &agg.OpenedCells, &agg.SafeCells); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Outcome = model.Outcome(outcome)
		games = append(games, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
