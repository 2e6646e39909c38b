package stats

import (
	"context"

	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Games            []model.GameAggregate
	WindowGameIDs    []int64
	PresetAggsAll    []model.PresetAggregate
	PresetAggsWindow []model.PresetAggregate
	BestTimes        map[string][]model.GameAggregate
}

// BestTimesPerPreset is how many fastest wins a report keeps per preset.
const BestTimesPerPreset = 5

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	games, err := st.ListGames(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(games) > cfg.Last {
		games = games[len(games)-cfg.Last:]
	}

	windowIDs := lastGameIDs(games, cfg.CurveWindow)
	presetAggsAll, err := st.ListPresetAggregatesForGames(ctx, gameIDs(games))
	if err != nil {
		return Report{}, err
	}
	presetAggsWindow, err := st.ListPresetAggregatesForGames(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	best := map[string][]model.GameAggregate{}
	for _, agg := range presetAggsAll {
		if agg.Won == 0 {
			continue
		}
		top, err := st.BestTimes(ctx, agg.Preset, BestTimesPerPreset)
		if err != nil {
			return Report{}, err
		}
		best[agg.Preset] = top
	}

	return Report{
		Games:            games,
		WindowGameIDs:    windowIDs,
		PresetAggsAll:    presetAggsAll,
		PresetAggsWindow: presetAggsWindow,
		BestTimes:        best,
	}, nil
}

func gameIDs(games []model.GameAggregate) []int64 {
	ids := make([]int64, len(games))
	for i, g := range games {
		ids[i] = g.GameID
	}
	return ids
}

func lastGameIDs(games []model.GameAggregate, window int) []int64 {
	if window <= 0 || len(games) <= window {
		return gameIDs(games)
	}
	return gameIDs(games[len(games)-window:])
}
