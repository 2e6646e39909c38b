package stats

import (
	"sort"

	"github.com/verte-zerg/tuimines/internal/model"
)

// TopPresetsByPlayed returns the top N presets by games played.
func TopPresetsByPlayed(aggs []model.PresetAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.PresetAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Played == items[j].Played {
			return items[i].Preset < items[j].Preset
		}
		return items[i].Played > items[j].Played
	})
	n = min(n, len(items))
	out := make([]string, 0, n)
	for _, item := range items[:n] {
		out = append(out, item.Preset)
	}
	return out
}
