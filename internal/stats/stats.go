// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuimines/internal/model"
)

const sparkChars = " .:-=+*#%@"

// WinRate returns the share of won games in percent.
func WinRate(games []model.GameAggregate) float64 {
	if len(games) == 0 {
		return 0
	}
	won := 0
	for _, g := range games {
		if g.Outcome == model.OutcomeWon {
			won++
		}
	}
	return float64(won) / float64(len(games)) * 100
}

// Cleared returns the opened share of safe cells in percent.
func Cleared(g model.GameAggregate) float64 {
	if g.SafeCells <= 0 {
		return 0
	}
	return float64(g.OpenedCells) / float64(g.SafeCells) * 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMaxSingle(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Streak renders outcomes as W and L, most recent last.
func Streak(games []model.GameAggregate, n int) string {
	if n > 0 && len(games) > n {
		games = games[len(games)-n:]
	}
	var b strings.Builder
	for _, g := range games {
		if g.Outcome == model.OutcomeWon {
			b.WriteByte('W')
		} else {
			b.WriteByte('L')
		}
	}
	return b.String()
}

// RenderSummary prints a summary for games.
func RenderSummary(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	won := 0
	best := 0
	var winTotal, cleared float64
	for _, g := range games {
		cleared += Cleared(g)
		if g.Outcome != model.OutcomeWon {
			continue
		}
		won++
		winTotal += float64(g.ElapsedSeconds)
		if best == 0 || g.ElapsedSeconds < best {
			best = g.ElapsedSeconds
		}
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", len(games)),
		fmt.Sprintf("Won: %d", won),
		fmt.Sprintf("Win Rate: %.2f%%", WinRate(games)),
		fmt.Sprintf("Avg Cleared: %.2f%%", cleared/float64(len(games))),
	}
	if won > 0 {
		lines = append(lines,
			fmt.Sprintf("Best Time: %s", FormatClock(best)),
			fmt.Sprintf("Avg Win Time: %s", FormatClock(int(math.Round(winTotal/float64(won))))),
		)
	}
	lines = append(lines, fmt.Sprintf("Recent: %s", Streak(games, 20)), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints win rate and cleared curves.
func RenderCurves(w io.Writer, games []model.GameAggregate, window int) error {
	return RenderCurvesWithSize(w, games, window, 0, 10, false)
}

// RenderCurvesWithSize prints win rate and cleared curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, games []model.GameAggregate, window, totalWidth, height int, useColor bool) error {
	if len(games) == 0 {
		return nil
	}
	wins := make([]float64, len(games))
	cleared := make([]float64, len(games))
	for i, g := range games {
		if g.Outcome == model.OutcomeWon {
			wins[i] = 100
		}
		cleared[i] = Cleared(g)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Progress Curves", []Series{
		{Name: "Win Rate", Values: MovingAverage(wins, window)},
		{Name: "Cleared", Values: MovingAverage(cleared, window)},
	}, width, height, useColor)
}

// RenderPresetTable prints per-preset aggregates.
func RenderPresetTable(w io.Writer, aggs []model.PresetAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No preset stats found.")
		return err
	}
	rows := make([]model.PresetAggregate, len(aggs))
	copy(rows, aggs)
	// Most played first.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Played == rows[j].Played {
			return rows[i].Preset < rows[j].Preset
		}
		return rows[i].Played > rows[j].Played
	})

	if _, err := fmt.Fprintln(w, "Per-Preset (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Preset", "Played", "Won", "Win Rate", "Best", "Avg Win"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		rate := 0.0
		if r.Played > 0 {
			rate = float64(r.Won) / float64(r.Played) * 100
		}
		best, avg := "-", "-"
		if r.Won > 0 {
			best = FormatClock(r.BestSeconds)
			avg = FormatClock(int(math.Round(r.AvgSeconds)))
		}
		tableRows = append(tableRows, []string{
			r.Preset,
			fmt.Sprintf("%d", r.Played),
			fmt.Sprintf("%d", r.Won),
			fmt.Sprintf("%.2f%%", rate),
			best,
			avg,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTimeCurves prints win time curves per preset.
func RenderTimeCurves(w io.Writer, games []model.GameAggregate, presets []string, window int) error {
	return RenderTimeCurvesWithSize(w, games, presets, window, 0, 10, false)
}

// RenderTimeCurvesWithSize prints win time curves per preset sized to a given total width.
func RenderTimeCurvesWithSize(w io.Writer, games []model.GameAggregate, presets []string, window, totalWidth, height int, useColor bool) error {
	if len(presets) == 0 || len(games) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Win Times"); err != nil {
		return err
	}
	for _, preset := range presets {
		var times []float64
		for _, g := range games {
			if g.Preset == preset && g.Outcome == model.OutcomeWon {
				times = append(times, float64(g.ElapsedSeconds))
			}
		}
		if len(times) == 0 {
			continue
		}
		width := 0
		if totalWidth > 0 {
			width = PlotWidthFor(totalWidth)
		}
		if err := PlotSeriesWithColor(w, fmt.Sprintf("Preset %s %s", preset, Sparkline(times)), []Series{
			{Name: "Seconds", Values: MovingAverage(times, window)},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}
