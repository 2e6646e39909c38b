// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Preset is a named board shape.
type Preset struct {
	Name  string
	Rows  int
	Cols  int
	Mines int
}

// Built-in presets, smallest first.
var Presets = []Preset{
	{Name: "beginner", Rows: 9, Cols: 9, Mines: 10},
	{Name: "intermediate", Rows: 16, Cols: 16, Mines: 40},
	{Name: "expert", Rows: 16, Cols: 30, Mines: 99},
}

// CustomPreset names boards that match no built-in preset.
const CustomPreset = "custom"

// LookupPreset returns the built-in preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetName returns the preset matching a shape or CustomPreset.
func PresetName(rows, cols, mines int) string {
	for _, p := range Presets {
		if p.Rows == rows && p.Cols == cols && p.Mines == mines {
			return p.Name
		}
	}
	return CustomPreset
}

// Config defines game settings.
type Config struct {
	Rows     int
	Cols     int
	Mines    int
	SavePath string
}

// Preset returns the preset name of the configured shape.
func (c Config) Preset() string {
	return PresetName(c.Rows, c.Cols, c.Mines)
}

// Shape renders the board shape as rows x cols / mines.
func (c Config) Shape() string {
	return fmt.Sprintf("%dx%d/%d", c.Rows, c.Cols, c.Mines)
}

// Outcome is how a finished game ended.
type Outcome string

// Game outcomes.
const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// GameResult captures a finished game.
type GameResult struct {
	StartedAt      time.Time
	EndedAt        time.Time
	Rows           int
	Cols           int
	Mines          int
	Outcome        Outcome
	ElapsedSeconds int
	OpenedCells    int
	FlagsPlaced    int
	Resumed        bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Preset      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// GameAggregate summarizes a stored game for reporting.
type GameAggregate struct {
	GameID         int64
	EndedAt        time.Time
	Preset         string
	Outcome        Outcome
	ElapsedSeconds int
	OpenedCells    int
	SafeCells      int
}

// PresetAggregate aggregates games for one preset.
type PresetAggregate struct {
	Preset      string
	Played      int
	Won         int
	BestSeconds int
	AvgSeconds  float64
}
