// Package main provides the CLI entrypoint for tuimines.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuimines/internal/config"
	"github.com/verte-zerg/tuimines/internal/generator"
	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/prefs"
	"github.com/verte-zerg/tuimines/internal/savefile"
	"github.com/verte-zerg/tuimines/internal/stats"
	"github.com/verte-zerg/tuimines/internal/statsui"
	"github.com/verte-zerg/tuimines/internal/store"
	"github.com/verte-zerg/tuimines/internal/tui"
)

const (
	appName            = "tuimines"
	defaultCurveWindow = 10
	maxSide            = 99
)

var (
	playPreset   string
	playRows     int
	playCols     int
	playMines    int
	playSavePath string
	playResume   bool

	statsPreset      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	checkNoBounds bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "TUI Minesweeper",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	beginner := model.Presets[0]
	rootCmd.Flags().StringVar(&playPreset, "preset", "", "board preset: beginner, intermediate or expert")
	rootCmd.Flags().IntVar(&playRows, "rows", beginner.Rows, "board rows")
	rootCmd.Flags().IntVar(&playCols, "cols", beginner.Cols, "board columns")
	rootCmd.Flags().IntVar(&playMines, "mines", beginner.Mines, "number of mines")
	rootCmd.Flags().StringVar(&playSavePath, "save-path", config.DefaultSavePath(), "saved game location")
	rootCmd.Flags().BoolVar(&playResume, "resume", false, "continue the saved game")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pm, err := prefs.Open(appName)
	if err != nil {
		logErrf("%v; preferences will not be kept\n", err)
	}
	if !shapeChanged(cmd) && fileCfg.Game.Preset == nil && fileCfg.Game.Rows == nil {
		last := pm.Get()
		playRows, playCols, playMines = last.Rows, last.Cols, last.Mines
	}
	applyStringConfig(cmd, "preset", &playPreset, fileCfg.Game.Preset)
	applyIntConfig(cmd, "rows", &playRows, fileCfg.Game.Rows)
	applyIntConfig(cmd, "cols", &playCols, fileCfg.Game.Cols)
	applyIntConfig(cmd, "mines", &playMines, fileCfg.Game.Mines)
	applyStringConfig(cmd, "save-path", &playSavePath, fileCfg.Game.SavePath)

	fromFile := map[string]bool{
		"rows":  fileCfg.Game.Rows != nil,
		"cols":  fileCfg.Game.Cols != nil,
		"mines": fileCfg.Game.Mines != nil,
	}
	explicit := func(name string) bool {
		return cmd.Flags().Changed(name) || fromFile[name]
	}
	cfg, err := resolveGameConfig(explicit, playPreset, playRows, playCols, playMines, playSavePath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	board := tui.NewModel(cfg, st, pm, generator.New())
	if playResume {
		if err := board.Resume(terminalBounds()); err != nil {
			return fmt.Errorf("failed to resume game: %w", err)
		}
	}
	program := tea.NewProgram(board, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveGameConfig applies the preset, then any explicit rows, cols or mines.
func resolveGameConfig(explicit func(name string) bool, preset string, rows, cols, mines int, savePath string) (model.Config, error) {
	cfg := model.Config{Rows: rows, Cols: cols, Mines: mines, SavePath: savePath}
	if preset = strings.TrimSpace(preset); preset != "" {
		p, ok := model.LookupPreset(preset)
		if !ok {
			return model.Config{}, fmt.Errorf("unknown preset %q", preset)
		}
		cfg.Rows, cfg.Cols, cfg.Mines = p.Rows, p.Cols, p.Mines
		if explicit("rows") {
			cfg.Rows = rows
		}
		if explicit("cols") {
			cfg.Cols = cols
		}
		if explicit("mines") {
			cfg.Mines = mines
		}
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Rows <= 0 || cfg.Rows > maxSide {
		return fmt.Errorf("--rows must be between 1 and %d", maxSide)
	}
	if cfg.Cols <= 0 || cfg.Cols > maxSide {
		return fmt.Errorf("--cols must be between 1 and %d", maxSide)
	}
	if cfg.Mines < 0 {
		return fmt.Errorf("--mines must be >= 0")
	}
	if cfg.Mines >= cfg.Rows*cfg.Cols {
		return fmt.Errorf("--mines must be less than rows*cols (%d)", cfg.Rows*cfg.Cols)
	}
	if cfg.SavePath == "" {
		return fmt.Errorf("--save-path must not be empty")
	}
	return nil
}

func shapeChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"preset", "rows", "cols", "mines"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func terminalBounds() savefile.Bounds {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return savefile.Bounds{}
	}
	return tui.DisplayBounds(width, height)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show game history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPreset, "preset", "", "preset filter (beginner, intermediate, expert, custom)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Preset:      strings.ToLower(strings.TrimSpace(statsPreset)),
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return printReport(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printReport(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := stats.RenderSummary(w, report.Games); err != nil {
		return err
	}
	if len(report.Games) == 0 {
		return nil
	}
	if err := stats.RenderPresetTable(w, report.PresetAggsWindow); err != nil {
		return err
	}
	if err := stats.RenderCurves(w, report.Games, cfg.CurveWindow); err != nil {
		return err
	}
	return stats.RenderTimeCurves(w, report.Games, stats.TopPresetsByPlayed(report.PresetAggsAll, 3), cfg.CurveWindow)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Validate a saved game",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheckCmd,
	}
	cmd.Flags().BoolVar(&checkNoBounds, "no-bounds", false, "skip the terminal size limit")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	path := config.DefaultSavePath()
	if len(args) == 1 {
		path = args[0]
	}
	bounds := savefile.Bounds{}
	if !checkNoBounds {
		bounds = terminalBounds()
	}
	field, elapsed, err := savefile.Load(path, bounds)
	if err != nil {
		if errors.Is(err, savefile.ErrReading) {
			return fmt.Errorf("invalid save %s: %w", path, err)
		}
		return err
	}
	open, flagged := field.Counts()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %dx%d, %d mines, %d open, %d flagged, %s elapsed\n",
		path, model.PresetName(field.Rows(), field.Cols(), field.Mines()), field.Rows(), field.Cols(),
		field.Mines(), open, flagged, stats.FormatClock(elapsed))
	return err
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	beginner := model.Presets[0]
	return fmt.Sprintf(`# tuimines configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# preset = "beginner"     # beginner, intermediate or expert
# rows = %d                # Board rows (overrides preset)
# cols = %d                # Board columns (overrides preset)
# mines = %d              # Number of mines (overrides preset)
# save-path = %q
`,
		beginner.Rows,
		beginner.Cols,
		beginner.Mines,
		config.DefaultSavePath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
