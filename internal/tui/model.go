// Package tui provides the Bubble Tea Minesweeper board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimines/internal/game"
	"github.com/verte-zerg/tuimines/internal/minefield"
	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/prefs"
	"github.com/verte-zerg/tuimines/internal/savefile"
	statsPkg "github.com/verte-zerg/tuimines/internal/stats"
	"github.com/verte-zerg/tuimines/internal/store"
)

type tickMsg time.Time

// pendingAction is what runs once the save prompt is answered.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionNewGame
	actionLoad
	actionQuit
)

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	wonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	lostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// Model implements the Bubble Tea board UI.
type Model struct {
	session  *game.Session
	store    *store.Store
	prefs    *prefs.Manager
	savePath string

	keys       keyMap
	promptKeys promptKeys
	help       help.Model

	width  int
	height int

	cursorRow int
	cursorCol int
	fresh     map[minefield.Coordinate]bool
	status    string
	pending   pendingAction
	nextCfg   *model.Config

	bestSeconds int
	played      int
	won         int
}

// NewModel constructs a board TUI model. st and pm may be nil.
func NewModel(cfg model.Config, st *store.Store, pm *prefs.Manager, gen game.FieldGenerator) *Model {
	m := &Model{
		store:      st,
		prefs:      pm,
		savePath:   cfg.SavePath,
		keys:       defaultKeyMap(),
		promptKeys: defaultPromptKeys(),
		help:       help.New(),
		fresh:      map[minefield.Coordinate]bool{},
	}
	if pm != nil {
		m.help.ShowAll = pm.Get().FullHelp
	}
	m.session = game.NewSession(cfg, gen, m)
	m.loadFooterStats()
	return m
}

// Resume loads the saved game before the program starts.
func (m *Model) Resume(bounds savefile.Bounds) error {
	if err := m.session.Load(m.savePath, bounds); err != nil {
		return err
	}
	m.status = "Game loaded."
	return nil
}

// CellChanged implements game.Observer.
func (m *Model) CellChanged(c minefield.Coordinate) {
	m.fresh[c] = true
}

// GameEnded implements game.Observer.
func (m *Model) GameEnded(outcome model.Outcome) {
	if outcome == model.OutcomeWon {
		m.status = wonStyle.Render("You win!")
	} else {
		m.status = lostStyle.Render("Boom! You lose.")
	}
	res, ok := m.session.Result()
	if !ok {
		return
	}
	m.played++
	if outcome == model.OutcomeWon {
		m.won++
	}
	if m.store == nil {
		return
	}
	if _, err := m.store.InsertGame(context.Background(), res); err != nil {
		logErrf("failed to record game: %v\n", err)
		return
	}
	if outcome == model.OutcomeWon && (m.bestSeconds == 0 || res.ElapsedSeconds < m.bestSeconds) {
		m.bestSeconds = res.ElapsedSeconds
		m.status = wonStyle.Render("You win! New best time.")
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.session.Tick()
		return m, tick()
	case tea.KeyMsg:
		if m.pending != actionNone {
			return m.updatePrompt(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.request(actionQuit)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Click):
		m.click()
	case key.Matches(msg, m.keys.FlagMode):
		m.session.ToggleFlagMode()
		m.status = ""
	case key.Matches(msg, m.keys.NewGame):
		return m.request(actionNewGame)
	case key.Matches(msg, m.keys.Preset):
		p := model.Presets[int(msg.String()[0]-'1')]
		cfg := m.session.Config()
		cfg.Rows, cfg.Cols, cfg.Mines = p.Rows, p.Cols, p.Mines
		m.nextCfg = &cfg
		return m.request(actionNewGame)
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Load):
		return m.request(actionLoad)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		if m.prefs != nil {
			m.prefs.SetFullHelp(m.help.ShowAll)
		}
	}
	return m, nil
}

// request runs action now, or asks first when unsaved progress would be lost.
func (m *Model) request(action pendingAction) (tea.Model, tea.Cmd) {
	if m.session.NeedsSavePrompt() {
		m.pending = action
		return m, nil
	}
	return m.perform(action)
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.pending
	switch {
	case key.Matches(msg, m.promptKeys.Yes):
		m.pending = actionNone
		if !m.save() {
			return m, nil
		}
		return m.perform(action)
	case key.Matches(msg, m.promptKeys.No):
		m.pending = actionNone
		return m.perform(action)
	case key.Matches(msg, m.promptKeys.Cancel):
		m.pending = actionNone
		m.nextCfg = nil
	}
	return m, nil
}

func (m *Model) perform(action pendingAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionQuit:
		m.persistPrefs()
		return m, tea.Quit
	case actionNewGame:
		if m.nextCfg != nil {
			m.session.SetConfig(*m.nextCfg)
			m.nextCfg = nil
		}
		m.session.NewGame()
		m.resetBoard()
		m.status = ""
	case actionLoad:
		m.load()
	}
	return m, nil
}

func (m *Model) click() {
	clear(m.fresh)
	err := m.session.Click(m.cursorRow, m.cursorCol)
	switch {
	case errors.Is(err, game.ErrFirstMoveFlag):
		m.status = "The first move must open a cell. Press f to leave flag mode."
	case err != nil:
		m.status = fmt.Sprintf("Cannot start game: %v", err)
	}
}

func (m *Model) save() bool {
	err := m.session.Save(m.savePath)
	switch {
	case errors.Is(err, game.ErrNothingToSave):
		m.status = "Nothing to save."
		return false
	case err != nil:
		m.status = fmt.Sprintf("Save failed: %v", err)
		return false
	}
	m.status = "Game saved."
	return true
}

func (m *Model) load() {
	err := m.session.Load(m.savePath, m.displayBounds())
	switch {
	case errors.Is(err, savefile.ErrFileUnavailable):
		m.status = "Cannot open the save file."
	case errors.Is(err, savefile.ErrReading):
		m.status = "Error reading file!"
	case err != nil:
		m.status = fmt.Sprintf("Load failed: %v", err)
	default:
		m.resetBoard()
		m.status = "Game loaded."
	}
}

// displayBounds sizes the board to the terminal minus the rendered chrome.
func (m *Model) displayBounds() savefile.Bounds {
	return boundsFor(m.width, m.height, m.chromeHeight())
}

// chromeHeight counts the header, status and footer lines. The record line
// is reserved even before any game is played.
func (m *Model) chromeHeight() int {
	height := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderStatus()) + lipgloss.Height(m.renderFooter())
	if m.played == 0 {
		height++
	}
	return height
}

func (m *Model) resetBoard() {
	clear(m.fresh)
	m.cursorRow = min(m.cursorRow, m.session.Rows()-1)
	m.cursorCol = min(m.cursorCol, m.session.Cols()-1)
	m.loadFooterStats()
}

func (m *Model) moveCursor(dRow, dCol int) {
	rows, cols := m.session.Rows(), m.session.Cols()
	m.cursorRow = (m.cursorRow + dRow + rows) % rows
	m.cursorCol = (m.cursorCol + dCol + cols) % cols
}

func (m *Model) persistPrefs() {
	if m.prefs == nil {
		return
	}
	cfg := m.session.Config()
	m.prefs.SetShape(cfg.Rows, cfg.Cols, cfg.Mines)
	if err := m.prefs.Save(); err != nil {
		logErrf("failed to save prefs: %v\n", err)
	}
}

func (m *Model) loadFooterStats() {
	m.bestSeconds, m.played, m.won = 0, 0, 0
	if m.store == nil {
		return
	}
	preset := m.session.Config().Preset()
	aggs, err := m.store.ListGames(context.Background(), model.StatsConfig{Preset: preset})
	if err != nil {
		logErrf("failed to load game stats: %v\n", err)
		return
	}
	for _, g := range aggs {
		m.played++
		if g.Outcome != model.OutcomeWon {
			continue
		}
		m.won++
		if m.bestSeconds == 0 || g.ElapsedSeconds < m.bestSeconds {
			m.bestSeconds = g.ElapsedSeconds
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	board := m.renderBoard()
	lines := []string{m.renderHeader(), board, m.renderStatus(), m.renderFooter()}
	content := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderBoard() string {
	detonated, hasDetonated := m.session.Detonated()
	rows := make([]string, 0, m.session.Rows())
	for r := 0; r < m.session.Rows(); r++ {
		var b strings.Builder
		for c := 0; c < m.session.Cols(); c++ {
			loc := minefield.Coordinate{Row: r, Col: c}
			cell, known := m.session.Cell(r, c)
			b.WriteString(renderCell(cellView{
				cell:      cell,
				known:     known,
				detonated: hasDetonated && loc == detonated,
				fresh:     m.fresh[loc],
				cursor:    r == m.cursorRow && c == m.cursorCol && !m.session.Ended(),
			}))
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderHeader() string {
	cfg := m.session.Config()
	mode := "open"
	if m.session.FlagMode() {
		mode = flagStyle.Render("flag")
	}
	return fmt.Sprintf("%s %s  Mines %d  Time %s  Mode %s",
		cfg.Preset(), cfg.Shape(), m.session.AvailableFlags(), statsPkg.FormatClock(m.session.Elapsed()), mode)
}

func (m *Model) renderStatus() string {
	if m.pending != actionNone {
		return statusStyle.Render("Save the current game first?") + "  " + m.help.View(m.promptKeys)
	}
	return statusStyle.Render(m.status)
}

func (m *Model) renderFooter() string {
	segments := []string{m.help.View(m.keys)}
	if m.played > 0 {
		record := fmt.Sprintf("Played %d · Won %d", m.played, m.won)
		if m.bestSeconds > 0 {
			record += " · Best " + statsPkg.FormatClock(m.bestSeconds)
		}
		segments = append(segments, footerStyle.Render(record))
	}
	return strings.Join(segments, "\n")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
