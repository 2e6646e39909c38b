// Package statsui provides the Bubble Tea game history interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimines/internal/model"
	"github.com/verte-zerg/tuimines/internal/stats"
	"github.com/verte-zerg/tuimines/internal/store"
)

const (
	tabOverview = iota
	tabPresets
	tabWinTimes
)

const (
	plotHeight   = 10
	curvePresets = 3
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A8CC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	presetTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Presets", "Win Times"},
	}
	m.initInputs()
	m.presetTable = table.New(
		table.WithColumns(presetColumns()),
		table.WithStyles(presetTableStyles()),
	)
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		}
		if m.activeTab == tabPresets {
			var cmd tea.Cmd
			m.presetTable, cmd = m.presetTable.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderFilterSummary(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Preset: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Curve window: "),
	}
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(m.cfg.Preset)
	since := ""
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	m.filterInputs[1].SetValue(since)
	last := ""
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	m.filterInputs[2].SetValue(last)
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.presetTable.SetWidth(m.width)
	// The header row and its border take two lines.
	m.presetTable.SetHeight(max(1, bodyHeight-2))
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabPresets {
		m.presetTable.Focus()
	} else {
		m.presetTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	preset := m.cfg.Preset
	if preset == "" {
		preset = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: preset=%s  since=%s  last=%s  window=%d", preset, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	if m.activeTab == tabPresets {
		if len(m.report.PresetAggsAll) == 0 {
			return "No games found."
		}
		return tableMutedStyle.Render(m.presetTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.presetTable.SetRows(presetRows(report.PresetAggsAll))
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Games, m.cfg.CurveWindow, width))
	m.viewports[tabWinTimes].SetContent(renderWinTimes(m.report, m.cfg.CurveWindow, width))
}

func renderOverview(games []model.GameAggregate, window, width int) string {
	if len(games) == 0 {
		return "No games found."
	}
	won, best := 0, 0
	for _, g := range games {
		if g.Outcome != model.OutcomeWon {
			continue
		}
		won++
		if best == 0 || g.ElapsedSeconds < best {
			best = g.ElapsedSeconds
		}
	}
	bestLabel := "-"
	if won > 0 {
		bestLabel = stats.FormatClock(best)
	}
	cards := []string{
		metricCard("Games", strconv.Itoa(len(games))),
		metricCard("Won", strconv.Itoa(won)),
		metricCard("Win Rate", fmt.Sprintf("%.1f%%", stats.WinRate(games))),
		metricCard("Best Time", bestLabel),
		metricCard("Recent", stats.Streak(games, 10)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4]),
		)
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, games, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderWinTimes(report stats.Report, window, width int) string {
	presets := stats.TopPresetsByPlayed(report.PresetAggsAll, curvePresets)
	if len(presets) == 0 {
		return "No games found."
	}
	var b strings.Builder
	for _, preset := range presets {
		best := report.BestTimes[preset]
		if len(best) == 0 {
			continue
		}
		b.WriteString(cardValueStyle.Render("Best "+preset) + "\n")
		for i, g := range best {
			b.WriteString(fmt.Sprintf("%2d. %s  %s\n", i+1, stats.FormatClock(g.ElapsedSeconds), g.EndedAt.Local().Format(time.DateOnly)))
		}
		b.WriteString("\n")
	}
	var buf bytes.Buffer
	if err := stats.RenderTimeCurvesWithSize(&buf, report.Games, presets, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render win times: %v", err)
	}
	b.WriteString(buf.String())
	if strings.TrimSpace(b.String()) == "" {
		return "No wins yet."
	}
	return strings.TrimRight(b.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func presetColumns() []table.Column {
	return []table.Column{
		{Title: "Preset", Width: 12},
		{Title: "Played", Width: 7},
		{Title: "Won", Width: 6},
		{Title: "Win Rate", Width: 9},
		{Title: "Best", Width: 9},
		{Title: "Avg Win", Width: 9},
	}
}

func presetRows(aggs []model.PresetAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		rate := 0.0
		if agg.Played > 0 {
			rate = float64(agg.Won) / float64(agg.Played) * 100
		}
		best, avg := "-", "-"
		if agg.Won > 0 {
			best = stats.FormatClock(agg.BestSeconds)
			avg = stats.FormatClock(int(agg.AvgSeconds + 0.5))
		}
		rows = append(rows, table.Row{
			agg.Preset,
			strconv.Itoa(agg.Played),
			strconv.Itoa(agg.Won),
			fmt.Sprintf("%.1f%%", rate),
			best,
			avg,
		})
	}
	return rows
}

func presetTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
