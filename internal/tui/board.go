package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuimines/internal/minefield"
	"github.com/verte-zerg/tuimines/internal/savefile"
)

const (
	glyphClosed    = "·"
	glyphFlag      = "⚑"
	glyphMine      = "*"
	glyphDetonated = "✸"
	glyphWrongFlag = "✗"
	glyphEmpty     = " "
)

var (
	closedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	flagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mineStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	detonatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	freshStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#2A2A2A"))
	numberStyles   = []lipgloss.Style{
		lipgloss.NewStyle(),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#4D8CFF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#2F54EB")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#A8071A")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#13C2C2")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#D9D9D9")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	}
)

// cellWidth is the widest glyph plus one column of spacing.
var cellWidth = func() int {
	w := 1
	for _, g := range []string{glyphClosed, glyphFlag, glyphMine, glyphDetonated, glyphWrongFlag, "8"} {
		w = max(w, runewidth.StringWidth(g))
	}
	return w + 1
}()

// maxChromeLines is the tallest header, status and footer: full help plus
// the record line.
var maxChromeLines = func() int {
	tallest := 0
	for _, column := range defaultKeyMap().FullHelp() {
		tallest = max(tallest, len(column))
	}
	return 1 + 1 + tallest + 1
}()

// DisplayBounds returns the largest board that fits a terminal of the given
// size with full help shown. A non-positive size means the terminal is unknown
// and nothing is bounded.
func DisplayBounds(width, height int) savefile.Bounds {
	return boundsFor(width, height, maxChromeLines)
}

func boundsFor(width, height, chrome int) savefile.Bounds {
	if width <= 0 || height <= 0 {
		return savefile.Bounds{}
	}
	return savefile.Bounds{
		MaxRows: max(1, height-chrome),
		MaxCols: max(1, width/cellWidth),
	}
}

type cellView struct {
	cell      minefield.Cell
	known     bool
	detonated bool
	fresh     bool
	cursor    bool
}

func glyphFor(v cellView) (string, lipgloss.Style) {
	c := v.cell
	switch {
	case !v.known:
		return glyphClosed, closedStyle
	case v.detonated:
		return glyphDetonated, detonatedStyle
	case c.IsFlagged() && c.IsRevealed() && !c.IsMine():
		return glyphWrongFlag, detonatedStyle
	case c.IsFlagged():
		return glyphFlag, flagStyle
	case c.IsMine() && c.IsRevealed():
		return glyphMine, mineStyle
	case c.IsOpen() || c.IsRevealed():
		n, _ := c.Adjacent()
		if n == 0 {
			return glyphEmpty, numberStyles[0]
		}
		return string(rune('0' + n)), numberStyles[n]
	default:
		return glyphClosed, closedStyle
	}
}

func renderCell(v cellView) string {
	glyph, style := glyphFor(v)
	if v.fresh {
		style = style.Inherit(freshStyle)
	}
	if v.cursor {
		style = style.Reverse(true)
	}
	padding := strings.Repeat(" ", cellWidth-runewidth.StringWidth(glyph))
	return style.Render(glyph) + padding
}
