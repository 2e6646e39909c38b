package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	terminalWidthBackup = 80
)

// dashPeriods gives each series its own dash pattern: {period, on}.
var dashPeriods = [][2]int{{1, 1}, {6, 3}, {4, 1}, {8, 3}}

var dashNames = []string{"solid", "dashed", "dotted", "dashdot"}

var seriesStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
}

// canvas is a braille dot grid: each cell holds 2x4 dots.
type canvas struct {
	width  int
	height int
	cells  [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) set(x, y int) {
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cy >= c.height || cx >= c.width {
		return
	}
	c.cells[cy][cx] |= brailleDotMask(x%2, y%4)
}

// PlotSeries renders a multi-line text plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plotSeries(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a multi-line text plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, width, height, forceColor)
}

func plotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	canvases := make([]*canvas, len(kept))
	ranges := make([][2]float64, len(kept))
	for si, s := range kept {
		values := resampleSeries(s.Values, width)
		lo, hi := seriesMinMaxSingle(values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		ranges[si] = [2]float64{lo, hi}
		c := newCanvas(width, height)
		dash := dashPeriods[si%len(dashPeriods)]
		plot := func(x, y int) {
			if x%dash[0] < dash[1] {
				c.set(x, y)
			}
		}
		prevX, prevY := -1, -1
		for x, v := range values {
			px, py := x*2, valueToRow(v, lo, hi, height*4)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, plot)
			} else {
				plot(px, py)
			}
			prevX, prevY = px, py
		}
		canvases[si] = c
	}

	useColor := shouldUseColor(w, forceColor)
	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	out.WriteString(scaleNote + "\n")
	for i, s := range kept {
		out.WriteString(fmt.Sprintf("%s: min=%.2f max=%.2f\n", s.Name, ranges[i][0], ranges[i][1]))
	}
	labelWidth := max(len(axisLabelTop), len(axisLabelBottom))
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisLabelTop
		case height - 1:
			label = axisLabelBottom
		}
		out.WriteString(fmt.Sprintf("%*s%s", labelWidth, label, axisSeparator))
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, c := range canvases {
				if m := c.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := string(brailleFromMask(mask))
			if useColor && owner >= 0 {
				ch = seriesStyles[owner%len(seriesStyles)].Render(ch)
			}
			out.WriteString(ch)
		}
		out.WriteByte('\n')
	}
	out.WriteString(renderLegend(kept, useColor) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		// Average the bucket of source points behind each column.
		for i := range out {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(width-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func seriesMinMaxSingle(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func valueToRow(v, lo, hi float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(height-1)))
	return max(0, min(row, height-1))
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, dashNames[i%len(dashNames)])
		if useColor {
			label = seriesStyles[i%len(seriesStyles)].Render(label)
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func brailleDotMask(x, y int) uint8 {
	if y == 3 {
		return 0x40 << x
	}
	return 1 << (y + 3*x)
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
