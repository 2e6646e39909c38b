package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "Win Rate", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "Cleared", Values: []float64{1, 1, 2, 3, 4}},
	}, 5, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{0, 2, 4, 6}, 2)
	if len(down) != 2 || down[0] != 1 || down[1] != 5 {
		t.Fatalf("expected bucket averages [1 5], got %v", down)
	}
	up := resampleSeries([]float64{0, 10}, 3)
	if len(up) != 3 || up[1] != 5 {
		t.Fatalf("expected interpolated midpoint, got %v", up)
	}
	flat := resampleSeries([]float64{7}, 4)
	for _, v := range flat {
		if v != 7 {
			t.Fatalf("expected constant series, got %v", flat)
		}
	}
}

func TestBrailleDotMaskCoversCell(t *testing.T) {
	var mask uint8
	for x := 0; x < 2; x++ {
		for y := 0; y < 4; y++ {
			mask |= brailleDotMask(x, y)
		}
	}
	if brailleFromMask(mask) != '⣿' {
		t.Fatalf("expected full braille cell, got %q", brailleFromMask(mask))
	}
}

func TestPlotWidthLeavesRoomForAxis(t *testing.T) {
	axis := len([]rune(axisLabelTop + axisSeparator))
	if got := PlotWidthFor(60); got != 60-axis {
		t.Fatalf("expected %d columns, got %d", 60-axis, got)
	}
	for _, total := range []int{-1, 0, axis + 1} {
		if got := PlotWidthFor(total); got != minPlotWidth {
			t.Fatalf("total %d: expected floor %d, got %d", total, minPlotWidth, got)
		}
	}
}
