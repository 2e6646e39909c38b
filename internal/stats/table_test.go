package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Preset", "Played", "Best"}
	rows := [][]string{
		{"beginner", "12", "00:00:41"},
		{"expert", "3", "-"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Preset   Played     Best" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "beginner     12 00:00:41" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "expert        3        -" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"地雷", "1"}}, map[int]bool{1: true})
	if lines[1] != "地雷 1" {
		t.Fatalf("expected double-width runes to fill the column, got %q", lines[1])
	}
}
