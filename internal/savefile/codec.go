// Package savefile reads and writes in-progress games as line-oriented text.
//
// The format is:
//
//	<rows>:<cols>
//	<elapsedSeconds>
//	<cell> <cell> ... <cell>
//
// with one cell line per row. A cell token is A:F:O for non-mine cells
// (A adjacent mines 0-8, F flagged 0/1, O open 0/1) and -1:F:O for mines.
package savefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/tuimines/internal/minefield"
)

var (
	// ErrReading covers every malformed or out-of-bounds save file.
	ErrReading = errors.New("reading error")
	// ErrFileUnavailable is returned when the save file cannot be opened.
	ErrFileUnavailable = errors.New("save file unavailable")
)

const (
	numberTokenLen = 5
	mineTokenLen   = 6
)

// MaxDimension caps rows and columns even when Bounds is unbounded.
const MaxDimension = 1000

// Bounds limits the field shape a save may declare. Zero means no limit
// beyond MaxDimension.
type Bounds struct {
	MaxRows int
	MaxCols int
}

func (b Bounds) allows(rows, cols int) bool {
	if rows > MaxDimension || cols > MaxDimension {
		return false
	}
	if b.MaxRows > 0 && rows > b.MaxRows {
		return false
	}
	if b.MaxCols > 0 && cols > b.MaxCols {
		return false
	}
	return true
}

// Encode writes f and the elapsed seconds to w.
func Encode(w io.Writer, f *minefield.Field, elapsed int) error {
	if !f.HasGrid() {
		return fmt.Errorf("field has no mine layout")
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d:%d\n%d\n", f.Rows(), f.Cols(), elapsed); err != nil {
		return err
	}
	for _, row := range f.Snapshot() {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(strconv.Itoa(cell.AdjacentMines()))
			b.WriteByte(':')
			b.WriteString(boolDigit(cell.IsFlagged()))
			b.WriteByte(':')
			b.WriteString(boolDigit(cell.IsOpen()))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
		if _, err := bw.WriteString(b.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode parses a save from r. The returned field is complete or nil;
// every grammar violation wraps ErrReading.
func Decode(r io.Reader, bounds Bounds) (*minefield.Field, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header, ok := nextLine(scanner)
	if !ok {
		return nil, 0, readingErr(scanner, "missing header")
	}
	rows, cols, err := parseHeader(header)
	if err != nil {
		return nil, 0, err
	}
	if !bounds.allows(rows, cols) {
		return nil, 0, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrReading, rows, cols, bounds.MaxRows, bounds.MaxCols)
	}

	elapsedLine, ok := nextLine(scanner)
	if !ok {
		return nil, 0, readingErr(scanner, "missing elapsed time")
	}
	elapsed, err := parseElapsed(elapsedLine)
	if err != nil {
		return nil, 0, err
	}

	grid := make([][]minefield.Cell, 0, rows)
	mines := 0
	for r := 0; r < rows; r++ {
		line, ok := nextLine(scanner)
		if !ok {
			return nil, 0, readingErr(scanner, fmt.Sprintf("expected %d rows, got %d", rows, r))
		}
		row, rowMines, err := parseRow(line, r, cols)
		if err != nil {
			return nil, 0, err
		}
		mines += rowMines
		grid = append(grid, row)
	}
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			return nil, 0, fmt.Errorf("%w: more than %d rows", ErrReading, rows)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrReading, err)
	}

	field, err := minefield.New(rows, cols, mines)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrReading, err)
	}
	if err := field.SetMatrix(grid); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrReading, err)
	}
	if err := checkNumbers(field); err != nil {
		return nil, 0, err
	}
	return field, elapsed, nil
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimRight(scanner.Text(), "\r"), true
}

func readingErr(scanner *bufio.Scanner, msg string) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReading, msg, err)
	}
	return fmt.Errorf("%w: %s", ErrReading, msg)
}

func parseHeader(line string) (int, int, error) {
	parts := splitNonEmpty(line, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: header %q must be rows:cols", ErrReading, line)
	}
	rows, ok := parseCount(parts[0])
	if !ok || rows <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid row count %q", ErrReading, parts[0])
	}
	cols, ok := parseCount(parts[1])
	if !ok || cols <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid column count %q", ErrReading, parts[1])
	}
	return rows, cols, nil
}

func parseElapsed(line string) (int, error) {
	parts := strings.Fields(line)
	if len(parts) != 1 {
		return 0, fmt.Errorf("%w: elapsed line %q must hold one value", ErrReading, line)
	}
	elapsed, ok := parseCount(parts[0])
	if !ok {
		return 0, fmt.Errorf("%w: invalid elapsed time %q", ErrReading, parts[0])
	}
	return elapsed, nil
}

// parseCount accepts decimal digits only, no sign.
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseRow(line string, row, cols int) ([]minefield.Cell, int, error) {
	tokens := strings.Fields(line)
	if len(tokens) != cols {
		return nil, 0, fmt.Errorf("%w: row %d has %d cells, want %d", ErrReading, row, len(tokens), cols)
	}
	out := make([]minefield.Cell, 0, cols)
	mines := 0
	for col, token := range tokens {
		cell, err := parseCell(token, minefield.Coordinate{Row: row, Col: col})
		if err != nil {
			return nil, 0, err
		}
		if cell.IsMine() {
			mines++
		}
		out = append(out, cell)
	}
	return out, mines, nil
}

// checkToken validates the token shape: length, exactly one colon pattern
// and the allowed character set.
func checkToken(token string) bool {
	if len(token) < numberTokenLen || len(token) > mineTokenLen {
		return false
	}
	numberPattern := token[1] == ':' && token[3] == ':'
	minePattern := token[2] == ':' && token[4] == ':'
	if numberPattern == minePattern {
		return false
	}
	for i := 0; i < len(token); i++ {
		ch := token[i]
		switch {
		case ch == '-':
			if i != 0 {
				return false
			}
		case ch == ':':
		case ch >= '0' && ch <= '9':
		default:
			return false
		}
	}
	return true
}

func parseCell(token string, loc minefield.Coordinate) (minefield.Cell, error) {
	if !checkToken(token) {
		return minefield.Cell{}, fmt.Errorf("%w: bad cell %q at %d,%d", ErrReading, token, loc.Row, loc.Col)
	}
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return minefield.Cell{}, fmt.Errorf("%w: bad cell %q at %d,%d", ErrReading, token, loc.Row, loc.Col)
	}
	flagged, okFlag := parseBoolDigit(parts[1])
	open, okOpen := parseBoolDigit(parts[2])
	if !okFlag || !okOpen {
		return minefield.Cell{}, fmt.Errorf("%w: bad state in %q at %d,%d", ErrReading, token, loc.Row, loc.Col)
	}
	if flagged && open {
		return minefield.Cell{}, fmt.Errorf("%w: cell %d,%d both flagged and open", ErrReading, loc.Row, loc.Col)
	}

	if len(token) == mineTokenLen {
		if parts[0] != strconv.Itoa(minefield.MineSentinel) {
			return minefield.Cell{}, fmt.Errorf("%w: bad mine marker %q at %d,%d", ErrReading, parts[0], loc.Row, loc.Col)
		}
		if open {
			return minefield.Cell{}, fmt.Errorf("%w: open mine at %d,%d", ErrReading, loc.Row, loc.Col)
		}
		return minefield.NewMineCell(loc).WithState(flagged, open), nil
	}
	if len(parts[0]) != 1 || parts[0][0] < '0' || parts[0][0] > '8' {
		return minefield.Cell{}, fmt.Errorf("%w: bad count %q at %d,%d", ErrReading, parts[0], loc.Row, loc.Col)
	}
	n := int(parts[0][0] - '0')
	return minefield.NewNumberCell(loc, n).WithState(flagged, open), nil
}

// checkNumbers verifies stored counts against the mine layout.
func checkNumbers(f *minefield.Field) error {
	for _, row := range f.Snapshot() {
		for _, cell := range row {
			n, ok := cell.Adjacent()
			if !ok {
				continue
			}
			if want := f.MinesAround(cell.Location()); n != want {
				loc := cell.Location()
				return fmt.Errorf("%w: cell %d,%d stores %d adjacent mines, layout has %d", ErrReading, loc.Row, loc.Col, n, want)
			}
		}
	}
	return nil
}

func parseBoolDigit(s string) (bool, bool) {
	switch s {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}

func boolDigit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
