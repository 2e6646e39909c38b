package savefile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/tuimines/internal/minefield"
)

// Save writes the game to path atomically: the previous save stays intact
// unless the new one is fully written.
func Save(path string, f *minefield.Field, elapsed int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	tmpFile, err := os.CreateTemp(dir, "save-*.txt")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := Encode(writer, f, elapsed); err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	return nil
}

// Load reads and validates the save at path.
func Load(path string, bounds Bounds) (*minefield.Field, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only save.
			_ = cerr
		}
	}()
	return Decode(file, bounds)
}

// Exists reports whether a save file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
