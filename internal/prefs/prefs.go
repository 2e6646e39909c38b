// Package prefs persists small UI preferences between runs.
package prefs

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuimines/internal/model"
)

const (
	prefsObject   = "prefs"
	prefsProperty = "ui.yaml"
)

// Prefs are the remembered UI choices.
type Prefs struct {
	Rows     int  `yaml:"rows"`
	Cols     int  `yaml:"cols"`
	Mines    int  `yaml:"mines"`
	FullHelp bool `yaml:"fullHelp"`
}

// Defaults returns the beginner board with short help.
func Defaults() Prefs {
	p := model.Presets[0]
	return Prefs{Rows: p.Rows, Cols: p.Cols, Mines: p.Mines}
}

// Manager loads and saves Prefs. A nil gdata manager keeps prefs in memory only.
type Manager struct {
	data  *gdata.Manager
	prefs Prefs
}

// Open opens the per-user gdata storage for appName. If storage is unavailable
// the returned manager works in memory and the error explains why.
func Open(appName string) (*Manager, error) {
	data, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		m, _ := NewManager(nil)
		return m, fmt.Errorf("failed to open prefs storage: %w", err)
	}
	return NewManager(data)
}

// NewManager wraps a gdata manager and loads stored prefs.
func NewManager(data *gdata.Manager) (*Manager, error) {
	m := &Manager{data: data, prefs: Defaults()}
	if err := m.Load(); err != nil {
		return m, err
	}
	return m, nil
}

// Load reads stored prefs. Missing data keeps the defaults.
func (m *Manager) Load() error {
	if m.data == nil || !m.data.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}
	raw, err := m.data.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("failed to load prefs: %w", err)
	}
	loaded := Defaults()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to decode prefs: %w", err)
	}
	if loaded.Rows <= 0 || loaded.Cols <= 0 || loaded.Mines < 0 || loaded.Mines >= loaded.Rows*loaded.Cols {
		def := Defaults()
		loaded.Rows, loaded.Cols, loaded.Mines = def.Rows, def.Cols, def.Mines
	}
	m.prefs = loaded
	return nil
}

// Save writes prefs. It is a no-op without storage.
func (m *Manager) Save() error {
	if m.data == nil {
		return nil
	}
	raw, err := yaml.Marshal(m.prefs)
	if err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}
	if err := m.data.SaveObjectProp(prefsObject, prefsProperty, raw); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}
	return nil
}

// Get returns the current prefs.
func (m *Manager) Get() Prefs {
	return m.prefs
}

// SetShape remembers the last played board.
func (m *Manager) SetShape(rows, cols, mines int) {
	m.prefs.Rows, m.prefs.Cols, m.prefs.Mines = rows, cols, mines
}

// SetFullHelp remembers whether the full key help is shown.
func (m *Manager) SetFullHelp(on bool) {
	m.prefs.FullHelp = on
}
