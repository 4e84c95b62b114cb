package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/sheetlens-cli/internal/analysis"
	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a preset or chart reference matches nothing.
var ErrNotFound = errors.New("not found")

// Workspace holds the saved presets and custom charts, persisted as one JSON file.
type Workspace struct {
	Presets   []FilterPreset               `json:"presets"`
	Charts    []analysis.CustomChartConfig `json:"charts"`
	UpdatedAt time.Time                    `json:"updated_at"`

	// Not serialized: on-disk location of the workspace file.
	path string `json:"-"`
}

// Load reads the workspace at path. A missing file yields an empty workspace.
func Load(path string) (*Workspace, error) {
	w := &Workspace{Presets: []FilterPreset{}, Charts: []analysis.CustomChartConfig{}, path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return w, nil
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	if err := json.Unmarshal(b, w); err != nil {
		return nil, fmt.Errorf("parse workspace %s: %w", path, err)
	}
	if w.Presets == nil {
		w.Presets = []FilterPreset{}
	}
	if w.Charts == nil {
		w.Charts = []analysis.CustomChartConfig{}
	}
	return w, nil
}

// Path returns the on-disk workspace file path.
func (w *Workspace) Path() string { return w.path }

// Save writes the workspace using an atomic write.
func (w *Workspace) Save() error {
	if w.path == "" {
		return errors.New("workspace path not set")
	}
	w.UpdatedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(w.path, data)
}

// SavePreset stores a deep copy of state under name, newest first.
func (w *Workspace) SavePreset(name string, state filter.State) (FilterPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FilterPreset{}, errors.New("preset name is required")
	}
	p := FilterPreset{
		ID:        "preset_" + uuid.NewString(),
		Name:      name,
		Filters:   state.Clone(),
		CreatedAt: time.Now().UTC(),
	}
	w.Presets = append([]FilterPreset{p}, w.Presets...)
	return p, nil
}

// Preset finds a preset by id, then by case-insensitive name. The returned
// filters are a copy.
func (w *Workspace) Preset(ref string) (FilterPreset, error) {
	i := w.presetIndex(ref)
	if i < 0 {
		return FilterPreset{}, fmt.Errorf("preset %q: %w", ref, ErrNotFound)
	}
	p := w.Presets[i]
	p.Filters = p.Filters.Clone()
	return p, nil
}

// DeletePreset removes the preset ref resolves to.
func (w *Workspace) DeletePreset(ref string) (FilterPreset, error) {
	i := w.presetIndex(ref)
	if i < 0 {
		return FilterPreset{}, fmt.Errorf("preset %q: %w", ref, ErrNotFound)
	}
	p := w.Presets[i]
	w.Presets = append(w.Presets[:i:i], w.Presets[i+1:]...)
	return p, nil
}

func (w *Workspace) presetIndex(ref string) int {
	ref = strings.TrimSpace(ref)
	for i, p := range w.Presets {
		if p.ID == ref {
			return i
		}
	}
	for i, p := range w.Presets {
		if strings.EqualFold(p.Name, ref) {
			return i
		}
	}
	return -1
}
