package store

import (
	"time"

	"github.com/KaramelBytes/sheetlens-cli/internal/filter"
)

// FilterPreset is a named, saved filter state.
type FilterPreset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Filters   filter.State `json:"filters"`
	CreatedAt time.Time    `json:"created_at"`
}
