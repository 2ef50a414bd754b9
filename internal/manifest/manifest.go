// Package manifest owns the skilzy.json tracking file: the mapping of
// installed skills for a project. All reads and writes of the file go
// through Store; Manifest mutations are in-memory until saved.
package manifest

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// TrackingFileName is the tracking file name at the project root.
	TrackingFileName = "skilzy.json"

	// SkillsDir is the default install directory under the project root.
	SkillsDir = "skills"

	// SchemaVersion is the current tracking file schema version.
	SchemaVersion = 1
)

// Entry is one tracked skill installation.
type Entry struct {
	Author      string    `json:"author"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Path        string    `json:"path"` // relative to the project root
	InstalledAt time.Time `json:"installed_at"`
}

// Key returns the author/name key the entry is tracked under.
func (e Entry) Key() string {
	return e.Author + "/" + e.Name
}

// Manifest is the full tracking document.
type Manifest struct {
	SchemaVersion int              `json:"schema_version"`
	Skills        map[string]Entry `json:"skills"`
}

// NewManifest returns an empty manifest at the current schema version.
func NewManifest() *Manifest {
	return &Manifest{
		SchemaVersion: SchemaVersion,
		Skills:        make(map[string]Entry),
	}
}

// Upsert adds or replaces the entry under its author/name key.
func (m *Manifest) Upsert(e Entry) {
	if m.Skills == nil {
		m.Skills = make(map[string]Entry)
	}
	m.Skills[e.Key()] = e
}

// Delete removes the entry under key. Returns true if it was present.
func (m *Manifest) Delete(key string) bool {
	if _, ok := m.Skills[key]; !ok {
		return false
	}
	delete(m.Skills, key)
	return true
}

// Get returns the entry under key.
func (m *Manifest) Get(key string) (Entry, bool) {
	e, ok := m.Skills[key]
	return e, ok
}

// Keys returns the entry keys in sorted order. Sync, list, and name
// resolution iterate in this order so results are deterministic.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Skills))
	for k := range m.Skills {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validPath reports whether p is a relative path that stays inside the
// project root.
func validPath(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	clean := filepath.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
