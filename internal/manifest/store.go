package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skilzy-ai/skilzy/internal/errors"
)

// Store manages the skilzy.json file for one project root.
type Store struct {
	root string
	path string
}

// NewStore creates a store for the given project root.
func NewStore(projectRoot string) *Store {
	return &Store{
		root: projectRoot,
		path: filepath.Join(projectRoot, TrackingFileName),
	}
}

// Path returns the tracking file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the tracking file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the tracking file. A missing file yields an empty manifest;
// an unparsable file is a corrupt-manifest error, never silently discarded.
func (s *Store) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tracking file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.ManifestCorrupt(s.path, err)
	}
	if m.Skills == nil {
		m.Skills = make(map[string]Entry)
	}

	// Unknown or missing schema_version reads as the oldest supported schema.
	if m.SchemaVersion == 0 {
		m.SchemaVersion = SchemaVersion
	}

	for key, e := range m.Skills {
		if !validPath(e.Path) {
			return nil, errors.ManifestCorrupt(s.path, fmt.Errorf("entry %q has path %q outside the project root", key, e.Path))
		}
	}

	return &m, nil
}

// Save writes the manifest atomically: the content goes to a temporary file
// in the same directory which is then renamed over the tracking file, so an
// interrupted write leaves the previous file intact. The temporary file is
// removed on every failure path.
func (s *Store) Save(m *Manifest) (err error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling tracking file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".skilzy-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp tracking file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp tracking file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp tracking file: %w", err)
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing tracking file: %w", err)
	}
	return nil
}

// Init creates a fresh empty tracking file. It fails if one already exists,
// since re-initializing would discard tracked state.
func (s *Store) Init() error {
	if s.Exists() {
		return errors.ManifestExists(s.path)
	}
	return s.Save(NewManifest())
}
