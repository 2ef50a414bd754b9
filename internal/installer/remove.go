package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/skilzy-ai/skilzy/internal/manifest"
)

// ResolveName resolves a name fragment against the tracking file: first as
// an exact author/name key, then as a bare name matching exactly one entry.
// More than one bare-name match requires the caller to disambiguate with
// the author/name form.
func (inst *Installer) ResolveName(name string) (manifest.Entry, error) {
	m, err := inst.store.Load()
	if err != nil {
		return manifest.Entry{}, err
	}
	return resolveName(m, name)
}

func resolveName(m *manifest.Manifest, name string) (manifest.Entry, error) {
	if entry, ok := m.Get(name); ok {
		return entry, nil
	}

	var matches []string
	for _, key := range m.Keys() {
		if _, namePart, ok := strings.Cut(key, "/"); ok && namePart == name {
			matches = append(matches, key)
		}
	}

	switch len(matches) {
	case 0:
		return manifest.Entry{}, errors.SkillNotFound(name)
	case 1:
		entry, _ := m.Get(matches[0])
		return entry, nil
	default:
		return manifest.Entry{}, errors.AmbiguousSkill(name, matches)
	}
}

// Remove deletes the installed directory of the skill matching name and
// drops its tracking-file entry. A directory already missing from disk is
// reported, not treated as an error. Returns a status message.
func (inst *Installer) Remove(name string) (string, error) {
	m, err := inst.store.Load()
	if err != nil {
		return "", err
	}

	entry, err := resolveName(m, name)
	if err != nil {
		return "", err
	}
	key := entry.Key()

	dir := filepath.Join(inst.root, entry.Path)
	dirMissing := false
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dirMissing = true
	} else if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("removing skill directory: %w", err)
	}

	m.Delete(key)
	if err := inst.store.Save(m); err != nil {
		return "", err
	}

	inst.logger.Debug("removed skill", "skill", key, "path", entry.Path)
	if dirMissing {
		return fmt.Sprintf("untracked %q (directory %s was already gone)", key, entry.Path), nil
	}
	return fmt.Sprintf("removed %q", key), nil
}
