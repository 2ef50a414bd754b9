package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skilzy-ai/skilzy/internal/manifest"
	"github.com/skilzy-ai/skilzy/internal/skillref"
)

// SyncOptions control a reconciliation run.
type SyncOptions struct {
	// Force reinstalls entries even when their destination exists.
	Force bool
}

// Summary aggregates one sync run. Outcomes are ordered by tracking-file key.
type Summary struct {
	SuccessCount int       `json:"success_count"`
	SkipCount    int       `json:"skip_count"`
	ErrorCount   int       `json:"error_count"`
	Outcomes     []Outcome `json:"outcomes"`
}

// Sync brings the filesystem into agreement with the tracking file. Each
// entry is processed independently at its pinned version: an entry whose
// destination already exists is skipped unless Force is set, and one entry's
// failure never aborts the remaining entries. Sync never adds or removes
// tracking-file entries and never upgrades a pinned version.
func (inst *Installer) Sync(ctx context.Context, opts SyncOptions) (*Summary, error) {
	if !inst.store.Exists() {
		return nil, fmt.Errorf("tracking file %q not found: run 'skilzy init' to create one", manifest.TrackingFileName)
	}

	m, err := inst.store.Load()
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, key := range m.Keys() {
		entry := m.Skills[key]
		summary.record(inst.syncEntry(ctx, entry, opts))
	}
	return summary, nil
}

// syncEntry reconciles a single tracking-file entry.
func (inst *Installer) syncEntry(ctx context.Context, entry manifest.Entry, opts SyncOptions) Outcome {
	key := entry.Key()
	dest := filepath.Join(inst.root, entry.Path)

	if !opts.Force {
		if _, err := os.Stat(dest); err == nil {
			inst.logger.Debug("already installed", "skill", key, "path", entry.Path)
			return Outcome{Skill: key, Version: entry.Version, Status: StatusSkipped, Path: dest}
		}
	}

	if entry.Author == "" {
		return Outcome{
			Skill:  key,
			Status: StatusFailed,
			Err:    fmt.Errorf("entry %q has no author: remove and reinstall it as author/name", key),
		}
	}

	ref := skillref.Ref{Author: entry.Author, Name: entry.Name, Version: entry.Version}
	outcome, err := inst.Install(ctx, ref, Options{TargetPath: entry.Path, Overwrite: opts.Force})
	if err != nil {
		inst.logger.Debug("sync entry failed", "skill", key, "error", err)
		return Outcome{Skill: key, Version: entry.Version, Status: StatusFailed, Path: dest, Err: err}
	}
	return *outcome
}

// record tallies an outcome into the summary counters.
func (s *Summary) record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusInstalled, StatusOverwritten:
		s.SuccessCount++
	case StatusSkipped:
		s.SkipCount++
	case StatusFailed:
		s.ErrorCount++
	}
}
