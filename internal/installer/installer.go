// Package installer implements skill installation, synchronization, and
// removal against a project's skills directory and tracking file.
package installer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skilzy-ai/skilzy/internal/archive"
	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/skilzy-ai/skilzy/internal/manifest"
	"github.com/skilzy-ai/skilzy/internal/registry"
	"github.com/skilzy-ai/skilzy/internal/skillref"
)

// Status classifies the outcome of one install attempt.
type Status string

const (
	StatusInstalled   Status = "installed"
	StatusSkipped     Status = "skipped"
	StatusOverwritten Status = "overwritten"
	StatusFailed      Status = "failed"
)

// Outcome is the result of a single install attempt.
type Outcome struct {
	Skill   string `json:"skill"` // author/name
	Version string `json:"version,omitempty"`
	Status  Status `json:"status"`
	Path    string `json:"path,omitempty"` // absolute install directory
	Err     error  `json:"-"`
}

// Options control a single install.
type Options struct {
	// TargetPath overrides the default skills/<author>-<name> destination.
	// Relative paths are resolved against the project root.
	TargetPath string

	// Overwrite replaces an existing destination instead of failing.
	Overwrite bool
}

// Installer orchestrates download, extraction, placement, and tracking-file
// updates for skills under one project root.
type Installer struct {
	root   string
	client *registry.Client
	store  *manifest.Store
	logger *slog.Logger
}

// New creates an installer for the given project root.
func New(projectRoot string, client *registry.Client, logger *slog.Logger) *Installer {
	return &Installer{
		root:   projectRoot,
		client: client,
		store:  manifest.NewStore(projectRoot),
		logger: logger,
	}
}

// Store exposes the underlying manifest store.
func (inst *Installer) Store() *manifest.Store {
	return inst.store
}

// Install resolves ref against the registry, downloads and stages the
// package, moves it into place atomically, and records it in the tracking
// file. The tracking file is only touched after the destination is in place.
func (inst *Installer) Install(ctx context.Context, ref skillref.Ref, opts Options) (*Outcome, error) {
	if ref.IsBare() {
		return nil, errors.InvalidReference(ref.String(), "installing requires the author/name form")
	}

	outcome := &Outcome{Skill: ref.Key(), Version: ref.Version}
	fail := func(err error) (*Outcome, error) {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome, err
	}

	// Resolve the concrete version first so conflict errors can report it.
	version, err := inst.resolveVersion(ctx, ref)
	if err != nil {
		return fail(err)
	}
	outcome.Version = version
	inst.logger.Debug("resolved version", "skill", ref.Key(), "version", version)

	dest, relPath, err := inst.destination(ref, opts.TargetPath)
	if err != nil {
		return fail(err)
	}
	outcome.Path = dest

	destExists := false
	if _, err := os.Stat(dest); err == nil {
		if !opts.Overwrite {
			return fail(errors.DestinationExists(dest).WithDetail("version", version))
		}
		destExists = true
	}

	data, err := inst.client.DownloadPackage(ctx, ref.Author, ref.Name, version)
	if err != nil {
		return fail(err)
	}

	if err := inst.place(ctx, data, dest, destExists); err != nil {
		return fail(err)
	}

	entry := manifest.Entry{
		Author:      ref.Author,
		Name:        ref.Name,
		Version:     version,
		Path:        relPath,
		InstalledAt: time.Now().UTC(),
	}
	if err := inst.track(entry); err != nil {
		return fail(err)
	}

	if destExists {
		outcome.Status = StatusOverwritten
	} else {
		outcome.Status = StatusInstalled
	}
	inst.logger.Debug("installed skill", "skill", ref.Key(), "version", version, "path", relPath)
	return outcome, nil
}

// resolveVersion turns an optionally pinned reference into a concrete
// published version.
func (inst *Installer) resolveVersion(ctx context.Context, ref skillref.Ref) (string, error) {
	detail, err := inst.client.GetSkillDetails(ctx, ref.Author, ref.Name)
	if errors.HasCode(err, errors.CodeNotFound) {
		return "", errors.SkillNotFound(ref.Key()).WithCause(err)
	}
	if err != nil {
		return "", err
	}

	if ref.Version == "" {
		latest := detail.LatestVersion()
		if latest == "" {
			return "", errors.SkillNotFound(ref.Key()).WithDetail("reason", "no published versions")
		}
		return latest, nil
	}

	if !detail.HasVersion(ref.Version) {
		return "", errors.VersionNotFound(ref.Key(), ref.Version)
	}
	return ref.Version, nil
}

// destination computes the absolute install directory and its project-
// relative path.
func (inst *Installer) destination(ref skillref.Ref, override string) (string, string, error) {
	dest := override
	if dest == "" {
		dest = filepath.Join(inst.root, manifest.SkillsDir, ref.DirName())
	} else if !filepath.IsAbs(dest) {
		dest = filepath.Join(inst.root, dest)
	}
	dest = filepath.Clean(dest)

	rel, err := filepath.Rel(inst.root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == "." {
		return "", "", fmt.Errorf("install path %q is outside the project root", dest)
	}
	return dest, rel, nil
}

// place extracts package data into a staging directory next to dest and
// moves it into place with a rename, so the destination is never observed
// partially extracted. The staging directory is removed on every exit path.
func (inst *Installer) place(ctx context.Context, data []byte, dest string, replace bool) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating skills directory: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".skilzy-stage-*")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := archive.Extract(data, staging); err != nil {
		return err
	}
	if err := archive.Flatten(staging); err != nil {
		return err
	}

	// Last point of no return: a cancelled install leaves no trace beyond
	// the staging directory removed above.
	if err := ctx.Err(); err != nil {
		return err
	}

	if replace {
		if err := os.RemoveAll(dest); err != nil {
			return fmt.Errorf("removing existing destination: %w", err)
		}
	}
	if err := os.Rename(staging, dest); err != nil {
		return fmt.Errorf("placing skill: %w", err)
	}
	return nil
}

// track upserts the entry into the tracking file, creating the file when the
// project has none yet.
func (inst *Installer) track(entry manifest.Entry) error {
	m, err := inst.store.Load()
	if err != nil {
		return err
	}
	m.Upsert(entry)
	return inst.store.Save(m)
}
