package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/skilzy-ai/skilzy/internal/manifest"
	"github.com/skilzy-ai/skilzy/internal/testutil"
	"github.com/spf13/cobra"
)

// setupProject points the global flags at a temp project root and a fake
// registry, restoring them when the test ends.
func setupProject(t *testing.T) (*testutil.FakeRegistry, string) {
	t.Helper()

	fake := testutil.NewFakeRegistry(t)
	dir := t.TempDir()

	oldWorkDir, oldRegistryURL := workDir, registryURL
	t.Cleanup(func() {
		workDir, registryURL = oldWorkDir, oldRegistryURL
	})
	workDir = dir
	registryURL = fake.URL()

	return fake, dir
}

// capture runs a command function with buffered output.
func capture(t *testing.T, cmd *cobra.Command, run func(*cobra.Command, []string) error, args []string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())

	err := run(cmd, args)
	return buf.String(), err
}

// seedGhostEntry tracks a skill that the registry no longer serves.
func seedGhostEntry(t *testing.T, dir string) {
	t.Helper()

	store := manifest.NewStore(dir)
	m, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	m.Upsert(manifest.Entry{
		Author: "gone", Name: "ghost", Version: "1.0.0",
		Path: "skills/gone-ghost", InstalledAt: time.Now().UTC(),
	})
	if err := store.Save(m); err != nil {
		t.Fatal(err)
	}
}
