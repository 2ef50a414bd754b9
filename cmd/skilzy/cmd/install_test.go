package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/skilzy-ai/skilzy/internal/testutil"
)

func resetInstallFlags(t *testing.T) {
	t.Helper()

	oldPath, oldOverwrite := installPath, installOverwrite
	oldCat, oldInsecure := installCat, installInsecure
	t.Cleanup(func() {
		installPath, installOverwrite = oldPath, oldOverwrite
		installCat, installInsecure = oldCat, oldInsecure
	})
	installPath, installOverwrite, installCat, installInsecure = "", false, false, false
}

func TestInstallCommand(t *testing.T) {
	fake, dir := setupProject(t)
	resetInstallFlags(t)
	fake.AddSkill(testutil.FakeSkill{
		Author:   "acme",
		Name:     "pdf-pro",
		Versions: []string{"2.1.0"},
	})

	output, err := capture(t, installCmd, runInstall, []string{"acme/pdf-pro"})
	if err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}

	if !strings.Contains(output, "Installed acme/pdf-pro v2.1.0") {
		t.Errorf("output = %q, want install confirmation", output)
	}
	if _, err := os.Stat(filepath.Join(dir, "skills", "acme-pdf-pro", "skill.json")); err != nil {
		t.Errorf("skill not installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "skilzy.json")); err != nil {
		t.Errorf("tracking file not created: %v", err)
	}
}

func TestInstallCommandCat(t *testing.T) {
	fake, _ := setupProject(t)
	resetInstallFlags(t)
	fake.AddSkill(testutil.FakeSkill{
		Author:   "acme",
		Name:     "pdf-pro",
		Versions: []string{"2.1.0"},
		Files: map[string]string{
			"skill.json": `{"name": "pdf-pro", "author": "acme"}`,
			"SKILL.md":   "# pdf-pro\nExtract text from PDFs.",
		},
	})
	installCat = true

	output, err := capture(t, installCmd, runInstall, []string{"acme/pdf-pro"})
	if err != nil {
		t.Fatalf("runInstall() error = %v", err)
	}
	if !strings.Contains(output, "Extract text from PDFs.") {
		t.Errorf("output = %q, want SKILL.md contents", output)
	}
}

func TestInstallCommandBadReference(t *testing.T) {
	setupProject(t)
	resetInstallFlags(t)

	_, err := capture(t, installCmd, runInstall, []string{"Not A Ref"})
	if !errors.HasCode(err, errors.CodeInvalidReference) {
		t.Fatalf("error = %v, want invalid reference", err)
	}
}

func TestInstallCommandConflictHint(t *testing.T) {
	fake, dir := setupProject(t)
	resetInstallFlags(t)
	fake.AddSkill(testutil.FakeSkill{Author: "acme", Name: "pdf-pro", Versions: []string{"2.1.0"}})

	if err := os.MkdirAll(filepath.Join(dir, "skills", "acme-pdf-pro"), 0755); err != nil {
		t.Fatal(err)
	}

	output, err := capture(t, installCmd, runInstall, []string{"acme/pdf-pro"})
	if !errors.HasCode(err, errors.CodeDestinationExists) {
		t.Fatalf("error = %v, want destination-exists", err)
	}
	if !strings.Contains(output, "--overwrite") {
		t.Errorf("output = %q, want a hint about --overwrite", output)
	}
}
