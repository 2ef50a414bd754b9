package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildZip creates an in-memory zip with the given name -> content entries.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	data := buildZip(t, map[string]string{
		"skill.json":    `{"name": "pdf-pro"}`,
		"SKILL.md":      "# pdf-pro",
		"lib/helper.py": "pass",
	})

	dir := t.TempDir()
	if err := Extract(data, dir); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	for _, name := range []string{"skill.json", "SKILL.md", filepath.Join("lib", "helper.py")} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected file %s: %v", name, err)
		}
	}

	content, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "# pdf-pro" {
		t.Errorf("SKILL.md content = %q", content)
	}
}

func TestExtract_RejectsTraversal(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{name: "dotdot", entry: "../evil.txt"},
		{name: "nested dotdot", entry: "a/../../evil.txt"},
		{name: "absolute", entry: "/etc/evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildZip(t, map[string]string{tt.entry: "evil"})
			dir := t.TempDir()
			if err := Extract(data, dir); err == nil {
				t.Errorf("Extract() accepted entry %q", tt.entry)
			}
		})
	}
}

func TestExtract_RejectsGarbage(t *testing.T) {
	if err := Extract([]byte("not a zip"), t.TempDir()); err == nil {
		t.Error("Extract() accepted non-zip data")
	}
}

func TestFlatten_AlreadyFlat(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Flatten(dir); err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ManifestName)); err != nil {
		t.Errorf("skill.json missing after no-op flatten: %v", err)
	}
}

func TestFlatten_NestedWrapper(t *testing.T) {
	dir := t.TempDir()
	wrapper := filepath.Join(dir, "pdf-pro-2.1.0")
	if err := os.MkdirAll(filepath.Join(wrapper, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wrapper, ManifestName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wrapper, "lib", "helper.py"), []byte("pass"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Flatten(dir); err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ManifestName)); err != nil {
		t.Errorf("skill.json not lifted to root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "lib", "helper.py")); err != nil {
		t.Errorf("lib/helper.py not lifted to root: %v", err)
	}
	if _, err := os.Stat(wrapper); !os.IsNotExist(err) {
		t.Error("wrapper directory not removed")
	}
}

func TestFlatten_NoManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Flatten(dir)
	if err == nil {
		t.Fatal("Flatten() error = nil for package without skill.json")
	}
	if !strings.Contains(err.Error(), ManifestName) {
		t.Errorf("error %q does not name %s", err, ManifestName)
	}
}

func TestReadPackageManifest(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "manifest at root",
			files: map[string]string{"skill.json": `{"name":"pdf-pro"}`, "SKILL.md": "#"},
		},
		{
			name:  "manifest under wrapper",
			files: map[string]string{"pdf-pro/skill.json": `{"name":"pdf-pro"}`, "pdf-pro/SKILL.md": "#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := filepath.Join(t.TempDir(), "pdf-pro.skill")
			if err := os.WriteFile(pkg, buildZip(t, tt.files), 0644); err != nil {
				t.Fatal(err)
			}

			data, err := ReadPackageManifest(pkg)
			if err != nil {
				t.Fatalf("ReadPackageManifest() error = %v", err)
			}
			if string(data) != `{"name":"pdf-pro"}` {
				t.Errorf("manifest content = %q", data)
			}
		})
	}
}

func TestReadPackageManifest_Missing(t *testing.T) {
	pkg := filepath.Join(t.TempDir(), "bad.skill")
	if err := os.WriteFile(pkg, buildZip(t, map[string]string{"README.md": "x"}), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadPackageManifest(pkg); err == nil {
		t.Error("ReadPackageManifest() accepted package without skill.json")
	}
}
