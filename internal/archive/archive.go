// Package archive handles .skill packages: zip archives carrying a skill's
// files and a skill.json manifest at their root (possibly under one wrapper
// directory).
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the package manifest filename.
const ManifestName = "skill.json"

// MaxFileSize is the maximum decompressed size of a single archive entry
// (100MB). This bounds decompression bombs.
const MaxFileSize = 100 * 1024 * 1024

// Extract unpacks zip data into destDir. Entries with absolute paths or
// traversal sequences are rejected, as are files above MaxFileSize.
func Extract(data []byte, destDir string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening package archive: %w", err)
	}

	for _, f := range reader.File {
		target, err := sanitizePath(destDir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", f.Name, err)
			}
			continue
		}

		if f.UncompressedSize64 > MaxFileSize {
			return fmt.Errorf("archive entry %s exceeds size limit", f.Name)
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

// sanitizePath joins an archive entry name onto destDir, rejecting absolute
// paths and traversal outside destDir.
func sanitizePath(destDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry %s has an absolute path", name)
	}
	target := filepath.Join(destDir, filepath.Clean(name))
	if target != destDir && !strings.HasPrefix(target, destDir+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %s escapes the destination directory", name)
	}
	return target, nil
}

// extractFile writes one archive entry to target.
func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", f.Name, err)
	}
	defer dst.Close()

	// +1 so an entry lying about its size still trips the limit.
	n, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if n > MaxFileSize {
		return fmt.Errorf("archive entry %s exceeds size limit", f.Name)
	}
	return nil
}

// Flatten corrects a package whose files sit under a single wrapper
// directory, moving them up so skill.json is at the root of dir. It fails
// when no skill.json can be found anywhere in the tree.
func Flatten(dir string) error {
	manifestPath, err := findManifest(dir)
	if err != nil {
		return err
	}

	sourceDir := filepath.Dir(manifestPath)
	if sourceDir == dir {
		return nil
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("reading package directory: %w", err)
	}
	for _, entry := range entries {
		from := filepath.Join(sourceDir, entry.Name())
		to := filepath.Join(dir, entry.Name())
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("moving %s: %w", entry.Name(), err)
		}
	}

	// Remove the now-empty wrapper chain up to dir.
	for d := sourceDir; d != dir; d = filepath.Dir(d) {
		if err := os.Remove(d); err != nil {
			return fmt.Errorf("removing wrapper directory: %w", err)
		}
	}
	return nil
}

// findManifest locates skill.json anywhere under dir.
func findManifest(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == ManifestName {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scanning package: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("invalid package: %s not found", ManifestName)
	}
	return found, nil
}

// ReadPackageManifest extracts the skill.json content from a package file
// without unpacking it. Used to validate a package before publishing.
func ReadPackageManifest(packagePath string) ([]byte, error) {
	reader, err := zip.OpenReader(packagePath)
	if err != nil {
		return nil, fmt.Errorf("opening package %s: %w", packagePath, err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.Name == ManifestName || strings.HasSuffix(f.Name, "/"+ManifestName) {
			src, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", ManifestName, err)
			}
			defer src.Close()
			data, err := io.ReadAll(io.LimitReader(src, MaxFileSize))
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", ManifestName, err)
			}
			return data, nil
		}
	}

	return nil, fmt.Errorf("invalid package: %s not found in archive", ManifestName)
}
