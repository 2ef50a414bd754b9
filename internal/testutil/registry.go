// Package testutil provides test infrastructure and fixtures for skilzy.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// FakeSkill is one skill served by the fake registry.
type FakeSkill struct {
	Author      string
	Name        string
	Description string
	Versions    []string          // newest first
	Files       map[string]string // package contents, path -> content
}

// FakeRegistry is an in-process registry API for tests. It serves the same
// routes the production API does and counts downloads so tests can assert
// which operations touched the network.
type FakeRegistry struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	skills    map[string]*FakeSkill // author/name
	downloads map[string]int        // author/name

	// APIKey, when set, is required as a bearer token on authenticated routes.
	APIKey string

	// MySkillsResponse is returned by /users/me/skills.
	MySkillsResponse []map[string]any
}

// NewFakeRegistry starts a fake registry; it is shut down with the test.
func NewFakeRegistry(t *testing.T) *FakeRegistry {
	t.Helper()

	f := &FakeRegistry{
		t:         t,
		skills:    make(map[string]*FakeSkill),
		downloads: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the fake registry's base URL.
func (f *FakeRegistry) URL() string {
	return f.server.URL
}

// AddSkill registers a skill. Files defaults to a minimal valid package.
func (f *FakeRegistry) AddSkill(s FakeSkill) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s.Files == nil {
		s.Files = map[string]string{
			"skill.json": fmt.Sprintf(`{"name": %q, "author": %q}`, s.Name, s.Author),
			"SKILL.md":   "# " + s.Name,
		}
	}
	f.skills[s.Author+"/"+s.Name] = &s
}

// Downloads returns how many times the given author/name package was fetched.
func (f *FakeRegistry) Downloads(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloads[key]
}

func (f *FakeRegistry) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case r.Method == http.MethodGet && path == "skills/search":
		f.handleSearch(w, r)
	case r.Method == http.MethodGet && path == "users/me/skills":
		f.handleMySkills(w, r)
	case r.Method == http.MethodPost && path == "skills/publish":
		f.handlePublish(w, r)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "skills":
		f.handleDetails(w, parts[1], parts[2])
	case r.Method == http.MethodGet && len(parts) == 5 && parts[0] == "skills" && parts[3] == "versions":
		f.handleVersion(w, parts[1], parts[2], parts[4])
	case r.Method == http.MethodGet && len(parts) == 6 && parts[0] == "skills" && parts[3] == "versions" && parts[5] == "download":
		f.handleDownload(w, parts[1], parts[2], parts[4])
	default:
		writeError(w, http.StatusNotFound, "no such route")
	}
}

func (f *FakeRegistry) lookup(author, name string) *FakeSkill {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skills[author+"/"+name]
}

func (f *FakeRegistry) authorized(r *http.Request) bool {
	if f.APIKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+f.APIKey
}

func (f *FakeRegistry) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	author := r.URL.Query().Get("author")

	f.mu.Lock()
	var data []map[string]any
	for _, s := range f.skills {
		if query != "" && !strings.Contains(s.Name, query) && !strings.Contains(s.Description, query) {
			continue
		}
		if author != "" && s.Author != author {
			continue
		}
		data = append(data, map[string]any{
			"name":           s.Name,
			"author":         s.Author,
			"description":    s.Description,
			"latest_version": s.Versions[0],
		})
	}
	f.mu.Unlock()

	writeJSON(w, map[string]any{
		"data":  data,
		"total": len(data),
		"page":  1,
		"limit": 10,
	})
}

func (f *FakeRegistry) handleDetails(w http.ResponseWriter, author, name string) {
	s := f.lookup(author, name)
	if s == nil {
		writeError(w, http.StatusNotFound, "skill not found")
		return
	}

	writeJSON(w, map[string]any{
		"name":        s.Name,
		"author":      s.Author,
		"description": s.Description,
		"versions":    s.Versions,
		"updatedAt":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (f *FakeRegistry) handleVersion(w http.ResponseWriter, author, name, version string) {
	s := f.lookup(author, name)
	if s == nil || !hasVersion(s, version) {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}

	writeJSON(w, map[string]any{
		"name":                  s.Name,
		"version":               version,
		"description":           s.Description,
		"author":                s.Author,
		"license":               "MIT",
		"documentation_content": "# " + s.Name,
		"published_at":          time.Now().UTC().Format(time.RFC3339),
	})
}

func (f *FakeRegistry) handleDownload(w http.ResponseWriter, author, name, version string) {
	s := f.lookup(author, name)
	if s == nil || !hasVersion(s, version) {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}

	f.mu.Lock()
	f.downloads[author+"/"+name]++
	files := s.Files
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/zip")
	w.Write(BuildPackage(f.t, files))
}

func (f *FakeRegistry) handlePublish(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart body")
		return
	}

	manifest := r.FormValue("manifest")
	var meta struct {
		Name    string `json:"name"`
		Author  string `json:"author"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(manifest), &meta); err != nil || meta.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid manifest")
		return
	}

	writeJSON(w, map[string]any{
		"skill":   meta.Author + "/" + meta.Name,
		"version": meta.Version,
		"status":  "pending_review",
	})
}

func (f *FakeRegistry) handleMySkills(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	resp := f.MySkillsResponse
	if resp == nil {
		resp = []map[string]any{}
	}
	writeJSON(w, resp)
}

func hasVersion(s *FakeSkill, version string) bool {
	for _, v := range s.Versions {
		if v == version {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// BuildPackage builds an in-memory .skill zip from path -> content pairs.
func BuildPackage(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating package entry %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("writing package entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing package: %v", err)
	}
	return buf.Bytes()
}
