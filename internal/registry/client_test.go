package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/skilzy-ai/skilzy/internal/errors"
	"github.com/skilzy-ai/skilzy/internal/testutil"
)

func testClient(f *testutil.FakeRegistry, opts ...Option) *Client {
	return New(append([]Option{WithBaseURL(f.URL())}, opts...)...)
}

func TestClient_Search(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)
	fake.AddSkill(testutil.FakeSkill{
		Author:      "acme",
		Name:        "pdf-pro",
		Description: "PDF tooling",
		Versions:    []string{"2.1.0", "2.0.0"},
	})
	fake.AddSkill(testutil.FakeSkill{
		Author:      "foo",
		Name:        "linter",
		Description: "lint things",
		Versions:    []string{"0.3.0"},
	})

	client := testClient(fake)
	result, err := client.Search(context.Background(), SearchOptions{Query: "pdf"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total = %d, want 1", result.Total)
	}
	if result.Data[0].Name != "pdf-pro" || result.Data[0].LatestVersion != "2.1.0" {
		t.Errorf("Data[0] = %+v", result.Data[0])
	}
}

func TestClient_GetSkillDetails(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)
	fake.AddSkill(testutil.FakeSkill{
		Author:   "acme",
		Name:     "pdf-pro",
		Versions: []string{"2.1.0", "2.0.0", "1.0.0"},
	})

	client := testClient(fake)
	detail, err := client.GetSkillDetails(context.Background(), "acme", "pdf-pro")
	if err != nil {
		t.Fatalf("GetSkillDetails() error = %v", err)
	}
	if detail.LatestVersion() != "2.1.0" {
		t.Errorf("LatestVersion() = %q, want 2.1.0", detail.LatestVersion())
	}
	if !detail.HasVersion("1.0.0") {
		t.Error("HasVersion(1.0.0) = false")
	}
	if detail.HasVersion("9.9.9") {
		t.Error("HasVersion(9.9.9) = true")
	}
}

func TestClient_GetSkillDetails_NotFound(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)

	client := testClient(fake)
	_, err := client.GetSkillDetails(context.Background(), "nobody", "nothing")
	if !errors.HasCode(err, errors.CodeNotFound) {
		t.Errorf("error = %v, want not-found", err)
	}
}

func TestClient_DownloadPackage(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)
	fake.AddSkill(testutil.FakeSkill{
		Author:   "acme",
		Name:     "pdf-pro",
		Versions: []string{"2.1.0"},
	})

	client := testClient(fake)
	data, err := client.DownloadPackage(context.Background(), "acme", "pdf-pro", "2.1.0")
	if err != nil {
		t.Fatalf("DownloadPackage() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("DownloadPackage() returned empty package")
	}
	if fake.Downloads("acme/pdf-pro") != 1 {
		t.Errorf("downloads = %d, want 1", fake.Downloads("acme/pdf-pro"))
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusUnauthorized, errors.CodeAuthentication},
		{http.StatusForbidden, errors.CodePermission},
		{http.StatusNotFound, errors.CodeNotFound},
		{http.StatusConflict, errors.CodeConflict},
		{http.StatusInternalServerError, errors.CodeAPI},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message": "nope"}`))
		}))

		client := New(WithBaseURL(server.URL))
		_, err := client.GetSkillDetails(context.Background(), "a", "b")
		if !errors.HasCode(err, tt.wantCode) {
			t.Errorf("status %d: error code = %q, want %q", tt.status, errors.Code(err), tt.wantCode)
		}
		server.Close()
	}
}

func TestClient_TransportError(t *testing.T) {
	// Nothing listens here.
	client := New(WithBaseURL("http://127.0.0.1:1"))
	_, err := client.GetSkillDetails(context.Background(), "a", "b")
	if !errors.HasCode(err, errors.CodeTransport) {
		t.Errorf("error = %v, want transport error", err)
	}
}

func TestClient_MySkills_RequiresKey(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)

	client := testClient(fake)
	_, err := client.MySkills(context.Background())
	if !errors.HasCode(err, errors.CodeAuthentication) {
		t.Errorf("error = %v, want authentication error without key", err)
	}
}

func TestClient_MySkills(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)
	fake.APIKey = "sk-valid-key-00000"
	fake.MySkillsResponse = []map[string]any{
		{
			"id":                    1,
			"name":                  "pdf-pro",
			"description":           "PDF tooling",
			"license":               "MIT",
			"createdAt":             "2026-01-02T15:04:05Z",
			"publishedVersionCount": 2,
			"totalVersions":         3,
			"latestVersion":         map[string]any{"version": "2.1.0", "status": "published"},
		},
	}

	client := testClient(fake, WithAPIKey("sk-valid-key-00000"))
	skills, err := client.MySkills(context.Background())
	if err != nil {
		t.Fatalf("MySkills() error = %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("len(skills) = %d, want 1", len(skills))
	}
	if skills[0].LatestVersion == nil || skills[0].LatestVersion.Version != "2.1.0" {
		t.Errorf("LatestVersion = %+v", skills[0].LatestVersion)
	}
}

func TestClient_ValidateKey(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)
	fake.APIKey = "sk-valid-key-00000"

	t.Run("accepted key", func(t *testing.T) {
		client := testClient(fake, WithAPIKey("sk-valid-key-00000"))
		v, err := client.ValidateKey(context.Background())
		if err != nil {
			t.Fatalf("ValidateKey() error = %v", err)
		}
		if !v.Valid {
			t.Error("Valid = false for accepted key")
		}
		if v.KeyPrefix != "sk-valid..." {
			t.Errorf("KeyPrefix = %q", v.KeyPrefix)
		}
	})

	t.Run("rejected key", func(t *testing.T) {
		client := testClient(fake, WithAPIKey("sk-wrong-key-0000"))
		v, err := client.ValidateKey(context.Background())
		if err != nil {
			t.Fatalf("ValidateKey() error = %v, want Valid=false instead", err)
		}
		if v.Valid {
			t.Error("Valid = true for rejected key")
		}
	})
}

func TestClient_Publish(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)
	fake.APIKey = "sk-valid-key-00000"

	pkg := filepath.Join(t.TempDir(), "pdf-pro.skill")
	data := testutil.BuildPackage(t, map[string]string{
		"skill.json": `{"name": "pdf-pro", "author": "acme", "version": "2.1.0"}`,
		"SKILL.md":   "# pdf-pro",
	})
	if err := os.WriteFile(pkg, data, 0644); err != nil {
		t.Fatal(err)
	}

	client := testClient(fake, WithAPIKey("sk-valid-key-00000"))
	result, err := client.Publish(context.Background(), pkg)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.Skill != "acme/pdf-pro" || result.Version != "2.1.0" {
		t.Errorf("result = %+v", result)
	}
}

func TestClient_Publish_RequiresKey(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)

	client := testClient(fake)
	_, err := client.Publish(context.Background(), "whatever.skill")
	if !errors.HasCode(err, errors.CodeAuthentication) {
		t.Errorf("error = %v, want authentication error", err)
	}
}

func TestClient_Publish_InvalidPackage(t *testing.T) {
	fake := testutil.NewFakeRegistry(t)

	pkg := filepath.Join(t.TempDir(), "bad.skill")
	if err := os.WriteFile(pkg, testutil.BuildPackage(t, map[string]string{"README.md": "x"}), 0644); err != nil {
		t.Fatal(err)
	}

	client := testClient(fake, WithAPIKey("sk-some-key-000000"))
	if _, err := client.Publish(context.Background(), pkg); err == nil {
		t.Error("Publish() accepted a package without skill.json")
	}
}
