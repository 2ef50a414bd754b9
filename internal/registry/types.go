package registry

import "time"

// SkillSummary is a skill as returned by search results and listings.
type SkillSummary struct {
	Name          string   `json:"name"`
	Author        string   `json:"author"`
	Description   string   `json:"description"`
	IconURL       string   `json:"iconUrl,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	LatestVersion string   `json:"latest_version"`
}

// SearchResult is a paginated search response.
type SearchResult struct {
	Data  []SkillSummary `json:"data"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// SearchOptions are the parameters for a registry search.
type SearchOptions struct {
	Query    string
	Author   string
	Keywords []string
	SortBy   string // default "relevance"
	Page     int    // default 1
	Limit    int    // default 10
}

// SkillDetail is the detailed view of a skill with all its versions,
// newest first.
type SkillDetail struct {
	Name          string    `json:"name"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	IconURL       string    `json:"iconUrl,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	RepositoryURL string    `json:"repository_url,omitempty"`
	Versions      []string  `json:"versions"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LatestVersion returns the newest version, or empty if none are published.
func (d *SkillDetail) LatestVersion() string {
	if len(d.Versions) == 0 {
		return ""
	}
	return d.Versions[0]
}

// HasVersion reports whether the skill has the given published version.
func (d *SkillDetail) HasVersion(version string) bool {
	for _, v := range d.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// SkillVersion is the complete metadata of one published version.
type SkillVersion struct {
	Name                 string         `json:"name"`
	Version              string         `json:"version"`
	Description          string         `json:"description"`
	Author               string         `json:"author"`
	License              string         `json:"license"`
	DocumentationContent string         `json:"documentation_content"`
	PublishedAt          time.Time      `json:"published_at"`
	RuntimeDetails       map[string]any `json:"runtime_details,omitempty"`
	// Dependencies is the legacy field some API responses still populate
	// instead of runtime_details.
	Dependencies map[string]any `json:"dependencies,omitempty"`
}

// Runtime returns runtime_details, falling back to the legacy dependencies
// field when the API omits it.
func (v *SkillVersion) Runtime() map[string]any {
	if v.RuntimeDetails != nil {
		return v.RuntimeDetails
	}
	return v.Dependencies
}

// MySkillVersion is the latest-version summary on a published skill.
type MySkillVersion struct {
	Version     string     `json:"version"`
	Status      string     `json:"status"`
	ReviewNotes string     `json:"reviewNotes,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// MySkill is a skill owned by the authenticated user.
type MySkill struct {
	ID                    int             `json:"id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	RepositoryURL         string          `json:"repository_url,omitempty"`
	License               string          `json:"license"`
	CreatedAt             time.Time       `json:"createdAt"`
	LatestVersion         *MySkillVersion `json:"latestVersion,omitempty"`
	PublishedVersionCount int             `json:"publishedVersionCount"`
	TotalVersions         int             `json:"totalVersions"`
}

// PublishResult is the response to a publish request.
type PublishResult struct {
	Skill   string `json:"skill"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// KeyValidation is the outcome of validating an API key.
type KeyValidation struct {
	Valid     bool   `json:"valid"`
	KeyPrefix string `json:"key_prefix"`
}
