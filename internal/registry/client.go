// Package registry implements the HTTP client for the Skilzy registry API.
package registry

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/skilzy-ai/skilzy/internal/archive"
	"github.com/skilzy-ai/skilzy/internal/errors"
)

const (
	// DefaultBaseURL is the production registry endpoint.
	DefaultBaseURL = "https://api.skilzy.ai"

	// downloadTimeout bounds a single package download.
	downloadTimeout = 30 * time.Second

	// publishTimeout is extended for archive uploads.
	publishTimeout = 90 * time.Second
)

// Client talks to the Skilzy registry.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	httpc     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the registry endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithAPIKey sets the bearer token sent on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithInsecureTLS disables TLS certificate verification.
func WithInsecureTLS() Option {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in via --insecure
		c.httpc = &http.Client{Transport: transport}
	}
}

// WithHTTPClient substitutes the underlying HTTP client (for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a registry client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "skilzy-go/dev",
		httpc:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether the client has an API key configured.
func (c *Client) Authenticated() bool {
	return c.apiKey != ""
}

// KeyPrefix returns the leading characters of the configured API key,
// safe to display.
func (c *Client) KeyPrefix() string {
	if len(c.apiKey) < 8 {
		return c.apiKey
	}
	return c.apiKey[:8] + "..."
}

// Search queries the registry for skills.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	if opts.SortBy == "" {
		opts.SortBy = "relevance"
	}
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Limit == 0 {
		opts.Limit = 10
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("limit", strconv.Itoa(opts.Limit))
	params.Set("sortBy", opts.SortBy)
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if opts.Author != "" {
		params.Set("author", opts.Author)
	}
	if len(opts.Keywords) > 0 {
		params.Set("keywords", strings.Join(opts.Keywords, ","))
	}

	var result SearchResult
	if err := c.getJSON(ctx, "/skills/search?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSkillDetails fetches a skill's metadata, including its version list
// with the latest version first.
func (c *Client) GetSkillDetails(ctx context.Context, author, name string) (*SkillDetail, error) {
	var detail SkillDetail
	path := fmt.Sprintf("/skills/%s/%s", url.PathEscape(author), url.PathEscape(name))
	if err := c.getJSON(ctx, path, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetSkillVersion fetches the metadata of one published version.
func (c *Client) GetSkillVersion(ctx context.Context, author, name, version string) (*SkillVersion, error) {
	var v SkillVersion
	path := fmt.Sprintf("/skills/%s/%s/versions/%s",
		url.PathEscape(author), url.PathEscape(name), url.PathEscape(version))
	if err := c.getJSON(ctx, path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DownloadPackage fetches the raw package archive for a version.
func (c *Client) DownloadPackage(ctx context.Context, author, name, version string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	path := fmt.Sprintf("/skills/%s/%s/versions/%s/download",
		url.PathEscape(author), url.PathEscape(name), url.PathEscape(version))
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.TransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.TransportError(err)
	}
	return data, nil
}

// Publish uploads a .skill package to the registry. The package's skill.json
// manifest is sent alongside the archive so the server can validate without
// extracting. Requires authentication.
func (c *Client) Publish(ctx context.Context, packagePath string) (*PublishResult, error) {
	if !c.Authenticated() {
		return nil, errors.New(errors.CodeAuthentication, "authentication required: no API key configured")
	}

	manifestData, err := archive.ReadPackageManifest(packagePath)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(packagePath))
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	pkg, err := os.Open(packagePath)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()
	if _, err := io.Copy(part, pkg); err != nil {
		return nil, fmt.Errorf("buffering package: %w", err)
	}
	if err := writer.WriteField("manifest", string(manifestData)); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, "/skills/publish", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result PublishResult
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MySkills lists the skills published by the authenticated user.
func (c *Client) MySkills(ctx context.Context) ([]MySkill, error) {
	if !c.Authenticated() {
		return nil, errors.New(errors.CodeAuthentication, "authentication required: no API key configured")
	}

	var skills []MySkill
	if err := c.getJSON(ctx, "/users/me/skills", &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

// ValidateKey checks the configured API key against the registry.
// A rejected key yields Valid=false rather than an error; other failures
// (transport, server errors) propagate.
func (c *Client) ValidateKey(ctx context.Context) (*KeyValidation, error) {
	if !c.Authenticated() {
		return nil, errors.New(errors.CodeAuthentication, "authentication required: no API key configured")
	}

	_, err := c.MySkills(ctx)
	if errors.HasCode(err, errors.CodeAuthentication) {
		return &KeyValidation{Valid: false, KeyPrefix: c.KeyPrefix()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &KeyValidation{Valid: true, KeyPrefix: c.KeyPrefix()}, nil
}

// newRequest builds a request with the standard headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

// getJSON performs a GET and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// doJSON executes a request and decodes a 2xx JSON response into out.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.TransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.CodeAPI, "decoding registry response", err)
	}
	return nil
}

// apiErrorFromResponse maps a non-2xx response to the error taxonomy,
// extracting the server's message when the body carries one.
func apiErrorFromResponse(resp *http.Response) error {
	message := "an unknown API error occurred"

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
			message = payload.Message
		}
	}

	return errors.APIError(resp.StatusCode, message)
}
