// Package github provides a minimal client for the GitHub REST API:
// organization lookup, repository listing, language breakdowns, and
// contributor listing. A bearer token is optional; without one, calls are
// unauthenticated and subject to much lower rate limits.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when an organization or repository does not exist.
var ErrNotFound = eris.New("github: not found")

// Client defines the GitHub API operations used by the enrichment pipeline.
type Client interface {
	Org(ctx context.Context, login string) (*Org, error)
	ListRepos(ctx context.Context, org string) ([]Repo, error)
	Languages(ctx context.Context, org, repo string) (map[string]int64, error)
	Contributors(ctx context.Context, org, repo string) ([]Contributor, error)
}

// Org is a GitHub organization.
type Org struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Blog        string `json:"blog"`
	PublicRepos int    `json:"public_repos"`
}

// Repo is a repository summary.
type Repo struct {
	Name     string `json:"name"`
	Stars    int    `json:"stargazers_count"`
	Forks    int    `json:"forks_count"`
	Archived bool   `json:"archived"`
	Fork     bool   `json:"fork"`
	Language string `json:"language"`
}

// Contributor is one repository contributor.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) { c.userAgent = ua }
}

type httpClient struct {
	token     string
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a GitHub client. An empty token means unauthenticated.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:     token,
		baseURL:   "https://api.github.com",
		userAgent: "enrich-cli/1.0",
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "github: create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "github: GET %s", path)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return eris.Wrap(err, "github: read body")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return eris.Errorf("github: GET %s: status %d", path, resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return eris.Wrapf(err, "github: decode %s", path)
	}
	return nil
}

func (c *httpClient) Org(ctx context.Context, login string) (*Org, error) {
	var org Org
	if err := c.get(ctx, "/orgs/"+login, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

func (c *httpClient) ListRepos(ctx context.Context, org string) ([]Repo, error) {
	var repos []Repo
	path := fmt.Sprintf("/orgs/%s/repos?per_page=100&sort=pushed", org)
	if err := c.get(ctx, path, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *httpClient) Languages(ctx context.Context, org, repo string) (map[string]int64, error) {
	langs := make(map[string]int64)
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", org, repo), &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (c *httpClient) Contributors(ctx context.Context, org, repo string) ([]Contributor, error) {
	var contribs []Contributor
	path := fmt.Sprintf("/repos/%s/%s/contributors?per_page=100", org, repo)
	if err := c.get(ctx, path, &contribs); err != nil {
		return nil, err
	}
	return contribs, nil
}
