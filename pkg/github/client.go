// Package github looks up a person's public GitHub profile and repositories.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
)

// DefaultRepositoryLimit caps repository listings.
const DefaultRepositoryLimit = 10

var ErrUsernameRequired = errors.New("github username is required")

// User is the public profile of a GitHub account.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Blog        string `json:"blog,omitempty"`
	HTMLURL     string `json:"html_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}

// Repository is a public repository owned by the user.
type Repository struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	HTMLURL     string    `json:"html_url"`
	Homepage    string    `json:"homepage,omitempty"`
	Stars       int       `json:"stars"`
	Topics      []string  `json:"topics,omitempty"`
	PushedAt    time.Time `json:"pushed_at"`
}

// Client wraps go-github with the transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware)
//  3. go-github (REST client, optional token auth)
type Client struct {
	gh *gh.Client
}

// NewClient creates a client. An empty token uses anonymous access.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// Intended for tests against an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchUser retrieves the public profile for username.
func (c *Client) FetchUser(ctx context.Context, username string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, ErrUsernameRequired
	}

	u, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		return User{}, fmt.Errorf("fetching github user %s: %w", username, err)
	}

	return User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Company:     u.GetCompany(),
		Location:    u.GetLocation(),
		Blog:        u.GetBlog(),
		HTMLURL:     u.GetHTMLURL(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
	}, nil
}

// ListRepositories returns up to limit source repositories owned by username,
// most recently pushed first. Forks and archived repositories are skipped.
func (c *Client) ListRepositories(ctx context.Context, username string, limit int) ([]Repository, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if limit <= 0 {
		limit = DefaultRepositoryLimit
	}

	opts := &gh.RepositoryListByUserOptions{
		Type:      "owner",
		Sort:      "pushed",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	repos := []Repository{}
	for {
		page, resp, err := c.gh.Repositories.ListByUser(ctx, username, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s (page %d): %w", username, opts.Page, err)
		}

		for _, r := range page {
			if r.GetFork() || r.GetArchived() {
				continue
			}
			repos = append(repos, mapRepository(r))
		}

		if len(repos) >= limit || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].PushedAt.After(repos[j].PushedAt)
	})
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

func mapRepository(r *gh.Repository) Repository {
	return Repository{
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		HTMLURL:     r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		Stars:       r.GetStargazersCount(),
		Topics:      r.Topics,
		PushedAt:    r.GetPushedAt().Time,
	}
}

// SnapshotMarkdown renders a user's repositories as a prompt context block.
func SnapshotMarkdown(username string, repos []Repository) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## GitHub\nProfile: https://github.com/%s\n", username)
	if len(repos) == 0 {
		sb.WriteString("No public repository details are available right now.")
		return sb.String()
	}

	sb.WriteString("Recent public repositories:\n")
	for _, r := range repos {
		fmt.Fprintf(&sb, "- [%s](%s)", r.Name, r.HTMLURL)
		if r.Language != "" {
			fmt.Fprintf(&sb, " (%s)", r.Language)
		}
		if r.Description != "" {
			fmt.Fprintf(&sb, ": %s", strings.TrimSpace(r.Description))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
