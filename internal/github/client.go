// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "archgen/internal/errors"
	"archgen/internal/model"
)

const (
	DefaultBaseURL = "https://api.github.com/"

	maxRetries   = 3
	maxRateWait  = 30 * time.Second
	listPageSize = 100
)

// retryBackoff is the base delay between retries of a failed 5xx request.
var retryBackoff = 500 * time.Millisecond

// Client is a wrapper around the go-github client. Requests are made on
// behalf of whichever token the caller supplies, so one Client serves
// installation tokens and user OAuth tokens alike.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client targeting the given API base URL.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github api url %q: %w", baseURL, err)
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// withToken returns a go-github client authenticated with the given token.
// An empty token yields an anonymous client.
func (c *Client) withToken(ctx context.Context, token string) *github.Client {
	httpClient := c.httpClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
	}
	gh := github.NewClient(httpClient)
	gh.BaseURL = c.baseURL
	gh.UserAgent = "archgen"
	return gh
}

// FetchTree fetches the recursive git tree of owner/repo at ref. A "refs/heads/"
// prefix is stripped from ref.
func (c *Client) FetchTree(ctx context.Context, token, owner, repo, ref string) ([]model.TreeEntry, error) {
	branch := BranchFromRef(ref)
	gh := c.withToken(ctx, token)

	var tree *github.Tree
	err := c.do(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		tree, resp, err = gh.Git.GetTree(ctx, owner, repo, branch, true)
		return resp, err
	})
	if err != nil {
		return nil, mapError(err, "repository tree", fmt.Sprintf("%s/%s@%s", owner, repo, branch))
	}

	if tree.GetTruncated() {
		c.logger.Warn("Repository tree truncated by GitHub, using partial listing", "owner", owner, "repo", repo, "ref", branch, "entries", len(tree.Entries))
	}

	entries := make([]model.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, model.TreeEntry{Path: e.GetPath(), Type: e.GetType()})
	}
	return entries, nil
}

// ListUserRepositories fetches every repository visible to the token's user,
// most recently updated first. It handles API pagination transparently.
func (c *Client) ListUserRepositories(ctx context.Context, token string) ([]*model.Repository, error) {
	gh := c.withToken(ctx, token)
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: listPageSize},
	}

	var all []*model.Repository
	for {
		c.logger.Debug("Fetching user repositories page", "page", opts.Page)

		var repos []*github.Repository
		var resp *github.Response
		err := c.do(ctx, func() (*github.Response, error) {
			var err error
			repos, resp, err = gh.Repositories.ListByAuthenticatedUser(ctx, opts)
			return resp, err
		})
		if err != nil {
			return nil, mapError(err, "user repositories", "")
		}

		for _, r := range repos {
			all = append(all, toInternalRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// do runs op, retrying server errors with backoff and waiting out primary
// rate limits when the reset is near.
func (c *Client) do(ctx context.Context, op func() (*github.Response, error)) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var resp *github.Response
		resp, err = op()
		if err == nil {
			return nil
		}

		var wait time.Duration
		var rateErr *github.RateLimitError
		switch {
		case errors.As(err, &rateErr):
			wait = time.Until(rateErr.Rate.Reset.Time)
			if wait > maxRateWait {
				return err
			}
			if wait < 0 {
				wait = 0
			}
			c.logger.Warn("GitHub rate limit hit, waiting for reset", "wait", wait, "attempt", attempt)
		case resp != nil && resp.StatusCode >= http.StatusInternalServerError:
			wait = retryBackoff * time.Duration(attempt)
			c.logger.Warn("GitHub server error, retrying", "status", resp.StatusCode, "attempt", attempt)
		default:
			return err
		}

		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

// mapError translates go-github errors into the application's error kinds.
func mapError(err error, resource string, id string) error {
	status := statusOf(err)
	switch {
	case status == http.StatusNotFound:
		return custom_errors.NotFound(resource, id)
	case status > 0:
		return custom_errors.Upstream(fmt.Sprintf("GitHub API error: %d", status), status, err)
	default:
		return custom_errors.Upstream("GitHub request failed", 0, err)
	}
}

func statusOf(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return rateErr.Response.StatusCode
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return abuseErr.Response.StatusCode
	}
	return 0
}

// BranchFromRef strips the "refs/heads/" prefix from a push ref.
func BranchFromRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

// ParseFullName splits an "owner/name" repository identifier.
func ParseFullName(fullName string) (owner, name string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &custom_errors.ErrInvalidRepoFormat{Repo: fullName}
	}
	return parts[0], parts[1], nil
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) *model.Repository {
	repo := &model.Repository{
		GithubRepoID: r.GetID(),
		Name:         r.GetName(),
		FullName:     r.GetFullName(),
		Description:  r.Description,
	}
	if u := r.GetHTMLURL(); u != "" {
		repo.URL = &u
	}
	return repo
}
