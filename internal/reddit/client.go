// Package reddit implements the search client that feeds the ranking
// pipeline. It talks to Reddit's public JSON endpoints by default, or to
// the OAuth API when app credentials are configured.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/postminer/postminer/internal/config"
	"github.com/postminer/postminer/internal/post"
)

const (
	publicBaseURL = "https://www.reddit.com"
	oauthBaseURL  = "https://oauth.reddit.com"
	tokenURL      = "https://www.reddit.com/api/v1/access_token"
)

// Client searches Reddit for posts.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// New creates a Client from configuration. With OAuth app credentials the
// client authenticates via the client-credentials grant and uses the
// OAuth API host; otherwise it reads the public JSON endpoints.
func New(cfg config.RedditConfig) *Client {
	c := &Client{
		baseURL:   publicBaseURL,
		userAgent: cfg.UserAgent,
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		creds := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
		// The token request goes through its own timeout-bounded client.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient,
			&http.Client{Timeout: cfg.Timeout()})
		c.http = creds.Client(ctx)
		c.http.Timeout = cfg.Timeout()
		c.baseURL = oauthBaseURL
	} else {
		c.http = &http.Client{Timeout: cfg.Timeout()}
	}

	return c
}

// listing is the JSON envelope Reddit wraps search results in.
type listing struct {
	Data struct {
		Children []struct {
			Data post.Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search searches a subreddit for posts matching the query.
func (c *Client) Search(ctx context.Context, query, subreddit string, limit int) ([]post.Post, error) {
	apiURL := fmt.Sprintf("%s/r/%s/search.json?q=%s&limit=%d&restrict_sr=1&raw_json=1",
		c.baseURL, url.PathEscape(subreddit), url.QueryEscape(query), limit)
	return c.fetchPosts(ctx, apiURL)
}

// ListSubreddit lists posts from a subreddit with the given sort
// (hot, new, top).
func (c *Client) ListSubreddit(ctx context.Context, subreddit, sort string, limit int) ([]post.Post, error) {
	apiURL := fmt.Sprintf("%s/r/%s/%s.json?limit=%d&raw_json=1",
		c.baseURL, url.PathEscape(subreddit), url.PathEscape(sort), limit)
	return c.fetchPosts(ctx, apiURL)
}

func (c *Client) fetchPosts(ctx context.Context, apiURL string) ([]post.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var result listing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	posts := make([]post.Post, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		posts = append(posts, child.Data)
	}

	return posts, nil
}
