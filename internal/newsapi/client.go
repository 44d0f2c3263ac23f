// Package newsapi is a thin client for the upstream headline feed
// (newsapi.org contract). The article URL is the natural key every
// downstream record joins on; payload fields are denormalized copies.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUpstream marks feed failures the portal degrades on instead of failing.
var ErrUpstream = errors.New("news feed unavailable")

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	Source      Source `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

type headlinesResponse struct {
	Status   string    `json:"status"`
	Articles []Article `json:"articles"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
}

type Client struct {
	baseURL  string
	apiKey   string
	country  string
	pageSize int
	httpc    *http.Client
}

func NewClient(baseURL, apiKey, country string, pageSize int, timeout time.Duration) *Client {
	if pageSize <= 0 {
		pageSize = 50
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		country:  country,
		pageSize: pageSize,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// TopHeadlines fetches the current headline set. Category may be empty.
// Error-shaped or empty payloads come back as ErrUpstream, never a panic;
// articles without a URL are dropped since they cannot be keyed.
func (c *Client) TopHeadlines(ctx context.Context, category string) ([]Article, error) {
	q := url.Values{}
	q.Set("country", c.country)
	q.Set("pageSize", fmt.Sprint(c.pageSize))
	q.Set("apiKey", c.apiKey)
	if category != "" {
		q.Set("category", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var body headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return nil, fmt.Errorf("%w: status=%d code=%s %s", ErrUpstream, resp.StatusCode, body.Code, body.Message)
	}

	out := body.Articles[:0]
	for _, a := range body.Articles {
		if a.URL != "" {
			out = append(out, a)
		}
	}
	return out, nil
}
