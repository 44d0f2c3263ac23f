package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "us", 50, 2*time.Second)
}

func TestTopHeadlines_ParsesArticles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title":"A","description":"d","url":"https://news.example/a","urlToImage":"img","source":{"name":"Wire"},"publishedAt":"2026-01-02T03:04:05Z"},
				{"title":"no url, dropped","description":"","url":""}
			]
		}`))
	})

	articles, err := c.TopHeadlines(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "A", articles[0].Title)
	assert.Equal(t, "Wire", articles[0].Source.Name)
}

func TestTopHeadlines_CategoryPassedThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "health", r.URL.Query().Get("category"))
		w.Write([]byte(`{"status":"ok","articles":[]}`))
	})

	articles, err := c.TopHeadlines(context.Background(), "health")
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestTopHeadlines_ErrorShapedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"error","code":"rateLimited","message":"too many requests"}`))
	})

	_, err := c.TopHeadlines(context.Background(), "")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestTopHeadlines_GarbageBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := c.TopHeadlines(context.Background(), "")
	assert.ErrorIs(t, err, ErrUpstream)
}
