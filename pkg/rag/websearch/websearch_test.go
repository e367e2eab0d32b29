package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skintech-consultant-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	results []SearchResult
	err     error
	calls   int
}

func (s *stubProvider) Search(_ context.Context, _ string, _ int) ([]SearchResult, error) {
	s.calls++
	return s.results, s.err
}

func TestGateway_FailureYieldsEmpty(t *testing.T) {
	g := NewGateway(&stubProvider{err: errors.New("timeout")}, logger.NewNopLogger())

	got := g.Search(context.Background(), "2025 sunscreen trends", DefaultMaxResults)

	assert.Empty(t, got.Results)
	assert.Error(t, got.Err)
}

func TestGateway_TruncatesToMaxResults(t *testing.T) {
	tests := []struct {
		name       string
		maxResults int
		wantLen    int
		wantCalls  int
	}{
		{name: "truncated", maxResults: 2, wantLen: 2, wantCalls: 1},
		{name: "larger than available", maxResults: 10, wantLen: 4, wantCalls: 1},
		{name: "zero", maxResults: 0, wantLen: 0, wantCalls: 0},
		{name: "negative", maxResults: -1, wantLen: 0, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{results: []SearchResult{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}}
			g := NewGateway(provider, logger.NewNopLogger())

			var got Response
			require.NotPanics(t, func() {
				got = g.Search(context.Background(), "q", tt.maxResults)
			})

			assert.Len(t, got.Results, tt.wantLen)
			assert.NoError(t, got.Err)
			assert.Equal(t, tt.wantCalls, provider.calls)
		})
	}
}

func TestDisabled(t *testing.T) {
	got := Disabled{}.Search(context.Background(), "q", DefaultMaxResults)

	assert.Empty(t, got.Results)
	assert.ErrorIs(t, got.Err, ErrSearchDisabled)
}

func TestTavilyProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "key", req.APIKey)
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, 3, req.MaxResults)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"title":"New SPF","url":"https://example.com/spf","content":"A new sunscreen."}]}`))
	}))
	defer srv.Close()

	got, err := NewTavilyProvider("key", srv.URL).Search(context.Background(), "新品防晒", 3)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, SearchResult{Title: "New SPF", URL: "https://example.com/spf", Snippet: "A new sunscreen."}, got[0])
}

func TestTavilyProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewTavilyProvider("bad", srv.URL).Search(context.Background(), "q", 3)
	assert.Error(t, err)
}

const ddgPage = `<html><body>
<div class="result__body">
  <h2 class="result__title"><a href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fretinol&amp;rut=x">Retinol guide</a></h2>
  <a class="result__snippet">How to start retinol.</a>
</div>
<div class="result__body">
  <h2 class="result__title"><a href="/relative">Ad</a></h2>
</div>
<div class="result__body">
  <h2 class="result__title"><a href="https://example.org/niacinamide">Niacinamide</a></h2>
  <a class="result__snippet">Brightening basics.</a>
</div>
<div class="result__body">
  <h2 class="result__title"><a href="https://example.net/extra">Extra</a></h2>
</div>
</body></html>`

func TestDuckDuckGoProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "retinol", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	got, err := NewDuckDuckGoProvider(srv.URL+"/html/").Search(context.Background(), "retinol", 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/retinol", got[0].URL)
	assert.Equal(t, "Retinol guide", got[0].Title)
	assert.Equal(t, "How to start retinol.", got[0].Snippet)
	assert.Equal(t, "https://example.org/niacinamide", got[1].URL)
}

func TestCachedProvider_FallsThroughWhenRedisUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()

	next := &stubProvider{results: []SearchResult{{Title: "t", URL: "https://example.com"}}}
	cached := NewCachedProvider(next, rdb, time.Minute, "tavily", logger.NewNopLogger())

	got, err := cached.Search(context.Background(), "q", 3)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, next.calls)
}
