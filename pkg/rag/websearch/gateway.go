package websearch

import (
	"context"
	"errors"

	"skintech-consultant-be/internal/pkg/logger"
)

const DefaultMaxResults = 3

var ErrSearchDisabled = errors.New("web search is not configured")

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Response is empty on failure; Err says why.
type Response struct {
	Results []SearchResult
	Err     error
}

type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

type Gateway struct {
	provider Provider
	logger   logger.ILogger
}

func NewGateway(provider Provider, logger logger.ILogger) *Gateway {
	return &Gateway{provider: provider, logger: logger}
}

// Search returns at most maxResults results. A non-positive limit yields no
// results without consulting the provider.
func (g *Gateway) Search(ctx context.Context, query string, maxResults int) Response {
	if maxResults <= 0 {
		return Response{}
	}
	results, err := g.provider.Search(ctx, query, maxResults)
	if err != nil {
		g.logger.Error("WEBSEARCH", "Search provider failed", map[string]interface{}{
			"error": err.Error(),
		})
		return Response{Err: err}
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return Response{Results: results}
}

// Disabled answers every query with no evidence.
type Disabled struct{}

func (Disabled) Search(_ context.Context, _ string, _ int) Response {
	return Response{Err: ErrSearchDisabled}
}
