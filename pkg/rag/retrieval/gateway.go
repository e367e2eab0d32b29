package retrieval

import (
	"context"
	"encoding/json"
	"errors"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultThreshold = 0.7
	DefaultTopK      = 3
)

var ErrIndexUnavailable = errors.New("vector index is not configured")

// Match is one nearest-neighbour row. Distance is cosine distance in [0,2].
type Match struct {
	ID       string
	Distance float64
	Metadata []byte
}

type VectorIndex interface {
	Query(ctx context.Context, text string, k int) ([]Match, error)
}

// Result reports BelowThreshold whenever no product survived filtering. Hits is
// the raw row count, so zero rows and all-filtered rows stay distinguishable.
// Err carries the index failure when the result is a degraded default.
type Result struct {
	Products       []entity.Product
	MaxSimilarity  float64
	BelowThreshold bool
	Hits           int
	Err            error
}

type Gateway struct {
	index     VectorIndex
	threshold float64
	validate  *validator.Validate
	logger    logger.ILogger
}

func NewGateway(index VectorIndex, threshold float64, logger logger.ILogger) *Gateway {
	return &Gateway{
		index:     index,
		threshold: threshold,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (g *Gateway) Retrieve(ctx context.Context, query string, topK int) Result {
	matches, err := g.index.Query(ctx, query, topK)
	if err != nil {
		g.logger.Error("RETRIEVAL", "Vector index query failed", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{BelowThreshold: true, Err: err}
	}

	result := Result{Hits: len(matches)}
	for _, m := range matches {
		similarity := 1 - m.Distance
		if similarity > result.MaxSimilarity {
			result.MaxSimilarity = similarity
		}
		if similarity < g.threshold {
			continue
		}

		product, err := g.decode(m.Metadata)
		if err != nil {
			g.logger.Warn("RETRIEVAL", "Dropping hit with malformed product metadata", map[string]interface{}{
				"id":    m.ID,
				"error": err.Error(),
			})
			continue
		}
		result.Products = append(result.Products, product)
	}

	result.BelowThreshold = len(result.Products) == 0
	return result
}

func (g *Gateway) decode(metadata []byte) (entity.Product, error) {
	var product entity.Product
	if err := json.Unmarshal(metadata, &product); err != nil {
		return entity.Product{}, err
	}
	if err := g.validate.Struct(product); err != nil {
		return entity.Product{}, err
	}
	return product, nil
}

// Disabled is used when no embedding provider could be configured.
type Disabled struct{}

func (Disabled) Retrieve(_ context.Context, _ string, _ int) Result {
	return Result{BelowThreshold: true, Err: ErrIndexUnavailable}
}
