package contract

import (
	"context"

	"skintech-consultant-be/internal/entity"
)

// ProductDocument is one row to index: the product, its embedding text and vector.
type ProductDocument struct {
	Product  *entity.Product
	Document string
	Vector   []float32
}

// ScoredProductEmbedding is a raw nearest-neighbour hit. Distance is cosine distance in [0,2].
type ScoredProductEmbedding struct {
	Id       string
	Distance float64
	Metadata []byte
}

type ProductEmbeddingRepository interface {
	UpsertBulk(ctx context.Context, docs []ProductDocument) error
	SearchNearest(ctx context.Context, vector []float32, limit int) ([]*ScoredProductEmbedding, error)
	Count(ctx context.Context) (int64, error)
}
