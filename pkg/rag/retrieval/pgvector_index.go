package retrieval

import (
	"context"
	"fmt"

	"skintech-consultant-be/internal/repository/unitofwork"
	"skintech-consultant-be/pkg/embedding"
)

// PgVectorIndex embeds the query and searches product_embeddings by cosine distance.
type PgVectorIndex struct {
	repoFactory unitofwork.RepositoryFactory
	embedder    embedding.EmbeddingProvider
}

func NewPgVectorIndex(repoFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider) *PgVectorIndex {
	return &PgVectorIndex{
		repoFactory: repoFactory,
		embedder:    embedder,
	}
}

func (p *PgVectorIndex) Query(ctx context.Context, text string, k int) ([]Match, error) {
	embeddingRes, err := p.embedder.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := p.repoFactory.NewUnitOfWork(ctx)
	hits, err := uow.ProductEmbeddingRepository().SearchNearest(ctx, embeddingRes.Embedding.Values, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = Match{ID: h.Id, Distance: h.Distance, Metadata: h.Metadata}
	}
	return matches, nil
}
