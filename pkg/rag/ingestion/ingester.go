package ingestion

import (
	"context"
	"fmt"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/repository/contract"
	"skintech-consultant-be/pkg/embedding"
)

const DefaultBatchSize = 100

type Sink interface {
	UpsertBulk(ctx context.Context, docs []contract.ProductDocument) error
}

// Progress is called after each committed batch with the running total.
type Progress func(done, total int)

type Ingester struct {
	embedder  embedding.EmbeddingProvider
	sink      Sink
	batchSize int
}

func NewIngester(embedder embedding.EmbeddingProvider, sink Sink, batchSize int) *Ingester {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Ingester{embedder: embedder, sink: sink, batchSize: batchSize}
}

// Ingest embeds and upserts products batch by batch. Re-running with the same
// ids replaces the earlier rows.
func (in *Ingester) Ingest(ctx context.Context, products []entity.Product, progress Progress) (int, error) {
	done := 0
	for start := 0; start < len(products); start += in.batchSize {
		end := min(start+in.batchSize, len(products))

		docs := make([]contract.ProductDocument, 0, end-start)
		for i := start; i < end; i++ {
			p := products[i]
			text := Document(p)
			resp, err := in.embedder.Generate(ctx, text, embedding.TaskRetrievalDocument)
			if err != nil {
				return done, fmt.Errorf("embed product %s: %w", p.Id, err)
			}
			docs = append(docs, contract.ProductDocument{
				Product:  &p,
				Document: text,
				Vector:   resp.Embedding.Values,
			})
		}

		if err := in.sink.UpsertBulk(ctx, docs); err != nil {
			return done, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		done = end
		if progress != nil {
			progress(done, len(products))
		}
	}
	return done, nil
}
