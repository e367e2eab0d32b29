package ingestion

import (
	"context"
	"errors"
	"testing"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/repository/contract"
	"skintech-consultant-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	tests := []struct {
		name    string
		product entity.Product
		want    string
	}{
		{
			name: "with caution",
			product: entity.Product{
				ProductName:       "CeraVe Hydra Cream",
				Brand:             "CeraVe",
				CoreIngredients:   []string{"Ceramides", "Hyaluronic Acid"},
				SuitableSkinTypes: []string{"dry", "sensitive"},
				Efficacy:          []string{"Moisturizing"},
				RiskIngredients:   []string{"Fragrance"},
				PriceRange:        "budget",
			},
			want: "Product: CeraVe Hydra Cream, Brand: CeraVe, Contains: Ceramides, Hyaluronic Acid, Good for: dry, sensitive, Effects: Moisturizing, Caution: Fragrance, Price: budget",
		},
		{
			name: "no caution",
			product: entity.Product{
				ProductName:       "SK-II Glow Serum",
				Brand:             "SK-II",
				CoreIngredients:   []string{"Niacinamide"},
				SuitableSkinTypes: []string{"oily"},
				Efficacy:          []string{"Brightening", "Soothing"},
				PriceRange:        "luxury",
			},
			want: "Product: SK-II Glow Serum, Brand: SK-II, Contains: Niacinamide, Good for: oily, Effects: Brightening, Soothing, Caution: None, Price: luxury",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Document(tt.product))
		})
	}
}

func TestGenerator_ProducesValidProducts(t *testing.T) {
	products := NewGenerator(42).Generate(200)
	require.Len(t, products, 200)

	ids := map[string]bool{}
	for _, p := range products {
		assert.NotEmpty(t, p.Id)
		assert.False(t, ids[p.Id], "duplicate id %s", p.Id)
		ids[p.Id] = true

		assert.Contains(t, Brands, p.Brand)
		assert.Contains(t, PriceRanges, p.PriceRange)
		assert.True(t, len(p.CoreIngredients) >= 1 && len(p.CoreIngredients) <= 3)
		assert.True(t, len(p.SuitableSkinTypes) >= 1 && len(p.SuitableSkinTypes) <= 3)
		assert.True(t, len(p.Efficacy) >= 1 && len(p.Efficacy) <= 2)
		assert.LessOrEqual(t, len(p.RiskIngredients), 1)
		assert.NotNil(t, p.RiskIngredients)

		seen := map[string]bool{}
		for _, ing := range p.CoreIngredients {
			assert.False(t, seen[ing], "ingredient sampled twice")
			seen[ing] = true
		}
	}
}

type fakeEmbedder struct {
	fail string
}

func (f fakeEmbedder) Generate(_ context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.fail != "" && text == f.fail {
		return nil, errors.New("quota exceeded")
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0}}}, nil
}

type recordingSink struct {
	batches [][]contract.ProductDocument
}

func (s *recordingSink) UpsertBulk(_ context.Context, docs []contract.ProductDocument) error {
	s.batches = append(s.batches, docs)
	return nil
}

func TestIngester_Batches(t *testing.T) {
	products := NewGenerator(7).Generate(250)
	sink := &recordingSink{}
	var progress []int

	n, err := NewIngester(fakeEmbedder{}, sink, 100).Ingest(context.Background(), products, func(done, _ int) {
		progress = append(progress, done)
	})

	require.NoError(t, err)
	assert.Equal(t, 250, n)
	require.Len(t, sink.batches, 3)
	assert.Len(t, sink.batches[0], 100)
	assert.Len(t, sink.batches[2], 50)
	assert.Equal(t, []int{100, 200, 250}, progress)
	assert.Equal(t, products[0].Id, sink.batches[0][0].Product.Id)
	assert.Equal(t, products[1].Id, sink.batches[0][1].Product.Id)
	assert.Equal(t, Document(products[0]), sink.batches[0][0].Document)
}

func TestIngester_StopsOnEmbeddingFailure(t *testing.T) {
	products := NewGenerator(7).Generate(150)
	sink := &recordingSink{}

	n, err := NewIngester(fakeEmbedder{fail: Document(products[120])}, sink, 100).Ingest(context.Background(), products, nil)

	require.Error(t, err)
	assert.Equal(t, 100, n)
	assert.Len(t, sink.batches, 1)
}
