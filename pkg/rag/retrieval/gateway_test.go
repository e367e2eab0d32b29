package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	matches []Match
	err     error
	gotK    int
}

func (f *fakeIndex) Query(_ context.Context, _ string, k int) ([]Match, error) {
	f.gotK = k
	return f.matches, f.err
}

func productMetadata(t *testing.T, id, name string) []byte {
	t.Helper()
	b, err := json.Marshal(entity.Product{
		Id:                id,
		ProductName:       name,
		Brand:             "CeraVe",
		CoreIngredients:   []string{"Ceramides"},
		SuitableSkinTypes: []string{"dry"},
		Efficacy:          []string{"Moisturizing"},
		PriceRange:        "budget",
	})
	require.NoError(t, err)
	return b
}

func TestRetrieve_ThresholdFiltering(t *testing.T) {
	index := &fakeIndex{matches: []Match{
		{ID: "p1", Distance: 0.1, Metadata: productMetadata(t, "p1", "Barrier Cream")},
		{ID: "p2", Distance: 0.4, Metadata: productMetadata(t, "p2", "Daily Lotion")},
		{ID: "p3", Distance: 1.5, Metadata: productMetadata(t, "p3", "Night Serum")},
	}}
	g := NewGateway(index, DefaultThreshold, logger.NewNopLogger())

	got := g.Retrieve(context.Background(), "moisturizer", DefaultTopK)

	require.Len(t, got.Products, 1)
	assert.Equal(t, "p1", got.Products[0].Id)
	assert.InDelta(t, 0.9, got.MaxSimilarity, 1e-9)
	assert.False(t, got.BelowThreshold)
	assert.Equal(t, 3, got.Hits)
	assert.Equal(t, DefaultTopK, index.gotK)
	assert.NoError(t, got.Err)
}

func TestRetrieve_NoRows(t *testing.T) {
	g := NewGateway(&fakeIndex{}, DefaultThreshold, logger.NewNopLogger())

	got := g.Retrieve(context.Background(), "anything", DefaultTopK)

	assert.Empty(t, got.Products)
	assert.Equal(t, 0.0, got.MaxSimilarity)
	assert.True(t, got.BelowThreshold)
	assert.Equal(t, 0, got.Hits)
}

func TestRetrieve_MalformedMetadataDropped(t *testing.T) {
	index := &fakeIndex{matches: []Match{
		{ID: "bad-json", Distance: 0.05, Metadata: []byte("{not json")},
		{ID: "missing-name", Distance: 0.1, Metadata: []byte(`{"id":"x","brand":"La Mer"}`)},
	}}
	g := NewGateway(index, DefaultThreshold, logger.NewNopLogger())

	got := g.Retrieve(context.Background(), "cream", DefaultTopK)

	assert.Empty(t, got.Products)
	assert.True(t, got.BelowThreshold)
	assert.InDelta(t, 0.95, got.MaxSimilarity, 1e-9)
	assert.Equal(t, 2, got.Hits)
}

func TestRetrieve_EnumValidation(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		kept     bool
	}{
		{
			name:     "valid enums",
			metadata: `{"id":"a","product_name":"Gel","brand":"Avene","suitable_skin_types":["oily","combination"],"price_range":"mid-range"}`,
			kept:     true,
		},
		{
			name:     "price range omitted",
			metadata: `{"id":"b","product_name":"Gel","brand":"Avene","suitable_skin_types":["normal"]}`,
			kept:     true,
		},
		{
			name:     "unknown skin type",
			metadata: `{"id":"c","product_name":"Gel","brand":"Avene","suitable_skin_types":["dry","scaly"],"price_range":"budget"}`,
			kept:     false,
		},
		{
			name:     "unknown price range",
			metadata: `{"id":"d","product_name":"Gel","brand":"Avene","suitable_skin_types":["dry"],"price_range":"cheap"}`,
			kept:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := &fakeIndex{matches: []Match{{ID: "m", Distance: 0.1, Metadata: []byte(tt.metadata)}}}
			g := NewGateway(index, DefaultThreshold, logger.NewNopLogger())

			got := g.Retrieve(context.Background(), "gel", DefaultTopK)

			if tt.kept {
				assert.Len(t, got.Products, 1)
			} else {
				assert.Empty(t, got.Products)
			}
			assert.Equal(t, 1, got.Hits)
			assert.InDelta(t, 0.9, got.MaxSimilarity, 1e-9)
		})
	}
}

func TestRetrieve_IndexFailureDegrades(t *testing.T) {
	g := NewGateway(&fakeIndex{err: errors.New("connection refused")}, DefaultThreshold, logger.NewNopLogger())

	got := g.Retrieve(context.Background(), "cream", DefaultTopK)

	assert.Empty(t, got.Products)
	assert.True(t, got.BelowThreshold)
	assert.Error(t, got.Err)
}

func TestDisabled(t *testing.T) {
	got := Disabled{}.Retrieve(context.Background(), "cream", DefaultTopK)

	assert.True(t, got.BelowThreshold)
	assert.ErrorIs(t, got.Err, ErrIndexUnavailable)
}
