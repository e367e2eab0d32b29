package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	got := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, got[0], 1e-6)
	assert.InDelta(t, 0.8, got[1], 1e-6)

	zero := normalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestOllamaProvider_PrefixesByTask(t *testing.T) {
	var prompts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompts = append(prompts, req.Prompt)
		_, _ = w.Write([]byte(`{"embedding":[1,1,1,1]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	resp, err := p.Generate(context.Background(), "hydrating serum", TaskRetrievalQuery)
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), "Product: X", TaskRetrievalDocument)
	require.NoError(t, err)

	assert.Equal(t, []string{"search_query: hydrating serum", "search_document: Product: X"}, prompts)

	var norm float64
	for _, v := range resp.Embedding.Values {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestOpenAIProvider_RequestsFixedDimensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req openaiEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, Dimensions, req.Dimensions)
		assert.Equal(t, "text-embedding-3-small", req.Model)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0,2]}]}`))
	}))
	defer srv.Close()

	resp, err := NewOpenAIProvider("sk-test", srv.URL, "").Generate(context.Background(), "q", TaskRetrievalQuery)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, resp.Embedding.Values)
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIProvider("sk-test", srv.URL, "").Generate(context.Background(), "q", TaskRetrievalQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider("openai", "", "", "")
	assert.Error(t, err)

	p, err := NewProvider("ollama", "", "", "")
	require.NoError(t, err)
	assert.IsType(t, &OllamaProvider{}, p)

	_, err = NewProvider("gemini", "", "", "key")
	assert.Error(t, err)
}
