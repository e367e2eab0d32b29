package intent

import (
	"context"
	"errors"
	"testing"

	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	answer   string
	err      error
	calls    int
	lastOpts *llm.Options
}

func (s *stubProvider) Chat(_ context.Context, _ []llm.Message, options ...llm.Option) (string, error) {
	s.calls++
	s.lastOpts = llm.DefaultOptions(options...)
	return s.answer, s.err
}

func (s *stubProvider) Stream(_ context.Context, _ []llm.Message, _ ...llm.Option) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error)
	close(out)
	close(errs)
	return out, errs
}

func TestScoreKeywords(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantIntent     Category
		wantConfidence float64
	}{
		{
			name:           "single external keyword",
			query:          "今天天气怎么样",
			wantIntent:     ExternalKnowledge,
			wantConfidence: 0.9,
		},
		{
			name:           "external beats product",
			query:          "2025最新的防晒推荐",
			wantIntent:     ExternalKnowledge,
			wantConfidence: 1.0,
		},
		{
			name:           "several product keywords",
			query:          "推荐一款祛痘精华",
			wantIntent:     ProductKnowledge,
			wantConfidence: 1.0,
		},
		{
			name:           "one product keyword",
			query:          "面霜怎么用",
			wantIntent:     ProductKnowledge,
			wantConfidence: 0.8,
		},
		{
			name:           "no keywords",
			query:          "hello there",
			wantIntent:     GeneralChat,
			wantConfidence: 0.4,
		},
		{
			name:           "keywords are case sensitive",
			query:          "what about a醇",
			wantIntent:     GeneralChat,
			wantConfidence: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreKeywords(tt.query)
			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.False(t, got.UsedFallback)
		})
	}
}

func TestClassify_ExternalKeywordSkipsFallback(t *testing.T) {
	provider := &stubProvider{answer: "PRODUCT_KNOWLEDGE"}
	c := NewFromProvider(provider, logger.NewNopLogger())

	for _, query := range []string{"最新新闻", "哪里买", "价格多少", "新品发布了吗"} {
		got := c.Classify(context.Background(), query)
		assert.Equal(t, ExternalKnowledge, got.Intent, query)
		assert.GreaterOrEqual(t, got.Confidence, 0.8, query)
		assert.False(t, got.UsedFallback, query)
	}
	assert.Equal(t, 0, provider.calls)
}

func TestClassify_GenerativeFallback(t *testing.T) {
	provider := &stubProvider{answer: "GENERAL_CHAT"}
	c := NewFromProvider(provider, logger.NewNopLogger())

	got := c.Classify(context.Background(), "how are you")

	assert.Equal(t, GeneralChat, got.Intent)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
	assert.True(t, got.UsedFallback)
	assert.NoError(t, got.FallbackErr)
	require.Equal(t, 1, provider.calls)
	assert.Equal(t, 0.0, provider.lastOpts.Temperature)
	assert.Equal(t, 20, provider.lastOpts.MaxTokens)
}

func TestClassify_FallbackFailureDegrades(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream down")}
	c := NewFromProvider(provider, logger.NewNopLogger())

	got := c.Classify(context.Background(), "how are you")

	assert.Equal(t, GeneralChat, got.Intent)
	assert.Equal(t, 0.0, got.Confidence)
	assert.True(t, got.UsedFallback)
	assert.Error(t, got.FallbackErr)
}

func TestClassify_DisabledProvider(t *testing.T) {
	c := NewFromProvider(nil, logger.NewNopLogger())

	got := c.Classify(context.Background(), "how are you")

	assert.Equal(t, GeneralChat, got.Intent)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.False(t, got.UsedFallback)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"PRODUCT_KNOWLEDGE", ProductKnowledge},
		{"Label: EXTERNAL_KNOWLEDGE", ExternalKnowledge},
		{"GENERAL_CHAT", GeneralChat},
		{"something else", GeneralChat},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabel(tt.label))
		})
	}
}
