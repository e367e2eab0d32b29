package intent

import (
	"context"
	"math"
	"strings"

	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/pkg/llm"
)

type Category string

const (
	ProductKnowledge  Category = "product_knowledge"
	ExternalKnowledge Category = "external_knowledge"
	GeneralChat       Category = "general_chat"
)

// ConfidenceGate is the keyword confidence at which the fallback is skipped.
const ConfidenceGate = 0.6

var (
	ProductKeywords = []string{
		"推荐", "成分", "护肤品", "面霜", "精华", "乳液", "防晒",
		"美白", "抗老", "祛痘", "洗面奶", "水杨酸", "A醇", "玻尿酸",
	}
	ExternalKeywords = []string{
		"最新", "2025", "新品", "趋势", "新闻", "发布", "天气", "价格", "哪里买",
	}
)

// Result is never persisted. FallbackErr is set when the generative fallback
// failed and the result is the safe default.
type Result struct {
	Intent       Category
	Confidence   float64
	UsedFallback bool
	FallbackErr  error
}

// Fallback resolves queries the keyword tier could not decide.
type Fallback interface {
	Resolve(ctx context.Context, query string) Result
}

type Classifier struct {
	fallback Fallback
}

func NewClassifier(fallback Fallback) *Classifier {
	return &Classifier{fallback: fallback}
}

// Classify never fails; provider errors come back as a general_chat result.
func (c *Classifier) Classify(ctx context.Context, query string) Result {
	result := ScoreKeywords(query)
	if result.Confidence >= ConfidenceGate {
		return result
	}
	return c.fallback.Resolve(ctx, query)
}

func countMatches(query string, keywords []string) int {
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(query, kw) {
			matches++
		}
	}
	return matches
}

// ScoreKeywords is the keyword tier. External keywords win over product ones.
func ScoreKeywords(query string) Result {
	external := countMatches(query, ExternalKeywords)
	product := countMatches(query, ProductKeywords)

	switch {
	case external > 0:
		return Result{Intent: ExternalKnowledge, Confidence: math.Min(1.0, 0.8+0.1*float64(external))}
	case product > 0:
		return Result{Intent: ProductKnowledge, Confidence: math.Min(1.0, 0.7+0.1*float64(product))}
	default:
		return Result{Intent: GeneralChat, Confidence: 0.4}
	}
}

// StaticFallback is used when no generation provider is configured.
type StaticFallback struct{}

func (StaticFallback) Resolve(_ context.Context, _ string) Result {
	return Result{Intent: GeneralChat, Confidence: 0.5}
}

const classifierPrompt = `You are an intent classifier for a skincare consultation assistant.
Classify the user's message into exactly one of these labels:
PRODUCT_KNOWLEDGE - questions about skincare products, ingredients, efficacy or recommendations.
EXTERNAL_KNOWLEDGE - questions needing current information such as news, releases, trends, prices or weather.
GENERAL_CHAT - greetings, small talk and anything else.
Answer with the label only.`

type LLMFallback struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewLLMFallback(provider llm.LLMProvider, logger logger.ILogger) *LLMFallback {
	return &LLMFallback{provider: provider, logger: logger}
}

func (f *LLMFallback) Resolve(ctx context.Context, query string) Result {
	label, err := f.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: classifierPrompt},
		{Role: llm.RoleUser, Content: query},
	}, llm.WithTemperature(0), llm.WithMaxTokens(20))
	if err != nil {
		f.logger.Warn("INTENT", "Fallback classification failed", map[string]interface{}{
			"error": err.Error(),
		})
		return Result{Intent: GeneralChat, Confidence: 0.0, UsedFallback: true, FallbackErr: err}
	}

	return Result{Intent: ParseLabel(label), Confidence: 0.95, UsedFallback: true}
}

// ParseLabel maps a model answer onto a category by substring.
func ParseLabel(label string) Category {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "PRODUCT"):
		return ProductKnowledge
	case strings.Contains(upper, "EXTERNAL"):
		return ExternalKnowledge
	default:
		return GeneralChat
	}
}

// NewFromProvider picks the fallback tier from the configured provider.
func NewFromProvider(provider llm.LLMProvider, logger logger.ILogger) *Classifier {
	if provider == nil {
		return NewClassifier(StaticFallback{})
	}
	return NewClassifier(NewLLMFallback(provider, logger))
}
